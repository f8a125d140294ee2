package store

import (
	"encoding/json"
	"errors"
	"fmt"

	calculus "github.com/njchilds90/gocalculus"
)

// Key identifies an expression by its parsed tree, so token spellings that
// build the same tree share an entry and distinct trees never collide.
func Key(e *calculus.Expression) (string, error) {
	doc, err := calculus.ToJSON(e.Root())
	if err != nil {
		return "", fmt.Errorf("encode key: %w", err)
	}
	return doc, nil
}

// Cached returns the simplified derivative of e, loading it from s when key
// is present and computing and storing it otherwise. hit reports whether the
// result came from the store. A document that no longer decodes is replaced.
func Cached(s Store, e *calculus.Expression, key string) (d *calculus.Expression, hit bool, err error) {
	data, err := s.Get(key)
	switch {
	case err == nil:
		if d, derr := decode(data); derr == nil {
			return d, true, nil
		}
	case !errors.Is(err, ErrNotFound):
		return nil, false, err
	}

	d, err = e.Derivative()
	if err != nil {
		return nil, false, err
	}
	doc, err := calculus.ToJSON(d.Root())
	if err != nil {
		return nil, false, fmt.Errorf("encode derivative: %w", err)
	}
	if err := s.Put(key, []byte(doc)); err != nil {
		return nil, false, err
	}
	return d, false, nil
}

func decode(data []byte) (*calculus.Expression, error) {
	var m map[string]interface{}
	if err := json.Unmarshal(data, &m); err != nil {
		return nil, err
	}
	root, err := calculus.FromJSON(m)
	if err != nil {
		return nil, err
	}
	return calculus.NewExpression(root), nil
}
