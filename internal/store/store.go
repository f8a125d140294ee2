// Package store caches simplified derivatives keyed by their input tokens, so
// repeated diff requests for the same expression skip the rebuild.
package store

import "errors"

// Store persists derivative trees as JSON documents.
// Implementations must be safe for concurrent use.
type Store interface {
	// Get returns the document stored under key, or ErrNotFound.
	Get(key string) ([]byte, error)

	// Put stores data under key, replacing any previous document.
	Put(key string, data []byte) error

	// Len returns the number of stored documents.
	Len() (int, error)

	// Close releases any resources. Closing twice is not an error.
	Close() error
}

var (
	// ErrNotFound indicates no document is stored under the key.
	ErrNotFound = errors.New("derivative not cached")

	// ErrStoreClosed indicates the store has been closed.
	ErrStoreClosed = errors.New("derivative store closed")
)

// Open returns the store selected by driver: "memory" or "sqlite".
func Open(driver, path string) (Store, error) {
	switch driver {
	case "memory":
		return NewMemoryStore(), nil
	case "sqlite":
		return NewSQLiteStore(path)
	}
	return nil, errors.New("unknown store driver: " + driver)
}
