// Package web renders an expression, its derivative and a table of samples as
// an HTML page.
package web

import (
	"embed"
	"io"
	"net/url"
	"strconv"
	"strings"

	"github.com/google/safehtml"
	"github.com/google/safehtml/template"

	calculus "github.com/njchilds90/gocalculus"
)

//go:embed templates/*
var templateFS embed.FS

// Page is the view model of templates/view.html. When Error is set only the
// error is shown.
type Page struct {
	Expression      string
	LaTeX           string
	Derivative      string
	DerivativeLaTeX string
	From, To        float64
	Points          []calculus.Point
	ZoomOut         safehtml.URL

	Error string
	Kind  string
}

// NewPage builds the view of e and its derivative d sampled in s.
func NewPage(tokens []string, e, d *calculus.Expression, s calculus.Samples, from, to float64) Page {
	return Page{
		Expression:      e.String(),
		LaTeX:           e.LaTeX(),
		Derivative:      d.String(),
		DerivativeLaTeX: d.LaTeX(),
		From:            from,
		To:              to,
		Points:          s.Points,
		ZoomOut:         ViewURL(tokens, from-(to-from)/2, to+(to-from)/2),
	}
}

// ErrorPage shows err in place of the expression.
func ErrorPage(err error) Page {
	return Page{Error: err.Error(), Kind: calculus.ErrorKind(err)}
}

// ViewURL links to the view of tokens over [from, to].
func ViewURL(tokens []string, from, to float64) safehtml.URL {
	q := url.Values{}
	q.Set("tokens", strings.Join(tokens, ","))
	q.Set("from", strconv.FormatFloat(from, 'g', -1, 64))
	q.Set("to", strconv.FormatFloat(to, 'g', -1, 64))
	return safehtml.URLSanitized("/view?" + q.Encode())
}

// SplitTokens splits the comma separated tokens query parameter.
func SplitTokens(raw string) []string {
	if strings.TrimSpace(raw) == "" {
		return nil
	}
	parts := strings.Split(raw, ",")
	for i, p := range parts {
		parts[i] = strings.TrimSpace(p)
	}
	return parts
}

type Renderer struct {
	view *template.Template
}

func NewRenderer() (*Renderer, error) {
	trustedFS := template.TrustedFSFromEmbed(templateFS)
	view, err := template.New("view.html").ParseFS(trustedFS, "templates/view.html")
	if err != nil {
		return nil, err
	}
	return &Renderer{view: view}, nil
}

func (r *Renderer) Render(w io.Writer, p Page) error {
	return r.view.Execute(w, p)
}
