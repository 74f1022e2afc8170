package pipeline

import (
	"errors"
	"fmt"

	"github.com/tdewolff/minify/v2"
	"github.com/tdewolff/minify/v2/css"
	"github.com/tdewolff/minify/v2/html"
)

// ErrMinify indicates HTML minification failed.
var ErrMinify = errors.New("HTML minification failed")

// HTMLMinifier abstracts whitespace and markup compaction.
type HTMLMinifier interface {
	Minify(htmlContent string) (string, error)
}

// EmailMinifier minifies HTML while keeping the document and end tags that
// some email clients depend on.
type EmailMinifier struct {
	m *minify.M
}

// NewEmailMinifier creates an EmailMinifier for HTML and inline CSS.
func NewEmailMinifier() *EmailMinifier {
	m := minify.New()
	m.AddFunc("text/css", css.Minify)
	m.Add("text/html", &html.Minifier{
		KeepDocumentTags: true,
		KeepEndTags:      true,
		KeepQuotes:       true,
	})
	return &EmailMinifier{m: m}
}

// Minify returns the minified document.
func (e *EmailMinifier) Minify(htmlContent string) (string, error) {
	out, err := e.m.String("text/html", htmlContent)
	if err != nil {
		return "", fmt.Errorf("%w: %v", ErrMinify, err)
	}
	return out, nil
}

// Compile-time interface check.
var _ HTMLMinifier = (*EmailMinifier)(nil)
