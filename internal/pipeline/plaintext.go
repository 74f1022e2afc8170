package pipeline

import (
	"errors"
	"fmt"
	"strings"

	"github.com/jaytaylor/html2text"
)

// ErrPlainText indicates HTML could not be rendered as plain text.
var ErrPlainText = errors.New("plain-text rendering failed")

// PlainTextRenderer abstracts HTML to plain-text conversion.
type PlainTextRenderer interface {
	ToText(htmlContent string) (string, error)
}

// HTML2TextRenderer renders HTML as readable plain text with html2text.
// Links become "text ( url )" and tables are drawn with ASCII borders.
type HTML2TextRenderer struct{}

// ToText converts htmlContent to plain text.
func (r *HTML2TextRenderer) ToText(htmlContent string) (string, error) {
	text, err := html2text.FromString(htmlContent, html2text.Options{PrettyTables: true})
	if err != nil {
		return "", fmt.Errorf("%w: %v", ErrPlainText, err)
	}
	return strings.TrimSpace(text), nil
}

// Compile-time interface check.
var _ PlainTextRenderer = (*HTML2TextRenderer)(nil)
