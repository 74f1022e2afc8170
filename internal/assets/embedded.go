package assets

import (
	"embed"
	"errors"
	"fmt"
	"io/fs"
	"path"
	"sort"
	"strings"
)

//go:embed styles/*.css
var styles embed.FS

//go:embed templates
var templates embed.FS

// EmbeddedLoader loads assets compiled into the binary.
// Implements AssetLoader interface.
type EmbeddedLoader struct{}

// NewEmbeddedLoader creates an EmbeddedLoader.
func NewEmbeddedLoader() *EmbeddedLoader {
	return &EmbeddedLoader{}
}

// LoadStyle loads a CSS style from embedded assets by name.
func (e *EmbeddedLoader) LoadStyle(name string) (string, error) {
	if err := ValidateAssetName(name); err != nil {
		return "", err
	}
	content, err := styles.ReadFile("styles/" + name + ".css")
	if err != nil {
		return "", fmt.Errorf("%w: %q", ErrStyleNotFound, name)
	}
	return string(content), nil
}

// LoadTemplateSet loads an embedded template set by name.
func (e *EmbeddedLoader) LoadTemplateSet(name string) (*TemplateSet, error) {
	if err := ValidateAssetName(name); err != nil {
		return nil, err
	}
	dir := path.Join("templates", name)
	htmlSrc, htmlErr := fs.ReadFile(templates, path.Join(dir, HTMLTemplateFile))
	textSrc, textErr := fs.ReadFile(templates, path.Join(dir, TextTemplateFile))
	return assembleTemplateSet(name, htmlSrc, htmlErr, textSrc, textErr)
}

// Styles lists the names of the embedded styles, sorted.
func (e *EmbeddedLoader) Styles() []string {
	entries, err := styles.ReadDir("styles")
	if err != nil {
		return nil
	}
	names := make([]string, 0, len(entries))
	for _, entry := range entries {
		names = append(names, strings.TrimSuffix(entry.Name(), ".css"))
	}
	sort.Strings(names)
	return names
}

// assembleTemplateSet turns the outcome of reading both template files into
// a TemplateSet or the matching sentinel error.
func assembleTemplateSet(name string, htmlSrc []byte, htmlErr error, textSrc []byte, textErr error) (*TemplateSet, error) {
	htmlMissing := errors.Is(htmlErr, fs.ErrNotExist)
	textMissing := errors.Is(textErr, fs.ErrNotExist)

	if htmlMissing && textMissing {
		return nil, fmt.Errorf("%w: %q", ErrTemplateSetNotFound, name)
	}
	if htmlErr != nil && !htmlMissing {
		return nil, fmt.Errorf("%w: reading %s: %v", ErrAssetRead, HTMLTemplateFile, htmlErr)
	}
	if textErr != nil && !textMissing {
		return nil, fmt.Errorf("%w: reading %s: %v", ErrAssetRead, TextTemplateFile, textErr)
	}
	if htmlMissing {
		return nil, fmt.Errorf("%w: %q missing %s", ErrIncompleteTemplateSet, name, HTMLTemplateFile)
	}
	if textMissing {
		return nil, fmt.Errorf("%w: %q missing %s", ErrIncompleteTemplateSet, name, TextTemplateFile)
	}

	return &TemplateSet{
		Name: name,
		HTML: string(htmlSrc),
		Text: string(textSrc),
	}, nil
}

// Compile-time interface check.
var _ AssetLoader = (*EmbeddedLoader)(nil)
