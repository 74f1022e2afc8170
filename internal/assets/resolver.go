package assets

import (
	"errors"
)

// AssetResolver combines custom and embedded loaders with fallback logic.
// When a custom loader is configured, it tries custom first, then falls back
// to embedded if the asset is not found in the custom location.
type AssetResolver struct {
	custom   AssetLoader // nil if no custom path configured
	embedded *EmbeddedLoader
}

// NewAssetResolver creates an AssetResolver.
// If customBasePath is empty, only embedded assets are used.
// Returns error if customBasePath is set but invalid.
func NewAssetResolver(customBasePath string) (*AssetResolver, error) {
	resolver := &AssetResolver{
		embedded: NewEmbeddedLoader(),
	}

	if customBasePath != "" {
		fsLoader, err := NewFilesystemLoader(customBasePath)
		if err != nil {
			return nil, err
		}
		resolver.custom = fsLoader
	}

	return resolver, nil
}

// LoadStyle loads a CSS style, trying the custom loader first if available.
func (r *AssetResolver) LoadStyle(name string) (string, error) {
	if r.custom != nil {
		content, err := r.custom.LoadStyle(name)
		if err == nil || !isNotFoundError(err) {
			return content, err
		}
	}
	return r.embedded.LoadStyle(name)
}

// LoadTemplateSet loads a template set, trying the custom loader first if available.
// An incomplete custom set is an error rather than a reason to fall back.
func (r *AssetResolver) LoadTemplateSet(name string) (*TemplateSet, error) {
	if r.custom != nil {
		ts, err := r.custom.LoadTemplateSet(name)
		if err == nil || !isNotFoundError(err) {
			return ts, err
		}
	}
	return r.embedded.LoadTemplateSet(name)
}

// Styles lists the built-in style names.
func (r *AssetResolver) Styles() []string {
	return r.embedded.Styles()
}

// HasCustomLoader returns true if a custom asset loader is configured.
func (r *AssetResolver) HasCustomLoader() bool {
	return r.custom != nil
}

// isNotFoundError checks if the error indicates the asset was not found.
func isNotFoundError(err error) bool {
	return errors.Is(err, ErrStyleNotFound) ||
		errors.Is(err, ErrTemplateSetNotFound)
}

// Compile-time interface check.
var _ AssetLoader = (*AssetResolver)(nil)
