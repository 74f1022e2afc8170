package assets

// AssetLoader defines the contract for loading CSS styles and template sets.
type AssetLoader interface {
	// LoadStyle loads a CSS style by name (without .css extension).
	// Returns ErrStyleNotFound if the style doesn't exist.
	// Returns ErrInvalidAssetName if the name contains invalid characters.
	LoadStyle(name string) (string, error)

	// LoadTemplateSet loads the email.html and email.txt pair stored under name.
	// Returns ErrTemplateSetNotFound if neither file exists and
	// ErrIncompleteTemplateSet if only one of them does.
	LoadTemplateSet(name string) (*TemplateSet, error)
}
