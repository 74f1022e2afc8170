// Package assets provides CSS styles and template sets for newsletter rendering.
//
// # Loader Architecture
//
// The package implements a layered loading system:
//
//	AssetLoader (interface)
//	    │
//	    ├── EmbeddedLoader    - loads from go:embed filesystem (built-in styles)
//	    ├── FilesystemLoader  - loads from custom directory on disk
//	    └── AssetResolver     - combines both with custom-first fallback
//
// AssetResolver is the loader used by the converter when a custom asset
// path is configured. It tries the FilesystemLoader first and falls back to
// the EmbeddedLoader when an asset is not found, so a custom directory only
// needs to contain the files it overrides.
//
// # Directory Structure
//
//	{basePath}/
//	├── styles/
//	│   └── {name}.css           # CSS inlined into the email
//	└── templates/
//	    └── {name}/
//	        ├── email.html       # html/template for the HTML part and preview
//	        └── email.txt        # text/template for the plain-text part
//
// # Security
//
// Asset names are validated to prevent path traversal attacks.
// FilesystemLoader resolves symlinks and verifies paths stay within basePath.
package assets
