// Package fileutil provides file and path utility functions.
package fileutil

import (
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"regexp"
	"strings"
)

// ErrEmptyPath indicates an output path was required but not given.
var ErrEmptyPath = errors.New("path cannot be empty")

// Permissions used for generated output.
const (
	DirPermissions  = 0o750 // rwxr-x---
	FilePermissions = 0o644 // rw-r--r--
)

// schemePattern matches an RFC 3986 scheme prefix such as "http:" or "cid:".
var schemePattern = regexp.MustCompile(`^[A-Za-z][A-Za-z0-9+.\-]*:`)

// FileExists returns true if the path exists and is a regular file.
func FileExists(path string) bool {
	info, err := os.Stat(path)
	if err != nil {
		return false
	}
	return !info.IsDir()
}

// IsFilePath returns true if the string looks like a file path rather than a name.
// A string containing path separators (/, \) is treated as a path.
//
// Examples:
//   - "newsletter" -> false (name)
//   - "./custom.css" -> true (relative path)
//   - "/absolute/path.css" -> true (absolute)
func IsFilePath(s string) bool {
	return strings.ContainsAny(s, "/\\")
}

// HasScheme reports whether ref is an absolute URL ("https://...",
// "data:...", "cid:...") or protocol-relative ("//cdn.example.com/a.png").
// Windows drive paths like "C:\img.png" are not treated as URLs.
func HasScheme(ref string) bool {
	if strings.HasPrefix(ref, "//") {
		return true
	}
	m := schemePattern.FindString(ref)
	if m == "" {
		return false
	}
	if len(m) == 2 && len(ref) > 2 && (ref[2] == '\\' || ref[2] == '/') {
		return false
	}
	return true
}

// WriteFile writes data to path, creating parent directories as needed.
func WriteFile(path string, data []byte) error {
	if path == "" {
		return ErrEmptyPath
	}
	if dir := filepath.Dir(path); dir != "." {
		if err := os.MkdirAll(dir, DirPermissions); err != nil {
			return fmt.Errorf("creating output directory: %w", err)
		}
	}
	if err := os.WriteFile(path, data, FilePermissions); err != nil { // #nosec G306 -- output is meant to be readable
		return fmt.Errorf("writing %s: %w", path, err)
	}
	return nil
}

// ReplaceExt swaps the extension of path for ext (which includes the dot).
func ReplaceExt(path, ext string) string {
	return strings.TrimSuffix(path, filepath.Ext(path)) + ext
}
