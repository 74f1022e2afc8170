package assets

import (
	"errors"
	"os"
	"path/filepath"
	"testing"
)

// writeAsset creates a file under base, creating parent directories.
func writeAsset(t *testing.T, base, rel, content string) {
	t.Helper()
	path := filepath.Join(base, rel)
	if err := os.MkdirAll(filepath.Dir(path), 0o755); err != nil {
		t.Fatalf("mkdir: %v", err)
	}
	if err := os.WriteFile(path, []byte(content), 0o644); err != nil {
		t.Fatalf("write %s: %v", rel, err)
	}
}

func TestNewFilesystemLoader(t *testing.T) {
	t.Parallel()

	t.Run("valid directory", func(t *testing.T) {
		t.Parallel()
		if _, err := NewFilesystemLoader(t.TempDir()); err != nil {
			t.Fatalf("NewFilesystemLoader() error = %v", err)
		}
	})

	t.Run("empty path", func(t *testing.T) {
		t.Parallel()
		if _, err := NewFilesystemLoader(""); !errors.Is(err, ErrInvalidBasePath) {
			t.Errorf("error = %v, want ErrInvalidBasePath", err)
		}
	})

	t.Run("nonexistent directory", func(t *testing.T) {
		t.Parallel()
		if _, err := NewFilesystemLoader("/nonexistent/path/abc123xyz"); !errors.Is(err, ErrInvalidBasePath) {
			t.Errorf("error = %v, want ErrInvalidBasePath", err)
		}
	})

	t.Run("file instead of directory", func(t *testing.T) {
		t.Parallel()
		dir := t.TempDir()
		writeAsset(t, dir, "file.txt", "x")
		if _, err := NewFilesystemLoader(filepath.Join(dir, "file.txt")); !errors.Is(err, ErrInvalidBasePath) {
			t.Errorf("error = %v, want ErrInvalidBasePath", err)
		}
	})
}

func TestFilesystemLoader_LoadStyle(t *testing.T) {
	t.Parallel()

	dir := t.TempDir()
	writeAsset(t, dir, "styles/brand.css", "body { color: red; }")

	loader, err := NewFilesystemLoader(dir)
	if err != nil {
		t.Fatalf("NewFilesystemLoader() error = %v", err)
	}

	got, err := loader.LoadStyle("brand")
	if err != nil {
		t.Fatalf("LoadStyle(brand) error = %v", err)
	}
	if got != "body { color: red; }" {
		t.Errorf("LoadStyle(brand) = %q", got)
	}

	if _, err := loader.LoadStyle("missing"); !errors.Is(err, ErrStyleNotFound) {
		t.Errorf("LoadStyle(missing) error = %v, want ErrStyleNotFound", err)
	}
	if _, err := loader.LoadStyle("../x"); !errors.Is(err, ErrInvalidAssetName) {
		t.Errorf("LoadStyle(../x) error = %v, want ErrInvalidAssetName", err)
	}
}

func TestFilesystemLoader_LoadTemplateSet(t *testing.T) {
	t.Parallel()

	dir := t.TempDir()
	writeAsset(t, dir, "templates/full/email.html", "<p>{{.Number}}</p>")
	writeAsset(t, dir, "templates/full/email.txt", "{{.Number}}")
	writeAsset(t, dir, "templates/htmlonly/email.html", "<p></p>")
	writeAsset(t, dir, "templates/textonly/email.txt", "text")

	loader, err := NewFilesystemLoader(dir)
	if err != nil {
		t.Fatalf("NewFilesystemLoader() error = %v", err)
	}

	tests := []struct {
		name    string
		setName string
		wantErr error
	}{
		{name: "complete set", setName: "full"},
		{name: "missing text template", setName: "htmlonly", wantErr: ErrIncompleteTemplateSet},
		{name: "missing html template", setName: "textonly", wantErr: ErrIncompleteTemplateSet},
		{name: "missing set", setName: "nope", wantErr: ErrTemplateSetNotFound},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			t.Parallel()

			ts, err := loader.LoadTemplateSet(tt.setName)
			if tt.wantErr != nil {
				if !errors.Is(err, tt.wantErr) {
					t.Errorf("LoadTemplateSet(%q) error = %v, want %v", tt.setName, err, tt.wantErr)
				}
				return
			}
			if err != nil {
				t.Fatalf("LoadTemplateSet(%q) unexpected error: %v", tt.setName, err)
			}
			if ts.HTML != "<p>{{.Number}}</p>" || ts.Text != "{{.Number}}" {
				t.Errorf("LoadTemplateSet(%q) = %+v", tt.setName, ts)
			}
		})
	}
}

func TestFilesystemLoader_PathContainment(t *testing.T) {
	t.Parallel()

	outside := t.TempDir()
	writeAsset(t, outside, "secret.css", "body{}")

	base := t.TempDir()
	if err := os.MkdirAll(filepath.Join(base, "styles"), 0o755); err != nil {
		t.Fatalf("mkdir: %v", err)
	}
	link := filepath.Join(base, "styles", "escape.css")
	if err := os.Symlink(filepath.Join(outside, "secret.css"), link); err != nil {
		t.Skipf("symlinks not supported: %v", err)
	}

	loader, err := NewFilesystemLoader(base)
	if err != nil {
		t.Fatalf("NewFilesystemLoader() error = %v", err)
	}
	if _, err := loader.LoadStyle("escape"); !errors.Is(err, ErrPathTraversal) {
		t.Errorf("LoadStyle(escape) error = %v, want ErrPathTraversal", err)
	}
}
