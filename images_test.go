package md2mail

import (
	"errors"
	"os"
	"path/filepath"
	"strings"
	"testing"
)

// Minimal byte signatures that content sniffing recognizes.
var (
	pngBytes = []byte("\x89PNG\r\n\x1a\n\x00\x00\x00\x0dIHDR\x00\x00\x00\x01\x00\x00\x00\x01\x08\x06\x00\x00\x00")
	gifBytes = []byte("GIF89a\x01\x00\x01\x00\x80\x00\x00\xff\xff\xff\x00\x00\x00;")
)

// writeImage writes data to dir/name, creating parent directories.
func writeImage(t *testing.T, dir, name string, data []byte) {
	t.Helper()
	path := filepath.Join(dir, name)
	if err := os.MkdirAll(filepath.Dir(path), 0o755); err != nil {
		t.Fatalf("mkdir: %v", err)
	}
	if err := os.WriteFile(path, data, 0o644); err != nil {
		t.Fatalf("write %s: %v", name, err)
	}
}

func warningKinds(ws []Warning) []WarningKind {
	kinds := make([]WarningKind, 0, len(ws))
	for _, w := range ws {
		kinds = append(kinds, w.Kind)
	}
	return kinds
}

func hasWarning(ws []Warning, kind WarningKind) bool {
	for _, w := range ws {
		if w.Kind == kind {
			return true
		}
	}
	return false
}

func TestInlineImages_NoLocalImages(t *testing.T) {
	t.Parallel()

	tests := []struct {
		name      string
		html      string
		wantKinds []WarningKind
	}{
		{
			name: "no images",
			html: "<p>Hello <b>world</b></p>",
		},
		{
			name:      "absolute URL",
			html:      `<p><img src="http://example.com/a.png" alt="a" width="1" height="1"></p>`,
			wantKinds: []WarningKind{WarnRemoteImage},
		},
		{
			name:      "protocol-relative URL",
			html:      `<img src="//cdn.example.com/a.png" alt="a" width="1" height="1">`,
			wantKinds: []WarningKind{WarnRemoteImage},
		},
		{
			name:      "data URI",
			html:      `<img src="data:image/png;base64,AAAA" alt="a" width="1" height="1">`,
			wantKinds: []WarningKind{WarnRemoteImage},
		},
		{
			name:      "missing src",
			html:      `<img alt="nothing">`,
			wantKinds: []WarningKind{WarnMissingSrc},
		},
		{
			name:      "full document untouched",
			html:      "<!DOCTYPE html><html><head></head><body><img src=\"https://x.example/y.gif\"></body></html>",
			wantKinds: []WarningKind{WarnRemoteImage},
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			t.Parallel()

			res, err := InlineImages(tt.html, ImageOptions{})
			if err != nil {
				t.Fatalf("InlineImages() unexpected error: %v", err)
			}
			if res.HTML != tt.html {
				t.Errorf("HTML = %q, want input unchanged", res.HTML)
			}
			if len(res.Images) != 0 {
				t.Errorf("Images = %d entries, want none", len(res.Images))
			}
			got := warningKinds(res.Warnings)
			if len(got) != len(tt.wantKinds) {
				t.Fatalf("warnings = %v, want %v", got, tt.wantKinds)
			}
			for i := range got {
				if got[i] != tt.wantKinds[i] {
					t.Errorf("warning %d = %s, want %s", i, got[i], tt.wantKinds[i])
				}
			}
		})
	}
}

func TestInlineImages_SharedContentID(t *testing.T) {
	t.Parallel()

	dir := t.TempDir()
	writeImage(t, dir, "images/logo.png", pngBytes)
	writeImage(t, dir, "images/chart.gif", gifBytes)

	html := `<p><img src="images/logo.png" alt="Logo" width="10" height="10"></p>` +
		`<p><img src="images/chart.gif" alt="Chart" width="10" height="10"></p>` +
		`<p><img src="images/logo.png" alt="Logo again" width="10" height="10"></p>`

	res, err := InlineImages(html, ImageOptions{BaseDir: dir})
	if err != nil {
		t.Fatalf("InlineImages() unexpected error: %v", err)
	}

	if len(res.Images) != 3 {
		t.Fatalf("Images = %d entries, want 3 (one per element)", len(res.Images))
	}
	first, chart, again := res.Images[0], res.Images[1], res.Images[2]

	if first.ContentID != again.ContentID {
		t.Errorf("same src got different Content-IDs: %q vs %q", first.ContentID, again.ContentID)
	}
	if first.ContentID == chart.ContentID {
		t.Error("different srcs share a Content-ID")
	}
	if first.Src != "images/logo.png" || chart.Src != "images/chart.gif" {
		t.Errorf("entries out of document order: %q, %q", first.Src, chart.Src)
	}
	if first.ContentType() != "image/png" || chart.ContentType() != "image/gif" {
		t.Errorf("content types = %s, %s", first.ContentType(), chart.ContentType())
	}
	if string(first.Data) != string(pngBytes) {
		t.Error("png data not read from disk")
	}

	if strings.Count(res.HTML, `src="cid:`+first.ContentID+`"`) != 2 {
		t.Errorf("HTML = %q, want both logo references rewritten to the bare Content-ID", res.HTML)
	}
	if !strings.Contains(res.HTML, `src="cid:`+chart.ContentID+`"`) {
		t.Errorf("HTML = %q, want chart reference rewritten", res.HTML)
	}
	if strings.Contains(res.HTML, "cid:<") {
		t.Error("cid references must not include angle brackets")
	}
	if len(res.Warnings) != 0 {
		t.Errorf("unexpected warnings: %v", res.Warnings)
	}
}

func TestInlineImages_ContentIDsPerCall(t *testing.T) {
	t.Parallel()

	dir := t.TempDir()
	writeImage(t, dir, "a.png", pngBytes)
	html := `<img src="a.png" alt="a" width="1" height="1">`

	r1, err := InlineImages(html, ImageOptions{BaseDir: dir})
	if err != nil {
		t.Fatalf("first call: %v", err)
	}
	r2, err := InlineImages(html, ImageOptions{BaseDir: dir})
	if err != nil {
		t.Fatalf("second call: %v", err)
	}
	if r1.Images[0].ContentID == r2.Images[0].ContentID {
		t.Error("Content-IDs should be minted fresh for every call")
	}
}

func TestInlineImages_ContentIDDomain(t *testing.T) {
	t.Parallel()

	dir := t.TempDir()
	writeImage(t, dir, "a.png", pngBytes)
	html := `<img src="a.png" alt="a" width="1" height="1">`

	res, err := InlineImages(html, ImageOptions{BaseDir: dir})
	if err != nil {
		t.Fatalf("InlineImages() unexpected error: %v", err)
	}
	if !strings.HasSuffix(res.Images[0].ContentID, "@"+DefaultContentIDDomain) {
		t.Errorf("ContentID = %q, want default domain", res.Images[0].ContentID)
	}

	res, err = InlineImages(html, ImageOptions{BaseDir: dir, Domain: "news.example.com"})
	if err != nil {
		t.Fatalf("InlineImages() unexpected error: %v", err)
	}
	if !strings.HasSuffix(res.Images[0].ContentID, "@news.example.com") {
		t.Errorf("ContentID = %q, want custom domain", res.Images[0].ContentID)
	}

	if _, err := InlineImages(html, ImageOptions{BaseDir: dir, Domain: "bad domain"}); !errors.Is(err, ErrInvalidDomain) {
		t.Errorf("error = %v, want ErrInvalidDomain", err)
	}
}

func TestInlineImages_Advisories(t *testing.T) {
	t.Parallel()

	dir := t.TempDir()
	writeImage(t, dir, "photo.png", pngBytes)
	writeImage(t, dir, "notes.txt", []byte("plain notes"))
	writeImage(t, dir, "renamed.png", gifBytes)

	tests := []struct {
		name     string
		html     string
		wantKind WarningKind
	}{
		{"missing alt", `<img src="photo.png" width="1" height="1">`, WarnMissingAlt},
		{"missing width", `<img src="photo.png" alt="p" height="1">`, WarnMissingDimensions},
		{"missing height", `<img src="photo.png" alt="p" width="1">`, WarnMissingDimensions},
		{"non-image type", `<img src="notes.txt" alt="n" width="1" height="1">`, WarnNonImageType},
		{"content mismatch", `<img src="renamed.png" alt="r" width="1" height="1">`, WarnContentMismatch},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			t.Parallel()

			res, err := InlineImages(tt.html, ImageOptions{BaseDir: dir})
			if err != nil {
				t.Fatalf("InlineImages() unexpected error: %v", err)
			}
			if !hasWarning(res.Warnings, tt.wantKind) {
				t.Errorf("warnings = %v, want %s", res.Warnings, tt.wantKind)
			}
			if len(res.Images) != 1 {
				t.Errorf("Images = %d entries, want 1 (advisories do not stop inlining)", len(res.Images))
			}
		})
	}
}

func TestInlineImages_Errors(t *testing.T) {
	t.Parallel()

	dir := t.TempDir()
	writeImage(t, dir, "photo", pngBytes)
	writeImage(t, dir, "blob.unknownext", pngBytes)

	tests := []struct {
		name    string
		html    string
		src     string
		wantErr error
	}{
		{"no extension", `<img src="photo" alt="p">`, "photo", ErrNoExtension},
		{"unknown extension", `<img src="blob.unknownext" alt="b">`, "blob.unknownext", ErrNoExtension},
		{"missing file", `<img src="gone.png" alt="g">`, "gone.png", ErrReadImage},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			t.Parallel()

			_, err := InlineImages(`<p>ok</p>`+tt.html, ImageOptions{BaseDir: dir})
			if !errors.Is(err, tt.wantErr) {
				t.Fatalf("error = %v, want %v", err, tt.wantErr)
			}
			var imgErr *ImageError
			if !errors.As(err, &imgErr) {
				t.Fatalf("error type = %T, want *ImageError", err)
			}
			if imgErr.Src != tt.src {
				t.Errorf("ImageError.Src = %q, want %q", imgErr.Src, tt.src)
			}
		})
	}
}

func TestInlineImages_PathResolution(t *testing.T) {
	t.Parallel()

	dir := t.TempDir()
	writeImage(t, dir, "my photo.png", pngBytes)

	res, err := InlineImages(`<img src="my%20photo.png?v=2" alt="m" width="1" height="1">`, ImageOptions{BaseDir: dir})
	if err != nil {
		t.Fatalf("InlineImages() unexpected error: %v", err)
	}
	if len(res.Images) != 1 || string(res.Images[0].Data) != string(pngBytes) {
		t.Errorf("escaped path not resolved: %+v", res.Images)
	}

	abs := filepath.Join(dir, "my photo.png")
	res, err = InlineImages(`<img src="`+filepath.ToSlash(abs)+`" alt="m" width="1" height="1">`, ImageOptions{BaseDir: "/elsewhere"})
	if err != nil {
		t.Fatalf("absolute path: %v", err)
	}
	if len(res.Images) != 1 {
		t.Error("absolute path should ignore BaseDir")
	}
}

func TestWarning_String(t *testing.T) {
	t.Parallel()

	w := Warning{Kind: WarnMissingAlt, Src: "a.png", Message: "missing alt text"}
	if got := w.String(); got != "missing-alt: a.png: missing alt text" {
		t.Errorf("String() = %q", got)
	}
	w = Warning{Kind: WarnMissingSrc, Message: "no src"}
	if got := w.String(); got != "missing-src: no src" {
		t.Errorf("String() = %q", got)
	}
}
