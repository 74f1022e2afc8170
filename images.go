package md2mail

import (
	"fmt"
	"mime"
	"net/url"
	"os"
	"path/filepath"
	"strings"

	"github.com/gabriel-vasile/mimetype"
	"github.com/google/uuid"
	"golang.org/x/net/html/atom"

	"github.com/alnah/go-md2mail/internal/fileutil"
	"github.com/alnah/go-md2mail/internal/pipeline"
)

// DefaultContentIDDomain is the right-hand side of generated Content-IDs
// when ImageOptions.Domain is empty.
const DefaultContentIDDomain = "md2mail.local"

// ImageOptions configures InlineImages.
type ImageOptions struct {
	BaseDir string // Relative src paths resolve against this directory ("" = working directory)
	Domain  string // Content-ID domain ("" = DefaultContentIDDomain)
}

// InlineResult is the output of InlineImages.
type InlineResult struct {
	HTML     string
	Images   []InlinedImage
	Warnings []Warning
}

// InlineImages rewrites every local <img> in htmlContent to reference a
// Content-ID and returns the image bytes for attachment.
//
// Images without src, and remote images (any "scheme:" prefix or "//"), are
// left untouched and reported as warnings. Missing alt text or dimensions
// and non-image types are reported but do not stop inlining. An image whose
// type cannot be inferred from its extension fails the whole call with an
// *ImageError wrapping ErrNoExtension.
//
// Repeated references to the same src share one Content-ID; each element
// still gets its own entry in Images. The src to Content-ID mapping lives
// only for the duration of the call.
func InlineImages(htmlContent string, opts ImageOptions) (*InlineResult, error) {
	domain, err := contentIDDomain(opts.Domain)
	if err != nil {
		return nil, err
	}

	doc, err := pipeline.ParseHTML(htmlContent)
	if err != nil {
		return nil, fmt.Errorf("parsing HTML: %w", err)
	}

	res := &InlineResult{}
	warn := func(kind WarningKind, src, msg string) {
		res.Warnings = append(res.Warnings, Warning{Kind: kind, Src: src, Message: msg})
	}
	cids := make(map[string]string)

	for _, img := range doc.Elements(atom.Img) {
		src, _ := pipeline.Attr(img, "src")
		if strings.TrimSpace(src) == "" {
			warn(WarnMissingSrc, "", "<img> has no src; left untouched")
			continue
		}
		if fileutil.HasScheme(src) {
			warn(WarnRemoteImage, src, "remote image is not inlined")
			continue
		}

		if _, ok := pipeline.Attr(img, "alt"); !ok {
			warn(WarnMissingAlt, src, "missing alt text")
		}
		_, hasWidth := pipeline.Attr(img, "width")
		_, hasHeight := pipeline.Attr(img, "height")
		if !hasWidth || !hasHeight {
			warn(WarnMissingDimensions, src, "missing width or height")
		}

		path := imagePath(src, opts.BaseDir)
		mediaType, err := typeByExtension(path)
		if err != nil {
			return nil, &ImageError{Src: src, Err: err}
		}
		mainType, subType, _ := strings.Cut(mediaType, "/")
		if mainType != "image" {
			warn(WarnNonImageType, src, fmt.Sprintf("type %s is not an image", mediaType))
		}

		data, err := os.ReadFile(path) // #nosec G304 -- issue sources are trusted local input
		if err != nil {
			return nil, &ImageError{Src: src, Err: fmt.Errorf("%w: %v", ErrReadImage, err)}
		}
		if sniffed := mimetype.Detect(data); mainType == "image" &&
			!sniffed.Is("application/octet-stream") && !sniffed.Is(mediaType) {
			warn(WarnContentMismatch, src, fmt.Sprintf("extension says %s but content looks like %s", mediaType, sniffed.String()))
		}

		cid, seen := cids[src]
		if !seen {
			cid = uuid.NewString() + "@" + domain
			cids[src] = cid
		}
		pipeline.SetAttr(img, "src", "cid:"+cid)

		res.Images = append(res.Images, InlinedImage{
			Data:      data,
			MainType:  mainType,
			SubType:   subType,
			ContentID: cid,
			Src:       src,
		})
	}

	if len(res.Images) == 0 {
		res.HTML = htmlContent
		return res, nil
	}

	res.HTML, err = doc.Render()
	if err != nil {
		return nil, fmt.Errorf("rendering HTML: %w", err)
	}
	return res, nil
}

// imagePath turns a src attribute into a filesystem path. Query strings and
// fragments are dropped and percent-escapes decoded.
func imagePath(src, baseDir string) string {
	p := src
	if i := strings.IndexAny(p, "?#"); i >= 0 {
		p = p[:i]
	}
	if unescaped, err := url.PathUnescape(p); err == nil {
		p = unescaped
	}
	p = filepath.FromSlash(p)
	if baseDir != "" && !filepath.IsAbs(p) {
		p = filepath.Join(baseDir, p)
	}
	return p
}

// typeByExtension infers the media type, without parameters, from the
// extension of path.
func typeByExtension(path string) (string, error) {
	ext := filepath.Ext(path)
	if ext == "" {
		return "", ErrNoExtension
	}
	ctype := mime.TypeByExtension(strings.ToLower(ext))
	if ctype == "" {
		return "", fmt.Errorf("%w: %q", ErrNoExtension, ext)
	}
	mediaType, _, err := mime.ParseMediaType(ctype)
	if err != nil {
		return "", fmt.Errorf("%w: %q", ErrNoExtension, ext)
	}
	return mediaType, nil
}

// contentIDDomain returns the domain to use for Content-IDs.
func contentIDDomain(domain string) (string, error) {
	if domain == "" {
		return DefaultContentIDDomain, nil
	}
	if strings.ContainsAny(domain, "@<>\"\\[] \t\r\n") {
		return "", fmt.Errorf("%w: %q", ErrInvalidDomain, domain)
	}
	return domain, nil
}
