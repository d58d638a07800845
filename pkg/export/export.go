// Package export turns a generated document into a downloadable artifact.
package export

import (
	"context"
	"fmt"
	"strings"
	"unicode"
)

// Request carries everything needed to produce an artifact: the generated
// content, the originating template id, and the form values it was produced
// from.
type Request struct {
	TemplateID string
	Values     map[string]string
	RawContent map[string]any
}

// Artifact is a finished download: filename, media type, and payload.
type Artifact struct {
	Filename    string
	ContentType string
	Data        []byte
}

// Service produces artifacts from generated documents.
type Service interface {
	Export(ctx context.Context, req Request) (Artifact, error)
}

const fallbackFilename = "article"

// Filename derives a download filename from the document headline: lowercase,
// non-alphanumerics collapsed to single hyphens. Empty or unusable headlines
// fall back to a generic name.
func Filename(headline, ext string) string {
	slug := slugify(headline)
	if slug == "" {
		slug = fallbackFilename
	}
	if !strings.HasPrefix(ext, ".") {
		ext = "." + ext
	}
	return slug + ext
}

func slugify(s string) string {
	var b strings.Builder
	hyphen := false
	for _, r := range strings.ToLower(strings.TrimSpace(s)) {
		switch {
		case unicode.IsLetter(r) || unicode.IsDigit(r):
			b.WriteRune(r)
			hyphen = false
		default:
			if b.Len() > 0 && !hyphen {
				b.WriteByte('-')
				hyphen = true
			}
		}
	}
	return strings.Trim(b.String(), "-")
}

func headlineOf(content map[string]any) string {
	if content == nil {
		return ""
	}
	if headline, ok := content["headline"].(string); ok {
		return headline
	}
	return ""
}

func missingContentErr() error {
	return fmt.Errorf("export: request has no generated content")
}
