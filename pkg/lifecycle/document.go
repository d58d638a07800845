package lifecycle

import (
	"time"

	"github.com/google/uuid"
)

// Document is a generated article held by the controller: the raw content
// fields returned by the service and the sanitized preview markup derived
// from them.
type Document struct {
	ID            string
	TemplateID    string
	RawContent    map[string]any
	PreviewMarkup string
	CreatedAt     time.Time
}

// Headline returns the document's headline field, or "" when absent.
func (d *Document) Headline() string {
	if d == nil {
		return ""
	}
	if headline, ok := d.RawContent["headline"].(string); ok {
		return headline
	}
	return ""
}

// Clone returns a deep-enough copy: the content map is copied so callers
// cannot mutate the held document through the returned value.
func (d *Document) Clone() *Document {
	if d == nil {
		return nil
	}
	copied := *d
	copied.RawContent = cloneContent(d.RawContent)
	return &copied
}

func cloneContent(content map[string]any) map[string]any {
	if content == nil {
		return nil
	}
	out := make(map[string]any, len(content))
	for key, value := range content {
		out[key] = value
	}
	return out
}

// mergeContent overlays edits on top of base without mutating either.
func mergeContent(base, edits map[string]any) map[string]any {
	merged := cloneContent(base)
	if merged == nil {
		merged = make(map[string]any, len(edits))
	}
	for key, value := range edits {
		merged[key] = value
	}
	return merged
}

func newDocumentID() string {
	return uuid.NewString()
}
