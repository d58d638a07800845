package export

import (
	"context"
	"fmt"

	"github.com/goliatone/go-pressbox/pkg/preview"
)

// HTMLExporter renders a generated document into a standalone HTML file. The
// fragment already shown in the preview is wrapped in a full document shell
// with title and meta tags so the download opens correctly on its own.
type HTMLExporter struct {
	renderer *preview.Renderer
}

var _ Service = (*HTMLExporter)(nil)

// NewHTMLExporter constructs an exporter backed by the given preview renderer.
func NewHTMLExporter(renderer *preview.Renderer) (*HTMLExporter, error) {
	if renderer == nil {
		return nil, fmt.Errorf("export: renderer is required")
	}
	return &HTMLExporter{renderer: renderer}, nil
}

// Export produces the HTML artifact for the document.
func (e *HTMLExporter) Export(ctx context.Context, req Request) (Artifact, error) {
	if len(req.RawContent) == 0 {
		return Artifact{}, missingContentErr()
	}

	doc, err := e.renderer.RenderDocument(ctx, req.TemplateID, req.RawContent)
	if err != nil {
		return Artifact{}, fmt.Errorf("export: render document: %w", err)
	}

	return Artifact{
		Filename:    Filename(headlineOf(req.RawContent), ".html"),
		ContentType: "text/html; charset=utf-8",
		Data:        []byte(doc),
	}, nil
}
