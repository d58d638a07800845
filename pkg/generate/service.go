// Package generate defines the boundary to the remote content generation
// service and ships an HTTP client for it. The service receives the full form
// snapshot plus the active template id and returns the generated document:
// raw content fields and a renderable preview.
package generate

import (
	"context"
	"fmt"
)

// Request carries a first-generation call: every current form value plus the
// active template id.
type Request struct {
	TemplateID string
	Values     map[string]string
}

// RefineRequest carries a refine-in-place call: the original form values plus
// previously generated content with the user's edits merged in. The service
// re-derives the preview without regenerating the narrative from scratch.
type RefineRequest struct {
	TemplateID    string
	Values        map[string]string
	EditedContent map[string]any
}

// Result is the generation service's output: the raw content mapping
// (headline, body, summary, meta description, and template-specific fields)
// and the sanitized preview markup.
type Result struct {
	RawContent    map[string]any
	PreviewMarkup string
}

// Service is the generation collaborator consumed by the lifecycle
// controller. Implementations must treat any non-2xx response as a failure.
type Service interface {
	Generate(ctx context.Context, req Request) (Result, error)
	Refine(ctx context.Context, req RefineRequest) (Result, error)
}

// ServiceError is a failure reported by the remote service, carrying the HTTP
// status and the service's user-facing message.
type ServiceError struct {
	Status  int
	Message string
}

// Error implements the error interface.
func (e *ServiceError) Error() string {
	if e.Message == "" {
		return fmt.Sprintf("generate: service returned status %d", e.Status)
	}
	return fmt.Sprintf("generate: service returned status %d: %s", e.Status, e.Message)
}
