package lifecycle

import (
	"context"
	"fmt"
	"sync"
	"time"

	"github.com/goliatone/go-pressbox/pkg/export"
	"github.com/goliatone/go-pressbox/pkg/generate"
)

// ControllerOption customises the controller.
type ControllerOption func(*Controller)

// WithExporter wires the download path. Without one, Download returns
// ErrInvalidState.
func WithExporter(exporter export.Service) ControllerOption {
	return func(c *Controller) {
		c.exporter = exporter
	}
}

// WithClock overrides the time source. Used by tests.
func WithClock(now func() time.Time) ControllerOption {
	return func(c *Controller) {
		if now != nil {
			c.now = now
		}
	}
}

// WithIDFunc overrides document id generation. Used by tests.
func WithIDFunc(newID func() string) ControllerOption {
	return func(c *Controller) {
		if newID != nil {
			c.newID = newID
		}
	}
}

// Controller is the document lifecycle state machine. All methods are safe
// for concurrent use; the lock is released while the generation service is
// in flight so template switches and state queries never block on the
// network.
//
// A generation counter guards against stale responses: every event that
// invalidates in-flight work (template switch, reset) bumps the counter, and
// a response whose captured counter no longer matches is discarded.
type Controller struct {
	mu sync.Mutex

	generator generate.Service
	exporter  export.Service

	state      State
	templateID string
	values     map[string]string
	doc        *Document
	editBuffer map[string]any
	generation uint64

	now   func() time.Time
	newID func() string
}

// NewController constructs a controller in the Idle state.
func NewController(generator generate.Service, options ...ControllerOption) (*Controller, error) {
	if generator == nil {
		return nil, fmt.Errorf("lifecycle: generation service is required")
	}
	c := &Controller{
		generator: generator,
		state:     Idle,
		now:       time.Now,
		newID:     newDocumentID,
	}
	for _, opt := range options {
		if opt == nil {
			continue
		}
		opt(c)
	}
	return c, nil
}

// State reports the current lifecycle state.
func (c *Controller) State() State {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.state
}

// TemplateID reports the active template.
func (c *Controller) TemplateID() string {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.templateID
}

// Document returns a copy of the held document, or nil when there is none.
func (c *Controller) Document() *Document {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.doc.Clone()
}

// SetTemplate switches the active template. Selecting the template that is
// already active is a no-op. Switching to a different template discards any
// held document, abandons in-flight work, and returns the controller to Idle.
func (c *Controller) SetTemplate(templateID string) {
	c.mu.Lock()
	defer c.mu.Unlock()
	if templateID == c.templateID {
		return
	}
	c.templateID = templateID
	c.doc = nil
	c.editBuffer = nil
	c.values = nil
	c.state = Idle
	c.generation++
}

// Reset discards everything and returns to Idle. In-flight responses are
// abandoned.
func (c *Controller) Reset() {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.doc = nil
	c.editBuffer = nil
	c.values = nil
	c.state = Idle
	c.generation++
}

// Submit runs a first generation from the Idle state. The submitted values
// are retained so a later regeneration reuses the same snapshot.
func (c *Controller) Submit(ctx context.Context, values map[string]string) (*Document, error) {
	c.mu.Lock()
	if c.state == Submitting {
		c.mu.Unlock()
		return nil, ErrSubmitInFlight
	}
	if c.state != Idle {
		c.mu.Unlock()
		return nil, ErrInvalidState
	}
	templateID := c.templateID
	snapshot := copyValues(values)
	c.values = snapshot
	c.state = Submitting
	gen := c.generation
	c.mu.Unlock()

	result, err := c.generator.Generate(ctx, generate.Request{TemplateID: templateID, Values: snapshot})

	c.mu.Lock()
	defer c.mu.Unlock()
	if c.generation != gen {
		return nil, ErrStaleResponse
	}
	if err != nil {
		c.state = Idle
		return nil, err
	}
	c.doc = c.buildDocument(templateID, result)
	c.state = Ready
	return c.doc.Clone(), nil
}

// RequestEdit moves from Ready to Editing, seeding the edit buffer with the
// held document's content.
func (c *Controller) RequestEdit() error {
	c.mu.Lock()
	defer c.mu.Unlock()
	if c.state != Ready {
		return ErrInvalidState
	}
	if c.doc == nil {
		return ErrNoDocument
	}
	c.editBuffer = cloneContent(c.doc.RawContent)
	c.state = Editing
	return nil
}

// SetEdit records an edit to a single content field. Only legal while
// Editing.
func (c *Controller) SetEdit(field string, value any) error {
	c.mu.Lock()
	defer c.mu.Unlock()
	if c.state != Editing {
		return ErrInvalidState
	}
	if c.editBuffer == nil {
		c.editBuffer = make(map[string]any)
	}
	c.editBuffer[field] = value
	return nil
}

// Edits returns a copy of the current edit buffer.
func (c *Controller) Edits() map[string]any {
	c.mu.Lock()
	defer c.mu.Unlock()
	return cloneContent(c.editBuffer)
}

// SaveEdits submits the edited content for a refine pass. On failure the
// controller stays in Editing with the buffer intact so no work is lost.
func (c *Controller) SaveEdits(ctx context.Context) (*Document, error) {
	c.mu.Lock()
	if c.state != Editing {
		c.mu.Unlock()
		return nil, ErrInvalidState
	}
	if c.doc == nil {
		c.mu.Unlock()
		return nil, ErrNoDocument
	}
	templateID := c.templateID
	values := copyValues(c.values)
	edited := mergeContent(c.doc.RawContent, c.editBuffer)
	gen := c.generation
	c.mu.Unlock()

	result, err := c.generator.Refine(ctx, generate.RefineRequest{
		TemplateID:    templateID,
		Values:        values,
		EditedContent: edited,
	})

	c.mu.Lock()
	defer c.mu.Unlock()
	if c.generation != gen {
		return nil, ErrStaleResponse
	}
	if err != nil {
		return nil, err
	}
	c.doc = c.buildDocument(templateID, result)
	c.editBuffer = nil
	c.state = Ready
	return c.doc.Clone(), nil
}

// CancelEdits discards the edit buffer and returns to Ready. The held
// document is untouched.
func (c *Controller) CancelEdits() error {
	c.mu.Lock()
	defer c.mu.Unlock()
	if c.state != Editing {
		return ErrInvalidState
	}
	c.editBuffer = nil
	c.state = Ready
	return nil
}

// RequestRegenerate asks to replace the held document. The actual generation
// only happens after ConfirmRegenerate; until then the document is safe.
func (c *Controller) RequestRegenerate() error {
	c.mu.Lock()
	defer c.mu.Unlock()
	if c.state != Ready {
		return ErrInvalidState
	}
	if c.doc == nil {
		return ErrNoDocument
	}
	c.state = ConfirmingRegenerate
	return nil
}

// DeclineRegenerate backs out of a pending regeneration. The held document is
// untouched.
func (c *Controller) DeclineRegenerate() error {
	c.mu.Lock()
	defer c.mu.Unlock()
	if c.state != ConfirmingRegenerate {
		return ErrInvalidState
	}
	c.state = Ready
	return nil
}

// ConfirmRegenerate reruns the generation with the retained form snapshot.
// The prior document is kept until a replacement arrives: a failed
// regeneration returns to Ready with the previous document intact.
func (c *Controller) ConfirmRegenerate(ctx context.Context) (*Document, error) {
	c.mu.Lock()
	if c.state != ConfirmingRegenerate {
		c.mu.Unlock()
		return nil, ErrInvalidState
	}
	templateID := c.templateID
	values := copyValues(c.values)
	c.state = Submitting
	gen := c.generation
	c.mu.Unlock()

	result, err := c.generator.Generate(ctx, generate.Request{TemplateID: templateID, Values: values})

	c.mu.Lock()
	defer c.mu.Unlock()
	if c.generation != gen {
		return nil, ErrStaleResponse
	}
	if err != nil {
		c.state = Ready
		return nil, err
	}
	c.doc = c.buildDocument(templateID, result)
	c.state = Ready
	return c.doc.Clone(), nil
}

// Download exports the held document. Only legal in Ready; export failures
// leave the state untouched.
func (c *Controller) Download(ctx context.Context) (export.Artifact, error) {
	c.mu.Lock()
	if c.state != Ready || c.exporter == nil {
		c.mu.Unlock()
		return export.Artifact{}, ErrInvalidState
	}
	if c.doc == nil {
		c.mu.Unlock()
		return export.Artifact{}, ErrNoDocument
	}
	req := export.Request{
		TemplateID: c.doc.TemplateID,
		Values:     copyValues(c.values),
		RawContent: cloneContent(c.doc.RawContent),
	}
	c.mu.Unlock()

	return c.exporter.Export(ctx, req)
}

func (c *Controller) buildDocument(templateID string, result generate.Result) *Document {
	return &Document{
		ID:            c.newID(),
		TemplateID:    templateID,
		RawContent:    cloneContent(result.RawContent),
		PreviewMarkup: result.PreviewMarkup,
		CreatedAt:     c.now(),
	}
}

func copyValues(values map[string]string) map[string]string {
	if values == nil {
		return nil
	}
	out := make(map[string]string, len(values))
	for id, value := range values {
		out[id] = value
	}
	return out
}
