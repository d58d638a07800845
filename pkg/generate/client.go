package generate

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"time"

	"github.com/google/uuid"

	"github.com/goliatone/go-pressbox/pkg/preview"
)

const (
	defaultTimeout = 120 * time.Second
	generatePath   = "/api/generate"
)

// Option customises the HTTP client.
type Option func(*Client)

// WithHTTPClient injects a custom *http.Client.
func WithHTTPClient(httpClient *http.Client) Option {
	return func(c *Client) {
		if httpClient != nil {
			c.http = httpClient
		}
	}
}

// WithToken supplies the bearer token attached to every request.
func WithToken(token string) Option {
	return func(c *Client) {
		c.token = token
	}
}

// WithSanitizer overrides the function applied to service-supplied preview
// markup before it is handed to callers. Pass nil to store markup verbatim.
func WithSanitizer(sanitize func(string) string) Option {
	return func(c *Client) {
		c.sanitize = sanitize
		c.sanitizeSet = true
	}
}

// Client talks JSON to the generation service. Each request carries a unique
// X-Request-ID so retries and server logs can be correlated.
type Client struct {
	baseURL     string
	token       string
	http        *http.Client
	sanitize    func(string) string
	sanitizeSet bool
}

// Ensure Client satisfies the Service contract.
var _ Service = (*Client)(nil)

// NewClient constructs a client for the service at baseURL.
func NewClient(baseURL string, options ...Option) (*Client, error) {
	if baseURL == "" {
		return nil, fmt.Errorf("generate: base URL is required")
	}
	c := &Client{
		baseURL: baseURL,
		http:    &http.Client{Timeout: defaultTimeout},
	}
	for _, opt := range options {
		if opt == nil {
			continue
		}
		opt(c)
	}
	return c, nil
}

// wirePayload mirrors the service's flat request shape: the template id and
// every form value at the top level, plus the optional edited content block
// for refine calls.
func wirePayload(templateID string, values map[string]string, edited map[string]any) map[string]any {
	payload := make(map[string]any, len(values)+2)
	for id, value := range values {
		payload[id] = value
	}
	payload["template_name"] = templateID
	if edited != nil {
		payload["edited_content"] = edited
	}
	return payload
}

type wireResponse struct {
	PreviewHTML  string         `json:"preview_html"`
	RawContent   map[string]any `json:"raw_content"`
	TemplateUsed string         `json:"template_used"`
	Error        string         `json:"error"`
}

// Generate submits the form snapshot for a fresh generation.
func (c *Client) Generate(ctx context.Context, req Request) (Result, error) {
	return c.post(ctx, wirePayload(req.TemplateID, req.Values, nil))
}

// Refine submits previously generated content with the user's edits merged
// in; the service re-derives the preview markup in place.
func (c *Client) Refine(ctx context.Context, req RefineRequest) (Result, error) {
	if len(req.EditedContent) == 0 {
		return Result{}, fmt.Errorf("generate: refine requires edited content")
	}
	return c.post(ctx, wirePayload(req.TemplateID, req.Values, req.EditedContent))
}

func (c *Client) post(ctx context.Context, payload map[string]any) (Result, error) {
	body, err := json.Marshal(payload)
	if err != nil {
		return Result{}, fmt.Errorf("generate: encode request: %w", err)
	}

	httpReq, err := http.NewRequestWithContext(ctx, http.MethodPost, c.baseURL+generatePath, bytes.NewReader(body))
	if err != nil {
		return Result{}, fmt.Errorf("generate: build request: %w", err)
	}
	httpReq.Header.Set("Content-Type", "application/json")
	httpReq.Header.Set("Accept", "application/json")
	httpReq.Header.Set("X-Request-ID", uuid.NewString())
	if c.token != "" {
		httpReq.Header.Set("Authorization", "Bearer "+c.token)
	}

	resp, err := c.http.Do(httpReq)
	if err != nil {
		return Result{}, fmt.Errorf("generate: call service: %w", err)
	}
	defer resp.Body.Close()

	raw, err := io.ReadAll(resp.Body)
	if err != nil {
		return Result{}, fmt.Errorf("generate: read response: %w", err)
	}

	var decoded wireResponse
	if len(raw) > 0 {
		// A malformed error body should still surface the status code.
		_ = json.Unmarshal(raw, &decoded)
	}

	if resp.StatusCode < 200 || resp.StatusCode > 299 {
		return Result{}, &ServiceError{Status: resp.StatusCode, Message: decoded.Error}
	}
	if decoded.RawContent == nil {
		return Result{}, fmt.Errorf("generate: response is missing raw content")
	}

	markup := decoded.PreviewHTML
	if sanitize := c.sanitizer(); sanitize != nil {
		markup = sanitize(markup)
	}
	return Result{RawContent: decoded.RawContent, PreviewMarkup: markup}, nil
}

func (c *Client) sanitizer() func(string) string {
	if c.sanitizeSet {
		return c.sanitize
	}
	return preview.Sanitize
}
