package preview

import (
	"context"
	"fmt"
	"sort"
	"strings"

	theme "github.com/goliatone/go-theme"
)

// Option customises the renderer.
type Option func(*Renderer)

// WithEngine injects a custom template engine.
func WithEngine(engine *Engine) Option {
	return func(r *Renderer) {
		if engine != nil {
			r.engine = engine
		}
	}
}

// WithThemeSelector wires a go-theme selector so resolved theme tokens become
// CSS variables in the rendered output.
func WithThemeSelector(selector theme.ThemeSelector, name, variant string) Option {
	return func(r *Renderer) {
		r.selector = selector
		r.themeName = name
		r.themeVariant = variant
	}
}

// WithTemplateMap overrides the template-id to template-file mapping.
func WithTemplateMap(mapping map[string]string) Option {
	return func(r *Renderer) {
		if len(mapping) == 0 {
			return
		}
		r.templates = make(map[string]string, len(mapping))
		for id, name := range mapping {
			r.templates[id] = name
		}
	}
}

// Renderer turns a generated document's raw content into sanitized preview
// markup, and into a complete HTML document for export. Each catalog template
// id maps to one of the embedded layout templates.
type Renderer struct {
	engine       *Engine
	selector     theme.ThemeSelector
	themeName    string
	themeVariant string
	templates    map[string]string
}

// NewRenderer constructs a renderer with the embedded layouts as defaults.
func NewRenderer(options ...Option) (*Renderer, error) {
	r := &Renderer{templates: defaultTemplateMap()}
	for _, opt := range options {
		if opt == nil {
			continue
		}
		opt(r)
	}
	if r.engine == nil {
		engine, err := NewEngine(WithFS(TemplatesFS()))
		if err != nil {
			return nil, fmt.Errorf("preview: configure engine: %w", err)
		}
		r.engine = engine
	}
	return r, nil
}

func defaultTemplateMap() map[string]string {
	return map[string]string{
		"standard-article":    "templates/article",
		"studio-article":      "templates/article",
		"match-report":        "templates/match_report",
		"match-report-pro":    "templates/match_report",
		"player-scout-report": "templates/scout_report",
	}
}

const fallbackTemplate = "templates/article"

// Render produces the sanitized preview fragment for a document.
func (r *Renderer) Render(ctx context.Context, templateID string, content map[string]any) (string, error) {
	if err := ctx.Err(); err != nil {
		return "", err
	}
	data, err := r.templateData(content)
	if err != nil {
		return "", err
	}
	markup, err := r.engine.Render(r.templateFor(templateID), data)
	if err != nil {
		return "", err
	}
	return Sanitize(markup), nil
}

// RenderDocument produces a complete standalone HTML document: the sanitized
// fragment wrapped in a document shell with title and meta tags. Used by the
// export path.
func (r *Renderer) RenderDocument(ctx context.Context, templateID string, content map[string]any) (string, error) {
	body, err := r.Render(ctx, templateID, content)
	if err != nil {
		return "", err
	}
	data, err := r.templateData(content)
	if err != nil {
		return "", err
	}
	data["body"] = body
	if _, ok := data["title"]; !ok {
		data["title"] = content["headline"]
	}
	return r.engine.Render("templates/document", data)
}

func (r *Renderer) templateFor(templateID string) string {
	if name, ok := r.templates[templateID]; ok {
		return name
	}
	return fallbackTemplate
}

func (r *Renderer) templateData(content map[string]any) (map[string]any, error) {
	data := make(map[string]any, len(content)+2)
	for key, value := range content {
		data[key] = value
	}
	if r.selector != nil {
		css, err := r.themeCSSVars()
		if err != nil {
			return nil, err
		}
		if css != "" {
			data["theme_css"] = css
			data["theme_name"] = r.themeName
		}
	}
	return data, nil
}

// themeCSSVars resolves the configured theme and flattens its tokens into a
// deterministic CSS custom-property list.
func (r *Renderer) themeCSSVars() (string, error) {
	selection, err := r.selector.Select(r.themeName, r.themeVariant)
	if err != nil {
		return "", fmt.Errorf("preview: select theme %q: %w", r.themeName, err)
	}
	if selection == nil || selection.Manifest == nil || len(selection.Manifest.Tokens) == 0 {
		return "", nil
	}
	tokens := selection.Manifest.Tokens
	names := make([]string, 0, len(tokens))
	for name := range tokens {
		names = append(names, name)
	}
	sort.Strings(names)

	var builder strings.Builder
	for _, name := range names {
		builder.WriteString("--")
		builder.WriteString(name)
		builder.WriteString(":")
		builder.WriteString(tokens[name])
		builder.WriteString(";")
	}
	return builder.String(), nil
}
