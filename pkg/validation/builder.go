package validation

import (
	"sync"

	"github.com/goliatone/go-pressbox/pkg/catalog"
)

// Builder derives validation schemas from a template registry, caching
// compiled schemas by template id. Unknown template ids fall back to the base
// schema rather than erroring, mirroring the generation service's behaviour
// of treating unrecognised templates as plain articles.
type Builder struct {
	registry *catalog.Registry

	mu     sync.Mutex
	byID   map[string]*Schema
	baseSC *Schema
}

// NewBuilder constructs a Builder over the given registry.
func NewBuilder(registry *catalog.Registry) *Builder {
	return &Builder{
		registry: registry,
		byID:     make(map[string]*Schema),
	}
}

// Build returns the compiled schema for the template, or the base schema when
// the id is unknown. Compilation errors only arise from malformed constraint
// patterns in the spec.
func (b *Builder) Build(templateID string) (*Schema, error) {
	b.mu.Lock()
	defer b.mu.Unlock()

	if schema, ok := b.byID[templateID]; ok {
		return schema, nil
	}

	spec, ok := b.registry.Get(templateID)
	if !ok {
		return b.baseLocked(), nil
	}

	schema, err := Compile(spec)
	if err != nil {
		return nil, err
	}
	b.byID[templateID] = schema
	return schema, nil
}

func (b *Builder) baseLocked() *Schema {
	if b.baseSC == nil {
		b.baseSC = MustCompile(baseSpec())
	}
	return b.baseSC
}

// baseSpec is the minimal contract every generation request must satisfy
// regardless of template: the four narrative inputs the service cannot work
// without.
func baseSpec() catalog.TemplateSpec {
	field := func(id, label string, kind catalog.FieldKind) catalog.CatalogItem {
		return catalog.CatalogItem{Field: &catalog.FieldSpec{
			ID:       id,
			Kind:     kind,
			Label:    label,
			Required: true,
		}}
	}
	return catalog.TemplateSpec{
		ID:   "base",
		Name: "Base",
		Items: []catalog.CatalogItem{
			field("topic", "Topic", catalog.FieldShortText),
			field("keywords", "Keywords", catalog.FieldShortText),
			field("context", "Additional Context", catalog.FieldLongText),
			field("supporting_data", "Supporting Data", catalog.FieldLongText),
		},
	}
}
