package catalog

import (
	"fmt"
	"io/fs"

	"gopkg.in/yaml.v3"
)

// Registry is the process-wide read-only catalog of templates. It is loaded
// once at startup and preserves the declaration order of catalog.yaml so
// consumers render templates in a stable sequence.
type Registry struct {
	order []string
	specs map[string]TemplateSpec
}

// New builds a registry from the given specs, validating each and rejecting
// duplicate ids.
func New(specs ...TemplateSpec) (*Registry, error) {
	r := &Registry{specs: make(map[string]TemplateSpec, len(specs))}
	for _, spec := range specs {
		if err := spec.validate(); err != nil {
			return nil, err
		}
		if _, exists := r.specs[spec.ID]; exists {
			return nil, fmt.Errorf("catalog: template %q already registered", spec.ID)
		}
		r.order = append(r.order, spec.ID)
		r.specs[spec.ID] = spec
	}
	return r, nil
}

// MustNew panics on registry construction failure. Useful for init-time
// wiring with a known-good catalog.
func MustNew(specs ...TemplateSpec) *Registry {
	r, err := New(specs...)
	if err != nil {
		panic(err)
	}
	return r
}

// Load parses a catalog document from fsys and builds a registry from it.
func Load(fsys fs.FS, path string) (*Registry, error) {
	raw, err := fs.ReadFile(fsys, path)
	if err != nil {
		return nil, fmt.Errorf("catalog: read %q: %w", path, err)
	}
	return Parse(raw)
}

// Parse decodes a YAML catalog document into a registry.
func Parse(raw []byte) (*Registry, error) {
	var doc struct {
		Templates []TemplateSpec `yaml:"templates"`
	}
	if err := yaml.Unmarshal(raw, &doc); err != nil {
		return nil, fmt.Errorf("catalog: decode catalog: %w", err)
	}
	if len(doc.Templates) == 0 {
		return nil, fmt.Errorf("catalog: catalog declares no templates")
	}
	return New(doc.Templates...)
}

// List returns the full catalog in declaration order.
func (r *Registry) List() []TemplateSpec {
	out := make([]TemplateSpec, 0, len(r.order))
	for _, id := range r.order {
		out = append(out, r.specs[id])
	}
	return out
}

// Get retrieves a template spec by id.
func (r *Registry) Get(id string) (TemplateSpec, bool) {
	spec, ok := r.specs[id]
	return spec, ok
}

// Has reports whether a template is registered.
func (r *Registry) Has(id string) bool {
	_, ok := r.specs[id]
	return ok
}

// Categories returns the distinct template categories in first-seen order.
func (r *Registry) Categories() []string {
	seen := make(map[string]struct{}, len(r.order))
	var out []string
	for _, id := range r.order {
		category := r.specs[id].Category
		if category == "" {
			continue
		}
		if _, dup := seen[category]; dup {
			continue
		}
		seen[category] = struct{}{}
		out = append(out, category)
	}
	return out
}
