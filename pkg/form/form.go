// Package form holds the mutable state of the template-driven form: current
// values, touched flags, and the latest validation errors. State is keyed to
// exactly one active template at a time and is fully reinitialized whenever
// the active template changes. Rendering is driven purely by the active
// spec's field list, so adding a template requires no change here.
package form

import (
	"fmt"

	"github.com/goliatone/go-pressbox/pkg/catalog"
	"github.com/goliatone/go-pressbox/pkg/validation"
)

// Form owns FormState. No other component mutates values, touched flags, or
// errors directly; everything goes through the methods below.
type Form struct {
	builder *validation.Builder

	spec    catalog.TemplateSpec
	active  bool
	values  map[string]string
	touched map[string]bool
	errors  map[string]string
}

// New constructs an empty form bound to a schema builder. No template is
// active until SetTemplate is called.
func New(builder *validation.Builder) *Form {
	return &Form{
		builder: builder,
		values:  make(map[string]string),
		touched: make(map[string]bool),
		errors:  make(map[string]string),
	}
}

// SetTemplate activates a template, reinitializing all state from the spec's
// initial values. Calling it with the currently-active template id is a no-op
// so in-progress input survives redundant selections. No stale field from a
// previously active template survives a real switch.
func (f *Form) SetTemplate(spec catalog.TemplateSpec) {
	if f.active && f.spec.ID == spec.ID {
		return
	}
	f.spec = spec
	f.active = true
	f.values = make(map[string]string, len(spec.InitialValues))
	f.touched = make(map[string]bool)
	f.errors = make(map[string]string)
	for _, field := range spec.Fields() {
		f.values[field.ID] = spec.InitialValues[field.ID]
	}
}

// TemplateID reports the active template id, or "" when none is active.
func (f *Form) TemplateID() string {
	if !f.active {
		return ""
	}
	return f.spec.ID
}

// Spec returns the active template spec. The second result is false when no
// template has been selected yet.
func (f *Form) Spec() (catalog.TemplateSpec, bool) {
	return f.spec, f.active
}

// Fields returns the active template's fields in declaration order.
func (f *Form) Fields() []catalog.FieldSpec {
	if !f.active {
		return nil
	}
	return f.spec.Fields()
}

// SetField records a new value for a field and marks it touched. Unknown ids
// are rejected so callers cannot grow state outside the active field list.
func (f *Form) SetField(id, value string) error {
	if !f.active {
		return fmt.Errorf("form: no active template")
	}
	if _, ok := f.spec.Field(id); !ok {
		return fmt.Errorf("form: template %q has no field %q", f.spec.ID, id)
	}
	f.values[id] = value
	f.touched[id] = true
	return nil
}

// Touch marks a field as visited without changing its value.
func (f *Form) Touch(id string) {
	if !f.active {
		return
	}
	if _, ok := f.spec.Field(id); ok {
		f.touched[id] = true
	}
}

// Touched reports whether the field has been visited or edited.
func (f *Form) Touched(id string) bool {
	return f.touched[id]
}

// Value returns the current value for a field ("" when unset).
func (f *Form) Value(id string) string {
	return f.values[id]
}

// Values returns a snapshot copy of all current values.
func (f *Form) Values() map[string]string {
	out := make(map[string]string, len(f.values))
	for id, value := range f.values {
		out[id] = value
	}
	return out
}

// Error returns the last recorded validation message for a field.
func (f *Form) Error(id string) string {
	return f.errors[id]
}

// Validate evaluates the current values against the compiled schema for the
// active template and records the complete error mapping.
func (f *Form) Validate() (validation.Result, error) {
	if !f.active {
		return validation.Result{}, fmt.Errorf("form: no active template")
	}
	schema, err := f.builder.Build(f.spec.ID)
	if err != nil {
		return validation.Result{}, fmt.Errorf("form: build schema: %w", err)
	}
	result := schema.Evaluate(f.values)
	f.errors = result.Errors
	return result, nil
}
