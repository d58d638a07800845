// Package validation compiles template specs into pure validation schemas.
// A schema takes a snapshot of form values and yields a complete field-id to
// error-message mapping plus an overall verdict; it never short-circuits and
// has no side effects.
package validation

import (
	"fmt"
	"regexp"
	"strings"

	"github.com/goliatone/go-pressbox/pkg/catalog"
)

// Result is the outcome of evaluating a schema against a value snapshot.
// Errors holds one human-readable message per failing field.
type Result struct {
	Valid  bool
	Errors map[string]string
}

type fieldRule struct {
	spec    catalog.FieldSpec
	pattern *regexp.Regexp
	options map[string]struct{}
}

// Schema is a compiled, immutable validator for one template.
type Schema struct {
	templateID string
	fields     []fieldRule
	index      map[string]int
	cross      []catalog.CrossRule
}

// Compile builds a schema from a template spec. Patterns are compiled once
// here so Evaluate stays allocation-light and error-free.
func Compile(spec catalog.TemplateSpec) (*Schema, error) {
	fields := spec.Fields()
	schema := &Schema{
		templateID: spec.ID,
		fields:     make([]fieldRule, 0, len(fields)),
		index:      make(map[string]int, len(fields)),
		cross:      append([]catalog.CrossRule(nil), spec.Rules...),
	}
	for _, field := range fields {
		rule := fieldRule{spec: field}
		if field.Constraint.Pattern != "" {
			compiled, err := regexp.Compile(field.Constraint.Pattern)
			if err != nil {
				return nil, fmt.Errorf("validation: template %q field %q: compile pattern: %w", spec.ID, field.ID, err)
			}
			rule.pattern = compiled
		}
		if field.Kind == catalog.FieldSingleSelect {
			rule.options = make(map[string]struct{}, len(field.Options))
			for _, opt := range field.Options {
				rule.options[opt.Value] = struct{}{}
			}
		}
		schema.index[field.ID] = len(schema.fields)
		schema.fields = append(schema.fields, rule)
	}
	return schema, nil
}

// MustCompile panics on compilation failure. Useful in tests and for the
// embedded catalog, whose patterns are covered by the catalog tests.
func MustCompile(spec catalog.TemplateSpec) *Schema {
	schema, err := Compile(spec)
	if err != nil {
		panic(err)
	}
	return schema
}

// TemplateID reports the template this schema was compiled from.
func (s *Schema) TemplateID() string {
	return s.templateID
}

// Evaluate checks the snapshot against every per-field rule, then against the
// template's cross-field rules. The returned mapping is complete: every
// failing field carries exactly one message. Values present in the snapshot
// but absent from the template's field list are ignored.
func (s *Schema) Evaluate(values map[string]string) Result {
	errs := make(map[string]string)
	for _, rule := range s.fields {
		value := strings.TrimSpace(values[rule.spec.ID])
		if msg := checkField(rule, value); msg != "" {
			errs[rule.spec.ID] = msg
		}
	}
	for _, rule := range s.cross {
		// Cross-field rules only fire once both operands pass on their own.
		if _, failed := errs[rule.Field]; failed {
			continue
		}
		if _, failed := errs[rule.Other]; failed {
			continue
		}
		if msg := s.checkCross(rule, values); msg != "" {
			errs[rule.Field] = msg
		}
	}
	return Result{Valid: len(errs) == 0, Errors: errs}
}

func checkField(rule fieldRule, value string) string {
	spec := rule.spec
	label := fieldLabel(spec)

	if value == "" {
		if spec.Required {
			return fmt.Sprintf("%s is required", label)
		}
		return ""
	}

	switch spec.Kind {
	case catalog.FieldShortText, catalog.FieldLongText:
		if max := spec.Constraint.MaxLength; max > 0 && len([]rune(value)) > max {
			return fmt.Sprintf("%s must be %d characters or less", label, max)
		}
		if rule.pattern != nil && !rule.pattern.MatchString(value) {
			return fmt.Sprintf("%s has an invalid format", label)
		}
	case catalog.FieldNumeric:
		return checkNumeric(spec, label, value)
	case catalog.FieldSingleSelect:
		if _, ok := rule.options[value]; !ok {
			return fmt.Sprintf("%s must be one of the available options", label)
		}
	case catalog.FieldDate:
		// Presence is the whole contract; no further parsing.
	}
	return ""
}

func fieldLabel(spec catalog.FieldSpec) string {
	if spec.Label != "" {
		return spec.Label
	}
	return spec.ID
}
