// Package openapi imports catalog templates from OpenAPI documents. An
// operation's JSON request body becomes a template's field list, so services
// that already publish a schema can feed the catalog without hand-written
// YAML.
package openapi

import (
	"context"
	"errors"
	"fmt"
	"sort"
	"strings"

	"github.com/getkin/kin-openapi/openapi3"

	"github.com/goliatone/go-pressbox/pkg/catalog"
)

// ImportTemplate reads an OpenAPI document and converts the request body of
// the named operation into a catalog template. The operation must carry a
// JSON request body with an object schema.
func ImportTemplate(ctx context.Context, raw []byte, operationID string) (catalog.TemplateSpec, error) {
	if len(raw) == 0 {
		return catalog.TemplateSpec{}, errors.New("openapi: document payload is empty")
	}
	if operationID == "" {
		return catalog.TemplateSpec{}, errors.New("openapi: operation id is required")
	}

	loader := &openapi3.Loader{Context: ctx}
	doc, err := loader.LoadFromData(raw)
	if err != nil {
		return catalog.TemplateSpec{}, fmt.Errorf("openapi: load document: %w", err)
	}

	operation := findOperation(doc, operationID)
	if operation == nil {
		return catalog.TemplateSpec{}, fmt.Errorf("openapi: operation %q not found", operationID)
	}

	schema := requestSchema(operation)
	if schema == nil {
		return catalog.TemplateSpec{}, fmt.Errorf("openapi: operation %q has no object request body", operationID)
	}

	spec := catalog.TemplateSpec{
		ID:          operationID,
		Name:        operation.Summary,
		Description: operation.Description,
	}
	if spec.Name == "" {
		spec.Name = operationID
	}

	required := make(map[string]bool, len(schema.Required))
	for _, name := range schema.Required {
		required[name] = true
	}

	// Property iteration order is undefined; sort for a stable field list.
	names := make([]string, 0, len(schema.Properties))
	for name := range schema.Properties {
		names = append(names, name)
	}
	sort.Strings(names)

	for _, name := range names {
		ref := schema.Properties[name]
		if ref == nil || ref.Value == nil {
			continue
		}
		field, ok := convertField(name, ref.Value, required[name])
		if !ok {
			continue
		}
		spec.Items = append(spec.Items, catalog.CatalogItem{Field: &field})
		if def, ok := ref.Value.Default.(string); ok && def != "" {
			if spec.InitialValues == nil {
				spec.InitialValues = make(map[string]string)
			}
			spec.InitialValues[name] = def
		}
	}

	if len(spec.Items) == 0 {
		return catalog.TemplateSpec{}, fmt.Errorf("openapi: operation %q produced no fields", operationID)
	}
	return spec, nil
}

func findOperation(doc *openapi3.T, operationID string) *openapi3.Operation {
	if doc == nil || doc.Paths == nil {
		return nil
	}
	for _, item := range doc.Paths.Map() {
		if item == nil {
			continue
		}
		for _, op := range item.Operations() {
			if op != nil && op.OperationID == operationID {
				return op
			}
		}
	}
	return nil
}

func requestSchema(operation *openapi3.Operation) *openapi3.Schema {
	if operation.RequestBody == nil || operation.RequestBody.Value == nil {
		return nil
	}
	media, ok := operation.RequestBody.Value.Content["application/json"]
	if !ok || media.Schema == nil || media.Schema.Value == nil {
		return nil
	}
	schema := media.Schema.Value
	if len(schema.Properties) == 0 {
		return nil
	}
	return schema
}

// longTextThreshold is the maxLength above which a string property maps to a
// multi-line field.
const longTextThreshold = 255

func convertField(name string, src *openapi3.Schema, required bool) (catalog.FieldSpec, bool) {
	field := catalog.FieldSpec{
		ID:       name,
		Label:    labelFor(name),
		Required: required,
		HelpText: src.Description,
	}

	switch schemaType(src) {
	case "string":
		field.Kind = stringKind(src)
		if field.Kind == catalog.FieldSingleSelect {
			for _, value := range src.Enum {
				option, ok := value.(string)
				if !ok {
					continue
				}
				field.Options = append(field.Options, catalog.SelectOption{Value: option, Label: labelFor(option)})
			}
			if len(field.Options) == 0 {
				return catalog.FieldSpec{}, false
			}
		}
		if src.MaxLength != nil {
			field.Constraint.MaxLength = int(*src.MaxLength)
		}
		field.Constraint.Pattern = src.Pattern
	case "integer":
		field.Kind = catalog.FieldNumeric
		field.Constraint.IntegerOnly = true
		field.Constraint.Min = src.Min
		field.Constraint.Max = src.Max
	case "number":
		field.Kind = catalog.FieldNumeric
		field.Constraint.Min = src.Min
		field.Constraint.Max = src.Max
	default:
		// Arrays, objects, and booleans have no form field equivalent here.
		return catalog.FieldSpec{}, false
	}

	return field, true
}

func stringKind(src *openapi3.Schema) catalog.FieldKind {
	if len(src.Enum) > 0 {
		return catalog.FieldSingleSelect
	}
	switch src.Format {
	case "date", "date-time":
		return catalog.FieldDate
	case "textarea":
		return catalog.FieldLongText
	}
	if src.MaxLength != nil && *src.MaxLength > longTextThreshold {
		return catalog.FieldLongText
	}
	return catalog.FieldShortText
}

func schemaType(src *openapi3.Schema) string {
	if src.Type == nil {
		return ""
	}
	values := src.Type.Slice()
	if len(values) == 0 {
		return ""
	}
	return values[0]
}

func labelFor(id string) string {
	parts := strings.FieldsFunc(id, func(r rune) bool {
		return r == '_' || r == '-'
	})
	for i, part := range parts {
		if part == "" {
			continue
		}
		parts[i] = strings.ToUpper(part[:1]) + part[1:]
	}
	return strings.Join(parts, " ")
}
