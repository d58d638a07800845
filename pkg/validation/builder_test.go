package validation

import (
	"testing"

	"github.com/goliatone/go-pressbox/pkg/catalog"
)

func TestBuildCachesCompiledSchemas(t *testing.T) {
	builder := NewBuilder(catalog.MustDefault())

	first, err := builder.Build("match-report")
	if err != nil {
		t.Fatalf("build: %v", err)
	}
	second, err := builder.Build("match-report")
	if err != nil {
		t.Fatalf("build: %v", err)
	}
	if first != second {
		t.Fatal("expected the cached schema instance on the second build")
	}
	if first.TemplateID() != "match-report" {
		t.Fatalf("template id: %s", first.TemplateID())
	}
}

func TestBuildFallsBackToBaseSchema(t *testing.T) {
	builder := NewBuilder(catalog.MustDefault())

	schema, err := builder.Build("never-published")
	if err != nil {
		t.Fatalf("build: %v", err)
	}
	if schema.TemplateID() != "base" {
		t.Fatalf("expected base schema, got %s", schema.TemplateID())
	}

	result := schema.Evaluate(map[string]string{})
	for _, id := range []string{"topic", "keywords", "context", "supporting_data"} {
		if _, ok := result.Errors[id]; !ok {
			t.Fatalf("base schema should require %s, got %v", id, result.Errors)
		}
	}

	result = schema.Evaluate(map[string]string{
		"topic":           "Transfer window",
		"keywords":        "football",
		"context":         "Deadline day",
		"supporting_data": "Fee: undisclosed",
	})
	if !result.Valid {
		t.Fatalf("expected valid, got %v", result.Errors)
	}
}
