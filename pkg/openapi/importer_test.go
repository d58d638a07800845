package openapi

import (
	"context"
	"strings"
	"testing"

	"github.com/goliatone/go-pressbox/pkg/catalog"
)

const testDocument = `{
  "openapi": "3.0.0",
  "info": {"title": "generator", "version": "1.0.0"},
  "paths": {
    "/api/generate": {
      "post": {
        "operationId": "generate-recap",
        "summary": "Game Recap",
        "description": "Short recap of a completed game.",
        "requestBody": {
          "content": {
            "application/json": {
              "schema": {
                "type": "object",
                "required": ["topic", "sport"],
                "properties": {
                  "topic": {
                    "type": "string",
                    "maxLength": 120,
                    "description": "Main subject of the recap."
                  },
                  "context": {
                    "type": "string",
                    "maxLength": 4000
                  },
                  "sport": {
                    "type": "string",
                    "enum": ["football", "basketball", "tennis"],
                    "default": "football"
                  },
                  "final_score": {
                    "type": "integer",
                    "minimum": 0
                  },
                  "rating": {
                    "type": "number",
                    "minimum": 0,
                    "maximum": 10
                  },
                  "played_on": {
                    "type": "string",
                    "format": "date"
                  },
                  "highlight_url": {
                    "type": "string",
                    "pattern": "^https?://"
                  },
                  "tags": {
                    "type": "array",
                    "items": {"type": "string"}
                  }
                }
              }
            }
          }
        },
        "responses": {"200": {"description": "ok"}}
      }
    }
  }
}`

func importTestTemplate(t *testing.T) catalog.TemplateSpec {
	t.Helper()
	spec, err := ImportTemplate(context.Background(), []byte(testDocument), "generate-recap")
	if err != nil {
		t.Fatalf("import: %v", err)
	}
	return spec
}

func TestImportTemplateMetadata(t *testing.T) {
	spec := importTestTemplate(t)
	if spec.ID != "generate-recap" {
		t.Fatalf("id: %q", spec.ID)
	}
	if spec.Name != "Game Recap" {
		t.Fatalf("name: %q", spec.Name)
	}
	if spec.Description != "Short recap of a completed game." {
		t.Fatalf("description: %q", spec.Description)
	}
}

func TestImportTemplateFieldMapping(t *testing.T) {
	spec := importTestTemplate(t)

	field := func(id string) catalog.FieldSpec {
		t.Helper()
		f, ok := spec.Field(id)
		if !ok {
			t.Fatalf("field %s not imported", id)
		}
		return f
	}

	topic := field("topic")
	if topic.Kind != catalog.FieldShortText || !topic.Required {
		t.Fatalf("topic: %+v", topic)
	}
	if topic.Constraint.MaxLength != 120 {
		t.Fatalf("topic max length: %d", topic.Constraint.MaxLength)
	}
	if topic.HelpText != "Main subject of the recap." {
		t.Fatalf("topic help: %q", topic.HelpText)
	}
	if topic.Label != "Topic" {
		t.Fatalf("topic label: %q", topic.Label)
	}

	// Long maxLength promotes a string to a multi-line field.
	if ctx := field("context"); ctx.Kind != catalog.FieldLongText {
		t.Fatalf("context kind: %s", ctx.Kind)
	}

	sport := field("sport")
	if sport.Kind != catalog.FieldSingleSelect || len(sport.Options) != 3 {
		t.Fatalf("sport: %+v", sport)
	}
	if spec.InitialValues["sport"] != "football" {
		t.Fatalf("sport default: %q", spec.InitialValues["sport"])
	}

	score := field("final_score")
	if score.Kind != catalog.FieldNumeric || !score.Constraint.IntegerOnly {
		t.Fatalf("final_score: %+v", score)
	}
	if score.Constraint.Min == nil || *score.Constraint.Min != 0 {
		t.Fatalf("final_score min: %v", score.Constraint.Min)
	}

	rating := field("rating")
	if rating.Kind != catalog.FieldNumeric || rating.Constraint.IntegerOnly {
		t.Fatalf("rating: %+v", rating)
	}
	if rating.Constraint.Max == nil || *rating.Constraint.Max != 10 {
		t.Fatalf("rating max: %v", rating.Constraint.Max)
	}

	if played := field("played_on"); played.Kind != catalog.FieldDate {
		t.Fatalf("played_on kind: %s", played.Kind)
	}

	if url := field("highlight_url"); url.Constraint.Pattern != "^https?://" {
		t.Fatalf("highlight_url pattern: %q", url.Constraint.Pattern)
	}

	// Array properties have no field equivalent and are skipped.
	if _, ok := spec.Field("tags"); ok {
		t.Fatal("array property should be skipped")
	}
}

func TestImportTemplateFieldOrderIsStable(t *testing.T) {
	first := importTestTemplate(t)
	second := importTestTemplate(t)

	var a, b []string
	for _, f := range first.Fields() {
		a = append(a, f.ID)
	}
	for _, f := range second.Fields() {
		b = append(b, f.ID)
	}
	if strings.Join(a, ",") != strings.Join(b, ",") {
		t.Fatalf("field order unstable: %v vs %v", a, b)
	}
}

func TestImportTemplateValidatesAgainstRegistry(t *testing.T) {
	spec := importTestTemplate(t)
	if _, err := catalog.New(spec); err != nil {
		t.Fatalf("imported spec rejected by registry: %v", err)
	}
}

func TestImportTemplateErrors(t *testing.T) {
	ctx := context.Background()

	if _, err := ImportTemplate(ctx, nil, "generate-recap"); err == nil {
		t.Fatal("expected empty payload error")
	}
	if _, err := ImportTemplate(ctx, []byte(testDocument), ""); err == nil {
		t.Fatal("expected missing operation id error")
	}
	if _, err := ImportTemplate(ctx, []byte(testDocument), "ghost"); err == nil {
		t.Fatal("expected unknown operation error")
	}
	if _, err := ImportTemplate(ctx, []byte("not json or yaml: ["), "x"); err == nil {
		t.Fatal("expected load error")
	}
}
