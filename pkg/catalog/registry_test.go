package catalog

import (
	"strings"
	"testing"

	"github.com/google/go-cmp/cmp"
)

func TestDefaultCatalogLoads(t *testing.T) {
	registry, err := Default()
	if err != nil {
		t.Fatalf("load embedded catalog: %v", err)
	}

	want := []string{
		"standard-article",
		"studio-article",
		"match-report",
		"match-report-pro",
		"player-scout-report",
	}
	var got []string
	for _, spec := range registry.List() {
		got = append(got, spec.ID)
	}
	if diff := cmp.Diff(want, got); diff != "" {
		t.Fatalf("catalog order mismatch (-want +got):\n%s", diff)
	}
}

func TestRegistryRejectsDuplicateIDs(t *testing.T) {
	spec := TemplateSpec{
		ID: "dup",
		Items: []CatalogItem{
			{Field: &FieldSpec{ID: "topic", Kind: FieldShortText}},
		},
	}
	_, err := New(spec, spec)
	if err == nil {
		t.Fatal("expected duplicate id error")
	}
	if !strings.Contains(err.Error(), "already registered") {
		t.Fatalf("unexpected error: %v", err)
	}
}

func TestParseValidatesSpecs(t *testing.T) {
	tests := []struct {
		name string
		yaml string
		want string
	}{
		{
			name: "missing id",
			yaml: "templates:\n  - name: no id\n    fields:\n      - id: topic\n        kind: short-text\n",
			want: "missing an id",
		},
		{
			name: "unknown kind",
			yaml: "templates:\n  - id: t\n    fields:\n      - id: topic\n        kind: mystery\n",
			want: "unknown kind",
		},
		{
			name: "select without options",
			yaml: "templates:\n  - id: t\n    fields:\n      - id: foot\n        kind: single-select\n",
			want: "requires options",
		},
		{
			name: "initial value for undeclared field",
			yaml: "templates:\n  - id: t\n    initialValues:\n      ghost: x\n    fields:\n      - id: topic\n        kind: short-text\n",
			want: "undeclared field",
		},
		{
			name: "rule references undeclared field",
			yaml: "templates:\n  - id: t\n    rules:\n      - kind: not-exceeds\n        field: ghost\n        other: topic\n    fields:\n      - id: topic\n        kind: short-text\n",
			want: "undeclared field",
		},
		{
			name: "sum-equals without total",
			yaml: "templates:\n  - id: t\n    rules:\n      - kind: sum-equals\n        field: a\n        other: b\n    fields:\n      - id: a\n        kind: numeric\n      - id: b\n        kind: numeric\n",
			want: "needs a total",
		},
	}

	for _, tc := range tests {
		t.Run(tc.name, func(t *testing.T) {
			_, err := Parse([]byte(tc.yaml))
			if err == nil {
				t.Fatal("expected a validation error")
			}
			if !strings.Contains(err.Error(), tc.want) {
				t.Fatalf("error %q does not mention %q", err, tc.want)
			}
		})
	}
}

func TestFieldsFlattenGroupsInOrder(t *testing.T) {
	spec := TemplateSpec{
		ID: "grouped",
		Items: []CatalogItem{
			{Field: &FieldSpec{ID: "headline", Kind: FieldShortText}},
			{Group: &FieldGroup{
				ID: "details",
				Items: []CatalogItem{
					{Field: &FieldSpec{ID: "name", Kind: FieldShortText}},
					{Field: &FieldSpec{ID: "age", Kind: FieldNumeric}},
				},
			}},
			{Field: &FieldSpec{ID: "notes", Kind: FieldLongText}},
		},
	}

	var got []string
	for _, field := range spec.Fields() {
		got = append(got, field.ID)
	}
	want := []string{"headline", "name", "age", "notes"}
	if diff := cmp.Diff(want, got); diff != "" {
		t.Fatalf("flatten order mismatch (-want +got):\n%s", diff)
	}
}

func TestCatalogItemDecodesGroups(t *testing.T) {
	registry := MustDefault()
	spec, ok := registry.Get("player-scout-report")
	if !ok {
		t.Fatal("player-scout-report not in catalog")
	}

	var group *FieldGroup
	for _, item := range spec.Items {
		if item.Group != nil {
			group = item.Group
			break
		}
	}
	if group == nil {
		t.Fatal("expected a field group in player-scout-report")
	}
	if group.ID != "player_details" {
		t.Fatalf("group id: want player_details, got %s", group.ID)
	}
	if len(group.Items) == 0 {
		t.Fatal("group has no fields")
	}
}

func TestAccessRuleOpen(t *testing.T) {
	tests := []struct {
		rule AccessRule
		want bool
	}{
		{AccessRule{}, true},
		{AccessRule{Kind: AccessOpen}, true},
		{AccessRule{Kind: AccessRestricted}, false},
		{AccessRule{Kind: AccessRestricted, AllowedPlanTypes: []string{"pro"}}, false},
	}
	for _, tc := range tests {
		if got := tc.rule.Open(); got != tc.want {
			t.Fatalf("Open() on %+v: want %v, got %v", tc.rule, tc.want, got)
		}
	}
}
