package catalog

import (
	"fmt"

	"gopkg.in/yaml.v3"
)

// FieldKind is the closed set of form field kinds a template may declare.
// Every kind carries its own constraint payload and is interpreted uniformly
// by the validation builder and the form model, so adding a template never
// requires per-template code.
type FieldKind string

const (
	FieldShortText    FieldKind = "short-text"
	FieldLongText     FieldKind = "long-text"
	FieldSingleSelect FieldKind = "single-select"
	FieldNumeric      FieldKind = "numeric"
	FieldDate         FieldKind = "date"
)

// Valid reports whether the kind is one of the declared field kinds.
func (k FieldKind) Valid() bool {
	switch k {
	case FieldShortText, FieldLongText, FieldSingleSelect, FieldNumeric, FieldDate:
		return true
	}
	return false
}

// SelectOption is a single choice offered by a single-select field.
type SelectOption struct {
	Value string `yaml:"value"`
	Label string `yaml:"label"`
}

// Constraint is the per-field validation payload. Zero values mean "no
// constraint"; pointer fields distinguish an explicit zero bound from absence.
type Constraint struct {
	// MaxLength caps the number of characters for text kinds.
	MaxLength int `yaml:"maxLength"`
	// Pattern is a regular expression the whole value must match.
	Pattern string `yaml:"pattern"`
	// Min and Max bound numeric values inclusively.
	Min *float64 `yaml:"min"`
	Max *float64 `yaml:"max"`
	// IntegerOnly rejects numeric values with a fractional component.
	IntegerOnly bool `yaml:"integerOnly"`
	// MaxDecimals caps the number of decimal places on a numeric value.
	MaxDecimals *int `yaml:"maxDecimals"`
}

// FieldSpec describes one form field: its kind, presentation metadata, and
// validation constraints. IDs are unique within a template.
type FieldSpec struct {
	ID          string         `yaml:"id"`
	Kind        FieldKind      `yaml:"kind"`
	Label       string         `yaml:"label"`
	Required    bool           `yaml:"required"`
	HelpText    string         `yaml:"helpText"`
	Placeholder string         `yaml:"placeholder"`
	Options     []SelectOption `yaml:"options"`
	Constraint  Constraint     `yaml:"constraint"`
}

// FieldGroup wraps a label and an ordered list of fields or nested groups.
// Nesting depth is unbounded even though the shipped catalog stays shallow.
type FieldGroup struct {
	ID    string        `yaml:"group"`
	Label string        `yaml:"label"`
	Items []CatalogItem `yaml:"fields"`
}

// CatalogItem is the tagged union of a field and a group. Exactly one of the
// two members is set after decoding.
type CatalogItem struct {
	Field *FieldSpec
	Group *FieldGroup
}

// UnmarshalYAML decides between field and group by the presence of a "group"
// key, matching the shape templates declare in catalog.yaml.
func (item *CatalogItem) UnmarshalYAML(value *yaml.Node) error {
	var probe struct {
		Group string `yaml:"group"`
	}
	if err := value.Decode(&probe); err != nil {
		return err
	}
	if probe.Group != "" {
		group := FieldGroup{}
		if err := value.Decode(&group); err != nil {
			return err
		}
		item.Group = &group
		item.Field = nil
		return nil
	}
	field := FieldSpec{}
	if err := value.Decode(&field); err != nil {
		return err
	}
	item.Field = &field
	item.Group = nil
	return nil
}

// Access rule kinds.
const (
	AccessOpen       = "open"
	AccessRestricted = "restricted"
)

// AccessRule gates template visibility. Open templates are visible to
// everyone. Restricted templates require every condition that is present to
// match: a caller must appear in AllowedUserIDs when the list is non-empty AND
// hold one of AllowedPlanTypes when that list is non-empty.
type AccessRule struct {
	Kind             string   `yaml:"kind"`
	AllowedUserIDs   []string `yaml:"userIds"`
	AllowedPlanTypes []string `yaml:"planTypes"`
}

// Open reports whether the rule grants unrestricted access. An empty kind is
// treated as open so catalog entries may omit the block entirely.
func (r AccessRule) Open() bool {
	return r.Kind == "" || r.Kind == AccessOpen
}

// Cross-field rule kinds understood by the validation builder.
const (
	RuleScorersWithinScore = "scorers-within-score"
	RuleSumEquals          = "sum-equals"
	RuleNotExceeds         = "not-exceeds"
)

// CrossRule declares a relationship between two fields of a template,
// evaluated after the per-field rules for both operands pass. Errors attach
// to Field.
type CrossRule struct {
	Kind  string   `yaml:"kind"`
	Field string   `yaml:"field"`
	Other string   `yaml:"other"`
	Total *float64 `yaml:"total"`
}

// TemplateSpec is the declarative description of one content type: display
// metadata, access rule, field defaults, the ordered field tree, and any
// cross-field validation rules. Specs are immutable after registry load and
// identified by a stable string id that is never reused once published.
type TemplateSpec struct {
	ID            string            `yaml:"id"`
	Name          string            `yaml:"name"`
	Description   string            `yaml:"description"`
	Category      string            `yaml:"category"`
	Tags          []string          `yaml:"tags"`
	Access        AccessRule        `yaml:"access"`
	InitialValues map[string]string `yaml:"initialValues"`
	Items         []CatalogItem     `yaml:"fields"`
	Rules         []CrossRule       `yaml:"rules"`
}

// Fields returns the template's field specs flattened in declaration order,
// descending into groups depth-first.
func (s TemplateSpec) Fields() []FieldSpec {
	var out []FieldSpec
	collectFields(s.Items, &out)
	return out
}

func collectFields(items []CatalogItem, out *[]FieldSpec) {
	for _, item := range items {
		switch {
		case item.Field != nil:
			*out = append(*out, *item.Field)
		case item.Group != nil:
			collectFields(item.Group.Items, out)
		}
	}
}

// Field looks up a field spec by id anywhere in the field tree.
func (s TemplateSpec) Field(id string) (FieldSpec, bool) {
	for _, field := range s.Fields() {
		if field.ID == id {
			return field, true
		}
	}
	return FieldSpec{}, false
}

func (s TemplateSpec) validate() error {
	if s.ID == "" {
		return fmt.Errorf("catalog: template is missing an id")
	}
	if s.Access.Kind != "" && s.Access.Kind != AccessOpen && s.Access.Kind != AccessRestricted {
		return fmt.Errorf("catalog: template %q: unknown access kind %q", s.ID, s.Access.Kind)
	}
	fields := s.Fields()
	if len(fields) == 0 {
		return fmt.Errorf("catalog: template %q declares no fields", s.ID)
	}
	seen := make(map[string]struct{}, len(fields))
	for _, field := range fields {
		if field.ID == "" {
			return fmt.Errorf("catalog: template %q has a field without an id", s.ID)
		}
		if !field.Kind.Valid() {
			return fmt.Errorf("catalog: template %q field %q: unknown kind %q", s.ID, field.ID, field.Kind)
		}
		if _, dup := seen[field.ID]; dup {
			return fmt.Errorf("catalog: template %q declares field %q twice", s.ID, field.ID)
		}
		seen[field.ID] = struct{}{}
		if field.Kind == FieldSingleSelect && len(field.Options) == 0 {
			return fmt.Errorf("catalog: template %q field %q: single-select requires options", s.ID, field.ID)
		}
	}
	for id := range s.InitialValues {
		if _, ok := seen[id]; !ok {
			return fmt.Errorf("catalog: template %q: initial value for undeclared field %q", s.ID, id)
		}
	}
	for _, rule := range s.Rules {
		if _, ok := seen[rule.Field]; !ok {
			return fmt.Errorf("catalog: template %q: rule %q references undeclared field %q", s.ID, rule.Kind, rule.Field)
		}
		if _, ok := seen[rule.Other]; !ok {
			return fmt.Errorf("catalog: template %q: rule %q references undeclared field %q", s.ID, rule.Kind, rule.Other)
		}
		switch rule.Kind {
		case RuleScorersWithinScore, RuleNotExceeds:
		case RuleSumEquals:
			if rule.Total == nil {
				return fmt.Errorf("catalog: template %q: sum-equals rule needs a total", s.ID)
			}
		default:
			return fmt.Errorf("catalog: template %q: unknown rule kind %q", s.ID, rule.Kind)
		}
	}
	return nil
}
