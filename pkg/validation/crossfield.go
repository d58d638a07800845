package validation

import (
	"fmt"
	"strings"

	"github.com/goliatone/go-pressbox/pkg/catalog"
)

func (s *Schema) checkCross(rule catalog.CrossRule, values map[string]string) string {
	switch rule.Kind {
	case catalog.RuleScorersWithinScore:
		return s.checkScorers(rule, values)
	case catalog.RuleSumEquals:
		return s.checkSumEquals(rule, values)
	case catalog.RuleNotExceeds:
		return s.checkNotExceeds(rule, values)
	}
	return ""
}

func (s *Schema) checkScorers(rule catalog.CrossRule, values map[string]string) string {
	entries := scorerEntries(values[rule.Field])
	if len(entries) == 0 {
		return ""
	}
	score, ok := parseNumber(values, rule.Other)
	if !ok {
		return ""
	}
	if float64(len(entries)) > score {
		return fmt.Sprintf("%s lists %d scorers but %s is %s",
			s.label(rule.Field), len(entries), s.label(rule.Other), strings.TrimSpace(values[rule.Other]))
	}
	return ""
}

func (s *Schema) checkSumEquals(rule catalog.CrossRule, values map[string]string) string {
	a, okA := parseNumber(values, rule.Field)
	b, okB := parseNumber(values, rule.Other)
	if !okA || !okB || rule.Total == nil {
		return ""
	}
	if a+b != *rule.Total {
		return fmt.Sprintf("%s and %s must sum to %s",
			s.label(rule.Field), s.label(rule.Other), formatBound(*rule.Total))
	}
	return ""
}

func (s *Schema) checkNotExceeds(rule catalog.CrossRule, values map[string]string) string {
	value, okValue := parseNumber(values, rule.Field)
	bound, okBound := parseNumber(values, rule.Other)
	if !okValue || !okBound {
		return ""
	}
	if value > bound {
		return fmt.Sprintf("%s cannot exceed %s", s.label(rule.Field), s.label(rule.Other))
	}
	return ""
}

func (s *Schema) label(id string) string {
	if idx, ok := s.index[id]; ok {
		return fieldLabel(s.fields[idx].spec)
	}
	return id
}

// scorerEntries splits a comma-separated scorer list ("Rashford (23'),
// Bruno (67')") into distinct trimmed entries. An empty string yields no
// entries and is always valid.
func scorerEntries(value string) []string {
	trimmed := strings.TrimSpace(value)
	if trimmed == "" {
		return nil
	}
	parts := strings.Split(trimmed, ",")
	seen := make(map[string]struct{}, len(parts))
	out := make([]string, 0, len(parts))
	for _, part := range parts {
		entry := strings.TrimSpace(part)
		if entry == "" {
			continue
		}
		if _, dup := seen[entry]; dup {
			continue
		}
		seen[entry] = struct{}{}
		out = append(out, entry)
	}
	return out
}
