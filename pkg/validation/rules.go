package validation

import (
	"fmt"
	"strconv"
	"strings"

	"github.com/goliatone/go-pressbox/pkg/catalog"
)

func checkNumeric(spec catalog.FieldSpec, label, value string) string {
	parsed, err := strconv.ParseFloat(value, 64)
	if err != nil {
		return fmt.Sprintf("%s must be a number", label)
	}
	c := spec.Constraint
	if c.Min != nil && parsed < *c.Min {
		return fmt.Sprintf("%s must be at least %s", label, formatBound(*c.Min))
	}
	if c.Max != nil && parsed > *c.Max {
		return fmt.Sprintf("%s must be at most %s", label, formatBound(*c.Max))
	}
	if c.IntegerOnly && parsed != float64(int64(parsed)) {
		return fmt.Sprintf("%s must be a whole number", label)
	}
	if c.MaxDecimals != nil && decimalPlaces(value) > *c.MaxDecimals {
		if *c.MaxDecimals == 1 {
			return fmt.Sprintf("%s must have at most 1 decimal place", label)
		}
		return fmt.Sprintf("%s must have at most %d decimal places", label, *c.MaxDecimals)
	}
	return ""
}

// decimalPlaces counts digits after the decimal point as typed, so "2.50"
// has two places even though the trailing zero is numerically redundant.
func decimalPlaces(value string) int {
	idx := strings.IndexByte(value, '.')
	if idx < 0 {
		return 0
	}
	frac := value[idx+1:]
	if end := strings.IndexAny(frac, "eE"); end >= 0 {
		frac = frac[:end]
	}
	return len(frac)
}

func formatBound(bound float64) string {
	return strconv.FormatFloat(bound, 'f', -1, 64)
}

func parseNumber(values map[string]string, id string) (float64, bool) {
	parsed, err := strconv.ParseFloat(strings.TrimSpace(values[id]), 64)
	if err != nil {
		return 0, false
	}
	return parsed, true
}
