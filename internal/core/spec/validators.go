package spec

import (
	"fmt"
	"math"
	"strings"
)

// validateField applies the single-field predicate for f to a present
// value and returns the rejection reason, or "" when the value is
// acceptable. Predicates are pure: no I/O, no registry state.
func validateField(f FieldDef, v any) string {
	switch f.Kind {
	case KindEnum:
		return validateEnum(f, v)
	case KindNumber:
		return validateNumber(f, v, false)
	case KindInt:
		return validateNumber(f, v, true)
	case KindBool:
		if _, ok := v.(bool); !ok {
			return "must be a boolean"
		}
		return ""
	case KindText:
		s, ok := v.(string)
		if !ok {
			return "must be a string"
		}
		if strings.TrimSpace(s) == "" {
			return "must be a non-empty string"
		}
		return ""
	default:
		return fmt.Sprintf("unsupported field kind %q", f.Kind)
	}
}

func validateEnum(f FieldDef, v any) string {
	s, ok := v.(string)
	if !ok {
		return "must be a string"
	}
	for _, opt := range f.Domain {
		if s == opt {
			return ""
		}
	}
	return fmt.Sprintf("must be one of {%s}", strings.Join(f.Domain, ","))
}

func validateNumber(f FieldDef, v any, wantInt bool) string {
	n, ok := v.(float64)
	if !ok {
		return "must be a number"
	}
	if n <= 0 {
		return "must be a positive number"
	}
	if wantInt && n != math.Trunc(n) {
		return "must be an integer"
	}
	return ""
}

// isEmpty reports a value that counts as "not provided" for the
// required-field check: empty/blank strings and empty lists. Zero
// numbers and false booleans are real values.
func isEmpty(v any) bool {
	switch t := v.(type) {
	case nil:
		return true
	case string:
		return strings.TrimSpace(t) == ""
	case []string:
		return len(t) == 0
	default:
		return false
	}
}
