// Package normalize reconciles loosely-typed attribute values from
// external sources (imports, scraped pages) onto the canonical domains
// the schema registry declares. Every rule is total: a value that
// cannot be matched is passed through unchanged and recorded as a
// warning, never dropped and never an error.
package normalize

import (
	"fmt"
	"strconv"
	"strings"

	"github.com/niksmo/catalog-engine/internal/core/domain"
	"github.com/niksmo/catalog-engine/internal/core/spec"
)

// A Warning records one value the normalizer could not map. The raw
// value is retained in the output so a human can correct it.
type Warning struct {
	Field  string
	Value  string
	Reason string
}

func (w Warning) String() string {
	return fmt.Sprintf("%s: %q %s", w.Field, w.Value, w.Reason)
}

// Normalizer maps raw attributes onto a registry's canonical values.
type Normalizer struct {
	reg *spec.Registry
}

func New(reg *spec.Registry) Normalizer {
	return Normalizer{reg}
}

// Normalize maps raw onto the schema for tag. Keys are matched
// loosely ("Wireless Band" resolves to wireless_band); values are
// canonicalized per field kind. Fields the source did not mention are
// never invented. The only error is an unknown tag.
func (n Normalizer) Normalize(
	tag domain.TypeTag, raw domain.RawAttrs,
) (domain.Attrs, []Warning, error) {
	def, err := n.reg.SchemaFor(tag)
	if err != nil {
		return nil, nil, err
	}

	attrs := domain.Attrs{}
	var warns []Warning

	for key, values := range raw {
		value := firstNonEmpty(values)
		if value == "" {
			continue
		}

		f, ok := resolveField(def, key)
		if !ok {
			attrs[key] = retained(values)
			warns = append(warns, Warning{
				Field:  key,
				Value:  value,
				Reason: fmt.Sprintf("is not a declared attribute of %q", tag),
			})
			continue
		}

		canonical, w := normalizeValue(f, value)
		attrs[f.Name] = canonical
		if w != nil {
			warns = append(warns, *w)
		}
	}

	return attrs, warns, nil
}

// normalizeValue applies the per-kind rule. On a failed match the raw
// string is returned as-is together with the warning.
func normalizeValue(f spec.FieldDef, value string) (any, *Warning) {
	switch f.Kind {
	case spec.KindEnum:
		if opt, ok := matchEnum(f.Domain, value); ok {
			return opt, nil
		}
		return value, &Warning{
			Field:  f.Name,
			Value:  value,
			Reason: fmt.Sprintf("does not match any of {%s}", strings.Join(f.Domain, ",")),
		}

	case spec.KindNumber, spec.KindInt:
		if num, ok := extractNumber(value); ok {
			return num, nil
		}
		return value, &Warning{
			Field:  f.Name,
			Value:  value,
			Reason: "is not numeric",
		}

	case spec.KindBool:
		if b, ok := parseBool(value); ok {
			return b, nil
		}
		return value, &Warning{
			Field:  f.Name,
			Value:  value,
			Reason: "is not a boolean",
		}

	default: // KindText
		return strings.TrimSpace(value), nil
	}
}

// matchEnum maps value onto exactly one canonical option: first by
// canonical-form equality ("2.0 MP" == "2MP"), then by unique
// containment ("IP66 rated" contains "IP66").
func matchEnum(options []string, value string) (string, bool) {
	vc := canon(value)
	if vc == "" {
		return "", false
	}

	for _, opt := range options {
		if canon(opt) == vc {
			return opt, true
		}
	}

	matched := ""
	for _, opt := range options {
		if strings.Contains(vc, canon(opt)) {
			if matched != "" {
				return "", false // ambiguous
			}
			matched = opt
		}
	}
	return matched, matched != ""
}

// resolveField matches a raw key against declared field names:
// canonical equality first, then unique containment either way
// ("IR Range" resolves to ir_range_m).
func resolveField(def spec.SchemaDefinition, key string) (spec.FieldDef, bool) {
	if f, ok := def.Field(key); ok {
		return f, true
	}

	kc := canon(key)
	if kc == "" {
		return spec.FieldDef{}, false
	}

	for _, f := range def.Fields {
		if canon(f.Name) == kc || canon(f.Label) == kc {
			return f, true
		}
	}

	var matched spec.FieldDef
	found := false
	for _, f := range def.Fields {
		fc := canon(f.Name)
		if strings.Contains(fc, kc) || strings.Contains(kc, fc) {
			if found {
				return spec.FieldDef{}, false
			}
			matched, found = f, true
		}
	}
	return matched, found
}

// canon reduces a value to its comparable form: integral decimals lose
// their fraction ("2.0" -> "2"), everything non-alphanumeric is
// stripped, letters are lowered.
func canon(s string) string {
	var b strings.Builder
	i := 0
	for i < len(s) {
		c := s[i]
		switch {
		case c >= '0' && c <= '9':
			j := i
			for j < len(s) && (s[j] >= '0' && s[j] <= '9' || s[j] == '.') {
				j++
			}
			numText := strings.TrimRight(s[i:j], ".")
			if num, err := strconv.ParseFloat(numText, 64); err == nil {
				b.WriteString(strconv.FormatFloat(num, 'f', -1, 64))
			} else {
				b.WriteString(numText)
			}
			i = j
		case c >= 'a' && c <= 'z':
			b.WriteByte(c)
			i++
		case c >= 'A' && c <= 'Z':
			b.WriteByte(c + 'a' - 'A')
			i++
		default:
			i++
		}
	}
	return b.String()
}

// extractNumber pulls the leading numeric component out of a value
// like "20 m" or "7.5mm".
func extractNumber(s string) (float64, bool) {
	s = strings.TrimSpace(s)
	end := 0
	seenDigit := false
scan:
	for end < len(s) {
		switch c := s[end]; {
		case c >= '0' && c <= '9':
			seenDigit = true
		case c == '-' && end == 0:
		case c == '.' && seenDigit:
		default:
			break scan
		}
		end++
	}
	if !seenDigit {
		return 0, false
	}
	num, err := strconv.ParseFloat(strings.TrimRight(s[:end], "."), 64)
	if err != nil {
		return 0, false
	}
	return num, true
}

func parseBool(s string) (bool, bool) {
	switch strings.ToLower(strings.TrimSpace(s)) {
	case "true", "yes", "y", "1", "on":
		return true, true
	case "false", "no", "n", "0", "off":
		return false, true
	}
	return false, false
}

func firstNonEmpty(values []string) string {
	for _, v := range values {
		if strings.TrimSpace(v) != "" {
			return strings.TrimSpace(v)
		}
	}
	return ""
}

// retained keeps an unmapped raw value in the output: a single string
// when single-valued, the full list otherwise.
func retained(values []string) any {
	if len(values) == 1 {
		return strings.TrimSpace(values[0])
	}
	out := make([]string, len(values))
	for i, v := range values {
		out[i] = strings.TrimSpace(v)
	}
	return out
}
