// Package spec is the closed registry of product-type schemas: for
// each type tag it declares the attribute set, which fields are
// required, each field's value domain and the validator applied to it
// on every write.
package spec

import (
	"fmt"
	"sort"

	"github.com/niksmo/catalog-engine/internal/core/domain"
)

// FieldKind is the value class of an attribute.
type FieldKind string

const (
	KindEnum   FieldKind = "enum"
	KindNumber FieldKind = "number"
	KindInt    FieldKind = "int"
	KindBool   FieldKind = "bool"
	KindText   FieldKind = "text"
)

type (
	// A FieldDef declares one attribute of a product type.
	FieldDef struct {
		Name     string
		Label    string
		Required bool
		Kind     FieldKind

		// Domain lists the canonical options for enum fields; empty
		// otherwise.
		Domain []string

		// Default is applied by Defaults for optional fields only.
		Default any

		// Unit is a display hint ("m", "mm", "TB"); empty when
		// dimensionless.
		Unit string
	}

	// A SchemaDefinition is the complete declared field set for one
	// type tag. Definitions are built once at process start and never
	// mutated.
	SchemaDefinition struct {
		TypeTag domain.TypeTag
		Fields  []FieldDef

		byName map[string]FieldDef
	}
)

// Field looks a declared field up by attribute path.
func (d SchemaDefinition) Field(name string) (FieldDef, bool) {
	f, ok := d.byName[name]
	return f, ok
}

// Registry resolves type tags to schema definitions. The zero value is
// unusable; use New.
type Registry struct {
	defs map[domain.TypeTag]SchemaDefinition
}

// New compiles the built-in schema definitions. It panics on a
// malformed definition table: that is a programming error, not input.
func New() *Registry {
	r := &Registry{defs: make(map[domain.TypeTag]SchemaDefinition)}
	for _, tag := range domain.TypeTags() {
		def := definitionFor(tag)
		def.byName = make(map[string]FieldDef, len(def.Fields))
		for _, f := range def.Fields {
			if _, dup := def.byName[f.Name]; dup {
				panic(fmt.Sprintf("spec: duplicate field %q in %q", f.Name, tag))
			}
			def.byName[f.Name] = f
		}
		r.defs[tag] = def
	}
	return r
}

// SchemaFor returns the definition for tag.
func (r *Registry) SchemaFor(tag domain.TypeTag) (SchemaDefinition, error) {
	def, ok := r.defs[tag]
	if !ok {
		return SchemaDefinition{}, fmt.Errorf("%w: %q", domain.ErrUnknownTypeTag, tag)
	}
	return def, nil
}

// Defaults returns a fresh attribute set holding every declared
// default for tag. Pure: each call builds a new map.
func (r *Registry) Defaults(tag domain.TypeTag) (domain.Attrs, error) {
	def, err := r.SchemaFor(tag)
	if err != nil {
		return nil, err
	}
	attrs := domain.Attrs{}
	for _, f := range def.Fields {
		if f.Default != nil {
			attrs[f.Name] = f.Default
		}
	}
	return attrs, nil
}

// Validate checks attrs against the schema for tag, collecting every
// failure: missing required fields, undeclared fields, and per-field
// validator rejections. A nil return means the payload is publishable.
func (r *Registry) Validate(tag domain.TypeTag, attrs domain.Attrs) error {
	def, err := r.SchemaFor(tag)
	if err != nil {
		return err
	}

	var errs domain.ValidationErrors

	for _, f := range def.Fields {
		v, ok := attrs[f.Name]
		if !ok || isEmpty(v) {
			if f.Required {
				errs = append(errs, domain.FieldError{
					Field:  f.Name,
					Reason: "required",
				})
			}
			continue
		}
		if reason := validateField(f, v); reason != "" {
			errs = append(errs, domain.FieldError{Field: f.Name, Reason: reason})
		}
	}

	var unknown []string
	for name := range attrs {
		if _, ok := def.byName[name]; !ok {
			unknown = append(unknown, name)
		}
	}
	sort.Strings(unknown)
	for _, name := range unknown {
		errs = append(errs, domain.FieldError{
			Field:  name,
			Reason: fmt.Sprintf("not declared for type %q", tag),
		})
	}

	if len(errs) > 0 {
		return errs
	}
	return nil
}

// Lint reports facet keys that resolve to no attribute of any schema.
// Advisory admin tooling only: an unknown key still renders as an
// empty facet at browse time.
func (r *Registry) Lint(facets []domain.FacetDescriptor) []string {
	var unknown []string
	for _, fd := range facets {
		if fd.Key == "price" {
			continue
		}
		found := false
		for _, def := range r.defs {
			if _, ok := def.byName[fd.Key]; ok {
				found = true
				break
			}
		}
		if !found {
			unknown = append(unknown, fd.Key)
		}
	}
	sort.Strings(unknown)
	return unknown
}
