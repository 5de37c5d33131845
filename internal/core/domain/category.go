package domain

import "time"

// FacetKind selects the control a facet renders as and the predicate
// shape it compiles to.
type FacetKind string

const (
	FacetRange       FacetKind = "range"
	FacetMultiselect FacetKind = "multiselect"
	FacetBoolean     FacetKind = "boolean"
)

// A FacetDescriptor is one admin-authored entry of a category's facet
// configuration. Key is an attribute path resolved against
// Specification.Attributes; "price" addresses the selling price.
type FacetDescriptor struct {
	Key   string    `json:"key"`
	Label string    `json:"label"`
	Kind  FacetKind `json:"kind"`
}

// A Category node. Categories form a tree via ParentID; a category is
// never its own ancestor. FacetConfig is owned by the admin CRUD
// collaborator and read-only here.
type Category struct {
	ID          string
	Name        string
	ParentID    string
	FacetConfig []FacetDescriptor
	CreatedAt   time.Time
	UpdatedAt   time.Time
}

// A ResolvedFacet augments a descriptor with the concrete value domain
// the storefront renders: distinct options for multiselect, current
// numeric bounds for range. A key matching no products resolves to an
// empty option set, not an error.
type ResolvedFacet struct {
	FacetDescriptor
	Options []string   `json:"options,omitempty"`
	Bounds  PriceRange `json:"bounds,omitzero"`
}
