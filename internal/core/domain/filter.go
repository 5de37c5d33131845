package domain

// SortKey orders a product listing.
type SortKey string

const (
	SortNewest    SortKey = "newest"
	SortPriceAsc  SortKey = "price_asc"
	SortPriceDesc SortKey = "price_desc"
	SortName      SortKey = "name"
)

// PriceRange is an inclusive numeric interval. The zero value is the
// degenerate "no results" range.
type PriceRange struct {
	Min float64 `json:"min"`
	Max float64 `json:"max"`
}

// IsZero reports the degenerate range.
func (r PriceRange) IsZero() bool { return r.Min == 0 && r.Max == 0 }

// AttrCondition is one customer selection against a single attribute
// path. Exactly one of Values / Min+Max / Bool is meaningful, selected
// by Kind. Multiselect values are OR within the path.
type AttrCondition struct {
	Path   string
	Kind   FacetKind
	Values []string
	Min    *float64
	Max    *float64
	Bool   *bool
}

// Filters is the raw customer/admin filter selection arriving from the
// transport layer. Empty fields mean "unrestricted".
type Filters struct {
	CategoryID string
	SearchText string
	Brands     []string
	PriceMin   *float64
	PriceMax   *float64
	InStock    bool
	Attrs      []AttrCondition
	Sort       SortKey

	// IncludeInactive widens the listing to unpublished products;
	// only the admin surface sets it.
	IncludeInactive bool
}

// A PredicateSet is the compiled AND/OR condition set a product store
// evaluates. Conditions across fields are ANDed; value lists inside one
// condition are ORed. Category expansion to descendant ids happens
// before compilation, so stores only see flat id sets.
type PredicateSet struct {
	CategoryIDs []string
	Search      string
	Brands      []string
	PriceMin    *float64
	PriceMax    *float64
	InStock     bool
	ActiveOnly  bool
	Attrs       []AttrCondition
	Sort        SortKey
}

// Page is offset pagination. Zero value means first page, default size.
type Page struct {
	Number int
	Size   int
}

const defaultPageSize = 24

// Normalize clamps the page to sane bounds.
func (p Page) Normalize() Page {
	if p.Number < 1 {
		p.Number = 1
	}
	if p.Size <= 0 {
		p.Size = defaultPageSize
	}
	return p
}

// Offset returns the number of items to skip.
func (p Page) Offset() int {
	p = p.Normalize()
	return (p.Number - 1) * p.Size
}
