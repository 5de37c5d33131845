package domain

// A BrowseResult is one storefront render cycle for a category: the
// filtered page of products, the facet controls resolved against the
// category, and the recomputed price bounds of the filtered set.
type BrowseResult struct {
	Products []Product
	Facets   []ResolvedFacet
	Price    PriceRange
	Total    int64
	Page     Page
}

// An ImportedDraft is the raw payload the external extraction
// collaborator hands over: loosely-typed attributes plus whatever
// commerce fields it could read. The suggested type may be empty, in
// which case the importer infers one (advisory only).
type ImportedDraft struct {
	SourceURL     string
	SuggestedType TypeTag
	SKU           string
	Name          string
	Brand         string
	CategoryID    string
	SellingPrice  float64
	MRP           float64
	RawAttributes RawAttrs
}

// A RecallRule marks a SKU as recalled: the import pipeline drops
// matching drafts before they reach review.
type RecallRule struct {
	SKU      string
	Recalled bool
	Reason   string
}
