package domain

import "time"

// A TypeTag discriminates the product-type variant a specification
// payload belongs to. The set is closed: every tag has exactly one
// schema definition compiled at process start.
type TypeTag string

const (
	TypeCCTVCamera  TypeTag = "cctv_camera"
	TypeWiFiCamera  TypeTag = "wifi_camera"
	TypeRecorder    TypeTag = "recorder"
	TypeCable       TypeTag = "cable"
	TypePowerSupply TypeTag = "power_supply"
)

// TypeTags returns every supported tag in stable order.
func TypeTags() []TypeTag {
	return []TypeTag{
		TypeCCTVCamera,
		TypeWiFiCamera,
		TypeRecorder,
		TypeCable,
		TypePowerSupply,
	}
}

// Attrs holds canonical attribute values keyed by attribute path.
// Allowed value types: string, float64, bool, []string.
type Attrs map[string]any

// Clone returns a deep copy, list values included.
func (a Attrs) Clone() Attrs {
	if a == nil {
		return nil
	}
	c := make(Attrs, len(a))
	for k, v := range a {
		if l, ok := v.([]string); ok {
			cl := make([]string, len(l))
			copy(cl, l)
			c[k] = cl
			continue
		}
		c[k] = v
	}
	return c
}

// SpecVersionCurrent is written into every persisted specification so
// stored documents can signal which registry revision validated them.
const SpecVersionCurrent = 1

// A Specification is the self-describing variant payload of a product:
// the tag selects the schema, the attributes hold exactly the field set
// that schema declares. The tag is immutable after creation.
type Specification struct {
	TypeTag    TypeTag `json:"type_tag"`
	Version    int     `json:"version"`
	Attributes Attrs   `json:"attributes"`
}

type (
	Product struct {
		ID            string
		SKU           string
		Name          string
		Brand         string
		Description   string
		CategoryID    string
		MRP           float64
		SellingPrice  float64
		PurchasePrice float64
		TaxRatePct    float64
		StockQty      int
		ReorderLevel  int
		IsActive      bool
		Specification Specification
		CreatedAt     time.Time
		UpdatedAt     time.Time
	}

	// A ProductDraft is the create-side input: identity and timestamps
	// are assigned by the store.
	ProductDraft struct {
		SKU           string
		Name          string
		Brand         string
		Description   string
		CategoryID    string
		MRP           float64
		SellingPrice  float64
		PurchasePrice float64
		TaxRatePct    float64
		StockQty      int
		ReorderLevel  int
		IsActive      bool
		Specification Specification
	}

	// A ProductPatch is a field-level partial update. Nil means
	// "leave unchanged"; last write wins per field. The specification
	// type tag is deliberately absent: it cannot be patched.
	ProductPatch struct {
		SKU           *string
		Name          *string
		Brand         *string
		Description   *string
		CategoryID    *string
		MRP           *float64
		SellingPrice  *float64
		PurchasePrice *float64
		TaxRatePct    *float64
		StockQty      *int
		ReorderLevel  *int
		IsActive      *bool

		// TypeTag records a tag named by the update request so the
		// immutability check can reject a change explicitly.
		TypeTag PatchTypeTag

		// Attributes merges into the stored attribute set per path;
		// paths absent here stay untouched (last write wins per
		// field).
		Attributes Attrs
	}
)

// Apply returns a copy of p with the patch merged in: set scalar
// fields replace, patch attributes merge per path. The specification
// type tag and version are never touched.
func (p Product) Apply(patch ProductPatch) Product {
	if patch.SKU != nil {
		p.SKU = *patch.SKU
	}
	if patch.Name != nil {
		p.Name = *patch.Name
	}
	if patch.Brand != nil {
		p.Brand = *patch.Brand
	}
	if patch.Description != nil {
		p.Description = *patch.Description
	}
	if patch.CategoryID != nil {
		p.CategoryID = *patch.CategoryID
	}
	if patch.MRP != nil {
		p.MRP = *patch.MRP
	}
	if patch.SellingPrice != nil {
		p.SellingPrice = *patch.SellingPrice
	}
	if patch.PurchasePrice != nil {
		p.PurchasePrice = *patch.PurchasePrice
	}
	if patch.TaxRatePct != nil {
		p.TaxRatePct = *patch.TaxRatePct
	}
	if patch.StockQty != nil {
		p.StockQty = *patch.StockQty
	}
	if patch.ReorderLevel != nil {
		p.ReorderLevel = *patch.ReorderLevel
	}
	if patch.IsActive != nil {
		p.IsActive = *patch.IsActive
	}
	if len(patch.Attributes) > 0 {
		attrs := p.Specification.Attributes.Clone()
		if attrs == nil {
			attrs = Attrs{}
		}
		for k, v := range patch.Attributes {
			attrs[k] = v
		}
		p.Specification.Attributes = attrs
	}
	return p
}

// A ProductView is the read-only projection the order/checkout
// collaborator consumes. It never carries specification attributes.
type ProductView struct {
	ID           string  `json:"id"`
	Name         string  `json:"name"`
	SellingPrice float64 `json:"selling_price"`
	MRP          float64 `json:"mrp"`
	TaxRatePct   float64 `json:"tax_rate"`
	StockQty     int     `json:"stock_quantity"`
}

// View projects the product onto the checkout contract.
func (p Product) View() ProductView {
	return ProductView{
		ID:           p.ID,
		Name:         p.Name,
		SellingPrice: p.SellingPrice,
		MRP:          p.MRP,
		TaxRatePct:   p.TaxRatePct,
		StockQty:     p.StockQty,
	}
}

// RawAttrs is the loosely-typed attribute form supplied by external
// sources (imports, scraped pages). Single-valued attributes carry one
// element.
type RawAttrs map[string][]string

// A ReviewDraft is an imported product awaiting human review. It is the
// only thing the import pipeline may write: review drafts never enter
// the product store without an explicit admin create.
type ReviewDraft struct {
	ID            string
	SourceURL     string
	SuggestedType TypeTag
	SKU           string
	Name          string
	Brand         string
	CategoryID    string
	SellingPrice  float64
	MRP           float64
	Attributes    Attrs
	Warnings      []string
	CreatedAt     time.Time
}
