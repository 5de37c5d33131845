package httphandler

import (
	"github.com/niksmo/catalog-engine/internal/core/domain"
)

type (
	SpecificationPayload struct {
		TypeTag    string         `json:"type_tag"`
		Version    int            `json:"version,omitempty"`
		Attributes map[string]any `json:"attributes"`
	}

	ProductPayload struct {
		SKU           string               `json:"sku"`
		Name          string               `json:"name"`
		Brand         string               `json:"brand"`
		Description   string               `json:"description"`
		CategoryID    string               `json:"category_id"`
		MRP           float64              `json:"mrp"`
		SellingPrice  float64              `json:"selling_price"`
		PurchasePrice float64              `json:"purchase_price"`
		TaxRatePct    float64              `json:"tax_rate"`
		StockQty      int                  `json:"stock_quantity"`
		ReorderLevel  int                  `json:"reorder_level"`
		IsActive      bool                 `json:"is_active"`
		Specification SpecificationPayload `json:"specification"`
	}

	SpecificationPatch struct {
		TypeTag    *string        `json:"type_tag"`
		Attributes map[string]any `json:"attributes"`
	}

	ProductPatchPayload struct {
		SKU           *string             `json:"sku"`
		Name          *string             `json:"name"`
		Brand         *string             `json:"brand"`
		Description   *string             `json:"description"`
		CategoryID    *string             `json:"category_id"`
		MRP           *float64            `json:"mrp"`
		SellingPrice  *float64            `json:"selling_price"`
		PurchasePrice *float64            `json:"purchase_price"`
		TaxRatePct    *float64            `json:"tax_rate"`
		StockQty      *int                `json:"stock_quantity"`
		ReorderLevel  *int                `json:"reorder_level"`
		IsActive      *bool               `json:"is_active"`
		Specification *SpecificationPatch `json:"specification"`
	}

	ProductResponse struct {
		ID            string               `json:"id"`
		SKU           string               `json:"sku"`
		Name          string               `json:"name"`
		Brand         string               `json:"brand"`
		Description   string               `json:"description"`
		CategoryID    string               `json:"category_id"`
		MRP           float64              `json:"mrp"`
		SellingPrice  float64              `json:"selling_price"`
		PurchasePrice float64              `json:"purchase_price"`
		TaxRatePct    float64              `json:"tax_rate"`
		StockQty      int                  `json:"stock_quantity"`
		ReorderLevel  int                  `json:"reorder_level"`
		IsActive      bool                 `json:"is_active"`
		Specification SpecificationPayload `json:"specification"`
		CreatedAt     string               `json:"created_at"`
		UpdatedAt     string               `json:"updated_at"`
	}

	BrowseResponse struct {
		Products []ProductResponse      `json:"products"`
		Facets   []domain.ResolvedFacet `json:"facets"`
		Price    domain.PriceRange      `json:"price_bounds"`
		Total    int64                  `json:"total"`
		Page     int                    `json:"page"`
		PageSize int                    `json:"page_size"`
	}

	RecallPayload struct {
		SKU      string `json:"sku"`
		Recalled *bool  `json:"recalled"`
		Reason   string `json:"reason"`
	}

	ErrorResponse struct {
		Error  string              `json:"error"`
		Fields []domain.FieldError `json:"fields,omitempty"`
	}
)

func (p ProductPayload) toDraft() domain.ProductDraft {
	return domain.ProductDraft{
		SKU:           p.SKU,
		Name:          p.Name,
		Brand:         p.Brand,
		Description:   p.Description,
		CategoryID:    p.CategoryID,
		MRP:           p.MRP,
		SellingPrice:  p.SellingPrice,
		PurchasePrice: p.PurchasePrice,
		TaxRatePct:    p.TaxRatePct,
		StockQty:      p.StockQty,
		ReorderLevel:  p.ReorderLevel,
		IsActive:      p.IsActive,
		Specification: domain.Specification{
			TypeTag:    domain.TypeTag(p.Specification.TypeTag),
			Version:    domain.SpecVersionCurrent,
			Attributes: attrsFromJSON(p.Specification.Attributes),
		},
	}
}

func (p ProductPatchPayload) toPatch() domain.ProductPatch {
	patch := domain.ProductPatch{
		SKU:           p.SKU,
		Name:          p.Name,
		Brand:         p.Brand,
		Description:   p.Description,
		CategoryID:    p.CategoryID,
		MRP:           p.MRP,
		SellingPrice:  p.SellingPrice,
		PurchasePrice: p.PurchasePrice,
		TaxRatePct:    p.TaxRatePct,
		StockQty:      p.StockQty,
		ReorderLevel:  p.ReorderLevel,
		IsActive:      p.IsActive,
	}
	if p.Specification != nil {
		if p.Specification.TypeTag != nil {
			patch.TypeTag = domain.PatchTypeTag{
				TypeTag: domain.TypeTag(*p.Specification.TypeTag),
				Set:     true,
			}
		}
		patch.Attributes = attrsFromJSON(p.Specification.Attributes)
	}
	return patch
}

func toProductResponse(p domain.Product) ProductResponse {
	return ProductResponse{
		ID:            p.ID,
		SKU:           p.SKU,
		Name:          p.Name,
		Brand:         p.Brand,
		Description:   p.Description,
		CategoryID:    p.CategoryID,
		MRP:           p.MRP,
		SellingPrice:  p.SellingPrice,
		PurchasePrice: p.PurchasePrice,
		TaxRatePct:    p.TaxRatePct,
		StockQty:      p.StockQty,
		ReorderLevel:  p.ReorderLevel,
		IsActive:      p.IsActive,
		Specification: SpecificationPayload{
			TypeTag:    string(p.Specification.TypeTag),
			Version:    p.Specification.Version,
			Attributes: p.Specification.Attributes,
		},
		CreatedAt: p.CreatedAt.UTC().Format(timeLayout),
		UpdatedAt: p.UpdatedAt.UTC().Format(timeLayout),
	}
}

const timeLayout = "2006-01-02T15:04:05.000Z"

// attrsFromJSON narrows decoded JSON values to the attribute value
// types the core accepts; generic []any lists become []string.
func attrsFromJSON(raw map[string]any) domain.Attrs {
	if raw == nil {
		return nil
	}
	attrs := make(domain.Attrs, len(raw))
	for k, v := range raw {
		l, ok := v.([]any)
		if !ok {
			attrs[k] = v
			continue
		}
		ss := make([]string, 0, len(l))
		for _, e := range l {
			if s, ok := e.(string); ok {
				ss = append(ss, s)
			}
		}
		attrs[k] = ss
	}
	return attrs
}
