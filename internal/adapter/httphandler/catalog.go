package httphandler

import (
	"log/slog"
	"net/http"

	"github.com/niksmo/catalog-engine/internal/core/port"
)

// GET v1/catalog/{categoryID}?search=&brand=&price_min=&price_max=
//     &in_stock=true&sort=price_asc&attr.resolution=2MP,4MP
//     &attr.ir_range_m.min=10&page=1&limit=24
// (200 OK, 404 unknown category)

type CatalogHandler struct {
	browser port.CatalogBrowser
}

func RegisterCatalog(mux *http.ServeMux, browser port.CatalogBrowser) {
	h := CatalogHandler{browser}
	mux.HandleFunc("GET /v1/catalog/{categoryID}", h.Browse)
}

func (h CatalogHandler) Browse(w http.ResponseWriter, r *http.Request) {
	const op = "CatalogHandler.Browse"
	log := slog.With("op", op)

	categoryID := r.PathValue("categoryID")
	filters := parseFilters(r)
	page := parsePage(r)

	result, err := h.browser.Browse(r.Context(), categoryID, filters, page)
	if err != nil {
		writeDomainError(w, log, err)
		return
	}

	resp := BrowseResponse{
		Products: make([]ProductResponse, 0, len(result.Products)),
		Facets:   result.Facets,
		Price:    result.Price,
		Total:    result.Total,
		Page:     result.Page.Number,
		PageSize: result.Page.Size,
	}
	for _, p := range result.Products {
		resp.Products = append(resp.Products, toProductResponse(p))
	}
	writeJSON(w, log, http.StatusOK, resp)
}
