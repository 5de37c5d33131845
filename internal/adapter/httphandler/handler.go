package httphandler

import (
	"encoding/json"
	"log/slog"
	"net/http"

	"github.com/niksmo/catalog-engine/internal/core/domain"
	"github.com/niksmo/catalog-engine/internal/core/port"
)

// POST  v1/products           JSON (201 Created, 422 Unprocessable, 400 Bad request)
// PATCH v1/products/{id}      JSON (200 OK, 404, 409 Conflict on type change, 422)
// GET   v1/products/{id}      (200 OK, 404)
// GET   v1/products?...       admin listing, may include inactive

type ProductsHandler struct {
	writer port.ProductWriter
	reader port.ProductReader
}

func RegisterProducts(
	mux *http.ServeMux, writer port.ProductWriter, reader port.ProductReader,
) {
	h := ProductsHandler{writer, reader}
	mux.HandleFunc("POST /v1/products", h.PostProduct)
	mux.HandleFunc("PATCH /v1/products/{id}", h.PatchProduct)
	mux.HandleFunc("GET /v1/products/{id}", h.GetProduct)
	mux.HandleFunc("GET /v1/products", h.ListProducts)
}

func (h ProductsHandler) PostProduct(w http.ResponseWriter, r *http.Request) {
	const op = "ProductsHandler.PostProduct"
	log := slog.With("op", op)

	var payload ProductPayload
	if err := json.NewDecoder(r.Body).Decode(&payload); err != nil {
		http.Error(w, "invalid JSON data", http.StatusBadRequest)
		log.Warn("failed to parse JSON", "err", err)
		return
	}

	p, err := h.writer.CreateProduct(r.Context(), payload.toDraft())
	if err != nil {
		writeDomainError(w, log, err)
		return
	}

	writeJSON(w, log, http.StatusCreated, toProductResponse(p))
	log.Info("product created", "id", p.ID, "type", p.Specification.TypeTag)
}

func (h ProductsHandler) PatchProduct(w http.ResponseWriter, r *http.Request) {
	const op = "ProductsHandler.PatchProduct"
	log := slog.With("op", op)

	id := r.PathValue("id")

	var payload ProductPatchPayload
	if err := json.NewDecoder(r.Body).Decode(&payload); err != nil {
		http.Error(w, "invalid JSON data", http.StatusBadRequest)
		log.Warn("failed to parse JSON", "err", err)
		return
	}

	p, err := h.writer.UpdateProduct(r.Context(), id, payload.toPatch())
	if err != nil {
		writeDomainError(w, log, err)
		return
	}

	writeJSON(w, log, http.StatusOK, toProductResponse(p))
	log.Info("product updated", "id", p.ID)
}

func (h ProductsHandler) GetProduct(w http.ResponseWriter, r *http.Request) {
	const op = "ProductsHandler.GetProduct"
	log := slog.With("op", op)

	p, err := h.reader.GetProduct(r.Context(), r.PathValue("id"))
	if err != nil {
		writeDomainError(w, log, err)
		return
	}

	writeJSON(w, log, http.StatusOK, toProductResponse(p))
}

func (h ProductsHandler) ListProducts(w http.ResponseWriter, r *http.Request) {
	const op = "ProductsHandler.ListProducts"
	log := slog.With("op", op)

	f := parseFilters(r)
	f.IncludeInactive = r.URL.Query().Get("include_inactive") == "true"

	products, err := h.reader.ListProducts(r.Context(), f, parsePage(r))
	if err != nil {
		writeDomainError(w, log, err)
		return
	}

	resp := make([]ProductResponse, 0, len(products))
	for _, p := range products {
		resp = append(resp, toProductResponse(p))
	}
	writeJSON(w, log, http.StatusOK, resp)
}

// GET v1/checkout/products/{id} (200 OK, 404)
//
// The order collaborator reads this projection at checkout; it never
// sees specification attributes.

type CheckoutHandler struct {
	reader port.ProductReader
}

func RegisterCheckout(mux *http.ServeMux, reader port.ProductReader) {
	h := CheckoutHandler{reader}
	mux.HandleFunc("GET /v1/checkout/products/{id}", h.GetProductView)
}

func (h CheckoutHandler) GetProductView(w http.ResponseWriter, r *http.Request) {
	const op = "CheckoutHandler.GetProductView"
	log := slog.With("op", op)

	p, err := h.reader.GetProduct(r.Context(), r.PathValue("id"))
	if err != nil {
		writeDomainError(w, log, err)
		return
	}

	writeJSON(w, log, http.StatusOK, p.View())
}

// POST v1/recalls JSON {"sku" string, "recalled" bool, "reason" string}
// (202 Accepted, 422, 503)

type RecallsHandler struct {
	publisher port.RecallPublisher
}

func RegisterRecalls(mux *http.ServeMux, publisher port.RecallPublisher) {
	h := RecallsHandler{publisher}
	mux.HandleFunc("POST /v1/recalls", h.PostRecall)
}

func (h RecallsHandler) PostRecall(w http.ResponseWriter, r *http.Request) {
	const op = "RecallsHandler.PostRecall"
	log := slog.With("op", op)

	var payload RecallPayload
	if err := json.NewDecoder(r.Body).Decode(&payload); err != nil {
		http.Error(w, "invalid JSON data", http.StatusBadRequest)
		log.Warn("failed to parse JSON", "err", err)
		return
	}

	rule := domain.RecallRule{
		SKU:      payload.SKU,
		Recalled: true,
		Reason:   payload.Reason,
	}
	if payload.Recalled != nil {
		rule.Recalled = *payload.Recalled
	}

	if err := h.publisher.PublishRecall(r.Context(), rule); err != nil {
		writeDomainError(w, log, err)
		return
	}

	w.WriteHeader(http.StatusAccepted)
	log.Info("recall accepted", "sku", rule.SKU, "recalled", rule.Recalled)
}
