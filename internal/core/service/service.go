// Package service is the application core: product writes behind the
// validation gate, catalog browsing, and the import/recall flows. All
// I/O goes through ports.
package service

import (
	"context"
	"fmt"

	"github.com/google/uuid"

	"github.com/niksmo/catalog-engine/internal/core/domain"
	"github.com/niksmo/catalog-engine/internal/core/normalize"
	"github.com/niksmo/catalog-engine/internal/core/port"
	"github.com/niksmo/catalog-engine/internal/core/query"
	"github.com/niksmo/catalog-engine/internal/core/spec"
)

var _ port.ProductWriter = (*Service)(nil)
var _ port.ProductReader = (*Service)(nil)
var _ port.CatalogBrowser = (*Service)(nil)
var _ port.DraftImporter = (*Service)(nil)
var _ port.RecallPublisher = (*Service)(nil)

type Service struct {
	reg        *spec.Registry
	norm       normalize.Normalizer
	products   port.ProductStore
	categories port.CategoryStore
	drafts     port.DraftStore
	recalls    port.RecallProducer
}

func New(
	reg *spec.Registry,
	norm normalize.Normalizer,
	products port.ProductStore,
	categories port.CategoryStore,
	drafts port.DraftStore,
	recalls port.RecallProducer,
) Service {
	return Service{
		reg,
		norm,
		products,
		categories,
		drafts,
		recalls,
	}
}

// CreateProduct validates the specification payload and persists a new
// product. Declared schema defaults fill attributes the draft omitted.
// The complete list of field failures comes back as
// domain.ValidationErrors.
func (s Service) CreateProduct(
	ctx context.Context, draft domain.ProductDraft,
) (domain.Product, error) {
	const op = "Service.CreateProduct"

	if err := ctx.Err(); err != nil {
		return domain.Product{}, fmt.Errorf("%s: %w", op, err)
	}

	tag := draft.Specification.TypeTag
	defaults, err := s.reg.Defaults(tag)
	if err != nil {
		return domain.Product{}, fmt.Errorf("%s: %w", op, err)
	}
	for k, v := range draft.Specification.Attributes {
		defaults[k] = v
	}

	specDoc := domain.Specification{
		TypeTag:    tag,
		Version:    domain.SpecVersionCurrent,
		Attributes: defaults,
	}
	if err := s.validateSpec(specDoc, draft.IsActive); err != nil {
		return domain.Product{}, fmt.Errorf("%s: %w", op, err)
	}

	p := domain.Product{
		ID:            uuid.NewString(),
		SKU:           draft.SKU,
		Name:          draft.Name,
		Brand:         draft.Brand,
		Description:   draft.Description,
		CategoryID:    draft.CategoryID,
		MRP:           draft.MRP,
		SellingPrice:  draft.SellingPrice,
		PurchasePrice: draft.PurchasePrice,
		TaxRatePct:    draft.TaxRatePct,
		StockQty:      draft.StockQty,
		ReorderLevel:  draft.ReorderLevel,
		IsActive:      draft.IsActive,
		Specification: specDoc,
	}

	stored, err := s.products.Insert(ctx, p)
	if err != nil {
		return domain.Product{}, fmt.Errorf("%s: %w", op, err)
	}
	return stored, nil
}

// UpdateProduct applies a field-level patch. A patch naming a type tag
// other than the stored one fails with domain.ErrImmutableField before
// anything else is looked at; the merged attribute set passes the same
// validation gate as a create.
func (s Service) UpdateProduct(
	ctx context.Context, id string, patch domain.ProductPatch,
) (domain.Product, error) {
	const op = "Service.UpdateProduct"

	if err := ctx.Err(); err != nil {
		return domain.Product{}, fmt.Errorf("%s: %w", op, err)
	}

	current, err := s.products.Get(ctx, id)
	if err != nil {
		return domain.Product{}, fmt.Errorf("%s: %w", op, err)
	}

	if patch.TypeTag.Set && patch.TypeTag.TypeTag != current.Specification.TypeTag {
		return domain.Product{}, fmt.Errorf(
			"%s: %w: type_tag", op, domain.ErrImmutableField,
		)
	}

	merged := current.Specification.Attributes.Clone()
	if merged == nil {
		merged = domain.Attrs{}
	}
	for k, v := range patch.Attributes {
		merged[k] = v
	}

	active := current.IsActive
	if patch.IsActive != nil {
		active = *patch.IsActive
	}

	specDoc := domain.Specification{
		TypeTag:    current.Specification.TypeTag,
		Version:    domain.SpecVersionCurrent,
		Attributes: merged,
	}
	if err := s.validateSpec(specDoc, active); err != nil {
		return domain.Product{}, fmt.Errorf("%s: %w", op, err)
	}

	updated, err := s.products.Update(ctx, id, patch)
	if err != nil {
		return domain.Product{}, fmt.Errorf("%s: %w", op, err)
	}
	return updated, nil
}

func (s Service) GetProduct(ctx context.Context, id string) (domain.Product, error) {
	const op = "Service.GetProduct"

	if err := ctx.Err(); err != nil {
		return domain.Product{}, fmt.Errorf("%s: %w", op, err)
	}

	p, err := s.products.Get(ctx, id)
	if err != nil {
		return domain.Product{}, fmt.Errorf("%s: %w", op, err)
	}
	return p, nil
}

// ListProducts is the admin-side listing: same filter compilation as
// Browse but without facet resolution, and it may include inactive
// products.
func (s Service) ListProducts(
	ctx context.Context, f domain.Filters, page domain.Page,
) ([]domain.Product, error) {
	const op = "Service.ListProducts"

	if err := ctx.Err(); err != nil {
		return nil, fmt.Errorf("%s: %w", op, err)
	}

	var ids []string
	if f.CategoryID != "" {
		var err error
		ids, err = s.descendantIDs(ctx, f.CategoryID)
		if err != nil {
			return nil, fmt.Errorf("%s: %w", op, err)
		}
	}

	ps := query.Build(f, ids)
	products, err := s.products.List(ctx, ps, page.Normalize())
	if err != nil {
		return nil, fmt.Errorf("%s: %w", op, err)
	}
	return products, nil
}

// PublishRecall emits a recall rule so the import pipeline stops
// admitting drafts for the SKU.
func (s Service) PublishRecall(ctx context.Context, rule domain.RecallRule) error {
	const op = "Service.PublishRecall"

	if err := ctx.Err(); err != nil {
		return fmt.Errorf("%s: %w", op, err)
	}

	if rule.SKU == "" {
		return fmt.Errorf("%s: %w", op, domain.ValidationErrors{
			{Field: "sku", Reason: "required"},
		})
	}

	if err := s.recalls.ProduceRecall(ctx, rule); err != nil {
		return fmt.Errorf("%s: %w", op, err)
	}
	return nil
}

// validateSpec runs the registry validators. Inactive products may
// still miss required fields (they are unpublishable drafts); every
// other failure blocks the write regardless of active state.
func (s Service) validateSpec(sp domain.Specification, active bool) error {
	err := s.reg.Validate(sp.TypeTag, sp.Attributes)
	if err == nil {
		return nil
	}

	ve, ok := domain.AsValidationErrors(err)
	if !ok || active {
		return err
	}

	var hard domain.ValidationErrors
	for _, fe := range ve {
		if fe.Reason == "required" {
			continue
		}
		hard = append(hard, fe)
	}
	if len(hard) > 0 {
		return hard
	}
	return nil
}

// descendantIDs resolves a category to itself plus every descendant,
// so filtering on a parent category covers its whole subtree.
func (s Service) descendantIDs(ctx context.Context, categoryID string) ([]string, error) {
	if _, err := s.categories.Get(ctx, categoryID); err != nil {
		return nil, err
	}

	all, err := s.categories.List(ctx)
	if err != nil {
		return nil, err
	}

	children := map[string][]string{}
	for _, c := range all {
		if c.ParentID != "" {
			children[c.ParentID] = append(children[c.ParentID], c.ID)
		}
	}

	ids := []string{categoryID}
	for i := 0; i < len(ids); i++ {
		ids = append(ids, children[ids[i]]...)
	}
	return ids, nil
}
