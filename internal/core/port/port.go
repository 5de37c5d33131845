package port

import (
	"context"

	"github.com/niksmo/catalog-engine/internal/core/domain"
)

// ProductStore persists products. Successful writes are immediately
// visible to subsequent reads (strong read-after-write); infrastructure
// failures wrap domain.ErrStoreUnavailable.
type ProductStore interface {
	Insert(context.Context, domain.Product) (domain.Product, error)
	Update(ctx context.Context, id string, patch domain.ProductPatch) (domain.Product, error)
	Get(ctx context.Context, id string) (domain.Product, error)
	List(context.Context, domain.PredicateSet, domain.Page) ([]domain.Product, error)
	Count(context.Context, domain.PredicateSet) (int64, error)

	// DistinctAttr returns the ordered distinct values of one
	// attribute path across the products matching the predicate set.
	DistinctAttr(ctx context.Context, ps domain.PredicateSet, path string) ([]string, error)

	// PriceBounds returns the selling-price interval of the products
	// matching the predicate set; the zero range when none match.
	PriceBounds(context.Context, domain.PredicateSet) (domain.PriceRange, error)
}

// CategoryStore persists the category tree. Facet configuration is
// written by the external admin CRUD collaborator; this core only
// reads it.
type CategoryStore interface {
	Get(ctx context.Context, id string) (domain.Category, error)
	List(context.Context) ([]domain.Category, error)
	Put(context.Context, domain.Category) (domain.Category, error)
}

// DraftStore holds imported products awaiting human review.
type DraftStore interface {
	Save(context.Context, domain.ReviewDraft) (domain.ReviewDraft, error)
	List(context.Context, domain.Page) ([]domain.ReviewDraft, error)
}

// RecallProducer emits recall rules to the import pipeline's broker
// topic.
type RecallProducer interface {
	ProduceRecall(context.Context, domain.RecallRule) error
}

// Inbound ports: what the transport adapters call on the core.

type ProductWriter interface {
	CreateProduct(context.Context, domain.ProductDraft) (domain.Product, error)
	UpdateProduct(ctx context.Context, id string, patch domain.ProductPatch) (domain.Product, error)
}

type ProductReader interface {
	GetProduct(ctx context.Context, id string) (domain.Product, error)
	ListProducts(context.Context, domain.Filters, domain.Page) ([]domain.Product, error)
}

type CatalogBrowser interface {
	Browse(ctx context.Context, categoryID string, f domain.Filters, page domain.Page) (domain.BrowseResult, error)
}

type DraftImporter interface {
	ImportDraft(context.Context, domain.ImportedDraft) (domain.ReviewDraft, error)
}

// RecallPublisher announces a product recall to the import pipeline so
// recalled SKUs stop flowing in as drafts.
type RecallPublisher interface {
	PublishRecall(context.Context, domain.RecallRule) error
}
