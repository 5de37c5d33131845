package storage

import (
	"context"
	"encoding/json"
	"fmt"

	"github.com/niksmo/catalog-engine/internal/core/domain"
	"github.com/niksmo/catalog-engine/internal/core/port"
)

var _ port.DraftStore = (*DraftsRepository)(nil)

type DraftsRepository struct {
	sqldb sqldb
}

func NewDraftsRepository(sqldb sqldb) DraftsRepository {
	return DraftsRepository{sqldb}
}

func (r DraftsRepository) Save(
	ctx context.Context, d domain.ReviewDraft,
) (domain.ReviewDraft, error) {
	const op = "DraftsRepository.Save"

	if err := ctx.Err(); err != nil {
		return domain.ReviewDraft{}, fmt.Errorf("%s: %w", op, err)
	}

	attrsB, err := json.Marshal(d.Attributes)
	if err != nil {
		return domain.ReviewDraft{}, fmt.Errorf("%s: failed to encode attributes: %w", op, err)
	}
	warnsB, err := json.Marshal(d.Warnings)
	if err != nil {
		return domain.ReviewDraft{}, fmt.Errorf("%s: failed to encode warnings: %w", op, err)
	}

	query := `
		INSERT INTO review_drafts (
			id, source_url, suggested_type, sku, name, brand,
			category_id, selling_price, mrp, attributes, warnings
		)
		VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9, $10, $11)
		RETURNING created_at;`

	err = r.sqldb.QueryRowContext(ctx, query,
		d.ID, d.SourceURL, string(d.SuggestedType), d.SKU, d.Name, d.Brand,
		d.CategoryID, d.SellingPrice, d.MRP, string(attrsB), string(warnsB),
	).Scan(&d.CreatedAt)
	if err != nil {
		return domain.ReviewDraft{}, fmt.Errorf("%s: %w: %w",
			op, domain.ErrStoreUnavailable, err)
	}
	return d, nil
}

func (r DraftsRepository) List(
	ctx context.Context, page domain.Page,
) ([]domain.ReviewDraft, error) {
	const op = "DraftsRepository.List"

	if err := ctx.Err(); err != nil {
		return nil, fmt.Errorf("%s: %w", op, err)
	}

	page = page.Normalize()
	query := `
		SELECT
			id, source_url, suggested_type, sku, name, brand,
			category_id, selling_price, mrp, attributes, warnings,
			created_at
		FROM review_drafts
		ORDER BY created_at DESC, id ASC
		LIMIT $1 OFFSET $2;`

	rows, err := r.sqldb.QueryContext(ctx, query, page.Size, page.Offset())
	if err != nil {
		return nil, fmt.Errorf("%s: %w: %w", op, domain.ErrStoreUnavailable, err)
	}
	defer rows.Close()

	drafts := []domain.ReviewDraft{}
	for rows.Next() {
		var (
			d      domain.ReviewDraft
			tag    string
			attrsS string
			warnsS string
		)
		err := rows.Scan(
			&d.ID, &d.SourceURL, &tag, &d.SKU, &d.Name, &d.Brand,
			&d.CategoryID, &d.SellingPrice, &d.MRP, &attrsS, &warnsS,
			&d.CreatedAt,
		)
		if err != nil {
			return nil, fmt.Errorf("%s: %w: %w", op, domain.ErrStoreUnavailable, err)
		}
		d.SuggestedType = domain.TypeTag(tag)

		attrs, err := decodeAttrs([]byte(attrsS))
		if err != nil {
			return nil, fmt.Errorf("%s: failed to decode attributes: %w", op, err)
		}
		d.Attributes = attrs

		if err := json.Unmarshal([]byte(warnsS), &d.Warnings); err != nil {
			return nil, fmt.Errorf("%s: failed to decode warnings: %w", op, err)
		}
		drafts = append(drafts, d)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("%s: %w: %w", op, domain.ErrStoreUnavailable, err)
	}
	return drafts, nil
}
