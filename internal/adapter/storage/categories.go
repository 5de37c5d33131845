package storage

import (
	"context"
	"database/sql"
	"encoding/json"
	"errors"
	"fmt"

	"github.com/niksmo/catalog-engine/internal/core/domain"
	"github.com/niksmo/catalog-engine/internal/core/port"
)

var _ port.CategoryStore = (*CategoriesRepository)(nil)

type CategoriesRepository struct {
	sqldb sqldb
}

func NewCategoriesRepository(sqldb sqldb) CategoriesRepository {
	return CategoriesRepository{sqldb}
}

func (r CategoriesRepository) Get(
	ctx context.Context, id string,
) (domain.Category, error) {
	const op = "CategoriesRepository.Get"

	if err := ctx.Err(); err != nil {
		return domain.Category{}, fmt.Errorf("%s: %w", op, err)
	}

	query := `
		SELECT id, name, parent_id, facet_config, created_at, updated_at
		FROM categories WHERE id = $1;`

	c, err := scanCategory(r.sqldb.QueryRowContext(ctx, query, id))
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return domain.Category{}, fmt.Errorf("%s: category %q: %w",
				op, id, domain.ErrNotFound)
		}
		return domain.Category{}, fmt.Errorf("%s: %w: %w",
			op, domain.ErrStoreUnavailable, err)
	}
	return c, nil
}

func (r CategoriesRepository) List(ctx context.Context) ([]domain.Category, error) {
	const op = "CategoriesRepository.List"

	if err := ctx.Err(); err != nil {
		return nil, fmt.Errorf("%s: %w", op, err)
	}

	query := `
		SELECT id, name, parent_id, facet_config, created_at, updated_at
		FROM categories ORDER BY id;`

	rows, err := r.sqldb.QueryContext(ctx, query)
	if err != nil {
		return nil, fmt.Errorf("%s: %w: %w", op, domain.ErrStoreUnavailable, err)
	}
	defer rows.Close()

	var cs []domain.Category
	for rows.Next() {
		c, err := scanCategory(rows)
		if err != nil {
			return nil, fmt.Errorf("%s: %w: %w", op, domain.ErrStoreUnavailable, err)
		}
		cs = append(cs, c)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("%s: %w: %w", op, domain.ErrStoreUnavailable, err)
	}
	return cs, nil
}

func (r CategoriesRepository) Put(
	ctx context.Context, c domain.Category,
) (domain.Category, error) {
	const op = "CategoriesRepository.Put"

	if err := ctx.Err(); err != nil {
		return domain.Category{}, fmt.Errorf("%s: %w", op, err)
	}

	facetsB, err := json.Marshal(c.FacetConfig)
	if err != nil {
		return domain.Category{}, fmt.Errorf("%s: failed to encode facets: %w", op, err)
	}

	query := `
		INSERT INTO categories (id, name, parent_id, facet_config)
		VALUES ($1, $2, $3, $4)
		ON CONFLICT (id) DO UPDATE SET
			name = EXCLUDED.name,
			parent_id = EXCLUDED.parent_id,
			facet_config = EXCLUDED.facet_config,
			updated_at = now()
		RETURNING id, name, parent_id, facet_config, created_at, updated_at;`

	stored, err := scanCategory(r.sqldb.QueryRowContext(ctx, query,
		c.ID, c.Name, nullable(c.ParentID), string(facetsB)))
	if err != nil {
		return domain.Category{}, fmt.Errorf("%s: %w: %w",
			op, domain.ErrStoreUnavailable, err)
	}
	return stored, nil
}

func scanCategory(row rowScanner) (domain.Category, error) {
	var (
		c       domain.Category
		parent  sql.NullString
		facetsS string
	)
	err := row.Scan(&c.ID, &c.Name, &parent, &facetsS, &c.CreatedAt, &c.UpdatedAt)
	if err != nil {
		return domain.Category{}, err
	}
	c.ParentID = parent.String

	if err := json.Unmarshal([]byte(facetsS), &c.FacetConfig); err != nil {
		return domain.Category{}, fmt.Errorf("failed to decode facets: %w", err)
	}
	return c, nil
}

func nullable(s string) sql.NullString {
	return sql.NullString{String: s, Valid: s != ""}
}
