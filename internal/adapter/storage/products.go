package storage

import (
	"context"
	"database/sql"
	"encoding/json"
	"errors"
	"fmt"
	"log/slog"

	"github.com/niksmo/catalog-engine/internal/core/domain"
	"github.com/niksmo/catalog-engine/internal/core/port"
)

var _ port.ProductStore = (*ProductsRepository)(nil)

const productColumns = `
	id, sku, name, brand, description, category_id,
	mrp, selling_price, purchase_price, tax_rate_pct,
	stock_qty, reorder_level, is_active,
	type_tag, spec_version, attributes,
	created_at, updated_at`

type ProductsRepository struct {
	sqldb sqldb
}

func NewProductsRepository(sqldb sqldb) ProductsRepository {
	return ProductsRepository{sqldb}
}

func (r ProductsRepository) Insert(
	ctx context.Context, p domain.Product,
) (domain.Product, error) {
	const op = "ProductsRepository.Insert"

	if err := ctx.Err(); err != nil {
		return domain.Product{}, fmt.Errorf("%s: %w", op, err)
	}

	attrsB, err := json.Marshal(p.Specification.Attributes)
	if err != nil {
		return domain.Product{}, fmt.Errorf("%s: failed to encode attributes: %w", op, err)
	}

	query := `
		INSERT INTO products (
			id, sku, name, brand, description, category_id,
			mrp, selling_price, purchase_price, tax_rate_pct,
			stock_qty, reorder_level, is_active,
			type_tag, spec_version, attributes
		)
		VALUES (
			$1, $2, $3, $4, $5, $6,
			$7, $8, $9, $10,
			$11, $12, $13,
			$14, $15, $16
		)
		RETURNING ` + productColumns + `;`

	row := r.sqldb.QueryRowContext(ctx, query,
		p.ID, p.SKU, p.Name, p.Brand, p.Description, p.CategoryID,
		p.MRP, p.SellingPrice, p.PurchasePrice, p.TaxRatePct,
		p.StockQty, p.ReorderLevel, p.IsActive,
		string(p.Specification.TypeTag), p.Specification.Version, string(attrsB),
	)
	stored, err := scanProduct(row)
	if err != nil {
		return domain.Product{}, fmt.Errorf("%s: %w: %w",
			op, domain.ErrStoreUnavailable, err)
	}
	return stored, nil
}

func (r ProductsRepository) Update(
	ctx context.Context, id string, patch domain.ProductPatch,
) (p domain.Product, updErr error) {
	const op = "ProductsRepository.Update"
	log := slog.With("op", op)

	if err := ctx.Err(); err != nil {
		return domain.Product{}, fmt.Errorf("%s: %w", op, err)
	}

	tx, err := r.sqldb.BeginTx(ctx, nil)
	if err != nil {
		return domain.Product{}, fmt.Errorf("%s: failed to begin tx: %w: %w",
			op, domain.ErrStoreUnavailable, err)
	}

	defer func() {
		if updErr == nil {
			if err := tx.Commit(); err != nil {
				updErr = fmt.Errorf("%s: failed to commit: %w: %w",
					op, domain.ErrStoreUnavailable, err)
			}
			return
		}

		if err := tx.Rollback(); err != nil {
			log.Error("failed to rollback tx", "err", err)
		}
	}()

	row := tx.QueryRowContext(ctx,
		`SELECT`+productColumns+` FROM products WHERE id = $1 FOR UPDATE;`, id)
	current, err := scanProduct(row)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return domain.Product{}, fmt.Errorf("%s: product %q: %w",
				op, id, domain.ErrNotFound)
		}
		return domain.Product{}, fmt.Errorf("%s: %w: %w",
			op, domain.ErrStoreUnavailable, err)
	}

	next := current.Apply(patch)
	attrsB, err := json.Marshal(next.Specification.Attributes)
	if err != nil {
		return domain.Product{}, fmt.Errorf("%s: failed to encode attributes: %w", op, err)
	}

	query := `
		UPDATE products SET
			sku = $2, name = $3, brand = $4, description = $5,
			category_id = $6, mrp = $7, selling_price = $8,
			purchase_price = $9, tax_rate_pct = $10,
			stock_qty = $11, reorder_level = $12, is_active = $13,
			attributes = $14, updated_at = now()
		WHERE id = $1
		RETURNING ` + productColumns + `;`

	row = tx.QueryRowContext(ctx, query,
		next.ID, next.SKU, next.Name, next.Brand, next.Description,
		next.CategoryID, next.MRP, next.SellingPrice,
		next.PurchasePrice, next.TaxRatePct,
		next.StockQty, next.ReorderLevel, next.IsActive,
		string(attrsB),
	)
	updated, err := scanProduct(row)
	if err != nil {
		return domain.Product{}, fmt.Errorf("%s: %w: %w",
			op, domain.ErrStoreUnavailable, err)
	}
	return updated, nil
}

func (r ProductsRepository) Get(
	ctx context.Context, id string,
) (domain.Product, error) {
	const op = "ProductsRepository.Get"

	if err := ctx.Err(); err != nil {
		return domain.Product{}, fmt.Errorf("%s: %w", op, err)
	}

	row := r.sqldb.QueryRowContext(ctx,
		`SELECT`+productColumns+` FROM products WHERE id = $1;`, id)
	p, err := scanProduct(row)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return domain.Product{}, fmt.Errorf("%s: product %q: %w",
				op, id, domain.ErrNotFound)
		}
		return domain.Product{}, fmt.Errorf("%s: %w: %w",
			op, domain.ErrStoreUnavailable, err)
	}
	return p, nil
}

func (r ProductsRepository) List(
	ctx context.Context, ps domain.PredicateSet, page domain.Page,
) ([]domain.Product, error) {
	const op = "ProductsRepository.List"

	if err := ctx.Err(); err != nil {
		return nil, fmt.Errorf("%s: %w", op, err)
	}

	where, args, argIdx := compileWhere(ps, 1)
	page = page.Normalize()
	query := fmt.Sprintf(
		`SELECT%s FROM products WHERE %s %s LIMIT $%d OFFSET $%d;`,
		productColumns, where, orderBy(ps.Sort), argIdx, argIdx+1)
	args = append(args, page.Size, page.Offset())

	rows, err := r.sqldb.QueryContext(ctx, query, args...)
	if err != nil {
		return nil, fmt.Errorf("%s: %w: %w", op, domain.ErrStoreUnavailable, err)
	}
	defer rows.Close()

	products := []domain.Product{}
	for rows.Next() {
		p, err := scanProduct(rows)
		if err != nil {
			return nil, fmt.Errorf("%s: %w: %w", op, domain.ErrStoreUnavailable, err)
		}
		products = append(products, p)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("%s: %w: %w", op, domain.ErrStoreUnavailable, err)
	}
	return products, nil
}

func (r ProductsRepository) Count(
	ctx context.Context, ps domain.PredicateSet,
) (int64, error) {
	const op = "ProductsRepository.Count"

	if err := ctx.Err(); err != nil {
		return 0, fmt.Errorf("%s: %w", op, err)
	}

	where, args, _ := compileWhere(ps, 1)
	query := fmt.Sprintf(`SELECT count(*) FROM products WHERE %s;`, where)

	var n int64
	if err := r.sqldb.QueryRowContext(ctx, query, args...).Scan(&n); err != nil {
		return 0, fmt.Errorf("%s: %w: %w", op, domain.ErrStoreUnavailable, err)
	}
	return n, nil
}

func (r ProductsRepository) DistinctAttr(
	ctx context.Context, ps domain.PredicateSet, path string,
) ([]string, error) {
	const op = "ProductsRepository.DistinctAttr"

	if err := ctx.Err(); err != nil {
		return nil, fmt.Errorf("%s: %w", op, err)
	}

	where, args, argIdx := compileWhere(ps, 1)
	// scalar values come out via ->>, list values are unnested
	query := fmt.Sprintf(`
		SELECT DISTINCT v FROM (
			SELECT attributes->>$%[1]d AS v
			FROM products
			WHERE %[2]s AND jsonb_typeof(attributes->$%[1]d) <> 'array'
			UNION ALL
			SELECT jsonb_array_elements_text(attributes->$%[1]d)
			FROM products
			WHERE %[2]s AND jsonb_typeof(attributes->$%[1]d) = 'array'
		) t
		WHERE v IS NOT NULL
		ORDER BY v;`, argIdx, where)
	args = append(args, path)

	rows, err := r.sqldb.QueryContext(ctx, query, args...)
	if err != nil {
		return nil, fmt.Errorf("%s: %w: %w", op, domain.ErrStoreUnavailable, err)
	}
	defer rows.Close()

	var values []string
	for rows.Next() {
		var v string
		if err := rows.Scan(&v); err != nil {
			return nil, fmt.Errorf("%s: %w: %w", op, domain.ErrStoreUnavailable, err)
		}
		values = append(values, v)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("%s: %w: %w", op, domain.ErrStoreUnavailable, err)
	}
	return values, nil
}

func (r ProductsRepository) PriceBounds(
	ctx context.Context, ps domain.PredicateSet,
) (domain.PriceRange, error) {
	const op = "ProductsRepository.PriceBounds"

	if err := ctx.Err(); err != nil {
		return domain.PriceRange{}, fmt.Errorf("%s: %w", op, err)
	}

	where, args, _ := compileWhere(ps, 1)
	query := fmt.Sprintf(
		`SELECT COALESCE(min(selling_price), 0), COALESCE(max(selling_price), 0)
		 FROM products WHERE %s;`, where)

	var bounds domain.PriceRange
	err := r.sqldb.QueryRowContext(ctx, query, args...).
		Scan(&bounds.Min, &bounds.Max)
	if err != nil {
		return domain.PriceRange{}, fmt.Errorf("%s: %w: %w",
			op, domain.ErrStoreUnavailable, err)
	}
	return bounds, nil
}

type rowScanner interface {
	Scan(dest ...any) error
}

func scanProduct(row rowScanner) (domain.Product, error) {
	var (
		p      domain.Product
		tag    string
		attrsS string
	)
	err := row.Scan(
		&p.ID, &p.SKU, &p.Name, &p.Brand, &p.Description, &p.CategoryID,
		&p.MRP, &p.SellingPrice, &p.PurchasePrice, &p.TaxRatePct,
		&p.StockQty, &p.ReorderLevel, &p.IsActive,
		&tag, &p.Specification.Version, &attrsS,
		&p.CreatedAt, &p.UpdatedAt,
	)
	if err != nil {
		return domain.Product{}, err
	}
	p.Specification.TypeTag = domain.TypeTag(tag)

	attrs, err := decodeAttrs([]byte(attrsS))
	if err != nil {
		return domain.Product{}, fmt.Errorf("failed to decode attributes: %w", err)
	}
	p.Specification.Attributes = attrs
	return p, nil
}

// decodeAttrs restores the attribute value types json flattens:
// generic []any lists come back as []string.
func decodeAttrs(b []byte) (domain.Attrs, error) {
	var raw map[string]any
	if err := json.Unmarshal(b, &raw); err != nil {
		return nil, err
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
	return attrs, nil
}
