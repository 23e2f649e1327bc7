package storage

import (
	"context"
	"database/sql"
	"fmt"
	"log/slog"

	"github.com/niksmo/storefront/internal/core/domain"
	"github.com/niksmo/storefront/internal/core/port"
	"github.com/shopspring/decimal"
)

var _ port.CatalogReader = (*CatalogRepository)(nil)

const productColumns = `
	id, slug, name, sku, description, price, compare_price, category,
	rating, review_count, stock, weight_kg, is_featured`

type CatalogRepository struct {
	sqldb sqldb
}

func NewCatalogRepository(sqldb sqldb) CatalogRepository {
	return CatalogRepository{sqldb}
}

// ReadProducts returns the whole catalog in insertion order,
// which is the featured order of the storefront.
func (r CatalogRepository) ReadProducts(ctx context.Context) ([]domain.Product, error) {
	const op = "CatalogRepository.ReadProducts"

	if err := ctx.Err(); err != nil {
		return nil, fmt.Errorf("%s: %w", op, err)
	}

	query := `SELECT` + productColumns + ` FROM products ORDER BY id;`

	ps, err := r.queryProducts(ctx, query)
	if err != nil {
		return nil, fmt.Errorf("%s: %w", op, err)
	}
	if err := r.attachDetails(ctx, ps); err != nil {
		return nil, fmt.Errorf("%s: %w", op, err)
	}
	return ps, nil
}

func (r CatalogRepository) ReadProductsByIDs(
	ctx context.Context, ids []int64,
) ([]domain.Product, error) {
	const op = "CatalogRepository.ReadProductsByIDs"

	if err := ctx.Err(); err != nil {
		return nil, fmt.Errorf("%s: %w", op, err)
	}

	if len(ids) == 0 {
		return []domain.Product{}, nil
	}

	query := `SELECT` + productColumns + `
		FROM products WHERE id = ANY($1::bigint[]) ORDER BY id;`

	ps, err := r.queryProducts(ctx, query, int64Array(ids))
	if err != nil {
		return nil, fmt.Errorf("%s: %w", op, err)
	}
	if err := r.attachDetails(ctx, ps); err != nil {
		return nil, fmt.Errorf("%s: %w", op, err)
	}
	return ps, nil
}

func (r CatalogRepository) queryProducts(
	ctx context.Context, query string, args ...any,
) ([]domain.Product, error) {
	rows, err := r.sqldb.QueryContext(ctx, query, args...)
	if err != nil {
		return nil, err
	}
	defer func() { _ = rows.Close() }()

	ps := []domain.Product{}
	for rows.Next() {
		var (
			p       domain.Product
			compare decimal.NullDecimal
		)
		err := rows.Scan(
			&p.ID, &p.Slug, &p.Name, &p.SKU, &p.Description, &p.Price, &compare,
			&p.Category, &p.Rating, &p.ReviewCount, &p.Stock, &p.WeightKg, &p.IsFeatured,
		)
		if err != nil {
			return nil, err
		}
		if compare.Valid {
			p.ComparePrice = &compare.Decimal
		}
		ps = append(ps, p)
	}
	if err := rows.Err(); err != nil {
		return nil, err
	}
	return ps, nil
}

// attachDetails fills variants and images of ps in place.
func (r CatalogRepository) attachDetails(ctx context.Context, ps []domain.Product) error {
	if len(ps) == 0 {
		return nil
	}

	ids := make([]int64, len(ps))
	byID := make(map[int64]*domain.Product, len(ps))
	for i := range ps {
		ids[i] = ps[i].ID
		byID[ps[i].ID] = &ps[i]
	}

	if err := r.queryVariants(ctx, ids, byID); err != nil {
		return fmt.Errorf("variants: %w", err)
	}
	if err := r.queryImages(ctx, ids, byID); err != nil {
		return fmt.Errorf("images: %w", err)
	}
	return nil
}

func (r CatalogRepository) queryVariants(
	ctx context.Context, ids []int64, byID map[int64]*domain.Product,
) error {
	query := `
		SELECT product_id, id, name, value, sku, stock
		FROM product_variants WHERE product_id = ANY($1::bigint[])
		ORDER BY product_id, id;`

	rows, err := r.sqldb.QueryContext(ctx, query, int64Array(ids))
	if err != nil {
		return err
	}
	defer func() { _ = rows.Close() }()

	for rows.Next() {
		var (
			productID int64
			v         domain.ProductVariant
		)
		if err := rows.Scan(&productID, &v.ID, &v.Name, &v.Value, &v.SKU, &v.Stock); err != nil {
			return err
		}
		if p, ok := byID[productID]; ok {
			p.Variants = append(p.Variants, v)
		}
	}
	return rows.Err()
}

func (r CatalogRepository) queryImages(
	ctx context.Context, ids []int64, byID map[int64]*domain.Product,
) error {
	query := `
		SELECT product_id, id, url, alt, is_primary, position
		FROM product_images WHERE product_id = ANY($1::bigint[])
		ORDER BY product_id, position, id;`

	rows, err := r.sqldb.QueryContext(ctx, query, int64Array(ids))
	if err != nil {
		return err
	}
	defer func() { _ = rows.Close() }()

	for rows.Next() {
		var (
			productID int64
			img       domain.ProductImage
		)
		err := rows.Scan(&productID, &img.ID, &img.URL, &img.Alt, &img.IsPrimary, &img.Position)
		if err != nil {
			return err
		}
		if p, ok := byID[productID]; ok {
			p.Images = append(p.Images, img)
		}
	}
	return rows.Err()
}

func (r CatalogRepository) ReadCategories(ctx context.Context) ([]domain.Category, error) {
	const op = "CatalogRepository.ReadCategories"

	if err := ctx.Err(); err != nil {
		return nil, fmt.Errorf("%s: %w", op, err)
	}

	query := `
		SELECT slug, name, description, image_url
		FROM categories ORDER BY name ASC;`

	rows, err := r.sqldb.QueryContext(ctx, query)
	if err != nil {
		return nil, fmt.Errorf("%s: %w", op, err)
	}
	defer func() { _ = rows.Close() }()

	cs := []domain.Category{}
	for rows.Next() {
		var c domain.Category
		if err := rows.Scan(&c.Slug, &c.Name, &c.Description, &c.ImageURL); err != nil {
			return nil, fmt.Errorf("%s: %w", op, err)
		}
		cs = append(cs, c)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("%s: %w", op, err)
	}
	return cs, nil
}

func (r CatalogRepository) StoreCategories(
	ctx context.Context, cs []domain.Category,
) error {
	const op = "CatalogRepository.StoreCategories"

	if err := ctx.Err(); err != nil {
		return fmt.Errorf("%s: %w", op, err)
	}

	query := `
		INSERT INTO categories (slug, name, description, image_url)
		VALUES ($1, $2, $3, $4)
		ON CONFLICT (slug) DO UPDATE SET
			name = EXCLUDED.name,
			description = EXCLUDED.description,
			image_url = EXCLUDED.image_url;`

	err := inTx(ctx, r.sqldb, op, func(tx *sql.Tx) error {
		return execEach(ctx, tx, query, cs, func(c domain.Category) []any {
			return []any{c.Slug, c.Name, c.Description, c.ImageURL}
		})
	})
	if err != nil {
		return fmt.Errorf("%s: %w", op, err)
	}
	return nil
}

type (
	variantRow struct {
		slug string
		domain.ProductVariant
	}

	imageRow struct {
		slug string
		domain.ProductImage
	}
)

// StoreProducts upserts products by slug together with their variants
// and images. New products get ids in the order of ps.
func (r CatalogRepository) StoreProducts(
	ctx context.Context, ps []domain.Product,
) error {
	const op = "CatalogRepository.StoreProducts"

	if err := ctx.Err(); err != nil {
		return fmt.Errorf("%s: %w", op, err)
	}

	query := `
		INSERT INTO products (
			slug, name, sku, description, price, compare_price, category,
			rating, review_count, stock, weight_kg, is_featured
		)
		VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9, $10, $11, $12)
		ON CONFLICT (slug) DO UPDATE SET
			name = EXCLUDED.name,
			sku = EXCLUDED.sku,
			description = EXCLUDED.description,
			price = EXCLUDED.price,
			compare_price = EXCLUDED.compare_price,
			category = EXCLUDED.category,
			rating = EXCLUDED.rating,
			review_count = EXCLUDED.review_count,
			stock = EXCLUDED.stock,
			weight_kg = EXCLUDED.weight_kg,
			is_featured = EXCLUDED.is_featured;`

	variantsQuery := `
		INSERT INTO product_variants (id, product_id, name, value, sku, stock)
		VALUES ($1, (SELECT id FROM products WHERE slug = $2), $3, $4, $5, $6)
		ON CONFLICT (id) DO UPDATE SET
			product_id = EXCLUDED.product_id,
			name = EXCLUDED.name,
			value = EXCLUDED.value,
			sku = EXCLUDED.sku,
			stock = EXCLUDED.stock;`

	imagesQuery := `
		INSERT INTO product_images (id, product_id, url, alt, is_primary, position)
		VALUES ($1, (SELECT id FROM products WHERE slug = $2), $3, $4, $5, $6)
		ON CONFLICT (id) DO UPDATE SET
			product_id = EXCLUDED.product_id,
			url = EXCLUDED.url,
			alt = EXCLUDED.alt,
			is_primary = EXCLUDED.is_primary,
			position = EXCLUDED.position;`

	var (
		variants []variantRow
		images   []imageRow
	)
	for _, p := range ps {
		for _, v := range p.Variants {
			variants = append(variants, variantRow{p.Slug, v})
		}
		for _, img := range p.Images {
			images = append(images, imageRow{p.Slug, img})
		}
	}

	err := inTx(ctx, r.sqldb, op, func(tx *sql.Tx) error {
		err := execEach(ctx, tx, query, ps, func(p domain.Product) []any {
			compare := decimal.NullDecimal{}
			if p.ComparePrice != nil {
				compare = decimal.NewNullDecimal(*p.ComparePrice)
			}
			return []any{
				p.Slug, p.Name, p.SKU, p.Description, p.Price, compare, p.Category,
				p.Rating, p.ReviewCount, p.Stock, p.WeightKg, p.IsFeatured,
			}
		})
		if err != nil {
			return err
		}

		err = execEach(ctx, tx, variantsQuery, variants, func(v variantRow) []any {
			return []any{v.ID, v.slug, v.Name, v.Value, v.SKU, v.Stock}
		})
		if err != nil {
			return err
		}

		return execEach(ctx, tx, imagesQuery, images, func(img imageRow) []any {
			return []any{img.ID, img.slug, img.URL, img.Alt, img.IsPrimary, img.Position}
		})
	})
	if err != nil {
		return fmt.Errorf("%s: %w", op, err)
	}
	return nil
}

// execEach runs the prepared query once per value.
// Nothing is prepared for an empty vs.
func execEach[T any](
	ctx context.Context, tx *sql.Tx, query string, vs []T, args func(T) []any,
) error {
	if len(vs) == 0 {
		return nil
	}

	stmt, err := tx.PrepareContext(ctx, query)
	if err != nil {
		return fmt.Errorf("failed to prepare stmt: %w", err)
	}
	defer func() {
		if err := stmt.Close(); err != nil {
			slog.Error("failed to close prepared stmt", "err", err)
		}
	}()

	for _, v := range vs {
		if _, err := stmt.ExecContext(ctx, args(v)...); err != nil {
			return fmt.Errorf("failed to exec: %w", err)
		}
	}
	return nil
}
