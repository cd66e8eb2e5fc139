package repository

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/google/uuid"
	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgconn"
	"github.com/jackc/pgx/v5/pgxpool"
	"github.com/shopspring/decimal"

	"pttech-backend/internal/domains/product/model"
)

type postgresRepository struct {
	pool *pgxpool.Pool
}

func NewPostgresRepository(pool *pgxpool.Pool) RepositoryInterface {
	return &postgresRepository{pool: pool}
}

const productColumns = `
	id, sku, name, slug, brand_id, category_id, description, specifications,
	original_price, current_price, tags, images, videos,
	rating_average, rating_count, total_sold,
	is_active, is_deleted, scheduled_date, created_at, updated_at
`

const variantColumns = `
	id, product_id, color, hex_code, size, ram, storage, condition, stock,
	created_at, updated_at
`

func scanProduct(row pgx.Row) (*model.Product, error) {
	var p model.Product
	err := row.Scan(
		&p.ID, &p.SKU, &p.Name, &p.Slug, &p.BrandID, &p.Category,
		&p.Description, &p.Specifications,
		&p.OriginalPrice, &p.CurrentPrice, &p.Tags, &p.Images, &p.Videos,
		&p.RatingAverage, &p.RatingCount, &p.TotalSold,
		&p.IsActive, &p.IsDeleted, &p.ScheduledDate, &p.CreatedAt, &p.UpdatedAt,
	)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, model.ErrNotFound
		}
		return nil, fmt.Errorf("scan product: %w", err)
	}
	return &p, nil
}

func scanVariant(row pgx.Row) (*model.Variant, error) {
	var v model.Variant
	err := row.Scan(
		&v.ID, &v.ProductID, &v.Color, &v.HexCode, &v.Size, &v.RAM,
		&v.Storage, &v.Condition, &v.Stock, &v.CreatedAt, &v.UpdatedAt,
	)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, model.ErrVariantNotFound
		}
		return nil, fmt.Errorf("scan variant: %w", err)
	}
	return &v, nil
}

func (r *postgresRepository) Create(ctx context.Context, p *model.Product) error {
	tx, err := r.pool.Begin(ctx)
	if err != nil {
		return fmt.Errorf("begin create product: %w", err)
	}
	defer tx.Rollback(ctx)

	_, err = tx.Exec(ctx, `
		INSERT INTO products (
			id, sku, name, slug, brand_id, category_id, description, specifications,
			original_price, current_price, tags, images, videos,
			rating_average, rating_count, total_sold,
			is_active, is_deleted, scheduled_date, created_at, updated_at
		) VALUES (
			$1, $2, $3, $4, $5, $6, $7, $8, $9, $10, $11, $12, $13,
			$14, $15, $16, $17, $18, $19, $20, $21
		)`,
		p.ID, p.SKU, p.Name, p.Slug, p.BrandID, p.Category, p.Description, p.Specifications,
		p.OriginalPrice, p.CurrentPrice, p.Tags, p.Images, p.Videos,
		p.RatingAverage, p.RatingCount, p.TotalSold,
		p.IsActive, p.IsDeleted, p.ScheduledDate, p.CreatedAt, p.UpdatedAt,
	)
	if err != nil {
		var pgErr *pgconn.PgError
		if errors.As(err, &pgErr) && pgErr.Code == "23505" {
			return model.ErrDuplicateSKU
		}
		return fmt.Errorf("insert product: %w", err)
	}

	for i := range p.Variants {
		if err := insertVariant(ctx, tx, &p.Variants[i]); err != nil {
			return err
		}
	}

	return tx.Commit(ctx)
}

func insertVariant(ctx context.Context, tx pgx.Tx, v *model.Variant) error {
	_, err := tx.Exec(ctx, `
		INSERT INTO product_variants (
			id, product_id, color, hex_code, size, ram, storage, condition, stock,
			created_at, updated_at
		) VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9, $10, $11)`,
		v.ID, v.ProductID, v.Color, v.HexCode, v.Size, v.RAM,
		v.Storage, v.Condition, v.Stock, v.CreatedAt, v.UpdatedAt,
	)
	if err != nil {
		return fmt.Errorf("insert variant: %w", err)
	}
	return nil
}

func (r *postgresRepository) Update(ctx context.Context, p *model.Product) error {
	tag, err := r.pool.Exec(ctx, `
		UPDATE products SET
			name = $2, description = $3, specifications = $4, tags = $5,
			updated_at = $6
		WHERE id = $1 AND is_deleted = FALSE`,
		p.ID, p.Name, p.Description, p.Specifications, p.Tags, time.Now(),
	)
	if err != nil {
		return fmt.Errorf("update product: %w", err)
	}
	if tag.RowsAffected() == 0 {
		return model.ErrNotFound
	}
	return nil
}

func (r *postgresRepository) GetByID(ctx context.Context, id uuid.UUID) (*model.Product, error) {
	query := fmt.Sprintf(`SELECT %s FROM products WHERE id = $1 AND is_deleted = FALSE`, productColumns)
	p, err := scanProduct(r.pool.QueryRow(ctx, query, id))
	if err != nil {
		return nil, err
	}
	if err := r.loadVariants(ctx, p); err != nil {
		return nil, err
	}
	return p, nil
}

func (r *postgresRepository) GetBySlug(ctx context.Context, slug string) (*model.Product, error) {
	query := fmt.Sprintf(`SELECT %s FROM products WHERE slug = $1 AND is_deleted = FALSE`, productColumns)
	p, err := scanProduct(r.pool.QueryRow(ctx, query, slug))
	if err != nil {
		return nil, err
	}
	if err := r.loadVariants(ctx, p); err != nil {
		return nil, err
	}
	return p, nil
}

func (r *postgresRepository) GetVariant(ctx context.Context, variantID uuid.UUID) (*model.Variant, error) {
	query := fmt.Sprintf(`SELECT %s FROM product_variants WHERE id = $1`, variantColumns)
	return scanVariant(r.pool.QueryRow(ctx, query, variantID))
}

func (r *postgresRepository) loadVariants(ctx context.Context, p *model.Product) error {
	query := fmt.Sprintf(`SELECT %s FROM product_variants WHERE product_id = $1 ORDER BY created_at`, variantColumns)
	rows, err := r.pool.Query(ctx, query, p.ID)
	if err != nil {
		return fmt.Errorf("load variants: %w", err)
	}
	defer rows.Close()

	for rows.Next() {
		v, err := scanVariant(rows)
		if err != nil {
			return err
		}
		p.Variants = append(p.Variants, *v)
	}
	return rows.Err()
}

func (r *postgresRepository) List(ctx context.Context, filter *model.Filter) ([]model.Product, int, error) {
	filter.Normalize()

	where := `WHERE is_deleted = FALSE`
	args := []interface{}{}
	arg := func(v interface{}) string {
		args = append(args, v)
		return fmt.Sprintf("$%d", len(args))
	}

	if !filter.IncludeHidden {
		where += ` AND is_active = TRUE`
	}
	if filter.BrandID != nil {
		where += ` AND brand_id = ` + arg(*filter.BrandID)
	}
	if filter.CategoryID != nil {
		where += ` AND category_id = ` + arg(*filter.CategoryID)
	}
	if filter.Keyword != "" {
		p := arg("%" + filter.Keyword + "%")
		where += fmt.Sprintf(` AND (name ILIKE %s OR sku ILIKE %s)`, p, p)
	}
	if filter.MinPrice != nil {
		where += ` AND current_price >= ` + arg(*filter.MinPrice)
	}
	if filter.MaxPrice != nil {
		where += ` AND current_price <= ` + arg(*filter.MaxPrice)
	}

	var total int
	if err := r.pool.QueryRow(ctx, `SELECT COUNT(*) FROM products `+where, args...).Scan(&total); err != nil {
		return nil, 0, fmt.Errorf("count products: %w", err)
	}

	query := fmt.Sprintf(
		`SELECT %s FROM products %s ORDER BY created_at DESC LIMIT %s OFFSET %s`,
		productColumns, where, arg(filter.Limit), arg(filter.Offset()),
	)
	rows, err := r.pool.Query(ctx, query, args...)
	if err != nil {
		return nil, 0, fmt.Errorf("list products: %w", err)
	}
	defer rows.Close()

	var products []model.Product
	for rows.Next() {
		p, err := scanProduct(rows)
		if err != nil {
			return nil, 0, err
		}
		products = append(products, *p)
	}
	if err := rows.Err(); err != nil {
		return nil, 0, err
	}

	for i := range products {
		if err := r.loadVariants(ctx, &products[i]); err != nil {
			return nil, 0, err
		}
	}
	return products, total, nil
}

func (r *postgresRepository) SetActive(ctx context.Context, id uuid.UUID, active bool) error {
	tag, err := r.pool.Exec(ctx,
		`UPDATE products SET is_active = $2, updated_at = $3 WHERE id = $1 AND is_deleted = FALSE`,
		id, active, time.Now(),
	)
	if err != nil {
		return fmt.Errorf("set product active: %w", err)
	}
	if tag.RowsAffected() == 0 {
		return model.ErrNotFound
	}
	return nil
}

func (r *postgresRepository) SoftDelete(ctx context.Context, id uuid.UUID) error {
	tag, err := r.pool.Exec(ctx,
		`UPDATE products SET is_deleted = TRUE, is_active = FALSE, updated_at = $2 WHERE id = $1 AND is_deleted = FALSE`,
		id, time.Now(),
	)
	if err != nil {
		return fmt.Errorf("delete product: %w", err)
	}
	if tag.RowsAffected() == 0 {
		return model.ErrNotFound
	}
	return nil
}

func (r *postgresRepository) UpdatePrice(ctx context.Context, id uuid.UUID, newPrice decimal.Decimal, changedAt time.Time) (*model.Product, error) {
	tx, err := r.pool.Begin(ctx)
	if err != nil {
		return nil, fmt.Errorf("begin price update: %w", err)
	}
	defer tx.Rollback(ctx)

	var old decimal.Decimal
	err = tx.QueryRow(ctx,
		`SELECT current_price FROM products WHERE id = $1 AND is_deleted = FALSE FOR UPDATE`,
		id,
	).Scan(&old)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, model.ErrNotFound
		}
		return nil, fmt.Errorf("lock product for price update: %w", err)
	}

	if _, err := tx.Exec(ctx,
		`UPDATE products SET current_price = $2, updated_at = $3 WHERE id = $1`,
		id, newPrice, changedAt,
	); err != nil {
		return nil, fmt.Errorf("update product price: %w", err)
	}

	if _, err := tx.Exec(ctx, `
		INSERT INTO product_price_history (id, product_id, old_price, new_price, changed_at)
		VALUES ($1, $2, $3, $4, $5)`,
		uuid.New(), id, old, newPrice, changedAt,
	); err != nil {
		return nil, fmt.Errorf("record price change: %w", err)
	}

	if err := tx.Commit(ctx); err != nil {
		return nil, err
	}
	return r.GetByID(ctx, id)
}

func (r *postgresRepository) PriceHistory(ctx context.Context, id uuid.UUID) ([]model.PriceChange, error) {
	rows, err := r.pool.Query(ctx, `
		SELECT id, product_id, old_price, new_price, changed_at
		FROM product_price_history
		WHERE product_id = $1
		ORDER BY changed_at DESC`,
		id,
	)
	if err != nil {
		return nil, fmt.Errorf("price history: %w", err)
	}
	defer rows.Close()

	var history []model.PriceChange
	for rows.Next() {
		var h model.PriceChange
		if err := rows.Scan(&h.ID, &h.ProductID, &h.OldPrice, &h.NewPrice, &h.ChangedAt); err != nil {
			return nil, fmt.Errorf("scan price change: %w", err)
		}
		history = append(history, h)
	}
	return history, rows.Err()
}

// AdjustStock is conditional on the decrement never crossing zero, so two
// concurrent orders cannot both take the last unit.
func (r *postgresRepository) AdjustStock(ctx context.Context, variantID uuid.UUID, delta int) (*model.Variant, error) {
	query := fmt.Sprintf(`
		UPDATE product_variants
		SET stock = stock + $2, updated_at = now()
		WHERE id = $1 AND stock + $2 >= 0
		RETURNING %s`, variantColumns)

	v, err := scanVariant(r.pool.QueryRow(ctx, query, variantID, delta))
	if err != nil {
		if errors.Is(err, model.ErrVariantNotFound) {
			// Either the variant is missing or the condition failed.
			if _, getErr := r.GetVariant(ctx, variantID); getErr == nil {
				return nil, model.ErrOutOfStock
			}
			return nil, model.ErrVariantNotFound
		}
		return nil, err
	}
	return v, nil
}

func (r *postgresRepository) AppendMedia(ctx context.Context, id uuid.UUID, imageURLs, videoURLs []string) error {
	tag, err := r.pool.Exec(ctx, `
		UPDATE products
		SET images = images || $2, videos = videos || $3, updated_at = $4
		WHERE id = $1 AND is_deleted = FALSE`,
		id, imageURLs, videoURLs, time.Now(),
	)
	if err != nil {
		return fmt.Errorf("append product media: %w", err)
	}
	if tag.RowsAffected() == 0 {
		return model.ErrNotFound
	}
	return nil
}

func (r *postgresRepository) UpdateRating(ctx context.Context, id uuid.UUID, average decimal.Decimal, count int) error {
	tag, err := r.pool.Exec(ctx,
		`UPDATE products SET rating_average = $2, rating_count = $3, updated_at = $4 WHERE id = $1 AND is_deleted = FALSE`,
		id, average, count, time.Now(),
	)
	if err != nil {
		return fmt.Errorf("update product rating: %w", err)
	}
	if tag.RowsAffected() == 0 {
		return model.ErrNotFound
	}
	return nil
}

func (r *postgresRepository) RecordSale(ctx context.Context, id uuid.UUID, quantity int) error {
	_, err := r.pool.Exec(ctx,
		`UPDATE products SET total_sold = total_sold + $2, updated_at = $3 WHERE id = $1`,
		id, quantity, time.Now(),
	)
	if err != nil {
		return fmt.Errorf("record product sale: %w", err)
	}
	return nil
}
