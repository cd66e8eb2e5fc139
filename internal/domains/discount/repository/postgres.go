package repository

import (
	"context"
	"errors"
	"fmt"
	"strings"
	"time"

	"github.com/google/uuid"
	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgconn"
	"github.com/jackc/pgx/v5/pgxpool"

	"pttech-backend/internal/domains/discount/model"
)

type postgresRepository struct {
	pool *pgxpool.Pool
}

func NewPostgresRepository(pool *pgxpool.Pool) RepositoryInterface {
	return &postgresRepository{pool: pool}
}

const discountColumns = `
	id, code, description, discount_type, discount_value,
	minimum_purchase, max_amount, applies_to, product_ids, category_ids,
	start_date, end_date, usage_limit, usage_count, used_by,
	is_active, is_deleted, scheduled_date, created_at, updated_at
`

func (r *postgresRepository) scanRow(row pgx.Row) (*model.DiscountCode, error) {
	var d model.DiscountCode
	err := row.Scan(
		&d.ID, &d.Code, &d.Description, &d.Type, &d.Value,
		&d.MinimumPurchase, &d.MaxAmount, &d.Scope, &d.ProductIDs, &d.CategoryIDs,
		&d.StartDate, &d.EndDate, &d.UsageLimit, &d.UsageCount, &d.UsedBy,
		&d.IsActive, &d.IsDeleted, &d.ScheduledDate, &d.CreatedAt, &d.UpdatedAt,
	)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, model.ErrNotFound
		}
		return nil, fmt.Errorf("scan discount code: %w", err)
	}
	return &d, nil
}

func (r *postgresRepository) Create(ctx context.Context, d *model.DiscountCode) error {
	query := `
		INSERT INTO discount_codes (
			id, code, description, discount_type, discount_value,
			minimum_purchase, max_amount, applies_to, product_ids, category_ids,
			start_date, end_date, usage_limit, usage_count, used_by,
			is_active, is_deleted, scheduled_date, created_at, updated_at
		) VALUES (
			$1, $2, $3, $4, $5, $6, $7, $8, $9, $10,
			$11, $12, $13, $14, $15, $16, $17, $18, $19, $20
		)
	`
	_, err := r.pool.Exec(ctx, query,
		d.ID, d.Code, d.Description, d.Type, d.Value,
		d.MinimumPurchase, d.MaxAmount, d.Scope, d.ProductIDs, d.CategoryIDs,
		d.StartDate, d.EndDate, d.UsageLimit, d.UsageCount, d.UsedBy,
		d.IsActive, d.IsDeleted, d.ScheduledDate, d.CreatedAt, d.UpdatedAt,
	)
	if err != nil {
		var pgErr *pgconn.PgError
		if errors.As(err, &pgErr) && pgErr.Code == "23505" {
			return model.ErrDuplicateCode
		}
		return fmt.Errorf("create discount code: %w", err)
	}
	return nil
}

func (r *postgresRepository) Update(ctx context.Context, d *model.DiscountCode) error {
	query := `
		UPDATE discount_codes SET
			description = $2, discount_value = $3, minimum_purchase = $4,
			max_amount = $5, start_date = $6, end_date = $7, usage_limit = $8,
			updated_at = $9
		WHERE id = $1 AND is_deleted = FALSE
	`
	tag, err := r.pool.Exec(ctx, query,
		d.ID, d.Description, d.Value, d.MinimumPurchase,
		d.MaxAmount, d.StartDate, d.EndDate, d.UsageLimit, time.Now(),
	)
	if err != nil {
		return fmt.Errorf("update discount code: %w", err)
	}
	if tag.RowsAffected() == 0 {
		return model.ErrNotFound
	}
	return nil
}

func (r *postgresRepository) GetByID(ctx context.Context, id uuid.UUID) (*model.DiscountCode, error) {
	query := fmt.Sprintf(`SELECT %s FROM discount_codes WHERE id = $1 AND is_deleted = FALSE`, discountColumns)
	return r.scanRow(r.pool.QueryRow(ctx, query, id))
}

func (r *postgresRepository) GetByCode(ctx context.Context, code string) (*model.DiscountCode, error) {
	query := fmt.Sprintf(`SELECT %s FROM discount_codes WHERE UPPER(code) = $1 AND is_deleted = FALSE`, discountColumns)
	return r.scanRow(r.pool.QueryRow(ctx, query, strings.ToUpper(code)))
}

func (r *postgresRepository) List(ctx context.Context, includeHidden bool) ([]model.DiscountCode, error) {
	query := fmt.Sprintf(`SELECT %s FROM discount_codes WHERE is_deleted = FALSE`, discountColumns)
	if !includeHidden {
		query += ` AND is_active = TRUE`
	}
	query += ` ORDER BY created_at DESC`
	return r.queryMany(ctx, query)
}

func (r *postgresRepository) ListUsable(ctx context.Context, now time.Time) ([]model.DiscountCode, error) {
	query := fmt.Sprintf(`
		SELECT %s FROM discount_codes
		WHERE is_deleted = FALSE AND is_active = TRUE
		  AND start_date <= $1 AND end_date >= $1
		  AND (usage_limit IS NULL OR usage_count < usage_limit)
		ORDER BY end_date ASC
	`, discountColumns)
	return r.queryMany(ctx, query, now)
}

func (r *postgresRepository) Search(ctx context.Context, keyword string) ([]model.DiscountCode, error) {
	query := fmt.Sprintf(`
		SELECT %s FROM discount_codes
		WHERE is_deleted = FALSE AND code ILIKE $1
		ORDER BY created_at DESC
	`, discountColumns)
	return r.queryMany(ctx, query, "%"+keyword+"%")
}

func (r *postgresRepository) queryMany(ctx context.Context, query string, args ...interface{}) ([]model.DiscountCode, error) {
	rows, err := r.pool.Query(ctx, query, args...)
	if err != nil {
		return nil, fmt.Errorf("list discount codes: %w", err)
	}
	defer rows.Close()

	var codes []model.DiscountCode
	for rows.Next() {
		d, err := r.scanRow(rows)
		if err != nil {
			return nil, err
		}
		codes = append(codes, *d)
	}
	return codes, rows.Err()
}

func (r *postgresRepository) SetActive(ctx context.Context, id uuid.UUID, active bool) error {
	tag, err := r.pool.Exec(ctx,
		`UPDATE discount_codes SET is_active = $2, updated_at = $3 WHERE id = $1 AND is_deleted = FALSE`,
		id, active, time.Now(),
	)
	if err != nil {
		return fmt.Errorf("set discount code active: %w", err)
	}
	if tag.RowsAffected() == 0 {
		return model.ErrNotFound
	}
	return nil
}

func (r *postgresRepository) SoftDelete(ctx context.Context, id uuid.UUID) error {
	tag, err := r.pool.Exec(ctx,
		`UPDATE discount_codes SET is_deleted = TRUE, is_active = FALSE, updated_at = $2 WHERE id = $1 AND is_deleted = FALSE`,
		id, time.Now(),
	)
	if err != nil {
		return fmt.Errorf("delete discount code: %w", err)
	}
	if tag.RowsAffected() == 0 {
		return model.ErrNotFound
	}
	return nil
}

// Redeem is the single authoritative gate against over-redemption: the
// usage check and the increment happen in one statement, so two concurrent
// checkouts cannot both take the last slot.
func (r *postgresRepository) Redeem(ctx context.Context, id, userID uuid.UUID) (bool, error) {
	query := `
		UPDATE discount_codes
		SET usage_count = usage_count + 1,
		    used_by = array_append(used_by, $2),
		    updated_at = now()
		WHERE id = $1
		  AND is_active = TRUE AND is_deleted = FALSE
		  AND start_date <= now() AND end_date >= now()
		  AND (usage_limit IS NULL OR usage_count < usage_limit)
		  AND NOT ($2 = ANY(used_by))
	`
	tag, err := r.pool.Exec(ctx, query, id, userID)
	if err != nil {
		return false, fmt.Errorf("redeem discount code: %w", err)
	}
	return tag.RowsAffected() == 1, nil
}

func (r *postgresRepository) DeactivateExpired(ctx context.Context, now time.Time) (int64, error) {
	tag, err := r.pool.Exec(ctx,
		`UPDATE discount_codes SET is_active = FALSE, updated_at = $1
		 WHERE is_active = TRUE AND is_deleted = FALSE AND end_date < $1`,
		now,
	)
	if err != nil {
		return 0, fmt.Errorf("deactivate expired discount codes: %w", err)
	}
	return tag.RowsAffected(), nil
}
