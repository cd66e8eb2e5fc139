package repository

import (
	"context"
	"errors"
	"fmt"

	"github.com/google/uuid"
	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgconn"
	"github.com/jackc/pgx/v5/pgxpool"

	"pttech-backend/internal/domains/review/model"
)

const reviewColumns = `id, product_id, user_id, order_id, rating, comment, image_urls,
	is_active, is_deleted, created_at, updated_at`

type postgresRepository struct {
	pool *pgxpool.Pool
}

func NewPostgresRepository(pool *pgxpool.Pool) RepositoryInterface {
	return &postgresRepository{pool: pool}
}

func (r *postgresRepository) Create(ctx context.Context, rev *model.Review) error {
	_, err := r.pool.Exec(ctx, `
		INSERT INTO reviews (`+reviewColumns+`)
		VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9, $10, $11)`,
		rev.ID, rev.ProductID, rev.UserID, rev.OrderID, rev.Rating, rev.Comment, rev.ImageURLs,
		rev.IsActive, rev.IsDeleted, rev.CreatedAt, rev.UpdatedAt,
	)
	if err != nil {
		var pgErr *pgconn.PgError
		if errors.As(err, &pgErr) && pgErr.Code == "23505" {
			return model.ErrAlreadyReviewed
		}
		return fmt.Errorf("create review: %w", err)
	}
	return nil
}

func (r *postgresRepository) Update(ctx context.Context, rev *model.Review) error {
	tag, err := r.pool.Exec(ctx, `
		UPDATE reviews
		SET rating = $2, comment = $3, updated_at = $4
		WHERE id = $1 AND is_deleted = FALSE`,
		rev.ID, rev.Rating, rev.Comment, rev.UpdatedAt,
	)
	if err != nil {
		return fmt.Errorf("update review: %w", err)
	}
	if tag.RowsAffected() == 0 {
		return model.ErrNotFound
	}
	return nil
}

func (r *postgresRepository) GetByID(ctx context.Context, id uuid.UUID) (*model.Review, error) {
	row := r.pool.QueryRow(ctx, `
		SELECT `+reviewColumns+`
		FROM reviews
		WHERE id = $1 AND is_deleted = FALSE`,
		id,
	)

	rev, err := scanReview(row)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, model.ErrNotFound
		}
		return nil, fmt.Errorf("get review: %w", err)
	}
	return rev, nil
}

func (r *postgresRepository) ListByProduct(ctx context.Context, productID uuid.UUID, includeHidden bool) ([]model.Review, error) {
	where := "WHERE product_id = $1 AND is_deleted = FALSE"
	if !includeHidden {
		where += " AND is_active = TRUE"
	}
	return r.list(ctx, where, productID)
}

func (r *postgresRepository) ListByUser(ctx context.Context, userID uuid.UUID) ([]model.Review, error) {
	return r.list(ctx, "WHERE user_id = $1 AND is_deleted = FALSE", userID)
}

func (r *postgresRepository) list(ctx context.Context, where string, arg interface{}) ([]model.Review, error) {
	rows, err := r.pool.Query(ctx, `
		SELECT `+reviewColumns+`
		FROM reviews `+where+`
		ORDER BY created_at DESC`,
		arg,
	)
	if err != nil {
		return nil, fmt.Errorf("list reviews: %w", err)
	}
	defer rows.Close()

	var reviews []model.Review
	for rows.Next() {
		rev, err := scanReview(rows)
		if err != nil {
			return nil, fmt.Errorf("scan review: %w", err)
		}
		reviews = append(reviews, *rev)
	}
	return reviews, rows.Err()
}

func (r *postgresRepository) SetActive(ctx context.Context, id uuid.UUID, active bool) error {
	tag, err := r.pool.Exec(ctx, `
		UPDATE reviews
		SET is_active = $2, updated_at = NOW()
		WHERE id = $1 AND is_deleted = FALSE`,
		id, active,
	)
	if err != nil {
		return fmt.Errorf("set review active: %w", err)
	}
	if tag.RowsAffected() == 0 {
		return model.ErrNotFound
	}
	return nil
}

func (r *postgresRepository) SoftDelete(ctx context.Context, id uuid.UUID) error {
	tag, err := r.pool.Exec(ctx, `
		UPDATE reviews
		SET is_deleted = TRUE, updated_at = NOW()
		WHERE id = $1 AND is_deleted = FALSE`,
		id,
	)
	if err != nil {
		return fmt.Errorf("soft delete review: %w", err)
	}
	if tag.RowsAffected() == 0 {
		return model.ErrNotFound
	}
	return nil
}

func (r *postgresRepository) AggregateForProduct(ctx context.Context, productID uuid.UUID) (*model.Aggregate, error) {
	row := r.pool.QueryRow(ctx, `
		SELECT COALESCE(AVG(rating), 0), COUNT(*)
		FROM reviews
		WHERE product_id = $1 AND is_active = TRUE AND is_deleted = FALSE`,
		productID,
	)

	var agg model.Aggregate
	if err := row.Scan(&agg.Average, &agg.Count); err != nil {
		return nil, fmt.Errorf("aggregate reviews: %w", err)
	}
	return &agg, nil
}

func scanReview(row pgx.Row) (*model.Review, error) {
	var rev model.Review
	err := row.Scan(
		&rev.ID, &rev.ProductID, &rev.UserID, &rev.OrderID, &rev.Rating, &rev.Comment, &rev.ImageURLs,
		&rev.IsActive, &rev.IsDeleted, &rev.CreatedAt, &rev.UpdatedAt,
	)
	if err != nil {
		return nil, err
	}
	return &rev, nil
}
