package repository

import (
	"context"
	"errors"
	"fmt"

	"github.com/google/uuid"
	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgconn"
	"github.com/jackc/pgx/v5/pgxpool"

	"pttech-backend/internal/domains/catalog/model"
)

const categoryColumns = `id, name, slug, description, parent_id, image_url,
	is_active, is_deleted, scheduled_date, created_at, updated_at`

type categoryPostgresRepository struct {
	pool *pgxpool.Pool
}

func NewCategoryPostgresRepository(pool *pgxpool.Pool) CategoryRepositoryInterface {
	return &categoryPostgresRepository{pool: pool}
}

func (r *categoryPostgresRepository) Create(ctx context.Context, cat *model.Category) error {
	_, err := r.pool.Exec(ctx, `
		INSERT INTO categories (`+categoryColumns+`)
		VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9, $10, $11)`,
		cat.ID, cat.Name, cat.Slug, cat.Description, cat.ParentID, cat.ImageURL,
		cat.IsActive, cat.IsDeleted, cat.ScheduledDate, cat.CreatedAt, cat.UpdatedAt,
	)
	if err != nil {
		var pgErr *pgconn.PgError
		if errors.As(err, &pgErr) {
			switch pgErr.Code {
			case "23505":
				return model.ErrDuplicateName
			case "23503":
				return model.ErrParentNotFound
			}
		}
		return fmt.Errorf("create category: %w", err)
	}
	return nil
}

func (r *categoryPostgresRepository) Update(ctx context.Context, cat *model.Category) error {
	tag, err := r.pool.Exec(ctx, `
		UPDATE categories
		SET name = $2, slug = $3, description = $4, image_url = $5, updated_at = $6
		WHERE id = $1 AND is_deleted = FALSE`,
		cat.ID, cat.Name, cat.Slug, cat.Description, cat.ImageURL, cat.UpdatedAt,
	)
	if err != nil {
		var pgErr *pgconn.PgError
		if errors.As(err, &pgErr) && pgErr.Code == "23505" {
			return model.ErrDuplicateName
		}
		return fmt.Errorf("update category: %w", err)
	}
	if tag.RowsAffected() == 0 {
		return model.ErrCategoryNotFound
	}
	return nil
}

func (r *categoryPostgresRepository) GetByID(ctx context.Context, id uuid.UUID) (*model.Category, error) {
	row := r.pool.QueryRow(ctx, `
		SELECT `+categoryColumns+`
		FROM categories
		WHERE id = $1 AND is_deleted = FALSE`,
		id,
	)

	var cat model.Category
	err := row.Scan(
		&cat.ID, &cat.Name, &cat.Slug, &cat.Description, &cat.ParentID, &cat.ImageURL,
		&cat.IsActive, &cat.IsDeleted, &cat.ScheduledDate, &cat.CreatedAt, &cat.UpdatedAt,
	)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, model.ErrCategoryNotFound
		}
		return nil, fmt.Errorf("get category: %w", err)
	}
	return &cat, nil
}

func (r *categoryPostgresRepository) List(ctx context.Context, includeHidden bool) ([]model.Category, error) {
	where := "WHERE is_deleted = FALSE"
	if !includeHidden {
		where += " AND is_active = TRUE"
	}

	rows, err := r.pool.Query(ctx, `
		SELECT `+categoryColumns+`
		FROM categories `+where+`
		ORDER BY name`,
	)
	if err != nil {
		return nil, fmt.Errorf("list categories: %w", err)
	}
	defer rows.Close()

	var categories []model.Category
	for rows.Next() {
		var cat model.Category
		err := rows.Scan(
			&cat.ID, &cat.Name, &cat.Slug, &cat.Description, &cat.ParentID, &cat.ImageURL,
			&cat.IsActive, &cat.IsDeleted, &cat.ScheduledDate, &cat.CreatedAt, &cat.UpdatedAt,
		)
		if err != nil {
			return nil, fmt.Errorf("scan category: %w", err)
		}
		categories = append(categories, cat)
	}
	return categories, rows.Err()
}

func (r *categoryPostgresRepository) SetActive(ctx context.Context, id uuid.UUID, active bool) error {
	tag, err := r.pool.Exec(ctx, `
		UPDATE categories
		SET is_active = $2, updated_at = NOW()
		WHERE id = $1 AND is_deleted = FALSE`,
		id, active,
	)
	if err != nil {
		return fmt.Errorf("set category active: %w", err)
	}
	if tag.RowsAffected() == 0 {
		return model.ErrCategoryNotFound
	}
	return nil
}

func (r *categoryPostgresRepository) SoftDelete(ctx context.Context, id uuid.UUID) error {
	tag, err := r.pool.Exec(ctx, `
		UPDATE categories
		SET is_deleted = TRUE, updated_at = NOW()
		WHERE id = $1 AND is_deleted = FALSE`,
		id,
	)
	if err != nil {
		return fmt.Errorf("soft delete category: %w", err)
	}
	if tag.RowsAffected() == 0 {
		return model.ErrCategoryNotFound
	}
	return nil
}
