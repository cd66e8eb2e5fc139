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

const brandColumns = `id, name, slug, description, logo_url, website,
	is_active, is_deleted, scheduled_date, created_at, updated_at`

type brandPostgresRepository struct {
	pool *pgxpool.Pool
}

func NewBrandPostgresRepository(pool *pgxpool.Pool) BrandRepositoryInterface {
	return &brandPostgresRepository{pool: pool}
}

func (r *brandPostgresRepository) Create(ctx context.Context, b *model.Brand) error {
	_, err := r.pool.Exec(ctx, `
		INSERT INTO brands (`+brandColumns+`)
		VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9, $10, $11)`,
		b.ID, b.Name, b.Slug, b.Description, b.LogoURL, b.Website,
		b.IsActive, b.IsDeleted, b.ScheduledDate, b.CreatedAt, b.UpdatedAt,
	)
	if err != nil {
		var pgErr *pgconn.PgError
		if errors.As(err, &pgErr) && pgErr.Code == "23505" {
			return model.ErrDuplicateName
		}
		return fmt.Errorf("create brand: %w", err)
	}
	return nil
}

func (r *brandPostgresRepository) Update(ctx context.Context, b *model.Brand) error {
	tag, err := r.pool.Exec(ctx, `
		UPDATE brands
		SET name = $2, slug = $3, description = $4, logo_url = $5, website = $6, updated_at = $7
		WHERE id = $1 AND is_deleted = FALSE`,
		b.ID, b.Name, b.Slug, b.Description, b.LogoURL, b.Website, b.UpdatedAt,
	)
	if err != nil {
		var pgErr *pgconn.PgError
		if errors.As(err, &pgErr) && pgErr.Code == "23505" {
			return model.ErrDuplicateName
		}
		return fmt.Errorf("update brand: %w", err)
	}
	if tag.RowsAffected() == 0 {
		return model.ErrBrandNotFound
	}
	return nil
}

func (r *brandPostgresRepository) GetByID(ctx context.Context, id uuid.UUID) (*model.Brand, error) {
	row := r.pool.QueryRow(ctx, `
		SELECT `+brandColumns+`
		FROM brands
		WHERE id = $1 AND is_deleted = FALSE`,
		id,
	)

	var b model.Brand
	err := row.Scan(
		&b.ID, &b.Name, &b.Slug, &b.Description, &b.LogoURL, &b.Website,
		&b.IsActive, &b.IsDeleted, &b.ScheduledDate, &b.CreatedAt, &b.UpdatedAt,
	)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, model.ErrBrandNotFound
		}
		return nil, fmt.Errorf("get brand: %w", err)
	}
	return &b, nil
}

func (r *brandPostgresRepository) List(ctx context.Context, includeHidden bool) ([]model.Brand, error) {
	where := "WHERE is_deleted = FALSE"
	if !includeHidden {
		where += " AND is_active = TRUE"
	}

	rows, err := r.pool.Query(ctx, `
		SELECT `+brandColumns+`
		FROM brands `+where+`
		ORDER BY name`,
	)
	if err != nil {
		return nil, fmt.Errorf("list brands: %w", err)
	}
	defer rows.Close()

	var brands []model.Brand
	for rows.Next() {
		var b model.Brand
		err := rows.Scan(
			&b.ID, &b.Name, &b.Slug, &b.Description, &b.LogoURL, &b.Website,
			&b.IsActive, &b.IsDeleted, &b.ScheduledDate, &b.CreatedAt, &b.UpdatedAt,
		)
		if err != nil {
			return nil, fmt.Errorf("scan brand: %w", err)
		}
		brands = append(brands, b)
	}
	return brands, rows.Err()
}

func (r *brandPostgresRepository) SetActive(ctx context.Context, id uuid.UUID, active bool) error {
	tag, err := r.pool.Exec(ctx, `
		UPDATE brands
		SET is_active = $2, updated_at = NOW()
		WHERE id = $1 AND is_deleted = FALSE`,
		id, active,
	)
	if err != nil {
		return fmt.Errorf("set brand active: %w", err)
	}
	if tag.RowsAffected() == 0 {
		return model.ErrBrandNotFound
	}
	return nil
}

func (r *brandPostgresRepository) SoftDelete(ctx context.Context, id uuid.UUID) error {
	tag, err := r.pool.Exec(ctx, `
		UPDATE brands
		SET is_deleted = TRUE, updated_at = NOW()
		WHERE id = $1 AND is_deleted = FALSE`,
		id,
	)
	if err != nil {
		return fmt.Errorf("soft delete brand: %w", err)
	}
	if tag.RowsAffected() == 0 {
		return model.ErrBrandNotFound
	}
	return nil
}
