package repository

import (
	"context"

	"github.com/google/uuid"

	"pttech-backend/internal/domains/catalog/model"
)

type BrandRepositoryInterface interface {
	Create(ctx context.Context, b *model.Brand) error
	Update(ctx context.Context, b *model.Brand) error
	GetByID(ctx context.Context, id uuid.UUID) (*model.Brand, error)
	List(ctx context.Context, includeHidden bool) ([]model.Brand, error)
	SetActive(ctx context.Context, id uuid.UUID, active bool) error
	SoftDelete(ctx context.Context, id uuid.UUID) error
}

type CategoryRepositoryInterface interface {
	Create(ctx context.Context, cat *model.Category) error
	Update(ctx context.Context, cat *model.Category) error
	GetByID(ctx context.Context, id uuid.UUID) (*model.Category, error)
	List(ctx context.Context, includeHidden bool) ([]model.Category, error)
	SetActive(ctx context.Context, id uuid.UUID, active bool) error
	SoftDelete(ctx context.Context, id uuid.UUID) error
}
