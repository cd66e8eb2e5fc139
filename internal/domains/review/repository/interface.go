package repository

import (
	"context"

	"github.com/google/uuid"

	"pttech-backend/internal/domains/review/model"
)

type RepositoryInterface interface {
	Create(ctx context.Context, rev *model.Review) error
	Update(ctx context.Context, rev *model.Review) error
	GetByID(ctx context.Context, id uuid.UUID) (*model.Review, error)
	ListByProduct(ctx context.Context, productID uuid.UUID, includeHidden bool) ([]model.Review, error)
	ListByUser(ctx context.Context, userID uuid.UUID) ([]model.Review, error)
	SetActive(ctx context.Context, id uuid.UUID, active bool) error
	SoftDelete(ctx context.Context, id uuid.UUID) error

	// AggregateForProduct computes the average and count over visible
	// reviews only.
	AggregateForProduct(ctx context.Context, productID uuid.UUID) (*model.Aggregate, error)
}
