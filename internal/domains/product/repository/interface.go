package repository

import (
	"context"
	"time"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"

	"pttech-backend/internal/domains/product/model"
)

// RepositoryInterface is the product persistence contract. Variants are
// loaded with their product; stock mutations are conditional updates.
type RepositoryInterface interface {
	Create(ctx context.Context, p *model.Product) error
	Update(ctx context.Context, p *model.Product) error
	GetByID(ctx context.Context, id uuid.UUID) (*model.Product, error)
	GetBySlug(ctx context.Context, slug string) (*model.Product, error)
	GetVariant(ctx context.Context, variantID uuid.UUID) (*model.Variant, error)
	List(ctx context.Context, filter *model.Filter) ([]model.Product, int, error)
	SetActive(ctx context.Context, id uuid.UUID, active bool) error
	SoftDelete(ctx context.Context, id uuid.UUID) error

	// UpdatePrice swaps current_price and appends the change to the
	// price history in one transaction.
	UpdatePrice(ctx context.Context, id uuid.UUID, newPrice decimal.Decimal, changedAt time.Time) (*model.Product, error)
	PriceHistory(ctx context.Context, id uuid.UUID) ([]model.PriceChange, error)

	// AdjustStock applies a signed delta. Decrements are conditional on
	// stock >= -delta; a failed condition returns ErrOutOfStock.
	AdjustStock(ctx context.Context, variantID uuid.UUID, delta int) (*model.Variant, error)

	AppendMedia(ctx context.Context, id uuid.UUID, imageURLs, videoURLs []string) error

	// UpdateRating overwrites the denormalized review aggregate.
	UpdateRating(ctx context.Context, id uuid.UUID, average decimal.Decimal, count int) error

	// RecordSale bumps total_sold after a completed order.
	RecordSale(ctx context.Context, id uuid.UUID, quantity int) error
}
