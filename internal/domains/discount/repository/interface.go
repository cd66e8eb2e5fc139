package repository

import (
	"context"
	"time"

	"github.com/google/uuid"

	"pttech-backend/internal/domains/discount/model"
)

// RepositoryInterface is the data access contract for discount codes.
type RepositoryInterface interface {
	Create(ctx context.Context, code *model.DiscountCode) error
	Update(ctx context.Context, code *model.DiscountCode) error
	GetByID(ctx context.Context, id uuid.UUID) (*model.DiscountCode, error)
	GetByCode(ctx context.Context, code string) (*model.DiscountCode, error)
	List(ctx context.Context, includeHidden bool) ([]model.DiscountCode, error)
	ListUsable(ctx context.Context, now time.Time) ([]model.DiscountCode, error)
	Search(ctx context.Context, keyword string) ([]model.DiscountCode, error)

	SetActive(ctx context.Context, id uuid.UUID, active bool) error
	SoftDelete(ctx context.Context, id uuid.UUID) error

	// Redeem atomically increments usage_count and appends the user, but
	// only while the code is usable and unused by that user. It reports
	// whether the row was updated; false means the code was not redeemable
	// at the moment of the update.
	Redeem(ctx context.Context, id, userID uuid.UUID) (bool, error)

	// DeactivateExpired flips active codes whose end date has passed.
	DeactivateExpired(ctx context.Context, now time.Time) (int64, error)
}
