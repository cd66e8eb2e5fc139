package repository

import (
	"context"
	"time"

	"github.com/google/uuid"

	"pttech-backend/internal/domains/inventory/model"
)

type RepositoryInterface interface {
	Create(ctx context.Context, receipt *model.Receipt) error
	GetByID(ctx context.Context, id uuid.UUID) (*model.Receipt, error)
	List(ctx context.Context, filter *model.Filter) ([]model.Receipt, int, error)

	// MarkApplied flips a draft receipt to applied. Returns false when the
	// receipt was not in draft, so a receipt can only ever be applied once.
	MarkApplied(ctx context.Context, id uuid.UUID, at time.Time) (bool, error)

	// Reopen puts an applied receipt back into draft. Used only to unwind a
	// partially applied receipt after its stock deltas were compensated.
	Reopen(ctx context.Context, id uuid.UUID) error

	// SaveItemLevels persists the stock snapshot captured while applying.
	SaveItemLevels(ctx context.Context, itemID uuid.UUID, before, after int) error

	SoftDelete(ctx context.Context, id uuid.UUID) error
}
