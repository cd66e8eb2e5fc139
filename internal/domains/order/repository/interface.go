package repository

import (
	"context"
	"time"

	"github.com/google/uuid"

	"pttech-backend/internal/domains/order/model"
)

type RepositoryInterface interface {
	Create(ctx context.Context, o *model.Order) error
	GetByID(ctx context.Context, id uuid.UUID) (*model.Order, error)
	GetByOrderNumber(ctx context.Context, number string) (*model.Order, error)
	List(ctx context.Context, filter *model.Filter) ([]model.Order, int, error)

	// UpdateStatus is conditional on the current status, so concurrent
	// transitions cannot skip states. Returns false when the row did not
	// match (already moved on).
	UpdateStatus(ctx context.Context, id uuid.UUID, from, to model.Status, at time.Time) (bool, error)

	SaveCancellation(ctx context.Context, id uuid.UUID, from model.Status, reason string, at time.Time) (bool, error)
	SaveReturnRequest(ctx context.Context, id uuid.UUID, reason string, mediaURLs []string, at time.Time) (bool, error)
	ResolveReturn(ctx context.Context, id uuid.UUID, to model.Status, at time.Time) (bool, error)

	// MarkPaid flips payment_status to paid unless it already is; the
	// idempotence guard for payment callbacks.
	MarkPaid(ctx context.Context, id uuid.UUID, at time.Time) (bool, error)
	SetPaymentStatus(ctx context.Context, id uuid.UUID, status string) error

	// StalePendingIDs returns pending orders created before the cutoff,
	// feeding the auto-confirm sweep.
	StalePendingIDs(ctx context.Context, cutoff time.Time) ([]uuid.UUID, error)

	MonthlySpending(ctx context.Context, userID uuid.UUID, months int) ([]model.MonthlySpending, error)
}
