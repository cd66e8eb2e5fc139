package repository

import (
	"context"

	"github.com/google/uuid"

	"pttech-backend/internal/domains/cart/model"
)

// RepositoryInterface persists carts. Every mutation runs in one
// transaction that ends by recomputing the totals from the item rows, so
// the stored totals always equal the sum over items.
type RepositoryInterface interface {
	GetOrCreateByUser(ctx context.Context, userID uuid.UUID) (*model.Cart, error)
	GetOrCreateBySession(ctx context.Context, sessionID string) (*model.Cart, error)
	GetByID(ctx context.Context, id uuid.UUID) (*model.Cart, error)

	AddItem(ctx context.Context, cartID uuid.UUID, item *model.CartItem) (*model.Cart, error)
	ChangeQuantity(ctx context.Context, cartID, itemID uuid.UUID, delta int) (*model.Cart, error)
	RemoveItem(ctx context.Context, cartID, itemID uuid.UUID) (*model.Cart, error)

	// SwapVariant replaces an item's variant snapshot, keeping quantity.
	SwapVariant(ctx context.Context, cartID, itemID uuid.UUID, replacement *model.CartItem) (*model.Cart, error)

	// Merge moves every item of src into dst (summing quantities for the
	// same variant) and soft-deletes src.
	Merge(ctx context.Context, srcID, dstID uuid.UUID) (*model.Cart, error)

	Clear(ctx context.Context, cartID uuid.UUID) error
	SoftDelete(ctx context.Context, cartID uuid.UUID) error
}
