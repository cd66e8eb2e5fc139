package model

import (
	"time"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"
)

// Cart belongs to either a logged-in user or a guest session. Totals are
// derived columns, recomputed from the item rows inside every mutating
// transaction.
type Cart struct {
	ID        uuid.UUID  `json:"id"`
	UserID    *uuid.UUID `json:"user_id,omitempty"`
	SessionID string     `json:"session_id,omitempty"`

	Items      []CartItem      `json:"items"`
	TotalItems int             `json:"total_items"`
	TotalPrice decimal.Decimal `json:"total_price"`

	IsDeleted bool      `json:"is_deleted"`
	CreatedAt time.Time `json:"created_at"`
	UpdatedAt time.Time `json:"updated_at"`
}

// CartItem snapshots the product at add time so later catalog edits do not
// silently change a cart.
type CartItem struct {
	ID        uuid.UUID `json:"id"`
	CartID    uuid.UUID `json:"cart_id"`
	ProductID uuid.UUID `json:"product_id"`
	VariantID uuid.UUID `json:"variant_id"`

	ProductName   string          `json:"product_name"`
	ImageURL      string          `json:"image_url"`
	Color         string          `json:"color"`
	Size          string          `json:"size"`
	RAM           string          `json:"ram"`
	Storage       string          `json:"storage"`
	Condition     string          `json:"condition"`
	OriginalPrice decimal.Decimal `json:"original_price"`
	Price         decimal.Decimal `json:"price"`
	StockAtAdd    int             `json:"stock_at_add"`

	Quantity  int       `json:"quantity"`
	CreatedAt time.Time `json:"created_at"`
	UpdatedAt time.Time `json:"updated_at"`
}

// Total is the line total for this item.
func (i CartItem) Total() decimal.Decimal {
	return i.Price.Mul(decimal.NewFromInt(int64(i.Quantity)))
}
