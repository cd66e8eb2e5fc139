package model

import (
	"time"

	"github.com/google/uuid"
	"github.com/lib/pq"
	"github.com/shopspring/decimal"
)

// Review is a purchase-verified product review. A user reviews a product at
// most once per order.
type Review struct {
	ID        uuid.UUID      `json:"id"`
	ProductID uuid.UUID      `json:"product_id"`
	UserID    uuid.UUID      `json:"user_id"`
	OrderID   uuid.UUID      `json:"order_id"`
	Rating    int            `json:"rating"`
	Comment   string         `json:"comment,omitempty"`
	ImageURLs pq.StringArray `json:"image_urls,omitempty"`
	IsActive  bool           `json:"is_active"`
	IsDeleted bool           `json:"-"`
	CreatedAt time.Time      `json:"created_at"`
	UpdatedAt time.Time      `json:"updated_at"`
}

// Aggregate is the rating summary pushed back onto the product.
type Aggregate struct {
	Average decimal.Decimal
	Count   int
}
