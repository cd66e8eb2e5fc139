package model

import (
	"time"

	"github.com/google/uuid"
	"github.com/lib/pq"
	"github.com/shopspring/decimal"

	"pttech-backend/internal/shared/lifecycle"
)

// Condition of a variant's unit.
const (
	ConditionNew         = "new"
	ConditionLikeNew     = "like_new"
	ConditionRefurbished = "refurbished"
)

// Product is a catalog entry. Variants live in a child table; Pricing
// changes append to price_history.
type Product struct {
	ID       uuid.UUID `json:"id"`
	SKU      string    `json:"sku"`
	Name     string    `json:"name"`
	Slug     string    `json:"slug"`
	BrandID  uuid.UUID `json:"brand_id"`
	Category uuid.UUID `json:"category_id"`

	Description    string            `json:"description"`
	Specifications map[string]string `json:"specifications"`

	OriginalPrice decimal.Decimal `json:"original_price"`
	CurrentPrice  decimal.Decimal `json:"current_price"`

	Variants []Variant      `json:"variants"`
	Tags     pq.StringArray `json:"tags"`
	Images   pq.StringArray `json:"images"`
	Videos   pq.StringArray `json:"videos"`

	RatingAverage decimal.Decimal `json:"rating_average"`
	RatingCount   int             `json:"rating_count"`
	TotalSold     int             `json:"total_sold"`

	lifecycle.Lifecycle
	CreatedAt time.Time `json:"created_at"`
	UpdatedAt time.Time `json:"updated_at"`
}

// TotalStock sums stock over all variants.
func (p *Product) TotalStock() int {
	total := 0
	for _, v := range p.Variants {
		total += v.Stock
	}
	return total
}

// Variant is one sellable configuration of a product.
type Variant struct {
	ID        uuid.UUID `json:"id"`
	ProductID uuid.UUID `json:"product_id"`

	Color     string `json:"color"`
	HexCode   string `json:"hex_code"`
	Size      string `json:"size"`
	RAM       string `json:"ram"`
	Storage   string `json:"storage"`
	Condition string `json:"condition"`

	Stock int `json:"stock"`

	CreatedAt time.Time `json:"created_at"`
	UpdatedAt time.Time `json:"updated_at"`
}

// PriceChange is one row of a product's price history.
type PriceChange struct {
	ID        uuid.UUID       `json:"id"`
	ProductID uuid.UUID       `json:"product_id"`
	OldPrice  decimal.Decimal `json:"old_price"`
	NewPrice  decimal.Decimal `json:"new_price"`
	ChangedAt time.Time       `json:"changed_at"`
}

// Filter narrows product listings.
type Filter struct {
	BrandID    *uuid.UUID
	CategoryID *uuid.UUID
	Keyword    string
	MinPrice   *decimal.Decimal
	MaxPrice   *decimal.Decimal

	IncludeHidden bool
	Page          int
	Limit         int
}

func (f *Filter) Normalize() {
	if f.Page < 1 {
		f.Page = 1
	}
	if f.Limit < 1 || f.Limit > 100 {
		f.Limit = 20
	}
}

func (f *Filter) Offset() int {
	return (f.Page - 1) * f.Limit
}
