package model

import (
	"time"

	validation "github.com/go-ozzo/ozzo-validation/v4"
	"github.com/go-ozzo/ozzo-validation/v4/is"
)

type CreateVariantRequest struct {
	Color     string `json:"color"`
	HexCode   string `json:"hex_code"`
	Size      string `json:"size"`
	RAM       string `json:"ram"`
	Storage   string `json:"storage"`
	Condition string `json:"condition"`
	Stock     int    `json:"stock"`
}

func (r CreateVariantRequest) Validate() error {
	return validation.ValidateStruct(&r,
		validation.Field(&r.Condition, validation.Required,
			validation.In(ConditionNew, ConditionLikeNew, ConditionRefurbished)),
		validation.Field(&r.Stock, validation.Min(0)),
		validation.Field(&r.HexCode, is.HexColor.Error("must be a hex color")),
	)
}

type CreateProductRequest struct {
	SKU      string `json:"sku"`
	Name     string `json:"name"`
	BrandID  string `json:"brand_id"`
	Category string `json:"category_id"`

	Description    string            `json:"description"`
	Specifications map[string]string `json:"specifications"`

	OriginalPrice float64 `json:"original_price"`
	CurrentPrice  float64 `json:"current_price"`

	Variants []CreateVariantRequest `json:"variants"`
	Tags     []string               `json:"tags"`

	ScheduledDate *time.Time `json:"scheduled_date"`
}

func (r CreateProductRequest) Validate() error {
	return validation.ValidateStruct(&r,
		validation.Field(&r.SKU, validation.Required, validation.Length(2, 100)),
		validation.Field(&r.Name, validation.Required, validation.Length(2, 255)),
		validation.Field(&r.BrandID, validation.Required, is.UUID),
		validation.Field(&r.Category, validation.Required, is.UUID),
		validation.Field(&r.OriginalPrice, validation.Required, validation.Min(0.01)),
		validation.Field(&r.CurrentPrice, validation.Required, validation.Min(0.01)),
		validation.Field(&r.Variants, validation.Required, validation.Length(1, 0)),
	)
}

type UpdateProductRequest struct {
	Name           *string            `json:"name"`
	Description    *string            `json:"description"`
	Specifications *map[string]string `json:"specifications"`
	Tags           *[]string          `json:"tags"`
}

// UpdatePriceRequest swaps the current price; the old value is appended to
// the price history.
type UpdatePriceRequest struct {
	NewPrice float64 `json:"new_price"`
}

func (r UpdatePriceRequest) Validate() error {
	return validation.ValidateStruct(&r,
		validation.Field(&r.NewPrice, validation.Required, validation.Min(0.01)),
	)
}

// AdjustStockRequest moves a variant's stock by a signed delta.
type AdjustStockRequest struct {
	VariantID string `json:"variant_id"`
	Delta     int    `json:"delta"`
}

func (r AdjustStockRequest) Validate() error {
	return validation.ValidateStruct(&r,
		validation.Field(&r.VariantID, validation.Required, is.UUID),
		validation.Field(&r.Delta, validation.Required),
	)
}
