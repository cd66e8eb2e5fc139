package model

import (
	"time"

	validation "github.com/go-ozzo/ozzo-validation/v4"
)

// CreateDiscountCodeRequest is the admin payload for creating a code.
// ScheduledDate in the future creates the code inactive; the publish sweep
// activates it later.
type CreateDiscountCodeRequest struct {
	Code        string  `json:"code"`
	Description string  `json:"description"`
	Type        string  `json:"discount_type"`
	Value       float64 `json:"discount_value"`

	MinimumPurchase *float64 `json:"minimum_purchase_amount"`
	MaxAmount       *float64 `json:"max_discount_amount"`

	Scope       string   `json:"applies_to"`
	ProductIDs  []string `json:"applicable_products"`
	CategoryIDs []string `json:"applicable_categories"`

	StartDate time.Time `json:"start_date"`
	EndDate   time.Time `json:"end_date"`

	UsageLimit    *int       `json:"usage_limit"`
	ScheduledDate *time.Time `json:"scheduled_date"`
}

func (r CreateDiscountCodeRequest) Validate() error {
	return validation.ValidateStruct(&r,
		validation.Field(&r.Code, validation.Required, validation.Length(3, 50)),
		validation.Field(&r.Type, validation.Required, validation.In("percentage", "fixed")),
		validation.Field(&r.Value, validation.Required, validation.Min(0.01)),
		validation.Field(&r.Scope, validation.Required, validation.In("all", "products", "categories")),
		validation.Field(&r.StartDate, validation.Required),
		validation.Field(&r.EndDate, validation.Required, validation.By(func(interface{}) error {
			if !r.EndDate.After(r.StartDate) {
				return validation.NewError("validation_end_date", "end_date must be after start_date")
			}
			return nil
		})),
	)
}

// UpdateDiscountCodeRequest carries optional fields; nil means unchanged.
type UpdateDiscountCodeRequest struct {
	Description *string    `json:"description"`
	Value       *float64   `json:"discount_value"`
	MaxAmount   *float64   `json:"max_discount_amount"`
	StartDate   *time.Time `json:"start_date"`
	EndDate     *time.Time `json:"end_date"`
	UsageLimit  *int       `json:"usage_limit"`
}

// ValidateDiscountRequest asks whether a code would apply to a cart/order.
type ValidateDiscountRequest struct {
	Code     string  `json:"code"`
	Subtotal float64 `json:"subtotal"`
}

// ValidationResult reports applicability without redeeming.
type ValidationResult struct {
	Valid          bool   `json:"valid"`
	Reason         string `json:"reason,omitempty"`
	DiscountAmount string `json:"discount_amount,omitempty"`
}
