package model

import (
	"time"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"

	"pttech-backend/internal/shared/lifecycle"
)

// DiscountType is how the discount amount is computed.
type DiscountType string

const (
	TypePercentage DiscountType = "percentage"
	TypeFixed      DiscountType = "fixed"
)

func (t DiscountType) IsValid() bool {
	return t == TypePercentage || t == TypeFixed
}

// Scope limits which order items a code applies to.
type Scope string

const (
	ScopeAll        Scope = "all"
	ScopeProducts   Scope = "products"
	ScopeCategories Scope = "categories"
)

func (s Scope) IsValid() bool {
	switch s {
	case ScopeAll, ScopeProducts, ScopeCategories:
		return true
	}
	return false
}

// DiscountCode is a redeemable promotion code. A code is single-use per
// user: UsedBy records every redeemer and blocks reuse.
type DiscountCode struct {
	ID          uuid.UUID    `json:"id"`
	Code        string       `json:"code"`
	Description string       `json:"description"`
	Type        DiscountType `json:"discount_type"`
	Value       decimal.Decimal `json:"discount_value"`

	MinimumPurchase *decimal.Decimal `json:"minimum_purchase_amount,omitempty"`
	MaxAmount       *decimal.Decimal `json:"max_discount_amount,omitempty"`

	Scope       Scope       `json:"applies_to"`
	ProductIDs  []uuid.UUID `json:"applicable_products,omitempty"`
	CategoryIDs []uuid.UUID `json:"applicable_categories,omitempty"`

	StartDate time.Time `json:"start_date"`
	EndDate   time.Time `json:"end_date"`

	UsageLimit *int        `json:"usage_limit,omitempty"`
	UsageCount int         `json:"usage_count"`
	UsedBy     []uuid.UUID `json:"used_by_users,omitempty"`

	lifecycle.Lifecycle

	CreatedAt time.Time `json:"created_at"`
	UpdatedAt time.Time `json:"updated_at"`
}

// ExhaustedLimit reports whether the global usage cap has been reached.
func (d *DiscountCode) ExhaustedLimit() bool {
	return d.UsageLimit != nil && d.UsageCount >= *d.UsageLimit
}

// UsedByUser reports whether userID already redeemed this code.
func (d *DiscountCode) UsedByUser(userID uuid.UUID) bool {
	for _, id := range d.UsedBy {
		if id == userID {
			return true
		}
	}
	return false
}

// OrderItemRef is the slice of an order item the scope check needs.
type OrderItemRef struct {
	ProductID  uuid.UUID
	CategoryID uuid.UUID
}

// MatchesScope reports whether at least one order item falls inside the
// code's scope.
func (d *DiscountCode) MatchesScope(items []OrderItemRef) bool {
	switch d.Scope {
	case ScopeProducts:
		for _, item := range items {
			for _, id := range d.ProductIDs {
				if item.ProductID == id {
					return true
				}
			}
		}
		return false
	case ScopeCategories:
		for _, item := range items {
			for _, id := range d.CategoryIDs {
				if item.CategoryID == id {
					return true
				}
			}
		}
		return false
	default:
		return true
	}
}
