package model

import (
	"fmt"
	"time"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"
)

// Order status machine. Forward path pending → confirmed → shipped →
// delivered; cancellation branches off before shipment; the return
// sub-flow branches off delivered.
type Status string

const (
	StatusPending   Status = "pending"
	StatusConfirmed Status = "confirmed"
	StatusShipped   Status = "shipped"
	StatusDelivered Status = "delivered"
	StatusCancelled Status = "cancelled"

	StatusReturnRequested Status = "return_requested"
	StatusReturnApproved  Status = "return_approved"
	StatusReturnRejected  Status = "return_rejected"
	StatusReturned        Status = "returned"
)

// transitions lists every legal move. Anything absent is rejected.
var transitions = map[Status][]Status{
	StatusPending:         {StatusConfirmed, StatusCancelled},
	StatusConfirmed:       {StatusShipped, StatusCancelled},
	StatusShipped:         {StatusDelivered},
	StatusDelivered:       {StatusReturnRequested},
	StatusReturnRequested: {StatusReturnApproved, StatusReturnRejected},
	StatusReturnApproved:  {StatusReturned},
}

// CanTransition reports whether moving from s to next is legal.
func (s Status) CanTransition(next Status) bool {
	for _, allowed := range transitions[s] {
		if allowed == next {
			return true
		}
	}
	return false
}

// Terminal reports whether no further transition is possible.
func (s Status) Terminal() bool {
	return len(transitions[s]) == 0
}

// Payment methods and states.
const (
	PaymentMethodCOD   = "cod"
	PaymentMethodVNPay = "vnpay"

	PaymentStatusPending        = "pending"
	PaymentStatusPaid           = "paid"
	PaymentStatusFailed         = "failed"
	PaymentStatusCancelled      = "cancelled"
	PaymentStatusSuspectedFraud = "suspected_fraud"
	PaymentStatusRefunded       = "refunded"
)

type Order struct {
	ID          uuid.UUID `json:"id"`
	OrderNumber string    `json:"order_number"`
	UserID      uuid.UUID `json:"user_id"`

	Items []OrderItem `json:"items"`

	TotalPrice     decimal.Decimal `json:"total_price"`
	DiscountCode   string          `json:"discount_code,omitempty"`
	DiscountAmount decimal.Decimal `json:"discount_amount"`
	ShippingPrice  decimal.Decimal `json:"shipping_price"`
	FinalPrice     decimal.Decimal `json:"final_price"`

	Status        Status `json:"status"`
	PaymentMethod string `json:"payment_method"`
	PaymentStatus string `json:"payment_status"`

	ShippingName    string `json:"shipping_name"`
	ShippingPhone   string `json:"shipping_phone"`
	ShippingAddress string `json:"shipping_address"`
	Note            string `json:"note,omitempty"`

	CancelReason string `json:"cancel_reason,omitempty"`

	ReturnReason      string     `json:"return_reason,omitempty"`
	ReturnMediaURLs   []string   `json:"return_media_urls,omitempty"`
	ReturnRequestedAt *time.Time `json:"return_requested_at,omitempty"`
	ReturnResolvedAt  *time.Time `json:"return_resolved_at,omitempty"`

	PaidAt      *time.Time `json:"paid_at,omitempty"`
	ConfirmedAt *time.Time `json:"confirmed_at,omitempty"`
	DeliveredAt *time.Time `json:"delivered_at,omitempty"`

	IsDeleted bool      `json:"is_deleted"`
	CreatedAt time.Time `json:"created_at"`
	UpdatedAt time.Time `json:"updated_at"`
}

// ComputeFinalPrice derives the charged amount from the three components.
func (o *Order) ComputeFinalPrice() decimal.Decimal {
	return o.TotalPrice.Sub(o.DiscountAmount).Add(o.ShippingPrice)
}

// OrderItem is a frozen copy of the purchased variant.
type OrderItem struct {
	ID        uuid.UUID `json:"id"`
	OrderID   uuid.UUID `json:"order_id"`
	ProductID uuid.UUID `json:"product_id"`
	VariantID uuid.UUID `json:"variant_id"`

	ProductName string          `json:"product_name"`
	ImageURL    string          `json:"image_url"`
	Color       string          `json:"color"`
	Size        string          `json:"size"`
	RAM         string          `json:"ram"`
	Storage     string          `json:"storage"`
	Condition   string          `json:"condition"`
	Price       decimal.Decimal `json:"price"`
	Quantity    int             `json:"quantity"`

	CreatedAt time.Time `json:"created_at"`
}

func (i OrderItem) Total() decimal.Decimal {
	return i.Price.Mul(decimal.NewFromInt(int64(i.Quantity)))
}

// NewOrderNumber builds a human-readable unique order reference.
func NewOrderNumber(now time.Time) string {
	short := uuid.NewString()[:8]
	return fmt.Sprintf("ORD-%s-%s", now.Format("20060102"), short)
}

// Filter narrows order listings for admin views and Excel export.
type Filter struct {
	UserID        *uuid.UUID
	Status        *Status
	PaymentStatus *string
	From          *time.Time
	To            *time.Time

	Page  int
	Limit int
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

// MonthlySpending is one bucket of a user's spending analytics.
type MonthlySpending struct {
	Year  int             `json:"year"`
	Month int             `json:"month"`
	Total decimal.Decimal `json:"total"`
	Count int             `json:"count"`
}
