package model

import (
	validation "github.com/go-ozzo/ozzo-validation/v4"
	"github.com/go-ozzo/ozzo-validation/v4/is"
)

type CreateOrderItemRequest struct {
	ProductID string `json:"product_id"`
	VariantID string `json:"variant_id"`
	Quantity  int    `json:"quantity"`
}

func (r CreateOrderItemRequest) Validate() error {
	return validation.ValidateStruct(&r,
		validation.Field(&r.ProductID, validation.Required, is.UUID),
		validation.Field(&r.VariantID, validation.Required, is.UUID),
		validation.Field(&r.Quantity, validation.Required, validation.Min(1)),
	)
}

// CreateOrderRequest places an order. When some items lack stock,
// ContinueWithAvailableItems decides between rejecting the whole order and
// proceeding with what can be fulfilled.
type CreateOrderRequest struct {
	Items []CreateOrderItemRequest `json:"items"`

	DiscountCode  string  `json:"discount_code"`
	ShippingPrice float64 `json:"shipping_price"`
	PaymentMethod string  `json:"payment_method"`

	ShippingName    string `json:"shipping_name"`
	ShippingPhone   string `json:"shipping_phone"`
	ShippingAddress string `json:"shipping_address"`
	Note            string `json:"note"`

	ContinueWithAvailableItems bool `json:"continue_with_available_items"`
}

func (r CreateOrderRequest) Validate() error {
	return validation.ValidateStruct(&r,
		validation.Field(&r.Items, validation.Required, validation.Length(1, 0)),
		validation.Field(&r.ShippingPrice, validation.Min(0.0)),
		validation.Field(&r.PaymentMethod, validation.Required,
			validation.In(PaymentMethodCOD, PaymentMethodVNPay)),
		validation.Field(&r.ShippingName, validation.Required),
		validation.Field(&r.ShippingPhone, validation.Required),
		validation.Field(&r.ShippingAddress, validation.Required),
	)
}

type UpdateStatusRequest struct {
	Status string `json:"status"`
}

func (r UpdateStatusRequest) Validate() error {
	return validation.ValidateStruct(&r,
		validation.Field(&r.Status, validation.Required),
	)
}

type CancelOrderRequest struct {
	Reason string `json:"reason"`
}

func (r CancelOrderRequest) Validate() error {
	return validation.ValidateStruct(&r,
		validation.Field(&r.Reason, validation.Required, validation.Length(3, 500)),
	)
}

// RequestReturnRequest opens the return sub-flow on a delivered order.
type RequestReturnRequest struct {
	Reason    string   `json:"reason"`
	MediaURLs []string `json:"media_urls"`
}

func (r RequestReturnRequest) Validate() error {
	return validation.ValidateStruct(&r,
		validation.Field(&r.Reason, validation.Required, validation.Length(3, 1000)),
	)
}

// UnavailableItem reports an order line that could not be fulfilled.
type UnavailableItem struct {
	ProductID string `json:"product_id"`
	VariantID string `json:"variant_id"`
	Requested int    `json:"requested"`
	Available int    `json:"available"`
}

// CreateOrderResult is the order plus anything dropped on the way.
type CreateOrderResult struct {
	Order       *Order            `json:"order"`
	Unavailable []UnavailableItem `json:"unavailable_items,omitempty"`
}
