package model

import (
	validation "github.com/go-ozzo/ozzo-validation/v4"
	"github.com/go-ozzo/ozzo-validation/v4/is"
)

type AddItemRequest struct {
	ProductID string `json:"product_id"`
	VariantID string `json:"variant_id"`
	Quantity  int    `json:"quantity"`
}

func (r AddItemRequest) Validate() error {
	return validation.ValidateStruct(&r,
		validation.Field(&r.ProductID, validation.Required, is.UUID),
		validation.Field(&r.VariantID, validation.Required, is.UUID),
		validation.Field(&r.Quantity, validation.Required, validation.Min(1)),
	)
}

type ChangeQuantityRequest struct {
	Delta int `json:"delta"`
}

func (r ChangeQuantityRequest) Validate() error {
	return validation.ValidateStruct(&r,
		validation.Field(&r.Delta, validation.Required),
	)
}

// ChangeVariantRequest swaps an item to another variant of the same
// product, carrying the quantity.
type ChangeVariantRequest struct {
	VariantID string `json:"variant_id"`
}

func (r ChangeVariantRequest) Validate() error {
	return validation.ValidateStruct(&r,
		validation.Field(&r.VariantID, validation.Required, is.UUID),
	)
}
