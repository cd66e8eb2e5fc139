package model

import (
	validation "github.com/go-ozzo/ozzo-validation/v4"
	"github.com/go-ozzo/ozzo-validation/v4/is"
)

type ReceiptItemRequest struct {
	ProductID string  `json:"product_id"`
	VariantID string  `json:"variant_id"`
	UnitCost  float64 `json:"unit_cost"`
	Quantity  int     `json:"quantity"`
}

func (r ReceiptItemRequest) Validate() error {
	return validation.ValidateStruct(&r,
		validation.Field(&r.ProductID, validation.Required, is.UUID),
		validation.Field(&r.VariantID, validation.Required, is.UUID),
		validation.Field(&r.UnitCost, validation.Min(0.0)),
		validation.Field(&r.Quantity, validation.Required, validation.Min(1)),
	)
}

type CreateReceiptRequest struct {
	SupplierName    string               `json:"supplier_name"`
	SupplierContact string               `json:"supplier_contact"`
	Note            string               `json:"note"`
	Items           []ReceiptItemRequest `json:"items"`
}

func (r CreateReceiptRequest) Validate() error {
	return validation.ValidateStruct(&r,
		validation.Field(&r.SupplierName, validation.Required, validation.Length(2, 200)),
		validation.Field(&r.SupplierContact, validation.Length(0, 200)),
		validation.Field(&r.Note, validation.Length(0, 1000)),
		validation.Field(&r.Items, validation.Required, validation.Length(1, 200)),
	)
}
