package model

import (
	validation "github.com/go-ozzo/ozzo-validation/v4"
	"github.com/go-ozzo/ozzo-validation/v4/is"
)

type CreateReviewRequest struct {
	ProductID string   `json:"product_id"`
	OrderID   string   `json:"order_id"`
	Rating    int      `json:"rating"`
	Comment   string   `json:"comment"`
	ImageURLs []string `json:"image_urls"`
}

func (r CreateReviewRequest) Validate() error {
	return validation.ValidateStruct(&r,
		validation.Field(&r.ProductID, validation.Required, is.UUID),
		validation.Field(&r.OrderID, validation.Required, is.UUID),
		validation.Field(&r.Rating, validation.Required, validation.Min(1), validation.Max(5)),
		validation.Field(&r.Comment, validation.Length(0, 2000)),
		validation.Field(&r.ImageURLs, validation.Length(0, 5)),
	)
}

type UpdateReviewRequest struct {
	Rating  *int    `json:"rating"`
	Comment *string `json:"comment"`
}

func (r UpdateReviewRequest) Validate() error {
	return validation.ValidateStruct(&r,
		validation.Field(&r.Rating, validation.Min(1), validation.Max(5)),
		validation.Field(&r.Comment, validation.Length(0, 2000)),
	)
}
