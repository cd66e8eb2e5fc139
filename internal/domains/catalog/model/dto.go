package model

import (
	"time"

	validation "github.com/go-ozzo/ozzo-validation/v4"
	"github.com/go-ozzo/ozzo-validation/v4/is"
)

type CreateBrandRequest struct {
	Name          string     `json:"name"`
	Description   string     `json:"description"`
	LogoURL       string     `json:"logo_url"`
	Website       string     `json:"website"`
	ScheduledDate *time.Time `json:"scheduled_date"`
}

func (r CreateBrandRequest) Validate() error {
	return validation.ValidateStruct(&r,
		validation.Field(&r.Name, validation.Required, validation.Length(1, 100)),
		validation.Field(&r.Description, validation.Length(0, 1000)),
		validation.Field(&r.LogoURL, is.URL),
		validation.Field(&r.Website, is.URL),
	)
}

type UpdateBrandRequest struct {
	Name        *string `json:"name"`
	Description *string `json:"description"`
	LogoURL     *string `json:"logo_url"`
	Website     *string `json:"website"`
}

func (r UpdateBrandRequest) Validate() error {
	return validation.ValidateStruct(&r,
		validation.Field(&r.Name, validation.NilOrNotEmpty, validation.Length(1, 100)),
		validation.Field(&r.Description, validation.Length(0, 1000)),
	)
}

type CreateCategoryRequest struct {
	Name          string     `json:"name"`
	Description   string     `json:"description"`
	ParentID      string     `json:"parent_id"`
	ImageURL      string     `json:"image_url"`
	ScheduledDate *time.Time `json:"scheduled_date"`
}

func (r CreateCategoryRequest) Validate() error {
	return validation.ValidateStruct(&r,
		validation.Field(&r.Name, validation.Required, validation.Length(1, 100)),
		validation.Field(&r.Description, validation.Length(0, 1000)),
		validation.Field(&r.ParentID, is.UUID),
		validation.Field(&r.ImageURL, is.URL),
	)
}

type UpdateCategoryRequest struct {
	Name        *string `json:"name"`
	Description *string `json:"description"`
	ImageURL    *string `json:"image_url"`
}

func (r UpdateCategoryRequest) Validate() error {
	return validation.ValidateStruct(&r,
		validation.Field(&r.Name, validation.NilOrNotEmpty, validation.Length(1, 100)),
		validation.Field(&r.Description, validation.Length(0, 1000)),
	)
}
