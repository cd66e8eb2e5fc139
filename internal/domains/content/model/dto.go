package model

import (
	"time"

	validation "github.com/go-ozzo/ozzo-validation/v4"
	"github.com/go-ozzo/ozzo-validation/v4/is"
)

type CreatePolicyRequest struct {
	Title         string     `json:"title"`
	Content       string     `json:"content"`
	ScheduledDate *time.Time `json:"scheduled_date"`
}

func (r CreatePolicyRequest) Validate() error {
	return validation.ValidateStruct(&r,
		validation.Field(&r.Title, validation.Required, validation.Length(1, 200)),
		validation.Field(&r.Content, validation.Required),
	)
}

type UpdatePolicyRequest struct {
	Title   *string `json:"title"`
	Content *string `json:"content"`
}

func (r UpdatePolicyRequest) Validate() error {
	return validation.ValidateStruct(&r,
		validation.Field(&r.Title, validation.NilOrNotEmpty, validation.Length(1, 200)),
		validation.Field(&r.Content, validation.NilOrNotEmpty),
	)
}

type CreateBannerRequest struct {
	Title         string     `json:"title"`
	ImageURL      string     `json:"image_url"`
	LinkURL       string     `json:"link_url"`
	Position      int        `json:"position"`
	ScheduledDate *time.Time `json:"scheduled_date"`
}

func (r CreateBannerRequest) Validate() error {
	return validation.ValidateStruct(&r,
		validation.Field(&r.Title, validation.Required, validation.Length(1, 200)),
		validation.Field(&r.ImageURL, validation.Required, is.URL),
		validation.Field(&r.LinkURL, is.URL),
		validation.Field(&r.Position, validation.Min(0)),
	)
}

type UpdateBannerRequest struct {
	Title    *string `json:"title"`
	ImageURL *string `json:"image_url"`
	LinkURL  *string `json:"link_url"`
	Position *int    `json:"position"`
}

func (r UpdateBannerRequest) Validate() error {
	return validation.ValidateStruct(&r,
		validation.Field(&r.Title, validation.NilOrNotEmpty, validation.Length(1, 200)),
	)
}

type CreateContactRequest struct {
	CompanyName   string     `json:"company_name"`
	Email         string     `json:"email"`
	Phone         string     `json:"phone"`
	Address       Address    `json:"address"`
	SocialMedia   Social     `json:"social_media"`
	SupportHours  Hours      `json:"support_hours"`
	ScheduledDate *time.Time `json:"scheduled_date"`
}

func (r CreateContactRequest) Validate() error {
	return validation.ValidateStruct(&r,
		validation.Field(&r.CompanyName, validation.Required, validation.Length(2, 200)),
		validation.Field(&r.Email, validation.Required, is.Email),
		validation.Field(&r.Phone, validation.Required, validation.Length(1, 20)),
	)
}

type UpdateContactRequest struct {
	CompanyName  *string  `json:"company_name"`
	Email        *string  `json:"email"`
	Phone        *string  `json:"phone"`
	Address      *Address `json:"address"`
	SocialMedia  *Social  `json:"social_media"`
	SupportHours *Hours   `json:"support_hours"`
}

func (r UpdateContactRequest) Validate() error {
	return validation.ValidateStruct(&r,
		validation.Field(&r.CompanyName, validation.NilOrNotEmpty, validation.Length(2, 200)),
	)
}

type SubmitMessageRequest struct {
	Name    string `json:"name"`
	Email   string `json:"email"`
	Phone   string `json:"phone"`
	Subject string `json:"subject"`
	Message string `json:"message"`
}

func (r SubmitMessageRequest) Validate() error {
	return validation.ValidateStruct(&r,
		validation.Field(&r.Name, validation.Required, validation.Length(2, 100)),
		validation.Field(&r.Email, validation.Required, is.Email),
		validation.Field(&r.Phone, validation.Length(0, 20)),
		validation.Field(&r.Subject, validation.Required, validation.Length(2, 200)),
		validation.Field(&r.Message, validation.Required, validation.Length(5, 2000)),
	)
}
