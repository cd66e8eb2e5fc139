package model

import (
	"time"

	"github.com/google/uuid"

	"pttech-backend/internal/shared/lifecycle"
)

// Policy is a store policy page (shipping, returns, warranty, privacy).
type Policy struct {
	ID      uuid.UUID `json:"id"`
	Title   string    `json:"title"`
	Slug    string    `json:"slug"`
	Content string    `json:"content"`
	lifecycle.Lifecycle
	CreatedAt time.Time `json:"created_at"`
	UpdatedAt time.Time `json:"updated_at"`
}

// AdBanner is a promotional banner shown on the storefront.
type AdBanner struct {
	ID       uuid.UUID `json:"id"`
	Title    string    `json:"title"`
	ImageURL string    `json:"image_url"`
	LinkURL  string    `json:"link_url,omitempty"`
	Position int       `json:"position"`
	lifecycle.Lifecycle
	CreatedAt time.Time `json:"created_at"`
	UpdatedAt time.Time `json:"updated_at"`
}

// Contact is the company's published contact information: support
// channels, address, social links and working hours. Admin-managed,
// so it carries the same publish lifecycle as the other content.
type Contact struct {
	ID           uuid.UUID `json:"id"`
	CompanyName  string    `json:"company_name"`
	Email        string    `json:"email"`
	Phone        string    `json:"phone"`
	Address      Address   `json:"address"`
	SocialMedia  Social    `json:"social_media"`
	SupportHours Hours     `json:"support_hours"`
	lifecycle.Lifecycle
	CreatedAt time.Time `json:"created_at"`
	UpdatedAt time.Time `json:"updated_at"`
}

type Address struct {
	Street   string `json:"street,omitempty"`
	City     string `json:"city,omitempty"`
	District string `json:"district,omitempty"`
	Country  string `json:"country,omitempty"`
}

type Social struct {
	Facebook  string `json:"facebook,omitempty"`
	Instagram string `json:"instagram,omitempty"`
	Twitter   string `json:"twitter,omitempty"`
	Zalo      string `json:"zalo,omitempty"`
}

type Hours struct {
	Weekdays string `json:"weekdays,omitempty"`
	Weekends string `json:"weekends,omitempty"`
}

// Contact message statuses.
const (
	MessageStatusNew      = "new"
	MessageStatusResolved = "resolved"
)

// ContactMessage is a customer message submitted through the contact form.
type ContactMessage struct {
	ID         uuid.UUID  `json:"id"`
	Name       string     `json:"name"`
	Email      string     `json:"email"`
	Phone      string     `json:"phone,omitempty"`
	Subject    string     `json:"subject"`
	Message    string     `json:"message"`
	Status     string     `json:"status"`
	ResolvedAt *time.Time `json:"resolved_at,omitempty"`
	IsDeleted  bool       `json:"is_deleted"`
	CreatedAt  time.Time  `json:"created_at"`
}
