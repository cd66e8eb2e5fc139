package model

import (
	"time"

	"github.com/google/uuid"
)

// Roles.
const (
	RoleCustomer = "customer"
	RoleAdmin    = "admin"
)

type User struct {
	ID           uuid.UUID `json:"id"`
	Email        string    `json:"email"`
	PasswordHash string    `json:"-"`
	FullName     string    `json:"full_name"`
	Phone        string    `json:"phone,omitempty"`
	Role         string    `json:"role"`
	AvatarURL    string    `json:"avatar_url,omitempty"`

	IsVerified         bool       `json:"is_verified"`
	VerificationToken  string     `json:"-"`
	VerificationExpiry *time.Time `json:"-"`

	IsBlocked bool      `json:"is_blocked"`
	IsDeleted bool      `json:"-"`
	CreatedAt time.Time `json:"created_at"`
	UpdatedAt time.Time `json:"updated_at"`
}

// TokenPair is what a successful login or refresh returns.
type TokenPair struct {
	AccessToken  string `json:"access_token"`
	RefreshToken string `json:"refresh_token"`
}

// Filter narrows admin user listings.
type Filter struct {
	Keyword string
	Role    string
	Page    int
	Limit   int
}

func (f *Filter) Normalize() {
	if f.Page < 1 {
		f.Page = 1
	}
	if f.Limit < 1 {
		f.Limit = 20
	}
	if f.Limit > 100 {
		f.Limit = 100
	}
}

func (f *Filter) Offset() int {
	return (f.Page - 1) * f.Limit
}
