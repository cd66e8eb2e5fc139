package model

import "errors"

var (
	ErrNotFound           = errors.New("user not found")
	ErrEmailTaken         = errors.New("email already registered")
	ErrInvalidCredentials = errors.New("invalid email or password")
	ErrBlocked            = errors.New("account is blocked")
	ErrInvalidToken       = errors.New("invalid or expired token")
	ErrAlreadyVerified    = errors.New("email already verified")
)
