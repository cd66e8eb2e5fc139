package model

import "errors"

var (
	ErrNotFound      = errors.New("discount code not found")
	ErrDuplicateCode = errors.New("discount code already exists")
	ErrInactive      = errors.New("discount code is not active")
	ErrNotStarted    = errors.New("discount code is not yet valid")
	ErrExpired       = errors.New("discount code has expired")
	ErrExhausted     = errors.New("discount code usage limit reached")
	ErrAlreadyUsed   = errors.New("discount code already used by this user")
	ErrScopeMismatch = errors.New("discount code does not apply to these items")
	ErrBelowMinimum  = errors.New("order subtotal below the code's minimum purchase amount")
)
