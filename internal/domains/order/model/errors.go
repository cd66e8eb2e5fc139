package model

import "errors"

var (
	ErrNotFound          = errors.New("order not found")
	ErrEmptyOrder        = errors.New("order has no items")
	ErrInvalidTransition = errors.New("invalid order status transition")
	ErrItemsUnavailable  = errors.New("some items are out of stock")
	ErrNotReturnable     = errors.New("order is not eligible for return")
	ErrReturnResolved    = errors.New("return request already resolved")
	ErrAlreadyPaid       = errors.New("order is already paid")
)
