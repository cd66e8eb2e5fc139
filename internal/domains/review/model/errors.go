package model

import "errors"

var (
	ErrNotFound        = errors.New("review not found")
	ErrAlreadyReviewed = errors.New("product already reviewed for this order")
	ErrNotPurchased    = errors.New("product was not purchased in this order")
	ErrNotDelivered    = errors.New("order is not delivered yet")
	ErrNotOwner        = errors.New("review belongs to another user")
)
