package model

import "errors"

var (
	ErrNotFound     = errors.New("cart not found")
	ErrItemNotFound = errors.New("cart item not found")
)
