package model

import "errors"

var (
	ErrNotFound        = errors.New("product not found")
	ErrVariantNotFound = errors.New("product variant not found")
	ErrDuplicateSKU    = errors.New("product sku already exists")
	ErrOutOfStock      = errors.New("insufficient stock")
)
