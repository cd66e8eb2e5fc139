package model

import "errors"

var (
	ErrNotFound       = errors.New("receipt not found")
	ErrEmptyReceipt   = errors.New("receipt has no items")
	ErrAlreadyApplied = errors.New("receipt already applied")
)
