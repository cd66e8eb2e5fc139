package model

import "errors"

var (
	ErrBrandNotFound    = errors.New("brand not found")
	ErrCategoryNotFound = errors.New("category not found")
	ErrDuplicateName    = errors.New("name already exists")
	ErrParentNotFound   = errors.New("parent category not found")
)
