package model

import "errors"

var (
	ErrPolicyNotFound  = errors.New("policy not found")
	ErrBannerNotFound  = errors.New("banner not found")
	ErrContactNotFound = errors.New("contact info not found")
	ErrMessageNotFound = errors.New("contact message not found")
)
