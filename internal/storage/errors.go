package storage

import "errors"

// Domain errors. The HTTP layer maps each to a distinct status code.
var (
	ErrValidation      = errors.New("validation failed")
	ErrDuplicateReturn = errors.New("a return request for this order already exists")
	ErrRateLimited     = errors.New("return submission limit reached, try again later")
	ErrNotFound        = errors.New("return request not found")
	ErrInvalidState    = errors.New("request already processed")
	ErrUserNotFound    = errors.New("user not found")
)
