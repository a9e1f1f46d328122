package domain

import "errors"

var (
	ErrListingNotFound = errors.New("listing not found")
	ErrForbidden       = errors.New("operation not allowed for this user")
	ErrInvalidInput    = errors.New("invalid input")
	ErrAlreadyReviewed = errors.New("user already reviewed this listing")
	ErrInvalidState    = errors.New("listing is not in a state that allows this operation")
	ErrTokenInvalid    = errors.New("token is invalid or expired")
)
