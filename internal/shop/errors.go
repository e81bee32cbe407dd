package shop

import "errors"

var (
	ErrAddressIDRequired = errors.New("address id required")
	ErrAddressNotFound   = errors.New("address not found or not yours")

	ErrProductNotFound = errors.New("product not found")
	ErrInvalidRating   = errors.New("invalid rating")
	ErrInvalidTitle    = errors.New("invalid title")
	ErrInvalidComment  = errors.New("invalid comment")
	ErrAlreadyReviewed = errors.New("already reviewed")
)
