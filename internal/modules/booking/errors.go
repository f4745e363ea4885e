package booking

import "errors"

var (
	ErrValidation       = errors.New("validation error")
	ErrNotFound         = errors.New("booking or resource not found")
	ErrUnauthorized     = errors.New("requester is neither owner nor staff")
	ErrDatesUnavailable = errors.New("dates unavailable for this resource")
	ErrInvalidStatus    = errors.New("operation not allowed in current booking status")
	ErrDownstream       = errors.New("downstream provider failure")
)
