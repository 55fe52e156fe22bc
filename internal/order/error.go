package order

import "errors"

var (
	ErrOrderNotFound        = errors.New("order not found")
	ErrInsufficientStock    = errors.New("insufficient stock")
	ErrDuplicateOrderNumber = errors.New("order number already exists")
	ErrOrderNumberExhausted = errors.New("could not allocate a unique order number")

	PgUniqueViolation = "23505"
)
