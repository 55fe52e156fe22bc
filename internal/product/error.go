package product

import "errors"

var (
	ErrProductNotFound = errors.New("product not found")
	ErrSlugTaken       = errors.New("product slug already exists")

	PgUniqueViolation = "23505"
)
