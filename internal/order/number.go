package order

import (
	"time"

	"shilajit-be/internal/utils"
)

const (
	orderNumberPrefix   = "HS"
	maxOrderNumberTries = 5
)

// NewOrderNumber returns "HS-<unix millis>-<9 base36 chars>".
func NewOrderNumber(now time.Time) string {
	return utils.GenerateReference(orderNumberPrefix, now)
}
