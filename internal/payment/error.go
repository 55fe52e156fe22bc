package payment

import "errors"

var ErrWrongPaymentMethod = errors.New("order is not a cash on delivery order")
