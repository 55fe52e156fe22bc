package notification

import (
	"time"

	"github.com/shopspring/decimal"
)

type Kind string

const (
	KindOrderConfirmation Kind = "order_confirmation"
	KindCODConfirmation   Kind = "cod_confirmation"
	KindPaymentSuccess    Kind = "payment_success"
	KindOrderShipped      Kind = "order_shipped"
)

func (k Kind) Valid() bool {
	switch k {
	case KindOrderConfirmation, KindCODConfirmation, KindPaymentSuccess, KindOrderShipped:
		return true
	}
	return false
}

// Intent is a request to notify a customer about an order. It carries a
// snapshot of everything the template needs so delivery never reads the order.
type Intent struct {
	Kind      Kind   `json:"kind"`
	Recipient string `json:"recipient"`
	Data      Data   `json:"data"`
}

type Data struct {
	OrderNumber    string          `json:"orderNumber"`
	CustomerName   string          `json:"customerName"`
	Phone          string          `json:"phone"`
	Address        Address         `json:"address"`
	Items          []Item          `json:"items"`
	Subtotal       decimal.Decimal `json:"subtotal"`
	Shipping       decimal.Decimal `json:"shipping"`
	Total          decimal.Decimal `json:"total"`
	PaymentMethod  string          `json:"paymentMethod"`
	PaymentStatus  string          `json:"paymentStatus"`
	OrderStatus    string          `json:"orderStatus"`
	TrackingNumber string          `json:"trackingNumber,omitempty"`
	CreatedAt      time.Time       `json:"createdAt"`
}

type Address struct {
	Street     string `json:"street"`
	City       string `json:"city"`
	Province   string `json:"province"`
	PostalCode string `json:"postalCode"`
	Country    string `json:"country"`
}

type Item struct {
	Name     string          `json:"name"`
	Quantity int             `json:"quantity"`
	Price    decimal.Decimal `json:"price"`
}

func (i Item) LineTotal() decimal.Decimal {
	return i.Price.Mul(decimal.NewFromInt(int64(i.Quantity)))
}

type Status string

const (
	StatusPending Status = "pending"
	StatusSent    Status = "sent"
	StatusDead    Status = "dead"
)

// Message is an outbox row claimed for delivery. DecodeErr is set when the
// stored payload could not be read; such a message is never sent.
type Message struct {
	ID        int64
	Intent    Intent
	Attempts  int
	DecodeErr error
}
