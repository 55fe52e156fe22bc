package order

import (
	"time"

	"github.com/shopspring/decimal"
)

type PaymentMethod string

const (
	MethodWallet         PaymentMethod = "easypaisa"
	MethodBankTransfer   PaymentMethod = "bank_transfer"
	MethodCashOnDelivery PaymentMethod = "cash_on_delivery"
)

func (m PaymentMethod) Valid() bool {
	switch m {
	case MethodWallet, MethodBankTransfer, MethodCashOnDelivery:
		return true
	}
	return false
}

type PaymentStatus string

const (
	PaymentPending   PaymentStatus = "pending"
	PaymentCompleted PaymentStatus = "completed"
	PaymentFailed    PaymentStatus = "failed"
	PaymentRefunded  PaymentStatus = "refunded"
)

type OrderStatus string

const (
	StatusPending    OrderStatus = "pending"
	StatusProcessing OrderStatus = "processing"
	StatusShipped    OrderStatus = "shipped"
	StatusDelivered  OrderStatus = "delivered"
	StatusCancelled  OrderStatus = "cancelled"
)

func (s OrderStatus) Valid() bool {
	switch s {
	case StatusPending, StatusProcessing, StatusShipped, StatusDelivered, StatusCancelled:
		return true
	}
	return false
}

const DefaultCountry = "Pakistan"

type Order struct {
	ID                       string          `json:"id"`
	OrderNumber              string          `json:"orderNumber"`
	Customer                 Customer        `json:"customer"`
	Items                    []Item          `json:"items"`
	Subtotal                 decimal.Decimal `json:"subtotal"`
	Shipping                 decimal.Decimal `json:"shipping"`
	Total                    decimal.Decimal `json:"total"`
	PaymentMethod            PaymentMethod   `json:"paymentMethod"`
	PaymentStatus            PaymentStatus   `json:"paymentStatus"`
	OrderStatus              OrderStatus     `json:"orderStatus"`
	PaymentTransactionID     string          `json:"paymentTransactionId,omitempty"`
	BankTransactionReference string          `json:"bankTransactionReference,omitempty"`
	TrackingNumber           string          `json:"trackingNumber,omitempty"`
	Notes                    string          `json:"notes,omitempty"`
	CreatedAt                time.Time       `json:"createdAt"`
	UpdatedAt                time.Time       `json:"updatedAt"`
}

type Customer struct {
	Name    string  `json:"name"`
	Email   string  `json:"email"`
	Phone   string  `json:"phone"`
	Address Address `json:"address"`
}

type Address struct {
	Street     string `json:"street"`
	City       string `json:"city"`
	Province   string `json:"province"`
	PostalCode string `json:"postalCode"`
	Country    string `json:"country"`
}

// Item is the catalog snapshot taken when the order was placed.
type Item struct {
	ProductID string          `json:"productId"`
	Name      string          `json:"name"`
	Price     decimal.Decimal `json:"price"`
	Quantity  int             `json:"quantity"`
	Image     string          `json:"image,omitempty"`
}

// PaymentStatusView is the reduced projection served to payment status polling.
type PaymentStatusView struct {
	OrderNumber   string          `json:"orderNumber"`
	PaymentStatus PaymentStatus   `json:"paymentStatus"`
	OrderStatus   OrderStatus     `json:"orderStatus"`
	Total         decimal.Decimal `json:"total"`
	PaymentMethod PaymentMethod   `json:"paymentMethod"`
}

// StatusUpdate lists the columns to change. Nil fields are left as stored.
type StatusUpdate struct {
	PaymentStatus  *PaymentStatus
	OrderStatus    *OrderStatus
	TrackingNumber *string
}

type ListFilter struct {
	OrderStatus OrderStatus
	Limit       int
	Offset      int
}

type Pricing struct {
	FreeShippingThreshold decimal.Decimal
	FlatFee               decimal.Decimal
}

// ShippingFor applies the free shipping threshold to subtotal.
func (p Pricing) ShippingFor(subtotal decimal.Decimal) decimal.Decimal {
	if subtotal.GreaterThanOrEqual(p.FreeShippingThreshold) {
		return decimal.Zero
	}
	return p.FlatFee
}
