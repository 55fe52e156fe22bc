package order

import (
	"bytes"
	"encoding/json"
	"strings"

	"shilajit-be/internal/apperror"
)

type CreateOrderInput struct {
	Customer      CustomerInput `json:"customer"`
	Items         []ItemInput   `json:"items" validate:"dive"`
	PaymentMethod PaymentMethod `json:"paymentMethod" validate:"required,oneof=easypaisa bank_transfer cash_on_delivery"`
	Notes         string        `json:"notes" validate:"max=1000"`
}

type CustomerInput struct {
	Name    string       `json:"name" validate:"required,max=200"`
	Email   string       `json:"email" validate:"required,email"`
	Phone   string       `json:"phone" validate:"required,max=30"`
	Address AddressInput `json:"address"`
}

type AddressInput struct {
	Street     string `json:"street" validate:"required"`
	City       string `json:"city" validate:"required"`
	Province   string `json:"province" validate:"required"`
	PostalCode string `json:"postalCode" validate:"required"`
	Country    string `json:"country"`
}

// ItemInput names a catalog product by key, or by slug and name for clients
// that only know their own identifiers.
type ItemInput struct {
	ProductID ProductKey `json:"productId"`
	Slug      string     `json:"slug"`
	Name      string     `json:"name"`
	Quantity  int        `json:"quantity" validate:"gte=1"`
}

// ProductKey accepts a product id sent as either a JSON string or number.
type ProductKey string

func (k *ProductKey) UnmarshalJSON(b []byte) error {
	b = bytes.TrimSpace(b)
	if bytes.Equal(b, []byte("null")) {
		*k = ""
		return nil
	}
	if len(b) > 0 && b[0] == '"' {
		var s string
		if err := json.Unmarshal(b, &s); err != nil {
			return err
		}
		*k = ProductKey(s)
		return nil
	}
	var n json.Number
	if err := json.Unmarshal(b, &n); err != nil {
		return apperror.Validation("productId must be a string or number")
	}
	*k = ProductKey(n.String())
	return nil
}

func (k ProductKey) String() string { return string(k) }

func (in CreateOrderInput) Validate() error {
	if len(in.Items) == 0 {
		return apperror.Validation("order must contain at least one item")
	}
	return apperror.Struct(in)
}

func (in CustomerInput) toCustomer() Customer {
	country := strings.TrimSpace(in.Address.Country)
	if country == "" {
		country = DefaultCountry
	}
	return Customer{
		Name:  strings.TrimSpace(in.Name),
		Email: strings.TrimSpace(in.Email),
		Phone: strings.TrimSpace(in.Phone),
		Address: Address{
			Street:     strings.TrimSpace(in.Address.Street),
			City:       strings.TrimSpace(in.Address.City),
			Province:   strings.TrimSpace(in.Address.Province),
			PostalCode: strings.TrimSpace(in.Address.PostalCode),
			Country:    country,
		},
	}
}

type UpdateStatusInput struct {
	OrderStatus    OrderStatus `json:"orderStatus"`
	TrackingNumber string      `json:"trackingNumber"`
}

type ListInput struct {
	OrderStatus OrderStatus
	Limit       int
	Page        int
}
