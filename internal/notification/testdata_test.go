package notification

import (
	"time"

	"github.com/shopspring/decimal"
)

func sampleIntent(kind Kind) Intent {
	return Intent{
		Kind:      kind,
		Recipient: "ayesha@example.com",
		Data: Data{
			OrderNumber:  "HS-1700000000000-ABCDEFGHI",
			CustomerName: "Ayesha Khan",
			Phone:        "03001234567",
			Address: Address{
				Street:     "12 Mall Road",
				City:       "Lahore",
				Province:   "Punjab",
				PostalCode: "54000",
				Country:    "Pakistan",
			},
			Items: []Item{
				{Name: "Pure Shilajit Resin 30g", Quantity: 2, Price: decimal.RequireFromString("49.99")},
			},
			Subtotal:      decimal.RequireFromString("99.98"),
			Shipping:      decimal.Zero,
			Total:         decimal.RequireFromString("99.98"),
			PaymentMethod: "cash_on_delivery",
			PaymentStatus: "pending",
			OrderStatus:   "processing",
			CreatedAt:     time.Date(2024, 3, 1, 10, 0, 0, 0, time.UTC),
		},
	}
}
