package payment

import (
	"encoding/json"

	"shilajit-be/internal/order"

	"github.com/shopspring/decimal"
)

type BankAccount struct {
	AccountTitle  string `json:"accountTitle"`
	AccountNumber string `json:"accountNumber"`
	BankName      string `json:"bankName"`
	IBAN          string `json:"iban"`
	Branch        string `json:"branch"`
	SwiftCode     string `json:"swiftCode"`
}

type WalletInitiation struct {
	TransactionRef string   `json:"transactionRef"`
	PaymentURL     string   `json:"paymentUrl"`
	QRCode         string   `json:"qrCode"`
	Message        string   `json:"message"`
	Steps          []string `json:"steps"`
}

type BankTransferInput struct {
	OrderNumber          string `json:"orderNumber" validate:"required"`
	BankName             string `json:"bankName"`
	TransactionReference string `json:"transactionReference" validate:"required,max=100"`
}

type BankTransferInstructions struct {
	BankDetails          BankAccount     `json:"bankDetails"`
	TransactionReference string          `json:"transactionReference"`
	Amount               decimal.Decimal `json:"amount"`
	Instructions         string          `json:"instructions"`
	Steps                []string        `json:"steps"`
}

type CODConfirmation struct {
	OrderNumber   string              `json:"orderNumber"`
	PaymentMethod order.PaymentMethod `json:"paymentMethod"`
	Total         decimal.Decimal     `json:"total"`
	Message       string              `json:"message"`
	Instructions  string              `json:"instructions"`
	Steps         []string            `json:"steps"`
}

// WalletCallback is the provider notification about a wallet transaction.
type WalletCallback struct {
	TransactionRef string           `json:"transactionRef"`
	Status         string           `json:"status"`
	Amount         *decimal.Decimal `json:"amount,omitempty"`
	Raw            json.RawMessage  `json:"-"`
}

func (c WalletCallback) Succeeded() bool {
	return c.Status == "success" || c.Status == "completed"
}

// Settlement reports the outcome of a settlement attempt. Settled is false
// when the payment was declined and nothing was completed.
type Settlement struct {
	Settled     bool         `json:"settled"`
	Message     string       `json:"message"`
	OrderNumber string       `json:"orderNumber"`
	Order       *order.Order `json:"order,omitempty"`
}

const (
	MsgWalletInitiated      = "Payment initiated successfully. Please complete payment via Easypaisa."
	MsgPaymentConfirmed     = "Payment confirmed"
	MsgPaymentFailed        = "Payment failed"
	MsgBankVerified         = "Payment verified successfully"
	MsgBankVerifyFailed     = "Payment verification failed"
	MsgCODCollected         = "Payment collected and order delivered"
	MsgCODCollectFailed     = "Payment collection failed"
	MsgCODConfirmed         = "Order confirmed. Payment will be collected on delivery."
	MsgCODDeliveryNote      = "Please have the exact amount ready for delivery. Our delivery person will collect payment upon delivery."
	bankInstructionTemplate = "Please transfer PKR %s to the above account and provide the transaction reference: %s. Your order will be processed after payment verification."
)
