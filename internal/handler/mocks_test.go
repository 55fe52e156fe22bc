package handler

import (
	"context"

	"shilajit-be/internal/ai"
	"shilajit-be/internal/auth"
	"shilajit-be/internal/order"
	"shilajit-be/internal/payment"
	"shilajit-be/internal/product"

	"github.com/stretchr/testify/mock"
)

// getOr returns the first mocked value as T, or the zero value when nil.
func getOr[T any](args mock.Arguments) T {
	var zero T
	if v := args.Get(0); v != nil {
		return v.(T)
	}
	return zero
}

type MockOrderService struct{ mock.Mock }

func (m *MockOrderService) CreateOrder(ctx context.Context, in order.CreateOrderInput) (*order.CreateResult, error) {
	args := m.Called(ctx, in)
	return getOr[*order.CreateResult](args), args.Error(1)
}

func (m *MockOrderService) GetOrder(ctx context.Context, n string) (*order.Order, error) {
	args := m.Called(ctx, n)
	return getOr[*order.Order](args), args.Error(1)
}

func (m *MockOrderService) GetPaymentStatus(ctx context.Context, n string) (*order.PaymentStatusView, error) {
	args := m.Called(ctx, n)
	return getOr[*order.PaymentStatusView](args), args.Error(1)
}

func (m *MockOrderService) UpdateOrderStatus(ctx context.Context, n string, in order.UpdateStatusInput) (*order.Order, error) {
	args := m.Called(ctx, n, in)
	return getOr[*order.Order](args), args.Error(1)
}

func (m *MockOrderService) ListOrders(ctx context.Context, in order.ListInput) ([]*order.Order, error) {
	args := m.Called(ctx, in)
	return getOr[[]*order.Order](args), args.Error(1)
}

type MockPaymentService struct{ mock.Mock }

func (m *MockPaymentService) InitiateWallet(ctx context.Context, n string) (*payment.WalletInitiation, error) {
	args := m.Called(ctx, n)
	return getOr[*payment.WalletInitiation](args), args.Error(1)
}

func (m *MockPaymentService) InitiateBankTransfer(ctx context.Context, in payment.BankTransferInput) (*payment.BankTransferInstructions, error) {
	args := m.Called(ctx, in)
	return getOr[*payment.BankTransferInstructions](args), args.Error(1)
}

func (m *MockPaymentService) ConfirmCashOnDelivery(ctx context.Context, n string) (*payment.CODConfirmation, error) {
	args := m.Called(ctx, n)
	return getOr[*payment.CODConfirmation](args), args.Error(1)
}

func (m *MockPaymentService) HandleWalletCallback(ctx context.Context, cb payment.WalletCallback) (*payment.Settlement, error) {
	args := m.Called(ctx, cb)
	return getOr[*payment.Settlement](args), args.Error(1)
}

func (m *MockPaymentService) VerifyBankTransfer(ctx context.Context, n, ref string, verified bool) (*payment.Settlement, error) {
	args := m.Called(ctx, n, ref, verified)
	return getOr[*payment.Settlement](args), args.Error(1)
}

func (m *MockPaymentService) CollectCashOnDelivery(ctx context.Context, n string, collected bool) (*payment.Settlement, error) {
	args := m.Called(ctx, n, collected)
	return getOr[*payment.Settlement](args), args.Error(1)
}

type MockProductService struct{ mock.Mock }

func (m *MockProductService) List(ctx context.Context, opts product.ListOptions) ([]*product.Product, error) {
	args := m.Called(ctx, opts)
	return getOr[[]*product.Product](args), args.Error(1)
}

func (m *MockProductService) Featured(ctx context.Context, limit int) ([]*product.Product, error) {
	args := m.Called(ctx, limit)
	return getOr[[]*product.Product](args), args.Error(1)
}

func (m *MockProductService) GetBySlug(ctx context.Context, slug string) (*product.Product, error) {
	args := m.Called(ctx, slug)
	return getOr[*product.Product](args), args.Error(1)
}

func (m *MockProductService) GetByID(ctx context.Context, id string) (*product.Product, error) {
	args := m.Called(ctx, id)
	return getOr[*product.Product](args), args.Error(1)
}

func (m *MockProductService) Create(ctx context.Context, in product.ProductInput) (*product.Product, error) {
	args := m.Called(ctx, in)
	return getOr[*product.Product](args), args.Error(1)
}

func (m *MockProductService) Update(ctx context.Context, id string, in product.ProductInput) (*product.Product, error) {
	args := m.Called(ctx, id, in)
	return getOr[*product.Product](args), args.Error(1)
}

func (m *MockProductService) UpdateDescription(ctx context.Context, id, desc string) (*product.Product, error) {
	args := m.Called(ctx, id, desc)
	return getOr[*product.Product](args), args.Error(1)
}

func (m *MockProductService) Delete(ctx context.Context, id string) error {
	return m.Called(ctx, id).Error(0)
}

type MockAssistant struct{ mock.Mock }

func (m *MockAssistant) Chat(ctx context.Context, message string) (*ai.ChatReply, error) {
	args := m.Called(ctx, message)
	return getOr[*ai.ChatReply](args), args.Error(1)
}

func (m *MockAssistant) Recommend(ctx context.Context, prefs map[string]any) (*ai.Recommendations, error) {
	args := m.Called(ctx, prefs)
	return getOr[*ai.Recommendations](args), args.Error(1)
}

func (m *MockAssistant) EnhanceDescription(ctx context.Context, id string, apply bool) (*ai.Enhancement, error) {
	args := m.Called(ctx, id, apply)
	return getOr[*ai.Enhancement](args), args.Error(1)
}

type MockAuthService struct{ mock.Mock }

func (m *MockAuthService) Login(ctx context.Context, in auth.LoginInput) (*auth.Session, error) {
	args := m.Called(ctx, in)
	return getOr[*auth.Session](args), args.Error(1)
}
