package handler

import (
	"encoding/json"
	"errors"
	"fmt"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"
	"time"

	"shilajit-be/internal/ai"
	"shilajit-be/internal/apperror"
	"shilajit-be/internal/auth"
	"shilajit-be/internal/middleware"
	"shilajit-be/internal/order"
	"shilajit-be/internal/payment"
	"shilajit-be/internal/product"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/require"
)

const (
	testSecret        = "test-secret"
	testCallbackToken = "cb-token"
)

type testEnv struct {
	orders    *MockOrderService
	payments  *MockPaymentService
	products  *MockProductService
	assistant *MockAssistant
	auth      *MockAuthService
	router    http.Handler
}

func newTestEnv(t *testing.T, production bool) *testEnv {
	t.Helper()
	env := &testEnv{
		orders:    new(MockOrderService),
		payments:  new(MockPaymentService),
		products:  new(MockProductService),
		assistant: new(MockAssistant),
		auth:      new(MockAuthService),
	}
	env.router = NewRouter(Deps{
		Orders:     env.orders,
		Payments:   env.payments,
		Products:   env.products,
		Assistant:  env.assistant,
		Auth:       env.auth,
		Gateway:    payment.NewEasypaisaGateway("https://easypaisa.example/pay", "https://qr.example/?data=", testCallbackToken),
		JWTSecret:  testSecret,
		Production: production,
	})
	return env
}

func (e *testEnv) do(method, path, body string, setup ...func(*http.Request)) (*httptest.ResponseRecorder, Envelope) {
	req := httptest.NewRequest(method, path, strings.NewReader(body))
	req.Header.Set("Content-Type", "application/json")
	for _, fn := range setup {
		fn(req)
	}
	w := httptest.NewRecorder()
	e.router.ServeHTTP(w, req)

	var env Envelope
	json.Unmarshal(w.Body.Bytes(), &env)
	return w, env
}

func asAdmin(t *testing.T) func(*http.Request) {
	tokenStr, err := auth.GenerateJWT(testSecret, "admin@example.com", auth.RoleAdmin, time.Now())
	require.NoError(t, err)
	return func(r *http.Request) {
		r.Header.Set("Authorization", "Bearer "+tokenStr)
	}
}

func withCallbackToken(token string) func(*http.Request) {
	return func(r *http.Request) {
		r.Header.Set(payment.CallbackTokenHeader, token)
	}
}

func TestHealth(t *testing.T) {
	w, body := newTestEnv(t, false).do(http.MethodGet, "/api/health", "")

	assert.Equal(t, http.StatusOK, w.Code)
	assert.True(t, body.Success)
	assert.Equal(t, "Server is running", body.Message)
	assert.NotEmpty(t, w.Header().Get("X-Request-ID"))
}

func TestNotFoundRoute(t *testing.T) {
	w, body := newTestEnv(t, false).do(http.MethodGet, "/api/nope", "")

	assert.Equal(t, http.StatusNotFound, w.Code)
	assert.False(t, body.Success)
}

func TestCreateOrder(t *testing.T) {
	payload := `{
		"customer": {"name": "Ayesha Khan", "email": "ayesha@example.com", "phone": "03001234567",
			"address": {"street": "1 Mall Rd", "city": "Lahore", "province": "Punjab", "postalCode": "54000"}},
		"items": [{"productId": "resin-30g", "quantity": 2}],
		"paymentMethod": "easypaisa"
	}`

	t.Run("Created", func(t *testing.T) {
		env := newTestEnv(t, false)
		env.orders.On("CreateOrder", mock.Anything, mock.MatchedBy(func(in order.CreateOrderInput) bool {
			return len(in.Items) == 1 && in.Items[0].ProductID.String() == "resin-30g" && in.Items[0].Quantity == 2
		})).Return(&order.CreateResult{Order: &order.Order{OrderNumber: "HS-1"}}, nil)

		w, body := env.do(http.MethodPost, "/api/orders", payload)
		assert.Equal(t, http.StatusCreated, w.Code)
		assert.True(t, body.Success)
		assert.Equal(t, "HS-1", body.Data.(map[string]any)["orderNumber"])
	})

	t.Run("Malformed body", func(t *testing.T) {
		w, body := newTestEnv(t, false).do(http.MethodPost, "/api/orders", "{")
		assert.Equal(t, http.StatusBadRequest, w.Code)
		assert.Equal(t, "Invalid request body", body.Message)
	})

	cases := []struct {
		name    string
		err     error
		status  int
		message string
	}{
		{"Validation", apperror.Validation("customer.email must be a valid email address"), http.StatusBadRequest, "Customer.email must be a valid email address"},
		{"Product not found", fmt.Errorf("%w: resin-99g", product.ErrProductNotFound), http.StatusBadRequest, "Product not found: resin-99g"},
		{"Insufficient stock", fmt.Errorf("%w for Capsules", order.ErrInsufficientStock), http.StatusBadRequest, "Insufficient stock for Capsules"},
		{"Store failure", errors.New("connection refused"), http.StatusInternalServerError, "Connection refused"},
	}
	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			env := newTestEnv(t, false)
			env.orders.On("CreateOrder", mock.Anything, mock.Anything).Return(nil, tc.err)

			w, body := env.do(http.MethodPost, "/api/orders", payload)
			assert.Equal(t, tc.status, w.Code)
			assert.False(t, body.Success)
			assert.Equal(t, tc.message, body.Message)
		})
	}

	t.Run("Internal message elided in production", func(t *testing.T) {
		env := newTestEnv(t, true)
		env.orders.On("CreateOrder", mock.Anything, mock.Anything).Return(nil, errors.New("pq: connection refused"))

		w, body := env.do(http.MethodPost, "/api/orders", payload)
		assert.Equal(t, http.StatusInternalServerError, w.Code)
		assert.Equal(t, msgInternal, body.Message)
	})
}

func TestGetOrder(t *testing.T) {
	t.Run("Found", func(t *testing.T) {
		env := newTestEnv(t, false)
		env.orders.On("GetOrder", mock.Anything, "HS-1").Return(&order.Order{OrderNumber: "HS-1"}, nil)

		w, body := env.do(http.MethodGet, "/api/orders/HS-1", "")
		assert.Equal(t, http.StatusOK, w.Code)
		assert.True(t, body.Success)
	})

	t.Run("Not found", func(t *testing.T) {
		env := newTestEnv(t, false)
		env.orders.On("GetOrder", mock.Anything, "HS-404").Return(nil, order.ErrOrderNotFound)

		w, body := env.do(http.MethodGet, "/api/orders/HS-404", "")
		assert.Equal(t, http.StatusNotFound, w.Code)
		assert.Equal(t, "Order not found", body.Message)
	})
}

func TestAdminOrderRoutes(t *testing.T) {
	t.Run("List requires token", func(t *testing.T) {
		w, body := newTestEnv(t, true).do(http.MethodGet, "/api/orders", "")
		assert.Equal(t, http.StatusUnauthorized, w.Code)
		assert.Equal(t, middleware.MsgNoToken, body.Message)
	})

	t.Run("List with filters", func(t *testing.T) {
		env := newTestEnv(t, true)
		env.orders.On("ListOrders", mock.Anything, order.ListInput{OrderStatus: order.StatusShipped, Limit: 10, Page: 2}).
			Return([]*order.Order{{OrderNumber: "HS-1"}}, nil)

		w, body := env.do(http.MethodGet, "/api/orders?orderStatus=shipped&limit=10&page=2", "", asAdmin(t))
		assert.Equal(t, http.StatusOK, w.Code)
		assert.Len(t, body.Data, 1)
	})

	t.Run("List bad limit", func(t *testing.T) {
		w, _ := newTestEnv(t, true).do(http.MethodGet, "/api/orders?limit=ten", "", asAdmin(t))
		assert.Equal(t, http.StatusBadRequest, w.Code)
	})

	t.Run("Update status", func(t *testing.T) {
		env := newTestEnv(t, true)
		want := order.UpdateStatusInput{OrderStatus: order.StatusShipped, TrackingNumber: "TCS-123"}
		env.orders.On("UpdateOrderStatus", mock.Anything, "HS-1", want).
			Return(&order.Order{OrderNumber: "HS-1", OrderStatus: order.StatusShipped}, nil)

		w, body := env.do(http.MethodPatch, "/api/orders/HS-1/status",
			`{"orderStatus":"shipped","trackingNumber":"TCS-123"}`, asAdmin(t))
		assert.Equal(t, http.StatusOK, w.Code)
		assert.Equal(t, "Order status updated", body.Message)
	})
}

func TestWalletRoutes(t *testing.T) {
	t.Run("Initiate", func(t *testing.T) {
		env := newTestEnv(t, false)
		env.payments.On("InitiateWallet", mock.Anything, "HS-1").Return(&payment.WalletInitiation{
			TransactionRef: "EP-1", Message: payment.MsgWalletInitiated,
		}, nil)

		w, body := env.do(http.MethodPost, "/api/payments/easypaisa/initiate", `{"orderNumber":"HS-1","amount":99.98}`)
		assert.Equal(t, http.StatusOK, w.Code)
		assert.Equal(t, payment.MsgWalletInitiated, body.Message)
		assert.Equal(t, "EP-1", body.Data.(map[string]any)["transactionRef"])
	})

	t.Run("Callback with bad token", func(t *testing.T) {
		env := newTestEnv(t, false)

		w, _ := env.do(http.MethodPost, "/api/payments/easypaisa/callback",
			`{"transactionRef":"EP-1","status":"success"}`, withCallbackToken("wrong"))
		assert.Equal(t, http.StatusUnauthorized, w.Code)
		env.payments.AssertNotCalled(t, "HandleWalletCallback", mock.Anything, mock.Anything)
	})

	t.Run("Callback settled", func(t *testing.T) {
		env := newTestEnv(t, false)
		raw := `{"transactionRef":"EP-1","status":"success","amount":99.98}`
		env.payments.On("HandleWalletCallback", mock.Anything, mock.MatchedBy(func(cb payment.WalletCallback) bool {
			return cb.TransactionRef == "EP-1" && cb.Succeeded() && string(cb.Raw) == raw && cb.Amount.String() == "99.98"
		})).Return(&payment.Settlement{Settled: true, Message: payment.MsgPaymentConfirmed, OrderNumber: "HS-1"}, nil)

		w, body := env.do(http.MethodPost, "/api/payments/easypaisa/callback", raw, withCallbackToken(testCallbackToken))
		assert.Equal(t, http.StatusOK, w.Code)
		assert.True(t, body.Success)
		assert.Equal(t, payment.MsgPaymentConfirmed, body.Message)
	})

	t.Run("Callback declined is 200 with success false", func(t *testing.T) {
		env := newTestEnv(t, false)
		env.payments.On("HandleWalletCallback", mock.Anything, mock.Anything).
			Return(&payment.Settlement{Settled: false, Message: payment.MsgPaymentFailed, OrderNumber: "HS-1"}, nil)

		w, body := env.do(http.MethodPost, "/api/payments/easypaisa/callback",
			`{"transactionRef":"EP-1","status":"failed"}`, withCallbackToken(testCallbackToken))
		assert.Equal(t, http.StatusOK, w.Code)
		assert.False(t, body.Success)
		assert.Equal(t, payment.MsgPaymentFailed, body.Message)
	})

	t.Run("Callback unknown reference", func(t *testing.T) {
		env := newTestEnv(t, false)
		env.payments.On("HandleWalletCallback", mock.Anything, mock.Anything).Return(nil, order.ErrOrderNotFound)

		w, _ := env.do(http.MethodPost, "/api/payments/easypaisa/callback",
			`{"transactionRef":"EP-404","status":"success"}`, withCallbackToken(testCallbackToken))
		assert.Equal(t, http.StatusNotFound, w.Code)
	})
}

func TestBankTransferRoutes(t *testing.T) {
	t.Run("Initiate", func(t *testing.T) {
		env := newTestEnv(t, false)
		in := payment.BankTransferInput{OrderNumber: "HS-1", BankName: "HBL", TransactionReference: "TRX-42"}
		env.payments.On("InitiateBankTransfer", mock.Anything, in).
			Return(&payment.BankTransferInstructions{TransactionReference: "TRX-42"}, nil)

		w, body := env.do(http.MethodPost, "/api/payments/bank-transfer/initiate",
			`{"orderNumber":"HS-1","bankName":"HBL","transactionReference":"TRX-42"}`)
		assert.Equal(t, http.StatusOK, w.Code)
		assert.True(t, body.Success)
	})

	t.Run("Verify requires admin", func(t *testing.T) {
		w, _ := newTestEnv(t, true).do(http.MethodPost, "/api/payments/bank-transfer/verify", `{}`)
		assert.Equal(t, http.StatusUnauthorized, w.Code)
	})

	t.Run("Verify rejected", func(t *testing.T) {
		env := newTestEnv(t, true)
		env.payments.On("VerifyBankTransfer", mock.Anything, "HS-1", "TRX-42", false).
			Return(&payment.Settlement{Settled: false, Message: payment.MsgBankVerifyFailed}, nil)

		w, body := env.do(http.MethodPost, "/api/payments/bank-transfer/verify",
			`{"orderNumber":"HS-1","transactionReference":"TRX-42","verified":false}`, asAdmin(t))
		assert.Equal(t, http.StatusOK, w.Code)
		assert.False(t, body.Success)
		assert.Equal(t, payment.MsgBankVerifyFailed, body.Message)
	})
}

func TestCashOnDeliveryRoutes(t *testing.T) {
	t.Run("Confirm wrong method", func(t *testing.T) {
		env := newTestEnv(t, false)
		env.payments.On("ConfirmCashOnDelivery", mock.Anything, "HS-1").Return(nil, payment.ErrWrongPaymentMethod)

		w, body := env.do(http.MethodPost, "/api/payments/cash-on-delivery/confirm", `{"orderNumber":"HS-1"}`)
		assert.Equal(t, http.StatusBadRequest, w.Code)
		assert.Equal(t, "Order is not a cash on delivery order", body.Message)
	})

	t.Run("Collect", func(t *testing.T) {
		env := newTestEnv(t, true)
		env.payments.On("CollectCashOnDelivery", mock.Anything, "HS-1", true).
			Return(&payment.Settlement{Settled: true, Message: payment.MsgCODCollected}, nil)

		w, body := env.do(http.MethodPost, "/api/payments/cash-on-delivery/collect",
			`{"orderNumber":"HS-1","collected":true}`, asAdmin(t))
		assert.Equal(t, http.StatusOK, w.Code)
		assert.True(t, body.Success)
	})
}

func TestPaymentStatus(t *testing.T) {
	env := newTestEnv(t, false)
	env.orders.On("GetPaymentStatus", mock.Anything, "HS-1").Return(&order.PaymentStatusView{
		OrderNumber: "HS-1", PaymentStatus: order.PaymentCompleted,
	}, nil)

	w, body := env.do(http.MethodGet, "/api/payments/status/HS-1", "")
	assert.Equal(t, http.StatusOK, w.Code)
	assert.Equal(t, "completed", body.Data.(map[string]any)["paymentStatus"])
}

func TestProductRoutes(t *testing.T) {
	t.Run("List", func(t *testing.T) {
		env := newTestEnv(t, false)
		env.products.On("List", mock.Anything, product.ListOptions{FeaturedOnly: true, Limit: 3}).
			Return([]*product.Product{{Slug: "resin-30g"}}, nil)

		w, _ := env.do(http.MethodGet, "/api/products?featured=true&limit=3", "")
		assert.Equal(t, http.StatusOK, w.Code)
	})

	t.Run("Featured", func(t *testing.T) {
		env := newTestEnv(t, false)
		env.products.On("Featured", mock.Anything, 0).Return([]*product.Product{}, nil)

		w, _ := env.do(http.MethodGet, "/api/products/featured", "")
		assert.Equal(t, http.StatusOK, w.Code)
		env.products.AssertExpectations(t)
	})

	t.Run("Get missing is 404", func(t *testing.T) {
		env := newTestEnv(t, false)
		env.products.On("GetBySlug", mock.Anything, "nope").Return(nil, product.ErrProductNotFound)

		w, body := env.do(http.MethodGet, "/api/products/nope", "")
		assert.Equal(t, http.StatusNotFound, w.Code)
		assert.Equal(t, "Product not found", body.Message)
	})

	t.Run("Create requires admin", func(t *testing.T) {
		w, _ := newTestEnv(t, true).do(http.MethodPost, "/api/products", `{}`)
		assert.Equal(t, http.StatusUnauthorized, w.Code)
	})

	t.Run("Create slug taken", func(t *testing.T) {
		env := newTestEnv(t, true)
		env.products.On("Create", mock.Anything, mock.Anything).Return(nil, product.ErrSlugTaken)

		w, _ := env.do(http.MethodPost, "/api/products", `{"name":"Resin","description":"x","price":"49.99"}`, asAdmin(t))
		assert.Equal(t, http.StatusConflict, w.Code)
	})

	t.Run("Delete", func(t *testing.T) {
		env := newTestEnv(t, true)
		env.products.On("Delete", mock.Anything, "p1").Return(nil)

		w, body := env.do(http.MethodDelete, "/api/products/p1", "", asAdmin(t))
		assert.Equal(t, http.StatusOK, w.Code)
		assert.Equal(t, "Product deleted successfully", body.Message)
	})
}

func TestAIRoutes(t *testing.T) {
	t.Run("Chatbot", func(t *testing.T) {
		env := newTestEnv(t, false)
		env.assistant.On("Chat", mock.Anything, "hi").Return(&ai.ChatReply{OK: true, Response: "Hello", Suggestions: []string{"a"}}, nil)

		w, body := env.do(http.MethodPost, "/api/ai/chatbot", `{"message":"hi"}`)
		assert.Equal(t, http.StatusOK, w.Code)
		assert.True(t, body.Success)
		assert.Equal(t, "Hello", body.Data.(map[string]any)["response"])
	})

	t.Run("Chatbot missing message", func(t *testing.T) {
		env := newTestEnv(t, false)
		env.assistant.On("Chat", mock.Anything, "").Return(nil, apperror.Validation("Message is required"))

		w, body := env.do(http.MethodPost, "/api/ai/chatbot", `{}`)
		assert.Equal(t, http.StatusBadRequest, w.Code)
		assert.Equal(t, "Message is required", body.Message)
	})

	t.Run("Recommendations without body", func(t *testing.T) {
		env := newTestEnv(t, false)
		env.assistant.On("Recommend", mock.Anything, map[string]any(nil)).
			Return(&ai.Recommendations{Message: ai.MsgFeaturedForYou}, nil)

		w, body := env.do(http.MethodPost, "/api/ai/recommendations", "")
		assert.Equal(t, http.StatusOK, w.Code)
		assert.Equal(t, ai.MsgFeaturedForYou, body.Message)
	})

	t.Run("Enhance applies", func(t *testing.T) {
		env := newTestEnv(t, true)
		env.assistant.On("EnhanceDescription", mock.Anything, "p1", true).
			Return(&ai.Enhancement{Original: "a", Enhanced: "b", Applied: true}, nil)

		w, _ := env.do(http.MethodPost, "/api/ai/enhance-product/p1?apply=true", "", asAdmin(t))
		assert.Equal(t, http.StatusOK, w.Code)
		env.assistant.AssertExpectations(t)
	})
}

func TestAdminLogin(t *testing.T) {
	t.Run("Sets cookie", func(t *testing.T) {
		env := newTestEnv(t, true)
		expires := time.Now().Add(24 * time.Hour)
		env.auth.On("Login", mock.Anything, auth.LoginInput{Email: "admin@example.com", Password: "pw"}).
			Return(&auth.Session{Token: "tok", Email: "admin@example.com", Role: auth.RoleAdmin, ExpiresAt: expires}, nil)

		w, body := env.do(http.MethodPost, "/api/admin/login", `{"email":"admin@example.com","password":"pw"}`)
		assert.Equal(t, http.StatusOK, w.Code)
		assert.True(t, body.Success)

		cookies := w.Result().Cookies()
		require.Len(t, cookies, 1)
		assert.Equal(t, auth.AccessTokenCookie, cookies[0].Name)
		assert.Equal(t, "tok", cookies[0].Value)
		assert.True(t, cookies[0].HttpOnly)
		assert.True(t, cookies[0].Secure)
	})

	t.Run("Bad credentials", func(t *testing.T) {
		env := newTestEnv(t, true)
		env.auth.On("Login", mock.Anything, mock.Anything).Return(nil, auth.ErrInvalidCredentials)

		w, body := env.do(http.MethodPost, "/api/admin/login", `{"email":"admin@example.com","password":"x"}`)
		assert.Equal(t, http.StatusUnauthorized, w.Code)
		assert.Equal(t, "Invalid email or password", body.Message)
	})
}
