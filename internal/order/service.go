package order

import (
	"context"
	"errors"
	"fmt"
	"strings"
	"time"

	"shilajit-be/internal/apperror"
	"shilajit-be/internal/logger"
	"shilajit-be/internal/notification"
	"shilajit-be/internal/product"
	"shilajit-be/internal/utils"

	"github.com/shopspring/decimal"
	"go.uber.org/zap"
)

type Service interface {
	CreateOrder(ctx context.Context, input CreateOrderInput) (*CreateResult, error)
	GetOrder(ctx context.Context, orderNumber string) (*Order, error)
	GetPaymentStatus(ctx context.Context, orderNumber string) (*PaymentStatusView, error)
	UpdateOrderStatus(ctx context.Context, orderNumber string, input UpdateStatusInput) (*Order, error)
	ListOrders(ctx context.Context, input ListInput) ([]*Order, error)
}

type service struct {
	repo      Repository
	catalog   product.Lookup
	notifier  notification.Recorder
	pricing   Pricing
	now       func() time.Time
	newNumber func(time.Time) string
}

func NewService(repo Repository, catalog product.Lookup, notifier notification.Recorder, pricing Pricing) Service {
	return &service{
		repo:      repo,
		catalog:   catalog,
		notifier:  notifier,
		pricing:   pricing,
		now:       time.Now,
		newNumber: NewOrderNumber,
	}
}

// CreateResult is the persisted order and the confirmation intent recorded
// for it. Intent is nil when the outbox rejected it.
type CreateResult struct {
	Order  *Order
	Intent *notification.Intent
}

func (s *service) CreateOrder(ctx context.Context, input CreateOrderInput) (*CreateResult, error) {
	log := logger.FromCtx(ctx).With(
		zap.String("layer", "service"),
		zap.String("method", "CreateOrder"),
	)

	if err := input.Validate(); err != nil {
		log.Warn("invalid order request", zap.Error(err))
		return nil, err
	}

	items := make([]Item, 0, len(input.Items))
	subtotal := decimal.Zero

	for i, req := range input.Items {
		refs, err := product.ParseReferences(req.ProductID.String(), req.Slug, req.Name)
		if err != nil {
			return nil, fmt.Errorf("item %d: %w", i+1, err)
		}

		p, err := product.Resolve(ctx, s.catalog, refs)
		if err != nil {
			log.Warn("product lookup failed", zap.Int("item", i+1), zap.Error(err))
			return nil, err
		}

		if p.StockQuantity < req.Quantity {
			log.Warn("insufficient stock",
				zap.String("product_id", p.ID),
				zap.Int("requested", req.Quantity),
				zap.Int("available", p.StockQuantity),
			)
			return nil, fmt.Errorf("%w for %s", ErrInsufficientStock, p.Name)
		}

		subtotal = subtotal.Add(p.Price.Mul(decimal.NewFromInt(int64(req.Quantity))))
		items = append(items, Item{
			ProductID: p.ID,
			Name:      p.Name,
			Price:     p.Price,
			Quantity:  req.Quantity,
			Image:     utils.FirstOrEmpty(p.Images),
		})
	}

	shipping := s.pricing.ShippingFor(subtotal)
	method := input.PaymentMethod

	o := &Order{
		Customer:      input.Customer.toCustomer(),
		Items:         items,
		Subtotal:      subtotal,
		Shipping:      shipping,
		Total:         subtotal.Add(shipping),
		PaymentMethod: method,
		PaymentStatus: PaymentPending,
		OrderStatus:   StatusPending,
		Notes:         strings.TrimSpace(input.Notes),
	}
	if method == MethodCashOnDelivery {
		o.OrderStatus = StatusProcessing
	}

	if err := s.persist(ctx, o); err != nil {
		log.Error("failed to persist order", zap.Error(err))
		return nil, err
	}

	log.Info("order created",
		zap.String("order_number", o.OrderNumber),
		zap.String("payment_method", string(o.PaymentMethod)),
		zap.String("total", o.Total.StringFixed(2)),
	)

	kind := notification.KindOrderConfirmation
	if method == MethodCashOnDelivery {
		kind = notification.KindCODConfirmation
	}

	res := &CreateResult{Order: o}
	intent := NotificationIntent(kind, o)
	if notification.Dispatch(ctx, s.notifier, intent) {
		res.Intent = &intent
	}
	return res, nil
}

// persist writes o under a fresh order number, drawing a new one only when
// the store reports a collision.
func (s *service) persist(ctx context.Context, o *Order) error {
	for attempt := 1; attempt <= maxOrderNumberTries; attempt++ {
		o.OrderNumber = s.newNumber(s.now())
		o.ID = ""

		err := s.repo.Create(ctx, o)
		if err == nil {
			return nil
		}
		if !errors.Is(err, ErrDuplicateOrderNumber) {
			return err
		}
		logger.FromCtx(ctx).Warn("order number collision, regenerating",
			zap.String("order_number", o.OrderNumber),
			zap.Int("attempt", attempt),
		)
	}
	return ErrOrderNumberExhausted
}

func (s *service) GetOrder(ctx context.Context, orderNumber string) (*Order, error) {
	orderNumber = strings.TrimSpace(orderNumber)
	if orderNumber == "" {
		return nil, ErrOrderNotFound
	}
	return s.repo.FindByOrderNumber(ctx, orderNumber)
}

func (s *service) GetPaymentStatus(ctx context.Context, orderNumber string) (*PaymentStatusView, error) {
	o, err := s.GetOrder(ctx, orderNumber)
	if err != nil {
		return nil, err
	}
	return &PaymentStatusView{
		OrderNumber:   o.OrderNumber,
		PaymentStatus: o.PaymentStatus,
		OrderStatus:   o.OrderStatus,
		Total:         o.Total,
		PaymentMethod: o.PaymentMethod,
	}, nil
}

func (s *service) UpdateOrderStatus(ctx context.Context, orderNumber string, input UpdateStatusInput) (*Order, error) {
	log := logger.FromCtx(ctx).With(
		zap.String("layer", "service"),
		zap.String("method", "UpdateOrderStatus"),
		zap.String("order_number", orderNumber),
	)

	status := OrderStatus(strings.TrimSpace(string(input.OrderStatus)))
	if !status.Valid() {
		return nil, apperror.Validation("orderStatus must be one of pending, processing, shipped, delivered, cancelled")
	}

	upd := StatusUpdate{OrderStatus: &status}
	if tn := strings.TrimSpace(input.TrackingNumber); tn != "" {
		upd.TrackingNumber = &tn
	}

	if err := s.repo.UpdateStatus(ctx, orderNumber, upd); err != nil {
		log.Warn("failed to update order status", zap.Error(err))
		return nil, err
	}

	o, err := s.repo.FindByOrderNumber(ctx, orderNumber)
	if err != nil {
		return nil, err
	}

	log.Info("order status updated", zap.String("order_status", string(status)))

	if status == StatusShipped {
		notification.Dispatch(ctx, s.notifier, NotificationIntent(notification.KindOrderShipped, o))
	}
	return o, nil
}

func (s *service) ListOrders(ctx context.Context, input ListInput) ([]*Order, error) {
	if input.Page <= 0 {
		input.Page = 1
	}
	if input.Limit <= 0 {
		input.Limit = 20
	} else if input.Limit > 100 {
		input.Limit = 100
	}
	if input.OrderStatus != "" && !input.OrderStatus.Valid() {
		return nil, apperror.Validation("unknown order status %q", input.OrderStatus)
	}

	return s.repo.List(ctx, ListFilter{
		OrderStatus: input.OrderStatus,
		Limit:       input.Limit,
		Offset:      (input.Page - 1) * input.Limit,
	})
}
