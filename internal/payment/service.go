package payment

import (
	"context"
	"fmt"
	"strings"
	"time"

	"shilajit-be/internal/apperror"
	"shilajit-be/internal/logger"
	"shilajit-be/internal/notification"
	"shilajit-be/internal/order"

	"go.uber.org/zap"
)

const providerEasypaisa = "easypaisa"

type Service interface {
	InitiateWallet(ctx context.Context, orderNumber string) (*WalletInitiation, error)
	InitiateBankTransfer(ctx context.Context, input BankTransferInput) (*BankTransferInstructions, error)
	ConfirmCashOnDelivery(ctx context.Context, orderNumber string) (*CODConfirmation, error)

	HandleWalletCallback(ctx context.Context, cb WalletCallback) (*Settlement, error)
	VerifyBankTransfer(ctx context.Context, orderNumber, reference string, verified bool) (*Settlement, error)
	CollectCashOnDelivery(ctx context.Context, orderNumber string, collected bool) (*Settlement, error)
}

type service struct {
	orders    order.Repository
	gateway   Gateway
	callbacks CallbackLog
	notifier  notification.Recorder
	bank      BankAccount
	now       func() time.Time
}

func NewService(
	orders order.Repository,
	gateway Gateway,
	callbacks CallbackLog,
	notifier notification.Recorder,
	bank BankAccount,
) Service {
	return &service{
		orders:    orders,
		gateway:   gateway,
		callbacks: callbacks,
		notifier:  notifier,
		bank:      bank,
		now:       time.Now,
	}
}

func (s *service) findOrder(ctx context.Context, orderNumber string) (*order.Order, error) {
	orderNumber = strings.TrimSpace(orderNumber)
	if orderNumber == "" {
		return nil, apperror.Validation("orderNumber is required")
	}
	return s.orders.FindByOrderNumber(ctx, orderNumber)
}

/* ---------- INITIATION ---------- */

func (s *service) InitiateWallet(ctx context.Context, orderNumber string) (*WalletInitiation, error) {
	log := logger.FromCtx(ctx).With(
		zap.String("layer", "service"),
		zap.String("method", "InitiateWallet"),
		zap.String("order_number", orderNumber),
	)

	o, err := s.findOrder(ctx, orderNumber)
	if err != nil {
		return nil, err
	}

	ref := s.gateway.NewReference(s.now())
	if err := s.orders.SetTransactionID(ctx, o.OrderNumber, ref); err != nil {
		log.Error("failed to store transaction reference", zap.Error(err))
		return nil, err
	}

	log.Info("wallet payment initiated", zap.String("transaction_ref", ref))

	return &WalletInitiation{
		TransactionRef: ref,
		PaymentURL:     s.gateway.PaymentURL(ref),
		QRCode:         s.gateway.QRCodeURL(ref),
		Message:        MsgWalletInitiated,
		Steps: InjectVariables(GetInstructions(order.MethodWallet), InstructionVars{
			"amount":    o.Total.StringFixed(2),
			"reference": ref,
		}),
	}, nil
}

func (s *service) InitiateBankTransfer(ctx context.Context, input BankTransferInput) (*BankTransferInstructions, error) {
	log := logger.FromCtx(ctx).With(
		zap.String("layer", "service"),
		zap.String("method", "InitiateBankTransfer"),
		zap.String("order_number", input.OrderNumber),
	)

	input.TransactionReference = strings.TrimSpace(input.TransactionReference)
	if err := apperror.Struct(input); err != nil {
		return nil, err
	}

	o, err := s.findOrder(ctx, input.OrderNumber)
	if err != nil {
		return nil, err
	}

	if err := s.orders.SetBankReference(ctx, o.OrderNumber, input.TransactionReference); err != nil {
		log.Error("failed to store bank reference", zap.Error(err))
		return nil, err
	}

	amount := o.Total.StringFixed(2)
	log.Info("bank transfer reference recorded",
		zap.String("reference", input.TransactionReference),
		zap.String("bank_name", input.BankName),
	)

	return &BankTransferInstructions{
		BankDetails:          s.bank,
		TransactionReference: input.TransactionReference,
		Amount:               o.Total,
		Instructions:         fmt.Sprintf(bankInstructionTemplate, amount, input.TransactionReference),
		Steps: InjectVariables(GetInstructions(order.MethodBankTransfer), InstructionVars{
			"amount":    amount,
			"reference": input.TransactionReference,
		}),
	}, nil
}

func (s *service) ConfirmCashOnDelivery(ctx context.Context, orderNumber string) (*CODConfirmation, error) {
	log := logger.FromCtx(ctx).With(
		zap.String("layer", "service"),
		zap.String("method", "ConfirmCashOnDelivery"),
		zap.String("order_number", orderNumber),
	)

	o, err := s.findOrder(ctx, orderNumber)
	if err != nil {
		return nil, err
	}
	if o.PaymentMethod != order.MethodCashOnDelivery {
		log.Warn("cod confirm on non-cod order", zap.String("payment_method", string(o.PaymentMethod)))
		return nil, ErrWrongPaymentMethod
	}

	processing := order.StatusProcessing
	if err := s.orders.UpdateStatus(ctx, o.OrderNumber, order.StatusUpdate{OrderStatus: &processing}); err != nil {
		log.Error("failed to confirm cod order", zap.Error(err))
		return nil, err
	}

	return &CODConfirmation{
		OrderNumber:   o.OrderNumber,
		PaymentMethod: order.MethodCashOnDelivery,
		Total:         o.Total,
		Message:       MsgCODConfirmed,
		Instructions:  MsgCODDeliveryNote,
		Steps: InjectVariables(GetInstructions(order.MethodCashOnDelivery), InstructionVars{
			"amount": o.Total.StringFixed(2),
		}),
	}, nil
}

/* ---------- SETTLEMENT ---------- */

// complete marks o paid with the given fulfilment status and records the
// payment confirmation intent.
func (s *service) complete(ctx context.Context, o *order.Order, status order.OrderStatus) error {
	paid := order.PaymentCompleted
	if err := s.orders.UpdateStatus(ctx, o.OrderNumber, order.StatusUpdate{
		PaymentStatus: &paid,
		OrderStatus:   &status,
	}); err != nil {
		return err
	}

	o.PaymentStatus = paid
	o.OrderStatus = status
	notification.Dispatch(ctx, s.notifier, order.NotificationIntent(notification.KindPaymentSuccess, o))
	return nil
}

func (s *service) HandleWalletCallback(ctx context.Context, cb WalletCallback) (*Settlement, error) {
	log := logger.FromCtx(ctx).With(
		zap.String("layer", "service"),
		zap.String("method", "HandleWalletCallback"),
		zap.String("transaction_ref", cb.TransactionRef),
		zap.String("status", cb.Status),
	)

	if strings.TrimSpace(cb.TransactionRef) == "" {
		return nil, apperror.Validation("transactionRef is required")
	}

	auditID := s.audit(ctx, log, cb)

	o, err := s.orders.FindByTransactionID(ctx, cb.TransactionRef)
	if err != nil {
		s.auditFailed(ctx, log, auditID, err)
		return nil, err
	}
	log = log.With(zap.String("order_number", o.OrderNumber))

	if cb.Amount != nil && !cb.Amount.Equal(o.Total) {
		log.Warn("callback amount differs from order total",
			zap.String("amount", cb.Amount.String()),
			zap.String("total", o.Total.String()),
		)
	}

	if !cb.Succeeded() {
		failed := order.PaymentFailed
		if err := s.orders.UpdateStatus(ctx, o.OrderNumber, order.StatusUpdate{PaymentStatus: &failed}); err != nil {
			s.auditFailed(ctx, log, auditID, err)
			return nil, err
		}
		o.PaymentStatus = failed
		s.auditProcessed(ctx, log, auditID)

		log.Info("wallet payment failed")
		return &Settlement{Settled: false, Message: MsgPaymentFailed, OrderNumber: o.OrderNumber, Order: o}, nil
	}

	if err := s.complete(ctx, o, order.StatusProcessing); err != nil {
		s.auditFailed(ctx, log, auditID, err)
		return nil, err
	}
	s.auditProcessed(ctx, log, auditID)

	log.Info("wallet payment confirmed")
	return &Settlement{Settled: true, Message: MsgPaymentConfirmed, OrderNumber: o.OrderNumber, Order: o}, nil
}

func (s *service) VerifyBankTransfer(ctx context.Context, orderNumber, reference string, verified bool) (*Settlement, error) {
	log := logger.FromCtx(ctx).With(
		zap.String("layer", "service"),
		zap.String("method", "VerifyBankTransfer"),
		zap.String("order_number", orderNumber),
	)

	orderNumber = strings.TrimSpace(orderNumber)
	reference = strings.TrimSpace(reference)
	if orderNumber == "" {
		return nil, apperror.Validation("orderNumber is required")
	}

	o, err := s.orders.FindByBankReference(ctx, orderNumber, reference)
	if err != nil {
		return nil, err
	}

	if !verified {
		log.Info("bank transfer rejected by admin")
		return &Settlement{Settled: false, Message: MsgBankVerifyFailed, OrderNumber: o.OrderNumber}, nil
	}

	if err := s.complete(ctx, o, order.StatusProcessing); err != nil {
		log.Error("failed to settle bank transfer", zap.Error(err))
		return nil, err
	}

	log.Info("bank transfer verified")
	return &Settlement{Settled: true, Message: MsgBankVerified, OrderNumber: o.OrderNumber, Order: o}, nil
}

func (s *service) CollectCashOnDelivery(ctx context.Context, orderNumber string, collected bool) (*Settlement, error) {
	log := logger.FromCtx(ctx).With(
		zap.String("layer", "service"),
		zap.String("method", "CollectCashOnDelivery"),
		zap.String("order_number", orderNumber),
	)

	o, err := s.findOrder(ctx, orderNumber)
	if err != nil {
		return nil, err
	}
	if o.PaymentMethod != order.MethodCashOnDelivery {
		return nil, ErrWrongPaymentMethod
	}

	if !collected {
		log.Info("cod collection reported as failed")
		return &Settlement{Settled: false, Message: MsgCODCollectFailed, OrderNumber: o.OrderNumber}, nil
	}

	if err := s.complete(ctx, o, order.StatusDelivered); err != nil {
		log.Error("failed to settle cod order", zap.Error(err))
		return nil, err
	}

	log.Info("cod payment collected")
	return &Settlement{Settled: true, Message: MsgCODCollected, OrderNumber: o.OrderNumber, Order: o}, nil
}

/* ---------- CALLBACK AUDIT ---------- */

func (s *service) audit(ctx context.Context, log *zap.Logger, cb WalletCallback) int64 {
	if s.callbacks == nil {
		return 0
	}
	id, err := s.callbacks.Record(ctx, providerEasypaisa, cb.TransactionRef, cb.Status, cb.Raw)
	if err != nil {
		log.Warn("failed to record payment callback", zap.Error(err))
		return 0
	}
	return id
}

func (s *service) auditProcessed(ctx context.Context, log *zap.Logger, id int64) {
	if s.callbacks == nil || id == 0 {
		return
	}
	if err := s.callbacks.MarkProcessed(ctx, id); err != nil {
		log.Warn("failed to mark payment callback processed", zap.Error(err))
	}
}

func (s *service) auditFailed(ctx context.Context, log *zap.Logger, id int64, cause error) {
	if s.callbacks == nil || id == 0 {
		return
	}
	if err := s.callbacks.MarkFailed(ctx, id, cause.Error()); err != nil {
		log.Warn("failed to mark payment callback failed", zap.Error(err))
	}
}
