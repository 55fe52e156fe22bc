package handler

import (
	"encoding/json"
	"io"
	"net/http"

	"shilajit-be/internal/apperror"
	"shilajit-be/internal/logger"
	"shilajit-be/internal/payment"

	"github.com/go-chi/chi/v5"
	"go.uber.org/zap"
)

type orderNumberRequest struct {
	OrderNumber string `json:"orderNumber"`
}

type verifyBankRequest struct {
	OrderNumber          string `json:"orderNumber"`
	TransactionReference string `json:"transactionReference"`
	Verified             bool   `json:"verified"`
}

type collectCODRequest struct {
	OrderNumber string `json:"orderNumber"`
	Collected   bool   `json:"collected"`
}

func (h *Handler) InitiateWallet(w http.ResponseWriter, r *http.Request) {
	var req orderNumberRequest
	if err := decodeJSON(w, r, &req); err != nil {
		h.writeError(w, r, err)
		return
	}

	res, err := h.payments.InitiateWallet(r.Context(), req.OrderNumber)
	if err != nil {
		h.writeError(w, r, err)
		return
	}
	ok(w, res, res.Message)
}

func (h *Handler) WalletCallback(w http.ResponseWriter, r *http.Request) {
	log := logger.FromCtx(r.Context()).With(zap.String("layer", "handler"))

	if err := h.gateway.VerifyCallback(r); err != nil {
		log.Warn("wallet callback rejected", zap.Error(err))
		h.writeError(w, r, err)
		return
	}

	raw, err := io.ReadAll(http.MaxBytesReader(w, r.Body, maxBodyBytes))
	if err != nil {
		h.writeError(w, r, apperror.Validation("invalid request body"))
		return
	}

	var cb payment.WalletCallback
	if err := json.Unmarshal(raw, &cb); err != nil {
		h.writeError(w, r, apperror.Validation("invalid request body"))
		return
	}
	cb.Raw = raw

	h.writeSettlement(w, r)(h.payments.HandleWalletCallback(r.Context(), cb))
}

func (h *Handler) InitiateBankTransfer(w http.ResponseWriter, r *http.Request) {
	var input payment.BankTransferInput
	if err := decodeJSON(w, r, &input); err != nil {
		h.writeError(w, r, err)
		return
	}

	res, err := h.payments.InitiateBankTransfer(r.Context(), input)
	if err != nil {
		h.writeError(w, r, err)
		return
	}
	ok(w, res, "")
}

func (h *Handler) VerifyBankTransfer(w http.ResponseWriter, r *http.Request) {
	var req verifyBankRequest
	if err := decodeJSON(w, r, &req); err != nil {
		h.writeError(w, r, err)
		return
	}

	h.writeSettlement(w, r)(h.payments.VerifyBankTransfer(r.Context(), req.OrderNumber, req.TransactionReference, req.Verified))
}

func (h *Handler) ConfirmCOD(w http.ResponseWriter, r *http.Request) {
	var req orderNumberRequest
	if err := decodeJSON(w, r, &req); err != nil {
		h.writeError(w, r, err)
		return
	}

	res, err := h.payments.ConfirmCashOnDelivery(r.Context(), req.OrderNumber)
	if err != nil {
		h.writeError(w, r, err)
		return
	}
	ok(w, res, res.Message)
}

func (h *Handler) CollectCOD(w http.ResponseWriter, r *http.Request) {
	var req collectCODRequest
	if err := decodeJSON(w, r, &req); err != nil {
		h.writeError(w, r, err)
		return
	}

	h.writeSettlement(w, r)(h.payments.CollectCashOnDelivery(r.Context(), req.OrderNumber, req.Collected))
}

func (h *Handler) PaymentStatus(w http.ResponseWriter, r *http.Request) {
	view, err := h.orders.GetPaymentStatus(r.Context(), chi.URLParam(r, "orderNumber"))
	if err != nil {
		h.writeError(w, r, err)
		return
	}
	ok(w, view, "")
}

// writeSettlement answers 200 for both outcomes. An unsettled attempt has
// success=false.
func (h *Handler) writeSettlement(w http.ResponseWriter, r *http.Request) func(*payment.Settlement, error) {
	return func(s *payment.Settlement, err error) {
		if err != nil {
			h.writeError(w, r, err)
			return
		}
		writeJSON(w, http.StatusOK, Envelope{Success: s.Settled, Data: s, Message: s.Message})
	}
}
