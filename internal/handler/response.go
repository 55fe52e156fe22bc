package handler

import (
	"encoding/json"
	"errors"
	"net/http"
	"unicode"
	"unicode/utf8"

	"shilajit-be/internal/apperror"
	"shilajit-be/internal/auth"
	"shilajit-be/internal/logger"
	"shilajit-be/internal/order"
	"shilajit-be/internal/payment"
	"shilajit-be/internal/product"

	"go.uber.org/zap"
)

const msgInternal = "Something went wrong!"

// Envelope is the body of every API response.
type Envelope struct {
	Success bool   `json:"success"`
	Data    any    `json:"data,omitempty"`
	Message string `json:"message,omitempty"`
}

func writeJSON(w http.ResponseWriter, status int, body Envelope) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	if err := json.NewEncoder(w).Encode(body); err != nil {
		logger.L().Warn("failed to encode response", zap.Error(err))
	}
}

func ok(w http.ResponseWriter, data any, message string) {
	writeJSON(w, http.StatusOK, Envelope{Success: true, Data: data, Message: message})
}

func created(w http.ResponseWriter, data any, message string) {
	writeJSON(w, http.StatusCreated, Envelope{Success: true, Data: data, Message: message})
}

func fail(w http.ResponseWriter, status int, message string) {
	writeJSON(w, status, Envelope{Success: false, Message: message})
}

const maxBodyBytes = 1 << 20

func decodeJSON(w http.ResponseWriter, r *http.Request, dst any) error {
	dec := json.NewDecoder(http.MaxBytesReader(w, r.Body, maxBodyBytes))
	if err := dec.Decode(dst); err != nil {
		return apperror.Validation("invalid request body")
	}
	return nil
}

// statusFor maps domain errors onto HTTP status codes. Unknown errors are 500.
func statusFor(err error) int {
	switch {
	case errors.Is(err, apperror.ErrValidation),
		errors.Is(err, product.ErrProductNotFound),
		errors.Is(err, order.ErrInsufficientStock),
		errors.Is(err, payment.ErrWrongPaymentMethod):
		return http.StatusBadRequest
	case errors.Is(err, order.ErrOrderNotFound):
		return http.StatusNotFound
	case errors.Is(err, product.ErrSlugTaken):
		return http.StatusConflict
	case errors.Is(err, payment.ErrInvalidCallbackToken),
		errors.Is(err, auth.ErrInvalidCredentials):
		return http.StatusUnauthorized
	default:
		return http.StatusInternalServerError
	}
}

func (h *Handler) writeError(w http.ResponseWriter, r *http.Request, err error) {
	status := statusFor(err)
	message := capitalize(apperror.Message(err))

	if status == http.StatusInternalServerError {
		logger.FromCtx(r.Context()).Error("request failed",
			zap.String("layer", "handler"),
			zap.String("path", r.URL.Path),
			zap.Error(err),
		)
		if h.production {
			message = msgInternal
		}
	}

	fail(w, status, message)
}

func capitalize(s string) string {
	r, size := utf8.DecodeRuneInString(s)
	if r == utf8.RuneError {
		return s
	}
	return string(unicode.ToUpper(r)) + s[size:]
}
