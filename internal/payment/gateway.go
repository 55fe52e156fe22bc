package payment

import (
	"crypto/subtle"
	"errors"
	"net/http"
	"net/url"
	"strings"
	"time"

	"shilajit-be/internal/logger"
	"shilajit-be/internal/utils"
)

const (
	walletReferencePrefix = "EP"
	CallbackTokenHeader   = "X-Callback-Token"
)

var ErrInvalidCallbackToken = errors.New("invalid callback token")

// Gateway is the wallet-redirect provider surface used at initiation and on
// callback.
type Gateway interface {
	NewReference(now time.Time) string
	PaymentURL(reference string) string
	QRCodeURL(reference string) string
	VerifyCallback(r *http.Request) error
}

type easypaisaGateway struct {
	paymentBaseURL string
	qrBaseURL      string
	callbackToken  string
}

func NewEasypaisaGateway(paymentBaseURL, qrBaseURL, callbackToken string) Gateway {
	if callbackToken == "" {
		logger.L().Warn("Easypaisa callback token is empty, callbacks are not authenticated")
	}

	return &easypaisaGateway{
		paymentBaseURL: strings.TrimRight(paymentBaseURL, "/"),
		qrBaseURL:      qrBaseURL,
		callbackToken:  callbackToken,
	}
}

// NewReference returns "EP-<unix millis>-<9 base36 chars>".
func (g *easypaisaGateway) NewReference(now time.Time) string {
	return utils.GenerateReference(walletReferencePrefix, now)
}

func (g *easypaisaGateway) PaymentURL(reference string) string {
	return g.paymentBaseURL + "/" + url.PathEscape(reference)
}

func (g *easypaisaGateway) QRCodeURL(reference string) string {
	return g.qrBaseURL + url.QueryEscape(reference)
}

func (g *easypaisaGateway) VerifyCallback(r *http.Request) error {
	if g.callbackToken == "" {
		return nil
	}

	got := r.Header.Get(CallbackTokenHeader)
	if subtle.ConstantTimeCompare([]byte(got), []byte(g.callbackToken)) != 1 {
		return ErrInvalidCallbackToken
	}
	return nil
}
