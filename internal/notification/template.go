package notification

import (
	"bytes"
	"embed"
	"fmt"
	"html/template"
	"strings"
	"time"

	"github.com/shopspring/decimal"
)

//go:embed templates/*.html
var templateFS embed.FS

var subjects = map[Kind]string{
	KindOrderConfirmation: "Order Confirmation - %s",
	KindCODConfirmation:   "Order Confirmed - Cash on Delivery - %s",
	KindPaymentSuccess:    "Payment Confirmed - Order %s",
	KindOrderShipped:      "Your Order Has Shipped - %s",
}

var funcs = template.FuncMap{
	"money": func(d decimal.Decimal) string { return d.StringFixed(2) },
	"shipping": func(d decimal.Decimal) string {
		if d.IsZero() {
			return "FREE"
		}
		return "PKR " + d.StringFixed(2)
	},
	"method": func(m string) string { return strings.ToUpper(strings.ReplaceAll(m, "_", " ")) },
	"upper":  strings.ToUpper,
	"date":   func(t time.Time) string { return t.Format("02 Jan 2006") },
}

// Renderer turns intents into email subjects and HTML bodies.
type Renderer struct {
	tmpl         *template.Template
	frontendURL  string
	supportEmail string
	now          func() time.Time
}

type view struct {
	Data         Data
	OrderURL     string
	SupportEmail string
	Year         int
}

func NewRenderer(frontendURL, supportEmail string) (*Renderer, error) {
	tmpl, err := template.New("email").Funcs(funcs).ParseFS(templateFS, "templates/*.html")
	if err != nil {
		return nil, fmt.Errorf("failed to parse email templates: %w", err)
	}

	return &Renderer{
		tmpl:         tmpl,
		frontendURL:  strings.TrimRight(frontendURL, "/"),
		supportEmail: supportEmail,
		now:          time.Now,
	}, nil
}

func (r *Renderer) Render(intent Intent) (subject, body string, err error) {
	format, ok := subjects[intent.Kind]
	if !ok {
		return "", "", fmt.Errorf("%w: %q", ErrUnknownKind, intent.Kind)
	}

	v := view{
		Data:         intent.Data,
		OrderURL:     fmt.Sprintf("%s/order/%s", r.frontendURL, intent.Data.OrderNumber),
		SupportEmail: r.supportEmail,
		Year:         r.now().Year(),
	}

	var buf bytes.Buffer
	if err := r.tmpl.ExecuteTemplate(&buf, string(intent.Kind)+".html", v); err != nil {
		return "", "", fmt.Errorf("failed to render %s: %w", intent.Kind, err)
	}

	return fmt.Sprintf(format, intent.Data.OrderNumber), buf.String(), nil
}
