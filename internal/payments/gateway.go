package payments

import (
	"context"
	"net/http"
	"time"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"
)

// PaymentGateway defines a common interface for all payment providers
type PaymentGateway interface {
	Type() GatewayType
	CreatePayment(ctx context.Context, amount decimal.Decimal, details string) (PaymentResult, error)
	// HandleWebhook verifies a provider callback and returns the provider
	// transaction id with the status it moved to.
	HandleWebhook(r *http.Request) (uuid.UUID, TransactionStatus, error)
}

// RedirectURLProvider returns the page the payer lands on after leaving the provider.
type RedirectURLProvider interface {
	RedirectURL(ctx context.Context) (string, error)
}

// AppConfig carries the application settings gateways depend on.
type AppConfig struct {
	// HTTPTimeout is handed to the provider http.Client unchanged. Zero means no timeout.
	HTTPTimeout time.Duration
}
