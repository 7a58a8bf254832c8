package payments

import (
	"context"
	"fmt"
	"net/http"
	"strings"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"
)

// PaymentManager routes calls to registered gateways. Register everything
// before serving requests; lookups are not synchronised with registration.
type PaymentManager struct {
	gateways map[GatewayType]PaymentGateway
}

func NewPaymentManager() *PaymentManager {
	return &PaymentManager{gateways: make(map[GatewayType]PaymentGateway)}
}

func (m *PaymentManager) RegisterGateway(gateway PaymentGateway) {
	m.gateways[gateway.Type()] = gateway
}

// ParseGatewayType accepts the lower-case form used in URLs.
func ParseGatewayType(s string) GatewayType {
	return GatewayType(strings.ToUpper(strings.TrimSpace(s)))
}

func (m *PaymentManager) Gateway(t GatewayType) (PaymentGateway, error) {
	gateway, ok := m.gateways[t]
	if !ok {
		return nil, fmt.Errorf("%w: %s", ErrGatewayNotRegistered, t)
	}
	return gateway, nil
}

func (m *PaymentManager) CreatePayment(ctx context.Context, t GatewayType, amount decimal.Decimal, details string) (PaymentResult, error) {
	gateway, err := m.Gateway(t)
	if err != nil {
		return PaymentResult{}, err
	}
	return gateway.CreatePayment(ctx, amount, details)
}

func (m *PaymentManager) HandleWebhook(t GatewayType, r *http.Request) (uuid.UUID, TransactionStatus, error) {
	gateway, err := m.Gateway(t)
	if err != nil {
		return uuid.Nil, "", err
	}
	return gateway.HandleWebhook(r)
}
