package transactions

import (
	"context"
	"errors"
	"time"

	"paygate/internal/payments"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"
)

var ErrNotFound = errors.New("transaction not found")

type Transaction struct {
	ID        int64                      `json:"id"`
	PaymentID uuid.UUID                  `json:"payment_id"` // provider transaction id
	Gateway   payments.GatewayType       `json:"gateway"`
	Amount    decimal.Decimal            `json:"amount"`
	Currency  payments.Currency          `json:"currency"`
	Status    payments.TransactionStatus `json:"status"`
	Details   string                     `json:"details"`
	PushToken *string                    `json:"-"`
	CreatedAt time.Time                  `json:"created_at"`
	UpdatedAt time.Time                  `json:"updated_at"`
}

type Store interface {
	Create(ctx context.Context, t *Transaction) (*Transaction, error)
	GetByPaymentID(ctx context.Context, paymentID uuid.UUID) (*Transaction, error)
	SetStatus(ctx context.Context, paymentID uuid.UUID, status payments.TransactionStatus) (*Transaction, error)
}
