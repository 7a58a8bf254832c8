package transactions

import (
	"context"
	"errors"
	"fmt"

	"paygate/internal/infra/dbx"
	"paygate/internal/payments"

	"github.com/google/uuid"
	"github.com/jackc/pgx/v5"
)

const schema = `
CREATE TABLE IF NOT EXISTS transactions (
	id          BIGSERIAL PRIMARY KEY,
	payment_id  UUID NOT NULL UNIQUE,
	gateway     TEXT NOT NULL,
	amount      NUMERIC(12, 2) NOT NULL,
	currency    TEXT NOT NULL,
	status      TEXT NOT NULL DEFAULT 'PENDING',
	details     TEXT NOT NULL DEFAULT '',
	push_token  TEXT,
	created_at  TIMESTAMPTZ NOT NULL DEFAULT now(),
	updated_at  TIMESTAMPTZ NOT NULL DEFAULT now()
)`

const columns = `id, payment_id, gateway, amount, currency, status, details, push_token, created_at, updated_at`

type Repository struct{ q dbx.Querier }

var _ Store = (*Repository)(nil)

func NewRepository(q dbx.Querier) *Repository { return &Repository{q: q} }

// EnsureSchema creates the transactions table when it does not exist yet.
func (r *Repository) EnsureSchema(ctx context.Context) error {
	if _, err := r.q.Exec(ctx, schema); err != nil {
		return fmt.Errorf("create transactions table: %w", err)
	}
	return nil
}

func (r *Repository) Create(ctx context.Context, t *Transaction) (*Transaction, error) {
	if t.Status == "" {
		t.Status = payments.TransactionPending
	}
	if err := r.q.QueryRow(ctx, `
		INSERT INTO transactions (payment_id, gateway, amount, currency, status, details, push_token)
		VALUES ($1, $2, $3, $4, $5, $6, $7)
		RETURNING id, created_at, updated_at
	`, t.PaymentID, t.Gateway, t.Amount, t.Currency, t.Status, t.Details, t.PushToken).
		Scan(&t.ID, &t.CreatedAt, &t.UpdatedAt); err != nil {
		return nil, fmt.Errorf("create transaction: %w", err)
	}
	return t, nil
}

func (r *Repository) GetByPaymentID(ctx context.Context, paymentID uuid.UUID) (*Transaction, error) {
	t, err := scanTransaction(r.q.QueryRow(ctx, `SELECT `+columns+` FROM transactions WHERE payment_id=$1`, paymentID))
	if err != nil {
		return nil, fmt.Errorf("get transaction %s: %w", paymentID, err)
	}
	return t, nil
}

func (r *Repository) SetStatus(ctx context.Context, paymentID uuid.UUID, status payments.TransactionStatus) (*Transaction, error) {
	t, err := scanTransaction(r.q.QueryRow(ctx, `
		UPDATE transactions SET status=$2, updated_at=now()
		WHERE payment_id=$1
		RETURNING `+columns, paymentID, status))
	if err != nil {
		return nil, fmt.Errorf("set transaction %s status: %w", paymentID, err)
	}
	return t, nil
}

func scanTransaction(row pgx.Row) (*Transaction, error) {
	var t Transaction
	err := row.Scan(
		&t.ID, &t.PaymentID, &t.Gateway, &t.Amount, &t.Currency, &t.Status,
		&t.Details, &t.PushToken, &t.CreatedAt, &t.UpdatedAt,
	)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, ErrNotFound
		}
		return nil, err
	}
	return &t, nil
}
