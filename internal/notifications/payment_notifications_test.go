package notifications

import (
	"context"
	"errors"
	"testing"

	"paygate/internal/domain/transactions"
	"paygate/internal/payments"

	"github.com/9ssi7/exponent"
	"github.com/google/uuid"
	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type recordingSender struct {
	sent []*exponent.Message
	err  error
}

func (s *recordingSender) Publish(ctx context.Context, msgs []*exponent.Message) ([]*exponent.MessageResponse, error) {
	s.sent = append(s.sent, msgs...)
	return nil, s.err
}

func (s *recordingSender) PublishSingle(ctx context.Context, msg *exponent.Message) ([]*exponent.MessageResponse, error) {
	s.sent = append(s.sent, msg)
	return nil, s.err
}

func transaction(status payments.TransactionStatus, token string) *transactions.Transaction {
	tx := &transactions.Transaction{
		PaymentID: uuid.New(),
		Gateway:   payments.GatewayPlatega,
		Amount:    decimal.RequireFromString("10.5"),
		Currency:  payments.CurrencyRUB,
		Status:    status,
	}
	if token != "" {
		tx.PushToken = &token
	}
	return tx
}

func TestSendTransactionNotification(t *testing.T) {
	t.Run("completed", func(t *testing.T) {
		push := &recordingSender{}
		tx := transaction(payments.TransactionCompleted, "ExponentPushToken[abc]")

		require.NoError(t, SendTransactionNotification(context.Background(), push, tx))
		require.Len(t, push.sent, 1)

		msg := push.sent[0]
		assert.Equal(t, "Payment Received", msg.Title)
		assert.Contains(t, msg.Body, "10.50 RUB")
		require.Len(t, msg.To, 1)
		assert.Equal(t, exponent.Token("ExponentPushToken[abc]"), *msg.To[0])
		assert.Equal(t, "COMPLETED", msg.Data["status"])
		assert.Equal(t, tx.PaymentID.String(), msg.Data["paymentId"])
	})

	t.Run("canceled", func(t *testing.T) {
		push := &recordingSender{}
		require.NoError(t, SendTransactionNotification(context.Background(), push, transaction(payments.TransactionCanceled, "tok")))
		assert.Equal(t, "Payment Canceled", push.sent[0].Title)
	})

	t.Run("no token", func(t *testing.T) {
		push := &recordingSender{}
		err := SendTransactionNotification(context.Background(), push, transaction(payments.TransactionCompleted, ""))
		assert.ErrorIs(t, err, ErrNoPushToken)
		assert.Empty(t, push.sent)
	})

	t.Run("sender error", func(t *testing.T) {
		boom := errors.New("expo down")
		push := &recordingSender{err: boom}
		err := SendTransactionNotification(context.Background(), push, transaction(payments.TransactionCompleted, "tok"))
		assert.ErrorIs(t, err, boom)
	})
}

func TestBotLink(t *testing.T) {
	url, err := NewBotLink("@shop_bot").RedirectURL(context.Background())
	require.NoError(t, err)
	assert.Equal(t, "https://t.me/shop_bot", url)

	url, err = NewBotLink(" shop_bot ").RedirectURL(context.Background())
	require.NoError(t, err)
	assert.Equal(t, "https://t.me/shop_bot", url)

	_, err = NewBotLink("").RedirectURL(context.Background())
	assert.ErrorIs(t, err, ErrMissingBotUsername)
}
