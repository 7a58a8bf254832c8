package notifications

import (
	"context"
	"errors"
	"fmt"

	"paygate/internal/domain/transactions"
	"paygate/internal/payments"

	"github.com/9ssi7/exponent"
)

var ErrNoPushToken = errors.New("no push token")

// SendTransactionNotification tells the payer that their payment settled.
func SendTransactionNotification(ctx context.Context, push PushSender, tx *transactions.Transaction) error {
	if tx.PushToken == nil || *tx.PushToken == "" {
		return ErrNoPushToken
	}

	var title, body string
	switch tx.Status {
	case payments.TransactionCompleted:
		title = "Payment Received"
		body = fmt.Sprintf("Your payment of %s %s was successful.", tx.Amount.StringFixed(2), tx.Currency)
	case payments.TransactionCanceled:
		title = "Payment Canceled"
		body = fmt.Sprintf("Your payment of %s %s was canceled.", tx.Amount.StringFixed(2), tx.Currency)
	default:
		title = "Payment Update"
		body = fmt.Sprintf("Your payment status changed to %s.", tx.Status)
	}

	token := exponent.Token(*tx.PushToken)
	msg := &exponent.Message{
		To:    []*exponent.Token{&token},
		Title: title,
		Body:  body,
		Data: map[string]string{
			"type":      "payment",
			"status":    string(tx.Status),
			"paymentId": tx.PaymentID.String(),
			"screen":    "payment-status-screen",
		},
	}

	_, err := push.PublishSingle(ctx, msg)
	return err
}
