package main

import (
	"errors"
	"expvar"
	"fmt"
	"net/http"

	"paygate/internal/domain/transactions"
	"paygate/internal/notifications"
	"paygate/internal/payments"

	"github.com/go-chi/chi/v5"
	"github.com/shopspring/decimal"
)

var paymentStats = expvar.NewMap("payments")

type CreatePaymentPayload struct {
	Amount    decimal.Decimal `json:"amount"`
	Details   string          `json:"details" validate:"required,max=255"`
	PushToken *string         `json:"push_token" validate:"omitempty,min=1"`
}

func (app *application) createPaymentHandler(w http.ResponseWriter, r *http.Request) {
	gatewayType := payments.ParseGatewayType(chi.URLParam(r, "gateway"))

	var payload CreatePaymentPayload
	if err := readJSON(w, r, &payload); err != nil {
		app.badRequestResponse(w, r, err)
		return
	}
	if err := Validate.Struct(payload); err != nil {
		app.badRequestResponse(w, r, err)
		return
	}
	if !payload.Amount.IsPositive() {
		app.badRequestResponse(w, r, fmt.Errorf("amount must be greater than zero"))
		return
	}

	ctx := r.Context()

	result, err := app.payments.CreatePayment(ctx, gatewayType, payload.Amount, payload.Details)
	if err != nil {
		paymentStats.Add("create_failed", 1)
		var upstream *payments.UpstreamError
		switch {
		case errors.Is(err, payments.ErrGatewayNotRegistered):
			app.notFoundResponse(w, r, err)
		case errors.As(err, &upstream), errors.Is(err, payments.ErrInvalidResponse):
			app.badGatewayResponse(w, r, err)
		default:
			app.internalServerError(w, r, err)
		}
		return
	}

	tx := &transactions.Transaction{
		PaymentID: result.ID,
		Gateway:   gatewayType,
		Amount:    payload.Amount,
		Currency:  app.currencies[gatewayType],
		Status:    payments.TransactionPending,
		Details:   payload.Details,
		PushToken: payload.PushToken,
	}
	if _, err := app.transactions.Create(ctx, tx); err != nil {
		app.internalServerError(w, r, err)
		return
	}
	paymentStats.Add("created", 1)

	if err := app.jsonResponse(w, http.StatusCreated, result); err != nil {
		app.internalServerError(w, r, err)
	}
}

func (app *application) paymentWebhookHandler(w http.ResponseWriter, r *http.Request) {
	gatewayType := payments.ParseGatewayType(chi.URLParam(r, "gateway"))

	id, status, err := app.payments.HandleWebhook(gatewayType, r)
	if err != nil {
		paymentStats.Add("webhook_rejected", 1)
		switch {
		case errors.Is(err, payments.ErrGatewayNotRegistered):
			app.notFoundResponse(w, r, err)
		case errors.Is(err, payments.ErrWebhookUnauthorized):
			app.unauthorizedErrorResponse(w, r, err)
		case errors.Is(err, payments.ErrWebhookValidation):
			app.badRequestResponse(w, r, err)
		default:
			app.internalServerError(w, r, err)
		}
		return
	}

	ctx := r.Context()

	tx, err := app.transactions.SetStatus(ctx, id, status)
	switch {
	case errors.Is(err, transactions.ErrNotFound):
		// acknowledged anyway so the provider stops retrying
		app.logger.Warnw("webhook for unknown transaction", "gateway", gatewayType, "transaction_id", id, "status", status)
	case err != nil:
		app.internalServerError(w, r, err)
		return
	default:
		paymentStats.Add(string(status), 1)
		if err := notifications.SendTransactionNotification(ctx, app.push, tx); err != nil && !errors.Is(err, notifications.ErrNoPushToken) {
			app.logger.Errorw("failed to send payment notification", "transaction_id", id, "error", err.Error())
		}
	}

	w.WriteHeader(http.StatusOK)
	w.Write([]byte("OK"))
}
