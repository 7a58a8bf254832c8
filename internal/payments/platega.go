package payments

import (
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"

	"github.com/go-playground/validator/v10"
	"github.com/google/uuid"
	"github.com/shopspring/decimal"
	"go.uber.org/zap"
)

const (
	plategaAPIBase = "https://app.platega.io"
	plategaProcess = "transaction/process"

	// 2 is SBP QR. Not configurable yet.
	plategaPaymentMethod = 2

	headerMerchantID = "X-MerchantId"
	headerSecret     = "X-Secret"

	maxWebhookBytes = 1_048_576
)

const (
	plategaConfirmed = "CONFIRMED"
	plategaCanceled  = "CANCELED"
	plategaPending   = "PENDING"
)

var validate = validator.New(validator.WithRequiredStructEnabled())

type Option func(*options)

type options struct {
	baseURL    string
	httpClient *http.Client
}

// WithBaseURL points the gateway at another API host (sandbox, tests).
func WithBaseURL(url string) Option {
	return func(o *options) { o.baseURL = url }
}

// WithHTTPClient replaces the http.Client built from AppConfig.
func WithHTTPClient(c *http.Client) Option {
	return func(o *options) { o.httpClient = c }
}

// PlategaGateway talks to https://app.platega.io.
// Docs: https://docs.platega.io/
type PlategaGateway struct {
	gateway  Gateway
	settings PlategaSettings
	bot      RedirectURLProvider
	client   *client
	logger   *zap.SugaredLogger
}

var _ PaymentGateway = (*PlategaGateway)(nil)

func NewPlategaGateway(gateway Gateway, bot RedirectURLProvider, cfg AppConfig, logger *zap.SugaredLogger, opts ...Option) (*PlategaGateway, error) {
	settings, ok := gateway.Settings.(PlategaSettings)
	if !ok {
		return nil, configError(ErrInvalidSettingsType,
			fmt.Sprintf("expected %T, got %T", PlategaSettings{}, gateway.Settings))
	}
	if err := validate.Struct(settings); err != nil {
		return nil, configError(ErrMissingConfiguration, "platega gateway requires merchant_id and api_secret to be configured")
	}
	if bot == nil {
		return nil, configError(ErrMissingConfiguration, "platega gateway requires a redirect url provider")
	}
	if logger == nil {
		logger = zap.NewNop().Sugar()
	}

	o := options{baseURL: plategaAPIBase}
	for _, opt := range opts {
		opt(&o)
	}
	if o.httpClient == nil {
		o.httpClient = &http.Client{Timeout: cfg.HTTPTimeout}
	}

	return &PlategaGateway{
		gateway:  gateway,
		settings: settings,
		bot:      bot,
		logger:   logger.With("gateway", GatewayPlatega),
		client: newClient(o.httpClient, o.baseURL, map[string]string{
			headerMerchantID: settings.MerchantID,
			headerSecret:     settings.APISecret.Value(),
			"Content-Type":   "application/json",
		}),
	}, nil
}

func (p *PlategaGateway) Type() GatewayType { return GatewayPlatega }

type plategaPaymentDetails struct {
	Amount   float64  `json:"amount"`
	Currency Currency `json:"currency"`
}

type plategaCreateRequest struct {
	PaymentMethod  int                   `json:"paymentMethod"`
	PaymentDetails plategaPaymentDetails `json:"paymentDetails"`
	Description    string                `json:"description"`
	Return         string                `json:"return"`
	FailedURL      string                `json:"failedUrl"`
	Payload        string                `json:"payload"`
}

type plategaCreateResponse struct {
	TransactionID string `json:"transactionId"`
	Redirect      string `json:"redirect"`
}

func (p *PlategaGateway) CreatePayment(ctx context.Context, amount decimal.Decimal, details string) (PaymentResult, error) {
	orderID := uuid.NewString()

	payload, err := p.buildPayload(ctx, amount, orderID, details)
	if err != nil {
		p.logger.Errorw("unexpected error while creating platega payment", "order_id", orderID, "error", err, zap.Stack("stacktrace"))
		return PaymentResult{}, err
	}

	status, raw, err := p.client.postJSON(ctx, plategaProcess, payload)
	if err != nil {
		p.logger.Errorw("unexpected error while creating platega payment", "order_id", orderID, "error", err, zap.Stack("stacktrace"))
		return PaymentResult{}, err
	}

	if status < 200 || status > 299 {
		p.logger.Errorw("http error creating platega payment", "status", status, "body", string(raw))
		return PaymentResult{}, &UpstreamError{Provider: GatewayPlatega, StatusCode: status, Body: string(raw)}
	}

	result, err := p.parsePayment(raw, orderID)
	if err != nil {
		p.logger.Errorw("failed to parse platega response", "error", err)
		return PaymentResult{}, err
	}
	return result, nil
}

func (p *PlategaGateway) buildPayload(ctx context.Context, amount decimal.Decimal, orderID, description string) (plategaCreateRequest, error) {
	returnURL, err := p.bot.RedirectURL(ctx)
	if err != nil {
		return plategaCreateRequest{}, fmt.Errorf("redirect url: %w", err)
	}

	return plategaCreateRequest{
		PaymentMethod: plategaPaymentMethod,
		PaymentDetails: plategaPaymentDetails{
			Amount:   amount.InexactFloat64(),
			Currency: p.gateway.Currency,
		},
		Description: description,
		Return:      returnURL,
		FailedURL:   returnURL,
		Payload:     orderID,
	}, nil
}

func (p *PlategaGateway) parsePayment(raw []byte, orderID string) (PaymentResult, error) {
	p.logger.Debugw("processing platega payment response", "order_id", orderID)

	var res plategaCreateResponse
	if err := json.Unmarshal(raw, &res); err != nil {
		return PaymentResult{}, fmt.Errorf("%w: decode: %v", ErrInvalidResponse, err)
	}
	if res.TransactionID == "" {
		return PaymentResult{}, fmt.Errorf("%w: missing 'transactionId'", ErrInvalidResponse)
	}
	if res.Redirect == "" {
		return PaymentResult{}, fmt.Errorf("%w: missing 'redirect'", ErrInvalidResponse)
	}

	id, err := uuid.Parse(res.TransactionID)
	if err != nil {
		return PaymentResult{}, fmt.Errorf("%w: transactionId %q: %v", ErrInvalidResponse, res.TransactionID, err)
	}

	return PaymentResult{ID: id, URL: res.Redirect}, nil
}

type plategaWebhook struct {
	ID     string `json:"id"`
	Status string `json:"status"`
}

func (p *PlategaGateway) HandleWebhook(r *http.Request) (uuid.UUID, TransactionStatus, error) {
	p.logger.Debugw("received platega webhook request")

	if err := p.verifyHeaders(r.Header); err != nil {
		return uuid.Nil, "", err
	}

	raw, err := io.ReadAll(io.LimitReader(r.Body, maxWebhookBytes))
	if err != nil {
		return uuid.Nil, "", fmt.Errorf("%w: read body: %v", ErrWebhookValidation, err)
	}

	var hook plategaWebhook
	if err := json.Unmarshal(raw, &hook); err != nil {
		return uuid.Nil, "", fmt.Errorf("%w: decode: %v", ErrWebhookValidation, err)
	}
	if hook.ID == "" {
		return uuid.Nil, "", fmt.Errorf("%w: required field 'id' is missing", ErrWebhookValidation)
	}

	transactionID, err := uuid.Parse(hook.ID)
	if err != nil {
		return uuid.Nil, "", fmt.Errorf("%w: id %q: %v", ErrWebhookValidation, hook.ID, err)
	}

	status, err := mapPlategaStatus(hook.Status, hook.ID)
	if err != nil {
		return uuid.Nil, "", err
	}

	p.logger.Infow("platega webhook processed", "transaction_id", hook.ID, "status", hook.Status)
	return transactionID, status, nil
}

// PENDING is never delivered as a transition and is rejected like any unknown value.
func mapPlategaStatus(status, transactionID string) (TransactionStatus, error) {
	switch status {
	case plategaConfirmed:
		return TransactionCompleted, nil
	case plategaCanceled:
		return TransactionCanceled, nil
	case plategaPending:
		return "", fmt.Errorf("%w: unexpected PENDING status, transaction_id=%s", ErrWebhookValidation, transactionID)
	default:
		return "", fmt.Errorf("%w: unsupported status %q", ErrWebhookValidation, status)
	}
}

// verifyHeaders uses plain equality, not a constant-time compare.
func (p *PlategaGateway) verifyHeaders(h http.Header) error {
	merchantID := h.Get(headerMerchantID)
	secret := h.Get(headerSecret)

	if merchantID == "" || secret == "" {
		p.logger.Warnw("platega webhook missing required headers")
		return fmt.Errorf("%w: missing %s or %s header", ErrWebhookUnauthorized, headerMerchantID, headerSecret)
	}

	merchantOK := merchantID == p.settings.MerchantID
	secretOK := secret == p.settings.APISecret.Value()

	if !merchantOK || !secretOK {
		p.logger.Errorw("platega webhook verification failed",
			"severity", "critical",
			"merchant_id_match", merchantOK,
			"secret_match", secretOK,
		)
		return fmt.Errorf("%w: invalid headers", ErrWebhookUnauthorized)
	}
	return nil
}

func configError(kind error, msg string) error {
	return fmt.Errorf("%w: %w: %s", ErrConfiguration, kind, msg)
}
