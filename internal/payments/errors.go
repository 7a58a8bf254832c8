package payments

import (
	"errors"
	"fmt"
)

var (
	ErrConfiguration        = errors.New("gateway configuration error")
	ErrInvalidSettingsType  = errors.New("invalid settings type")
	ErrMissingConfiguration = errors.New("missing gateway configuration")

	ErrInvalidResponse     = errors.New("invalid provider response")
	ErrWebhookUnauthorized = errors.New("webhook verification failed")
	ErrWebhookValidation   = errors.New("invalid webhook payload")

	ErrGatewayNotRegistered = errors.New("gateway not registered")
)

// UpstreamError is returned when the provider answers with a non-2xx status.
type UpstreamError struct {
	Provider   GatewayType
	StatusCode int
	Body       string
}

func (e *UpstreamError) Error() string {
	return fmt.Sprintf("%s request failed: http=%d body=%s", e.Provider, e.StatusCode, e.Body)
}
