package payments

import (
	"encoding/json"

	"github.com/google/uuid"
)

type GatewayType string

const (
	GatewayPlatega GatewayType = "PLATEGA"
	GatewayKhalti  GatewayType = "KHALTI"
	GatewayEsewa   GatewayType = "ESEWA"
)

type Currency string

const (
	CurrencyRUB Currency = "RUB"
	CurrencyUSD Currency = "USD"
	CurrencyEUR Currency = "EUR"
	CurrencyNPR Currency = "NPR"
)

type TransactionStatus string

const (
	TransactionPending   TransactionStatus = "PENDING"
	TransactionCompleted TransactionStatus = "COMPLETED"
	TransactionCanceled  TransactionStatus = "CANCELED"
	TransactionRefunded  TransactionStatus = "REFUNDED"
	TransactionFailed    TransactionStatus = "FAILED"
)

// Gateway is the stored configuration of one payment provider integration.
type Gateway struct {
	ID       int64
	Type     GatewayType
	Currency Currency
	IsActive bool
	Settings GatewaySettings
}

// GatewaySettings is implemented only by the settings variants in this package.
type GatewaySettings interface {
	GatewayType() GatewayType
	isGatewaySettings()
}

type PlategaSettings struct {
	MerchantID string       `validate:"required"`
	APISecret  SecretString `validate:"required"`
}

func (PlategaSettings) GatewayType() GatewayType { return GatewayPlatega }
func (PlategaSettings) isGatewaySettings()       {}

type KhaltiSettings struct {
	SecretKey  string `validate:"required"`
	WebsiteURL string `validate:"required,url"`
}

func (KhaltiSettings) GatewayType() GatewayType { return GatewayKhalti }
func (KhaltiSettings) isGatewaySettings()       {}

type EsewaSettings struct {
	MerchantCode string       `validate:"required"`
	SecretKey    SecretString `validate:"required"`
}

func (EsewaSettings) GatewayType() GatewayType { return GatewayEsewa }
func (EsewaSettings) isGatewaySettings()       {}

// SecretString keeps credentials out of logs and JSON. Use Value for the raw secret.
type SecretString string

const redacted = "**********"

func (s SecretString) Value() string { return string(s) }

func (s SecretString) String() string {
	if s == "" {
		return ""
	}
	return redacted
}

func (s SecretString) GoString() string { return s.String() }

func (s SecretString) MarshalJSON() ([]byte, error) {
	return json.Marshal(s.String())
}

// PaymentResult is what the payer needs after a payment has been created.
type PaymentResult struct {
	ID  uuid.UUID `json:"id"`
	URL string    `json:"url"`
}
