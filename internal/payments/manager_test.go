package payments

import (
	"context"
	"encoding/json"
	"fmt"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type fakeGateway struct {
	kind   GatewayType
	result PaymentResult
	id     uuid.UUID
	status TransactionStatus
}

func (f *fakeGateway) Type() GatewayType { return f.kind }

func (f *fakeGateway) CreatePayment(ctx context.Context, amount decimal.Decimal, details string) (PaymentResult, error) {
	return f.result, nil
}

func (f *fakeGateway) HandleWebhook(r *http.Request) (uuid.UUID, TransactionStatus, error) {
	return f.id, f.status, nil
}

func TestPaymentManager(t *testing.T) {
	gw := &fakeGateway{
		kind:   GatewayPlatega,
		result: PaymentResult{ID: uuid.New(), URL: "https://pay.example/x"},
		id:     uuid.New(),
		status: TransactionCompleted,
	}
	m := NewPaymentManager()
	m.RegisterGateway(gw)

	t.Run("create routes to registered gateway", func(t *testing.T) {
		res, err := m.CreatePayment(context.Background(), GatewayPlatega, decimal.NewFromInt(10), "order")
		require.NoError(t, err)
		assert.Equal(t, gw.result, res)
	})

	t.Run("webhook routes to registered gateway", func(t *testing.T) {
		r := httptest.NewRequest(http.MethodPost, "/", nil)
		id, status, err := m.HandleWebhook(GatewayPlatega, r)
		require.NoError(t, err)
		assert.Equal(t, gw.id, id)
		assert.Equal(t, TransactionCompleted, status)
	})

	t.Run("unknown gateway", func(t *testing.T) {
		_, err := m.CreatePayment(context.Background(), GatewayKhalti, decimal.NewFromInt(1), "order")
		assert.ErrorIs(t, err, ErrGatewayNotRegistered)

		_, _, err = m.HandleWebhook(GatewayEsewa, httptest.NewRequest(http.MethodPost, "/", nil))
		assert.ErrorIs(t, err, ErrGatewayNotRegistered)
	})
}

func TestParseGatewayType(t *testing.T) {
	assert.Equal(t, GatewayPlatega, ParseGatewayType("platega"))
	assert.Equal(t, GatewayPlatega, ParseGatewayType(" Platega "))
	assert.Equal(t, GatewayType("UNKNOWN"), ParseGatewayType("unknown"))
}

func TestSecretString(t *testing.T) {
	secret := SecretString("s3cr3t")

	assert.Equal(t, "s3cr3t", secret.Value())
	assert.Equal(t, "**********", secret.String())
	assert.Equal(t, "**********", fmt.Sprintf("%v", secret))
	assert.Equal(t, "**********", fmt.Sprintf("%#v", secret))
	assert.NotContains(t, fmt.Sprintf("%+v", PlategaSettings{MerchantID: "m", APISecret: secret}), "s3cr3t")

	b, err := json.Marshal(PlategaSettings{MerchantID: "m", APISecret: secret})
	require.NoError(t, err)
	assert.NotContains(t, string(b), "s3cr3t")

	assert.Empty(t, SecretString("").String())
}

func TestGatewaySettingsVariants(t *testing.T) {
	variants := []GatewaySettings{PlategaSettings{}, KhaltiSettings{}, EsewaSettings{}}
	want := []GatewayType{GatewayPlatega, GatewayKhalti, GatewayEsewa}
	for i, v := range variants {
		assert.Equal(t, want[i], v.GatewayType())
	}
}
