package shopify

import (
	"testing"

	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
)

func TestParseOrderWebhook(t *testing.T) {
	payload := []byte(`{
		"order_number": 1001,
		"name": "#1001",
		"total_price": "50.00",
		"discount_codes": [{"code": " ALICE "}, {"code": "SECOND"}]
	}`)

	event, err := ParseOrderWebhook(payload)
	assert.NoError(t, err)
	assert.Equal(t, "1001", event.OrderNumber)
	assert.True(t, event.TotalPrice.Equal(decimal.NewFromInt(50)))
	assert.Equal(t, "ALICE", event.DiscountCode)
}

func TestParseOrderWebhookWithoutCode(t *testing.T) {
	event, err := ParseOrderWebhook([]byte(`{"order_number": 7, "total_price": "12.50"}`))
	assert.NoError(t, err)
	assert.Equal(t, "7", event.OrderNumber)
	assert.Equal(t, "", event.DiscountCode)
}

func TestParseOrderWebhookRejectsNegativeTotal(t *testing.T) {
	_, err := ParseOrderWebhook([]byte(`{"name": "#1", "total_price": "-5.00"}`))
	assert.Error(t, err)
}

func TestParseOrderWebhookRejectsGarbage(t *testing.T) {
	_, err := ParseOrderWebhook([]byte(`not json`))
	assert.Error(t, err)
}
