package shopify

import (
	"encoding/json"
	"errors"
	"fmt"
	"strings"

	"github.com/shopspring/decimal"
)

// OrderWebhookEvent is the normalized orders/create webhook payload. Only the
// first applied discount code is considered.
type OrderWebhookEvent struct {
	OrderNumber  string
	TotalPrice   decimal.Decimal
	DiscountCode string
}

// ParseOrderWebhook validates and normalizes an orders/create delivery.
func ParseOrderWebhook(payload []byte) (*OrderWebhookEvent, error) {
	type rawPayload struct {
		OrderNumber   int64           `json:"order_number"`
		Name          string          `json:"name"`
		TotalPrice    decimal.Decimal `json:"total_price"`
		DiscountCodes []struct {
			Code string `json:"code"`
		} `json:"discount_codes"`
	}

	var raw rawPayload
	if err := json.Unmarshal(payload, &raw); err != nil {
		return nil, fmt.Errorf("order webhook decode failed: %w", err)
	}
	if raw.TotalPrice.Sign() < 0 {
		return nil, errors.New("order webhook carries a negative total_price")
	}

	out := &OrderWebhookEvent{
		OrderNumber: strings.TrimPrefix(raw.Name, "#"),
		TotalPrice:  raw.TotalPrice,
	}
	if out.OrderNumber == "" && raw.OrderNumber != 0 {
		out.OrderNumber = fmt.Sprintf("%d", raw.OrderNumber)
	}
	if len(raw.DiscountCodes) > 0 {
		out.DiscountCode = strings.TrimSpace(raw.DiscountCodes[0].Code)
	}
	return out, nil
}
