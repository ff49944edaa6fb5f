package shopify

import (
	"fmt"
	"net/http"
	"time"

	"github.com/shopspring/decimal"
)

// APIError is returned for any non-success response from the Shopify Admin
// API, carrying enough context for the caller to log or surface it.
type APIError struct {
	StatusCode int
	Body       string
}

func (e *APIError) Error() string {
	return fmt.Sprintf("shopify api request failed: status=%d body=%s", e.StatusCode, e.Body)
}

// IsNotFound reports whether the error is a Shopify 404.
func (e *APIError) IsNotFound() bool {
	return e.StatusCode == http.StatusNotFound
}

// PriceRule is the subset of a remote price rule the panel mirrors. Value is
// signed as Shopify stores it ("-10.0" for a 10% discount).
type PriceRule struct {
	ID    int64           `json:"id"`
	Title string          `json:"title"`
	Value decimal.Decimal `json:"value"`
}

// DiscountValue returns the rule's discount magnitude as an absolute percent.
func (p PriceRule) DiscountValue() decimal.Decimal {
	return p.Value.Abs()
}

// Order is one remote order as used by the webhook and the sales report.
type Order struct {
	Number       string          `json:"number"`
	CreatedAt    time.Time       `json:"created_at"`
	CustomerName string          `json:"customer_name"`
	TotalPrice   decimal.Decimal `json:"total_price"`
	DiscountCode string          `json:"discount_code,omitempty"`
}

// HasDiscountCode reports whether a discount code was applied at checkout.
func (o Order) HasDiscountCode() bool {
	return o.DiscountCode != ""
}

// priceRulePayload is the request body for price rule creation. The panel
// always provisions storewide percentage rules.
type priceRulePayload struct {
	PriceRule priceRuleBody `json:"price_rule"`
}

type priceRuleBody struct {
	Title             string `json:"title"`
	TargetType        string `json:"target_type"`
	TargetSelection   string `json:"target_selection"`
	AllocationMethod  string `json:"allocation_method"`
	ValueType         string `json:"value_type"`
	Value             string `json:"value"`
	CustomerSelection string `json:"customer_selection"`
	StartsAt          string `json:"starts_at"`
}

type priceRuleEnvelope struct {
	PriceRule struct {
		ID    int64           `json:"id"`
		Title string          `json:"title"`
		Value decimal.Decimal `json:"value"`
	} `json:"price_rule"`
}

type priceRulesEnvelope struct {
	PriceRules []struct {
		ID    int64           `json:"id"`
		Title string          `json:"title"`
		Value decimal.Decimal `json:"value"`
	} `json:"price_rules"`
}

type discountCodePayload struct {
	DiscountCode struct {
		Code string `json:"code"`
	} `json:"discount_code"`
}

type ordersEnvelope struct {
	Orders []struct {
		OrderNumber int64     `json:"order_number"`
		Name        string    `json:"name"`
		CreatedAt   time.Time `json:"created_at"`
		Customer    *struct {
			FirstName string `json:"first_name"`
			LastName  string `json:"last_name"`
		} `json:"customer"`
		TotalPrice    decimal.Decimal `json:"total_price"`
		DiscountCodes []struct {
			Code string `json:"code"`
		} `json:"discount_codes"`
	} `json:"orders"`
}
