package shopify

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"net/http"
	"net/url"
	"strings"
	"time"

	"github.com/shopspring/decimal"

	"github.com/affideck/affideck/internal/pkg/env"
)

const defaultAPIVersion = "2024-01"

// Client talks to the Shopify Admin REST API for one shop. All calls are
// blocking for the duration of a single HTTP round trip; there is no retry
// policy.
type Client struct {
	ShopDomain  string
	AccessToken string
	APIVersion  string

	// BaseURL overrides the shop domain URL; used by tests.
	BaseURL string

	HTTPClient *http.Client
}

// NewClientFromEnv builds a client from SHOPIFY_* environment variables.
func NewClientFromEnv() *Client {
	return &Client{
		ShopDomain:  strings.TrimSpace(env.GetEnv("SHOPIFY_SHOP_DOMAIN", "")),
		AccessToken: strings.TrimSpace(env.GetEnv("SHOPIFY_ACCESS_TOKEN", "")),
		APIVersion:  strings.TrimSpace(env.GetEnv("SHOPIFY_API_VERSION", defaultAPIVersion)),
		HTTPClient: &http.Client{
			Timeout: 15 * time.Second,
		},
	}
}

func (c *Client) baseURL() string {
	if c.BaseURL != "" {
		return strings.TrimRight(c.BaseURL, "/")
	}
	version := c.APIVersion
	if version == "" {
		version = defaultAPIVersion
	}
	return fmt.Sprintf("https://%s/admin/api/%s", c.ShopDomain, version)
}

// do performs one Admin API request and decodes the JSON response into out
// (when out is non-nil). Any non-2xx status becomes an *APIError.
func (c *Client) do(ctx context.Context, method, path string, payload, out interface{}) error {
	if strings.TrimSpace(c.AccessToken) == "" {
		return errors.New("SHOPIFY_ACCESS_TOKEN is not configured")
	}
	if c.BaseURL == "" && strings.TrimSpace(c.ShopDomain) == "" {
		return errors.New("SHOPIFY_SHOP_DOMAIN is not configured")
	}

	var body io.Reader
	if payload != nil {
		raw, err := json.Marshal(payload)
		if err != nil {
			return err
		}
		body = bytes.NewReader(raw)
	}

	req, err := http.NewRequestWithContext(ctx, method, c.baseURL()+path, body)
	if err != nil {
		return err
	}
	req.Header.Set("X-Shopify-Access-Token", c.AccessToken)
	req.Header.Set("Accept", "application/json")
	if payload != nil {
		req.Header.Set("Content-Type", "application/json")
	}

	httpClient := c.HTTPClient
	if httpClient == nil {
		httpClient = &http.Client{Timeout: 15 * time.Second}
	}

	resp, err := httpClient.Do(req)
	if err != nil {
		return fmt.Errorf("shopify request failed: %w", err)
	}
	defer resp.Body.Close()

	raw, _ := io.ReadAll(io.LimitReader(resp.Body, 2<<20))
	if resp.StatusCode < 200 || resp.StatusCode >= 300 {
		return &APIError{StatusCode: resp.StatusCode, Body: string(raw)}
	}

	if out == nil {
		return nil
	}
	if err := json.Unmarshal(raw, out); err != nil {
		return fmt.Errorf("shopify response decode failed: %w", err)
	}
	return nil
}

// CreatePriceRule provisions a storewide percentage price rule titled after
// the discount code. Shopify stores percentage discounts signed-negative, so
// a 10% discount is submitted as "-10.0".
func (c *Client) CreatePriceRule(ctx context.Context, code string, discountPercent decimal.Decimal) (int64, error) {
	payload := priceRulePayload{
		PriceRule: priceRuleBody{
			Title:             code,
			TargetType:        "line_item",
			TargetSelection:   "all",
			AllocationMethod:  "across",
			ValueType:         "percentage",
			Value:             discountPercent.Abs().Neg().StringFixed(1),
			CustomerSelection: "all",
			StartsAt:          time.Now().UTC().Format(time.RFC3339),
		},
	}

	var out priceRuleEnvelope
	if err := c.do(ctx, http.MethodPost, "/price_rules.json", payload, &out); err != nil {
		return 0, err
	}
	if out.PriceRule.ID == 0 {
		return 0, errors.New("shopify price rule response missing id")
	}
	return out.PriceRule.ID, nil
}

// CreateDiscountCode attaches the checkout code to an existing price rule.
func (c *Client) CreateDiscountCode(ctx context.Context, ruleID int64, code string) error {
	var payload discountCodePayload
	payload.DiscountCode.Code = code

	path := fmt.Sprintf("/price_rules/%d/discount_codes.json", ruleID)
	return c.do(ctx, http.MethodPost, path, payload, nil)
}

// DeletePriceRule removes a remote price rule. Callers treat failures,
// including 404 for already-gone rules, as best-effort.
func (c *Client) DeletePriceRule(ctx context.Context, ruleID int64) error {
	path := fmt.Sprintf("/price_rules/%d.json", ruleID)
	return c.do(ctx, http.MethodDelete, path, nil, nil)
}

// ListPriceRules fetches all currently active price rules. Values come back
// signed as Shopify stores them.
func (c *Client) ListPriceRules(ctx context.Context) ([]PriceRule, error) {
	var out priceRulesEnvelope
	if err := c.do(ctx, http.MethodGet, "/price_rules.json?limit=250", nil, &out); err != nil {
		return nil, err
	}

	rules := make([]PriceRule, 0, len(out.PriceRules))
	for _, r := range out.PriceRules {
		rules = append(rules, PriceRule{ID: r.ID, Title: r.Title, Value: r.Value})
	}
	return rules, nil
}

// boundLayout keeps sub-second precision on the wire. RFC3339 without the
// fraction would truncate a 23:59:59.999 end bound to 23:59:59 and silently
// exclude orders placed in the last second of the day.
const boundLayout = "2006-01-02T15:04:05.999Z07:00"

// ListOrders fetches orders with optional creation time bounds. Both bounds
// are passed through as-is; inclusive end-of-day widening happens in the
// report layer.
func (c *Client) ListOrders(ctx context.Context, from, to *time.Time) ([]Order, error) {
	q := url.Values{}
	q.Set("status", "any")
	q.Set("limit", "250")
	if from != nil {
		q.Set("created_at_min", from.UTC().Format(boundLayout))
	}
	if to != nil {
		q.Set("created_at_max", to.UTC().Format(boundLayout))
	}

	var out ordersEnvelope
	if err := c.do(ctx, http.MethodGet, "/orders.json?"+q.Encode(), nil, &out); err != nil {
		return nil, err
	}

	orders := make([]Order, 0, len(out.Orders))
	for _, o := range out.Orders {
		order := Order{
			Number:       strings.TrimPrefix(o.Name, "#"),
			CreatedAt:    o.CreatedAt,
			CustomerName: "Guest",
			TotalPrice:   o.TotalPrice,
		}
		if order.Number == "" && o.OrderNumber != 0 {
			order.Number = fmt.Sprintf("%d", o.OrderNumber)
		}
		if o.Customer != nil {
			name := strings.TrimSpace(o.Customer.FirstName + " " + o.Customer.LastName)
			if name != "" {
				order.CustomerName = name
			}
		}
		// Only the first applied code counts for attribution.
		if len(o.DiscountCodes) > 0 {
			order.DiscountCode = o.DiscountCodes[0].Code
		}
		orders = append(orders, order)
	}
	return orders, nil
}
