package controllers

import (
	"context"
	"io"
	"net/http/httptest"
	"strings"
	"testing"
	"time"

	"github.com/gofiber/fiber/v2"
	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"gorm.io/gorm"

	"github.com/affideck/affideck/app/models"
	"github.com/affideck/affideck/app/repository"
	"github.com/affideck/affideck/internal/pkg/affiliates"
	"github.com/affideck/affideck/internal/pkg/shopify"
)

type stubRemote struct{}

func (stubRemote) CreatePriceRule(ctx context.Context, code string, discountPercent decimal.Decimal) (int64, error) {
	return 1, nil
}
func (stubRemote) CreateDiscountCode(ctx context.Context, ruleID int64, code string) error {
	return nil
}
func (stubRemote) DeletePriceRule(ctx context.Context, ruleID int64) error { return nil }
func (stubRemote) ListPriceRules(ctx context.Context) ([]shopify.PriceRule, error) {
	return nil, nil
}
func (stubRemote) ListOrders(ctx context.Context, from, to *time.Time) ([]shopify.Order, error) {
	return nil, nil
}

type stubAffiliates struct{}

func (stubAffiliates) Create(a *models.Affiliate) error { return nil }
func (stubAffiliates) GetByID(id uint64) (*models.Affiliate, error) {
	return nil, gorm.ErrRecordNotFound
}
func (stubAffiliates) GetByCode(code string) (*models.Affiliate, error) {
	return nil, gorm.ErrRecordNotFound
}
func (stubAffiliates) GetAll() ([]models.Affiliate, error) { return nil, nil }
func (stubAffiliates) Update(a *models.Affiliate) error    { return nil }
func (stubAffiliates) Delete(id uint64) error              { return nil }
func (stubAffiliates) UpsertByCode(code string, defaultCommission, discountPercent decimal.Decimal, remoteRuleID int64) error {
	return nil
}
func (stubAffiliates) Count() (int64, error) { return 0, nil }
func (stubAffiliates) CodeCommissionMap() (map[string]decimal.Decimal, error) {
	return map[string]decimal.Decimal{}, nil
}

type recordingEvents struct {
	created int
}

func (r *recordingEvents) Create(event *models.CommissionEvent) error {
	r.created++
	return nil
}
func (r *recordingEvents) GetRecent(limit int) ([]models.CommissionEvent, error) { return nil, nil }
func (r *recordingEvents) CountSince(since time.Time) (int64, error)             { return 0, nil }

type stubSyncRuns struct{}

func (stubSyncRuns) Create(run *models.SyncRun) error { return nil }
func (stubSyncRuns) Update(run *models.SyncRun) error { return nil }
func (stubSyncRuns) GetLatest() (*models.SyncRun, error) {
	return nil, gorm.ErrRecordNotFound
}

func newWebhookApp(events *recordingEvents) *fiber.App {
	SetAffiliateService(affiliates.NewService(stubRemote{}, &repository.Repositories{
		Affiliate:       stubAffiliates{},
		CommissionEvent: events,
		SyncRun:         stubSyncRuns{},
	}))

	app := fiber.New()
	app.Post("/webhooks/orders/create", HandleOrderWebhook)
	return app
}

func TestHandleOrderWebhookAcknowledgesDelivery(t *testing.T) {
	events := &recordingEvents{}
	app := newWebhookApp(events)

	body := `{"order_number":1001,"name":"#1001","total_price":"50.00","discount_codes":[{"code":"GHOST"}]}`
	req := httptest.NewRequest("POST", "/webhooks/orders/create", strings.NewReader(body))
	req.Header.Set("Content-Type", "application/json")

	resp, err := app.Test(req)
	assert.NoError(t, err)
	assert.Equal(t, fiber.StatusOK, resp.StatusCode)

	raw, _ := io.ReadAll(resp.Body)
	assert.Equal(t, "Webhook received", string(raw))
	assert.Equal(t, 1, events.created)
}

func TestHandleOrderWebhookMalformedPayloadStillAnswers200(t *testing.T) {
	events := &recordingEvents{}
	app := newWebhookApp(events)

	req := httptest.NewRequest("POST", "/webhooks/orders/create", strings.NewReader("not json"))

	resp, err := app.Test(req)
	assert.NoError(t, err)
	assert.Equal(t, fiber.StatusOK, resp.StatusCode)
	// Nothing is recorded for an unparseable delivery.
	assert.Equal(t, 0, events.created)
}
