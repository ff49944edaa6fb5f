package affiliates

import (
	"context"
	"errors"
	"strings"
	"time"

	"github.com/go-playground/validator/v10"
	"github.com/gofiber/fiber/v2/log"
	"github.com/shopspring/decimal"
	"gorm.io/gorm"

	"github.com/affideck/affideck/app/models"
	"github.com/affideck/affideck/app/repository"
	"github.com/affideck/affideck/internal/pkg/env"
	"github.com/affideck/affideck/internal/pkg/reconcile"
	"github.com/affideck/affideck/internal/pkg/salesreport"
	"github.com/affideck/affideck/internal/pkg/shopify"
)

// DefaultCommissionPercent is applied when sync inserts a code that has no
// local row yet. Overridable via AFFILIATE_DEFAULT_COMMISSION.
const DefaultCommissionPercent = 10

// RemoteClient is the Shopify surface the service depends on.
type RemoteClient interface {
	CreatePriceRule(ctx context.Context, code string, discountPercent decimal.Decimal) (int64, error)
	CreateDiscountCode(ctx context.Context, ruleID int64, code string) error
	DeletePriceRule(ctx context.Context, ruleID int64) error
	ListPriceRules(ctx context.Context) ([]shopify.PriceRule, error)
	ListOrders(ctx context.Context, from, to *time.Time) ([]shopify.Order, error)
}

// CreateInput carries the create-affiliate form fields.
type CreateInput struct {
	Name              string          `validate:"required,min=2,max=100"`
	Email             string          `validate:"omitempty,email"`
	Code              string          `validate:"required,min=2,max=50"`
	DiscountPercent   decimal.Decimal `validate:"-"`
	CommissionPercent decimal.Decimal `validate:"-"`
}

// Service owns the remote-then-local flows of the panel.
type Service struct {
	remote   RemoteClient
	repos    *repository.Repositories
	engine   *reconcile.Engine
	validate *validator.Validate
}

// NewService creates the affiliate service from its dependencies.
func NewService(remote RemoteClient, repos *repository.Repositories) *Service {
	return &Service{
		remote:   remote,
		repos:    repos,
		engine:   reconcile.NewEngine(remote, repos.Affiliate, repos.SyncRun, DefaultCommission()),
		validate: validator.New(),
	}
}

// DefaultCommission resolves the first-insert commission percent.
func DefaultCommission() decimal.Decimal {
	raw := strings.TrimSpace(env.GetEnv("AFFILIATE_DEFAULT_COMMISSION", ""))
	if raw != "" {
		if d, err := decimal.NewFromString(raw); err == nil && d.Sign() >= 0 {
			return d
		}
		log.Warnf("[Affiliates] invalid AFFILIATE_DEFAULT_COMMISSION %q, using %d", raw, DefaultCommissionPercent)
	}
	return decimal.NewFromInt(DefaultCommissionPercent)
}

// Create provisions the remote rule and code first, then mirrors the row
// locally. A remote failure leaves no local row behind; a local failure after
// remote success leaves an orphaned remote rule until the next sync, which is
// the documented inconsistency window. Two concurrent creates for the same
// code race to the unique index on code; the loser fails here after having
// provisioned a duplicate remote rule.
func (s *Service) Create(ctx context.Context, input CreateInput) (*models.Affiliate, error) {
	input.Name = strings.TrimSpace(input.Name)
	input.Email = strings.TrimSpace(input.Email)
	input.Code = strings.TrimSpace(input.Code)

	if err := s.validate.Struct(input); err != nil {
		var invalid validator.ValidationErrors
		if errors.As(err, &invalid) && len(invalid) > 0 {
			return nil, &ValidationError{Field: strings.ToLower(invalid[0].Field()), Message: "missing or malformed"}
		}
		return nil, err
	}
	if input.DiscountPercent.Sign() <= 0 || input.DiscountPercent.GreaterThan(decimal.NewFromInt(100)) {
		return nil, &ValidationError{Field: "discount", Message: "must be between 0 and 100"}
	}
	if input.CommissionPercent.Sign() < 0 || input.CommissionPercent.GreaterThan(decimal.NewFromInt(100)) {
		return nil, &ValidationError{Field: "commission", Message: "must be between 0 and 100"}
	}

	ruleID, err := s.remote.CreatePriceRule(ctx, input.Code, input.DiscountPercent)
	if err != nil {
		return nil, err
	}
	if err := s.remote.CreateDiscountCode(ctx, ruleID, input.Code); err != nil {
		return nil, err
	}

	affiliate := &models.Affiliate{
		Name:              input.Name,
		Email:             input.Email,
		Code:              input.Code,
		DiscountPercent:   input.DiscountPercent,
		CommissionPercent: input.CommissionPercent,
		Status:            models.AffiliateStatusActive,
		RemoteRuleID:      &ruleID,
	}
	if err := s.repos.Affiliate.Create(affiliate); err != nil {
		return nil, err
	}
	return affiliate, nil
}

// Delete removes the remote rule best-effort, then the local row
// unconditionally. A remote failure (the rule may already be gone) is logged
// and swallowed, never aborting the local delete.
func (s *Service) Delete(ctx context.Context, id uint64) error {
	affiliate, err := s.repos.Affiliate.GetByID(id)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return ErrNotFound
		}
		return err
	}

	if affiliate.RemoteRuleID != nil {
		if err := s.remote.DeletePriceRule(ctx, *affiliate.RemoteRuleID); err != nil {
			log.Warnf("[Affiliates] remote delete of rule %d failed (may already be gone): %v", *affiliate.RemoteRuleID, err)
		}
	}

	return s.repos.Affiliate.Delete(affiliate.ID)
}

// Sync runs one reconciliation pass against the remote rule set.
func (s *Service) Sync(ctx context.Context) (*models.SyncRun, error) {
	return s.engine.Sync(ctx)
}

// Report pulls the order window from the remote platform, joins it against
// local commission percentages and aggregates per-code statistics. The
// code -> rate lookup is rebuilt on every call.
func (s *Service) Report(ctx context.Context, start, end string) (*salesreport.Report, error) {
	from, to, err := salesreport.Window(start, end)
	if err != nil {
		return nil, &ValidationError{Field: "date", Message: "expected YYYY-MM-DD"}
	}

	orders, err := s.remote.ListOrders(ctx, from, to)
	if err != nil {
		return nil, err
	}

	rates, err := s.repos.Affiliate.CodeCommissionMap()
	if err != nil {
		return nil, err
	}

	report := salesreport.Build(orders, rates)
	return &report, nil
}
