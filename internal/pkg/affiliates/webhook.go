package affiliates

import (
	"context"
	"errors"

	"github.com/gofiber/fiber/v2/log"
	"github.com/google/uuid"
	"github.com/shopspring/decimal"
	"gorm.io/gorm"

	"github.com/affideck/affideck/app/models"
	"github.com/affideck/affideck/internal/pkg/commission"
	"github.com/affideck/affideck/internal/pkg/shopify"
)

// RecordOrderWebhook attributes one orders/create delivery against the mirror
// and persists the outcome as a CommissionEvent. Deliveries are acknowledged
// regardless of business outcome, so this never returns an error to the
// webhook endpoint; failures are logged and the event is returned as-is.
func (s *Service) RecordOrderWebhook(ctx context.Context, order *shopify.OrderWebhookEvent) *models.CommissionEvent {
	_ = ctx

	event := &models.CommissionEvent{
		UUID:              uuid.NewString(),
		OrderNumber:       order.OrderNumber,
		Code:              order.DiscountCode,
		OrderTotal:        order.TotalPrice,
		CommissionPercent: decimal.Zero,
		CommissionAmount:  decimal.Zero,
	}

	if order.DiscountCode != "" {
		affiliate, err := s.repos.Affiliate.GetByCode(order.DiscountCode)
		switch {
		case err == nil:
			event.AffiliateID = &affiliate.ID
			event.CommissionPercent = affiliate.CommissionPercent
			event.CommissionAmount = commission.Attribute(
				order.TotalPrice,
				order.DiscountCode,
				map[string]decimal.Decimal{order.DiscountCode: affiliate.CommissionPercent},
			)
			event.Matched = true
			log.Infof("[Webhook] commission for %s (code %s): %s", affiliate.Name, affiliate.Code, event.CommissionAmount.StringFixed(2))
		case errors.Is(err, gorm.ErrRecordNotFound):
			log.Infof("[Webhook] order %s used unknown code %q", order.OrderNumber, order.DiscountCode)
		default:
			log.Errorf("[Webhook] mirror lookup for code %q failed: %v", order.DiscountCode, err)
		}
	}

	if err := s.repos.CommissionEvent.Create(event); err != nil {
		log.Errorf("[Webhook] could not persist commission event: %v", err)
	}
	return event
}
