package controllers

import (
	"github.com/gofiber/fiber/v2"
	"github.com/gofiber/fiber/v2/log"

	"github.com/affideck/affideck/internal/pkg/shopify"
)

// HandleOrderWebhook receives orders/create deliveries from Shopify. The
// endpoint acknowledges delivery, not business outcome: it answers 200 even
// for unparseable payloads or unknown codes, so the platform never retries.
func HandleOrderWebhook(c *fiber.Ctx) error {
	event, err := shopify.ParseOrderWebhook(c.Body())
	if err != nil {
		log.Warnf("[Webhook] ignoring malformed orders/create delivery: %v", err)
		return c.SendString("Webhook received")
	}

	GetAffiliateService().RecordOrderWebhook(c.Context(), event)

	return c.SendString("Webhook received")
}
