package controllers

import (
	"fmt"

	"github.com/gofiber/fiber/v2"
	"github.com/sujit-baniya/flash"

	"github.com/affideck/affideck/internal/pkg/statistics"
)

// HandleSync triggers one reconciliation pass against Shopify. A failed pass
// keeps whatever deletes and upserts were applied before the failure.
func HandleSync(c *fiber.Ctx) error {
	run, err := GetAffiliateService().Sync(c.Context())
	if err != nil {
		fm := fiber.Map{
			"type":    "error",
			"message": "Sync failed: " + err.Error(),
		}
		return flash.WithError(c, fm).Redirect("/")
	}

	statistics.InvalidateCounters()

	fm := fiber.Map{
		"type":    "success",
		"message": fmt.Sprintf("Sync complete: %d removed, %d refreshed", run.Deleted, run.Upserted),
	}
	return flash.WithSuccess(c, fm).Redirect("/")
}
