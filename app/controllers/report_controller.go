package controllers

import (
	"errors"

	"github.com/gofiber/fiber/v2"
	"github.com/sujit-baniya/flash"

	"github.com/affideck/affideck/internal/pkg/affiliates"
)

// HandleReport renders the sales report page for an optional date window.
// The end date filters inclusively through the end of its calendar day.
func HandleReport(c *fiber.Ctx) error {
	start := c.Query("start")
	end := c.Query("end")

	report, err := GetAffiliateService().Report(c.Context(), start, end)
	if err != nil {
		var invalid *affiliates.ValidationError
		message := "Could not build the report: "
		if errors.As(err, &invalid) {
			message += invalid.Error()
		} else {
			message += err.Error()
		}
		fm := fiber.Map{
			"type":    "error",
			"message": message,
		}
		return flash.WithError(c, fm).Redirect("/")
	}

	return c.Render("report", fiber.Map{
		"Title":   "Sales Report",
		"Start":   start,
		"End":     end,
		"Report":  report,
		"PerCode": report.PerCode,
		"Flash":   flash.Get(c),
	})
}

// HandleAPIReport returns the sales report as JSON.
func HandleAPIReport(c *fiber.Ctx) error {
	report, err := GetAffiliateService().Report(c.Context(), c.Query("start"), c.Query("end"))
	if err != nil {
		status := fiber.StatusBadGateway
		var invalid *affiliates.ValidationError
		if errors.As(err, &invalid) {
			status = fiber.StatusBadRequest
		}
		return c.Status(status).JSON(fiber.Map{
			"error":   "report_failed",
			"message": err.Error(),
		})
	}

	return c.JSON(report)
}
