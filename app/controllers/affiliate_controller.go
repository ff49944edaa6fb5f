package controllers

import (
	"errors"
	"strconv"

	"github.com/gofiber/fiber/v2"
	"github.com/gofiber/fiber/v2/log"
	"github.com/shopspring/decimal"
	"github.com/sujit-baniya/flash"

	"github.com/affideck/affideck/internal/pkg/affiliates"
	"github.com/affideck/affideck/internal/pkg/statistics"
)

// HandleDashboard renders the affiliate listing with the panel counters, the
// last-sync marker and the newest webhook events. A mirror read failure still
// renders the page; the admin stays logged in and sees the error inline.
func HandleDashboard(c *fiber.Ctx) error {
	stats := statistics.GetDashboardData()

	data := fiber.Map{
		"Title":    "Affiliates",
		"Stats":    stats,
		"LastSync": stats.LastSync,
		"Flash":    flash.Get(c),
	}

	list, err := GetRepositories().Affiliate.GetAll()
	if err != nil {
		data["Flash"] = fiber.Map{
			"type":    "error",
			"message": "Could not load affiliates: " + err.Error(),
		}
	}
	data["Affiliates"] = list

	events, err := GetRepositories().CommissionEvent.GetRecent(10)
	if err != nil {
		log.Warnf("[Dashboard] could not load recent commission events: %v", err)
	}
	data["Events"] = events

	return c.Render("index", data)
}

// HandleAffiliateCreate processes the create-affiliate form. The remote rule
// and code are provisioned before any local write.
func HandleAffiliateCreate(c *fiber.Ctx) error {
	fm := fiber.Map{
		"type": "error",
	}

	discount, err := decimal.NewFromString(c.FormValue("discount"))
	if err != nil {
		fm["message"] = "Discount percent must be a number"
		return flash.WithError(c, fm).Redirect("/")
	}
	commission, err := decimal.NewFromString(c.FormValue("commission"))
	if err != nil {
		fm["message"] = "Commission percent must be a number"
		return flash.WithError(c, fm).Redirect("/")
	}

	input := affiliates.CreateInput{
		Name:              c.FormValue("name"),
		Email:             c.FormValue("email"),
		Code:              c.FormValue("code"),
		DiscountPercent:   discount,
		CommissionPercent: commission,
	}

	affiliate, err := GetAffiliateService().Create(c.Context(), input)
	if err != nil {
		var invalid *affiliates.ValidationError
		if errors.As(err, &invalid) {
			fm["message"] = invalid.Error()
		} else {
			fm["message"] = "Could not create the coupon: " + err.Error()
		}
		return flash.WithError(c, fm).Redirect("/")
	}

	statistics.InvalidateCounters()

	fm = fiber.Map{
		"type":    "success",
		"message": "Coupon " + affiliate.Code + " created",
	}
	return flash.WithSuccess(c, fm).Redirect("/")
}

// HandleAffiliateDelete removes the remote rule best-effort and the local row
// unconditionally.
func HandleAffiliateDelete(c *fiber.Ctx) error {
	fm := fiber.Map{
		"type": "error",
	}

	id, err := strconv.ParseUint(c.Params("id"), 10, 64)
	if err != nil {
		fm["message"] = "Invalid affiliate id"
		return flash.WithError(c, fm).Redirect("/")
	}

	if err := GetAffiliateService().Delete(c.Context(), id); err != nil {
		if errors.Is(err, affiliates.ErrNotFound) {
			fm["message"] = "Affiliate not found"
		} else {
			fm["message"] = "Could not delete the affiliate: " + err.Error()
		}
		return flash.WithError(c, fm).Redirect("/")
	}

	statistics.InvalidateCounters()

	fm = fiber.Map{
		"type":    "success",
		"message": "Affiliate deleted",
	}
	return flash.WithSuccess(c, fm).Redirect("/")
}
