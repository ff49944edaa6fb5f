package router

import (
	"github.com/gofiber/fiber/v2"
	"github.com/gofiber/fiber/v2/middleware/limiter"

	"github.com/affideck/affideck/app/controllers"
	"github.com/affideck/affideck/internal/pkg/constants"
	"github.com/affideck/affideck/internal/pkg/middleware"
)

type ApiRouter struct {
}

func (h ApiRouter) InstallRouter(app *fiber.App) {
	api := app.Group("/api", limiter.New())
	api.Get("/", func(ctx *fiber.Ctx) error {
		return ctx.Status(fiber.StatusOK).JSON(fiber.Map{
			"message": "Hello from api",
		})
	})

	v1 := api.Group("/v1")
	// Webhook deliveries authenticate by knowing the endpoint, not by session.
	v1.Post(constants.OrderWebhookRoute, controllers.HandleOrderWebhook)
	v1.Get("/report", middleware.RequireAPIAdmin, controllers.HandleAPIReport)
}

func NewApiRouter() *ApiRouter {
	return &ApiRouter{}
}
