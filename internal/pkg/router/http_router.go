package router

import (
	"github.com/gofiber/fiber/v2"

	"github.com/affideck/affideck/app/controllers"
	"github.com/affideck/affideck/internal/pkg/constants"
	"github.com/affideck/affideck/internal/pkg/middleware"
	"github.com/affideck/affideck/internal/pkg/session"
)

type HttpRouter struct {
}

func (h HttpRouter) InstallRouter(app *fiber.App) {
	// init session
	session.NewSessionStore()

	// Apply the admin context middleware globally as first middleware
	app.Use(middleware.AdminContextMiddleware)

	// Initialize shared controllers (repositories + shopify client)
	controllers.InitializeControllers()

	h.registerPublicRoutes(app)
	h.registerAdminRoutes(app)
}

func (h HttpRouter) registerPublicRoutes(app *fiber.App) {
	app.Get(constants.LoginRoute, controllers.HandleLogin)
	app.Post(constants.LoginRoute, controllers.HandleLogin)
	app.Post(constants.LogoutRoute, controllers.HandleLogout)
}

func (h HttpRouter) registerAdminRoutes(app *fiber.App) {
	admin := app.Group("/", middleware.RequireAdmin)
	admin.Get(constants.DashboardRoute, controllers.HandleDashboard)
	admin.Post(constants.AffiliateCreateRoute, controllers.HandleAffiliateCreate)
	admin.Post(constants.AffiliateDeleteRoute, controllers.HandleAffiliateDelete)
	admin.Post(constants.SyncRoute, controllers.HandleSync)
	admin.Get(constants.ReportRoute, controllers.HandleReport)
}

func NewHttpRouter() *HttpRouter {
	return &HttpRouter{}
}
