package constants

// Static route constants
const (
	DashboardRoute       = "/"
	LoginRoute           = "/login"
	LogoutRoute          = "/logout"
	AffiliateCreateRoute = "/affiliates/create"
	AffiliateDeleteRoute = "/affiliates/delete/:id"
	SyncRoute            = "/sync"
	ReportRoute          = "/report"
	OrderWebhookRoute    = "/webhooks/orders/create"
)
