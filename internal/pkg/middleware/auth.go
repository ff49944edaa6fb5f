package middleware

import (
	"github.com/gofiber/fiber/v2"

	"github.com/affideck/affideck/internal/pkg/session"
)

// Session keys owned by the login gate.
const (
	AuthKey  = "authenticated"
	AdminKey = "admin_user"
)

// Locals keys populated by AdminContextMiddleware.
const (
	KeyLoggedIn  = "LOGGED_IN"
	KeyAdminUser = "ADMIN_USER"
)

// AdminContextMiddleware resolves the session once per request and exposes
// the login state via locals, so handlers never touch the store directly.
func AdminContextMiddleware(c *fiber.Ctx) error {
	sess, err := session.GetSessionStore().Get(c)
	if err != nil {
		c.Locals(KeyLoggedIn, false)
		c.Locals(KeyAdminUser, "")
		return c.Next()
	}

	loggedIn, _ := sess.Get(AuthKey).(bool)
	adminUser, _ := sess.Get(AdminKey).(string)
	c.Locals(KeyLoggedIn, loggedIn)
	c.Locals(KeyAdminUser, adminUser)
	return c.Next()
}

// IsLoggedIn reports the session state resolved by AdminContextMiddleware.
func IsLoggedIn(c *fiber.Ctx) bool {
	v, _ := c.Locals(KeyLoggedIn).(bool)
	return v
}

// RequireAdmin ensures a logged-in admin session; redirects to /login otherwise.
func RequireAdmin(c *fiber.Ctx) error {
	if !IsLoggedIn(c) {
		return c.Redirect("/login", fiber.StatusSeeOther)
	}
	return c.Next()
}

// RequireAPIAdmin ensures a logged-in session for API routes and returns JSON 401 instead of redirect.
func RequireAPIAdmin(c *fiber.Ctx) error {
	if !IsLoggedIn(c) {
		return c.Status(fiber.StatusUnauthorized).JSON(fiber.Map{
			"error":   "unauthorized",
			"message": "login required",
		})
	}
	return c.Next()
}
