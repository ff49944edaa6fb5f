package controllers

import (
	"crypto/subtle"
	"fmt"

	"github.com/gofiber/fiber/v2"
	"github.com/sujit-baniya/flash"
	"golang.org/x/crypto/bcrypt"

	"github.com/affideck/affideck/internal/pkg/env"
	"github.com/affideck/affideck/internal/pkg/middleware"
	"github.com/affideck/affideck/internal/pkg/session"
)

// HandleLogin renders the login form and processes the shared-credential
// login gate. Credentials come from ADMIN_USERNAME plus either
// ADMIN_PASSWORD_HASH (bcrypt) or plain ADMIN_PASSWORD.
func HandleLogin(c *fiber.Ctx) error {
	if c.Method() == fiber.MethodPost {
		fm := fiber.Map{
			"type": "error",
		}

		username := c.FormValue("username")
		password := c.FormValue("password")

		// notice: do not tell the caller which of the two fields was wrong
		if !checkAdminCredentials(username, password) {
			fm["message"] = "There is a problem with the login process"

			return flash.WithError(c, fm).Redirect("/login")
		}

		sess, err := session.GetSessionStore().Get(c)
		if err != nil {
			fm["message"] = fmt.Sprintf("something went wrong: %s", err)

			return flash.WithError(c, fm).Redirect("/login")
		}

		sess.Set(middleware.AuthKey, true)
		sess.Set(middleware.AdminKey, username)

		if err = sess.Save(); err != nil {
			fm["message"] = fmt.Sprintf("something went wrong: %s", err)

			return flash.WithError(c, fm).Redirect("/login")
		}

		fm = fiber.Map{
			"type":    "success",
			"message": "Welcome back!",
		}

		return flash.WithSuccess(c, fm).Redirect("/")
	}

	return c.Render("login", fiber.Map{
		"Title": "Login",
		"Flash": flash.Get(c),
	})
}

// HandleLogout destroys the admin session.
func HandleLogout(c *fiber.Ctx) error {
	fm := fiber.Map{
		"type": "error",
	}

	sess, err := session.GetSessionStore().Get(c)
	if err != nil {
		fm["message"] = "logged out (no sess)"

		return flash.WithError(c, fm).Redirect("/login")
	}

	if err = sess.Destroy(); err != nil {
		fm["message"] = fmt.Sprintf("something went wrong: %s", err)

		return flash.WithError(c, fm).Redirect("/login")
	}

	fm = fiber.Map{
		"type":    "success",
		"message": "Bye bye!",
	}

	return flash.WithSuccess(c, fm).Redirect("/login")
}

func checkAdminCredentials(username, password string) bool {
	wantUser := env.GetEnv("ADMIN_USERNAME", "")
	if wantUser == "" || subtle.ConstantTimeCompare([]byte(username), []byte(wantUser)) != 1 {
		return false
	}

	if hash := env.GetEnv("ADMIN_PASSWORD_HASH", ""); hash != "" {
		return bcrypt.CompareHashAndPassword([]byte(hash), []byte(password)) == nil
	}

	wantPass := env.GetEnv("ADMIN_PASSWORD", "")
	return wantPass != "" && subtle.ConstantTimeCompare([]byte(password), []byte(wantPass)) == 1
}
