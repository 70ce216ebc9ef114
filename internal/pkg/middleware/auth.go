package middleware

import (
	"net/url"

	"github.com/gofiber/fiber/v2"

	"github.com/ManuelReschke/PixelPress/internal/pkg/constants"
	icuser "github.com/ManuelReschke/PixelPress/internal/pkg/usercontext"
)

func loggedIn(c *fiber.Ctx) bool {
	b, _ := c.Locals(icuser.KeyFromProtected).(bool)
	return b
}

// toLogin redirects to the login page. GET requests come back after login.
func toLogin(c *fiber.Ctx) error {
	target := constants.LoginRoute
	if c.Method() == fiber.MethodGet {
		target += "?next=" + url.QueryEscape(c.OriginalURL())
	}
	return c.Redirect(target, fiber.StatusSeeOther)
}

// RequireAuth ensures a logged-in web session; redirects to /login if missing.
func RequireAuth(c *fiber.Ctx) error {
	if !loggedIn(c) {
		return toLogin(c)
	}
	return c.Next()
}

// RequireGuest sends logged-in users away from /login and /register.
func RequireGuest(c *fiber.Ctx) error {
	if loggedIn(c) {
		return c.Redirect(constants.HomeRoute, fiber.StatusSeeOther)
	}
	return c.Next()
}

// RequireAdmin ensures a logged-in admin; redirects otherwise.
func RequireAdmin(c *fiber.Ctx) error {
	if !loggedIn(c) {
		return toLogin(c)
	}
	if isAdmin, ok := c.Locals(icuser.KeyIsAdmin).(bool); !ok || !isAdmin {
		return fiber.ErrForbidden
	}
	return c.Next()
}

// RequireAPISessionAuth ensures a logged-in session for API routes and returns JSON 401 instead of redirect.
func RequireAPISessionAuth(c *fiber.Ctx) error {
	if !loggedIn(c) {
		return c.Status(fiber.StatusUnauthorized).JSON(fiber.Map{
			"error":   "unauthorized",
			"message": "login required",
		})
	}
	return c.Next()
}

// RequireAPIAdmin answers anonymous callers with JSON 401 and non-admins with JSON 403.
func RequireAPIAdmin(c *fiber.Ctx) error {
	if !loggedIn(c) {
		return RequireAPISessionAuth(c)
	}
	if isAdmin, ok := c.Locals(icuser.KeyIsAdmin).(bool); !ok || !isAdmin {
		return c.Status(fiber.StatusForbidden).JSON(fiber.Map{
			"error":   "forbidden",
			"message": "admin access required",
		})
	}
	return c.Next()
}
