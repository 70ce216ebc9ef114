package flash

import (
	"github.com/gofiber/fiber/v2"
	cookieflash "github.com/sujit-baniya/flash"
)

// Flash message key in locals
const FlashKey = "flash"

// Set sets a flash message for the current request only
func Set(c *fiber.Ctx, message fiber.Map) {
	c.Locals(FlashKey, message)
}

// Get returns the message set for this request, or the one carried over
// from the previous redirect.
func Get(c *fiber.Ctx) fiber.Map {
	if m, ok := c.Locals(FlashKey).(fiber.Map); ok && m != nil {
		return m
	}
	m := cookieflash.Get(c)
	if len(m) == 0 {
		return nil
	}
	c.Locals(FlashKey, m)
	return m
}

// Error redirects to path and shows message as error on the next page.
func Error(c *fiber.Ctx, message, path string) error {
	return cookieflash.WithError(c, fiber.Map{
		"type":    "error",
		"message": message,
	}).Redirect(path, fiber.StatusSeeOther)
}

// Success redirects to path and shows message as success on the next page.
func Success(c *fiber.Ctx, message, path string) error {
	return cookieflash.WithSuccess(c, fiber.Map{
		"type":    "success",
		"message": message,
	}).Redirect(path, fiber.StatusSeeOther)
}
