package router

import (
	"github.com/gofiber/fiber/v2"
)

// registerPublicRoutes adds routes that render no forms and skip csrf.
func (h HttpRouter) registerPublicRoutes(app *fiber.App) {
	app.Get("/docs/api", h.ctrl.Main.HandleDocsAPI)
}
