package router

import (
	"github.com/gofiber/fiber/v2"
	"github.com/gofiber/fiber/v2/middleware/monitor"

	"github.com/ManuelReschke/PixelPress/internal/pkg/middleware"
)

func (h HttpRouter) registerAdminRoutes(app *fiber.App) {
	ctrl := h.ctrl.Admin

	// registered after the csrf group, so its middleware covers these routes too
	adminGroup := app.Group("/admin", middleware.RequireAdmin)
	adminGroup.Get("/", ctrl.HandleDashboard)
	adminGroup.Get("/comments", ctrl.HandleComments)
	adminGroup.Post("/comments/:id/approve", ctrl.HandleApproveComment)
	adminGroup.Get("/users", ctrl.HandleUsers)
	adminGroup.Post("/users/:id/toggle", ctrl.HandleToggleUser)
	adminGroup.Get("/monitor", monitor.New(monitor.Config{Title: "PixelPress Monitor"}))
}
