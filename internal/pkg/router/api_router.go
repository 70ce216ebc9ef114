package router

import (
	"time"

	"github.com/gofiber/fiber/v2"
	"github.com/gofiber/fiber/v2/middleware/cors"
	"github.com/gofiber/fiber/v2/middleware/limiter"

	"github.com/ManuelReschke/PixelPress/app/controllers"
	apiv1 "github.com/ManuelReschke/PixelPress/internal/api/v1"
	"github.com/ManuelReschke/PixelPress/internal/pkg/middleware"
)

type ApiRouter struct {
	ctrl *controllers.Controllers
}

func (h ApiRouter) InstallRouter(app *fiber.App) {
	api := app.Group("/api", cors.New(), limiter.New(limiter.Config{
		Max:        60,
		Expiration: 1 * time.Minute,
		KeyGenerator: func(c *fiber.Ctx) string {
			return controllers.GetClientIP(c)
		},
	}))
	api.Get("/", func(ctx *fiber.Ctx) error {
		return ctx.Status(fiber.StatusOK).JSON(fiber.Map{
			"message": "Hello from api",
		})
	})
	api.Get("/analytics", middleware.RequireAPIAdmin, h.ctrl.Admin.HandleAnalyticsAPI)

	// API v1 routes
	v1 := api.Group("/v1")
	apiv1.RegisterHandlers(v1, apiv1.NewAPIServer(h.ctrl))
}

func NewApiRouter(ctrl *controllers.Controllers) *ApiRouter {
	return &ApiRouter{ctrl: ctrl}
}
