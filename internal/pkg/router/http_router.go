package router

import (
	"github.com/gofiber/fiber/v2"

	"github.com/ManuelReschke/PixelPress/app/controllers"
	"github.com/ManuelReschke/PixelPress/internal/pkg/middleware"
)

type HttpRouter struct {
	services *controllers.Services
	ctrl     *controllers.Controllers
	opt      Options
}

func (h HttpRouter) InstallRouter(app *fiber.App) {
	// Apply UserContext middleware globally as first middleware
	app.Use(middleware.UserContextMiddleware(h.services.Repos.User))

	h.registerPublicRoutes(app)
	h.registerCSRFProtectedRoutes(app)
	h.registerAdminRoutes(app)
}

func NewHttpRouter(s *controllers.Services, ctrl *controllers.Controllers, opt Options) *HttpRouter {
	return &HttpRouter{services: s, ctrl: ctrl, opt: opt}
}
