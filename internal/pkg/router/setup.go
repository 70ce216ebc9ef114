package router

import (
	"github.com/gofiber/fiber/v2"

	"github.com/ManuelReschke/PixelPress/app/controllers"
)

// Router registers a group of routes on the app
type Router interface {
	InstallRouter(app *fiber.App)
}

// Options tune the installed routes.
type Options struct {
	// SecureCookies marks the csrf cookie secure, off in development
	SecureCookies bool
}

func InstallRouter(app *fiber.App, s *controllers.Services, opt Options) {
	ctrl := controllers.NewControllers(s)
	// The HttpRouter installs the global UserContext middleware, the API
	// routes depend on it for their session guards.
	setup(app, NewHttpRouter(s, ctrl, opt), NewApiRouter(ctrl))
}

func setup(app *fiber.App, router ...Router) {
	for _, r := range router {
		r.InstallRouter(app)
	}
}
