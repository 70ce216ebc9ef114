package router

import (
	"strings"
	"time"

	"github.com/gofiber/fiber/v2"
	"github.com/gofiber/fiber/v2/middleware/csrf"

	"github.com/ManuelReschke/PixelPress/internal/pkg/middleware"
	"github.com/ManuelReschke/PixelPress/internal/pkg/viewmodel"
)

func (h HttpRouter) csrfConfig() csrf.Config {
	return csrf.Config{
		KeyLookup:      "form:_csrf",
		ContextKey:     viewmodel.CSRFKey,
		CookieName:     "csrf_",
		CookieSameSite: "Lax",
		Expiration:     1 * time.Hour,
		CookieSecure:   h.opt.SecureCookies,
		Extractor:      csrfExtractor,
		Next: func(c *fiber.Ctx) bool {
			return strings.HasPrefix(c.Path(), "/api/")
		},
	}
}

// csrfExtractor reads the token from the form or, for fetch requests, from
// the X-CSRF-Token header.
func csrfExtractor(c *fiber.Ctx) (string, error) {
	if token := c.Get("X-CSRF-Token"); token != "" {
		return token, nil
	}
	return csrf.CsrfFromForm("_csrf")(c)
}

func (h HttpRouter) registerCSRFProtectedRoutes(app *fiber.App) {
	ctrl := h.ctrl

	group := app.Group("", csrf.New(h.csrfConfig()))
	group.Get("/", ctrl.Main.HandleIndex)
	group.Get("/search", ctrl.Main.HandleSearch)
	group.Get("/post/new", middleware.RequireAuth, ctrl.Post.HandleNew)
	group.Post("/post/new", middleware.RequireAuth, ctrl.Post.HandleCreate)
	group.Get("/post/:slug", ctrl.Post.HandleShow)
	group.Get("/post/:slug/edit", middleware.RequireAuth, ctrl.Post.HandleEdit)
	group.Post("/post/:slug/edit", middleware.RequireAuth, ctrl.Post.HandleUpdate)
	group.Post("/post/:slug/delete", middleware.RequireAuth, ctrl.Post.HandleDelete)
	group.Post("/post/:slug/comment", middleware.RequireAuth, ctrl.Comment.HandleCreate)
	group.Post("/post/:slug/like", middleware.RequireAPISessionAuth, ctrl.Post.HandleLike)
	group.Post("/comment/:id/delete", middleware.RequireAuth, ctrl.Comment.HandleDelete)

	// Auth
	group.Get("/login", middleware.RequireGuest, ctrl.Auth.HandleLoginPage)
	group.Post("/login", middleware.RequireGuest, ctrl.Auth.HandleLogin)
	group.Get("/register", middleware.RequireGuest, ctrl.Auth.HandleRegisterPage)
	group.Post("/register", middleware.RequireGuest, ctrl.Auth.HandleRegister)
	group.Post("/logout", middleware.RequireAuth, ctrl.Auth.HandleLogout)

	// User area
	group.Get("/dashboard", middleware.RequireAuth, ctrl.User.HandleDashboard)
	group.Get("/profile", middleware.RequireAuth, ctrl.User.HandleProfile)
	group.Post("/profile", middleware.RequireAuth, ctrl.User.HandleProfileUpdate)
}
