package apiv1

import (
	"github.com/gofiber/fiber/v2"

	"github.com/ManuelReschke/PixelPress/internal/pkg/middleware"
)

// RegisterHandlers mounts the v1 endpoints on router.
func RegisterHandlers(router fiber.Router, s *APIServer) {
	router.Get("/ping", s.GetPing)
	router.Get("/analytics", middleware.RequireAPIAdmin, s.GetAnalytics)
	router.Post("/posts/:slug/like", middleware.RequireAPISessionAuth, s.PostToggleLike)
}
