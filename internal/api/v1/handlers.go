package apiv1

import (
	"github.com/gofiber/fiber/v2"

	// Delegate to existing controllers to keep behavior consistent
	"github.com/ManuelReschke/PixelPress/app/controllers"
)

// Pong is the body of GET /ping
type Pong struct {
	Ping string `json:"ping"`
}

// APIServer implements the v1 JSON endpoints
type APIServer struct {
	posts *controllers.PostController
	admin *controllers.AdminController
}

// NewAPIServer creates a new API server instance
func NewAPIServer(ctrl *controllers.Controllers) *APIServer {
	return &APIServer{posts: ctrl.Post, admin: ctrl.Admin}
}

// GetPing handles the ping endpoint
func (s *APIServer) GetPing(c *fiber.Ctx) error {
	return c.Status(fiber.StatusOK).JSON(Pong{Ping: "pong"})
}

// GetAnalytics returns the admin analytics report.
func (s *APIServer) GetAnalytics(c *fiber.Ctx) error {
	return s.admin.HandleAnalyticsAPI(c)
}

// PostToggleLike toggles the like of the session user on a published post.
func (s *APIServer) PostToggleLike(c *fiber.Ctx) error {
	return s.posts.HandleLike(c)
}
