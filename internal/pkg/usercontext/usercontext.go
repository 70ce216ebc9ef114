package usercontext

import (
	"github.com/gofiber/fiber/v2"

	"github.com/ManuelReschke/PixelPress/internal/pkg/identity"
)

// Locals and session keys
const (
	KeyUserContext   = "USER_CONTEXT"
	KeyUserID        = "user_id"
	KeyUsername      = "username"
	KeyIsAdmin       = "is_admin"
	KeyFromProtected = "from_protected"
)

// UserContext represents the complete user context for a request
type UserContext struct {
	UserID     uint   `json:"user_id"`
	Username   string `json:"username"`
	AvatarURL  string `json:"avatar_url"`
	IsLoggedIn bool   `json:"is_logged_in"`
	IsAdmin    bool   `json:"is_admin"`
}

// Actor converts the request user into the identity passed to workflow operations.
func (u UserContext) Actor() identity.Actor {
	if !u.IsLoggedIn {
		return identity.Actor{}
	}
	return identity.Actor{UserID: u.UserID, IsAdmin: u.IsAdmin}
}

// Set stores the user context plus the flags the route guards read.
func Set(c *fiber.Ctx, u UserContext) {
	c.Locals(KeyUserContext, u)
	c.Locals(KeyFromProtected, u.IsLoggedIn)
	c.Locals(KeyIsAdmin, u.IsAdmin)
	if u.IsLoggedIn {
		c.Locals(KeyUserID, u.UserID)
		c.Locals(KeyUsername, u.Username)
	}
}

// GetUserContext retrieves the user context from fiber context
// Returns a default anonymous context if none is set
func GetUserContext(c *fiber.Ctx) UserContext {
	if ctx, ok := c.Locals(KeyUserContext).(UserContext); ok {
		return ctx
	}
	return UserContext{}
}

// Actor is GetUserContext(c).Actor().
func Actor(c *fiber.Ctx) identity.Actor {
	return GetUserContext(c).Actor()
}

// IsLoggedIn checks if the current user is logged in
func IsLoggedIn(c *fiber.Ctx) bool {
	return GetUserContext(c).IsLoggedIn
}

// IsAdmin checks if the current user is an admin
func IsAdmin(c *fiber.Ctx) bool {
	return GetUserContext(c).IsAdmin
}

// GetUserID returns the current user's ID, or 0 if not logged in
func GetUserID(c *fiber.Ctx) uint {
	return GetUserContext(c).UserID
}
