package viewmodel

import (
	"github.com/gofiber/fiber/v2"

	"github.com/ManuelReschke/PixelPress/app/models"
	"github.com/ManuelReschke/PixelPress/internal/pkg/flash"
	"github.com/ManuelReschke/PixelPress/internal/pkg/usercontext"
)

// CSRFKey is the locals key the csrf middleware stores its token under.
const CSRFKey = "csrf"

type Layout struct {
	Page          string
	FromProtected bool
	IsError       bool
	Msg           fiber.Map
	UserID        uint
	Username      string
	AvatarURL     string
	IsAdmin       bool
	CSRF          string
	Categories    []string
	ActiveNav     string
}

// NewLayout collects everything the main layout needs from the request.
func NewLayout(c *fiber.Ctx, page string) Layout {
	u := usercontext.GetUserContext(c)
	csrfToken, _ := c.Locals(CSRFKey).(string)

	return Layout{
		Page:          page,
		FromProtected: u.IsLoggedIn,
		Msg:           flash.Get(c),
		UserID:        u.UserID,
		Username:      u.Username,
		AvatarURL:     u.AvatarURL,
		IsAdmin:       u.IsAdmin,
		CSRF:          csrfToken,
		Categories:    models.CategoryNames,
	}
}

// Data builds the template data with the layout under "Layout".
func Data(l Layout, values fiber.Map) fiber.Map {
	data := fiber.Map{"Layout": l}
	for k, v := range values {
		data[k] = v
	}
	return data
}
