package usercontext

import (
	"net/http/httptest"
	"testing"

	"github.com/gofiber/fiber/v2"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/ManuelReschke/PixelPress/internal/pkg/identity"
)

func TestActor(t *testing.T) {
	assert.Equal(t, identity.Actor{}, UserContext{UserID: 5, IsAdmin: true}.Actor())
	assert.Equal(t, identity.Actor{UserID: 5, IsAdmin: true}, UserContext{UserID: 5, IsAdmin: true, IsLoggedIn: true}.Actor())
}

func TestSetAndGet(t *testing.T) {
	app := fiber.New()
	app.Get("/", func(c *fiber.Ctx) error {
		assert.False(t, IsLoggedIn(c))
		assert.Equal(t, identity.Actor{}, Actor(c))

		Set(c, UserContext{UserID: 3, Username: "ada", IsLoggedIn: true})
		assert.True(t, IsLoggedIn(c))
		assert.False(t, IsAdmin(c))
		assert.Equal(t, uint(3), GetUserID(c))
		assert.Equal(t, true, c.Locals(KeyFromProtected))
		return c.SendStatus(fiber.StatusNoContent)
	})

	resp, err := app.Test(httptest.NewRequest("GET", "/", nil), -1)
	require.NoError(t, err)
	assert.Equal(t, fiber.StatusNoContent, resp.StatusCode)
}
