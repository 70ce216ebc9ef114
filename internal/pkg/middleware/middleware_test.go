package middleware

import (
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"strconv"
	"testing"

	"github.com/gofiber/fiber/v2"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/ManuelReschke/PixelPress/app/models"
	"github.com/ManuelReschke/PixelPress/app/repository"
	"github.com/ManuelReschke/PixelPress/app/repository/memory"
	"github.com/ManuelReschke/PixelPress/internal/pkg/session"
	"github.com/ManuelReschke/PixelPress/internal/pkg/usercontext"
)

func newApp(t *testing.T) (*fiber.App, *repository.Repositories) {
	t.Helper()
	session.NewMemoryStore()
	repos := memory.New().Repositories()

	app := fiber.New()
	app.Use(UserContextMiddleware(repos.User))
	app.Post("/login/:id", func(c *fiber.Ctx) error {
		id, _ := c.ParamsInt("id")
		return session.Login(c, uint(id), "someone")
	})
	app.Get("/whoami", func(c *fiber.Ctx) error {
		return c.JSON(usercontext.GetUserContext(c))
	})
	app.Get("/private", RequireAuth, func(c *fiber.Ctx) error { return c.SendString("private") })
	app.Get("/admin", RequireAdmin, func(c *fiber.Ctx) error { return c.SendString("admin") })
	app.Get("/login", RequireGuest, func(c *fiber.Ctx) error { return c.SendString("login") })
	app.Get("/api/private", RequireAPISessionAuth, func(c *fiber.Ctx) error { return c.SendString("ok") })
	app.Get("/api/admin", RequireAPIAdmin, func(c *fiber.Ctx) error { return c.SendString("ok") })
	return app, repos
}

func login(t *testing.T, app *fiber.App, id uint) *http.Cookie {
	t.Helper()
	resp, err := app.Test(httptest.NewRequest("POST", "/login/"+strconv.Itoa(int(id)), nil), -1)
	require.NoError(t, err)
	for _, c := range resp.Cookies() {
		if c.Name == "session_id" {
			return c
		}
	}
	t.Fatalf("no session cookie")
	return nil
}

func get(t *testing.T, app *fiber.App, path string, cookie *http.Cookie) *http.Response {
	t.Helper()
	req := httptest.NewRequest("GET", path, nil)
	if cookie != nil {
		req.AddCookie(cookie)
	}
	resp, err := app.Test(req, -1)
	require.NoError(t, err)
	return resp
}

func TestGuardsForAnonymous(t *testing.T) {
	app, _ := newApp(t)

	resp := get(t, app, "/private", nil)
	assert.Equal(t, fiber.StatusSeeOther, resp.StatusCode)
	assert.Equal(t, "/login?next=%2Fprivate", resp.Header.Get("Location"))

	resp = get(t, app, "/api/private", nil)
	assert.Equal(t, fiber.StatusUnauthorized, resp.StatusCode)
	var body map[string]string
	require.NoError(t, json.NewDecoder(resp.Body).Decode(&body))
	assert.Equal(t, map[string]string{"error": "unauthorized", "message": "login required"}, body)

	assert.Equal(t, fiber.StatusUnauthorized, get(t, app, "/api/admin", nil).StatusCode)
	assert.Equal(t, fiber.StatusOK, get(t, app, "/login", nil).StatusCode)
}

func TestUserContextFromSession(t *testing.T) {
	app, repos := newApp(t)
	ctx := context.Background()
	member := &models.User{Username: "member", Email: "m@example.com", Role: models.ROLE_MEMBER, Active: true}
	require.NoError(t, repos.User.Create(ctx, member))

	cookie := login(t, app, member.ID)

	var uc usercontext.UserContext
	require.NoError(t, json.NewDecoder(get(t, app, "/whoami", cookie).Body).Decode(&uc))
	assert.True(t, uc.IsLoggedIn)
	assert.Equal(t, "member", uc.Username)
	assert.Contains(t, uc.AvatarURL, "gravatar.com")

	assert.Equal(t, fiber.StatusOK, get(t, app, "/private", cookie).StatusCode)
	assert.Equal(t, fiber.StatusForbidden, get(t, app, "/admin", cookie).StatusCode)
	assert.Equal(t, fiber.StatusForbidden, get(t, app, "/api/admin", cookie).StatusCode)
	resp := get(t, app, "/login", cookie)
	assert.Equal(t, fiber.StatusSeeOther, resp.StatusCode)
	assert.Equal(t, "/", resp.Header.Get("Location"))
}

func TestAdminRoleReadFromDatabase(t *testing.T) {
	app, repos := newApp(t)
	ctx := context.Background()
	admin := &models.User{Username: "admin", Email: "a@example.com", Role: models.ROLE_ADMIN, Active: true}
	require.NoError(t, repos.User.Create(ctx, admin))

	cookie := login(t, app, admin.ID)
	assert.Equal(t, fiber.StatusOK, get(t, app, "/admin", cookie).StatusCode)
	assert.Equal(t, fiber.StatusOK, get(t, app, "/api/admin", cookie).StatusCode)
}

func TestDisabledUserLosesSession(t *testing.T) {
	app, repos := newApp(t)
	ctx := context.Background()
	user := &models.User{Username: "gone", Email: "g@example.com", Role: models.ROLE_MEMBER, Active: true}
	require.NoError(t, repos.User.Create(ctx, user))
	cookie := login(t, app, user.ID)

	require.NoError(t, repos.User.SetActive(ctx, user.ID, false))

	resp := get(t, app, "/private", cookie)
	assert.Equal(t, fiber.StatusSeeOther, resp.StatusCode)
}
