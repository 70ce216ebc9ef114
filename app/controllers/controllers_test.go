package controllers_test

import (
	"context"
	"encoding/json"
	"io"
	"net/http"
	"net/http/httptest"
	"net/url"
	"strconv"
	"strings"
	"testing"

	"github.com/gofiber/fiber/v2"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/ManuelReschke/PixelPress/app/controllers"
	"github.com/ManuelReschke/PixelPress/app/models"
	"github.com/ManuelReschke/PixelPress/app/repository"
	"github.com/ManuelReschke/PixelPress/app/repository/memory"
	"github.com/ManuelReschke/PixelPress/internal/pkg/cache"
	"github.com/ManuelReschke/PixelPress/internal/pkg/identity"
	"github.com/ManuelReschke/PixelPress/internal/pkg/router"
	"github.com/ManuelReschke/PixelPress/internal/pkg/session"
	"github.com/ManuelReschke/PixelPress/internal/pkg/validation"
	"github.com/ManuelReschke/PixelPress/internal/pkg/viewmodel"
)

type testEnv struct {
	app      *fiber.App
	repos    *repository.Repositories
	services *controllers.Services
}

func newTestEnv(t *testing.T) *testEnv {
	t.Helper()
	session.NewMemoryStore()
	repos := memory.New().Repositories()
	services := controllers.NewServices(repos, cache.New(nil), nil, nil, 6)

	app := fiber.New(fiber.Config{
		Views:        viewmodel.NewEngine("../../views", false),
		ErrorHandler: controllers.HandleError,
	})
	// registered before the router, outside of the csrf group
	app.Post("/test/login/:id", func(c *fiber.Ctx) error {
		id, _ := c.ParamsInt("id")
		return session.Login(c, uint(id), "someone")
	})
	router.InstallRouter(app, services, router.Options{})
	return &testEnv{app: app, repos: repos, services: services}
}

func (e *testEnv) user(t *testing.T, name, role string) *models.User {
	t.Helper()
	u, err := models.NewMember(name, name+"@example.com", "secret1")
	require.NoError(t, err)
	u.Role = role
	require.NoError(t, e.repos.User.Create(context.Background(), u))
	return u
}

func (e *testEnv) post(t *testing.T, author *models.User, title string, publish bool) *models.Post {
	t.Helper()
	p, err := e.services.Publishing.Create(context.Background(),
		identity.Actor{UserID: author.ID, IsAdmin: author.IsAdmin()},
		validation.PostInput{Title: title, Content: "<p>Body of " + title + "</p>", Category: models.CATEGORY_TRAVEL, Publish: publish},
		"")
	require.NoError(t, err)
	return p
}

// client keeps cookies between requests like a browser would.
type client struct {
	t       *testing.T
	app     *fiber.App
	cookies map[string]*http.Cookie
}

func (e *testEnv) client(t *testing.T) *client {
	return &client{t: t, app: e.app, cookies: map[string]*http.Cookie{}}
}

func (e *testEnv) loggedIn(t *testing.T, u *models.User) *client {
	c := e.client(t)
	resp := c.do(httptest.NewRequest(fiber.MethodPost, "/test/login/"+strconv.Itoa(int(u.ID)), nil))
	require.Equal(t, fiber.StatusOK, resp.StatusCode)
	return c
}

func (c *client) do(req *http.Request) *http.Response {
	c.t.Helper()
	for _, ck := range c.cookies {
		req.AddCookie(ck)
	}
	resp, err := c.app.Test(req, -1)
	require.NoError(c.t, err)
	for _, ck := range resp.Cookies() {
		if ck.Value == "" || ck.MaxAge < 0 {
			delete(c.cookies, ck.Name)
			continue
		}
		c.cookies[ck.Name] = ck
	}
	return resp
}

func (c *client) get(path string) *http.Response {
	return c.do(httptest.NewRequest(fiber.MethodGet, path, nil))
}

// csrf returns the token of the csrf cookie, fetching a page first if needed.
func (c *client) csrf() string {
	if ck, ok := c.cookies["csrf_"]; ok {
		return ck.Value
	}
	c.get("/")
	ck, ok := c.cookies["csrf_"]
	require.True(c.t, ok, "no csrf cookie")
	return ck.Value
}

func (c *client) postForm(path string, form url.Values) *http.Response {
	req := httptest.NewRequest(fiber.MethodPost, path, strings.NewReader(form.Encode()))
	req.Header.Set("Content-Type", fiber.MIMEApplicationForm)
	req.Header.Set("X-CSRF-Token", c.csrf())
	return c.do(req)
}

func body(t *testing.T, resp *http.Response) string {
	t.Helper()
	b, err := io.ReadAll(resp.Body)
	require.NoError(t, err)
	return string(b)
}

func TestIndexListsPublishedPostsOnly(t *testing.T) {
	env := newTestEnv(t)
	author := env.user(t, "alice", models.ROLE_MEMBER)
	env.post(t, author, "Visible Trip", true)
	env.post(t, author, "Secret Draft", false)

	resp := env.client(t).get("/")
	require.Equal(t, fiber.StatusOK, resp.StatusCode)
	html := body(t, resp)
	assert.Contains(t, html, "Visible Trip")
	assert.NotContains(t, html, "Secret Draft")
}

func TestShowPost(t *testing.T) {
	env := newTestEnv(t)
	author := env.user(t, "alice", models.ROLE_MEMBER)
	published := env.post(t, author, "Hello World", true)
	draft := env.post(t, author, "Not Yet", false)

	c := env.client(t)
	resp := c.get("/post/" + published.Slug)
	require.Equal(t, fiber.StatusOK, resp.StatusCode)
	assert.Contains(t, body(t, resp), "Body of Hello World")

	stored, err := env.repos.Post.GetByID(context.Background(), published.ID)
	require.NoError(t, err)
	assert.EqualValues(t, 1, stored.Views)

	hidden := c.get("/post/" + draft.Slug)
	missing := c.get("/post/does-not-exist")
	assert.Equal(t, fiber.StatusNotFound, hidden.StatusCode)
	assert.Equal(t, fiber.StatusNotFound, missing.StatusCode)
	assert.Equal(t, body(t, missing), body(t, hidden), "a draft must be indistinguishable from a missing post")
	assert.NotContains(t, body(t, c.get("/post/"+draft.Slug)), "Not Yet")
}

func TestNewPostRequiresLogin(t *testing.T) {
	env := newTestEnv(t)
	resp := env.client(t).get("/post/new")
	assert.Equal(t, fiber.StatusSeeOther, resp.StatusCode)
	assert.Equal(t, "/login?next=%2Fpost%2Fnew", resp.Header.Get("Location"))
}

func TestCreatePost(t *testing.T) {
	env := newTestEnv(t)
	author := env.user(t, "alice", models.ROLE_MEMBER)
	c := env.loggedIn(t, author)

	require.Equal(t, fiber.StatusOK, c.get("/post/new").StatusCode)
	resp := c.postForm("/post/new", url.Values{
		"title":        {"My First Post"},
		"content":      {"<p>Hi</p><script>alert(1)</script>"},
		"category":     {models.CATEGORY_TECHNOLOGY},
		"tags":         {"go, fiber"},
		"is_published": {"true"},
	})
	require.Equal(t, fiber.StatusSeeOther, resp.StatusCode)
	assert.Equal(t, "/dashboard", resp.Header.Get("Location"))

	post, err := env.repos.Post.GetBySlug(context.Background(), "my-first-post")
	require.NoError(t, err)
	assert.True(t, post.Published)
	assert.Equal(t, author.ID, post.UserID)
	assert.NotContains(t, post.Content, "<script>")
}

func TestCreatePost_InvalidFormIsRerendered(t *testing.T) {
	env := newTestEnv(t)
	c := env.loggedIn(t, env.user(t, "alice", models.ROLE_MEMBER))

	resp := c.postForm("/post/new", url.Values{
		"title":    {""},
		"content":  {"text"},
		"category": {"politics"},
	})
	assert.Equal(t, fiber.StatusUnprocessableEntity, resp.StatusCode)
	assert.Contains(t, body(t, resp), "Please correct the errors below.")
}

func TestPostWithoutCSRFTokenIsRejected(t *testing.T) {
	env := newTestEnv(t)
	c := env.loggedIn(t, env.user(t, "alice", models.ROLE_MEMBER))

	req := httptest.NewRequest(fiber.MethodPost, "/post/new", strings.NewReader("title=x"))
	req.Header.Set("Content-Type", fiber.MIMEApplicationForm)
	assert.Equal(t, fiber.StatusForbidden, c.do(req).StatusCode)
}

func TestEditPost_OnlyOwnerOrAdmin(t *testing.T) {
	env := newTestEnv(t)
	owner := env.user(t, "alice", models.ROLE_MEMBER)
	other := env.user(t, "bob", models.ROLE_MEMBER)
	admin := env.user(t, "root", models.ROLE_ADMIN)
	post := env.post(t, owner, "Owned", true)

	assert.Equal(t, fiber.StatusForbidden, env.loggedIn(t, other).get("/post/"+post.Slug+"/edit").StatusCode)
	assert.Equal(t, fiber.StatusOK, env.loggedIn(t, owner).get("/post/"+post.Slug+"/edit").StatusCode)

	c := env.loggedIn(t, admin)
	resp := c.postForm("/post/"+post.Slug+"/edit", url.Values{
		"title":    {"Owned"},
		"content":  {"edited by admin"},
		"category": {models.CATEGORY_TRAVEL},
	})
	require.Equal(t, fiber.StatusSeeOther, resp.StatusCode)
	assert.Equal(t, "/dashboard", resp.Header.Get("Location"), "unpublished posts go back to the dashboard")

	stored, err := env.repos.Post.GetByID(context.Background(), post.ID)
	require.NoError(t, err)
	assert.False(t, stored.Published)
	assert.Contains(t, stored.Content, "edited by admin")
}

func TestDeletePost(t *testing.T) {
	env := newTestEnv(t)
	owner := env.user(t, "alice", models.ROLE_MEMBER)
	post := env.post(t, owner, "Short Lived", true)

	resp := env.loggedIn(t, env.user(t, "bob", models.ROLE_MEMBER)).postForm("/post/"+post.Slug+"/delete", nil)
	assert.Equal(t, fiber.StatusForbidden, resp.StatusCode)

	resp = env.loggedIn(t, owner).postForm("/post/"+post.Slug+"/delete", nil)
	require.Equal(t, fiber.StatusSeeOther, resp.StatusCode)
	_, err := env.repos.Post.GetByID(context.Background(), post.ID)
	assert.Error(t, err)
}

func TestToggleLike(t *testing.T) {
	env := newTestEnv(t)
	author := env.user(t, "alice", models.ROLE_MEMBER)
	post := env.post(t, author, "Likeable", true)
	path := "/post/" + post.Slug + "/like"

	anon := env.client(t)
	assert.Equal(t, fiber.StatusUnauthorized, anon.postForm(path, nil).StatusCode)

	c := env.loggedIn(t, env.user(t, "bob", models.ROLE_MEMBER))
	var res struct {
		Liked     bool  `json:"liked"`
		LikeCount int64 `json:"like_count"`
	}
	resp := c.postForm(path, nil)
	require.Equal(t, fiber.StatusOK, resp.StatusCode)
	require.NoError(t, json.NewDecoder(resp.Body).Decode(&res))
	assert.True(t, res.Liked)
	assert.EqualValues(t, 1, res.LikeCount)

	resp = c.postForm(path, nil)
	require.NoError(t, json.NewDecoder(resp.Body).Decode(&res))
	assert.False(t, res.Liked)
	assert.EqualValues(t, 0, res.LikeCount)
}

func TestCommentModeration(t *testing.T) {
	env := newTestEnv(t)
	author := env.user(t, "alice", models.ROLE_MEMBER)
	admin := env.user(t, "root", models.ROLE_ADMIN)
	post := env.post(t, author, "Discuss", true)
	ctx := context.Background()

	member := env.loggedIn(t, env.user(t, "bob", models.ROLE_MEMBER))
	resp := member.postForm("/post/"+post.Slug+"/comment", url.Values{"content": {"first!"}})
	require.Equal(t, fiber.StatusSeeOther, resp.StatusCode)
	assert.Equal(t, "/post/"+post.Slug+"#comments", resp.Header.Get("Location"))

	pending, err := env.repos.Comment.ListPending(ctx)
	require.NoError(t, err)
	require.Len(t, pending, 1)
	assert.NotContains(t, body(t, member.get("/post/"+post.Slug)), "first!")

	adminClient := env.loggedIn(t, admin)
	resp = adminClient.postForm("/admin/comments/"+strconv.Itoa(int(pending[0].ID))+"/approve", nil)
	require.Equal(t, fiber.StatusSeeOther, resp.StatusCode)
	assert.Contains(t, body(t, member.get("/post/"+post.Slug)), "first!")

	// admin comments skip the queue
	resp = adminClient.postForm("/post/"+post.Slug+"/comment", url.Values{"content": {"welcome"}})
	require.Equal(t, fiber.StatusSeeOther, resp.StatusCode)
	pending, err = env.repos.Comment.ListPending(ctx)
	require.NoError(t, err)
	assert.Empty(t, pending)
}

func TestLogin(t *testing.T) {
	env := newTestEnv(t)
	_, err := env.services.Identity.Register(context.Background(), validation.RegisterInput{
		Username: "carol", Email: "carol@example.com", Password: "secret1", ConfirmPassword: "secret1",
	})
	require.NoError(t, err)

	c := env.client(t)
	resp := c.postForm("/login", url.Values{"email": {"carol@example.com"}, "password": {"wrong"}})
	require.Equal(t, fiber.StatusSeeOther, resp.StatusCode)
	assert.Equal(t, "/login", resp.Header.Get("Location"))

	resp = c.postForm("/login", url.Values{
		"email":    {"carol@example.com"},
		"password": {"secret1"},
		"next":     {"//evil.example.com"},
	})
	require.Equal(t, fiber.StatusSeeOther, resp.StatusCode)
	assert.Equal(t, "/dashboard", resp.Header.Get("Location"))
	assert.Equal(t, fiber.StatusOK, c.get("/dashboard").StatusCode)
}

func TestRegister_ValidationErrors(t *testing.T) {
	env := newTestEnv(t)
	resp := env.client(t).postForm("/register", url.Values{
		"username":         {"dave"},
		"email":            {"dave@example.com"},
		"password":         {"secret1"},
		"confirm_password": {"other"},
	})
	assert.Equal(t, fiber.StatusUnprocessableEntity, resp.StatusCode)
	_, err := env.repos.User.GetByEmail(context.Background(), "dave@example.com")
	assert.Error(t, err)
}

func TestAdminArea(t *testing.T) {
	env := newTestEnv(t)
	member := env.user(t, "bob", models.ROLE_MEMBER)
	admin := env.user(t, "root", models.ROLE_ADMIN)

	assert.Equal(t, fiber.StatusForbidden, env.loggedIn(t, member).get("/admin").StatusCode)

	c := env.loggedIn(t, admin)
	assert.Equal(t, fiber.StatusOK, c.get("/admin").StatusCode)
	assert.Equal(t, fiber.StatusOK, c.get("/admin/users").StatusCode)

	resp := c.postForm("/admin/users/"+strconv.Itoa(int(admin.ID))+"/toggle", nil)
	require.Equal(t, fiber.StatusSeeOther, resp.StatusCode)
	self, err := env.repos.User.GetByID(context.Background(), admin.ID)
	require.NoError(t, err)
	assert.True(t, self.Active, "admins cannot deactivate themselves")

	resp = c.postForm("/admin/users/"+strconv.Itoa(int(member.ID))+"/toggle", nil)
	require.Equal(t, fiber.StatusSeeOther, resp.StatusCode)
	other, err := env.repos.User.GetByID(context.Background(), member.ID)
	require.NoError(t, err)
	assert.False(t, other.Active)
}

func TestAPI(t *testing.T) {
	env := newTestEnv(t)
	c := env.client(t)

	resp := c.get("/api/v1/ping")
	require.Equal(t, fiber.StatusOK, resp.StatusCode)
	assert.JSONEq(t, `{"ping":"pong"}`, body(t, resp))

	resp = c.get("/api/v1/analytics")
	assert.Equal(t, fiber.StatusUnauthorized, resp.StatusCode)

	resp = c.get("/api/v1/nope")
	assert.Equal(t, fiber.StatusNotFound, resp.StatusCode)
	var e map[string]string
	require.NoError(t, json.NewDecoder(resp.Body).Decode(&e))
	assert.Equal(t, "not_found", e["error"])

	admin := env.loggedIn(t, env.user(t, "root", models.ROLE_ADMIN))
	resp = admin.get("/api/v1/analytics")
	require.Equal(t, fiber.StatusOK, resp.StatusCode)
	var report map[string]json.RawMessage
	require.NoError(t, json.NewDecoder(resp.Body).Decode(&report))
	assert.Contains(t, report, "daily_posts")
	assert.Contains(t, report, "top_categories")
}
