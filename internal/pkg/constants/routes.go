package constants

// Static route constants
const (
	UploadsRoute = "/uploads"
	PublicRoute  = "/"
	AssetsRoute  = "/assets"
	// Upload path without leading slash for URL construction
	UploadsPath = "uploads"
)

// Page routes used for redirects
const (
	HomeRoute      = "/"
	LoginRoute     = "/login"
	RegisterRoute  = "/register"
	DashboardRoute = "/dashboard"
	ProfileRoute   = "/profile"
	AdminRoute     = "/admin"
	AdminComments  = "/admin/comments"
	AdminUsers     = "/admin/users"
	NewPostRoute   = "/post/new"
	APIDocsRoute   = "/docs/api/v1"
	MetricsRoute   = "/metrics"
)

// PostRoute returns the public url of a post.
func PostRoute(slug string) string {
	return "/post/" + slug
}

// EditPostRoute returns the edit form url of a post.
func EditPostRoute(slug string) string {
	return "/post/" + slug + "/edit"
}
