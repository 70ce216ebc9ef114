package models

// DailyStats repräsentiert Statistiken für einen einzelnen Tag
type DailyStats struct {
	Date  string `json:"date"`
	Count int    `json:"count"`
}

// CategoryStats counts published posts per category
type CategoryStats struct {
	Category string `json:"category"`
	Count    int    `json:"count"`
}

// UserDashboardStats summarises the posts of a single author
type UserDashboardStats struct {
	TotalPosts     int64 `json:"total_posts"`
	PublishedPosts int64 `json:"published_posts"`
	TotalViews     int64 `json:"total_views"`
	TotalLikes     int64 `json:"total_likes"`
}

// AdminDashboardStats holds the site wide counters shown in the admin panel
type AdminDashboardStats struct {
	TotalUsers      int64 `json:"total_users"`
	TotalPosts      int64 `json:"total_posts"`
	TotalComments   int64 `json:"total_comments"`
	PendingComments int64 `json:"pending_comments"`
}
