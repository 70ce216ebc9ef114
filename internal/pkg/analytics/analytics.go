// Package analytics aggregates post statistics for the admin panel and the
// user dashboard.
package analytics

import (
	"context"
	"time"

	"github.com/ManuelReschke/PixelPress/app/models"
	"github.com/ManuelReschke/PixelPress/app/repository"
	"github.com/ManuelReschke/PixelPress/internal/pkg/apperrors"
	"github.com/ManuelReschke/PixelPress/internal/pkg/cache"
	"github.com/ManuelReschke/PixelPress/internal/pkg/identity"
)

const (
	ReportDays       = 30
	ChartDays        = 7
	TopCategoryLimit = 5
	RecentLimit      = 10

	CacheKeyReport = "analytics:report:v1"
	CacheTTL       = time.Minute
)

// Report is the payload of the analytics API.
type Report struct {
	DailyPosts    []models.DailyStats    `json:"daily_posts"`
	TopCategories []models.CategoryStats `json:"top_categories"`
}

// AdminDashboard is everything the admin start page shows.
type AdminDashboard struct {
	Stats       models.AdminDashboardStats
	RecentPosts []models.Post
	RecentUsers []models.User
	Chart       []models.DailyStats
}

type Service struct {
	repos *repository.Repositories
	cache *cache.Cache
	now   func() time.Time
}

func NewService(repos *repository.Repositories, c *cache.Cache) *Service {
	if c == nil {
		c = cache.New(nil)
	}
	return &Service{repos: repos, cache: c, now: time.Now}
}

// Report returns daily post counts for the trailing 30 days, today included
// and without gaps, and the top five categories by published posts.
func (s *Service) Report(ctx context.Context, actor identity.Actor) (Report, error) {
	if !actor.IsAdmin {
		return Report{}, apperrors.ErrForbidden
	}
	return cache.GetOrLoadJSON(s.cache, ctx, CacheKeyReport, CacheTTL, s.loadReport)
}

func (s *Service) loadReport(ctx context.Context) (Report, error) {
	daily, err := s.dailyPosts(ctx, ReportDays)
	if err != nil {
		return Report{}, err
	}
	top, err := s.repos.Post.GetTopCategories(ctx, TopCategoryLimit)
	if err != nil {
		return Report{}, err
	}
	if top == nil {
		top = []models.CategoryStats{}
	}
	return Report{DailyPosts: daily, TopCategories: top}, nil
}

func (s *Service) dailyPosts(ctx context.Context, days int) ([]models.DailyStats, error) {
	// days are UTC calendar days, matching how the stores bucket created_at
	now := s.now().UTC()
	start := time.Date(now.Year(), now.Month(), now.Day(), 0, 0, 0, 0, time.UTC).AddDate(0, 0, -(days - 1))
	stats, err := s.repos.Post.GetDailyStats(ctx, start)
	if err != nil {
		return nil, err
	}
	return FillStatGaps(stats, start, days), nil
}

// AdminDashboard collects the site counters, the newest posts and users and
// the new-posts chart of the last seven days.
func (s *Service) AdminDashboard(ctx context.Context, actor identity.Actor) (*AdminDashboard, error) {
	if !actor.IsAdmin {
		return nil, apperrors.ErrForbidden
	}

	var (
		d   AdminDashboard
		err error
	)
	if d.Stats.TotalUsers, err = s.repos.User.Count(ctx); err != nil {
		return nil, err
	}
	if d.Stats.TotalPosts, err = s.repos.Post.Count(ctx); err != nil {
		return nil, err
	}
	if d.Stats.TotalComments, err = s.repos.Comment.Count(ctx); err != nil {
		return nil, err
	}
	if d.Stats.PendingComments, err = s.repos.Comment.CountPending(ctx); err != nil {
		return nil, err
	}
	if d.RecentPosts, err = s.repos.Post.ListRecent(ctx, RecentLimit); err != nil {
		return nil, err
	}
	if d.RecentUsers, err = s.repos.User.ListRecent(ctx, RecentLimit); err != nil {
		return nil, err
	}
	if d.Chart, err = s.dailyPosts(ctx, ChartDays); err != nil {
		return nil, err
	}
	return &d, nil
}

// UserDashboard summarises the actor's own posts.
func (s *Service) UserDashboard(ctx context.Context, actor identity.Actor) (models.UserDashboardStats, error) {
	if !actor.IsAuthenticated() {
		return models.UserDashboardStats{}, apperrors.ErrForbidden
	}
	return s.repos.Post.GetUserStats(ctx, actor.UserID)
}

// FillStatGaps returns one entry per day starting at startDate, days with no
// data get a zero count.
func FillStatGaps(stats []models.DailyStats, startDate time.Time, days int) []models.DailyStats {
	result := make([]models.DailyStats, days)
	statsMap := make(map[string]int, len(stats))
	for _, stat := range stats {
		statsMap[stat.Date] += stat.Count
	}

	for i := 0; i < days; i++ {
		dateStr := startDate.AddDate(0, 0, i).Format("2006-01-02")
		result[i] = models.DailyStats{Date: dateStr, Count: statsMap[dateStr]}
	}
	return result
}
