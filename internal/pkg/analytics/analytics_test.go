package analytics

import (
	"context"
	"fmt"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/ManuelReschke/PixelPress/app/models"
	"github.com/ManuelReschke/PixelPress/app/repository/memory"
	"github.com/ManuelReschke/PixelPress/internal/pkg/apperrors"
	"github.com/ManuelReschke/PixelPress/internal/pkg/identity"
)

var admin = identity.Actor{UserID: 1, IsAdmin: true}

func TestFillStatGaps(t *testing.T) {
	start := time.Date(2024, 2, 27, 0, 0, 0, 0, time.UTC)
	stats := []models.DailyStats{{Date: "2024-02-28", Count: 2}, {Date: "2024-03-01", Count: 5}}

	got := FillStatGaps(stats, start, 4)

	assert.Equal(t, []models.DailyStats{
		{Date: "2024-02-27", Count: 0},
		{Date: "2024-02-28", Count: 2},
		{Date: "2024-02-29", Count: 0},
		{Date: "2024-03-01", Count: 5},
	}, got)
}

func seed(t *testing.T) (*Service, *memory.Store) {
	t.Helper()
	store := memory.New()
	repos := store.Repositories()
	ctx := context.Background()

	today := time.Date(2024, 3, 10, 15, 0, 0, 0, time.UTC)
	created := []struct {
		at        time.Time
		category  string
		published bool
	}{
		{today, models.CATEGORY_TRAVEL, true},
		{today.Add(-time.Hour), models.CATEGORY_TRAVEL, true},
		{today.AddDate(0, 0, -3), models.CATEGORY_FOOD, true},
		{today.AddDate(0, 0, -29), models.CATEGORY_HEALTH, false},
		{today.AddDate(0, 0, -45), models.CATEGORY_TECHNOLOGY, true},
	}
	for i, c := range created {
		at := c.at
		store.Now = func() time.Time { return at }
		require.NoError(t, repos.Post.Create(ctx, &models.Post{
			Title: fmt.Sprint("p", i), Slug: fmt.Sprint("p", i), Content: "x",
			Category: c.category, Published: c.published, UserID: 2,
		}))
	}

	svc := NewService(repos, nil)
	svc.now = func() time.Time { return today }
	return svc, store
}

func TestReport(t *testing.T) {
	svc, _ := seed(t)

	r, err := svc.Report(context.Background(), admin)
	require.NoError(t, err)

	require.Len(t, r.DailyPosts, ReportDays)
	assert.Equal(t, "2024-02-10", r.DailyPosts[0].Date)
	assert.Equal(t, models.DailyStats{Date: "2024-03-10", Count: 2}, r.DailyPosts[ReportDays-1])
	assert.Equal(t, models.DailyStats{Date: "2024-03-07", Count: 1}, r.DailyPosts[ReportDays-4])
	assert.Equal(t, 1, r.DailyPosts[0].Count)

	total := 0
	for _, d := range r.DailyPosts {
		total += d.Count
	}
	assert.Equal(t, 4, total)

	assert.Equal(t, []models.CategoryStats{
		{Category: models.CATEGORY_TRAVEL, Count: 2},
		{Category: models.CATEGORY_FOOD, Count: 1},
		{Category: models.CATEGORY_TECHNOLOGY, Count: 1},
	}, r.TopCategories)
}

func TestReport_UsesUTCDays(t *testing.T) {
	store := memory.New()
	repos := store.Repositories()
	// 00:30 in UTC+2 falls on the previous UTC day
	at := time.Date(2026, 10, 14, 0, 30, 0, 0, time.FixedZone("CEST", 2*3600))
	store.Now = func() time.Time { return at }
	require.NoError(t, repos.Post.Create(context.Background(), &models.Post{
		Title: "late", Slug: "late", Content: "x", Category: models.CATEGORY_FOOD, Published: true, UserID: 2,
	}))

	svc := NewService(repos, nil)
	svc.now = func() time.Time { return at }

	r, err := svc.Report(context.Background(), admin)
	require.NoError(t, err)
	require.Len(t, r.DailyPosts, ReportDays)
	assert.Equal(t, models.DailyStats{Date: "2026-10-13", Count: 1}, r.DailyPosts[ReportDays-1])

	total := 0
	for _, d := range r.DailyPosts {
		total += d.Count
	}
	assert.Equal(t, 1, total)
}

func TestReport_AdminOnly(t *testing.T) {
	svc, _ := seed(t)

	_, err := svc.Report(context.Background(), identity.Actor{UserID: 2})
	assert.ErrorIs(t, err, apperrors.ErrForbidden)
	_, err = svc.AdminDashboard(context.Background(), identity.Actor{})
	assert.ErrorIs(t, err, apperrors.ErrForbidden)
}

func TestReport_EmptyStore(t *testing.T) {
	svc := NewService(memory.New().Repositories(), nil)

	r, err := svc.Report(context.Background(), admin)
	require.NoError(t, err)
	assert.Len(t, r.DailyPosts, ReportDays)
	assert.NotNil(t, r.TopCategories)
	assert.Empty(t, r.TopCategories)
}

func TestAdminDashboard(t *testing.T) {
	svc, store := seed(t)
	ctx := context.Background()
	repos := store.Repositories()
	require.NoError(t, repos.User.Create(ctx, &models.User{Username: "u", Email: "u@example.com"}))
	require.NoError(t, repos.Comment.Create(ctx, &models.Comment{Content: "c", UserID: 2, PostID: 1}))

	d, err := svc.AdminDashboard(ctx, admin)
	require.NoError(t, err)

	assert.Equal(t, models.AdminDashboardStats{TotalUsers: 1, TotalPosts: 5, TotalComments: 1, PendingComments: 1}, d.Stats)
	assert.Len(t, d.RecentPosts, 5)
	assert.Len(t, d.RecentUsers, 1)
	require.Len(t, d.Chart, ChartDays)
	assert.Equal(t, "2024-03-04", d.Chart[0].Date)
	assert.Equal(t, 2, d.Chart[ChartDays-1].Count)
}

func TestUserDashboard(t *testing.T) {
	svc, store := seed(t)
	ctx := context.Background()
	require.NoError(t, store.Repositories().Like.Create(ctx, 9, 1))
	require.NoError(t, store.Repositories().Post.IncrementViews(ctx, 1))

	stats, err := svc.UserDashboard(ctx, identity.Actor{UserID: 2})
	require.NoError(t, err)
	assert.Equal(t, models.UserDashboardStats{TotalPosts: 5, PublishedPosts: 4, TotalViews: 1, TotalLikes: 1}, stats)

	_, err = svc.UserDashboard(ctx, identity.Actor{})
	assert.ErrorIs(t, err, apperrors.ErrForbidden)
}
