package repository

import (
	"context"
	"time"

	"github.com/ManuelReschke/PixelPress/app/models"
	"github.com/ManuelReschke/PixelPress/internal/pkg/apperrors"
	"gorm.io/gorm"
	"gorm.io/gorm/clause"
)

// postRepository implements the PostRepository interface
type postRepository struct {
	db *gorm.DB
}

// NewPostRepository creates a new post repository instance
func NewPostRepository(db *gorm.DB) PostRepository {
	return &postRepository{db: db}
}

// Create inserts the post; a taken slug surfaces as apperrors.ErrConflict
func (r *postRepository) Create(ctx context.Context, post *models.Post) error {
	// sqlite compares timestamps as text, so everything is stored in UTC
	post.CreatedAt = post.CreatedAt.UTC()
	return translateError(r.db.WithContext(ctx).Omit(clause.Associations).Create(post).Error)
}

// Update writes all fields of an existing post. A post deleted in the
// meantime is reported as apperrors.ErrNotFound, never re-inserted.
func (r *postRepository) Update(ctx context.Context, post *models.Post) error {
	return updateExisting(r.db.WithContext(ctx), post, post.ID)
}

// GetByID retrieves a post with its author
func (r *postRepository) GetByID(ctx context.Context, id uint) (*models.Post, error) {
	var post models.Post
	if err := r.db.WithContext(ctx).Preload("User").First(&post, id).Error; err != nil {
		return nil, translateError(err)
	}
	return &post, nil
}

// GetBySlug retrieves a post regardless of its publication state
func (r *postRepository) GetBySlug(ctx context.Context, slug string) (*models.Post, error) {
	var post models.Post
	if err := r.db.WithContext(ctx).Preload("User").Where("slug = ?", slug).First(&post).Error; err != nil {
		return nil, translateError(err)
	}
	return &post, nil
}

// GetPublishedBySlug retrieves a published post; drafts are reported as not found
func (r *postRepository) GetPublishedBySlug(ctx context.Context, slug string) (*models.Post, error) {
	var post models.Post
	err := r.db.WithContext(ctx).Preload("User").
		Where("slug = ? AND published = ?", slug, true).
		First(&post).Error
	if err != nil {
		return nil, translateError(err)
	}
	return &post, nil
}

// SlugExists checks if a slug is used by any post
func (r *postRepository) SlugExists(ctx context.Context, slug string) (bool, error) {
	return r.SlugTakenByOther(ctx, slug, 0)
}

// SlugTakenByOther checks if a slug is used by a post other than exceptID
func (r *postRepository) SlugTakenByOther(ctx context.Context, slug string, exceptID uint) (bool, error) {
	var count int64
	q := r.db.WithContext(ctx).Model(&models.Post{}).Where("slug = ?", slug)
	if exceptID != 0 {
		q = q.Where("id <> ?", exceptID)
	}
	if err := q.Count(&count).Error; err != nil {
		return false, err
	}
	return count > 0, nil
}

func published(category string) func(*gorm.DB) *gorm.DB {
	return func(db *gorm.DB) *gorm.DB {
		db = db.Where("published = ?", true)
		if category != "" {
			db = db.Where("category = ?", category)
		}
		return db
	}
}

// ListPublished returns one page of the public feed, newest publication first
func (r *postRepository) ListPublished(ctx context.Context, category string, offset, limit int) ([]models.Post, int64, error) {
	var total int64
	if err := r.db.WithContext(ctx).Model(&models.Post{}).Scopes(published(category)).Count(&total).Error; err != nil {
		return nil, 0, err
	}

	var posts []models.Post
	err := r.db.WithContext(ctx).Preload("User").Scopes(published(category)).
		Order("published_at DESC").Order("id DESC").
		Offset(offset).Limit(limit).
		Find(&posts).Error
	return posts, total, err
}

// ListFeatured returns the most viewed posts published since the given time
func (r *postRepository) ListFeatured(ctx context.Context, since time.Time, limit int) ([]models.Post, error) {
	var posts []models.Post
	err := r.db.WithContext(ctx).Preload("User").
		Where("published = ? AND published_at >= ?", true, since.UTC()).
		Order("views DESC").Order("id DESC").
		Limit(limit).
		Find(&posts).Error
	return posts, err
}

// ListSimilar returns published posts of the same category, most viewed first
func (r *postRepository) ListSimilar(ctx context.Context, post *models.Post, limit int) ([]models.Post, error) {
	var posts []models.Post
	err := r.db.WithContext(ctx).
		Where("category = ? AND id <> ? AND published = ?", post.Category, post.ID, true).
		Order("views DESC").Order("id DESC").
		Limit(limit).
		Find(&posts).Error
	return posts, err
}

func matching(query string) func(*gorm.DB) *gorm.DB {
	pattern := containsPattern(query)
	return func(db *gorm.DB) *gorm.DB {
		return db.Where("published = ?", true).
			Where("LOWER(title) LIKE ? ESCAPE '!' OR LOWER(content) LIKE ? ESCAPE '!' OR LOWER(tags) LIKE ? ESCAPE '!'",
				pattern, pattern, pattern)
	}
}

// Search finds published posts whose title, content or tags contain the query
func (r *postRepository) Search(ctx context.Context, query string, offset, limit int) ([]models.Post, int64, error) {
	var total int64
	if err := r.db.WithContext(ctx).Model(&models.Post{}).Scopes(matching(query)).Count(&total).Error; err != nil {
		return nil, 0, err
	}

	var posts []models.Post
	err := r.db.WithContext(ctx).Preload("User").Scopes(matching(query)).
		Order("published_at DESC").Order("id DESC").
		Offset(offset).Limit(limit).
		Find(&posts).Error
	return posts, total, err
}

// ListByUser returns all posts of an author, newest first
func (r *postRepository) ListByUser(ctx context.Context, userID uint) ([]models.Post, error) {
	var posts []models.Post
	err := r.db.WithContext(ctx).Where("user_id = ?", userID).
		Order("created_at DESC").Order("id DESC").
		Find(&posts).Error
	return posts, err
}

// ListRecent returns the most recently created posts
func (r *postRepository) ListRecent(ctx context.Context, limit int) ([]models.Post, error) {
	var posts []models.Post
	err := r.db.WithContext(ctx).Preload("User").
		Order("created_at DESC").Order("id DESC").
		Limit(limit).
		Find(&posts).Error
	return posts, err
}

// IncrementViews adds one to the view counter inside the database
func (r *postRepository) IncrementViews(ctx context.Context, id uint) error {
	res := r.db.WithContext(ctx).Model(&models.Post{}).Where("id = ?", id).
		UpdateColumn("views", gorm.Expr("views + ?", 1))
	if res.Error != nil {
		return res.Error
	}
	if res.RowsAffected == 0 {
		return apperrors.ErrNotFound
	}
	return nil
}

// DeleteCascade removes the comments, then the likes, then the post itself
// in one transaction.
func (r *postRepository) DeleteCascade(ctx context.Context, id uint) error {
	return r.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		if err := tx.Where("post_id = ?", id).Delete(&models.Comment{}).Error; err != nil {
			return err
		}
		if err := tx.Where("post_id = ?", id).Delete(&models.Like{}).Error; err != nil {
			return err
		}
		res := tx.Delete(&models.Post{}, id)
		if res.Error != nil {
			return res.Error
		}
		if res.RowsAffected == 0 {
			return apperrors.ErrNotFound
		}
		return nil
	})
}

// Count returns the total number of posts
func (r *postRepository) Count(ctx context.Context) (int64, error) {
	var count int64
	err := r.db.WithContext(ctx).Model(&models.Post{}).Count(&count).Error
	return count, err
}

// GetDailyStats counts created posts per day since the given time
func (r *postRepository) GetDailyStats(ctx context.Context, since time.Time) ([]models.DailyStats, error) {
	var stats []models.DailyStats
	err := r.db.WithContext(ctx).Model(&models.Post{}).
		Select("DATE(created_at) as date, COUNT(*) as count").
		Where("created_at >= ?", since.UTC()).
		Group("DATE(created_at)").
		Order("date").
		Scan(&stats).Error
	if err != nil {
		return nil, err
	}

	// drivers with parseTime hand DATE columns back as RFC3339 timestamps
	for i := range stats {
		if len(stats[i].Date) > 10 {
			stats[i].Date = stats[i].Date[:10]
		}
	}
	return stats, nil
}

// GetTopCategories ranks categories by their number of published posts
func (r *postRepository) GetTopCategories(ctx context.Context, limit int) ([]models.CategoryStats, error) {
	var stats []models.CategoryStats
	err := r.db.WithContext(ctx).Model(&models.Post{}).
		Select("category, COUNT(*) as count").
		Where("published = ?", true).
		Group("category").
		Order("count DESC, category ASC").
		Limit(limit).
		Scan(&stats).Error
	return stats, err
}

// GetUserStats aggregates post, view and like counts of one author
func (r *postRepository) GetUserStats(ctx context.Context, userID uint) (models.UserDashboardStats, error) {
	var stats models.UserDashboardStats
	db := r.db.WithContext(ctx)

	if err := db.Model(&models.Post{}).Where("user_id = ?", userID).Count(&stats.TotalPosts).Error; err != nil {
		return stats, err
	}
	if err := db.Model(&models.Post{}).Where("user_id = ? AND published = ?", userID, true).Count(&stats.PublishedPosts).Error; err != nil {
		return stats, err
	}
	if err := db.Model(&models.Post{}).Select("COALESCE(SUM(views), 0)").Where("user_id = ?", userID).Row().Scan(&stats.TotalViews); err != nil {
		return stats, err
	}
	err := db.Model(&models.Like{}).
		Joins("JOIN posts ON posts.id = likes.post_id").
		Where("posts.user_id = ?", userID).
		Count(&stats.TotalLikes).Error
	return stats, err
}
