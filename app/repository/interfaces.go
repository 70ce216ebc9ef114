package repository

import (
	"context"
	"time"

	"github.com/ManuelReschke/PixelPress/app/models"
	"gorm.io/gorm"
)

// UserRepository defines the interface for user-related database operations
type UserRepository interface {
	Create(ctx context.Context, user *models.User) error
	GetByID(ctx context.Context, id uint) (*models.User, error)
	GetByEmail(ctx context.Context, email string) (*models.User, error)
	Update(ctx context.Context, user *models.User) error
	SetActive(ctx context.Context, id uint, active bool) error
	UpdateLastLogin(ctx context.Context, id uint, at time.Time) error
	UsernameTaken(ctx context.Context, username string, exceptID uint) (bool, error)
	EmailTaken(ctx context.Context, email string, exceptID uint) (bool, error)
	List(ctx context.Context, offset, limit int) ([]models.User, error)
	ListRecent(ctx context.Context, limit int) ([]models.User, error)
	Count(ctx context.Context) (int64, error)
}

// PostRepository defines the interface for post-related database operations.
// Create and Update return apperrors.ErrConflict when the slug is taken.
type PostRepository interface {
	Create(ctx context.Context, post *models.Post) error
	Update(ctx context.Context, post *models.Post) error
	GetByID(ctx context.Context, id uint) (*models.Post, error)
	GetBySlug(ctx context.Context, slug string) (*models.Post, error)
	GetPublishedBySlug(ctx context.Context, slug string) (*models.Post, error)
	SlugExists(ctx context.Context, slug string) (bool, error)
	SlugTakenByOther(ctx context.Context, slug string, exceptID uint) (bool, error)
	ListPublished(ctx context.Context, category string, offset, limit int) ([]models.Post, int64, error)
	ListFeatured(ctx context.Context, since time.Time, limit int) ([]models.Post, error)
	ListSimilar(ctx context.Context, post *models.Post, limit int) ([]models.Post, error)
	Search(ctx context.Context, query string, offset, limit int) ([]models.Post, int64, error)
	ListByUser(ctx context.Context, userID uint) ([]models.Post, error)
	ListRecent(ctx context.Context, limit int) ([]models.Post, error)
	IncrementViews(ctx context.Context, id uint) error
	DeleteCascade(ctx context.Context, id uint) error
	Count(ctx context.Context) (int64, error)
	GetDailyStats(ctx context.Context, since time.Time) ([]models.DailyStats, error)
	GetTopCategories(ctx context.Context, limit int) ([]models.CategoryStats, error)
	GetUserStats(ctx context.Context, userID uint) (models.UserDashboardStats, error)
}

// CommentRepository defines the interface for comment-related database operations
type CommentRepository interface {
	Create(ctx context.Context, comment *models.Comment) error
	GetByID(ctx context.Context, id uint) (*models.Comment, error)
	ListTopLevelApproved(ctx context.Context, postID uint) ([]models.Comment, error)
	ListApprovedReplies(ctx context.Context, parentIDs []uint) ([]models.Comment, error)
	ListPending(ctx context.Context) ([]models.Comment, error)
	ListAll(ctx context.Context, limit int) ([]models.Comment, error)
	Approve(ctx context.Context, id uint) error
	Delete(ctx context.Context, id uint) error
	Count(ctx context.Context) (int64, error)
	CountPending(ctx context.Context) (int64, error)
}

// LikeRepository defines the interface for like-related database operations
type LikeRepository interface {
	// Create returns apperrors.ErrConflict if the pair already exists.
	Create(ctx context.Context, userID, postID uint) error
	// Delete reports whether a row was removed.
	Delete(ctx context.Context, userID, postID uint) (bool, error)
	Exists(ctx context.Context, userID, postID uint) (bool, error)
	CountByPost(ctx context.Context, postID uint) (int64, error)
}

// CategoryRepository defines the interface for category-related database operations
type CategoryRepository interface {
	Seed(ctx context.Context, names []string) error
	List(ctx context.Context) ([]models.Category, error)
}

// Repositories aggregates all repository interfaces
type Repositories struct {
	User     UserRepository
	Post     PostRepository
	Comment  CommentRepository
	Like     LikeRepository
	Category CategoryRepository
}

// NewRepositories creates a new instance of all repositories
func NewRepositories(db *gorm.DB) *Repositories {
	return &Repositories{
		User:     NewUserRepository(db),
		Post:     NewPostRepository(db),
		Comment:  NewCommentRepository(db),
		Like:     NewLikeRepository(db),
		Category: NewCategoryRepository(db),
	}
}
