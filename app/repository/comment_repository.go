package repository

import (
	"context"

	"github.com/ManuelReschke/PixelPress/app/models"
	"github.com/ManuelReschke/PixelPress/internal/pkg/apperrors"
	"gorm.io/gorm"
	"gorm.io/gorm/clause"
)

// commentRepository implements the CommentRepository interface
type commentRepository struct {
	db *gorm.DB
}

// NewCommentRepository creates a new comment repository instance
func NewCommentRepository(db *gorm.DB) CommentRepository {
	return &commentRepository{db: db}
}

// Create inserts a new comment
func (r *commentRepository) Create(ctx context.Context, comment *models.Comment) error {
	return translateError(r.db.WithContext(ctx).Omit(clause.Associations).Create(comment).Error)
}

// GetByID retrieves a comment with its post
func (r *commentRepository) GetByID(ctx context.Context, id uint) (*models.Comment, error) {
	var comment models.Comment
	if err := r.db.WithContext(ctx).Preload("Post").First(&comment, id).Error; err != nil {
		return nil, translateError(err)
	}
	return &comment, nil
}

// ListTopLevelApproved returns approved comments without parent, newest first
func (r *commentRepository) ListTopLevelApproved(ctx context.Context, postID uint) ([]models.Comment, error) {
	var comments []models.Comment
	err := r.db.WithContext(ctx).Preload("User").
		Where("post_id = ? AND parent_id IS NULL AND approved = ?", postID, true).
		Order("created_at DESC").Order("id DESC").
		Find(&comments).Error
	return comments, err
}

// ListApprovedReplies returns approved replies to the given parents, oldest first
func (r *commentRepository) ListApprovedReplies(ctx context.Context, parentIDs []uint) ([]models.Comment, error) {
	if len(parentIDs) == 0 {
		return nil, nil
	}
	var comments []models.Comment
	err := r.db.WithContext(ctx).Preload("User").
		Where("parent_id IN ? AND approved = ?", parentIDs, true).
		Order("created_at ASC").Order("id ASC").
		Find(&comments).Error
	return comments, err
}

// ListPending returns the moderation queue, newest first
func (r *commentRepository) ListPending(ctx context.Context) ([]models.Comment, error) {
	var comments []models.Comment
	err := r.db.WithContext(ctx).Preload("User").Preload("Post").
		Where("approved = ?", false).
		Order("created_at DESC").Order("id DESC").
		Find(&comments).Error
	return comments, err
}

// ListAll returns the latest comments regardless of approval
func (r *commentRepository) ListAll(ctx context.Context, limit int) ([]models.Comment, error) {
	var comments []models.Comment
	err := r.db.WithContext(ctx).Preload("User").Preload("Post").
		Order("created_at DESC").Order("id DESC").
		Limit(limit).
		Find(&comments).Error
	return comments, err
}

// Approve marks a comment as approved
func (r *commentRepository) Approve(ctx context.Context, id uint) error {
	if _, err := r.GetByID(ctx, id); err != nil {
		return err
	}
	return r.db.WithContext(ctx).Model(&models.Comment{}).Where("id = ?", id).Update("approved", true).Error
}

// Delete removes a single comment; replies are left in place
func (r *commentRepository) Delete(ctx context.Context, id uint) error {
	res := r.db.WithContext(ctx).Delete(&models.Comment{}, id)
	if res.Error != nil {
		return res.Error
	}
	if res.RowsAffected == 0 {
		return apperrors.ErrNotFound
	}
	return nil
}

// Count returns the total number of comments
func (r *commentRepository) Count(ctx context.Context) (int64, error) {
	var count int64
	err := r.db.WithContext(ctx).Model(&models.Comment{}).Count(&count).Error
	return count, err
}

// CountPending returns the number of comments awaiting approval
func (r *commentRepository) CountPending(ctx context.Context) (int64, error) {
	var count int64
	err := r.db.WithContext(ctx).Model(&models.Comment{}).Where("approved = ?", false).Count(&count).Error
	return count, err
}
