// Package comments implements comment threads on published posts and the
// admin moderation queue.
package comments

import (
	"context"
	"fmt"

	"github.com/ManuelReschke/PixelPress/app/models"
	"github.com/ManuelReschke/PixelPress/app/repository"
	"github.com/ManuelReschke/PixelPress/internal/pkg/apperrors"
	"github.com/ManuelReschke/PixelPress/internal/pkg/identity"
	"github.com/ManuelReschke/PixelPress/internal/pkg/moderation"
	"github.com/ManuelReschke/PixelPress/internal/pkg/validation"
)

// RecentLimit caps the admin "all comments" listing.
const RecentLimit = 100

type Service struct {
	comments repository.CommentRepository
	posts    repository.PostRepository
}

func NewService(comments repository.CommentRepository, posts repository.PostRepository) *Service {
	return &Service{comments: comments, posts: posts}
}

// Add stores a comment on a published post. A parent that does not exist or
// belongs to another post is dropped and the comment becomes top-level.
func (s *Service) Add(ctx context.Context, actor identity.Actor, postID uint, in validation.CommentInput) (*models.Comment, error) {
	if !actor.IsAuthenticated() {
		return nil, apperrors.ErrForbidden
	}
	in.Normalize()
	if fields := validation.ValidateComment(in); len(fields) > 0 {
		return nil, validation.AsError(fields)
	}

	post, err := s.posts.GetByID(ctx, postID)
	if err != nil {
		return nil, err
	}
	if !post.Published {
		return nil, apperrors.ErrNotFound
	}

	parentID, err := s.resolveParent(ctx, postID, in.ParentID)
	if err != nil {
		return nil, err
	}

	comment := &models.Comment{
		Content:  in.Content,
		UserID:   actor.UserID,
		PostID:   postID,
		ParentID: parentID,
		Approved: !moderation.RequiresApproval(actor.IsAdmin),
	}
	if err := s.comments.Create(ctx, comment); err != nil {
		return nil, fmt.Errorf("create comment: %w", err)
	}
	return comment, nil
}

func (s *Service) resolveParent(ctx context.Context, postID uint, parentID *uint) (*uint, error) {
	if parentID == nil {
		return nil, nil
	}
	parent, err := s.comments.GetByID(ctx, *parentID)
	if apperrors.IsNotFound(err) {
		return nil, nil
	}
	if err != nil {
		return nil, err
	}
	if parent.PostID != postID {
		return nil, nil
	}
	id := parent.ID
	return &id, nil
}

// ListTopLevelApproved returns approved comments without parent, newest first.
func (s *Service) ListTopLevelApproved(ctx context.Context, postID uint) ([]models.Comment, error) {
	return s.comments.ListTopLevelApproved(ctx, postID)
}

// Thread returns the approved top-level comments with their approved direct
// replies attached, oldest reply first.
func (s *Service) Thread(ctx context.Context, postID uint) ([]models.Comment, error) {
	top, err := s.comments.ListTopLevelApproved(ctx, postID)
	if err != nil || len(top) == 0 {
		return top, err
	}

	ids := make([]uint, len(top))
	index := make(map[uint]int, len(top))
	for i, c := range top {
		ids[i] = c.ID
		index[c.ID] = i
	}
	replies, err := s.comments.ListApprovedReplies(ctx, ids)
	if err != nil {
		return nil, err
	}
	for _, r := range replies {
		if i, ok := index[*r.ParentID]; ok {
			top[i].Replies = append(top[i].Replies, r)
		}
	}
	return top, nil
}

// Delete removes a single comment. Replies stay in place.
func (s *Service) Delete(ctx context.Context, actor identity.Actor, commentID uint) (*models.Comment, error) {
	comment, err := s.comments.GetByID(ctx, commentID)
	if err != nil {
		return nil, err
	}
	if !actor.CanModify(comment.UserID) {
		return nil, apperrors.ErrForbidden
	}
	if err := s.comments.Delete(ctx, commentID); err != nil {
		return nil, err
	}
	return comment, nil
}

// Approve makes a pending comment visible. Approving twice is a no-op.
func (s *Service) Approve(ctx context.Context, actor identity.Actor, commentID uint) error {
	if !actor.IsAdmin {
		return apperrors.ErrForbidden
	}
	return s.comments.Approve(ctx, commentID)
}

func (s *Service) ListPending(ctx context.Context, actor identity.Actor) ([]models.Comment, error) {
	if !actor.IsAdmin {
		return nil, apperrors.ErrForbidden
	}
	return s.comments.ListPending(ctx)
}

func (s *Service) ListAll(ctx context.Context, actor identity.Actor) ([]models.Comment, error) {
	if !actor.IsAdmin {
		return nil, apperrors.ErrForbidden
	}
	return s.comments.ListAll(ctx, RecentLimit)
}
