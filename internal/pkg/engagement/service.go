// Package engagement records likes and page views.
package engagement

import (
	"context"
	"fmt"
	"hash/fnv"
	"sync"

	"github.com/ManuelReschke/PixelPress/app/repository"
	"github.com/ManuelReschke/PixelPress/internal/pkg/apperrors"
	"github.com/ManuelReschke/PixelPress/internal/pkg/identity"
)

const (
	maxToggleAttempts = 5
	lockShards        = 64
)

// LikeResult is returned to the like button as JSON.
type LikeResult struct {
	Liked     bool  `json:"liked"`
	LikeCount int64 `json:"like_count"`
}

type Service struct {
	likes repository.LikeRepository
	posts repository.PostRepository
	locks [lockShards]sync.Mutex
}

func NewService(likes repository.LikeRepository, posts repository.PostRepository) *Service {
	return &Service{likes: likes, posts: posts}
}

func (s *Service) lock(userID, postID uint) *sync.Mutex {
	h := fnv.New32a()
	_, _ = fmt.Fprintf(h, "%d:%d", userID, postID)
	return &s.locks[h.Sum32()%lockShards]
}

// ToggleLike removes the actor's like on the post or adds one. Toggles of the
// same pair are serialized in-process; the unique (user, post) index covers
// other instances, a lost insert race is retried and resolves to an unlike.
func (s *Service) ToggleLike(ctx context.Context, actor identity.Actor, postID uint) (LikeResult, error) {
	if !actor.IsAuthenticated() {
		return LikeResult{}, apperrors.ErrForbidden
	}
	post, err := s.posts.GetByID(ctx, postID)
	if err != nil {
		return LikeResult{}, err
	}
	if !post.Published {
		return LikeResult{}, apperrors.ErrNotFound
	}

	mu := s.lock(actor.UserID, postID)
	mu.Lock()
	defer mu.Unlock()

	liked, err := s.toggle(ctx, actor.UserID, postID)
	if err != nil {
		return LikeResult{}, err
	}
	count, err := s.likes.CountByPost(ctx, postID)
	if err != nil {
		return LikeResult{}, fmt.Errorf("count likes: %w", err)
	}
	return LikeResult{Liked: liked, LikeCount: count}, nil
}

func (s *Service) toggle(ctx context.Context, userID, postID uint) (bool, error) {
	for attempt := 0; attempt < maxToggleAttempts; attempt++ {
		if err := ctx.Err(); err != nil {
			return false, err
		}
		removed, err := s.likes.Delete(ctx, userID, postID)
		if err != nil {
			return false, fmt.Errorf("delete like: %w", err)
		}
		if removed {
			return false, nil
		}
		err = s.likes.Create(ctx, userID, postID)
		if err == nil {
			return true, nil
		}
		if !apperrors.IsConflict(err) {
			return false, fmt.Errorf("create like: %w", err)
		}
	}
	return false, fmt.Errorf("toggle like: %w", apperrors.ErrConflict)
}

// State reports whether the actor likes the post and the current count.
func (s *Service) State(ctx context.Context, actor identity.Actor, postID uint) (LikeResult, error) {
	count, err := s.likes.CountByPost(ctx, postID)
	if err != nil {
		return LikeResult{}, err
	}
	res := LikeResult{LikeCount: count}
	if actor.IsAuthenticated() {
		res.Liked, err = s.likes.Exists(ctx, actor.UserID, postID)
		if err != nil {
			return LikeResult{}, err
		}
	}
	return res, nil
}

// RecordView counts one view per call, repeats included.
func (s *Service) RecordView(ctx context.Context, postID uint) error {
	return s.posts.IncrementViews(ctx, postID)
}
