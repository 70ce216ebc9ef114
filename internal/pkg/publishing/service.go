// Package publishing implements the post workflow: slug derivation and
// uniqueness, sanitizing, the draft to published transition and the
// ownership rules for editing and deleting.
package publishing

import (
	"context"
	"fmt"
	"strings"
	"time"

	"github.com/ManuelReschke/PixelPress/app/models"
	"github.com/ManuelReschke/PixelPress/app/repository"
	"github.com/ManuelReschke/PixelPress/internal/pkg/apperrors"
	"github.com/ManuelReschke/PixelPress/internal/pkg/identity"
	"github.com/ManuelReschke/PixelPress/internal/pkg/sanitizer"
	"github.com/ManuelReschke/PixelPress/internal/pkg/slug"
	"github.com/ManuelReschke/PixelPress/internal/pkg/validation"
)

const (
	// maxSlugAttempts bounds the inserts retried after a slug conflict.
	maxSlugAttempts = 3
	FeaturedLimit   = 3
	FeaturedDays    = 7
	SimilarLimit    = 3
	DefaultPerPage  = 6
)

type Service struct {
	posts   repository.PostRepository
	perPage int
	now     func() time.Time
}

// NewService creates the publishing workflow; perPage <= 0 falls back to DefaultPerPage.
func NewService(posts repository.PostRepository, perPage int) *Service {
	if perPage <= 0 {
		perPage = DefaultPerPage
	}
	return &Service{posts: posts, perPage: perPage, now: utcNow}
}

func utcNow() time.Time { return time.Now().UTC() }

// prepare normalizes, validates and sanitizes the input. Content that is
// empty after sanitizing counts as missing.
func prepare(in *validation.PostInput) (string, error) {
	in.Normalize()
	ve := apperrors.NewValidation(validation.ValidatePost(*in)...)

	clean := sanitizer.Sanitize(in.Content)
	if ve.Get("content") == "" && strings.TrimSpace(clean) == "" {
		ve.Add("content", "This field is required.")
	}
	if ve.HasErrors() {
		return "", ve
	}
	return clean, nil
}

// Create stores a new post as draft or published. A slug that is already
// taken gets a disambiguating suffix; if the unique index still rejects the
// insert, a fresh suffix is tried before giving up with ErrConflict.
func (s *Service) Create(ctx context.Context, actor identity.Actor, in validation.PostInput, coverImage string) (*models.Post, error) {
	if !actor.IsAuthenticated() {
		return nil, apperrors.ErrForbidden
	}
	content, err := prepare(&in)
	if err != nil {
		return nil, err
	}

	base := slug.Slugify(in.Title)
	candidate := base
	if candidate == "" {
		candidate = slug.WithSuffix(base)
	} else {
		exists, err := s.posts.SlugExists(ctx, candidate)
		if err != nil {
			return nil, fmt.Errorf("check slug: %w", err)
		}
		if exists {
			candidate = slug.WithSuffix(base)
		}
	}

	post := &models.Post{
		Title:      in.Title,
		Content:    content,
		Excerpt:    in.Excerpt,
		Category:   in.Category,
		Tags:       in.Tags,
		CoverImage: coverImage,
		UserID:     actor.UserID,
	}
	post.MarkPublished(in.Publish, s.now())

	for attempt := 0; attempt < maxSlugAttempts; attempt++ {
		post.Slug = candidate
		err := s.posts.Create(ctx, post)
		if err == nil {
			return post, nil
		}
		if !apperrors.IsConflict(err) {
			return nil, err
		}
		candidate = slug.WithSuffix(base)
	}
	return nil, fmt.Errorf("create post %q: %w", base, apperrors.ErrConflict)
}

// Edit applies the input to post. The slug follows the new title only when
// that slug is free; otherwise the current slug is kept without an error.
func (s *Service) Edit(ctx context.Context, actor identity.Actor, post *models.Post, in validation.PostInput, coverImage string) (*models.Post, error) {
	if !actor.CanModify(post.UserID) {
		return nil, apperrors.ErrForbidden
	}
	content, err := prepare(&in)
	if err != nil {
		return nil, err
	}

	post.Title = in.Title
	post.Content = content
	post.Excerpt = in.Excerpt
	post.Category = in.Category
	post.Tags = in.Tags
	if coverImage != "" {
		post.CoverImage = coverImage
	}

	oldSlug := post.Slug
	if newSlug := slug.Slugify(in.Title); newSlug != "" && newSlug != oldSlug {
		taken, err := s.posts.SlugTakenByOther(ctx, newSlug, post.ID)
		if err != nil {
			return nil, fmt.Errorf("check slug: %w", err)
		}
		if !taken {
			post.Slug = newSlug
		}
	}
	post.MarkPublished(in.Publish, s.now())

	err = s.posts.Update(ctx, post)
	if apperrors.IsConflict(err) && post.Slug != oldSlug {
		// the new slug was claimed concurrently, keep the old one
		post.Slug = oldSlug
		err = s.posts.Update(ctx, post)
	}
	if err != nil {
		return nil, err
	}
	return post, nil
}

// Delete removes the post together with its comments and likes.
func (s *Service) Delete(ctx context.Context, actor identity.Actor, post *models.Post) error {
	if !actor.CanModify(post.UserID) {
		return apperrors.ErrForbidden
	}
	return s.posts.DeleteCascade(ctx, post.ID)
}

// GetPublishedBySlug returns ErrNotFound for drafts and unknown slugs alike.
func (s *Service) GetPublishedBySlug(ctx context.Context, slugValue string) (*models.Post, error) {
	return s.posts.GetPublishedBySlug(ctx, slugValue)
}

// GetForEdit loads a post in any state for its owner or an admin. Other
// actors get ErrForbidden on published posts and ErrNotFound on drafts so a
// draft's existence stays hidden.
func (s *Service) GetForEdit(ctx context.Context, actor identity.Actor, slugValue string) (*models.Post, error) {
	post, err := s.posts.GetBySlug(ctx, slugValue)
	if err != nil {
		return nil, err
	}
	if !actor.CanModify(post.UserID) {
		if !post.Published {
			return nil, apperrors.ErrNotFound
		}
		return nil, apperrors.ErrForbidden
	}
	return post, nil
}

func (s *Service) offset(page int) (int, int) {
	if page < 1 {
		page = 1
	}
	return page, (page - 1) * s.perPage
}

// Feed lists published posts, newest publication first, optionally by category.
func (s *Service) Feed(ctx context.Context, category string, page int) (Page, error) {
	page, offset := s.offset(page)
	posts, total, err := s.posts.ListPublished(ctx, category, offset, s.perPage)
	if err != nil {
		return Page{}, err
	}
	return Page{Posts: posts, Total: total, Number: page, PerPage: s.perPage}, nil
}

// Featured returns the most viewed posts published within the last seven days.
func (s *Service) Featured(ctx context.Context) ([]models.Post, error) {
	since := s.now().UTC().AddDate(0, 0, -FeaturedDays)
	return s.posts.ListFeatured(ctx, since, FeaturedLimit)
}

// Similar returns popular published posts of the same category.
func (s *Service) Similar(ctx context.Context, post *models.Post) ([]models.Post, error) {
	return s.posts.ListSimilar(ctx, post, SimilarLimit)
}

// Search matches title, content and tags of published posts. A blank query
// matches nothing.
func (s *Service) Search(ctx context.Context, query string, page int) (Page, error) {
	page, offset := s.offset(page)
	query = strings.TrimSpace(query)
	if query == "" {
		return Page{Number: page, PerPage: s.perPage}, nil
	}
	posts, total, err := s.posts.Search(ctx, query, offset, s.perPage)
	if err != nil {
		return Page{}, err
	}
	return Page{Posts: posts, Total: total, Number: page, PerPage: s.perPage}, nil
}

// ListByAuthor returns all posts of the actor, drafts included.
func (s *Service) ListByAuthor(ctx context.Context, actor identity.Actor) ([]models.Post, error) {
	if !actor.IsAuthenticated() {
		return nil, apperrors.ErrForbidden
	}
	return s.posts.ListByUser(ctx, actor.UserID)
}
