package engagement

import (
	"context"
	"sync"
	"sync/atomic"
	"testing"

	"github.com/ManuelReschke/PixelPress/app/models"
	"github.com/ManuelReschke/PixelPress/app/repository"
	"github.com/ManuelReschke/PixelPress/app/repository/memory"
	"github.com/ManuelReschke/PixelPress/internal/pkg/apperrors"
	"github.com/ManuelReschke/PixelPress/internal/pkg/identity"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func setup(t *testing.T, published bool) (*Service, *repository.Repositories, *models.Post) {
	t.Helper()
	repos := memory.New().Repositories()
	post := &models.Post{Title: "P", Slug: "p", Content: "x", Category: models.CATEGORY_HEALTH, UserID: 1, Published: published}
	require.NoError(t, repos.Post.Create(context.Background(), post))
	return NewService(repos.Like, repos.Post), repos, post
}

func TestToggleLike_TwiceRestoresCount(t *testing.T) {
	svc, repos, post := setup(t, true)
	ctx := context.Background()
	require.NoError(t, repos.Like.Create(ctx, 9, post.ID))
	user := identity.Actor{UserID: 2}

	res, err := svc.ToggleLike(ctx, user, post.ID)
	require.NoError(t, err)
	assert.Equal(t, LikeResult{Liked: true, LikeCount: 2}, res)

	res, err = svc.ToggleLike(ctx, user, post.ID)
	require.NoError(t, err)
	assert.Equal(t, LikeResult{Liked: false, LikeCount: 1}, res)
}

func TestToggleLike_Guards(t *testing.T) {
	svc, _, draft := setup(t, false)
	ctx := context.Background()

	_, err := svc.ToggleLike(ctx, identity.Actor{}, draft.ID)
	assert.ErrorIs(t, err, apperrors.ErrForbidden)
	_, err = svc.ToggleLike(ctx, identity.Actor{UserID: 2}, draft.ID)
	assert.ErrorIs(t, err, apperrors.ErrNotFound)
	_, err = svc.ToggleLike(ctx, identity.Actor{UserID: 2}, 404)
	assert.ErrorIs(t, err, apperrors.ErrNotFound)
}

func TestToggleLike_ConcurrentSameUser(t *testing.T) {
	svc, repos, post := setup(t, true)
	ctx := context.Background()
	user := identity.Actor{UserID: 5}

	const n = 25
	var wg sync.WaitGroup
	var likedCount atomic.Int32
	for i := 0; i < n; i++ {
		wg.Add(1)
		go func() {
			defer wg.Done()
			res, err := svc.ToggleLike(ctx, user, post.ID)
			if assert.NoError(t, err) && res.Liked {
				likedCount.Add(1)
			}
		}()
	}
	wg.Wait()

	count, err := repos.Like.CountByPost(ctx, post.ID)
	require.NoError(t, err)
	// an odd number of serialized toggles leaves exactly one like
	assert.EqualValues(t, 1, count)
	assert.EqualValues(t, (n+1)/2, likedCount.Load())
}

// racingLikes loses the first insert to a concurrent writer, as another
// instance holding no in-process lock would.
type racingLikes struct {
	repository.LikeRepository
	raced bool
}

func (r *racingLikes) Create(ctx context.Context, userID, postID uint) error {
	if !r.raced {
		r.raced = true
		_ = r.LikeRepository.Create(ctx, userID, postID)
		return apperrors.ErrConflict
	}
	return r.LikeRepository.Create(ctx, userID, postID)
}

func TestToggleLike_RetriesAfterConflict(t *testing.T) {
	_, repos, post := setup(t, true)
	svc := NewService(&racingLikes{LikeRepository: repos.Like}, repos.Post)

	res, err := svc.ToggleLike(context.Background(), identity.Actor{UserID: 3}, post.ID)
	require.NoError(t, err)
	assert.False(t, res.Liked)
	assert.Zero(t, res.LikeCount)
}

type stuckLikes struct {
	repository.LikeRepository
}

func (stuckLikes) Delete(context.Context, uint, uint) (bool, error) { return false, nil }
func (stuckLikes) Create(context.Context, uint, uint) error         { return apperrors.ErrConflict }

func TestToggleLike_GivesUp(t *testing.T) {
	_, repos, post := setup(t, true)
	svc := NewService(stuckLikes{repos.Like}, repos.Post)

	_, err := svc.ToggleLike(context.Background(), identity.Actor{UserID: 3}, post.ID)
	assert.ErrorIs(t, err, apperrors.ErrConflict)
}

func TestState(t *testing.T) {
	svc, repos, post := setup(t, true)
	ctx := context.Background()
	require.NoError(t, repos.Like.Create(ctx, 7, post.ID))

	res, err := svc.State(ctx, identity.Actor{UserID: 7}, post.ID)
	require.NoError(t, err)
	assert.Equal(t, LikeResult{Liked: true, LikeCount: 1}, res)

	res, err = svc.State(ctx, identity.Actor{}, post.ID)
	require.NoError(t, err)
	assert.Equal(t, LikeResult{Liked: false, LikeCount: 1}, res)
}

func TestRecordView_CountsEveryCall(t *testing.T) {
	svc, repos, post := setup(t, true)
	ctx := context.Background()

	var wg sync.WaitGroup
	for i := 0; i < 50; i++ {
		wg.Add(1)
		go func() {
			defer wg.Done()
			assert.NoError(t, svc.RecordView(ctx, post.ID))
		}()
	}
	wg.Wait()

	stored, err := repos.Post.GetByID(ctx, post.ID)
	require.NoError(t, err)
	assert.EqualValues(t, 50, stored.Views)
}
