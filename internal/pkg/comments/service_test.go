package comments

import (
	"context"
	"testing"

	"github.com/ManuelReschke/PixelPress/app/models"
	"github.com/ManuelReschke/PixelPress/app/repository"
	"github.com/ManuelReschke/PixelPress/app/repository/memory"
	"github.com/ManuelReschke/PixelPress/internal/pkg/apperrors"
	"github.com/ManuelReschke/PixelPress/internal/pkg/identity"
	"github.com/ManuelReschke/PixelPress/internal/pkg/validation"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

var (
	author  = identity.Actor{UserID: 1}
	member  = identity.Actor{UserID: 2}
	admin   = identity.Actor{UserID: 3, IsAdmin: true}
	visitor = identity.Actor{}
)

func setup(t *testing.T) (*Service, *repository.Repositories, *models.Post) {
	t.Helper()
	repos := memory.New().Repositories()
	post := &models.Post{Title: "Post", Slug: "post", Content: "x", Category: models.CATEGORY_TRAVEL, UserID: author.UserID, Published: true}
	require.NoError(t, repos.Post.Create(context.Background(), post))
	return NewService(repos.Comment, repos.Post), repos, post
}

func uintPtr(v uint) *uint { return &v }

func TestAdd_ModerationGate(t *testing.T) {
	svc, _, post := setup(t)
	ctx := context.Background()

	pending, err := svc.Add(ctx, member, post.ID, validation.CommentInput{Content: "first"})
	require.NoError(t, err)
	assert.False(t, pending.Approved)

	approved, err := svc.Add(ctx, admin, post.ID, validation.CommentInput{Content: "from admin"})
	require.NoError(t, err)
	assert.True(t, approved.Approved)

	visible, err := svc.ListTopLevelApproved(ctx, post.ID)
	require.NoError(t, err)
	require.Len(t, visible, 1)
	assert.Equal(t, approved.ID, visible[0].ID)
}

func TestAdd_RequiresPublishedPost(t *testing.T) {
	svc, repos, _ := setup(t)
	ctx := context.Background()
	draft := &models.Post{Title: "Draft", Slug: "draft", Content: "x", Category: models.CATEGORY_FOOD, UserID: author.UserID}
	require.NoError(t, repos.Post.Create(ctx, draft))

	_, err := svc.Add(ctx, member, draft.ID, validation.CommentInput{Content: "hi"})
	assert.ErrorIs(t, err, apperrors.ErrNotFound)

	_, err = svc.Add(ctx, member, 999, validation.CommentInput{Content: "hi"})
	assert.ErrorIs(t, err, apperrors.ErrNotFound)
}

func TestAdd_RejectsInvalidInputAndAnonymous(t *testing.T) {
	svc, _, post := setup(t)
	ctx := context.Background()

	_, err := svc.Add(ctx, member, post.ID, validation.CommentInput{Content: "   "})
	ve, ok := apperrors.AsValidation(err)
	require.True(t, ok)
	assert.NotEmpty(t, ve.Get("content"))

	_, err = svc.Add(ctx, visitor, post.ID, validation.CommentInput{Content: "hi"})
	assert.ErrorIs(t, err, apperrors.ErrForbidden)
}

func TestAdd_UnknownParentBecomesTopLevel(t *testing.T) {
	svc, repos, post := setup(t)
	ctx := context.Background()

	orphan, err := svc.Add(ctx, admin, post.ID, validation.CommentInput{Content: "reply", ParentID: uintPtr(4242)})
	require.NoError(t, err)
	assert.Nil(t, orphan.ParentID)
	assert.True(t, orphan.IsTopLevel())

	other := &models.Post{Title: "Other", Slug: "other", Content: "x", Category: models.CATEGORY_FOOD, UserID: author.UserID, Published: true}
	require.NoError(t, repos.Post.Create(ctx, other))
	foreign, err := svc.Add(ctx, admin, other.ID, validation.CommentInput{Content: "elsewhere"})
	require.NoError(t, err)

	crossPost, err := svc.Add(ctx, admin, post.ID, validation.CommentInput{Content: "reply", ParentID: uintPtr(foreign.ID)})
	require.NoError(t, err)
	assert.Nil(t, crossPost.ParentID)

	zero, err := svc.Add(ctx, admin, post.ID, validation.CommentInput{Content: "reply", ParentID: uintPtr(0)})
	require.NoError(t, err)
	assert.Nil(t, zero.ParentID)
}

func TestThread_NewestFirstWithReplies(t *testing.T) {
	svc, _, post := setup(t)
	ctx := context.Background()

	older, err := svc.Add(ctx, admin, post.ID, validation.CommentInput{Content: "older"})
	require.NoError(t, err)
	newer, err := svc.Add(ctx, admin, post.ID, validation.CommentInput{Content: "newer"})
	require.NoError(t, err)
	r1, err := svc.Add(ctx, admin, post.ID, validation.CommentInput{Content: "r1", ParentID: uintPtr(older.ID)})
	require.NoError(t, err)
	_, err = svc.Add(ctx, member, post.ID, validation.CommentInput{Content: "pending reply", ParentID: uintPtr(older.ID)})
	require.NoError(t, err)
	r2, err := svc.Add(ctx, admin, post.ID, validation.CommentInput{Content: "r2", ParentID: uintPtr(older.ID)})
	require.NoError(t, err)

	top, err := svc.ListTopLevelApproved(ctx, post.ID)
	require.NoError(t, err)
	require.Len(t, top, 2)
	assert.Equal(t, newer.ID, top[0].ID)
	assert.Equal(t, older.ID, top[1].ID)

	thread, err := svc.Thread(ctx, post.ID)
	require.NoError(t, err)
	require.Len(t, thread, 2)
	assert.Empty(t, thread[0].Replies)
	require.Len(t, thread[1].Replies, 2)
	assert.Equal(t, r1.ID, thread[1].Replies[0].ID)
	assert.Equal(t, r2.ID, thread[1].Replies[1].ID)
}

func TestDelete_OwnershipAndOrphans(t *testing.T) {
	svc, repos, post := setup(t)
	ctx := context.Background()

	parent, err := svc.Add(ctx, member, post.ID, validation.CommentInput{Content: "parent"})
	require.NoError(t, err)
	child, err := svc.Add(ctx, admin, post.ID, validation.CommentInput{Content: "child", ParentID: uintPtr(parent.ID)})
	require.NoError(t, err)

	_, err = svc.Delete(ctx, author, parent.ID)
	assert.ErrorIs(t, err, apperrors.ErrForbidden)
	_, err = svc.Delete(ctx, visitor, parent.ID)
	assert.ErrorIs(t, err, apperrors.ErrForbidden)

	deleted, err := svc.Delete(ctx, member, parent.ID)
	require.NoError(t, err)
	assert.Equal(t, post.ID, deleted.PostID)

	remaining, err := repos.Comment.GetByID(ctx, child.ID)
	require.NoError(t, err)
	require.NotNil(t, remaining.ParentID)
	assert.Equal(t, parent.ID, *remaining.ParentID)

	top, err := svc.ListTopLevelApproved(ctx, post.ID)
	require.NoError(t, err)
	assert.Empty(t, top)

	_, err = svc.Delete(ctx, admin, child.ID)
	assert.NoError(t, err)
	_, err = svc.Delete(ctx, admin, child.ID)
	assert.ErrorIs(t, err, apperrors.ErrNotFound)
}

func TestModerationQueue(t *testing.T) {
	svc, _, post := setup(t)
	ctx := context.Background()

	pending, err := svc.Add(ctx, member, post.ID, validation.CommentInput{Content: "wait"})
	require.NoError(t, err)

	_, err = svc.ListPending(ctx, member)
	assert.ErrorIs(t, err, apperrors.ErrForbidden)
	assert.ErrorIs(t, svc.Approve(ctx, member, pending.ID), apperrors.ErrForbidden)
	_, err = svc.ListAll(ctx, member)
	assert.ErrorIs(t, err, apperrors.ErrForbidden)

	queue, err := svc.ListPending(ctx, admin)
	require.NoError(t, err)
	require.Len(t, queue, 1)

	require.NoError(t, svc.Approve(ctx, admin, pending.ID))
	require.NoError(t, svc.Approve(ctx, admin, pending.ID))
	assert.ErrorIs(t, svc.Approve(ctx, admin, 999), apperrors.ErrNotFound)

	queue, err = svc.ListPending(ctx, admin)
	require.NoError(t, err)
	assert.Empty(t, queue)

	all, err := svc.ListAll(ctx, admin)
	require.NoError(t, err)
	assert.Len(t, all, 1)

	visible, err := svc.ListTopLevelApproved(ctx, post.ID)
	require.NoError(t, err)
	assert.Len(t, visible, 1)
}
