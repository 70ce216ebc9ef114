package controllers

import (
	"context"

	"github.com/gofiber/fiber/v2"
	"go.uber.org/zap"

	"github.com/ManuelReschke/PixelPress/internal/pkg/apperrors"
	"github.com/ManuelReschke/PixelPress/internal/pkg/comments"
	"github.com/ManuelReschke/PixelPress/internal/pkg/constants"
	"github.com/ManuelReschke/PixelPress/internal/pkg/engagement"
	"github.com/ManuelReschke/PixelPress/internal/pkg/flash"
	"github.com/ManuelReschke/PixelPress/internal/pkg/metrics"
	"github.com/ManuelReschke/PixelPress/internal/pkg/publishing"
	"github.com/ManuelReschke/PixelPress/internal/pkg/storage"
	"github.com/ManuelReschke/PixelPress/internal/pkg/upload"
	"github.com/ManuelReschke/PixelPress/internal/pkg/usercontext"
	"github.com/ManuelReschke/PixelPress/internal/pkg/validation"
	"github.com/ManuelReschke/PixelPress/internal/pkg/viewmodel"
)

const (
	postFormView = "posts/form"
	coverField   = "cover_image"
)

// PostController handles the post pages and the author workflow
type PostController struct {
	publishing *publishing.Service
	comments   *comments.Service
	engagement *engagement.Service
	images     *upload.Images
}

func NewPostController(s *Services) *PostController {
	return &PostController{
		publishing: s.Publishing,
		comments:   s.Comments,
		engagement: s.Engagement,
		images:     s.Images,
	}
}

// HandleShow renders a published post and counts the view.
func (pc *PostController) HandleShow(c *fiber.Ctx) error {
	ctx := c.UserContext()
	actor := usercontext.Actor(c)

	post, err := pc.publishing.GetPublishedBySlug(ctx, c.Params("slug"))
	if err != nil {
		return httpError(err)
	}
	if err := pc.engagement.RecordView(ctx, post.ID); err != nil {
		zap.L().Warn("failed to record view", zap.Uint("post_id", post.ID), zap.Error(err))
	} else {
		post.Views++
		metrics.PostViews.Inc()
	}

	thread, err := pc.comments.Thread(ctx, post.ID)
	if err != nil {
		return err
	}
	similar, err := pc.publishing.Similar(ctx, post)
	if err != nil {
		return err
	}
	likes, err := pc.engagement.State(ctx, actor, post.ID)
	if err != nil {
		return err
	}

	return render(c, "posts/show", post.Title, fiber.Map{
		"Detail": viewmodel.PostDetail{
			Post:      post,
			Comments:  thread,
			Similar:   similar,
			Liked:     likes.Liked,
			LikeCount: likes.LikeCount,
			CanEdit:   actor.CanModify(post.UserID),
		},
	})
}

func (pc *PostController) HandleNew(c *fiber.Ctx) error {
	return render(c, postFormView, "Create New Post", fiber.Map{
		"Form": viewmodel.PostForm{Action: constants.NewPostRoute},
	})
}

func (pc *PostController) HandleCreate(c *fiber.Ctx) error {
	ctx := c.UserContext()
	form := viewmodel.PostForm{Action: constants.NewPostRoute}

	if err := c.BodyParser(&form.Input); err != nil {
		return fiber.ErrBadRequest
	}
	cover, err := pc.checkedCover(ctx, c, &form.Input)
	if err != nil {
		return pc.formError(c, "Create New Post", form, err)
	}

	post, err := pc.publishing.Create(ctx, usercontext.Actor(c), form.Input, cover)
	if err != nil {
		pc.discard(ctx, cover)
		return pc.formError(c, "Create New Post", form, err)
	}
	metrics.PostsCreated.WithLabelValues(metrics.State(post.Published)).Inc()
	zap.L().Info("post created", zap.Uint("post_id", post.ID), zap.String("slug", post.Slug))

	return flash.Success(c, "Post created successfully!", constants.DashboardRoute)
}

func (pc *PostController) HandleEdit(c *fiber.Ctx) error {
	post, err := pc.publishing.GetForEdit(c.UserContext(), usercontext.Actor(c), c.Params("slug"))
	if err != nil {
		return httpError(err)
	}
	return render(c, postFormView, "Edit Post", fiber.Map{
		"Form": viewmodel.NewPostForm(post, constants.EditPostRoute(post.Slug)),
		"Post": post,
	})
}

func (pc *PostController) HandleUpdate(c *fiber.Ctx) error {
	ctx := c.UserContext()
	actor := usercontext.Actor(c)

	post, err := pc.publishing.GetForEdit(ctx, actor, c.Params("slug"))
	if err != nil {
		return httpError(err)
	}
	form := viewmodel.NewPostForm(post, constants.EditPostRoute(post.Slug))
	form.Input = validation.PostInput{}
	if err := c.BodyParser(&form.Input); err != nil {
		return fiber.ErrBadRequest
	}

	cover, err := pc.checkedCover(ctx, c, &form.Input)
	if err != nil {
		return pc.formError(c, "Edit Post", form, err)
	}
	oldCover := post.CoverImage

	post, err = pc.publishing.Edit(ctx, actor, post, form.Input, cover)
	if err != nil {
		pc.discard(ctx, cover)
		return pc.formError(c, "Edit Post", form, err)
	}
	if cover != "" {
		pc.discard(ctx, oldCover)
	}

	target := constants.DashboardRoute
	if post.Published {
		target = constants.PostRoute(post.Slug)
	}
	return flash.Success(c, "Post updated successfully!", target)
}

func (pc *PostController) HandleDelete(c *fiber.Ctx) error {
	ctx := c.UserContext()
	actor := usercontext.Actor(c)

	post, err := pc.publishing.GetForEdit(ctx, actor, c.Params("slug"))
	if err != nil {
		return httpError(err)
	}
	if err := pc.publishing.Delete(ctx, actor, post); err != nil {
		return httpError(err)
	}
	pc.discard(ctx, post.CoverImage)
	zap.L().Info("post deleted", zap.Uint("post_id", post.ID), zap.Uint("by", actor.UserID))

	return flash.Success(c, "Post deleted successfully!", constants.DashboardRoute)
}

// HandleLike toggles the like of the current user and answers with the new state.
func (pc *PostController) HandleLike(c *fiber.Ctx) error {
	ctx := c.UserContext()

	post, err := pc.publishing.GetPublishedBySlug(ctx, c.Params("slug"))
	if err != nil {
		return httpError(err)
	}
	res, err := pc.engagement.ToggleLike(ctx, usercontext.Actor(c), post.ID)
	if err != nil {
		return httpError(err)
	}
	metrics.LikeToggles.WithLabelValues(metrics.LikeAction(res.Liked)).Inc()

	return c.JSON(res)
}

// checkedCover validates the text fields before storing the optional cover,
// so a rejected form leaves no file behind.
func (pc *PostController) checkedCover(ctx context.Context, c *fiber.Ctx, in *validation.PostInput) (string, error) {
	check := *in
	check.Normalize()
	if err := validation.AsError(validation.ValidatePost(check)); err != nil {
		return "", err
	}
	return formImage(ctx, c, pc.images, storage.KindCover, coverField)
}

func (pc *PostController) formError(c *fiber.Ctx, page string, form viewmodel.PostForm, err error) error {
	ve, ok := apperrors.AsValidation(err)
	if !ok {
		return httpError(err)
	}
	return renderForm(c, postFormView, page, ve, fiber.Map{"Form": form})
}

func (pc *PostController) discard(ctx context.Context, ref string) {
	if pc.images == nil || ref == "" {
		return
	}
	if err := pc.images.Discard(ctx, ref); err != nil {
		zap.L().Warn("failed to remove image", zap.String("ref", ref), zap.Error(err))
	}
}
