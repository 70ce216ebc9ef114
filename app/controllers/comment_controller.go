package controllers

import (
	"github.com/gofiber/fiber/v2"
	"go.uber.org/zap"

	"github.com/ManuelReschke/PixelPress/internal/pkg/apperrors"
	"github.com/ManuelReschke/PixelPress/internal/pkg/comments"
	"github.com/ManuelReschke/PixelPress/internal/pkg/constants"
	"github.com/ManuelReschke/PixelPress/internal/pkg/flash"
	"github.com/ManuelReschke/PixelPress/internal/pkg/metrics"
	"github.com/ManuelReschke/PixelPress/internal/pkg/publishing"
	"github.com/ManuelReschke/PixelPress/internal/pkg/usercontext"
	"github.com/ManuelReschke/PixelPress/internal/pkg/validation"
)

type CommentController struct {
	comments   *comments.Service
	publishing *publishing.Service
}

func NewCommentController(s *Services) *CommentController {
	return &CommentController{comments: s.Comments, publishing: s.Publishing}
}

// HandleCreate adds a comment or reply to a published post.
func (cc *CommentController) HandleCreate(c *fiber.Ctx) error {
	ctx := c.UserContext()

	post, err := cc.publishing.GetPublishedBySlug(ctx, c.Params("slug"))
	if err != nil {
		return httpError(err)
	}
	back := constants.PostRoute(post.Slug) + "#comments"

	in := validation.CommentInput{
		Content:  c.FormValue("content"),
		ParentID: optionalUint(c.FormValue("parent_id")),
	}
	comment, err := cc.comments.Add(ctx, usercontext.Actor(c), post.ID, in)
	if err != nil {
		if ve, ok := apperrors.AsValidation(err); ok {
			return flash.Error(c, "Comment: "+ve.Get("content"), back)
		}
		return httpError(err)
	}
	metrics.CommentsCreated.WithLabelValues(metrics.Moderation(comment.Approved)).Inc()

	if !comment.Approved {
		return flash.Success(c, "Your comment will be visible after approval.", back)
	}
	return flash.Success(c, "Comment added successfully!", back)
}

func (cc *CommentController) HandleDelete(c *fiber.Ctx) error {
	id, err := paramID(c, "id")
	if err != nil {
		return err
	}
	actor := usercontext.Actor(c)

	comment, err := cc.comments.Delete(c.UserContext(), actor, id)
	if err != nil {
		return httpError(err)
	}
	zap.L().Info("comment deleted", zap.Uint("comment_id", comment.ID), zap.Uint("by", actor.UserID))

	back := backOr(c, constants.HomeRoute)
	if comment.Post.Slug != "" && comment.Post.Published {
		back = constants.PostRoute(comment.Post.Slug) + "#comments"
	}
	return flash.Success(c, "Comment deleted successfully!", back)
}
