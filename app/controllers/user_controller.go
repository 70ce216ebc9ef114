package controllers

import (
	"github.com/gofiber/fiber/v2"

	"github.com/ManuelReschke/PixelPress/internal/pkg/analytics"
	"github.com/ManuelReschke/PixelPress/internal/pkg/apperrors"
	"github.com/ManuelReschke/PixelPress/internal/pkg/constants"
	"github.com/ManuelReschke/PixelPress/internal/pkg/flash"
	"github.com/ManuelReschke/PixelPress/internal/pkg/identity"
	"github.com/ManuelReschke/PixelPress/internal/pkg/publishing"
	"github.com/ManuelReschke/PixelPress/internal/pkg/storage"
	"github.com/ManuelReschke/PixelPress/internal/pkg/upload"
	"github.com/ManuelReschke/PixelPress/internal/pkg/usercontext"
	"github.com/ManuelReschke/PixelPress/internal/pkg/validation"
)

const (
	profileView = "users/profile"
	avatarField = "avatar"
)

// UserController serves the dashboard and the profile of the logged in user
type UserController struct {
	identity   *identity.Service
	publishing *publishing.Service
	analytics  *analytics.Service
	images     *upload.Images
}

func NewUserController(s *Services) *UserController {
	return &UserController{
		identity:   s.Identity,
		publishing: s.Publishing,
		analytics:  s.Analytics,
		images:     s.Images,
	}
}

func (uc *UserController) HandleDashboard(c *fiber.Ctx) error {
	ctx := c.UserContext()
	actor := usercontext.Actor(c)

	posts, err := uc.publishing.ListByAuthor(ctx, actor)
	if err != nil {
		return httpError(err)
	}
	stats, err := uc.analytics.UserDashboard(ctx, actor)
	if err != nil {
		return httpError(err)
	}
	return render(c, "users/dashboard", "Dashboard", fiber.Map{
		"Posts": posts,
		"Stats": stats,
	})
}

func (uc *UserController) HandleProfile(c *fiber.Ctx) error {
	user, err := uc.identity.GetUser(c.UserContext(), usercontext.GetUserID(c))
	if err != nil {
		return httpError(err)
	}
	return render(c, profileView, "Profile", fiber.Map{
		"User":  user,
		"Input": validation.ProfileInput{Username: user.Username, Bio: user.Bio},
	})
}

func (uc *UserController) HandleProfileUpdate(c *fiber.Ctx) error {
	ctx := c.UserContext()
	actor := usercontext.Actor(c)

	user, err := uc.identity.GetUser(ctx, actor.UserID)
	if err != nil {
		return httpError(err)
	}
	var in validation.ProfileInput
	if err := c.BodyParser(&in); err != nil {
		return fiber.ErrBadRequest
	}
	formError := func(ve *apperrors.ValidationError) error {
		in.Password, in.ConfirmPassword = "", ""
		return renderForm(c, profileView, "Profile", ve, fiber.Map{"User": user, "Input": in})
	}

	check := in
	check.Normalize()
	if err := validation.AsError(validation.ValidateProfile(check)); err != nil {
		ve, _ := apperrors.AsValidation(err)
		return formError(ve)
	}
	avatar, err := formImage(ctx, c, uc.images, storage.KindAvatar, avatarField)
	if err != nil {
		if ve, ok := apperrors.AsValidation(err); ok {
			return formError(ve)
		}
		return err
	}

	oldAvatar := user.AvatarURL
	_, err = uc.identity.UpdateProfile(ctx, actor, in, avatar)
	if err != nil {
		uc.discard(c, avatar)
		if ve, ok := apperrors.AsValidation(err); ok {
			return formError(ve)
		}
		return httpError(err)
	}
	if avatar != "" {
		uc.discard(c, oldAvatar)
	}

	return flash.Success(c, "Profile updated successfully!", constants.ProfileRoute)
}

func (uc *UserController) discard(c *fiber.Ctx, ref string) {
	if uc.images != nil && ref != "" {
		_ = uc.images.Discard(c.UserContext(), ref)
	}
}
