package controllers

import (
	"github.com/ManuelReschke/PixelPress/app/repository"
	"github.com/ManuelReschke/PixelPress/internal/pkg/analytics"
	"github.com/ManuelReschke/PixelPress/internal/pkg/cache"
	"github.com/ManuelReschke/PixelPress/internal/pkg/comments"
	"github.com/ManuelReschke/PixelPress/internal/pkg/engagement"
	"github.com/ManuelReschke/PixelPress/internal/pkg/hcaptcha"
	"github.com/ManuelReschke/PixelPress/internal/pkg/identity"
	"github.com/ManuelReschke/PixelPress/internal/pkg/publishing"
	"github.com/ManuelReschke/PixelPress/internal/pkg/upload"
)

// Services bundles the workflow services the controllers depend on.
type Services struct {
	Repos      *repository.Repositories
	Identity   *identity.Service
	Publishing *publishing.Service
	Comments   *comments.Service
	Engagement *engagement.Service
	Analytics  *analytics.Service
	// Images is nil when uploads are disabled
	Images  *upload.Images
	Captcha *hcaptcha.Verifier
}

// NewServices wires all services on top of one set of repositories.
func NewServices(repos *repository.Repositories, c *cache.Cache, images *upload.Images, captcha *hcaptcha.Verifier, perPage int) *Services {
	return &Services{
		Repos:      repos,
		Identity:   identity.NewService(repos.User),
		Publishing: publishing.NewService(repos.Post, perPage),
		Comments:   comments.NewService(repos.Comment, repos.Post),
		Engagement: engagement.NewService(repos.Like, repos.Post),
		Analytics:  analytics.NewService(repos, c),
		Images:     images,
		Captcha:    captcha,
	}
}

// Controllers holds one instance of every controller.
type Controllers struct {
	Main    *MainController
	Auth    *AuthController
	Post    *PostController
	Comment *CommentController
	User    *UserController
	Admin   *AdminController
}

func NewControllers(s *Services) *Controllers {
	return &Controllers{
		Main:    NewMainController(s),
		Auth:    NewAuthController(s),
		Post:    NewPostController(s),
		Comment: NewCommentController(s),
		User:    NewUserController(s),
		Admin:   NewAdminController(s),
	}
}
