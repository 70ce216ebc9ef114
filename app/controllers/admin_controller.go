package controllers

import (
	"errors"

	"github.com/gofiber/fiber/v2"
	"go.uber.org/zap"

	"github.com/ManuelReschke/PixelPress/internal/pkg/analytics"
	"github.com/ManuelReschke/PixelPress/internal/pkg/comments"
	"github.com/ManuelReschke/PixelPress/internal/pkg/constants"
	"github.com/ManuelReschke/PixelPress/internal/pkg/flash"
	"github.com/ManuelReschke/PixelPress/internal/pkg/identity"
	"github.com/ManuelReschke/PixelPress/internal/pkg/publishing"
	"github.com/ManuelReschke/PixelPress/internal/pkg/usercontext"
)

// AdminUsersPerPage is the page size of the user management list.
const AdminUsersPerPage = 20

// AdminController handles the admin panel. RequireAdmin guards the routes,
// the services check the role again.
type AdminController struct {
	analytics *analytics.Service
	comments  *comments.Service
	identity  *identity.Service
}

func NewAdminController(s *Services) *AdminController {
	return &AdminController{
		analytics: s.Analytics,
		comments:  s.Comments,
		identity:  s.Identity,
	}
}

func (ac *AdminController) HandleDashboard(c *fiber.Ctx) error {
	d, err := ac.analytics.AdminDashboard(c.UserContext(), usercontext.Actor(c))
	if err != nil {
		return httpError(err)
	}
	return render(c, "admin/dashboard", "Admin", fiber.Map{"Dashboard": d})
}

func (ac *AdminController) HandleComments(c *fiber.Ctx) error {
	ctx := c.UserContext()
	actor := usercontext.Actor(c)

	pending, err := ac.comments.ListPending(ctx, actor)
	if err != nil {
		return httpError(err)
	}
	all, err := ac.comments.ListAll(ctx, actor)
	if err != nil {
		return httpError(err)
	}
	return render(c, "admin/comments", "Manage Comments", fiber.Map{
		"Pending": pending,
		"All":     all,
	})
}

func (ac *AdminController) HandleApproveComment(c *fiber.Ctx) error {
	id, err := paramID(c, "id")
	if err != nil {
		return err
	}
	if err := ac.comments.Approve(c.UserContext(), usercontext.Actor(c), id); err != nil {
		return httpError(err)
	}
	return flash.Success(c, "Comment approved!", backOr(c, constants.AdminComments))
}

func (ac *AdminController) HandleUsers(c *fiber.Ctx) error {
	page := queryPage(c)
	users, total, err := ac.identity.ListUsers(c.UserContext(), usercontext.Actor(c), page, AdminUsersPerPage)
	if err != nil {
		return httpError(err)
	}
	return render(c, "admin/users", "Manage Users", fiber.Map{
		"Users": users,
		"Pages": publishing.Page{Total: total, Number: page, PerPage: AdminUsersPerPage},
	})
}

func (ac *AdminController) HandleToggleUser(c *fiber.Ctx) error {
	id, err := paramID(c, "id")
	if err != nil {
		return err
	}
	actor := usercontext.Actor(c)
	back := backOr(c, constants.AdminUsers)

	user, err := ac.identity.ToggleActive(c.UserContext(), actor, id)
	if err != nil {
		if errors.Is(err, identity.ErrSelfDisable) {
			return flash.Error(c, "You cannot deactivate your own account.", back)
		}
		return httpError(err)
	}

	status := "deactivated"
	if user.Active {
		status = "activated"
	}
	zap.L().Info("user status changed", zap.Uint("user_id", user.ID), zap.String("status", status), zap.Uint("by", actor.UserID))

	return flash.Success(c, "User "+status+" successfully!", back)
}

// HandleAnalyticsAPI returns the 30 day post series and the top categories.
func (ac *AdminController) HandleAnalyticsAPI(c *fiber.Ctx) error {
	report, err := ac.analytics.Report(c.UserContext(), usercontext.Actor(c))
	if err != nil {
		return httpError(err)
	}
	return c.JSON(report)
}
