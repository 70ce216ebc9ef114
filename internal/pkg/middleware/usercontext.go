package middleware

import (
	"github.com/gofiber/fiber/v2"
	"go.uber.org/zap"

	"github.com/ManuelReschke/PixelPress/app/repository"
	"github.com/ManuelReschke/PixelPress/internal/pkg/apperrors"
	"github.com/ManuelReschke/PixelPress/internal/pkg/session"
	"github.com/ManuelReschke/PixelPress/internal/pkg/usercontext"
	"github.com/ManuelReschke/PixelPress/internal/pkg/utils"
)

// UserContextMiddleware resolves the session user for every request. Role
// and active flag are read from the database each time, so a disabled
// account loses access on its next request.
func UserContextMiddleware(users repository.UserRepository) fiber.Handler {
	return func(c *fiber.Ctx) error {
		userID := session.UserID(c)
		if userID == 0 {
			usercontext.Set(c, usercontext.UserContext{})
			return c.Next()
		}

		user, err := users.GetByID(c.UserContext(), userID)
		if err != nil || !user.IsActive() {
			if err != nil && !apperrors.IsNotFound(err) {
				zap.L().Error("failed to load session user", zap.Uint("user_id", userID), zap.Error(err))
			}
			_ = session.Logout(c)
			usercontext.Set(c, usercontext.UserContext{})
			return c.Next()
		}

		avatar := user.AvatarURL
		if avatar == "" {
			avatar = utils.GetGravatarURL(user.Email, 80)
		}
		usercontext.Set(c, usercontext.UserContext{
			UserID:     user.ID,
			Username:   user.Username,
			AvatarURL:  avatar,
			IsLoggedIn: true,
			IsAdmin:    user.IsAdmin(),
		})
		return c.Next()
	}
}
