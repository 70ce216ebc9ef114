package controllers

import (
	"github.com/gofiber/fiber/v2"
	"go.uber.org/zap"

	"github.com/ManuelReschke/PixelPress/internal/pkg/apperrors"
	"github.com/ManuelReschke/PixelPress/internal/pkg/constants"
	"github.com/ManuelReschke/PixelPress/internal/pkg/flash"
	"github.com/ManuelReschke/PixelPress/internal/pkg/hcaptcha"
	"github.com/ManuelReschke/PixelPress/internal/pkg/identity"
	"github.com/ManuelReschke/PixelPress/internal/pkg/session"
	"github.com/ManuelReschke/PixelPress/internal/pkg/validation"
)

// AuthController handles login, registration and logout
type AuthController struct {
	identity *identity.Service
	captcha  *hcaptcha.Verifier
}

func NewAuthController(s *Services) *AuthController {
	return &AuthController{identity: s.Identity, captcha: s.Captcha}
}

func (ac *AuthController) HandleLoginPage(c *fiber.Ctx) error {
	return render(c, "auth/login", "Login", fiber.Map{
		"Input": validation.LoginInput{},
		"Next":  c.Query("next"),
	})
}

func (ac *AuthController) HandleLogin(c *fiber.Ctx) error {
	var in validation.LoginInput
	if err := c.BodyParser(&in); err != nil {
		return fiber.ErrBadRequest
	}
	next := safeRedirect(c.FormValue("next"), constants.DashboardRoute)

	user, err := ac.identity.Authenticate(c.UserContext(), in.Email, in.Password)
	if err != nil {
		if ve, ok := apperrors.AsValidation(err); ok {
			in.Password = ""
			return renderForm(c, "auth/login", "Login", ve, fiber.Map{"Input": in, "Next": next})
		}
		if af, ok := apperrors.AsAuthFailure(err); ok {
			return flash.Error(c, af.Message(), constants.LoginRoute)
		}
		return err
	}

	if err := session.Login(c, user.ID, user.Username); err != nil {
		return handleError(c, "Login failed, please try again.", err, constants.LoginRoute)
	}
	zap.L().Info("user logged in", zap.Uint("user_id", user.ID))

	return flash.Success(c, "Login successful!", next)
}

func (ac *AuthController) HandleRegisterPage(c *fiber.Ctx) error {
	return render(c, "auth/register", "Register", fiber.Map{
		"Input":           validation.RegisterInput{},
		"HCaptchaSitekey": ac.siteKey(),
	})
}

func (ac *AuthController) HandleRegister(c *fiber.Ctx) error {
	var in validation.RegisterInput
	if err := c.BodyParser(&in); err != nil {
		return fiber.ErrBadRequest
	}
	values := func() fiber.Map {
		in.Password, in.ConfirmPassword = "", ""
		return fiber.Map{"Input": in, "HCaptchaSitekey": ac.siteKey()}
	}

	if ac.captcha.Enabled() {
		ok, err := ac.captcha.Verify(c.UserContext(), c.FormValue("h-captcha-response"), GetClientIP(c))
		if !ok {
			zap.L().Info("captcha rejected", zap.Error(err))
			ve := apperrors.NewValidation(apperrors.FieldError{Field: "captcha", Message: "Please complete the captcha."})
			return renderForm(c, "auth/register", "Register", ve, values())
		}
	}

	user, err := ac.identity.Register(c.UserContext(), in)
	if err != nil {
		if ve, ok := apperrors.AsValidation(err); ok {
			return renderForm(c, "auth/register", "Register", ve, values())
		}
		return err
	}
	zap.L().Info("user registered", zap.Uint("user_id", user.ID), zap.String("username", user.Username))

	return flash.Success(c, "Account created successfully! You can now log in.", constants.LoginRoute)
}

func (ac *AuthController) HandleLogout(c *fiber.Ctx) error {
	if err := session.Logout(c); err != nil {
		return handleError(c, "Logout failed.", err, constants.HomeRoute)
	}
	return flash.Success(c, "You have been logged out.", constants.HomeRoute)
}

func (ac *AuthController) siteKey() string {
	if !ac.captcha.Enabled() {
		return ""
	}
	return ac.captcha.SiteKey
}
