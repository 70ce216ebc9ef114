package controllers

import (
	"context"
	"errors"
	"strconv"
	"strings"

	"github.com/gofiber/fiber/v2"
	"go.uber.org/zap"

	"github.com/ManuelReschke/PixelPress/internal/pkg/apperrors"
	"github.com/ManuelReschke/PixelPress/internal/pkg/flash"
	"github.com/ManuelReschke/PixelPress/internal/pkg/upload"
	"github.com/ManuelReschke/PixelPress/internal/pkg/viewmodel"
)

const MainLayout = "layouts/main"

// render renders view inside the main layout.
func render(c *fiber.Ctx, view, page string, values fiber.Map) error {
	return c.Render(view, viewmodel.Data(viewmodel.NewLayout(c, page), values), MainLayout)
}

// renderForm re-renders a form with the field errors of a validation failure.
func renderForm(c *fiber.Ctx, view, page string, ve *apperrors.ValidationError, values fiber.Map) error {
	flash.Set(c, fiber.Map{"type": "error", "message": "Please correct the errors below."})
	values["Errors"] = ve.Map()
	c.Status(fiber.StatusUnprocessableEntity)
	return render(c, view, page, values)
}

// httpError turns domain errors into fiber errors so the error handler
// renders the matching page. Unknown errors pass through as 500.
func httpError(err error) error {
	switch {
	case apperrors.IsNotFound(err):
		return fiber.ErrNotFound
	case apperrors.IsForbidden(err):
		return fiber.ErrForbidden
	}
	return err
}

// handleError logs err and sends the user back to path with a flash message.
func handleError(c *fiber.Ctx, message string, err error, path string) error {
	zap.L().Error(message, zap.String("path", c.Path()), zap.Error(err))
	return flash.Error(c, message, path)
}

func queryPage(c *fiber.Ctx) int {
	return max(c.QueryInt("page", 1), 1)
}

// paramID parses a positive numeric route parameter; anything else is a 404.
func paramID(c *fiber.Ctx, name string) (uint, error) {
	id, err := strconv.ParseUint(c.Params(name), 10, 64)
	if err != nil || id == 0 {
		return 0, fiber.ErrNotFound
	}
	return uint(id), nil
}

// optionalUint parses an optional form value, empty or invalid means nil.
func optionalUint(v string) *uint {
	id, err := strconv.ParseUint(strings.TrimSpace(v), 10, 64)
	if err != nil || id == 0 {
		return nil
	}
	u := uint(id)
	return &u
}

// safeRedirect only allows local paths as redirect targets.
func safeRedirect(target, fallback string) string {
	if target == "" || !strings.HasPrefix(target, "/") || strings.HasPrefix(target, "//") || strings.HasPrefix(target, "/\\") {
		return fallback
	}
	return target
}

// backOr returns the referer path when it points to this site.
func backOr(c *fiber.Ctx, fallback string) string {
	ref := c.Get(fiber.HeaderReferer)
	if ref == "" {
		return fallback
	}
	if i := strings.Index(ref, "://"); i >= 0 {
		rest := ref[i+3:]
		if !strings.HasPrefix(rest, c.Hostname()) {
			return fallback
		}
		ref = strings.TrimPrefix(rest, c.Hostname())
	}
	return safeRedirect(ref, fallback)
}

// formImage stores the optional image upload named field. No file returns "".
func formImage(ctx context.Context, c *fiber.Ctx, images *upload.Images, kind, field string) (string, error) {
	fh, err := c.FormFile(field)
	if err != nil {
		// no file in the form
		return "", nil
	}
	if fh.Size == 0 || fh.Filename == "" {
		return "", nil
	}
	if images == nil {
		return "", apperrors.NewValidation(apperrors.FieldError{Field: field, Message: "Image uploads are disabled."})
	}
	ref, err := images.SaveFile(ctx, kind, fh)
	if err != nil {
		if upload.IsUserError(err) {
			return "", apperrors.NewValidation(apperrors.FieldError{Field: field, Message: uploadMessage(err)})
		}
		return "", err
	}
	return ref, nil
}

func uploadMessage(err error) string {
	switch {
	case errors.Is(err, upload.ErrTooLarge):
		return "Image is too large."
	case errors.Is(err, upload.ErrExtension):
		return "Images only (jpg, jpeg, png, gif, webp)."
	}
	return "The file is not a valid image."
}

// GetClientIP returns the client address, preferring proxy headers.
func GetClientIP(c *fiber.Ctx) string {
	if ip := strings.TrimSpace(c.Get("CF-Connecting-IP")); ip != "" {
		return ip
	}
	if ip := strings.TrimSpace(c.Get("X-Real-IP")); ip != "" {
		return ip
	}
	if xff := c.Get(fiber.HeaderXForwardedFor); xff != "" {
		if ip := strings.TrimSpace(strings.Split(xff, ",")[0]); ip != "" {
			return ip
		}
	}
	return c.IP()
}
