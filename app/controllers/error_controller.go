package controllers

import (
	"errors"
	"strings"

	"github.com/gofiber/fiber/v2"
	"go.uber.org/zap"

	"github.com/ManuelReschke/PixelPress/internal/pkg/apperrors"
	"github.com/ManuelReschke/PixelPress/internal/pkg/viewmodel"
)

var errorTitles = map[int]string{
	fiber.StatusForbidden:           "Access denied",
	fiber.StatusNotFound:            "Page not found",
	fiber.StatusInternalServerError: "Something went wrong",
}

var errorMessages = map[int]string{
	fiber.StatusForbidden:           "You do not have permission to access this page.",
	fiber.StatusNotFound:            "The page you are looking for does not exist.",
	fiber.StatusInternalServerError: "An unexpected error occurred. Please try again later.",
}

// HandleError is the fiber ErrorHandler. Server errors are logged and shown
// with a generic message only.
func HandleError(c *fiber.Ctx, err error) error {
	code := apperrors.HTTPStatus(err)
	message, ok := errorMessages[code]
	if !ok {
		var fe *fiber.Error
		if errors.As(err, &fe) {
			message = fe.Message
		} else {
			message = errorMessages[fiber.StatusInternalServerError]
		}
	}
	if code >= fiber.StatusInternalServerError {
		code = fiber.StatusInternalServerError
		message = errorMessages[code]
		zap.L().Error("request failed",
			zap.String("method", c.Method()),
			zap.String("path", c.Path()),
			zap.Any("request_id", c.Locals("requestid")),
			zap.Error(err),
		)
	}

	if strings.HasPrefix(c.Path(), "/api") {
		return c.Status(code).JSON(fiber.Map{
			"error":   errorKey(code),
			"message": message,
		})
	}

	title, ok := errorTitles[code]
	if !ok {
		title = message
	}
	l := viewmodel.NewLayout(c, title)
	l.IsError = true

	c.Status(code)
	if rerr := c.Render("errors/error", viewmodel.Data(l, fiber.Map{
		"Code":    code,
		"Title":   title,
		"Message": message,
	}), MainLayout); rerr != nil {
		zap.L().Error("failed to render error page", zap.Error(rerr))
		return c.Status(code).SendString(message)
	}
	return nil
}

func errorKey(code int) string {
	switch code {
	case fiber.StatusUnauthorized:
		return "unauthorized"
	case fiber.StatusForbidden:
		return "forbidden"
	case fiber.StatusNotFound:
		return "not_found"
	case fiber.StatusConflict:
		return "conflict"
	case fiber.StatusUnprocessableEntity:
		return "validation_failed"
	case fiber.StatusTooManyRequests:
		return "rate_limited"
	case fiber.StatusInternalServerError:
		return "internal_error"
	}
	return "bad_request"
}
