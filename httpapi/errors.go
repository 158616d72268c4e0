// Package httpapi exposes the REST surface: signup, login, the status
// profile, the post feed, and the mixed query endpoint.
package httpapi

import (
	"github.com/gofiber/fiber/v2"
	"github.com/goliatone/go-errors"
)

// ErrorResponse is the uniform error body. Data carries structured
// detail such as per-field validation messages.
type ErrorResponse struct {
	Message string `json:"message"`
	Data    any    `json:"data,omitempty"`
}

// StatusFromError maps a rich error to an HTTP status. The category
// decides; a forbidden code on an auth error upgrades 401 to 403.
func StatusFromError(richErr *errors.Error) int {
	switch richErr.Category {
	case errors.CategoryValidation:
		return fiber.StatusUnprocessableEntity
	case errors.CategoryAuth:
		if richErr.Code == errors.CodeForbidden {
			return fiber.StatusForbidden
		}
		return fiber.StatusUnauthorized
	case errors.CategoryNotFound:
		return fiber.StatusNotFound
	case errors.CategoryConflict:
		return fiber.StatusConflict
	case errors.CategoryBadInput:
		return fiber.StatusBadRequest
	case errors.CategoryRateLimit:
		return fiber.StatusTooManyRequests
	default:
		return fiber.StatusInternalServerError
	}
}

// RenderError is the error boundary: every handler failure funnels
// through here. Internal faults keep their detail in the log and
// present a generic message to the client.
func RenderError(c *fiber.Ctx, err error) error {
	var richErr *errors.Error
	if !errors.As(err, &richErr) {
		richErr = errors.Wrap(err, errors.CategoryInternal, "an unexpected server error occurred")
	}

	status := StatusFromError(richErr)

	body := ErrorResponse{Message: richErr.Message}
	if status == fiber.StatusInternalServerError {
		body.Message = "an unexpected server error occurred"
	}

	if fields, ok := richErr.Metadata["fields"]; ok {
		body.Data = fields
	}

	return c.Status(status).JSON(body)
}
