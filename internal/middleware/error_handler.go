package middleware

import (
	"errors"

	"fleetops-backend/internal/pkg/response"
	"fleetops-backend/internal/tabular"

	"github.com/gofiber/fiber/v2"
)

// ErrorHandler is the global error handler. Returns the standard error format.
// Dataset and query sentinel errors map onto 404/400 so handlers can return
// service errors unwrapped.
func ErrorHandler(c *fiber.Ctx, err error) error {
	code := fiber.StatusInternalServerError
	message := "Internal Server Error"
	details := map[string]interface{}{}

	switch {
	case errors.Is(err, tabular.ErrDatasetNotFound), errors.Is(err, tabular.ErrColumnNotFound):
		code = fiber.StatusNotFound
		message = err.Error()
	case errors.Is(err, tabular.ErrInvalidArgument):
		code = fiber.StatusBadRequest
		message = err.Error()
	default:
		if e, ok := err.(*fiber.Error); ok {
			code = e.Code
			message = e.Message
		}
	}

	return response.Error(c, message, code, details)
}
