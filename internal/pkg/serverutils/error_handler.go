package serverutils

import (
	"errors"

	"github.com/gofiber/fiber/v2"

	"gymbro-be/internal/pkg/logger"
	"gymbro-be/internal/service"
	"gymbro-be/pkg/coach"
	"gymbro-be/pkg/lock"
)

// StatusFor maps domain errors to HTTP statuses.
func StatusFor(err error) int {
	var fiberErr *fiber.Error
	var validationErr *ValidationError
	switch {
	case errors.As(err, &fiberErr):
		return fiberErr.Code
	case errors.As(err, &validationErr),
		errors.Is(err, coach.ErrEmptyMessage),
		errors.Is(err, service.ErrInvalidRequest):
		return fiber.StatusBadRequest
	case errors.Is(err, coach.ErrUnknownUser):
		return fiber.StatusNotFound
	case errors.Is(err, lock.ErrNotAcquired):
		return fiber.StatusConflict
	case errors.Is(err, coach.ErrExtractionValidationFailed):
		return fiber.StatusUnprocessableEntity
	case errors.Is(err, coach.ErrClassificationFailed),
		errors.Is(err, coach.ErrUpstreamGenerationFailed):
		return fiber.StatusBadGateway
	default:
		return fiber.StatusInternalServerError
	}
}

// ErrorHandlerMiddleware renders errors returned by later handlers as JSON.
// Internal errors are logged and hidden from the client.
func ErrorHandlerMiddleware(log logger.ILogger) fiber.Handler {
	return func(ctx *fiber.Ctx) error {
		err := ctx.Next()
		if err == nil {
			return nil
		}

		status := StatusFor(err)
		message := err.Error()
		var details interface{}

		var validationErr *ValidationError
		if errors.As(err, &validationErr) {
			message = "Validation failed"
			details = validationErr.Fields
		}
		if status == fiber.StatusInternalServerError {
			log.WithContext(ctx.UserContext()).Error("HTTP", "Request failed", map[string]interface{}{
				"method": ctx.Method(),
				"path":   ctx.Path(),
				"error":  err,
			})
			message = "Internal server error"
		}

		res := ErrorResponse(status, message)
		res.Errors = details
		return ctx.Status(status).JSON(res)
	}
}
