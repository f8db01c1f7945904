package handlers

import (
	"errors"
	"fmt"

	"github.com/go-playground/validator/v10"
	"github.com/gofiber/fiber/v2"
	"go.uber.org/zap"

	"storefront/internal/repositories"
	"storefront/internal/services"
)

// Response is the envelope every endpoint answers with.
type Response struct {
	Success bool     `json:"success"`
	Message string   `json:"message,omitempty"`
	Data    any      `json:"data,omitempty"`
	Errors  []string `json:"errors,omitempty"`
}

func respond(c *fiber.Ctx, status int, message string, data any) error {
	return c.Status(status).JSON(Response{Success: true, Message: message, Data: data})
}

func respondError(c *fiber.Ctx, status int, message string, errs ...string) error {
	return c.Status(status).JSON(Response{Success: false, Message: message, Errors: errs})
}

// validationFailed reports every failing field of a validator error.
func validationFailed(c *fiber.Ctx, err error) error {
	var verrs validator.ValidationErrors
	if !errors.As(err, &verrs) {
		return respondError(c, fiber.StatusBadRequest, "Validation failed", err.Error())
	}
	messages := make([]string, 0, len(verrs))
	for _, e := range verrs {
		messages = append(messages, fmt.Sprintf("Field '%s' failed on the '%s' tag", e.Field(), e.Tag()))
	}
	return respondError(c, fiber.StatusBadRequest, "Validation failed", messages...)
}

// respondServiceError maps service and repository errors to HTTP statuses.
// Anything unrecognised is logged and reported as a 500 without details.
func respondServiceError(c *fiber.Ctx, log *zap.Logger, message string, err error) error {
	switch {
	case errors.Is(err, repositories.ErrNotFound):
		return respondError(c, fiber.StatusNotFound, message, err.Error())
	case errors.Is(err, services.ErrInvalidQuantity),
		errors.Is(err, services.ErrInvalidStatus),
		errors.Is(err, services.ErrInvalidPrice),
		errors.Is(err, repositories.ErrInvalidQuantity):
		return respondError(c, fiber.StatusBadRequest, message, err.Error())
	case errors.Is(err, services.ErrProductUnavailable),
		errors.Is(err, services.ErrInsufficientStock),
		errors.Is(err, services.ErrEmptyCart),
		errors.Is(err, services.ErrUserExists):
		return respondError(c, fiber.StatusConflict, message, err.Error())
	case services.IsRetryable(err):
		c.Set(fiber.HeaderRetryAfter, "1")
		return respondError(c, fiber.StatusServiceUnavailable, message, "temporary failure, retry the request")
	}

	log.Error(message, zap.String("path", c.Path()), zap.Error(err))
	return respondError(c, fiber.StatusInternalServerError, message, "internal error")
}

// ErrorHandler turns errors that escaped a handler, including recovered
// panics and fiber's own routing errors, into the response envelope.
func ErrorHandler(log *zap.Logger) fiber.ErrorHandler {
	return func(c *fiber.Ctx, err error) error {
		var fe *fiber.Error
		if errors.As(err, &fe) {
			return respondError(c, fe.Code, fe.Message)
		}
		log.Error("unhandled error", zap.String("method", c.Method()), zap.String("path", c.Path()), zap.Error(err))
		return respondError(c, fiber.StatusInternalServerError, "Internal server error")
	}
}
