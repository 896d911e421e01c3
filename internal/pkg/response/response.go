package response

import (
	"badir-backend/internal/pkg/apperr"

	"github.com/gofiber/fiber/v2"
)

// Body is the uniform envelope every handler returns. Failures carry either a
// flat Arabic error string or a field→messages map, never both.
type Body struct {
	Success bool                `json:"success"`
	Message string              `json:"message,omitempty"`
	Data    interface{}         `json:"data,omitempty"`
	Error   string              `json:"error,omitempty"`
	Errors  map[string][]string `json:"errors,omitempty"`
}

// Success sends 200 with the standard envelope.
func Success(c *fiber.Ctx, message string, data interface{}) error {
	return c.Status(fiber.StatusOK).JSON(Body{
		Success: true,
		Message: message,
		Data:    data,
	})
}

// Created sends 201 with the standard envelope.
func Created(c *fiber.Ctx, message string, data interface{}) error {
	return c.Status(fiber.StatusCreated).JSON(Body{
		Success: true,
		Message: message,
		Data:    data,
	})
}

// Error sends a failure envelope with an explicit status code.
func Error(c *fiber.Ctx, message string, statusCode int) error {
	return c.Status(statusCode).JSON(Body{
		Success: false,
		Error:   message,
	})
}

// FieldErrors sends 400 with a per-field validation error map.
func FieldErrors(c *fiber.Ctx, errs map[string][]string) error {
	return c.Status(fiber.StatusBadRequest).JSON(Body{
		Success: false,
		Errors:  errs,
	})
}

// Unauthorized sends 401 in the same envelope shape.
func Unauthorized(c *fiber.Ctx, message string) error {
	return Error(c, message, fiber.StatusUnauthorized)
}

// FromError maps a service error to the envelope using its apperr kind.
// Internal errors are masked with the caller-provided fallback message.
func FromError(c *fiber.Ctx, err error, fallback string) error {
	code := apperr.StatusCode(err)
	msg := err.Error()
	if code == fiber.StatusInternalServerError {
		msg = fallback
	}
	return Error(c, msg, code)
}
