package middlewares

import (
	"errors"
	"log"

	"planhub-backend/security"

	"github.com/go-playground/validator/v10"
	"github.com/gofiber/fiber/v2"
)

// ErrorHandler centralizes error responses and keeps messages sanitized.
func ErrorHandler(c *fiber.Ctx, err error) error {
	// 1) Membership operation failures: log the raw cause internally, answer
	// with the fixed per-operation message after the randomized delay. The
	// Tx middleware has already rolled the request transaction back.
	var opErr *security.MemberOperationError
	if errors.As(err, &opErr) {
		log.Printf("member %s failed: %v", opErr.Op, opErr.Err)
		return security.SendSecureErrorResponse(c, security.SanitizeMemberError(opErr.Err, opErr.Op))
	}

	// 2) Fiber errors (use their status code + message)
	if fe, ok := err.(*fiber.Error); ok {
		return c.Status(fe.Code).JSON(fiber.Map{"message": fe.Message})
	}

	// 3) Validation errors (422 + per-field info)
	if ve, ok := err.(validator.ValidationErrors); ok {
		out := make(map[string]string, len(ve))
		for _, fe := range ve {
			out[fe.Field()] = fe.Tag()
		}
		return c.Status(fiber.StatusUnprocessableEntity).JSON(fiber.Map{
			"message": "validation failed",
			"errors":  out,
		})
	}

	// 4) Unknown errors (500)
	log.Printf("internal error: %v", err)
	return c.Status(fiber.StatusInternalServerError).JSON(fiber.Map{
		"message": "internal server error",
	})
}
