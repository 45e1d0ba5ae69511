package handler

import (
	"errors"

	"github.com/gofiber/fiber/v2"
)

// ErrorHandler renders every error as {"detail": "..."}.
// Errors that are not *fiber.Error become a 500.
func ErrorHandler(c *fiber.Ctx, err error) error {
	code := fiber.StatusInternalServerError
	msg := err.Error()

	var fe *fiber.Error
	if errors.As(err, &fe) {
		code = fe.Code
		msg = fe.Message
	}

	return c.Status(code).JSON(fiber.Map{"detail": msg})
}
