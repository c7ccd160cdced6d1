package helper

import (
	"errors"
	"log"

	"github.com/gofiber/fiber/v2"
)

// FiberErrorHandler dipasang di fiber.Config.ErrorHandler:
// *fiber.Error & *AppError dirender dengan envelope standar, selain itu 500.
func FiberErrorHandler(c *fiber.Ctx, err error) error {
	var fe *fiber.Error
	if errors.As(err, &fe) {
		return JsonError(c, fe.Code, fe.Message)
	}
	var ae *AppError
	if errors.As(err, &ae) {
		return JsonAppError(c, ae)
	}
	var ve *ValidationErrors
	if errors.As(err, &ve) {
		return JsonValidationError(c, ve.Fields)
	}
	log.Printf("[ERROR] unhandled %s %s: %v", c.Method(), c.Path(), err)
	return JsonError(c, fiber.StatusInternalServerError, "Terjadi kesalahan pada server")
}
