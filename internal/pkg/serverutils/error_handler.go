package serverutils

import (
	"errors"

	"github.com/gofiber/fiber/v2"

	"amplified-be/internal/apperror"
)

// ErrorHandlerMiddleware converts errors bubbling out of handlers into the
// shared error envelope. Provider failures map to 502 because the upstream
// engine, not this service, produced the fault.
func ErrorHandlerMiddleware() fiber.Handler {
	return func(ctx *fiber.Ctx) error {
		err := ctx.Next()
		if err == nil {
			return nil
		}

		code := fiber.StatusInternalServerError
		switch apperror.KindOf(err) {
		case apperror.KindNotFound:
			code = fiber.StatusNotFound
		case apperror.KindConfig, apperror.KindValidation:
			code = fiber.StatusBadRequest
		case apperror.KindConflict:
			code = fiber.StatusConflict
		case apperror.KindProvider:
			code = fiber.StatusBadGateway
		default:
			var fe *fiber.Error
			if errors.As(err, &fe) {
				code = fe.Code
			}
		}

		return ctx.Status(code).JSON(ErrorResponse(code, err.Error()))
	}
}
