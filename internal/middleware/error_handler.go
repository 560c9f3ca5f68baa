package middleware

import (
	"estates-backend/internal/pkg/response"

	"github.com/gofiber/fiber/v2"
	"github.com/rs/zerolog/log"
)

// ErrorHandler is the global error handler. Uncaught errors become the
// standard error envelope; the raw error is logged, never returned.
func ErrorHandler(c *fiber.Ctx, err error) error {
	code := fiber.StatusInternalServerError
	message := "Internal server error"

	if e, ok := err.(*fiber.Error); ok {
		code = e.Code
		message = e.Message
	} else {
		log.Error().Err(err).Str("method", c.Method()).Str("path", c.Path()).Msg("unhandled error")
	}

	return response.Error(c, code, message)
}
