package middleware

import (
	"time"

	"github.com/gofiber/fiber/v2"
	"github.com/google/uuid"
	"github.com/rs/zerolog/log"
)

const traceIDLocal = "trace_id"

// RouteLogger logs each request entry and exit with duration and trace ID.
func RouteLogger() fiber.Handler {
	return func(c *fiber.Ctx) error {
		traceID := c.Get("X-Request-ID")
		if traceID == "" {
			traceID = uuid.NewString()
		}
		c.Locals(traceIDLocal, traceID)

		start := time.Now()
		log.Info().Str("trace_id", traceID).Str("method", c.Method()).Str("path", c.Path()).Msg("Entering request")
		err := c.Next()
		ms := time.Since(start).Milliseconds()
		log.Info().Str("trace_id", traceID).Str("method", c.Method()).Str("path", c.Path()).Int("status", c.Response().StatusCode()).Int64("ms", ms).Msg("Exiting request")
		return err
	}
}

// GetTraceID returns the request trace ID set by RouteLogger.
func GetTraceID(c *fiber.Ctx) string {
	id, _ := c.Locals(traceIDLocal).(string)
	return id
}
