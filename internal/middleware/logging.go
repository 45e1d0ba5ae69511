// Package middleware holds the process-wide fiber middleware.
// Everything here is configured once at startup and never mutated.
package middleware

import (
	"errors"
	"time"

	"github.com/gofiber/fiber/v2"
	"github.com/rs/zerolog/log"
)

// Logging attaches a request-scoped logger to the user context and logs one
// line per request. It must run after requestid so the id is available.
func Logging() fiber.Handler {
	return func(c *fiber.Ctx) error {
		start := time.Now()

		l := log.With().Str("request_id", c.GetRespHeader(fiber.HeaderXRequestID)).Logger()
		c.SetUserContext(l.WithContext(c.UserContext()))

		err := c.Next()

		status := c.Response().StatusCode()
		if err != nil {
			status = fiber.StatusInternalServerError
			var fe *fiber.Error
			if errors.As(err, &fe) {
				status = fe.Code
			}
		}

		ev := l.Info()
		switch {
		case status >= fiber.StatusInternalServerError:
			ev = l.Error().Err(err)
		case status >= fiber.StatusBadRequest:
			ev = l.Warn().Err(err)
		}
		ev.Str("method", c.Method()).
			Str("path", c.Path()).
			Int("status", status).
			Dur("latency", time.Since(start)).
			Msg("request")
		return err
	}
}
