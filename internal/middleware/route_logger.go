package middleware

import (
	"time"

	"github.com/gofiber/fiber/v2"
	"github.com/rs/zerolog"
)

// RouteLogger writes one line per request with the matched route, status, caller and
// duration. Runs after Tracing so the line carries the trace id.
func RouteLogger() fiber.Handler {
	return func(c *fiber.Ctx) error {
		start := time.Now()
		err := c.Next()

		status := c.Response().StatusCode()
		if err != nil {
			status = fiber.StatusInternalServerError
			if fe, ok := err.(*fiber.Error); ok {
				status = fe.Code
			}
		}

		logger := zerolog.Ctx(c.UserContext())
		ev := logger.Info()
		if status >= fiber.StatusInternalServerError {
			ev = logger.Error()
		} else if status >= fiber.StatusBadRequest {
			ev = logger.Warn()
		}
		if actor, ok := CurrentActor(c); ok {
			ev = ev.Str("user_id", actor.UserID.String())
		}
		ev.Str("method", c.Method()).
			Str("path", c.Path()).
			Str("route", c.Route().Path).
			Int("status", status).
			Dur("elapsed", time.Since(start)).
			Msg("request")
		return err
	}
}
