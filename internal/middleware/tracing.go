package middleware

import (
	"github.com/gofiber/fiber/v2"
	"github.com/google/uuid"
	"github.com/rs/zerolog/log"
)

const (
	traceIDHeader   = "X-Trace-Id"
	requestIDHeader = "X-Request-Id"
	traceIDLocal    = "trace_id"
)

// Tracing assigns each request a trace id and echoes it in X-Trace-Id. An inbound
// X-Trace-Id or X-Request-Id is reused when it is a UUID. The request context carries
// a logger tagged with the id, available through zerolog.Ctx.
func Tracing() fiber.Handler {
	return func(c *fiber.Ctx) error {
		traceID := inboundTraceID(c)
		if traceID == "" {
			traceID = uuid.NewString()
		}
		c.Locals(traceIDLocal, traceID)
		c.Set(traceIDHeader, traceID)

		logger := log.With().Str("trace_id", traceID).Logger()
		c.SetUserContext(logger.WithContext(c.UserContext()))
		return c.Next()
	}
}

func inboundTraceID(c *fiber.Ctx) string {
	for _, h := range []string{traceIDHeader, requestIDHeader} {
		if id, err := uuid.Parse(c.Get(h)); err == nil {
			return id.String()
		}
	}
	return ""
}

// GetTraceID returns the trace ID from context.
func GetTraceID(c *fiber.Ctx) string {
	if id, ok := c.Locals(traceIDLocal).(string); ok {
		return id
	}
	return ""
}
