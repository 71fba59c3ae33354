package server

import (
	"log/slog"
	"time"

	"github.com/gofiber/fiber/v2"
)

const requestIDKey = "requestid"

func requestID(c *fiber.Ctx) string {
	id, _ := c.Locals(requestIDKey).(string) //nolint:errcheck // missing id is empty
	return id
}

// requestLogger logs each request once it completes.
// Must be used AFTER requestid.New() middleware.
func (s *Server) requestLogger() fiber.Handler {
	return func(c *fiber.Ctx) error {
		start := time.Now()

		err := c.Next()
		if err != nil {
			// Let the error handler set the final status before logging it.
			if herr := c.App().ErrorHandler(c, err); herr != nil {
				_ = c.SendStatus(fiber.StatusInternalServerError) //nolint:errcheck // best effort
			}
		}

		status := c.Response().StatusCode()
		fields := []any{
			"method", c.Method(),
			"path", c.Path(),
			"status", status,
			"latency_ms", time.Since(start).Milliseconds(),
			"ip", c.IP(),
			"request_id", requestID(c),
		}

		ctx := c.UserContext()
		switch {
		case status >= 500:
			s.logger.Log(ctx, slog.LevelError, "request completed", fields...)
		case status >= 400:
			s.logger.Log(ctx, slog.LevelWarn, "request completed", fields...)
		default:
			s.logger.Log(ctx, slog.LevelInfo, "request completed", fields...)
		}
		return nil
	}
}
