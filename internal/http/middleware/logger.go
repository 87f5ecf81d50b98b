package middleware

import (
	"io"
	"time"

	"github.com/gofiber/fiber/v2"
	"github.com/rs/zerolog"

	"awdtrack/internal/logger"
)

// ErrorLocalKey holds the internal error message of a failed request so the
// access log can record what the client is not shown.
const ErrorLocalKey = "handler_error"

// Logger is a middleware that logs each HTTP request as one JSON line with
// request_id, method, path, status and latency in milliseconds.
func Logger(log zerolog.Logger) fiber.Handler {
	return func(c *fiber.Ctx) error {
		start := time.Now()

		err := c.Next()
		if err != nil {
			// Let the app error handler write the response so the final
			// status is logged.
			if herr := c.App().ErrorHandler(c, err); herr != nil {
				_ = c.SendStatus(fiber.StatusInternalServerError)
			}
		}

		status := c.Response().StatusCode()
		var ev *zerolog.Event
		switch {
		case status >= fiber.StatusInternalServerError:
			ev = log.Error()
		case status >= fiber.StatusBadRequest:
			ev = log.Warn()
		default:
			ev = log.Info()
		}

		rid, _ := c.Locals(RequestIDLocalKey).(string)
		ev = ev.
			Str("request_id", rid).
			Str("method", c.Method()).
			Str("path", c.Path()).
			Int("status", status).
			Float64("latency", float64(time.Since(start).Microseconds())/1000)
		if msg, ok := c.Locals(ErrorLocalKey).(string); ok {
			ev = ev.Str("error", msg)
		}
		if sess, ok := SessionFrom(c); ok {
			ev = ev.Str("role", string(sess.Role))
		}
		ev.Msg("http_request")
		return nil
	}
}

// LoggerWithWriter is Logger writing to w with timestamps in loc.
func LoggerWithWriter(w io.Writer, loc *time.Location) fiber.Handler {
	return Logger(logger.NewWithWriter(w, "debug", loc))
}
