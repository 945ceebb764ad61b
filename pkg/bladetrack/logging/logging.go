// Package logging builds the process logger and the per-request loggers that
// handlers and the lifecycle manager reach through zerolog.Ctx.
package logging

import (
	"os"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/google/uuid"
	"github.com/rs/zerolog"
)

// RequestIDHeader carries the request ID in and out of the server
const RequestIDHeader = "X-Request-ID"

// Setup returns the root logger: JSON on stderr, or a console writer at
// debug level in dev mode
func Setup(dev bool) zerolog.Logger {
	level := zerolog.InfoLevel
	if dev {
		level = zerolog.DebugLevel
	}

	logger := zerolog.New(os.Stderr).Level(level).With().Timestamp().Logger()

	if dev {
		logger = logger.Output(zerolog.ConsoleWriter{Out: os.Stderr, TimeFormat: time.RFC3339}).
			With().Caller().Logger()
	}

	return logger
}

// RequestLogger attaches a logger carrying the request ID to the request
// context and logs each completed request. An incoming X-Request-ID is kept,
// otherwise a new one is generated.
func RequestLogger(logger zerolog.Logger) gin.HandlerFunc {
	return func(c *gin.Context) {
		started := time.Now()

		requestID := c.GetHeader(RequestIDHeader)
		if requestID == "" || len(requestID) > 128 {
			requestID = uuid.NewString()
		}
		c.Header(RequestIDHeader, requestID)

		reqLogger := logger.With().Str("request_id", requestID).Logger()
		c.Request = c.Request.WithContext(reqLogger.WithContext(c.Request.Context()))

		c.Next()

		status := c.Writer.Status()
		event := reqLogger.Info()
		switch {
		case status >= 500:
			event = reqLogger.Error()
		case status >= 400:
			event = reqLogger.Warn()
		}
		if len(c.Errors) > 0 {
			event = event.Str("errors", c.Errors.String())
		}

		route := c.FullPath()
		if route == "" {
			route = "unmatched"
		}
		event.
			Str("method", c.Request.Method).
			Str("route", route).
			Str("path", c.Request.URL.Path).
			Int("status", status).
			Str("client_ip", c.ClientIP()).
			Dur("duration", time.Since(started)).
			Msg("http request")
	}
}
