// Package logging configures the global zerolog logger and provides the
// request logging middleware of the render worker.
package logging

import (
	"fmt"
	"io"
	"strings"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/google/uuid"
	"github.com/rs/zerolog"
	"github.com/rs/zerolog/log"
)

// RequestIDHeader carries the request ID in both directions.
const RequestIDHeader = "X-Request-ID"

// ctxRequestIDKey is the gin context key holding the request ID.
const ctxRequestIDKey = "request_id"

// Setup sets the global level and output. format is "json" or "console";
// an empty level or format keeps "info" and "console".
func Setup(level, format string, w io.Writer) error {
	if level == "" {
		level = "info"
	}
	lvl, err := zerolog.ParseLevel(strings.ToLower(level))
	if err != nil {
		return fmt.Errorf("invalid log level %q: %w", level, err)
	}

	switch format {
	case "", "console":
		log.Logger = zerolog.New(zerolog.ConsoleWriter{Out: w, TimeFormat: time.Kitchen}).With().Timestamp().Logger()
	case "json":
		log.Logger = zerolog.New(w).With().Timestamp().Logger()
	default:
		return fmt.Errorf("invalid log format %q", format)
	}

	zerolog.SetGlobalLevel(lvl)
	return nil
}

// RequestID returns the request ID assigned by Middleware, or "".
func RequestID(ctx *gin.Context) string {
	return ctx.GetString(ctxRequestIDKey)
}

// Middleware assigns each request an ID (reusing a valid incoming one),
// echoes it in the response and logs one line when the request completes.
func Middleware() gin.HandlerFunc {
	return func(ctx *gin.Context) {
		start := time.Now()

		id := ctx.GetHeader(RequestIDHeader)
		if _, err := uuid.Parse(id); err != nil {
			id = uuid.NewString()
		}
		ctx.Set(ctxRequestIDKey, id)
		ctx.Header(RequestIDHeader, id)

		ctx.Next()

		status := ctx.Writer.Status()
		event := log.Info()
		switch {
		case status >= 500:
			event = log.Error()
		case status >= 400:
			event = log.Warn()
		}

		event.
			Str("request_id", id).
			Str("method", ctx.Request.Method).
			Str("path", ctx.FullPath()).
			Int("status", status).
			Int("bytes", ctx.Writer.Size()).
			Dur("elapsed", time.Since(start)).
			Msg("request")
	}
}
