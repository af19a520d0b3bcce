package middleware

import (
	"log/slog"
	"net/http"
	"strings"
	"time"

	"github.com/gin-gonic/gin"

	"github.com/betterdays/inspiration-service/internal/platform/logging"
)

// healthPrefix is skipped by request logging to avoid probe noise.
const healthPrefix = "/-/"

// Logging logs each request twice, on arrival and on completion, through
// the context logger so the lines carry request, correlation and trace
// IDs. Paths under /-/ and the exact skipPaths are not logged. logger is
// the fallback for requests whose context carries none.
func Logging(logger *slog.Logger, skipPaths ...string) gin.HandlerFunc {
	skip := make(map[string]struct{}, len(skipPaths))
	for _, path := range skipPaths {
		skip[path] = struct{}{}
	}

	return func(c *gin.Context) {
		if _, ok := skip[c.Request.URL.Path]; ok || strings.HasPrefix(c.Request.URL.Path, healthPrefix) {
			c.Next()
			return
		}

		start := time.Now()
		log := requestLogger(c, logger).With(
			slog.String("method", c.Request.Method),
			slog.String("path", c.Request.URL.RequestURI()),
		)

		log.Info("request started",
			slog.String("client_ip", c.ClientIP()),
			slog.String("user_agent", c.Request.UserAgent()),
		)

		c.Next()

		latency := time.Since(start)
		status := c.Writer.Status()

		log.Log(c.Request.Context(), statusLevel(status), "request completed",
			slog.String("route", c.FullPath()),
			slog.Int("status", status),
			slog.Duration("latency", latency),
			slog.Int64("latency_ms", latency.Milliseconds()),
			slog.Int("bytes", c.Writer.Size()),
		)
	}
}

// statusLevel logs server errors at ERROR and client errors at WARN.
func statusLevel(status int) slog.Level {
	switch {
	case status >= http.StatusInternalServerError:
		return slog.LevelError
	case status >= http.StatusBadRequest:
		return slog.LevelWarn
	default:
		return slog.LevelInfo
	}
}

// requestLogger prefers the enriched context logger over the fallback.
func requestLogger(c *gin.Context, fallback *slog.Logger) *slog.Logger {
	return logging.FromContextOr(c.Request.Context(), fallback)
}
