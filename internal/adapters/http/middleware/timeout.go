package middleware

import (
	"context"
	"errors"
	"log/slog"
	"time"

	"github.com/gin-gonic/gin"

	"github.com/betterdays/inspiration-service/internal/adapters/http/dto"
	"github.com/betterdays/inspiration-service/internal/platform/logging"
)

// Timeout returns middleware that puts a deadline on the request context.
// Handlers must honour ctx.Done(); the middleware does not interrupt them.
// When the deadline passed and the handler wrote nothing, a 503 TIMEOUT
// envelope is returned.
//
// Requests whose matched route is in skipRoutes run without a deadline.
// Long-lived streams such as the quote event stream belong there.
func Timeout(timeout time.Duration, skipRoutes ...string) gin.HandlerFunc {
	skipMap := make(map[string]struct{}, len(skipRoutes))
	for _, route := range skipRoutes {
		skipMap[route] = struct{}{}
	}

	return func(c *gin.Context) {
		if _, skip := skipMap[c.FullPath()]; skip || timeout <= 0 {
			c.Next()
			return
		}

		ctx, cancel := context.WithTimeout(c.Request.Context(), timeout)
		defer cancel()

		c.Request = c.Request.WithContext(ctx)
		c.Next()

		if errors.Is(ctx.Err(), context.DeadlineExceeded) && !c.Writer.Written() {
			handleTimeout(c, timeout)
		}
	}
}

// handleTimeout logs the timeout and responds with an error envelope.
func handleTimeout(c *gin.Context, timeout time.Duration) {
	logging.FromContext(c.Request.Context()).Warn("request timeout",
		slog.String("path", c.Request.URL.Path),
		slog.String("method", c.Request.Method),
		slog.Duration("timeout", timeout),
		slog.String("trace_id", dto.GetTraceID(c)),
	)

	dto.AbortWithCode(c, dto.ErrorCodeTimeout, "request timeout exceeded")
}
