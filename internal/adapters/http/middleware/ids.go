// Package middleware provides the Gin middleware chain of the HTTP server.
package middleware

import (
	"context"
	"net/http"

	"github.com/gin-gonic/gin"
	"github.com/google/uuid"

	"github.com/betterdays/inspiration-service/internal/platform/logging"
)

const (
	// HeaderRequestID identifies a single inbound request.
	HeaderRequestID = "X-Request-ID"

	// HeaderCorrelationID identifies a transaction that may span several
	// requests and services.
	HeaderCorrelationID = "X-Correlation-ID"

	// ContextKeyRequestID is the gin.Context key of the request ID.
	ContextKeyRequestID = "request_id"

	// ContextKeyCorrelationID is the gin.Context key of the correlation ID.
	ContextKeyCorrelationID = "correlation_id"
)

// maxIDLength bounds inbound IDs; longer values are replaced.
const maxIDLength = 128

type idKey int

const (
	requestIDKey idKey = iota
	correlationIDKey
)

// tracedID describes an identifier that travels from the inbound request
// through the context logger to the response and to quote API calls.
type tracedID struct {
	header  string
	ginKey  string
	ctxKey  idKey
	tagLogs func(context.Context, string) context.Context
}

var (
	requestID = tracedID{
		header:  HeaderRequestID,
		ginKey:  ContextKeyRequestID,
		ctxKey:  requestIDKey,
		tagLogs: logging.WithRequestID,
	}
	correlationID = tracedID{
		header:  HeaderCorrelationID,
		ginKey:  ContextKeyCorrelationID,
		ctxKey:  correlationIDKey,
		tagLogs: logging.WithCorrelationID,
	}
)

// handler accepts a valid inbound header or mints a UUID, then exposes the
// ID on the gin context, the request context, its logger and the response.
func (t tracedID) handler() gin.HandlerFunc {
	return func(c *gin.Context) {
		id := c.GetHeader(t.header)
		if !validID(id) {
			id = uuid.NewString()
		}

		c.Set(t.ginKey, id)
		c.Header(t.header, id)

		ctx := t.tagLogs(t.store(c.Request.Context(), id), id)
		c.Request = c.Request.WithContext(ctx)

		c.Next()
	}
}

func (t tracedID) store(ctx context.Context, id string) context.Context {
	return context.WithValue(ctx, t.ctxKey, id)
}

func (t tracedID) fromContext(ctx context.Context) string {
	if ctx == nil {
		return ""
	}

	id, _ := ctx.Value(t.ctxKey).(string)

	return id
}

func (t tracedID) fromGin(c *gin.Context) string {
	return c.GetString(t.ginKey)
}

// RequestID returns middleware that accepts or generates X-Request-ID.
func RequestID() gin.HandlerFunc { return requestID.handler() }

// CorrelationID returns middleware that accepts or generates X-Correlation-ID.
func CorrelationID() gin.HandlerFunc { return correlationID.handler() }

// GetRequestID returns the request ID set on c, or "".
func GetRequestID(c *gin.Context) string { return requestID.fromGin(c) }

// GetCorrelationID returns the correlation ID set on c, or "".
func GetCorrelationID(c *gin.Context) string { return correlationID.fromGin(c) }

// MustGetRequestID is GetRequestID with "unknown" in place of "".
func MustGetRequestID(c *gin.Context) string { return orUnknown(GetRequestID(c)) }

// MustGetCorrelationID is GetCorrelationID with "unknown" in place of "".
func MustGetCorrelationID(c *gin.Context) string { return orUnknown(GetCorrelationID(c)) }

// RequestIDFromContext returns the request ID carried by ctx, or "".
func RequestIDFromContext(ctx context.Context) string { return requestID.fromContext(ctx) }

// CorrelationIDFromContext returns the correlation ID carried by ctx, or "".
func CorrelationIDFromContext(ctx context.Context) string { return correlationID.fromContext(ctx) }

// ContextWithRequestID returns ctx carrying the request ID.
func ContextWithRequestID(ctx context.Context, id string) context.Context {
	return requestID.store(ctx, id)
}

// ContextWithCorrelationID returns ctx carrying the correlation ID.
func ContextWithCorrelationID(ctx context.Context, id string) context.Context {
	return correlationID.store(ctx, id)
}

// PropagateIDs copies the IDs carried by ctx onto outbound headers.
func PropagateIDs(ctx context.Context, h http.Header) {
	for _, t := range []tracedID{requestID, correlationID} {
		if id := t.fromContext(ctx); id != "" {
			h.Set(t.header, id)
		}
	}
}

func orUnknown(id string) string {
	if id == "" {
		return "unknown"
	}

	return id
}

// validID accepts non-empty printable ASCII IDs of bounded length.
func validID(id string) bool {
	if id == "" || len(id) > maxIDLength {
		return false
	}

	for i := range len(id) {
		if id[i] < 0x21 || id[i] > 0x7e {
			return false
		}
	}

	return true
}
