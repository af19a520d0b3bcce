package http

import (
	"github.com/gin-gonic/gin"

	"github.com/betterdays/inspiration-service/internal/adapters/http/dto"
)

// notFound answers unknown routes with the standard error envelope.
func notFound(c *gin.Context) {
	dto.AbortWithCode(c, dto.ErrorCodeNotFound, "route "+c.Request.URL.Path+" not found")
}

// methodNotAllowed answers known routes called with the wrong method.
func methodNotAllowed(c *gin.Context) {
	dto.AbortWithCode(c, dto.ErrorCodeMethodNotAllowed, "method "+c.Request.Method+" not allowed on "+c.Request.URL.Path)
}
