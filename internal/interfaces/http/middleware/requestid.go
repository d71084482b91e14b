// Package middleware holds the gin middleware chain of the HTTP interface:
// request IDs, structured request logging, and panic recovery.
package middleware

import (
	"github.com/gin-gonic/gin"
	"github.com/google/uuid"
)

// HeaderRequestID is the request ID header honored and echoed by the API.
const HeaderRequestID = "X-Request-ID"

// ContextKeyRequestID is the gin context key under which the request ID is
// stored.
const ContextKeyRequestID = "request_id"

// RequestID assigns every request a request ID, reusing the caller's header
// when present so IDs propagate across services.
func RequestID() gin.HandlerFunc {
	return func(c *gin.Context) {
		id := c.GetHeader(HeaderRequestID)
		if id == "" {
			id = uuid.NewString()
		}
		c.Set(ContextKeyRequestID, id)
		c.Writer.Header().Set(HeaderRequestID, id)
		c.Next()
	}
}

// GetRequestID returns the request ID assigned by RequestID, or "" when the
// middleware did not run.
func GetRequestID(c *gin.Context) string {
	return c.GetString(ContextKeyRequestID)
}
