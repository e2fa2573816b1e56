package middleware

import (
	"github.com/ErlanBelekov/soundproxy/internal/requestid"
	"github.com/gin-gonic/gin"
)

// RequestID attaches a correlation ID to the request context and echoes it
// in the response header. A valid incoming X-Request-ID is reused.
func RequestID() gin.HandlerFunc {
	return func(c *gin.Context) {
		id := requestid.Resolve(c.GetHeader(requestid.Header))

		c.Request = c.Request.WithContext(requestid.WithRequestID(c.Request.Context(), id))
		c.Header(requestid.Header, id)
		c.Next()
	}
}
