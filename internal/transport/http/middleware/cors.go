package middleware

import (
	"net/http"
	"strconv"

	"github.com/gin-gonic/gin"
)

const corsMaxAge = 24 * 60 * 60

// CORS stamps the fixed cross-origin headers on every response and answers
// preflight OPTIONS requests for any path with an empty 200.
func CORS() gin.HandlerFunc {
	return func(c *gin.Context) {
		c.Header("Access-Control-Allow-Origin", "*")
		c.Header("Access-Control-Allow-Methods", "GET, POST, PUT, DELETE, OPTIONS")
		c.Header("Access-Control-Allow-Headers", "Content-Type, Authorization")
		c.Header("Access-Control-Max-Age", strconv.Itoa(corsMaxAge))

		if c.Request.Method == http.MethodOptions {
			c.AbortWithStatus(http.StatusOK)
			return
		}
		c.Next()
	}
}
