package middleware

import (
	"net/http"
	"strconv"
	"time"

	"github.com/ErlanBelekov/soundproxy/internal/metrics"
	"github.com/gin-gonic/gin"
)

// Metrics records latency and count per matched route. Unmatched paths share
// one label so arbitrary URLs cannot blow up cardinality.
func Metrics() gin.HandlerFunc {
	return func(c *gin.Context) {
		start := time.Now()
		c.Next()

		path := c.FullPath()
		switch {
		case c.Request.Method == http.MethodOptions:
			path = "preflight"
		case path == "":
			path = "unmatched"
		}
		status := strconv.Itoa(c.Writer.Status())
		method := c.Request.Method

		metrics.HTTPRequestDuration.WithLabelValues(method, path, status).Observe(time.Since(start).Seconds())
		metrics.HTTPRequestsTotal.WithLabelValues(method, path, status).Inc()
	}
}
