package middleware

import (
	"strconv"

	"github.com/gin-gonic/gin"

	"github.com/eshaffer321/invoice-matcher/internal/observability"
)

// Metrics returns middleware that counts requests by route and status.
// Unmatched routes are grouped under "unmatched" to bound label cardinality.
func Metrics() gin.HandlerFunc {
	return func(c *gin.Context) {
		c.Next()

		route := c.FullPath()
		if route == "" {
			route = "unmatched"
		}
		observability.HTTPRequestsTotal.
			WithLabelValues(c.Request.Method, route, strconv.Itoa(c.Writer.Status())).
			Inc()
	}
}
