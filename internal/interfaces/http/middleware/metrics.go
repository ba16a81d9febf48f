package middleware

import (
	"github.com/gin-gonic/gin"
	"github.com/gradguide/backend/internal/infrastructure/telemetry"
)

// HTTPMetrics records request count, latency and in-flight requests.
// A nil metrics set yields a pass-through middleware.
func HTTPMetrics(metrics *telemetry.AppMetrics) gin.HandlerFunc {
	if metrics == nil {
		return func(c *gin.Context) { c.Next() }
	}

	return func(c *gin.Context) {
		done := metrics.RequestStarted(c.Request.Context(), c.Request.Method)
		c.Next()

		route := c.FullPath()
		if route == "" {
			// keep unmatched paths out of the route label
			route = "unmatched"
		}
		done(route, c.Writer.Status())
	}
}
