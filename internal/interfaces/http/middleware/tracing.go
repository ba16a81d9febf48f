package middleware

import (
	"net/http"

	"github.com/gin-gonic/gin"
	"github.com/gradguide/backend/internal/infrastructure/telemetry"
	"go.opentelemetry.io/contrib/instrumentation/github.com/gin-gonic/gin/otelgin"
	"go.opentelemetry.io/otel/attribute"
	"go.opentelemetry.io/otel/codes"
	"go.opentelemetry.io/otel/trace"
)

// TracingConfig holds configuration for the tracing middleware
type TracingConfig struct {
	ServiceName string
	Enabled     bool
}

// Tracing wraps otelgin. Spans are named "METHOD /route" and carry the
// request id; 5xx responses are marked as errors.
func Tracing(cfg TracingConfig) gin.HandlerFunc {
	if !cfg.Enabled {
		return func(c *gin.Context) { c.Next() }
	}

	base := otelgin.Middleware(cfg.ServiceName,
		otelgin.WithSpanNameFormatter(func(c *gin.Context) string {
			route := c.FullPath()
			if route == "" {
				route = "unmatched"
			}
			return c.Request.Method + " " + route
		}),
		otelgin.WithFilter(func(r *http.Request) bool {
			return r.URL.Path != "/health"
		}),
	)

	return func(c *gin.Context) {
		if requestID := GetRequestID(c); requestID != "" {
			// otelgin starts the span inside base; tag it once the chain returns
			defer func() {
				span := trace.SpanFromContext(c.Request.Context())
				if span.IsRecording() {
					span.SetAttributes(attribute.String("request_id", requestID))
				}
			}()
		}
		base(c)
	}
}

// SpanEnricher tags the active span with the session user and marks error
// responses. It runs after ResolveSession.
func SpanEnricher() gin.HandlerFunc {
	return func(c *gin.Context) {
		span := trace.SpanFromContext(c.Request.Context())
		if span.IsRecording() {
			if userID := GetUserID(c); userID != "" {
				span.SetAttributes(attribute.String(telemetry.SpanAttrUserID, userID))
			}
		}

		c.Next()

		if !span.IsRecording() {
			return
		}
		if status := c.Writer.Status(); status >= http.StatusBadRequest {
			span.SetAttributes(attribute.Int("http.status_code", status))
			if status >= http.StatusInternalServerError {
				span.SetStatus(codes.Error, http.StatusText(status))
			}
		}
	}
}
