// Package middleware provides the HTTP middleware of the GradGuide API.
package middleware

import (
	"github.com/gin-gonic/gin"
	"github.com/gradguide/backend/internal/infrastructure/logger"
)

// Context keys set by the middleware
const (
	RequestIDKey       = logger.GinRequestIDKey
	RequestIDHeader    = "X-Request-ID"
	SessionUserIDKey   = "session_user_id"
	SessionClaimsKey   = "session_claims"
	SessionTokenKey    = "session_token"
	SessionErrorKey    = "session_error"
	SessionUserErrKey  = "session_user_error"
	MaxRequestIDLength = 128
)

// GetRequestID returns the id assigned by RequestID, falling back to the header
func GetRequestID(c *gin.Context) string {
	if id := c.GetString(RequestIDKey); id != "" {
		return id
	}
	id := c.GetHeader(RequestIDHeader)
	if len(id) > MaxRequestIDLength {
		return id[:MaxRequestIDLength]
	}
	return id
}

// GetUserID returns the authenticated user id, empty for anonymous requests
func GetUserID(c *gin.Context) string {
	return c.GetString(SessionUserIDKey)
}
