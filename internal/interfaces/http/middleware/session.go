package middleware

import (
	"context"
	"errors"
	"net/http"
	"strings"

	"github.com/gin-gonic/gin"
	appidentity "github.com/gradguide/backend/internal/application/identity"
	"github.com/gradguide/backend/internal/domain/identity"
	"github.com/gradguide/backend/internal/domain/shared"
	"github.com/gradguide/backend/internal/infrastructure/auth"
	"github.com/gradguide/backend/internal/infrastructure/config"
	"github.com/gradguide/backend/internal/infrastructure/logger"
	"github.com/gradguide/backend/internal/interfaces/http/dto"
	"go.uber.org/zap"
)

// Header names for bearer credentials
const (
	AuthHeaderKey = "Authorization"
	BearerPrefix  = "Bearer "
)

// UserEnsurer records the caller so rows they create have an owner
type UserEnsurer interface {
	EnsureUser(ctx context.Context, candidate identity.UserCandidate) (*appidentity.UserDTO, error)
}

// SessionConfig holds the session middleware dependencies
type SessionConfig struct {
	Auth config.AuthConfig
	// Tokens verifies session tokens, jwt mode only
	Tokens *auth.SessionTokens
	// Blacklist is optional; lookups fail open
	Blacklist auth.TokenBlacklist
	Users     UserEnsurer
	Logger    *zap.Logger
}

// ResolveSession identifies the caller when credentials are present and
// upserts them. Anonymous requests pass through. A bad credential, or a
// caller that could not be recorded, is kept for RequireSession and the
// request continues anonymously.
func ResolveSession(cfg SessionConfig) gin.HandlerFunc {
	log := cfg.Logger
	if log == nil {
		log = zap.NewNop()
	}

	return func(c *gin.Context) {
		var (
			candidate *identity.UserCandidate
			err       error
		)
		if cfg.Auth.Mode == config.AuthModeHeader {
			candidate = candidateFromHeaders(c, cfg.Auth)
		} else {
			candidate, err = resolveToken(c, cfg, log)
		}
		if err != nil {
			c.Set(SessionErrorKey, err)
			c.Next()
			return
		}
		if candidate == nil {
			c.Next()
			return
		}

		ctx := c.Request.Context()
		user, err := cfg.Users.EnsureUser(ctx, *candidate)
		if err != nil {
			log.Warn("Failed to record session user", zap.String("user_id", candidate.ID), zap.Error(err))
			c.Set(SessionUserErrKey, err)
			c.Next()
			return
		}

		c.Set(SessionUserIDKey, user.ID)
		c.Request = c.Request.WithContext(logger.WithUserID(ctx, user.ID))
		c.Next()
	}
}

// RequireSession rejects requests ResolveSession could not identify
func RequireSession() gin.HandlerFunc {
	return func(c *gin.Context) {
		if GetUserID(c) != "" {
			c.Next()
			return
		}

		if v, ok := c.Get(SessionUserErrKey); ok {
			if err, ok := v.(error); ok {
				abortWithDomainError(c, err)
				return
			}
		}

		code, message := dto.ErrCodeUnauthorized, "Authentication required"
		if v, ok := c.Get(SessionErrorKey); ok {
			if err, ok := v.(error); ok {
				code, message = sessionErrorCode(err)
			}
		}
		c.AbortWithStatusJSON(http.StatusUnauthorized, dto.NewErrorResponseWithRequestID(code, message, GetRequestID(c)))
	}
}

// GetSessionClaims returns the verified token claims, nil in header mode or when anonymous
func GetSessionClaims(c *gin.Context) *auth.Claims {
	if v, ok := c.Get(SessionClaimsKey); ok {
		if claims, ok := v.(*auth.Claims); ok {
			return claims
		}
	}
	return nil
}

// GetSessionToken returns the raw session token of the request
func GetSessionToken(c *gin.Context) string {
	return c.GetString(SessionTokenKey)
}

func resolveToken(c *gin.Context, cfg SessionConfig, log *zap.Logger) (*identity.UserCandidate, error) {
	token := bearerToken(c)
	if token == "" && cfg.Auth.CookieName != "" {
		if cookie, err := c.Cookie(cfg.Auth.CookieName); err == nil {
			token = cookie
		}
	}
	if token == "" {
		return nil, nil
	}
	if cfg.Tokens == nil {
		return nil, auth.ErrInvalidToken
	}

	claims, err := cfg.Tokens.Verify(token)
	if err != nil {
		return nil, err
	}

	if cfg.Blacklist != nil {
		revoked, err := cfg.Blacklist.IsBlacklisted(c.Request.Context(), claims.RevocationKey(token))
		if err != nil {
			log.Error("Failed to check token blacklist", zap.String("user_id", claims.Subject), zap.Error(err))
		} else if revoked {
			return nil, auth.ErrTokenBlacklisted
		}
	}

	c.Set(SessionClaimsKey, claims)
	c.Set(SessionTokenKey, token)
	candidate := claims.Candidate()
	return &candidate, nil
}

func bearerToken(c *gin.Context) string {
	header := c.GetHeader(AuthHeaderKey)
	if !strings.HasPrefix(header, BearerPrefix) {
		return ""
	}
	return strings.TrimSpace(strings.TrimPrefix(header, BearerPrefix))
}

// candidateFromHeaders reads the identity asserted by a trusted proxy.
// The display name is split on its first space into first and last name.
func candidateFromHeaders(c *gin.Context, cfg config.AuthConfig) *identity.UserCandidate {
	id := strings.TrimSpace(c.GetHeader(cfg.UserIDHeader))
	if id == "" {
		return nil
	}
	candidate := &identity.UserCandidate{
		ID:              id,
		Email:           headerValue(c, cfg.EmailHeader),
		ProfileImageURL: headerValue(c, cfg.ProfileImageHeader),
	}
	if name := headerValue(c, cfg.NameHeader); name != nil {
		first, last, found := strings.Cut(*name, " ")
		candidate.FirstName = &first
		if found {
			if last = strings.TrimSpace(last); last != "" {
				candidate.LastName = &last
			}
		}
	}
	return candidate
}

func headerValue(c *gin.Context, name string) *string {
	if name == "" {
		return nil
	}
	v := strings.TrimSpace(c.GetHeader(name))
	if v == "" {
		return nil
	}
	return &v
}

func sessionErrorCode(err error) (string, string) {
	switch {
	case errors.Is(err, auth.ErrExpiredToken):
		return dto.ErrCodeTokenExpired, "Session has expired"
	case errors.Is(err, auth.ErrTokenBlacklisted):
		return dto.ErrCodeTokenRevoked, "Session has been signed out"
	default:
		return dto.ErrCodeTokenInvalid, "Invalid session"
	}
}

func abortWithDomainError(c *gin.Context, err error) {
	code := dto.NormalizeErrorCode(shared.CodeOf(err))
	message := "An unexpected error occurred"
	var de *shared.DomainError
	if errors.As(err, &de) {
		message = de.Message
	}
	c.AbortWithStatusJSON(dto.GetHTTPStatus(code), dto.NewErrorResponseWithRequestID(code, message, GetRequestID(c)))
}
