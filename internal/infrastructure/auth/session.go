package auth

import (
	"crypto/sha256"
	"encoding/hex"
	"errors"
	"strings"
	"time"

	"github.com/golang-jwt/jwt/v5"
	"github.com/google/uuid"
	"github.com/gradguide/backend/internal/domain/identity"
	"github.com/gradguide/backend/internal/infrastructure/config"
)

// Common errors
var (
	ErrInvalidToken     = errors.New("invalid token")
	ErrExpiredToken     = errors.New("token has expired")
	ErrTokenNotYetValid = errors.New("token is not yet valid")
	ErrMissingSubject   = errors.New("missing subject in claims")
	ErrTokenBlacklisted = errors.New("token has been revoked")
	ErrMissingSecret    = errors.New("session secret is not configured")
)

// Claims are the session claims issued by the upstream identity provider.
// The subject is the user id.
type Claims struct {
	jwt.RegisteredClaims
	Email     string `json:"email,omitempty"`
	FirstName string `json:"first_name,omitempty"`
	LastName  string `json:"last_name,omitempty"`
	Picture   string `json:"picture,omitempty"`
}

// Candidate converts the claims into an upsert candidate; absent claims stay nil
func (c *Claims) Candidate() identity.UserCandidate {
	return identity.UserCandidate{
		ID:              c.Subject,
		Email:           optional(c.Email),
		FirstName:       optional(c.FirstName),
		LastName:        optional(c.LastName),
		ProfileImageURL: optional(c.Picture),
	}
}

// RemainingTTL returns the time until the token expires, zero when already expired.
// Tokens without an expiry report fallback.
func (c *Claims) RemainingTTL(fallback time.Duration) time.Duration {
	if c.ExpiresAt == nil {
		return fallback
	}
	if remaining := time.Until(c.ExpiresAt.Time); remaining > 0 {
		return remaining
	}
	return 0
}

// RevocationKey identifies the token in the blacklist: the jti when present,
// otherwise a digest of the raw token
func (c *Claims) RevocationKey(raw string) string {
	if c.ID != "" {
		return c.ID
	}
	sum := sha256.Sum256([]byte(raw))
	return "sha256:" + hex.EncodeToString(sum[:])
}

// SessionInput describes a session token to issue
type SessionInput struct {
	UserID    string
	Email     string
	FirstName string
	LastName  string
	Picture   string
	TTL       time.Duration
}

// SessionTokens verifies HS256 session tokens and can issue them for
// development tooling and tests
type SessionTokens struct {
	secret []byte
	issuer string
}

// NewSessionTokens creates a SessionTokens from the auth configuration
func NewSessionTokens(cfg config.AuthConfig) *SessionTokens {
	return &SessionTokens{
		secret: []byte(cfg.JWTSecret),
		issuer: cfg.Issuer,
	}
}

// Issue signs a session token
func (s *SessionTokens) Issue(in SessionInput) (string, error) {
	if len(s.secret) == 0 {
		return "", ErrMissingSecret
	}
	if strings.TrimSpace(in.UserID) == "" {
		return "", ErrMissingSubject
	}
	ttl := in.TTL
	if ttl <= 0 {
		ttl = 24 * time.Hour
	}

	now := time.Now()
	claims := &Claims{
		RegisteredClaims: jwt.RegisteredClaims{
			ID:        uuid.NewString(),
			Issuer:    s.issuer,
			Subject:   in.UserID,
			ExpiresAt: jwt.NewNumericDate(now.Add(ttl)),
			NotBefore: jwt.NewNumericDate(now),
			IssuedAt:  jwt.NewNumericDate(now),
		},
		Email:     in.Email,
		FirstName: in.FirstName,
		LastName:  in.LastName,
		Picture:   in.Picture,
	}
	return jwt.NewWithClaims(jwt.SigningMethodHS256, claims).SignedString(s.secret)
}

// Verify parses and validates a session token
func (s *SessionTokens) Verify(tokenString string) (*Claims, error) {
	if len(s.secret) == 0 {
		return nil, ErrMissingSecret
	}

	opts := []jwt.ParserOption{jwt.WithValidMethods([]string{jwt.SigningMethodHS256.Alg()})}
	if s.issuer != "" {
		opts = append(opts, jwt.WithIssuer(s.issuer))
	}

	token, err := jwt.ParseWithClaims(tokenString, &Claims{}, func(token *jwt.Token) (any, error) {
		return s.secret, nil
	}, opts...)
	if err != nil {
		switch {
		case errors.Is(err, jwt.ErrTokenExpired):
			return nil, ErrExpiredToken
		case errors.Is(err, jwt.ErrTokenNotValidYet):
			return nil, ErrTokenNotYetValid
		}
		return nil, ErrInvalidToken
	}

	claims, ok := token.Claims.(*Claims)
	if !ok || !token.Valid {
		return nil, ErrInvalidToken
	}
	if strings.TrimSpace(claims.Subject) == "" {
		return nil, ErrMissingSubject
	}
	return claims, nil
}

func optional(s string) *string {
	s = strings.TrimSpace(s)
	if s == "" {
		return nil
	}
	return &s
}
