package handler

import (
	"net/http"
	"strings"
	"time"

	"github.com/gin-gonic/gin"
	appidentity "github.com/gradguide/backend/internal/application/identity"
	"github.com/gradguide/backend/internal/infrastructure/auth"
	"github.com/gradguide/backend/internal/infrastructure/config"
	"github.com/gradguide/backend/internal/infrastructure/logger"
	"github.com/gradguide/backend/internal/interfaces/http/middleware"
	"go.uber.org/zap"
)

// revocationFallbackTTL bounds the blacklist entry of a token without an expiry
const revocationFallbackTTL = 24 * time.Hour

// UserHandler serves the signed-in user and sign-out
type UserHandler struct {
	BaseHandler
	users      *appidentity.UserService
	blacklist  auth.TokenBlacklist
	cookieName string
	cookie     config.CookieConfig
}

// NewUserHandler creates a new UserHandler. blacklist may be nil.
func NewUserHandler(users *appidentity.UserService, blacklist auth.TokenBlacklist, authCfg config.AuthConfig, cookie config.CookieConfig) *UserHandler {
	return &UserHandler{
		users:      users,
		blacklist:  blacklist,
		cookieName: authCfg.CookieName,
		cookie:     cookie,
	}
}

// Current godoc
// @ID           getCurrentUser
// @Summary      Get the signed-in user
// @Tags         user
// @Produce      json
// @Success      200 {object} APIResponse[appidentity.UserDTO]
// @Failure      401 {object} ErrorResponse
// @Failure      404 {object} ErrorResponse
// @Security     BearerAuth
// @Router       /user [get]
func (h *UserHandler) Current(c *gin.Context) {
	user, err := h.users.GetUser(c.Request.Context(), middleware.GetUserID(c))
	if err != nil {
		h.HandleError(c, err)
		return
	}
	h.Success(c, user)
}

// Logout godoc
// @ID           logout
// @Summary      Sign out
// @Description  Revokes the session token until it expires and clears the session cookie
// @Tags         user
// @Produce      json
// @Success      200 {object} APIResponse[SignedOutData]
// @Failure      401 {object} ErrorResponse
// @Security     BearerAuth
// @Router       /logout [post]
func (h *UserHandler) Logout(c *gin.Context) {
	claims := middleware.GetSessionClaims(c)
	token := middleware.GetSessionToken(c)
	if claims != nil && token != "" && h.blacklist != nil {
		ttl := claims.RemainingTTL(revocationFallbackTTL)
		if ttl > 0 {
			if err := h.blacklist.AddToBlacklist(c.Request.Context(), claims.RevocationKey(token), ttl); err != nil {
				h.HandleError(c, err)
				return
			}
		}
	}

	if h.cookieName != "" {
		c.SetSameSite(sameSite(h.cookie.SameSite))
		c.SetCookie(h.cookieName, "", -1, h.cookie.Path, h.cookie.Domain, h.cookie.Secure, true)
	}

	logger.L(c.Request.Context()).Info("User signed out", zap.Bool("token_revoked", claims != nil))
	h.Success(c, SignedOutData{SignedOut: true})
}

func sameSite(mode string) http.SameSite {
	switch strings.ToLower(mode) {
	case "strict":
		return http.SameSiteStrictMode
	case "none":
		return http.SameSiteNoneMode
	default:
		return http.SameSiteLaxMode
	}
}
