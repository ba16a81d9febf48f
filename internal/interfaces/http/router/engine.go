package router

import (
	"net/http"

	"github.com/gin-gonic/gin"
	appexperience "github.com/gradguide/backend/internal/application/experience"
	appidentity "github.com/gradguide/backend/internal/application/identity"
	applawmatch "github.com/gradguide/backend/internal/application/lawmatch"
	apptracker "github.com/gradguide/backend/internal/application/tracker"
	"github.com/gradguide/backend/internal/infrastructure/auth"
	"github.com/gradguide/backend/internal/infrastructure/config"
	"github.com/gradguide/backend/internal/infrastructure/logger"
	"github.com/gradguide/backend/internal/infrastructure/telemetry"
	"github.com/gradguide/backend/internal/interfaces/http/dto"
	"github.com/gradguide/backend/internal/interfaces/http/handler"
	"github.com/gradguide/backend/internal/interfaces/http/middleware"
	swaggerFiles "github.com/swaggo/files"
	ginSwagger "github.com/swaggo/gin-swagger"
	"go.uber.org/zap"

	_ "github.com/gradguide/backend/docs"
)

// Dependencies are the services and settings the HTTP layer is built from
type Dependencies struct {
	Config  *config.Config
	Logger  *zap.Logger
	Metrics *telemetry.AppMetrics // optional
	Version string

	Users        *appidentity.UserService
	Applications *apptracker.ApplicationService
	Experiences  *appexperience.ExperienceService
	LawMatch     *applawmatch.Service

	// Tokens is required in jwt auth mode
	Tokens    *auth.SessionTokens
	Blacklist auth.TokenBlacklist

	// HealthChecks are pinged by GET /health
	HealthChecks map[string]handler.Pinger
}

// New builds the gin engine. The returned func stops the rate limiter
// janitors and must be called on shutdown.
func New(deps Dependencies) (*gin.Engine, func()) {
	cfg := deps.Config
	middleware.SetupValidator()

	engine := gin.New()
	engine.HandleMethodNotAllowed = true
	// Company names may contain an escaped slash
	engine.UseRawPath = true
	engine.UnescapePathValues = true
	if len(cfg.HTTP.TrustedProxies) > 0 {
		if err := engine.SetTrustedProxies(cfg.HTTP.TrustedProxies); err != nil {
			deps.Logger.Warn("Ignoring invalid trusted proxies", zap.Error(err))
		}
	} else {
		_ = engine.SetTrustedProxies(nil)
	}

	serviceName := cfg.Telemetry.ServiceName
	if serviceName == "" {
		serviceName = cfg.App.Name
	}

	engine.Use(middleware.RequestID())
	engine.Use(logger.Recovery(deps.Logger))
	engine.Use(logger.GinMiddleware(deps.Logger, "/health"))
	engine.Use(middleware.Tracing(middleware.TracingConfig{
		ServiceName: serviceName,
		Enabled:     cfg.Telemetry.Enabled,
	}))
	engine.Use(middleware.HTTPMetrics(deps.Metrics))
	engine.Use(middleware.Secure(middleware.DefaultSecurityConfig()))
	engine.Use(middleware.CORS(corsConfig(cfg.HTTP)))
	engine.Use(middleware.BodyLimit(cfg.HTTP.MaxBodySize))

	engine.NoRoute(func(c *gin.Context) {
		c.JSON(http.StatusNotFound, dto.NewErrorResponseWithRequestID(
			dto.ErrCodeNotFound, "Route not found", middleware.GetRequestID(c)))
	})
	engine.NoMethod(func(c *gin.Context) {
		c.JSON(http.StatusMethodNotAllowed, dto.NewErrorResponseWithRequestID(
			dto.ErrCodeBadRequest, "Method not allowed", middleware.GetRequestID(c)))
	})

	health := handler.NewHealthHandler(deps.Version, deps.HealthChecks)
	engine.GET("/health", health.Health)

	session := middleware.ResolveSession(middleware.SessionConfig{
		Auth:      cfg.Auth,
		Tokens:    deps.Tokens,
		Blacklist: deps.Blacklist,
		Users:     deps.Users,
		Logger:    deps.Logger,
	})

	swagger := []gin.HandlerFunc{middleware.SwaggerProtection(middleware.SwaggerConfig{
		Enabled:     cfg.Swagger.Enabled,
		RequireAuth: cfg.Swagger.RequireAuth,
		AllowedIPs:  cfg.Swagger.AllowedIPs,
	})}
	if cfg.Swagger.RequireAuth {
		swagger = append(swagger, session, middleware.RequireSession())
	}
	swagger = append(swagger, ginSwagger.WrapHandler(swaggerFiles.Handler))
	engine.GET(middleware.SwaggerPathPrefix+"/*any", swagger...)

	var limiters []*middleware.RateLimiter
	r := NewRouter(engine)
	if cfg.HTTP.RateLimitEnabled {
		limiters = append(limiters,
			middleware.NewRateLimiter("hour", cfg.HTTP.RateLimitRequests, cfg.HTTP.RateLimitWindow),
			middleware.NewRateLimiter("day", cfg.HTTP.DailyRateLimitRequests, cfg.HTTP.DailyRateLimitWindow),
		)
		r.Use(middleware.RateLimit(deps.Metrics, limiters...))
	}
	r.Use(session, middleware.SpanEnricher())

	registerRoutes(r, deps)
	r.Setup()

	return engine, func() {
		for _, rl := range limiters {
			rl.Close()
		}
	}
}

func registerRoutes(r *Router, deps Dependencies) {
	requireSession := middleware.RequireSession()

	applications := handler.NewApplicationHandler(deps.Applications)
	experiences := handler.NewExperienceHandler(deps.Experiences)
	users := handler.NewUserHandler(deps.Users, deps.Blacklist, deps.Config.Auth, deps.Config.Cookie)
	lawMatch := handler.NewLawMatchHandler(deps.LawMatch)

	companyRoutes := NewDomainGroup("companies", "/companies")
	companyRoutes.GET("", experiences.Companies)
	companyRoutes.GET("/:name", experiences.Company)
	r.Register(companyRoutes)

	experienceRoutes := NewDomainGroup("experiences", "/experiences")
	experienceRoutes.GET("", experiences.List)
	experienceRoutes.GET("/:id", experiences.Get)
	experienceRoutes.POST("", requireSession, experiences.Submit)
	r.Register(experienceRoutes)

	applicationRoutes := NewDomainGroup("applications", "/applications").Use(requireSession)
	applicationRoutes.GET("", applications.List)
	applicationRoutes.POST("", applications.Create)
	applicationRoutes.PUT("/:id", applications.Update)
	applicationRoutes.DELETE("/:id", applications.Delete)
	r.Register(applicationRoutes)

	userRoutes := NewDomainGroup("user", "/user").Use(requireSession)
	userRoutes.GET("", users.Current)
	userRoutes.GET("/experiences", experiences.ListMine)
	r.Register(userRoutes)

	sessionRoutes := NewDomainGroup("session", "")
	sessionRoutes.POST("/logout", requireSession, users.Logout)
	r.Register(sessionRoutes)

	lawMatchRoutes := NewDomainGroup("law-match", "")
	lawMatchRoutes.POST("/law-match", lawMatch.Match)
	lawMatchRoutes.GET("/firm-university-data", lawMatch.FirmData)
	r.Register(lawMatchRoutes)
}

func corsConfig(cfg config.HTTPConfig) middleware.CORSConfig {
	cors := middleware.DefaultCORSConfig()
	cors.AllowOrigins = cfg.CORSAllowOrigins
	if len(cfg.CORSAllowMethods) > 0 {
		cors.AllowMethods = cfg.CORSAllowMethods
	}
	if len(cfg.CORSAllowHeaders) > 0 {
		cors.AllowHeaders = cfg.CORSAllowHeaders
	}
	return cors
}
