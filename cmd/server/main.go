package main

import (
	"context"
	"errors"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/gin-gonic/gin"
	appexperience "github.com/gradguide/backend/internal/application/experience"
	appidentity "github.com/gradguide/backend/internal/application/identity"
	applawmatch "github.com/gradguide/backend/internal/application/lawmatch"
	apptracker "github.com/gradguide/backend/internal/application/tracker"
	"github.com/gradguide/backend/internal/domain/lawmatch"
	"github.com/gradguide/backend/internal/infrastructure/auth"
	"github.com/gradguide/backend/internal/infrastructure/cache"
	"github.com/gradguide/backend/internal/infrastructure/config"
	"github.com/gradguide/backend/internal/infrastructure/logger"
	"github.com/gradguide/backend/internal/infrastructure/migration"
	"github.com/gradguide/backend/internal/infrastructure/persistence"
	"github.com/gradguide/backend/internal/infrastructure/telemetry"
	"github.com/gradguide/backend/internal/interfaces/http/handler"
	"github.com/gradguide/backend/internal/interfaces/http/router"
	"go.uber.org/zap"
)

// version is overridden at build time with -ldflags "-X main.version=..."
var version = "dev"

//	@title			GradGuide API
//	@version		1.0
//	@description	Job application tracking and graduate experience sharing

//	@host		localhost:8080
//	@BasePath	/api

//	@securityDefinitions.apikey	BearerAuth
//	@in							header
//	@name						Authorization
//	@description				Session token issued by the identity provider. Format: "Bearer {token}"

func main() {
	cfg, err := config.Load()
	if err != nil {
		panic("Failed to load configuration: " + err.Error())
	}

	logCfg := &logger.Config{
		Level:      cfg.Log.Level,
		Format:     cfg.Log.Format,
		Output:     cfg.Log.Output,
		TimeFormat: "2006-01-02T15:04:05.000Z07:00",
	}
	log, err := logger.New(logCfg)
	if err != nil {
		panic("Failed to initialize logger: " + err.Error())
	}

	ctx := context.Background()
	tel, err := telemetry.Setup(ctx, cfg.Telemetry, log)
	if err != nil {
		log.Fatal("Failed to initialize telemetry", zap.Error(err))
	}
	defer func() {
		shutdownCtx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
		defer cancel()
		if err := tel.Shutdown(shutdownCtx); err != nil {
			log.Error("Error shutting down telemetry", zap.Error(err))
		}
	}()
	if tel.Logs.IsEnabled() {
		// tee application logs to the OTLP exporter
		if teed, err := logger.New(logCfg, logger.WithCore(tel.Logs.ZapCore(logger.ParseLevel(cfg.Log.Level)))); err == nil {
			log = teed
		}
	}
	defer func() {
		_ = log.Sync()
	}()

	log.Info("Starting GradGuide backend",
		zap.String("app", cfg.App.Name),
		zap.String("env", cfg.App.Env),
		zap.String("port", cfg.App.Port),
		zap.String("version", version),
		zap.String("auth_mode", cfg.Auth.Mode),
	)

	gormLog := logger.NewGormLogger(log, logger.MapGormLogLevel(cfg.Log.Level),
		logger.WithSlowThreshold(cfg.Telemetry.DBSlowQueryThresh))
	db, err := persistence.NewDatabaseWithCustomLogger(&cfg.Database, gormLog)
	if err != nil {
		log.Fatal("Failed to connect to database", zap.Error(err))
	}
	defer func() {
		if err := db.Close(); err != nil {
			log.Error("Error closing database", zap.Error(err))
		}
	}()
	if err := tel.InstrumentDB(db.DB); err != nil {
		log.Warn("Database tracing disabled", zap.Error(err))
	}
	log.Info("Database connected successfully")

	if cfg.Database.AutoMigrate {
		if err := migrate(db, log); err != nil {
			log.Fatal("Failed to apply migrations", zap.Error(err))
		}
	}

	stores, err := cache.NewFactory(cfg.Redis, cfg.Cache, cache.WithLogger(log)).Create(ctx)
	if err != nil {
		log.Fatal("Failed to initialize caches", zap.Error(err))
	}
	defer func() {
		if err := stores.Close(); err != nil {
			log.Error("Error closing caches", zap.Error(err))
		}
	}()

	userRepo := persistence.NewGormUserRepository(db.DB)
	applicationRepo := persistence.NewGormApplicationRepository(db.DB)
	submissionRepo := persistence.NewGormSubmissionRepository(db.DB)

	userService := appidentity.NewUserService(userRepo, log)
	applicationService := apptracker.NewApplicationService(applicationRepo, tel.Metrics, log)
	experienceService := appexperience.NewExperienceService(submissionRepo, log,
		appexperience.WithIdempotency(stores.Idempotency, cfg.Cache.IdempotencyTTL),
		appexperience.WithSummaryCache(stores.Companies),
		appexperience.WithMetrics(tel.Metrics),
	)
	lawMatchService := applawmatch.NewService(lawmatch.NewDefaultMatcher(), tel.Metrics, log)

	checks := map[string]handler.Pinger{"database": db}
	if rdb := stores.Redis(); rdb != nil {
		checks["redis"] = handler.PingFunc(func(ctx context.Context) error {
			return rdb.Ping(ctx).Err()
		})
	}

	if cfg.IsProduction() {
		gin.SetMode(gin.ReleaseMode)
	}

	engine, closeRouter := router.New(router.Dependencies{
		Config:       cfg,
		Logger:       log,
		Metrics:      tel.Metrics,
		Version:      version,
		Users:        userService,
		Applications: applicationService,
		Experiences:  experienceService,
		LawMatch:     lawMatchService,
		Tokens:       auth.NewSessionTokens(cfg.Auth),
		Blacklist:    stores.Blacklist,
		HealthChecks: checks,
	})
	defer closeRouter()

	srv := &http.Server{
		Addr:           ":" + cfg.App.Port,
		Handler:        engine,
		ReadTimeout:    cfg.HTTP.ReadTimeout,
		WriteTimeout:   cfg.HTTP.WriteTimeout,
		IdleTimeout:    cfg.HTTP.IdleTimeout,
		MaxHeaderBytes: cfg.HTTP.MaxHeaderBytes,
	}

	go func() {
		log.Info("Server starting", zap.String("addr", srv.Addr))
		if err := srv.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			log.Fatal("Failed to start server", zap.Error(err))
		}
	}()

	quit := make(chan os.Signal, 1)
	signal.Notify(quit, syscall.SIGINT, syscall.SIGTERM)
	<-quit
	log.Info("Shutting down server...")

	shutdownCtx, cancel := context.WithTimeout(context.Background(), cfg.HTTP.ShutdownTimeout)
	defer cancel()

	if err := srv.Shutdown(shutdownCtx); err != nil {
		log.Error("Server forced to shutdown", zap.Error(err))
		return
	}

	log.Info("Server exited gracefully")
}

func migrate(db *persistence.Database, log *zap.Logger) error {
	sqlDB, err := db.DB.DB()
	if err != nil {
		return err
	}
	m, err := migration.New(sqlDB, migration.WithLogger(log))
	if err != nil {
		return err
	}
	// closing the migrator would close the shared pool
	return m.Up()
}
