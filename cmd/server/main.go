// backend-go/cmd/server/main.go
package main

import (
	"context"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/apodata/apodata/backend-go/internal/analytics"
	"github.com/apodata/apodata/backend-go/internal/api"
	"github.com/apodata/apodata/backend-go/internal/api/middleware"
	"github.com/apodata/apodata/backend-go/internal/cache"
	"github.com/apodata/apodata/backend-go/internal/config"
	"github.com/apodata/apodata/backend-go/internal/period"
	"github.com/apodata/apodata/backend-go/internal/repository/postgres"
	"github.com/apodata/apodata/backend-go/internal/session"
	"github.com/apodata/apodata/backend-go/pkg/logger"
	"github.com/gin-gonic/gin"
	"github.com/redis/go-redis/v9"
)

func main() {
	// Load configuration
	cfg := config.Load()

	// Initialize logger
	level := cfg.Server.LogLevel
	if level == "" {
		level = cfg.Server.Mode
	}
	logger.SetLevel(level)
	if cfg.Server.Mode == "debug" {
		gin.SetMode(gin.DebugMode)
	} else {
		gin.SetMode(gin.ReleaseMode)
	}

	ctx := context.Background()

	var redisClient *redis.Client
	if cfg.Cache.Enabled || cfg.Session.StorageDriver == config.StorageRedis {
		client, err := cache.NewRedisClient(cfg.Cache)
		if err != nil {
			logger.Log.Fatal().Err(err).Msg("Failed to connect to redis")
		}
		defer client.Close()
		redisClient = client
	}

	storage, closeStorage := newStorage(ctx, cfg, redisClient)
	defer closeStorage()

	registry := session.NewRegistry(storage, 0, session.Options{
		Location:          cfg.App.Location(),
		DefaultPreset:     defaultPreset(cfg.App.DefaultRange),
		DefaultComparison: defaultComparison(cfg.App.DefaultComparison),
	})

	var dashboards cache.DashboardCache = cache.NewNoopDashboardCache()
	if cfg.Cache.Enabled {
		dashboards = cache.NewDashboardCache(redisClient, cfg.Cache.DashboardTTLSeconds)
		// entries written by a previous catalogue must not be served
		if err := dashboards.InvalidateAll(ctx); err != nil {
			logger.Log.Warn().Err(err).Msg("Failed to invalidate dashboard cache")
		}
	}
	analyticsService := analytics.NewService(analytics.DefaultCatalogue(), dashboards, analytics.DefaultTopProducts, cfg.App.MaxRangeDays)

	router := api.NewRouter(&api.Services{
		Sessions:  registry,
		Analytics: analyticsService,
		Session: middleware.SessionConfig{
			CookieName: cfg.Session.CookieName,
			MaxAge:     cfg.Session.TTLSeconds,
			Secure:     cfg.Session.SecureCookie,
		},
	}, cfg.Server.AllowedOrigins)

	srv := &http.Server{
		Addr:         ":" + cfg.Server.Port,
		Handler:      router,
		ReadTimeout:  time.Duration(cfg.Server.ReadTimeout) * time.Second,
		WriteTimeout: time.Duration(cfg.Server.WriteTimeout) * time.Second,
	}

	// Start server in a goroutine
	go func() {
		logger.Log.Info().
			Str("port", cfg.Server.Port).
			Str("storage", cfg.Session.StorageDriver).
			Str("timezone", cfg.App.Timezone).
			Msg("Starting server")
		if err := srv.ListenAndServe(); err != nil && err != http.ErrServerClosed {
			logger.Log.Fatal().Err(err).Msg("Failed to start server")
		}
	}()

	// Wait for interrupt signal to gracefully shut down the server
	quit := make(chan os.Signal, 1)
	signal.Notify(quit, syscall.SIGINT, syscall.SIGTERM)
	<-quit
	logger.Log.Info().Msg("Shutting down server...")

	shutdownCtx, cancel := context.WithTimeout(ctx, 5*time.Second)
	defer cancel()

	if err := srv.Shutdown(shutdownCtx); err != nil {
		logger.Log.Error().Err(err).Msg("Server forced to shutdown")
	}

	logger.Log.Info().Msg("Server exiting")
}

// newStorage opens the session storage backend selected by config. The
// returned func releases it.
func newStorage(ctx context.Context, cfg *config.Config, redisClient *redis.Client) (session.Storage, func()) {
	switch cfg.Session.StorageDriver {
	case config.StorageRedis:
		return cache.NewPreferenceStore(redisClient, cfg.Session.TTL()), func() {}
	case config.StoragePostgres:
		db, err := postgres.NewDB(&cfg.Database)
		if err != nil {
			logger.Log.Fatal().Err(err).Msg("Failed to connect to database")
		}
		repo := postgres.NewPreferenceRepository(db)
		if err := repo.EnsureSchema(ctx); err != nil {
			logger.Log.Fatal().Err(err).Msg("Failed to prepare session_preferences")
		}
		return repo, func() { _ = db.Close() }
	default:
		return session.NewMemoryStorage(cfg.Session.TTL()), func() {}
	}
}

func defaultPreset(raw string) period.Preset {
	p, err := period.ParsePreset(raw)
	if err != nil || p == period.PresetCustom {
		logger.Log.Warn().Str("range", raw).Msg("invalid APP_DEFAULT_RANGE, using this_month")
		return period.DefaultPreset
	}
	return p
}

func defaultComparison(raw string) period.ComparisonType {
	t, err := period.ParseComparison(raw)
	if err != nil || t == period.ComparisonCustom {
		logger.Log.Warn().Str("range", raw).Msg("invalid APP_DEFAULT_COMPARISON, using previous_year")
		return period.DefaultComparison
	}
	return t
}
