package main

import (
	"context"
	"flag"
	"fmt"
	"net/http"
	"os"
	"os/signal"
	"syscall"

	"github.com/gin-gonic/gin"
	"github.com/prometheus/client_golang/prometheus"
	goredis "github.com/redis/go-redis/v9"
	"github.com/rs/zerolog"
	"github.com/rs/zerolog/log"
	"github.com/spf13/afero"
	"golang.org/x/time/rate"

	"github.com/jwalitptl/provider-directory/internal/config"
	"github.com/jwalitptl/provider-directory/internal/handler"
	"github.com/jwalitptl/provider-directory/internal/handler/health"
	promhandler "github.com/jwalitptl/provider-directory/internal/handler/prometheus"
	providerHandler "github.com/jwalitptl/provider-directory/internal/handler/provider"
	"github.com/jwalitptl/provider-directory/internal/handler/web"
	"github.com/jwalitptl/provider-directory/internal/middleware"
	"github.com/jwalitptl/provider-directory/internal/model"
	"github.com/jwalitptl/provider-directory/internal/repository"
	"github.com/jwalitptl/provider-directory/internal/repository/cache"
	"github.com/jwalitptl/provider-directory/internal/repository/jsonfile"
	"github.com/jwalitptl/provider-directory/internal/repository/memory"
	"github.com/jwalitptl/provider-directory/internal/repository/postgres"
	redisRepo "github.com/jwalitptl/provider-directory/internal/repository/redis"
	"github.com/jwalitptl/provider-directory/internal/router"
	providerService "github.com/jwalitptl/provider-directory/internal/service/provider"
	"github.com/jwalitptl/provider-directory/pkg/logger"
	"github.com/jwalitptl/provider-directory/pkg/messaging"
	"github.com/jwalitptl/provider-directory/pkg/messaging/redis"
	"github.com/jwalitptl/provider-directory/pkg/metrics"
	"github.com/jwalitptl/provider-directory/pkg/validator"
)

func main() {
	configFile := flag.String("config", "", "path to a config file")
	flag.Parse()

	// Load configuration
	cfg, err := config.LoadConfig(*configFile)
	if err != nil {
		log.Fatal().Err(err).Msg("failed to load configuration")
	}

	l := logger.New(logger.Config{Level: cfg.Log.Level, Format: cfg.Log.Format})
	gin.SetMode(gin.ReleaseMode)

	if err := validator.RegisterBinding(); err != nil {
		l.Fatal().Err(err).Msg("failed to configure request validation")
	}

	ctx := context.Background()

	registry := prometheus.NewRegistry()
	m := metrics.NewMetrics(cfg.Metrics.Namespace, registry)

	// Redis serves both the redis store and the event broker.
	var redisClient *goredis.Client
	if cfg.Store.Backend == config.BackendRedis || cfg.Events.Enabled {
		redisClient, err = redis.NewClient(ctx, redisConfig(cfg.Redis))
		if err != nil {
			l.Fatal().Err(err).Msg("failed to connect to Redis")
		}
		defer redisClient.Close()
	}

	repo, closeRepo, err := openRepository(ctx, cfg, redisClient)
	if err != nil {
		l.Fatal().Err(err).Str("backend", cfg.Store.Backend).Msg("failed to open provider store")
	}
	defer closeRepo()

	if cfg.Store.Seed {
		if err := seed(ctx, repo, l); err != nil {
			l.Fatal().Err(err).Msg("failed to seed provider store")
		}
	}

	if cfg.Store.CacheTTL > 0 {
		repo = cache.NewProviderRepository(repo, cfg.Store.CacheTTL, 2*cfg.Store.CacheTTL)
	}
	repo = repository.Instrument(repo, m, cfg.Store.Backend)

	// Initialize event publisher
	var publisher messaging.Publisher = messaging.NopPublisher{}
	if cfg.Events.Enabled {
		broker := redis.NewRedisBrokerWithClient(redisClient, l)
		defer broker.Close()
		publisher = messaging.NewChannelPublisher(broker, cfg.Events.Channel, m)
	}

	// Initialize services
	providerSvc := providerService.NewService(repo, publisher, l)

	// Initialize handlers
	responder := &handler.Responder{Legacy: cfg.Server.LegacyStatus, Logger: l}
	apiHandler := providerHandler.NewHandler(providerSvc, responder)
	healthHandler := health.NewHandler(repo, l)

	var webHandler router.Handler
	if cfg.Web.Enabled {
		webHandler = web.NewHandler(providerSvc)
	}
	var metricsHandler router.MetricsHandler
	if cfg.Metrics.Enabled {
		metricsHandler = promhandler.New(cfg.Metrics.Namespace, registry)
	}

	corsConfig := middleware.DefaultCORSConfig()
	corsConfig.AllowOrigins = cfg.CORS.AllowedOrigins

	// Setup router
	r := router.NewRouter(apiHandler, healthHandler, webHandler, metricsHandler, router.RouterConfig{
		RateLimitEnabled: cfg.RateLimit.Enabled,
		RateLimit:        rate.Limit(cfg.RateLimit.RequestsPerSecond),
		RateBurst:        cfg.RateLimit.Burst,
		CORSConfig:       corsConfig,
		MaxBodyBytes:     cfg.Server.MaxBodyBytes,
		Logger:           l,
	}).WithTemplates(func(e *gin.Engine) { e.SetHTMLTemplate(web.Templates()) })
	r.Setup()

	// Create server
	srv := &http.Server{
		Addr:         fmt.Sprintf(":%d", cfg.Server.Port),
		Handler:      r.Engine(),
		ReadTimeout:  cfg.Server.ReadTimeout,
		WriteTimeout: cfg.Server.WriteTimeout,
	}

	// Start server
	go func() {
		l.Info().Str("addr", srv.Addr).Str("backend", cfg.Store.Backend).Msg("starting server")
		if err := srv.ListenAndServe(); err != nil && err != http.ErrServerClosed {
			l.Fatal().Err(err).Msg("failed to start server")
		}
	}()

	// Wait for interrupt signal to gracefully shutdown the server
	quit := make(chan os.Signal, 1)
	signal.Notify(quit, syscall.SIGINT, syscall.SIGTERM)
	<-quit
	l.Info().Msg("shutting down server...")

	shutdownCtx, cancel := context.WithTimeout(context.Background(), cfg.Server.ShutdownTimeout)
	defer cancel()
	if err := srv.Shutdown(shutdownCtx); err != nil {
		l.Error().Err(err).Msg("server forced to shutdown")
		return
	}

	l.Info().Msg("server exited properly")
}

// openRepository builds the configured backend. The returned func releases
// whatever connection the backend holds.
func openRepository(ctx context.Context, cfg *config.Config, redisClient *goredis.Client) (repository.ProviderRepository, func(), error) {
	noop := func() {}

	switch cfg.Store.Backend {
	case config.BackendFile:
		return jsonfile.NewProviderRepository(afero.NewOsFs(), cfg.Store.FilePath), noop, nil

	case config.BackendPostgres:
		db, err := postgres.NewDB(cfg.Database)
		if err != nil {
			return nil, nil, err
		}
		if err := postgres.EnsureSchema(ctx, db); err != nil {
			db.Close()
			return nil, nil, err
		}
		return postgres.NewProviderRepository(db), func() { db.Close() }, nil

	case config.BackendRedis:
		return redisRepo.NewProviderRepository(redisClient, cfg.Redis.KeyPrefix), noop, nil

	default:
		return memory.NewProviderRepository(), noop, nil
	}
}

// seed loads the bundled directory entries into an empty store.
func seed(ctx context.Context, repo repository.ProviderRepository, l zerolog.Logger) error {
	existing, err := repo.List(ctx)
	if err != nil {
		return fmt.Errorf("failed to list providers: %w", err)
	}
	if len(existing) > 0 {
		return nil
	}

	providers := model.SeedProviders()
	for _, p := range providers {
		if err := repo.Put(ctx, p); err != nil {
			return fmt.Errorf("failed to seed provider %s: %w", p.ProviderID, err)
		}
	}
	l.Info().Int("count", len(providers)).Msg("seeded provider store")
	return nil
}

func redisConfig(c config.RedisConfig) redis.Config {
	return redis.Config{
		URL:          c.URL,
		MaxRetries:   c.MaxRetries,
		RetryBackoff: c.RetryBackoff,
		PoolSize:     c.PoolSize,
		MinIdleConns: c.MinIdleConns,
	}
}
