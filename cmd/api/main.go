package main

import (
	"context"
	"log/slog"
	"os"
	"os/signal"
	"strings"
	"syscall"
	"time"

	"github.com/gofiber/contrib/otelfiber"
	"github.com/gofiber/fiber/v2"
	"github.com/gofiber/swagger"
	_ "github.com/joho/godotenv/autoload"
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/collectors"

	"facilitydocs/docs"
	"facilitydocs/internal/auth"
	"facilitydocs/internal/cache"
	"facilitydocs/internal/config"
	"facilitydocs/internal/database"
	"facilitydocs/internal/database/migration"
	"facilitydocs/internal/fetcher"
	handlers "facilitydocs/internal/http/handler"
	"facilitydocs/internal/http/middleware"
	"facilitydocs/internal/logging"
	tracing "facilitydocs/internal/otel"
	"facilitydocs/internal/repository/postgres"
	"facilitydocs/internal/retry"
	"facilitydocs/internal/service"
	"facilitydocs/internal/storage"
)

func fatal(logger *slog.Logger, msg string, err error) {
	logger.Error(msg, "error", err.Error())
	os.Exit(1)
}

// @title Facility Documents API
// @version 1.0
// @BasePath /
// @securityDefinitions.apikey BearerAuth
// @in header
// @name Authorization
func main() {
	// Load configuration from environment variables (.env auto-loaded if present)
	cfg := config.Load()
	loc := cfg.Location()
	logger := logging.Init(loc)

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	shutdownTracing, err := tracing.Init(ctx, logger)
	if err != nil {
		fatal(logger, "failed to initialize tracing", err)
	}
	defer func() {
		sctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
		defer cancel()
		_ = shutdownTracing(sctx)
	}()

	db, err := database.NewPostgres(ctx, cfg.Database)
	if err != nil {
		fatal(logger, "failed to connect to database", err)
	}
	defer db.Close()

	if err := migration.EnsureMigrated(ctx, db, logger, cfg.Database.Host); err != nil {
		fatal(logger, "failed to migrate database", err)
	}

	objStore, err := storage.NewMinIO(ctx, cfg.MinIO)
	if err != nil {
		fatal(logger, "failed to initialize object storage", err)
	}

	rdb, err := cache.NewRedisClient(ctx, cfg.Redis)
	if err != nil {
		fatal(logger, "failed to connect to redis", err)
	}
	defer rdb.Close()

	verifier, err := auth.NewVerifier(cfg.Auth.JWTSecret)
	if err != nil {
		fatal(logger, "failed to initialize token verifier", err)
	}

	docRepo := postgres.NewDocumentPostgres(db)
	facilities := service.NewFacilityService(postgres.NewFacilityPostgres(db), logging.Component(logger, "facilities"))

	store := service.NewDocumentStore(service.StoreDeps{
		Fetcher: fetcher.New(docRepo, cfg.Loader.FetchTimeout),
		Retry: retry.New(retry.Config{
			MaxAttempts: cfg.Loader.MaxAttempts,
			Step:        cfg.Loader.RetryStep,
		}, logging.Component(logger, "retry")),
		Cache: cache.NewRedisCache(rdb, cache.Options{
			Key:       cfg.Redis.Key,
			TTL:       cfg.Redis.TTL,
			Freshness: cfg.Loader.CacheFreshness,
			Logger:    logging.Component(logger, "cache"),
		}),
		Documents:  docRepo,
		Storage:    objStore,
		Facilities: facilities,
		Logger:     logging.Component(logger, "documents"),
	}, service.StoreOptions{
		ReloadDelay: cfg.Loader.ReloadDelay,
		MaxReloads:  cfg.Loader.MaxReloads,
	})
	defer store.Close()

	// Warm the library so the first reader is served from memory.
	go func() { _ = store.Load(ctx, false) }()

	reg := prometheus.NewRegistry()
	reg.MustRegister(collectors.NewGoCollector(), collectors.NewProcessCollector(collectors.ProcessCollectorOpts{}))
	promMiddleware, err := middleware.NewPrometheusMiddleware(reg)
	if err != nil {
		fatal(logger, "failed to register metrics", err)
	}

	app := fiber.New(fiber.Config{
		ErrorHandler: handlers.ErrorHandler(),
		BodyLimit:    50 * 1024 * 1024,
	})

	app.Use(otelfiber.Middleware())
	// RequestID adds/propagates X-Request-ID; Logger reads it
	app.Use(middleware.RequestID())
	app.Use(middleware.Logger(loc))
	app.Use(promMiddleware.Handler())

	// Swagger UI with dynamic host and scheme
	app.Get("/swagger/*", func(c *fiber.Ctx) error {
		scheme := c.Protocol()
		if proto := c.Get("X-Forwarded-Proto"); proto != "" {
			scheme = strings.Split(proto, ",")[0]
		}

		docs.SwaggerInfo.Host = c.Get("Host")
		docs.SwaggerInfo.Schemes = []string{scheme}

		return swagger.HandlerDefault(c)
	})

	handlers.RegisterRoutes(app, handlers.Deps{
		DB:         db,
		Documents:  store,
		Facilities: facilities,
		Verifier:   verifier,
		Limiter:    middleware.NewRateLimiter(cfg.RateLimit.PerSecond, cfg.RateLimit.Burst),
		Metrics:    reg,
	})

	go func() {
		<-ctx.Done()
		if err := app.ShutdownWithTimeout(10 * time.Second); err != nil {
			logger.Error("server shutdown failed", "error", err.Error())
		}
	}()

	addr := ":" + cfg.Port
	logger.Info("server starting", "event", "server_start", "addr", addr)
	if err := app.Listen(addr); err != nil {
		logger.Error("failed to start server", "error", err.Error())
		stop()
	}
}
