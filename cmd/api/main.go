// Package main is the entrypoint for the Bookshelf API server.
package main

import (
	"context"
	"errors"
	"log/slog"
	"net/http"
	"net/url"
	"os"
	"strings"

	"github.com/bookshelf/bookshelf/internal/cache"
	"github.com/bookshelf/bookshelf/internal/config"
	"github.com/bookshelf/bookshelf/internal/handler"
	"github.com/bookshelf/bookshelf/internal/metrics"
	"github.com/bookshelf/bookshelf/internal/middleware"
	"github.com/bookshelf/bookshelf/internal/reconcile"
	"github.com/bookshelf/bookshelf/internal/repository"
	"github.com/bookshelf/bookshelf/internal/server"
	"github.com/bookshelf/bookshelf/internal/service"
)

// listenAddr is fixed by the API contract.
const listenAddr = ":3000"

func main() {
	ctx := context.Background()

	// Load configuration; a missing MONGO_URL is fatal.
	cfg, err := config.Load()
	if err != nil {
		slog.Error("failed to load config", "error", err)
		os.Exit(1)
	}

	logger := initLogger(cfg)

	// Initialize database
	repo, err := repository.New(ctx, cfg.MongoURL, cfg.MongoDB)
	if err != nil {
		logger.Error(
			"failed to connect to database",
			slog.String("error", sanitizeError(err, cfg.MongoURL)),
			slog.String("mongo_url", redactURL(cfg.MongoURL)),
		)
		os.Exit(1)
	}
	defer repo.Close()
	logger.Info("connected to database", "db", cfg.MongoDB)

	if err := repo.EnsureIndexes(ctx); err != nil {
		logger.Error("failed to ensure indexes", "error", err)
		os.Exit(1)
	}

	// Initialize cache (optional)
	var cacheClient *cache.Cache
	if cfg.RedisURL != "" {
		cacheClient, err = cache.New(ctx, cfg.RedisURL)
		if err != nil {
			logger.Error(
				"failed to connect to Redis",
				slog.String("error", sanitizeError(err, cfg.RedisURL)),
				slog.String("redis_url", redactURL(cfg.RedisURL)),
			)
			os.Exit(1)
		}
		defer cacheClient.Close()
		logger.Info("connected to Redis")
	} else {
		logger.Info("book cache disabled (REDIS_URL not set)")
	}

	// Initialize services
	recorder := metrics.NewInMemory()
	userService := service.NewUserService(repo, recorder)
	bookService := service.NewBookService(repo, cacheClient, logger, recorder)

	// Initialize handlers
	h := handler.New()
	userHandler := handler.NewUserHandler(userService, logger)
	bookHandler := handler.NewBookHandler(bookService, logger)
	healthHandler := handler.NewHealthHandler(repo, cacheChecker(cacheClient))
	metricsHandler := handler.NewMetricsHandler(recorder)

	// Setup router with the global middleware chain
	mws := []func(http.Handler) http.Handler{
		middleware.RequestID,
		middleware.Logger(logger),
		middleware.Recoverer(logger),
	}
	if origins := cfg.GetCORSAllowedOrigins(); len(origins) > 0 {
		corsCfg := middleware.DefaultCORSConfig()
		corsCfg.AllowedOrigins = origins
		mws = append(mws, middleware.CORS(corsCfg))
	}
	r := handler.NewRouter(h, userHandler, bookHandler, healthHandler, metricsHandler, mws...)

	// Create server
	srv := server.New(
		r,
		listenAddr,
		cfg.ReadTimeout,
		cfg.WriteTimeout,
		cfg.ShutdownTimeout,
		logger,
	)

	// Start the dangling-reference reconciler
	if cfg.ReconcileEnabled {
		worker := reconcile.NewWorker(repo, logger, recorder, cfg.ReconcileInterval)
		go func() {
			if err := worker.Run(ctx); err != nil && !errors.Is(err, context.Canceled) {
				logger.Error("reconcile worker exited", "error", err)
			}
		}()
		srv.OnShutdown("reconcile-worker", worker.Shutdown)
	}

	logger.Info("starting server",
		"addr", srv.Addr(),
		"env", cfg.AppEnv,
	)

	if err := srv.Run(); err != nil {
		logger.Error("server error", "error", err)
		os.Exit(1)
	}
}

// cacheChecker avoids handing a typed nil to the health handler.
func cacheChecker(c *cache.Cache) handler.HealthChecker {
	if c == nil {
		return nil
	}
	return c
}

// initLogger initializes the slog logger based on configuration.
func initLogger(cfg *config.Config) *slog.Logger {
	var h slog.Handler

	opts := &slog.HandlerOptions{
		Level: parseLogLevel(cfg.LogLevel),
	}

	if cfg.ResolvedLogFormat() == "json" {
		h = slog.NewJSONHandler(os.Stdout, opts)
	} else {
		h = slog.NewTextHandler(os.Stdout, opts)
	}

	logger := slog.New(h)
	slog.SetDefault(logger)

	return logger
}

// parseLogLevel converts a string log level to slog.Level.
func parseLogLevel(level string) slog.Level {
	switch level {
	case "debug":
		return slog.LevelDebug
	case "info":
		return slog.LevelInfo
	case "warn":
		return slog.LevelWarn
	case "error":
		return slog.LevelError
	default:
		return slog.LevelInfo
	}
}

// redactURL strips credentials from a connection URL for logging.
func redactURL(raw string) string {
	if raw == "" {
		return ""
	}

	parsed, err := url.Parse(raw)
	if err != nil {
		return "[redacted]"
	}

	if parsed.User != nil {
		username := parsed.User.Username()
		if username == "" {
			parsed.User = url.User("redacted")
		} else {
			parsed.User = url.User(username)
		}
	}

	return parsed.String()
}

// sanitizeError removes connection secrets from an error message.
func sanitizeError(err error, secrets ...string) string {
	if err == nil {
		return ""
	}

	msg := err.Error()
	for _, secret := range secrets {
		if secret == "" {
			continue
		}
		redacted := redactURL(secret)
		if redacted == "" {
			redacted = "[redacted]"
		}
		msg = strings.ReplaceAll(msg, secret, redacted)
	}

	return msg
}
