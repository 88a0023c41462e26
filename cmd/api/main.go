// AngelaMos | 2026
// main.go

package main

import (
	"context"
	"flag"
	"io"
	"log/slog"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/go-chi/chi/v5"
	chimw "github.com/go-chi/chi/v5/middleware"
	"github.com/joho/godotenv"
	"github.com/prometheus/client_golang/prometheus/promhttp"
	_ "go.uber.org/automaxprocs"
	"gopkg.in/natefinch/lumberjack.v2"

	"github.com/ewastex/marketplace-api/internal/access"
	"github.com/ewastex/marketplace-api/internal/admin"
	"github.com/ewastex/marketplace-api/internal/auth"
	"github.com/ewastex/marketplace-api/internal/config"
	"github.com/ewastex/marketplace-api/internal/core"
	"github.com/ewastex/marketplace-api/internal/health"
	"github.com/ewastex/marketplace-api/internal/interest"
	"github.com/ewastex/marketplace-api/internal/listing"
	"github.com/ewastex/marketplace-api/internal/message"
	"github.com/ewastex/marketplace-api/internal/middleware"
	"github.com/ewastex/marketplace-api/internal/server"
	"github.com/ewastex/marketplace-api/internal/stats"
	"github.com/ewastex/marketplace-api/internal/user"
)

const (
	drainDelay  = 5 * time.Second
	cachePrefix = "ewastex"
)

func main() {
	configPath := flag.String("config", "", "path to optional YAML config file")
	flag.Parse()

	//nolint:errcheck // .env is optional outside development
	_ = godotenv.Load()

	if err := run(*configPath); err != nil {
		slog.Error("application error", "error", err)
		os.Exit(1)
	}
}

//nolint:funlen // bootstrap code is inherently verbose
func run(configPath string) error {
	ctx, stop := signal.NotifyContext(
		context.Background(),
		syscall.SIGINT,
		syscall.SIGTERM,
	)
	defer stop()

	cfg, err := config.Load(configPath)
	if err != nil {
		return err
	}

	logger, closeLog := setupLogger(cfg.Log)
	defer closeLog()
	slog.SetDefault(logger)

	logger.Info("starting application",
		"name", cfg.App.Name,
		"version", cfg.App.Version,
		"environment", cfg.App.Environment,
	)

	var telemetry *core.Telemetry
	if cfg.Otel.Enabled {
		tel, telErr := core.NewTelemetry(ctx, cfg.Otel, cfg.App)
		if telErr != nil {
			logger.Warn("failed to initialize telemetry", "error", telErr)
		} else {
			telemetry = tel
			logger.Info("OpenTelemetry tracer initialized",
				"endpoint", cfg.Otel.Endpoint,
			)
		}
	}

	db, err := core.NewDatabase(ctx, cfg.Database)
	if err != nil {
		return err
	}
	logger.Info("database connected",
		"max_open_conns", cfg.Database.MaxOpenConns,
		"max_idle_conns", cfg.Database.MaxIdleConns,
	)

	if cfg.Database.AutoMigrate {
		if err := core.Migrate(ctx, db.DB); err != nil {
			return err
		}
		logger.Info("database schema up to date")
	}

	rdb, err := core.NewRedis(ctx, cfg.Redis)
	if err != nil {
		return err
	}
	logger.Info("redis connected",
		"pool_size", cfg.Redis.PoolSize,
	)

	jwtManager, err := auth.NewJWTManager(cfg.JWT)
	if err != nil {
		return err
	}
	logger.Info("session token manager initialized",
		"algorithm", "HS256",
		"ttl", cfg.JWT.SessionTTL,
	)

	userRepo := user.NewRepository(db.DB)
	userSvc := user.NewService(userRepo)
	userHandler := user.NewHandler(userSvc)

	authSvc := auth.NewService(jwtManager, userSvc, rdb.Raw())
	authHandler := auth.NewHandler(authSvc, cfg.Cookie, cfg.JWT.SessionTTL)

	listingRepo := listing.NewRepository(db.DB)
	listingSvc := listing.NewService(listingRepo)
	listingHandler := listing.NewHandler(listingSvc)

	interestSvc := interest.NewService(interest.NewRepository(db.DB), listingRepo)
	interestHandler := interest.NewHandler(interestSvc)

	messageSvc := message.NewService(message.NewRepository(db.DB))
	messageHandler := message.NewHandler(messageSvc)

	statsSvc := stats.NewService(
		stats.NewRepository(db.DB),
		core.NewCache(rdb.Raw(), cachePrefix),
		cfg.Stats.PublicCacheTTL,
	)
	statsHandler := stats.NewHandler(statsSvc)

	healthHandler := health.NewHandler(
		health.Dependency{Name: "database", Checker: db},
		health.Dependency{Name: "redis", Checker: rdb, Optional: true},
	)

	adminHandler := admin.NewHandler(admin.HandlerConfig{
		Marketplace: statsSvc,
		DBStats:     db.Stats,
		RedisStats:  rdb.PoolStats,
		DBPing:      db.Ping,
		RedisPing:   rdb.Ping,
	})

	srv := server.New(server.Config{
		ServerConfig:  cfg.Server,
		HealthHandler: healthHandler,
		Logger:        logger,
	})

	router := srv.Router()

	router.Use(middleware.RequestID)
	router.Use(chimw.RealIP)
	router.Use(chimw.Recoverer)
	router.Use(middleware.Logger(logger))
	router.Use(middleware.Metrics)
	router.Use(middleware.SecurityHeaders(cfg.IsProduction()))
	router.Use(middleware.CORS(cfg.CORS))
	router.Use(middleware.ConcurrencyLimit(cfg.Server.MaxInFlight))

	healthHandler.RegisterRoutes(router)

	if cfg.Metrics.Enabled {
		router.Handle(cfg.Metrics.Path, promhttp.Handler())
	}

	authenticator := middleware.Authenticator(authSvc, cfg.Cookie.Name)
	optionalAuth := middleware.OptionalAuth(authSvc, cfg.Cookie.Name)
	adminOnly := middleware.RequireAdmin
	sellerOnly := middleware.RequireRole(access.RoleSeller)
	buyerOnly := middleware.RequireRole(access.RoleBuyer)

	credentialLimiter := middleware.NewRateLimiter(rdb.Raw(), middleware.RateLimitConfig{
		Limit: middleware.Per(
			cfg.RateLimit.Requests,
			cfg.RateLimit.Burst,
			cfg.RateLimit.Window,
		),
		KeyFunc:  func(r *http.Request) string { return "auth:" + middleware.KeyByIP(r) },
		FailOpen: true,
	})

	router.Route("/api", func(r chi.Router) {
		r.Use(optionalAuth)
		r.Use(middleware.RoleRateLimiter(rdb.Raw(), middleware.DefaultRoleLimits))

		r.Group(func(r chi.Router) {
			r.Use(credentialLimiter.Handler)
			authHandler.RegisterRoutes(r, authenticator)
		})

		userHandler.RegisterRoutes(r, authenticator)
		userHandler.RegisterAdminRoutes(r, authenticator, adminOnly)
		listingHandler.RegisterRoutes(r, authenticator, optionalAuth, sellerOnly)
		interestHandler.RegisterRoutes(r, authenticator, buyerOnly, sellerOnly)
		messageHandler.RegisterRoutes(r, authenticator)
		statsHandler.RegisterRoutes(r, authenticator)
		adminHandler.RegisterRoutes(r, authenticator, adminOnly)
	})

	errChan := make(chan error, 1)
	go func() {
		errChan <- srv.Start()
	}()

	select {
	case err := <-errChan:
		return err
	case <-ctx.Done():
		logger.Info("shutdown signal received")
	}

	shutdownCtx, cancel := context.WithTimeout(
		context.Background(),
		cfg.Server.ShutdownTimeout+drainDelay+5*time.Second,
	)
	defer cancel()

	if err := srv.Shutdown(shutdownCtx, drainDelay); err != nil {
		logger.Error("server shutdown error", "error", err)
	}

	if telemetry != nil {
		if err := telemetry.Shutdown(shutdownCtx); err != nil {
			logger.Error("telemetry shutdown error", "error", err)
		}
	}

	if err := rdb.Close(); err != nil {
		logger.Error("redis close error", "error", err)
	}

	if err := db.Close(); err != nil {
		logger.Error("database close error", "error", err)
	}

	logger.Info("application stopped")
	return nil
}

// setupLogger writes to stdout and, when log.file is set, tees into a
// size-rotated file. The returned func closes the file sink.
func setupLogger(cfg config.LogConfig) (*slog.Logger, func()) {
	level := slog.LevelInfo
	switch cfg.Level {
	case "debug":
		level = slog.LevelDebug
	case "warn":
		level = slog.LevelWarn
	case "error":
		level = slog.LevelError
	}

	opts := &slog.HandlerOptions{Level: level}

	var out io.Writer = os.Stdout
	closeFn := func() {}

	if cfg.File != "" {
		rotator := &lumberjack.Logger{
			Filename:   cfg.File,
			MaxSize:    cfg.MaxSizeMB,
			MaxBackups: cfg.MaxBackups,
			MaxAge:     cfg.MaxAgeDays,
			Compress:   true,
		}
		out = io.MultiWriter(os.Stdout, rotator)
		//nolint:errcheck // best-effort flush on exit
		closeFn = func() { _ = rotator.Close() }
	}

	var handler slog.Handler
	if cfg.Format == "json" {
		handler = slog.NewJSONHandler(out, opts)
	} else {
		handler = slog.NewTextHandler(out, opts)
	}

	return slog.New(handler), closeFn
}
