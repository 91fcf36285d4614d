package app

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/collectors"

	httpapi "github.com/aussiebroadwan/ticketcheater/internal/auth/http"
	"github.com/aussiebroadwan/ticketcheater/internal/auth/metrics"
	"github.com/aussiebroadwan/ticketcheater/internal/auth/service"
	"github.com/aussiebroadwan/ticketcheater/internal/auth/store/drivers/redis"
	"github.com/aussiebroadwan/ticketcheater/internal/auth/store/drivers/sqlite"
	"github.com/aussiebroadwan/ticketcheater/pkg/cryptox"
	"github.com/aussiebroadwan/ticketcheater/pkg/jwtx"
	"github.com/aussiebroadwan/ticketcheater/pkg/slogx"
)

const (
	// BuildVersion is reported by /livez, /readyz and the logger. Release
	// builds are expected to stamp it through -ldflags.
	BuildVersion = "v0.1.0"
)

// Application encapsulates the ticketcheater service with all its dependencies
type Application struct {
	cfg    Config
	logger *slog.Logger

	// Core dependencies
	db       *sqlite.Store
	cache    *redis.Cache
	keys     jwtx.KeyConfig
	registry *prometheus.Registry
	metrics  *metrics.Metrics

	// Services
	tokenService  *service.TokenService
	userService   *service.UserService
	gameService   *service.GameService
	authenticator *service.Authenticator

	// HTTP server
	server *http.Server
	router *httpapi.Router
}

// New creates a new Application instance with all dependencies initialized
func New(cfg Config) (*Application, error) {
	app := &Application{
		cfg: cfg,
		logger: slogx.New(slogx.Config{
			Service: "ticketcheater",
			Version: BuildVersion,
			Env:     cfg.Env,
			Level:   cfg.LogLevel,
			Format:  cfg.LogFormat,
		}),
	}

	keys, err := InitKeys(cfg, app.logger)
	if err != nil {
		return nil, err
	}
	app.keys = keys

	if err := cryptox.LoadPepper(cfg.PepperFile); err != nil {
		return nil, fmt.Errorf("failed to load pepper: %w", err)
	}

	if err := app.initDatabase(); err != nil {
		return nil, err
	}

	if err := app.initCache(); err != nil {
		_ = app.db.Close()
		return nil, err
	}

	app.initMetrics()
	app.initServices()

	if err := app.bootstrapAdmin(); err != nil {
		app.closeStores()
		return nil, err
	}

	app.initHTTP()

	return app, nil
}

// Handler exposes the fully wired router, mostly for tests that drive the
// application without a listener.
func (app *Application) Handler() http.Handler {
	return app.router
}

// Run starts the application and blocks until shutdown is requested
func (app *Application) Run() error {
	app.logger.Info("ticketcheater starting", "port", app.cfg.Port, "version", BuildVersion)

	// Start server in a goroutine
	serverErrors := make(chan error, 1)
	go func() {
		serverErrors <- app.server.ListenAndServe()
	}()

	// Setup signal handling for graceful shutdown
	shutdown := make(chan os.Signal, 1)
	signal.Notify(shutdown, os.Interrupt, syscall.SIGTERM)

	// Block until we receive a shutdown signal or server error
	select {
	case err := <-serverErrors:
		if err != nil && !errors.Is(err, http.ErrServerClosed) {
			app.closeStores()
			return fmt.Errorf("server failed: %w", err)
		}
	case sig := <-shutdown:
		app.logger.Info("shutdown signal received", "signal", sig)

		if err := app.Shutdown(); err != nil {
			return fmt.Errorf("graceful shutdown failed: %w", err)
		}
	}

	return nil
}

// Shutdown gracefully shuts down the application
func (app *Application) Shutdown() error {
	app.logger.Info("shutting down ticketcheater...")

	// Give outstanding requests a deadline for completion
	ctx, cancel := context.WithTimeout(context.Background(), app.cfg.ShutdownGracePeriod)
	defer cancel()

	if err := app.server.Shutdown(ctx); err != nil {
		app.logger.Error("graceful server shutdown failed", "error", err)
		if err := app.server.Close(); err != nil {
			app.logger.Error("error closing server", "error", err)
		}
	}

	if err := app.cache.Close(); err != nil {
		app.logger.Error("error closing cache", "error", err)
	}

	if err := app.db.Close(); err != nil {
		app.logger.Error("error closing database", "error", err)
		return err
	}

	app.logger.Info("ticketcheater stopped")
	return nil
}

func (app *Application) closeStores() {
	if app.cache != nil {
		_ = app.cache.Close()
	}
	if app.db != nil {
		_ = app.db.Close()
	}
}

// initDatabase initializes the database and applies migrations
func (app *Application) initDatabase() error {
	host := fmt.Sprintf("file:%s?_busy_timeout=5000&_journal_mode=WAL", app.cfg.DatabaseFile)
	db, err := sqlite.NewStore(host)
	if err != nil {
		return fmt.Errorf("failed to initialize database: %w", err)
	}
	app.db = db

	if err := db.ApplyMigrations(); err != nil {
		_ = db.Close()
		return fmt.Errorf("failed to apply database migrations: %w", err)
	}

	app.logger.Info("database migrations applied successfully")
	return nil
}

// initCache connects to redis. A cache that is down at startup is fatal;
// later outages surface per request as CACHE_UNAVAILABLE.
func (app *Application) initCache() error {
	ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer cancel()

	cache, err := redis.Open(ctx, redis.Config{
		Addr:      app.cfg.RedisAddr,
		Password:  app.cfg.RedisPassword,
		DB:        app.cfg.RedisDB,
		OpTimeout: app.cfg.CacheTimeout,
	})
	if err != nil {
		return fmt.Errorf("failed to connect to redis at %s: %w", app.cfg.RedisAddr, err)
	}
	app.cache = cache

	app.logger.Info("redis connected", "addr", app.cfg.RedisAddr, "db", app.cfg.RedisDB)
	return nil
}

func (app *Application) initMetrics() {
	app.registry = prometheus.NewRegistry()
	app.registry.MustRegister(
		collectors.NewGoCollector(),
		collectors.NewProcessCollector(collectors.ProcessCollectorOpts{}),
	)
	app.metrics = metrics.New(app.registry)
}

// initServices initializes all business logic services
func (app *Application) initServices() {
	codec := jwtx.NewCodec()

	app.tokenService = &service.TokenService{
		Codec:   codec,
		Keys:    app.keys,
		Cache:   app.cache,
		Metrics: app.metrics,
	}

	app.userService = &service.UserService{
		Store:     app.db,
		Passwords: cryptox.Argon2Verifier{},
		Tokens:    app.tokenService,
		Cache:     app.cache,
		CacheTTL:  app.cfg.UserCacheTTL,
	}

	app.gameService = &service.GameService{Store: app.db}

	app.authenticator = &service.Authenticator{
		Codec:   codec,
		Keys:    app.keys,
		Users:   app.userService,
		Metrics: app.metrics,
	}
}

// bootstrapAdmin makes sure the admin routes have someone who can use them.
func (app *Application) bootstrapAdmin() error {
	password := app.cfg.AdminPassword
	generated := false
	if password == "" {
		p, err := cryptox.GeneratePassword()
		if err != nil {
			return fmt.Errorf("failed to generate admin password: %w", err)
		}
		password, generated = p, true
	}

	ctx := slogx.WithContext(context.Background(), app.logger)
	created, err := app.userService.EnsureAdmin(ctx, app.cfg.AdminUsername, password)
	if err != nil {
		return fmt.Errorf("failed to bootstrap admin: %w", err)
	}

	switch {
	case created && generated:
		// Printed once; it cannot be recovered later.
		app.logger.Warn("admin account created with generated password",
			"username", app.cfg.AdminUsername,
			"password", password,
		)
	case created:
		app.logger.Info("admin account created", "username", app.cfg.AdminUsername)
	}
	return nil
}

// initHTTP initializes the HTTP router and server
func (app *Application) initHTTP() {
	router := httpapi.NewRouter(BuildVersion, app.db, app.cache, app.logger)

	// Wire services to router
	router.Gatherer = app.registry
	router.Authenticator = app.authenticator
	router.TokenService = app.tokenService
	router.UserService = app.userService
	router.GameService = app.gameService
	router.ApplyRoutes()

	app.router = router

	// Initialize HTTP server
	app.server = &http.Server{
		Addr:              fmt.Sprintf(":%d", app.cfg.Port),
		Handler:           router,
		ReadHeaderTimeout: 3 * time.Second,
	}
}
