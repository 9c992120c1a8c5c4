package app

import (
	"context"
	"fmt"
	"log/slog"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	webhttp "github.com/aussiebroadwan/petsit/internal/web/http"
	"github.com/aussiebroadwan/petsit/internal/web/metrics"
	"github.com/aussiebroadwan/petsit/internal/web/route"
	"github.com/aussiebroadwan/petsit/internal/web/session"
	"github.com/aussiebroadwan/petsit/pkg/cryptox"
	"github.com/aussiebroadwan/petsit/pkg/petsdk"
	"github.com/aussiebroadwan/petsit/pkg/slogx"
	"github.com/aussiebroadwan/petsit/pkg/tokenstore"
	"github.com/aussiebroadwan/petsit/pkg/tokenstore/drivers/redis"
	"github.com/aussiebroadwan/petsit/pkg/tokenstore/drivers/sqlite"
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/collectors"
)

// BuildVersion is overridden at build time via -ldflags "-X".
var BuildVersion = "v0.1.0"

// Application is the web frontend with all its dependencies.
type Application struct {
	cfg    Config
	logger *slog.Logger

	tokens   tokenstore.Store
	routes   *route.Table
	sessions *session.Registry
	sweeper  *session.Sweeper
	sweeping bool
	client   *petsdk.Client

	registry  *prometheus.Registry
	collector *metrics.Collector

	server *http.Server
	router *webhttp.Router
}

// New creates an Application with every dependency initialized.
func New(cfg Config) (*Application, error) {
	app := &Application{
		cfg: cfg,
		logger: slogx.New(slogx.Config{
			Service: "petsit-web",
			Version: BuildVersion,
			Env:     cfg.Env,
			Level:   cfg.LogLevel,
			Format:  cfg.LogFormat,
		}),
	}

	if err := app.initTokenStore(); err != nil {
		return nil, err
	}

	if err := app.initRoutes(); err != nil {
		_ = app.tokens.Close()
		return nil, err
	}

	app.initSessions()
	app.initClient()
	app.initHTTP()

	return app, nil
}

// Run starts the application and blocks until shutdown is requested.
func (app *Application) Run() error {
	app.sweeper.Start()
	app.sweeping = true

	app.logger.Info("web frontend starting",
		"port", app.cfg.Port,
		"version", BuildVersion,
		"api", app.cfg.APIBaseURL,
		"token_store", app.cfg.TokenStore,
	)

	serverErrors := make(chan error, 1)
	go func() {
		serverErrors <- app.server.ListenAndServe()
	}()

	shutdown := make(chan os.Signal, 1)
	signal.Notify(shutdown, os.Interrupt, syscall.SIGTERM)

	select {
	case err := <-serverErrors:
		app.stopSweeper()
		if err != nil && err != http.ErrServerClosed {
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

// Shutdown drains in-flight requests, stops the sweeper and closes the
// token store.
func (app *Application) Shutdown() error {
	app.logger.Info("shutting down web frontend...")

	ctx, cancel := context.WithTimeout(context.Background(), app.cfg.ShutdownGracePeriod)
	defer cancel()

	if err := app.server.Shutdown(ctx); err != nil {
		app.logger.Error("graceful server shutdown failed", "error", err)
		if err := app.server.Close(); err != nil {
			app.logger.Error("error closing server", "error", err)
		}
	}

	app.stopSweeper()

	if err := app.tokens.Close(); err != nil {
		app.logger.Error("error closing token store", "error", err)
		return err
	}

	app.logger.Info("web frontend stopped")
	return nil
}

func (app *Application) stopSweeper() {
	if app.sweeping {
		app.sweeper.Stop()
		app.sweeping = false
	}
}

// Handler exposes the routed handler, mainly for tests.
func (app *Application) Handler() http.Handler { return app.router }

// initTokenStore opens the configured token store driver.
func (app *Application) initTokenStore() error {
	if app.cfg.TokenStore == TokenStoreMemory {
		app.tokens = tokenstore.NewMemory()
		app.logger.Warn("using in-memory token store; sessions will not survive a restart")
		return nil
	}

	sealer, ephemeral, err := cryptox.LoadSealer(app.cfg.TokenSealKeyPath, app.cfg.TokenSealKey)
	if err != nil {
		return fmt.Errorf("failed to load token seal key: %w", err)
	}
	if ephemeral {
		app.logger.Warn("no token seal key configured; generated an ephemeral key, persisted tokens are lost on restart")
	}

	switch app.cfg.TokenStore {
	case TokenStoreSQLite:
		dsn := fmt.Sprintf("file:%s?_busy_timeout=5000&_journal_mode=WAL", app.cfg.TokenDatabaseFile)
		db, err := sqlite.NewStore(dsn, sealer)
		if err != nil {
			return fmt.Errorf("failed to initialize token database: %w", err)
		}
		if err := db.ApplyMigrations(); err != nil {
			_ = db.Close()
			return fmt.Errorf("failed to apply token database migrations: %w", err)
		}
		app.logger.Info("token database migrations applied successfully", "file", app.cfg.TokenDatabaseFile)
		app.tokens = db

	case TokenStoreRedis:
		ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
		defer cancel()

		rdb, err := redis.NewStore(ctx, redis.Options{
			Addr:     app.cfg.RedisAddr,
			Username: app.cfg.RedisUsername,
			Password: app.cfg.RedisPassword,
			DB:       app.cfg.RedisDB,
		}, sealer)
		if err != nil {
			return fmt.Errorf("failed to connect to redis token store: %w", err)
		}
		app.logger.Info("connected to redis token store", "addr", app.cfg.RedisAddr)
		app.tokens = rdb

	default:
		return fmt.Errorf("unknown token store %q (want memory, sqlite or redis)", app.cfg.TokenStore)
	}

	return nil
}

func (app *Application) initRoutes() error {
	if app.cfg.RoutesFile == "" {
		table, err := route.Default()
		if err != nil {
			return fmt.Errorf("failed to load built-in route table: %w", err)
		}
		app.routes = table
		return nil
	}

	table, err := route.Load(app.cfg.RoutesFile)
	if err != nil {
		return fmt.Errorf("failed to load route table: %w", err)
	}
	app.logger.Info("route table loaded", "file", app.cfg.RoutesFile, "routes", len(table.Routes()))
	app.routes = table
	return nil
}

func (app *Application) initSessions() {
	app.sessions = session.NewRegistry(app.tokens, app.cfg.SessionIdleTTL)
	app.sessions.CookieSecure = app.cfg.SessionCookieSecure

	app.registry = prometheus.NewRegistry()
	app.registry.MustRegister(
		collectors.NewGoCollector(),
		collectors.NewProcessCollector(collectors.ProcessCollectorOpts{}),
	)
	app.collector = metrics.NewCollector(app.registry, app.sessions.Len)

	app.sweeper = session.NewSweeper(app.sessions, app.logger, app.cfg.SessionSweepInterval)
	app.sweeper.OnSweep = app.collector.RecordSweep
}

// initClient wires the API client to the session registry: tokens are
// read from the request's session and a 401 clears it.
func (app *Application) initClient() {
	client := petsdk.NewClient(app.cfg.APIBaseURL)
	if app.cfg.APITimeout > 0 {
		client.HTTPClient.Timeout = app.cfg.APITimeout
	}
	client.Tokens = app.sessions
	client.Recorder = app.collector
	client.Reauth = &webhttp.Reauthenticator{OnReauth: app.collector.RecordReauthentication}

	app.client = client
}

func (app *Application) initHTTP() {
	router := webhttp.NewRouter(
		app.routes,
		app.sessions,
		app.client,
		BuildVersion,
		app.logger,
	)

	router.Metrics = app.collector
	router.Gatherer = app.registry
	router.AssetsDir = app.cfg.AssetsDir
	router.ApplyRoutes()

	app.router = router

	app.server = &http.Server{
		Addr:              fmt.Sprintf(":%d", app.cfg.Port),
		Handler:           router,
		ReadHeaderTimeout: 3 * time.Second,
	}
}
