package app

import (
	"context"
	"fmt"
	"io"
	"log/slog"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	httpapi "github.com/aussiebroadwan/authlab/internal/authlab/http"
	"github.com/aussiebroadwan/authlab/internal/authlab/service"
	"github.com/aussiebroadwan/authlab/internal/authlab/store/drivers/sqlite"
	"github.com/aussiebroadwan/authlab/pkg/slogx"
)

const (
	// BuildVersion should be set at build time via ldflags.
	BuildVersion = "v0.1.0"
)

// Application carries the configuration, logger and database shared by
// every command.
type Application struct {
	cfg    Config
	logger *slog.Logger
	out    io.Writer

	db *sqlite.Store

	// set by Serve
	revalidationService *service.RevalidationService
	server              *http.Server
}

// New creates an Application. Command output goes to out; logs go to
// logOut.
func New(cfg Config, out, logOut io.Writer) *Application {
	return &Application{
		cfg: cfg,
		out: out,
		logger: slogx.New(slogx.Config{
			Service: "authlab",
			Version: BuildVersion,
			Env:     cfg.Env,
			Level:   cfg.LogLevel,
			Format:  cfg.LogFormat,
			Output:  logOut,
		}),
	}
}

// Close releases the database, if one was opened.
func (app *Application) Close() error {
	if app.db == nil {
		return nil
	}
	return app.db.Close()
}

// initDatabase opens the configured file. Migrations are only applied by
// the commands that write, so reading an arbitrary file never changes it.
func (app *Application) initDatabase(foreignKeys, migrate bool) error {
	if app.db != nil {
		return nil
	}
	db, err := sqlite.NewStore("file:"+app.cfg.Database, sqlite.WithForeignKeys(foreignKeys))
	if err != nil {
		return fmt.Errorf("failed to open database %s: %w", app.cfg.Database, err)
	}
	app.db = db

	if migrate {
		if err := db.ApplyMigrations(); err != nil {
			return fmt.Errorf("failed to apply database migrations: %w", err)
		}
		version, _, _, err := db.SchemaVersion()
		if err != nil {
			return fmt.Errorf("failed to read schema version: %w", err)
		}
		app.logger.Info("database migrations applied", "database", app.cfg.Database, "version", version)
	}
	return nil
}

func (app *Application) validator() (*service.ValidatorService, error) {
	keys, err := LoadSigningKeys(app.cfg.SigningKey, app.logger)
	if err != nil {
		return nil, err
	}
	return &service.ValidatorService{
		Store:      app.db,
		Logger:     app.logger,
		Keys:       keys,
		Issuer:     app.cfg.Generate.Issuer,
		MaxSamples: app.cfg.Validation.MaxSamples,
	}, nil
}

func (app *Application) atoOptions() service.ATOOptions {
	return service.ATOOptions{
		Window:      app.cfg.Analyze.ATOWindow,
		MinFailures: app.cfg.Analyze.ATOMinFailures,
	}
}

// Serve runs the read-only API until SIGINT or SIGTERM.
func (app *Application) Serve() error {
	if err := app.cfg.Server.Validate(); err != nil {
		return fmt.Errorf("invalid server config: %w", err)
	}
	if err := app.initDatabase(app.cfg.ForeignKeys, false); err != nil {
		return err
	}
	if err := app.initHTTP(); err != nil {
		return err
	}

	app.revalidationService.Start()
	app.logger.Info("authlab server starting", "port", app.cfg.Server.Port, "version", BuildVersion)

	serverErrors := make(chan error, 1)
	go func() {
		serverErrors <- app.server.ListenAndServe()
	}()

	shutdown := make(chan os.Signal, 1)
	signal.Notify(shutdown, os.Interrupt, syscall.SIGTERM)

	select {
	case err := <-serverErrors:
		app.revalidationService.Stop()
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

// Shutdown stops the server and the revalidation worker.
func (app *Application) Shutdown() error {
	app.logger.Info("shutting down authlab server...")

	ctx, cancel := context.WithTimeout(context.Background(), app.cfg.Server.ShutdownGracePeriod)
	defer cancel()

	if err := app.server.Shutdown(ctx); err != nil {
		app.logger.Error("graceful server shutdown failed", "error", err)
		if err := app.server.Close(); err != nil {
			app.logger.Error("error closing server", "error", err)
		}
	}

	app.revalidationService.Stop()

	app.logger.Info("authlab server stopped")
	return nil
}

func (app *Application) initHTTP() error {
	validator, err := app.validator()
	if err != nil {
		return err
	}
	app.revalidationService = service.NewRevalidationService(validator, app.logger, app.cfg.Server.RevalidateInterval)

	router := httpapi.NewRouter(app.db, BuildVersion, app.logger)
	router.AnalyzerService = &service.AnalyzerService{Store: app.db}
	router.RevalidationService = app.revalidationService
	router.ATOOptions = app.atoOptions()
	router.Keys = validator.Keys
	router.ApplyRoutes()

	app.server = &http.Server{
		Addr:              fmt.Sprintf(":%d", app.cfg.Server.Port),
		Handler:           router,
		ReadHeaderTimeout: 3 * time.Second,
	}
	return nil
}
