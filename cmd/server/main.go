package main

import (
	"context"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/go-chi/chi/v5"
	"github.com/go-chi/chi/v5/middleware"
	"github.com/go-chi/httplog/v2"
	"gopkg.in/natefinch/lumberjack.v2"

	"spprovision/application"
	"spprovision/database"
	"spprovision/infrastructure/config"
	"spprovision/infrastructure/factories"
	"spprovision/infrastructure/repositories"
	"spprovision/interfaces/web/handlers"
	"spprovision/interfaces/web/presenters"
	"spprovision/logging"
	"spprovision/platform/events"
	"spprovision/spauth"
)

func main() {
	// Initialize configuration
	loadEnvironment()
	cfg := config.LoadAppConfigFromEnv()

	// Initialize logging
	logger := initializeLogging(cfg)

	// Initialize database
	db := initializeDatabase(cfg, logger)
	defer db.Close()

	deps := buildDependencies(db, cfg, logger)

	router := setupRoutes(deps, cfg)
	startServer(router, cfg.HTTPAddr, logger, deps)
}

// Dependencies holds all application dependencies organized by layer
type Dependencies struct {
	// Infrastructure
	DB     *database.Database
	Logger *logging.Logger

	// Application Layer
	Service  application.ProvisioningService
	EventBus *events.RunEventBus

	// Presentation Layer
	ProvisioningHandlers *handlers.ProvisioningHandlers
	SystemHandlers       *handlers.SystemHandlers
}

func loadEnvironment() {
	loaded, err := config.LoadEnvFile(os.Getenv("SPPROVISION_ENV_FILE"))
	switch {
	case err != nil:
		println("Failed to read .env file:", err.Error())
	case loaded:
		println("Loaded configuration from .env file")
	default:
		println("No .env file found, using environment variables")
	}
}

func initializeLogging(cfg *config.AppConfig) *logging.Logger {
	logger := logging.NewLogger(cfg.Logging)
	logging.SetDefault(logger)

	logger.Info("Application starting",
		"version", "1.0.0",
		"log_level", cfg.Logging.Level,
		"log_format", cfg.Logging.Format,
		"db_path", cfg.Database.Path,
	)

	return logger
}

func initializeDatabase(cfg *config.AppConfig, logger *logging.Logger) *database.Database {
	db, err := database.New(*cfg.Database, logger)
	if err != nil {
		logger.Error("Failed to initialize database", "error", err)
		os.Exit(1)
	}
	return db
}

// buildDependencies creates all application dependencies
func buildDependencies(db *database.Database, cfg *config.AppConfig, logger *logging.Logger) *Dependencies {
	spCfg, err := spauth.FromEnv()
	if err != nil {
		logger.Error("Invalid SharePoint configuration", "error", err)
		os.Exit(1)
	}
	client, err := factories.NewListClient(spCfg)
	if err != nil {
		logger.Error("Failed to create SharePoint client", "error", err, "strategy", spCfg.Strategy)
		os.Exit(1)
	}

	runRepo := repositories.NewSqliteRunRepository(db)

	eventBus := events.NewRunEventBus()
	events.NewLoggingEventHandlers(logger).RegisterHandlers(eventBus)

	service := application.NewProvisioningService(client, runRepo, eventBus)
	presenter := presenters.NewRunPresenter()

	return &Dependencies{
		DB:                   db,
		Logger:               logger,
		Service:              service,
		EventBus:             eventBus,
		ProvisioningHandlers: handlers.NewProvisioningHandlers(service, presenter, client.SiteURL(), cfg.RunHistoryLimit),
		SystemHandlers:       handlers.NewSystemHandlers(db),
	}
}

func setupRoutes(deps *Dependencies, cfg *config.AppConfig) *chi.Mux {
	r := chi.NewRouter()

	// Middleware
	setupHTTPLogging(r, deps, cfg)
	r.Use(middleware.Recoverer)

	r.Get("/health", deps.SystemHandlers.Health)
	deps.ProvisioningHandlers.Routes(r)

	return r
}

func setupHTTPLogging(r *chi.Mux, deps *Dependencies, cfg *config.AppConfig) {
	if cfg.HTTPLogPath == "" {
		return
	}

	// Closed with the process; the writer must outlive the server.
	logFile := &lumberjack.Logger{
		Filename:   cfg.HTTPLogPath,
		MaxSize:    cfg.HTTPLogMaxSizeMB,
		MaxBackups: cfg.HTTPLogMaxBackups,
		Compress:   true,
	}

	httpLogger := httplog.NewLogger("spprovision", httplog.Options{
		Writer: logFile,
		JSON:   true,
	})
	r.Use(httplog.RequestLogger(httpLogger))

	deps.Logger.Info("HTTP request logging enabled", "path", cfg.HTTPLogPath)
}

func startServer(router *chi.Mux, addr string, logger *logging.Logger, deps *Dependencies) {
	server := &http.Server{Addr: addr, Handler: router}

	serverCtx, serverStopCtx := context.WithCancel(context.Background())

	sig := make(chan os.Signal, 1)
	signal.Notify(sig, syscall.SIGHUP, syscall.SIGINT, syscall.SIGTERM, syscall.SIGQUIT)

	go func() {
		<-sig
		logger.Info("Shutdown signal received")

		shutdownCtx, cancel := context.WithTimeout(serverCtx, 30*time.Second)
		defer cancel()

		go func() {
			<-shutdownCtx.Done()
			if shutdownCtx.Err() == context.DeadlineExceeded {
				logger.Error("Graceful shutdown timed out, forcing exit")
				os.Exit(1)
			}
		}()

		// In-flight provisioning requests finish before Shutdown returns.
		if err := server.Shutdown(shutdownCtx); err != nil {
			logger.Error("Server shutdown error", "error", err)
			os.Exit(1)
		}

		logger.Info("Waiting for event handlers...")
		deps.EventBus.Wait()
		serverStopCtx()
	}()

	logger.Info("Server starting", "address", addr)
	err := server.ListenAndServe()
	if err != nil && err != http.ErrServerClosed {
		logger.Error("Server failed", "error", err)
		os.Exit(1)
	}

	<-serverCtx.Done()
	logger.Info("Server stopped")
}
