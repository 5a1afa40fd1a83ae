package internal

import (
	"context"
	"fmt"
	"log/slog"

	"github.com/gofiber/fiber/v2"

	"loadpulse/internal/config"
	"loadpulse/internal/database"
	apphttp "loadpulse/internal/http"
	"loadpulse/internal/ingest"
	"loadpulse/internal/storage"
)

// Application wires the configuration, store, ingestion service and HTTP
// server together. All dependencies are constructed here and injected
// explicitly; nothing hangs off package-level state.
type Application struct {
	Config *config.Config
	Logger *slog.Logger
	DB     *database.Manager
	Store  storage.Store
	Server *fiber.App
}

// NewApp creates the application: connects the store and mounts the routes.
// A store that cannot be reached is a construction failure, not a degraded
// mode.
func NewApp(cfg *config.Config, logger *slog.Logger) (*Application, error) {
	dbManager := database.NewManager(cfg, logger)
	conn, err := dbManager.Connect()
	if err != nil {
		return nil, fmt.Errorf("failed to initialize database: %w", err)
	}

	store := storage.NewGormStore(conn, logger)
	ingestSvc := ingest.NewService(store, logger)

	server := fiber.New(fiber.Config{
		AppName:               cfg.AppName,
		DisableStartupMessage: !cfg.IsDevelopment(),
	})

	analytics := apphttp.NewAnalyticsHandler(ingestSvc, store, logger)
	health := apphttp.NewHealthHandler(dbManager, logger)
	MountAppRoutes(server, cfg, analytics, health)

	return &Application{
		Config: cfg,
		Logger: logger,
		DB:     dbManager,
		Store:  store,
		Server: server,
	}, nil
}

// StartAsync begins serving in the background. Listen failures after
// startup surface through the returned channel.
func (a *Application) StartAsync() <-chan error {
	errCh := make(chan error, 1)
	go func() {
		if err := a.Server.Listen(":" + a.Config.AppPort); err != nil {
			errCh <- err
		}
	}()
	a.Logger.Info("Server listening", slog.String("port", a.Config.AppPort))
	return errCh
}

// Shutdown stops the HTTP server and closes the store connection.
func (a *Application) Shutdown(ctx context.Context) error {
	if err := a.Server.ShutdownWithContext(ctx); err != nil {
		a.Logger.Error("Error shutting down server", slog.Any("error", err))
		return err
	}
	return a.DB.Close()
}
