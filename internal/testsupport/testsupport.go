// Package testsupport provides helpers for wiring in-memory test databases
// and minimal fiber apps in tests.
package testsupport

import (
	"fmt"
	"math/rand"
	"testing"
	"time"

	"github.com/gofiber/fiber/v2"
	"github.com/stretchr/testify/require"

	"loadpulse/internal"
	"loadpulse/internal/config"
	"loadpulse/internal/database"
	apphttp "loadpulse/internal/http"
	"loadpulse/internal/ingest"
	"loadpulse/internal/logging"
	"loadpulse/internal/storage"
)

// TestConfig returns a config pointing at a fresh in-memory SQLite database.
func TestConfig() *config.Config {
	return &config.Config{
		AppName:     "loadpulse",
		AppPort:     "0",
		Environment: config.Test,
		LogLevel:    config.LogLevelError,
		// Unique shared-cache DSN per call so parallel tests do not collide.
		DatabaseURL: fmt.Sprintf("file:testdb_%d_%d?mode=memory&cache=shared", time.Now().UnixNano(), rand.Int63()),
	}
}

// SetupTestDBManager connects and migrates an in-memory database. The
// connection is closed when the test finishes.
func SetupTestDBManager(t *testing.T) *database.Manager {
	t.Helper()

	manager := database.NewManager(TestConfig(), logging.NewTestLogger())
	_, err := manager.Connect()
	require.NoError(t, err)
	require.NoError(t, manager.Migrate())

	t.Cleanup(func() {
		_ = manager.Close()
	})

	return manager
}

// CleanAllTables truncates every table touched by the tests.
func CleanAllTables(t *testing.T, manager *database.Manager) {
	t.Helper()
	db := manager.GetConnection()
	require.NoError(t, db.Exec("DELETE FROM bucket_counters").Error)
	require.NoError(t, db.Exec("DELETE FROM detail_records").Error)
}

// CreateTestApp builds a fiber app with the full route table mounted on top
// of the given database, using a fixed clock when one is supplied.
func CreateTestApp(t *testing.T, manager *database.Manager, clock func() time.Time) *fiber.App {
	t.Helper()

	cfg := TestConfig()
	logger := logging.NewTestLogger()
	store := storage.NewGormStore(manager.GetConnection(), logger)

	analytics := apphttp.NewAnalyticsHandler(ingest.NewService(store, logger), store, logger)
	if clock != nil {
		analytics.WithClock(clock)
	}
	health := apphttp.NewHealthHandler(manager, logger)

	app := fiber.New(fiber.Config{DisableStartupMessage: true})
	internal.MountAppRoutes(app, cfg, analytics, health)
	return app
}
