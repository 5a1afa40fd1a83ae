// Package database manages the SQLite connection lifecycle. The manager is
// constructed explicitly and injected where needed; there is no package
// level connection state.
package database

import (
	"fmt"
	"log/slog"
	"strings"

	"gorm.io/driver/sqlite"
	"gorm.io/gorm"
	"gorm.io/gorm/logger"

	"loadpulse/internal/config"
	"loadpulse/internal/storage"
)

// Manager owns the GORM connection. Connect and Close are bound to process
// start and shutdown.
type Manager struct {
	cfg    *config.Config
	logger *slog.Logger
	db     *gorm.DB
}

// NewManager creates a database manager for the configured store DSN.
func NewManager(cfg *config.Config, log *slog.Logger) *Manager {
	return &Manager{cfg: cfg, logger: log}
}

// Connect establishes the connection pool. Lazily reused by all requests;
// calling Connect twice returns the existing connection.
func (m *Manager) Connect() (*gorm.DB, error) {
	if m.db != nil {
		return m.db, nil
	}

	db, err := gorm.Open(sqlite.Open(withPragmas(m.cfg.DatabaseURL)), &gorm.Config{
		Logger: logger.Default.LogMode(logger.Silent),
	})
	if err != nil {
		return nil, fmt.Errorf("failed to open database: %w", err)
	}

	sqlDB, err := db.DB()
	if err != nil {
		return nil, fmt.Errorf("failed to access connection pool: %w", err)
	}
	sqlDB.SetMaxOpenConns(m.cfg.GetMaxOpenConns())
	sqlDB.SetMaxIdleConns(m.cfg.GetMaxIdleConns())

	m.db = db
	m.logger.Info("Database connection established",
		slog.String("dsn", m.cfg.DatabaseURL),
		slog.Int("maxOpenConns", m.cfg.GetMaxOpenConns()))
	return m.db, nil
}

// withPragmas appends WAL journaling and a busy timeout to the DSN unless
// the caller already set query parameters.
func withPragmas(dsn string) string {
	if strings.Contains(dsn, "?") {
		return dsn
	}
	return dsn + "?_journal_mode=WAL&_busy_timeout=5000"
}

// GetConnection returns the established connection, or nil before Connect.
func (m *Manager) GetConnection() *gorm.DB {
	return m.db
}

// Migrate runs schema migrations in a transaction.
func (m *Manager) Migrate() error {
	if m.db == nil {
		return gorm.ErrInvalidDB
	}

	err := m.db.Transaction(func(tx *gorm.DB) error {
		return tx.AutoMigrate(
			&storage.BucketCounter{},
			&storage.DetailRecord{},
		)
	})
	if err != nil {
		m.logger.Error("Failed to auto-migrate database", slog.Any("error", err))
		return err
	}

	m.logger.Info("Database migration completed successfully")
	return nil
}

// Ping reports store connectivity.
func (m *Manager) Ping() error {
	if m.db == nil {
		return gorm.ErrInvalidDB
	}
	sqlDB, err := m.db.DB()
	if err != nil {
		return err
	}
	return sqlDB.Ping()
}

// Close releases the connection pool.
func (m *Manager) Close() error {
	if m.db == nil {
		return nil
	}
	sqlDB, err := m.db.DB()
	if err != nil {
		return err
	}
	m.db = nil
	return sqlDB.Close()
}
