package storage

import (
	"log/slog"
	"time"

	"gorm.io/gorm"
)

// GormStore implements Store on top of a GORM SQLite connection.
type GormStore struct {
	db     *gorm.DB
	logger *slog.Logger
}

// Ensure GormStore implements the store port
var _ Store = (*GormStore)(nil)

// NewGormStore creates a store adapter around an established connection.
func NewGormStore(db *gorm.DB, logger *slog.Logger) *GormStore {
	return &GormStore{db: db, logger: logger}
}

// IncrementBucket creates the counter row at count=1 or atomically bumps an
// existing one. The single-statement upsert leans on the store's own
// conflict resolution, so concurrent callers on the same key cannot lose
// updates.
func (s *GormStore) IncrementBucket(eventType, timeKey string, now time.Time) error {
	query := `
		INSERT INTO bucket_counters (event_type, time_key, count, last_updated, created_at)
		VALUES (?, ?, 1, ?, ?)
		ON CONFLICT (event_type, time_key) DO UPDATE SET
			count = bucket_counters.count + 1,
			last_updated = ?
	`
	if err := s.db.Exec(query, eventType, timeKey, now, now, now).Error; err != nil {
		s.logger.Error("Failed to increment bucket",
			slog.String("eventType", eventType),
			slog.String("timeKey", timeKey),
			slog.Any("error", err))
		return newStorageError("increment bucket", err)
	}
	return nil
}

// AppendDetail inserts a new immutable detail record.
func (s *GormStore) AppendDetail(rec *DetailRecord) error {
	if err := s.db.Create(rec).Error; err != nil {
		s.logger.Error("Failed to append detail record",
			slog.String("eventType", rec.EventType),
			slog.Any("error", err))
		return newStorageError("append detail", err)
	}
	return nil
}

// QueryRange returns all counters of the given event type whose time key
// falls within the inclusive [startKey, endKey] range, ascending by key.
// Lexicographic order on the key strings coincides with chronological order.
func (s *GormStore) QueryRange(eventType, startKey, endKey string) ([]BucketCounter, error) {
	var counters []BucketCounter
	err := s.db.Model(&BucketCounter{}).
		Where("event_type = ?", eventType).
		Where("time_key BETWEEN ? AND ?", startKey, endKey).
		Order("time_key ASC").
		Find(&counters).Error
	if err != nil {
		s.logger.Error("Failed to query counter range",
			slog.String("eventType", eventType),
			slog.String("startKey", startKey),
			slog.String("endKey", endKey),
			slog.Any("error", err))
		return nil, newStorageError("query range", err)
	}
	return counters, nil
}
