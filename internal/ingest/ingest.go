// Package ingest turns incoming page-load and custom-event submissions into
// store writes: an aggregate counter bump plus an immutable detail record.
package ingest

import (
	"log/slog"
	"time"

	"github.com/google/uuid"

	"loadpulse/internal/storage"
	"loadpulse/internal/timebucket"
)

// Defaults applied when request metadata is absent.
const (
	UnknownValue    = "Unknown"
	DirectReferrer  = "Direct"
	detailSeparator = "#"
)

// RequestMetadata carries the request attributes logged on detail records.
type RequestMetadata struct {
	UserAgent string
	IPAddress string
	Referrer  string
}

// Service performs event ingestion against the aggregation store.
type Service struct {
	store  storage.Store
	logger *slog.Logger
}

// NewService creates an ingestion service.
func NewService(store storage.Store, logger *slog.Logger) *Service {
	return &Service{store: store, logger: logger}
}

// RecordPageLoad increments the page-load counter for the instant's bucket
// and appends a detail record with the raw request body attached. The two
// writes are independent: a failed detail append does not roll back the
// increment.
func (s *Service) RecordPageLoad(now time.Time, meta RequestMetadata, rawBody []byte) error {
	minuteKey := timebucket.BucketKey(now)

	if err := s.store.IncrementBucket(storage.EventTypePageLoad, minuteKey, now); err != nil {
		return err
	}

	rec := &storage.DetailRecord{
		EventType: storage.EventTypePageLoadDetail,
		TimeKey:   minuteKey + detailSeparator + uuid.NewString(),
		Timestamp: now,
		UserAgent: orDefault(meta.UserAgent, UnknownValue),
		IPAddress: orDefault(meta.IPAddress, UnknownValue),
		Referrer:  orDefault(meta.Referrer, DirectReferrer),
		EventData: string(rawBody),
	}
	if err := s.store.AppendDetail(rec); err != nil {
		return err
	}

	s.logger.Debug("Recorded page load", slog.String("timeKey", minuteKey))
	return nil
}

// RecordEvent appends a detail record for a named custom event. Custom
// events are detail-only: no counter is incremented, and the key carries the
// full timestamp rather than a bucket key.
func (s *Service) RecordEvent(now time.Time, meta RequestMetadata, eventName string, payload []byte) error {
	rec := &storage.DetailRecord{
		EventType: storage.EventTypeCustomPrefix + eventName,
		TimeKey:   timebucket.ISO(now) + detailSeparator + uuid.NewString(),
		Timestamp: now,
		UserAgent: orDefault(meta.UserAgent, UnknownValue),
		IPAddress: orDefault(meta.IPAddress, UnknownValue),
		Referrer:  orDefault(meta.Referrer, DirectReferrer),
		EventData: string(payload),
	}
	if err := s.store.AppendDetail(rec); err != nil {
		return err
	}

	s.logger.Debug("Recorded custom event", slog.String("eventType", rec.EventType))
	return nil
}

func orDefault(value, fallback string) string {
	if value == "" {
		return fallback
	}
	return value
}
