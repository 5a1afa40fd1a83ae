package storage

import "time"

// Event type discriminators stored alongside counters and detail records.
const (
	EventTypePageLoad       = "pageLoad"
	EventTypePageLoadDetail = "pageLoadDetail"
	EventTypeCustomPrefix   = "event_"
)

// BucketCounter is the aggregate count of one event type within one time
// bucket. At most one row exists per (event_type, time_key) pair.
type BucketCounter struct {
	ID          uint      `gorm:"primaryKey;autoIncrement"`
	EventType   string    `gorm:"uniqueIndex:idx_event_type_time_key;not null"`
	TimeKey     string    `gorm:"uniqueIndex:idx_event_type_time_key;not null"`
	Count       int64     `gorm:"not null;default:0"`
	LastUpdated time.Time `gorm:"not null"`
	CreatedAt   time.Time
}

// DetailRecord is an immutable log of one raw occurrence, decoupled from
// the aggregate. TimeKey embeds a fresh random identifier so every row is
// unique; rows are never updated or deleted here.
type DetailRecord struct {
	ID        uint      `gorm:"primaryKey;autoIncrement"`
	EventType string    `gorm:"index;not null"`
	TimeKey   string    `gorm:"uniqueIndex;not null"`
	Timestamp time.Time `gorm:"index;not null"`
	UserAgent string
	IPAddress string
	Referrer  string
	EventData string `gorm:"type:text"` // opaque raw JSON, never inspected
	CreatedAt time.Time
}
