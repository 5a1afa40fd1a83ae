// Package storage defines the aggregation store port and its GORM-backed
// adapter. Bucket keys are opaque strings to the store; their shape is
// decided by the timebucket package.
package storage

import (
	"fmt"
	"time"
)

// Store is the aggregation store port. Implementations must make
// IncrementBucket atomic under concurrent callers targeting the same key:
// two simultaneous increments must never both observe an absent row and
// both write count=1.
type Store interface {
	IncrementBucket(eventType, timeKey string, now time.Time) error
	AppendDetail(rec *DetailRecord) error
	QueryRange(eventType, startKey, endKey string) ([]BucketCounter, error)
}

// StorageError wraps any store failure: connectivity loss, write/read
// failure, or a constraint violation other than the expected upsert race.
// Callers do not retry; the error propagates to the request boundary.
type StorageError struct {
	Op  string
	Err error
}

func (e *StorageError) Error() string {
	return fmt.Sprintf("storage: %s: %v", e.Op, e.Err)
}

func (e *StorageError) Unwrap() error {
	return e.Err
}

func newStorageError(op string, err error) *StorageError {
	return &StorageError{Op: op, Err: err}
}
