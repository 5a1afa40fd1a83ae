// Package timebucket maps instants to the canonical minute-bucket keys used
// by the aggregate counters and to display strings for the series output.
package timebucket

import "time"

// isoMillisLayout matches the wire format of stored timestamps:
// UTC, millisecond precision, trailing Z.
const isoMillisLayout = "2006-01-02T15:04:05.000Z"

// ISO formats an instant as its canonical UTC millisecond string.
func ISO(t time.Time) string {
	return t.UTC().Format(isoMillisLayout)
}

// BucketKey returns the canonical bucket key for an instant: the ISO string
// truncated through the tens digit of the minute with "0:00" appended,
// yielding the shape YYYY-MM-DDTHH:M0:00.
//
// The truncation drops the ones digit of the minute, so all minutes within
// the same ten-minute window share one key. The stored key shape looks
// per-minute but the effective granularity is 10 minutes; the exact string
// behavior is kept for compatibility with existing stored keys.
func BucketKey(t time.Time) string {
	return ISO(t)[:15] + "0:00"
}

// DisplayTime returns the wall-clock HH:MM:SS string for an instant.
// Display only, never used as a stored key.
func DisplayTime(t time.Time) string {
	return t.Format("15:04:05")
}
