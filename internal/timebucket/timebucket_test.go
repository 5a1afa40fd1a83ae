// Package timebucket_test contains tests for the timebucket package
package timebucket_test

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"

	"loadpulse/internal/timebucket"
)

func TestBucketKey(t *testing.T) {
	testCases := []struct {
		name     string
		instant  time.Time
		expected string
	}{
		{
			name:     "top of the hour",
			instant:  time.Date(2024, 3, 15, 12, 0, 0, 0, time.UTC),
			expected: "2024-03-15T12:00:00",
		},
		{
			name:     "seconds and millis dropped",
			instant:  time.Date(2024, 3, 15, 12, 34, 56, 789000000, time.UTC),
			expected: "2024-03-15T12:30:00",
		},
		{
			name:     "minute ones digit collapsed to zero",
			instant:  time.Date(2024, 3, 15, 12, 39, 0, 0, time.UTC),
			expected: "2024-03-15T12:30:00",
		},
		{
			name:     "non-UTC instants normalized to UTC",
			instant:  time.Date(2024, 3, 15, 14, 45, 12, 0, time.FixedZone("CEST", 2*3600)),
			expected: "2024-03-15T12:40:00",
		},
		{
			name:     "midnight boundary",
			instant:  time.Date(2024, 12, 31, 23, 59, 59, 999000000, time.UTC),
			expected: "2024-12-31T23:50:00",
		},
	}

	for _, tc := range testCases {
		t.Run(tc.name, func(t *testing.T) {
			assert.Equal(t, tc.expected, timebucket.BucketKey(tc.instant))
		})
	}
}

func TestBucketKeyDeterminism(t *testing.T) {
	// All instants sharing the tens-of-minutes digit map to the same key.
	base := time.Date(2024, 3, 15, 12, 30, 0, 0, time.UTC)
	key := timebucket.BucketKey(base)

	for minute := 30; minute <= 39; minute++ {
		for _, second := range []int{0, 1, 30, 59} {
			instant := time.Date(2024, 3, 15, 12, minute, second, 123000000, time.UTC)
			assert.Equal(t, key, timebucket.BucketKey(instant),
				"instant %v should share the bucket of %v", instant, base)
		}
	}

	// The neighboring ten-minute windows do not.
	assert.NotEqual(t, key, timebucket.BucketKey(time.Date(2024, 3, 15, 12, 29, 59, 0, time.UTC)))
	assert.NotEqual(t, key, timebucket.BucketKey(time.Date(2024, 3, 15, 12, 40, 0, 0, time.UTC)))
}

func TestBucketKeyMonotonicOrdering(t *testing.T) {
	// Lexicographic order of generated keys must coincide with chronological
	// order, since the store range-queries on the string key.
	start := time.Date(2024, 2, 28, 22, 0, 0, 0, time.UTC)

	prev := timebucket.BucketKey(start)
	for i := 1; i <= 60*26; i++ {
		next := timebucket.BucketKey(start.Add(time.Duration(i) * time.Minute))
		assert.LessOrEqual(t, prev, next)
		prev = next
	}
}

func TestISO(t *testing.T) {
	instant := time.Date(2024, 3, 15, 12, 34, 56, 789000000, time.UTC)
	assert.Equal(t, "2024-03-15T12:34:56.789Z", timebucket.ISO(instant))

	// Zone conversion happens before formatting.
	local := time.Date(2024, 3, 15, 14, 34, 56, 789000000, time.FixedZone("CEST", 2*3600))
	assert.Equal(t, "2024-03-15T12:34:56.789Z", timebucket.ISO(local))
}

func TestDisplayTime(t *testing.T) {
	instant := time.Date(2024, 3, 15, 9, 5, 7, 0, time.UTC)
	assert.Equal(t, "09:05:07", timebucket.DisplayTime(instant))
}
