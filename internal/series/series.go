// Package series densifies sparse bucket counters into the fixed 60-slot
// per-minute series served by the API.
package series

import (
	"time"

	"loadpulse/internal/storage"
	"loadpulse/internal/timebucket"
)

// SlotCount is the fixed length of the served series.
const SlotCount = 60

// Slot is one element of the densified output.
type Slot struct {
	TimeKey     string `json:"timeKey"`
	DisplayTime string `json:"displayTime"`
	Count       int64  `json:"count"`
}

// Window returns the inclusive bucket-key range to query for the last hour
// ending at now.
func Window(now time.Time) (startKey, endKey string) {
	return timebucket.BucketKey(now.Add(-SlotCount * time.Minute)), timebucket.BucketKey(now)
}

// BuildLast60Minutes produces exactly 60 slots ending at now, oldest first.
// Slots with no matching counter report zero. Because bucket keys collapse
// to ten-minute windows, several slots can map to the same counter and
// report the same count; the first counter carrying a key wins.
func BuildLast60Minutes(now time.Time, counters []storage.BucketCounter) []Slot {
	countByKey := make(map[string]int64, len(counters))
	for _, c := range counters {
		if _, ok := countByKey[c.TimeKey]; !ok {
			countByKey[c.TimeKey] = c.Count
		}
	}

	slots := make([]Slot, 0, SlotCount)
	for i := SlotCount - 1; i >= 0; i-- {
		minuteTime := now.Add(-time.Duration(i) * time.Minute)
		key := timebucket.BucketKey(minuteTime)
		slots = append(slots, Slot{
			TimeKey:     key,
			DisplayTime: timebucket.DisplayTime(minuteTime),
			Count:       countByKey[key],
		})
	}
	return slots
}
