package booking

import (
	"slices"
	"time"
)

// FreeInterval is a computed gap; it is never stored.
type FreeInterval struct {
	Start time.Time `json:"start"`
	End   time.Time `json:"end"`
}

// FreeSlots walks window left to right and returns the gaps between busy
// intervals that are at least minDuration long. Shorter gaps are dropped.
func FreeSlots(window Interval, busy []Interval, minDuration time.Duration) []FreeInterval {
	out := []FreeInterval{}
	if !window.Valid() || minDuration <= 0 {
		return out
	}

	sorted := slices.Clone(busy)
	slices.SortFunc(sorted, func(a, b Interval) int {
		return a.Start.Compare(b.Start)
	})

	emit := func(start, end time.Time) {
		if end.After(window.End) {
			end = window.End
		}
		if end.Sub(start) >= minDuration {
			out = append(out, FreeInterval{Start: start, End: end})
		}
	}

	cursor := window.Start
	for _, b := range sorted {
		if !Overlaps(window, b) {
			continue
		}
		if b.Start.After(cursor) {
			emit(cursor, b.Start)
		}
		if b.End.After(cursor) {
			cursor = b.End
		}
	}
	if cursor.Before(window.End) {
		emit(cursor, window.End)
	}

	return out
}
