package booking

import (
	"github.com/BruksfildServices01/cast-scheduler/internal/models"
)

// FindConflicts returns the non-cancelled bookings in existing that overlap
// candidate. excludeID drops the booking being modified.
//
// The start-inside, end-inside, contains and contained-by shapes are all
// covered by the single half-open predicate.
func FindConflicts(existing []models.Booking, candidate Interval, excludeID string) []models.Booking {
	var out []models.Booking
	for _, b := range existing {
		if Status(b.Status) == StatusCancelled {
			continue
		}
		if excludeID != "" && b.ID == excludeID {
			continue
		}
		if Overlaps(IntervalOf(&b), candidate) {
			out = append(out, b)
		}
	}
	return out
}

// AvailabilityResult is the answer of a conflict check for one resource.
type AvailabilityResult struct {
	Available bool             `json:"available"`
	Conflicts []models.Booking `json:"conflicts"`
}

func NewAvailabilityResult(conflicts []models.Booking) AvailabilityResult {
	if conflicts == nil {
		conflicts = []models.Booking{}
	}
	return AvailabilityResult{
		Available: len(conflicts) == 0,
		Conflicts: conflicts,
	}
}
