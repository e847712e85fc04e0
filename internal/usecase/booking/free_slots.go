package booking

import (
	"context"
	"strings"
	"time"

	"go.opentelemetry.io/otel/attribute"

	domain "github.com/BruksfildServices01/cast-scheduler/internal/domain/booking"
)

type ComputeFreeSlots struct {
	deps Deps
}

func NewComputeFreeSlots(deps Deps) *ComputeFreeSlots {
	return &ComputeFreeSlots{deps: deps}
}

// Execute returns the gaps of at least durationMinutes inside the resource's
// working window on date. Days the calendar does not cover yield no slots.
func (uc *ComputeFreeSlots) Execute(
	ctx context.Context,
	resourceID string,
	date time.Time,
	durationMinutes int,
) (_ []domain.FreeInterval, err error) {

	ctx, span := startSpan(ctx, "booking.free_slots", attribute.String("resource_id", resourceID))
	defer func() { endSpan(span, err) }()

	if durationMinutes <= 0 {
		return nil, domain.ErrInvalidDuration
	}
	if strings.TrimSpace(resourceID) == "" {
		return nil, domain.ErrInvalidIdentifier
	}

	cal, err := uc.deps.Directory.GetCalendar(ctx, resourceID)
	if err != nil {
		return nil, err
	}
	if !cal.AppliesOn(date) {
		return []domain.FreeInterval{}, nil
	}

	loc := uc.deps.location()
	window := cal.Window(date, loc)

	bookings, err := uc.deps.Repo.ListActiveBookings(ctx, resourceID, window)
	if err != nil {
		return nil, err
	}

	busy := make([]domain.Interval, 0, len(bookings)+1)
	for i := range bookings {
		busy = append(busy, domain.IntervalOf(&bookings[i]))
	}
	if br, ok := cal.BreakWindow(date, loc); ok {
		busy = append(busy, br)
	}

	return domain.FreeSlots(window, busy, time.Duration(durationMinutes)*time.Minute), nil
}
