package booking

import (
	"context"
	"strings"
	"time"

	domain "github.com/BruksfildServices01/cast-scheduler/internal/domain/booking"
	"github.com/BruksfildServices01/cast-scheduler/internal/models"
)

// ListBookings lists a resource's bookings starting within a calendar day or
// month of the reference timezone, cancelled ones included.
type ListBookings struct {
	deps Deps
}

func NewListBookings(deps Deps) *ListBookings {
	return &ListBookings{deps: deps}
}

func (uc *ListBookings) ByDate(
	ctx context.Context,
	resourceID string,
	date time.Time,
) ([]models.Booking, error) {
	y, m, d := date.Date()
	start := time.Date(y, m, d, 0, 0, 0, 0, uc.deps.location())
	return uc.period(ctx, resourceID, start, start.AddDate(0, 0, 1))
}

func (uc *ListBookings) ByMonth(
	ctx context.Context,
	resourceID string,
	year int,
	month int,
) ([]models.Booking, error) {
	if month < 1 || month > 12 {
		return nil, domain.ErrInvalidInterval
	}
	start := time.Date(year, time.Month(month), 1, 0, 0, 0, 0, uc.deps.location())
	return uc.period(ctx, resourceID, start, start.AddDate(0, 1, 0))
}

func (uc *ListBookings) period(
	ctx context.Context,
	resourceID string,
	start time.Time,
	end time.Time,
) ([]models.Booking, error) {
	if strings.TrimSpace(resourceID) == "" {
		return nil, domain.ErrInvalidIdentifier
	}

	list, err := uc.deps.Repo.ListBookingsForPeriod(ctx, resourceID, start, end)
	if err != nil {
		return nil, err
	}

	now := uc.deps.now()
	out := make([]models.Booking, 0, len(list))
	for _, b := range list {
		out = append(out, domain.Refreshed(b, now))
	}
	return out, nil
}
