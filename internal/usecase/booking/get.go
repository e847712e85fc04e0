package booking

import (
	"context"
	"strings"

	domain "github.com/BruksfildServices01/cast-scheduler/internal/domain/booking"
	"github.com/BruksfildServices01/cast-scheduler/internal/models"
)

type GetBooking struct {
	deps Deps
}

func NewGetBooking(deps Deps) *GetBooking {
	return &GetBooking{deps: deps}
}

// Execute returns the booking as of now; an expired edit window reads as
// confirmed even before the sweep persists it.
func (uc *GetBooking) Execute(
	ctx context.Context,
	bookingID string,
) (*models.Booking, error) {
	if strings.TrimSpace(bookingID) == "" {
		return nil, domain.ErrInvalidIdentifier
	}

	b, err := uc.deps.Repo.GetBooking(ctx, bookingID)
	if err != nil {
		return nil, err
	}
	domain.Refresh(b, uc.deps.now())
	return b, nil
}
