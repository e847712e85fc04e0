package booking

import (
	"context"
	"time"

	domain "github.com/BruksfildServices01/cast-scheduler/internal/domain/booking"
	"github.com/BruksfildServices01/cast-scheduler/internal/models"
)

type ConfirmBooking struct {
	deps Deps
}

func NewConfirmBooking(deps Deps) *ConfirmBooking {
	return &ConfirmBooking{deps: deps}
}

func (uc *ConfirmBooking) Execute(
	ctx context.Context,
	bookingID string,
	actor domain.Actor,
) (*models.Booking, error) {
	return uc.deps.transition(ctx, domain.ChangeConfirmed, bookingID, actor, func(b *models.Booking, now time.Time) error {
		return domain.Confirm(b, now)
	})
}
