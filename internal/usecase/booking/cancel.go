package booking

import (
	"context"
	"time"

	domain "github.com/BruksfildServices01/cast-scheduler/internal/domain/booking"
	"github.com/BruksfildServices01/cast-scheduler/internal/models"
)

type CancelBooking struct {
	deps Deps
}

func NewCancelBooking(deps Deps) *CancelBooking {
	return &CancelBooking{deps: deps}
}

func (uc *CancelBooking) Execute(
	ctx context.Context,
	bookingID string,
	actor domain.Actor,
) (*models.Booking, error) {
	return uc.deps.transition(ctx, domain.ChangeCancelled, bookingID, actor, func(b *models.Booking, now time.Time) error {
		return domain.Cancel(b, actor, now)
	})
}
