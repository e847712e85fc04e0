package booking

import (
	"context"
	"time"

	domain "github.com/BruksfildServices01/cast-scheduler/internal/domain/booking"
	"github.com/BruksfildServices01/cast-scheduler/internal/models"
)

type CompleteBooking struct {
	deps Deps
}

func NewCompleteBooking(deps Deps) *CompleteBooking {
	return &CompleteBooking{deps: deps}
}

func (uc *CompleteBooking) Execute(
	ctx context.Context,
	bookingID string,
	actor domain.Actor,
) (*models.Booking, error) {
	return uc.deps.transition(ctx, domain.ChangeCompleted, bookingID, actor, func(b *models.Booking, now time.Time) error {
		return domain.Complete(b, actor, now)
	})
}
