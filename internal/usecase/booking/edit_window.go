package booking

import (
	"context"
	"time"

	domain "github.com/BruksfildServices01/cast-scheduler/internal/domain/booking"
	"github.com/BruksfildServices01/cast-scheduler/internal/models"
)

// OpenEditWindow reopens a confirmed booking for changes during grace.
type OpenEditWindow struct {
	deps  Deps
	grace time.Duration
}

func NewOpenEditWindow(deps Deps, grace time.Duration) *OpenEditWindow {
	return &OpenEditWindow{deps: deps, grace: grace}
}

func (uc *OpenEditWindow) Execute(
	ctx context.Context,
	bookingID string,
	actor domain.Actor,
) (*models.Booking, error) {
	return uc.deps.transition(ctx, domain.ChangeEditOpened, bookingID, actor, func(b *models.Booking, now time.Time) error {
		return domain.OpenForEdit(b, actor, now, uc.grace)
	})
}

type CloseEditWindow struct {
	deps Deps
}

func NewCloseEditWindow(deps Deps) *CloseEditWindow {
	return &CloseEditWindow{deps: deps}
}

func (uc *CloseEditWindow) Execute(
	ctx context.Context,
	bookingID string,
	actor domain.Actor,
) (*models.Booking, error) {
	return uc.deps.transition(ctx, domain.ChangeEditClosed, bookingID, actor, func(b *models.Booking, now time.Time) error {
		return domain.CloseEdit(b, now)
	})
}
