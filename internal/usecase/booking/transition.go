package booking

import (
	"context"
	"fmt"
	"strings"
	"time"

	"go.opentelemetry.io/otel/attribute"

	domain "github.com/BruksfildServices01/cast-scheduler/internal/domain/booking"
	"github.com/BruksfildServices01/cast-scheduler/internal/models"
)

// transition loads the booking, applies fn under the resource lock and
// persists the result. It backs every status-only use case.
func (d Deps) transition(
	ctx context.Context,
	kind domain.ChangeKind,
	bookingID string,
	actor domain.Actor,
	fn func(b *models.Booking, now time.Time) error,
) (_ *models.Booking, err error) {

	ctx, span := startSpan(ctx, "booking."+string(kind),
		attribute.String("booking_id", bookingID),
		attribute.String("actor_id", actor.ID),
	)
	defer func() { endSpan(span, err) }()

	if strings.TrimSpace(bookingID) == "" {
		return nil, domain.ErrInvalidIdentifier
	}

	current, err := d.Repo.GetBooking(ctx, bookingID)
	if err != nil {
		return nil, err
	}

	var updated models.Booking
	err = d.Repo.WithResourceLock(ctx, []string{current.ResourceID}, func(ctx context.Context, tx domain.Tx) error {
		b, err := tx.GetBooking(ctx, bookingID)
		if err != nil {
			return err
		}
		if b.ResourceID != current.ResourceID {
			return domain.Transient(fmt.Errorf("booking %s moved to resource %s concurrently", b.ID, b.ResourceID))
		}

		if err := fn(b, d.now()); err != nil {
			return err
		}
		if err := tx.UpdateBooking(ctx, b); err != nil {
			return err
		}
		updated = *b
		return nil
	})
	if err != nil {
		return nil, err
	}

	d.notify(ctx, domain.Change{
		Kind:    kind,
		Booking: updated,
		ActorID: actor.ID,
		At:      d.now(),
	})

	return &updated, nil
}
