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

// ModifyBookingInput is a partial update; nil fields are left alone.
type ModifyBookingInput struct {
	BookingID string

	ResourceID *string
	Start      *time.Time
	End        *time.Time
	AddOns     *[]string

	Actor domain.Actor
}

type ModifyBooking struct {
	deps Deps
}

func NewModifyBooking(deps Deps) *ModifyBooking {
	return &ModifyBooking{deps: deps}
}

func (uc *ModifyBooking) Execute(
	ctx context.Context,
	in ModifyBookingInput,
) (_ *models.Booking, err error) {

	ctx, span := startSpan(ctx, "booking.modify", attribute.String("booking_id", in.BookingID))
	defer func() { endSpan(span, err) }()

	if strings.TrimSpace(in.BookingID) == "" {
		return nil, domain.ErrInvalidIdentifier
	}
	if in.ResourceID != nil && strings.TrimSpace(*in.ResourceID) == "" {
		return nil, domain.ErrInvalidIdentifier
	}
	if in.Start != nil && in.End != nil {
		if _, err := domain.NewInterval(*in.Start, *in.End); err != nil {
			return nil, err
		}
	}

	current, err := uc.deps.Repo.GetBooking(ctx, in.BookingID)
	if err != nil {
		return nil, err
	}
	if err := domain.CanModify(current, in.Actor, uc.deps.now()); err != nil {
		return nil, err
	}

	target := current.ResourceID
	if in.ResourceID != nil {
		target = *in.ResourceID
	}

	var (
		updated  models.Booking
		previous domain.Interval
		prevRes  string
	)

	// Both the old and the new resource are held so the booking cannot be
	// double placed while it moves.
	err = uc.deps.Repo.WithResourceLock(ctx, []string{current.ResourceID, target}, func(ctx context.Context, tx domain.Tx) error {
		b, err := tx.GetBooking(ctx, in.BookingID)
		if err != nil {
			return err
		}
		if b.ResourceID != current.ResourceID {
			return domain.Transient(fmt.Errorf("booking %s moved to resource %s concurrently", b.ID, b.ResourceID))
		}

		now := uc.deps.now()
		if err := domain.CanModify(b, in.Actor, now); err != nil {
			return err
		}
		domain.Refresh(b, now)

		previous = domain.IntervalOf(b)
		prevRes = b.ResourceID

		start, end := b.StartTime, b.EndTime
		if in.Start != nil {
			start = *in.Start
		}
		if in.End != nil {
			end = *in.End
		}
		iv, err := domain.NewInterval(start, end)
		if err != nil {
			return err
		}

		if !iv.Equal(previous) || target != prevRes {
			existing, err := tx.ListActiveBookings(ctx, target, iv)
			if err != nil {
				return err
			}
			if conflicts := domain.FindConflicts(existing, iv, b.ID); len(conflicts) > 0 {
				return &domain.SlotUnavailableError{ResourceID: target, Conflicts: conflicts}
			}
		}

		b.ResourceID = target
		b.StartTime = iv.Start
		b.EndTime = iv.End
		if in.AddOns != nil {
			b.AddOns = models.NewAddOnSet(*in.AddOns)
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

	uc.deps.notify(ctx, domain.Change{
		Kind:               domain.ChangeModified,
		Booking:            updated,
		PreviousInterval:   &previous,
		PreviousResourceID: prevRes,
		ActorID:            in.Actor.ID,
		At:                 uc.deps.now(),
	})

	return &updated, nil
}
