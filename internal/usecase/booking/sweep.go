package booking

import (
	"context"
	"errors"
	"time"

	domain "github.com/BruksfildServices01/cast-scheduler/internal/domain/booking"
	"github.com/BruksfildServices01/cast-scheduler/internal/models"
)

// ExpireEditWindows persists the modifiable -> confirmed reversion for
// bookings whose edit window has passed. Reads already apply it lazily, so
// the sweep only keeps stored rows and listeners up to date.
type ExpireEditWindows struct {
	deps Deps
}

func NewExpireEditWindows(deps Deps) *ExpireEditWindows {
	return &ExpireEditWindows{deps: deps}
}

// Execute returns how many bookings were reverted.
func (uc *ExpireEditWindows) Execute(ctx context.Context) (_ int, err error) {
	ctx, span := startSpan(ctx, "booking.expire_edit_windows")
	defer func() { endSpan(span, err) }()

	expired, err := uc.deps.Repo.ListExpiredEditWindows(ctx, uc.deps.now())
	if err != nil {
		return 0, err
	}

	var (
		reverted int
		errs     []error
	)
	for _, candidate := range expired {
		var updated models.Booking
		changed := false

		err := uc.deps.Repo.WithResourceLock(ctx, []string{candidate.ResourceID}, func(ctx context.Context, tx domain.Tx) error {
			b, err := tx.GetBooking(ctx, candidate.ID)
			if err != nil {
				return err
			}
			if !domain.Refresh(b, uc.deps.now()) {
				return nil
			}
			if err := tx.UpdateBooking(ctx, b); err != nil {
				return err
			}
			updated, changed = *b, true
			return nil
		})
		if err != nil {
			errs = append(errs, err)
			continue
		}
		if !changed {
			continue
		}

		reverted++
		uc.deps.notify(ctx, domain.Change{
			Kind:    domain.ChangeEditClosed,
			Booking: updated,
			At:      uc.deps.now(),
		})
	}

	return reverted, errors.Join(errs...)
}

// Run sweeps every interval until ctx is done.
func (uc *ExpireEditWindows) Run(ctx context.Context, interval time.Duration) {
	ticker := time.NewTicker(interval)
	defer ticker.Stop()

	log := uc.deps.logger()
	for {
		select {
		case <-ctx.Done():
			return
		case <-ticker.C:
			n, err := uc.Execute(ctx)
			if err != nil {
				log.WithError(err).Warn("edit window sweep failed")
			}
			if n > 0 {
				log.WithField("reverted", n).Info("edit windows expired")
			}
		}
	}
}
