package notify

import (
	"context"
	"errors"

	"github.com/BruksfildServices01/cast-scheduler/internal/domain/booking"
)

// Multi fans a change out to every notifier and joins their errors. One
// failing notifier does not stop the others.
type Multi []booking.Notifier

func (m Multi) Notify(ctx context.Context, c booking.Change) error {
	var errs []error
	for _, n := range m {
		if n == nil {
			continue
		}
		if err := n.Notify(ctx, c); err != nil {
			errs = append(errs, err)
		}
	}
	return errors.Join(errs...)
}
