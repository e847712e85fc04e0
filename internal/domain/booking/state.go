package booking

import (
	"database/sql"
	"fmt"
	"time"

	"github.com/BruksfildServices01/cast-scheduler/internal/models"
)

const DefaultModifiableGrace = 30 * time.Minute

// Guards reported through TransitionError.Guard.
const (
	GuardStartPassed   = "start_passed"
	GuardEndNotReached = "end_not_reached"
	GuardEditWindow    = "edit_window"
	GuardElevatedOnly  = "elevated_only"
)

// ===============================
// Domain Actions
// ===============================

func statusOf(b *models.Booking) (Status, error) {
	st, err := ParseStatus(b.Status)
	if err != nil {
		return "", fmt.Errorf("%w: %v", ErrInvalidTransition, err)
	}
	return st, nil
}

func reject(b *models.Booking, from, to Status, err error, guard string) error {
	return &TransitionError{BookingID: b.ID, From: from, To: to, Err: err, Guard: guard}
}

// Refresh applies the automatic modifiable -> confirmed reversion once the
// edit window has passed. It reports whether b changed.
func Refresh(b *models.Booking, now time.Time) bool {
	if Status(b.Status) != StatusModifiable {
		return false
	}
	if b.ModifiableUntil.Valid && !now.After(b.ModifiableUntil.V) {
		return false
	}
	b.Status = string(StatusConfirmed)
	b.ModifiableUntil = sql.Null[time.Time]{}
	return true
}

// Refreshed returns a copy of b with Refresh applied.
func Refreshed(b models.Booking, now time.Time) models.Booking {
	Refresh(&b, now)
	return b
}

func Confirm(b *models.Booking, now time.Time) error {
	Refresh(b, now)
	st, err := statusOf(b)
	if err != nil {
		return err
	}

	switch st {
	case StatusPending:
		b.Status = string(StatusConfirmed)
		return nil
	case StatusConfirmed, StatusModifiable, StatusCancelled, StatusCompleted:
		return reject(b, st, StatusConfirmed, ErrInvalidTransition, "")
	default:
		panic(fmt.Sprintf("unhandled booking status %q", string(st)))
	}
}

// OpenForEdit reopens a confirmed booking for grace; grace <= 0 uses
// DefaultModifiableGrace. Only elevated actors may open a window.
func OpenForEdit(b *models.Booking, actor Actor, now time.Time, grace time.Duration) error {
	Refresh(b, now)
	st, err := statusOf(b)
	if err != nil {
		return err
	}
	if grace <= 0 {
		grace = DefaultModifiableGrace
	}

	switch st {
	case StatusConfirmed:
		if !actor.Elevated() {
			return reject(b, st, StatusModifiable, ErrModificationWindowExpired, GuardElevatedOnly)
		}
		b.Status = string(StatusModifiable)
		b.ModifiableUntil = sql.Null[time.Time]{V: now.Add(grace), Valid: true}
		return nil
	case StatusPending, StatusModifiable, StatusCancelled, StatusCompleted:
		return reject(b, st, StatusModifiable, ErrInvalidTransition, "")
	default:
		panic(fmt.Sprintf("unhandled booking status %q", string(st)))
	}
}

// CloseEdit ends the edit window early. A window that already expired counts
// as closed.
func CloseEdit(b *models.Booking, now time.Time) error {
	if Refresh(b, now) {
		return nil
	}
	st, err := statusOf(b)
	if err != nil {
		return err
	}

	switch st {
	case StatusModifiable:
		b.Status = string(StatusConfirmed)
		b.ModifiableUntil = sql.Null[time.Time]{}
		return nil
	case StatusPending, StatusConfirmed, StatusCancelled, StatusCompleted:
		return reject(b, st, StatusConfirmed, ErrInvalidTransition, "")
	default:
		panic(fmt.Sprintf("unhandled booking status %q", string(st)))
	}
}

// Cancel is allowed before the booking starts, or at any time for an
// elevated actor.
func Cancel(b *models.Booking, actor Actor, now time.Time) error {
	Refresh(b, now)
	st, err := statusOf(b)
	if err != nil {
		return err
	}

	switch st {
	case StatusCancelled:
		return reject(b, st, StatusCancelled, ErrAlreadyCancelled, "")
	case StatusCompleted:
		return reject(b, st, StatusCancelled, ErrInvalidTransition, "")
	case StatusPending, StatusConfirmed, StatusModifiable:
		if !actor.Elevated() && !now.Before(b.StartTime) {
			return reject(b, st, StatusCancelled, ErrInvalidTransition, GuardStartPassed)
		}
		b.Status = string(StatusCancelled)
		b.ModifiableUntil = sql.Null[time.Time]{}
		b.CancelledAt = &now
		return nil
	default:
		panic(fmt.Sprintf("unhandled booking status %q", string(st)))
	}
}

// Complete is allowed from confirmed or modifiable once the booking has
// ended, or earlier for an elevated actor.
func Complete(b *models.Booking, actor Actor, now time.Time) error {
	Refresh(b, now)
	st, err := statusOf(b)
	if err != nil {
		return err
	}

	switch st {
	case StatusConfirmed, StatusModifiable:
		if !actor.Elevated() && now.Before(b.EndTime) {
			return reject(b, st, StatusCompleted, ErrInvalidTransition, GuardEndNotReached)
		}
		b.Status = string(StatusCompleted)
		b.ModifiableUntil = sql.Null[time.Time]{}
		b.CompletedAt = &now
		return nil
	case StatusPending, StatusCancelled, StatusCompleted:
		return reject(b, st, StatusCompleted, ErrInvalidTransition, "")
	default:
		panic(fmt.Sprintf("unhandled booking status %q", string(st)))
	}
}

// CanModify checks whether actor may change b's time, resource or add-ons.
// It looks at the stored status before any lazy reversion so an expired edit
// window is reported as such.
func CanModify(b *models.Booking, actor Actor, now time.Time) error {
	st, err := statusOf(b)
	if err != nil {
		return err
	}

	switch st {
	case StatusCancelled:
		return reject(b, st, st, ErrCannotModifyCancelled, "")
	case StatusCompleted:
		return reject(b, st, st, ErrInvalidTransition, "")
	case StatusPending, StatusConfirmed, StatusModifiable:
		if actor.Elevated() || st == StatusPending {
			return nil
		}
		if st == StatusModifiable && b.ModifiableUntil.Valid && !now.After(b.ModifiableUntil.V) {
			return nil
		}
		return reject(b, st, st, ErrModificationWindowExpired, GuardEditWindow)
	default:
		panic(fmt.Sprintf("unhandled booking status %q", string(st)))
	}
}
