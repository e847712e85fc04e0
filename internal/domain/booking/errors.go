package booking

import (
	"errors"
	"fmt"

	"github.com/BruksfildServices01/cast-scheduler/internal/httperr"
	"github.com/BruksfildServices01/cast-scheduler/internal/models"
)

// ===============================
// Error taxonomy
// ===============================

var (
	ErrInvalidInterval   = httperr.ErrBusiness("invalid_interval")
	ErrInvalidDuration   = httperr.ErrBusiness("invalid_duration")
	ErrInvalidIdentifier = httperr.ErrBusiness("invalid_identifier")

	ErrSlotUnavailable = httperr.ErrBusiness("slot_unavailable")

	ErrInvalidTransition         = httperr.ErrBusiness("invalid_transition")
	ErrAlreadyCancelled          = httperr.ErrBusiness("already_cancelled")
	ErrCannotModifyCancelled     = httperr.ErrBusiness("cannot_modify_cancelled")
	ErrModificationWindowExpired = httperr.ErrBusiness("modification_window_expired")

	ErrNotFound = httperr.ErrBusiness("not_found")

	ErrTransientStore = httperr.ErrBusiness("transient_store_failure")
)

// SlotUnavailableError carries the bookings that won the slot.
type SlotUnavailableError struct {
	ResourceID string
	Conflicts  []models.Booking
}

func (e *SlotUnavailableError) Error() string {
	return fmt.Sprintf("slot_unavailable: %d conflicting booking(s) on resource %s", len(e.Conflicts), e.ResourceID)
}

func (e *SlotUnavailableError) Unwrap() error {
	return ErrSlotUnavailable
}

// TransitionError names the guard that rejected a status change.
type TransitionError struct {
	BookingID string
	From      Status
	To        Status
	Err       error
	Guard     string
}

func (e *TransitionError) Error() string {
	if e.Guard != "" {
		return fmt.Sprintf("%s (%s): %s -> %s (booking %s)", e.Err, e.Guard, e.From, e.To, e.BookingID)
	}
	return fmt.Sprintf("%s: %s -> %s (booking %s)", e.Err, e.From, e.To, e.BookingID)
}

func (e *TransitionError) Unwrap() error {
	return e.Err
}

// Transient marks a backing-store failure as retryable. Only the atomic unit
// should be retried, since nothing was committed.
func Transient(cause error) error {
	if cause == nil {
		return nil
	}
	return fmt.Errorf("%w: %w", ErrTransientStore, cause)
}

func IsRetryable(err error) bool {
	return errors.Is(err, ErrTransientStore)
}
