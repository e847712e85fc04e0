package booking

import (
	"context"
	"time"

	"github.com/BruksfildServices01/cast-scheduler/internal/models"
)

type Reader interface {
	// -------- Booking (lookup) --------
	GetBooking(
		ctx context.Context,
		id string,
	) (*models.Booking, error)

	// ListActiveBookings returns non-cancelled bookings of resourceID that
	// intersect window, ordered by start.
	ListActiveBookings(
		ctx context.Context,
		resourceID string,
		window Interval,
	) ([]models.Booking, error)
}

// Tx is the view of the store inside one atomic unit.
type Tx interface {
	Reader

	CreateBooking(
		ctx context.Context,
		b *models.Booking,
	) error

	UpdateBooking(
		ctx context.Context,
		b *models.Booking,
	) error
}

type TxFunc func(ctx context.Context, tx Tx) error

type Repository interface {
	Reader

	// WithResourceLock runs fn as one atomic unit, serialized against every
	// other unit holding any of resourceIDs. fn's writes are committed only
	// when it returns nil. A done ctx before the lock is held aborts with no
	// effect; once held, the unit runs to completion.
	WithResourceLock(
		ctx context.Context,
		resourceIDs []string,
		fn TxFunc,
	) error

	// -------- Listing --------
	ListBookingsForPeriod(
		ctx context.Context,
		resourceID string,
		start time.Time,
		end time.Time,
	) ([]models.Booking, error)

	ListExpiredEditWindows(
		ctx context.Context,
		now time.Time,
	) ([]models.Booking, error)
}

// ResourceDirectory supplies working hours; the engine never writes them.
type ResourceDirectory interface {
	GetCalendar(
		ctx context.Context,
		resourceID string,
	) (*ResourceCalendar, error)
}
