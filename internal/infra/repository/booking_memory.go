package repository

import (
	"context"
	"fmt"
	"slices"
	"strings"
	"sync"
	"time"

	"github.com/BruksfildServices01/cast-scheduler/internal/domain/booking"
	"github.com/BruksfildServices01/cast-scheduler/internal/models"
)

// MemoryBookingRepository keeps bookings in process. Each resource has a
// single-slot semaphore; writes made inside a unit are staged and only
// applied when the unit succeeds.
type MemoryBookingRepository struct {
	mu       sync.RWMutex
	bookings map[string]models.Booking

	slotsMu sync.Mutex
	slots   map[string]chan struct{}

	lockTimeout time.Duration
	now         func() time.Time
}

func NewMemoryBookingRepository(lockTimeout time.Duration) *MemoryBookingRepository {
	if lockTimeout <= 0 {
		lockTimeout = DefaultLockTimeout
	}
	return &MemoryBookingRepository{
		bookings:    make(map[string]models.Booking),
		slots:       make(map[string]chan struct{}),
		lockTimeout: lockTimeout,
		now:         time.Now,
	}
}

// WithClock stamps CreatedAt and UpdatedAt from now instead of the wall clock.
func (r *MemoryBookingRepository) WithClock(now func() time.Time) *MemoryBookingRepository {
	if now != nil {
		r.now = now
	}
	return r
}

func (r *MemoryBookingRepository) slot(resourceID string) chan struct{} {
	r.slotsMu.Lock()
	defer r.slotsMu.Unlock()

	s, ok := r.slots[resourceID]
	if !ok {
		s = make(chan struct{}, 1)
		r.slots[resourceID] = s
	}
	return s
}

// --------------------------------------------------
// Atomic unit
// --------------------------------------------------

func (r *MemoryBookingRepository) WithResourceLock(
	ctx context.Context,
	resourceIDs []string,
	fn booking.TxFunc,
) error {

	if err := ctx.Err(); err != nil {
		return err
	}

	var held []chan struct{}
	defer func() {
		for i := len(held) - 1; i >= 0; i-- {
			<-held[i]
		}
	}()

	timer := time.NewTimer(r.lockTimeout)
	defer timer.Stop()

	for _, id := range lockOrder(resourceIDs) {
		s := r.slot(id)
		select {
		case s <- struct{}{}:
			held = append(held, s)
		case <-ctx.Done():
			return ctx.Err()
		case <-timer.C:
			return booking.Transient(fmt.Errorf("lock wait on resource %s exceeded %s", id, r.lockTimeout))
		}
	}

	tx := &memoryTx{repo: r, staged: make(map[string]models.Booking)}
	if err := fn(context.WithoutCancel(ctx), tx); err != nil {
		return err
	}

	r.mu.Lock()
	for id, b := range tx.staged {
		r.bookings[id] = b
	}
	r.mu.Unlock()

	return nil
}

// --------------------------------------------------
// Reads
// --------------------------------------------------

func (r *MemoryBookingRepository) GetBooking(
	ctx context.Context,
	id string,
) (*models.Booking, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()

	b, ok := r.bookings[id]
	if !ok {
		return nil, booking.ErrNotFound
	}
	out := cloneBooking(b)
	return &out, nil
}

func (r *MemoryBookingRepository) ListActiveBookings(
	ctx context.Context,
	resourceID string,
	window booking.Interval,
) ([]models.Booking, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()

	return collect(r.bookings, nil, func(b models.Booking) bool {
		return activeIn(b, resourceID, window)
	}), nil
}

func (r *MemoryBookingRepository) ListBookingsForPeriod(
	ctx context.Context,
	resourceID string,
	start time.Time,
	end time.Time,
) ([]models.Booking, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()

	return collect(r.bookings, nil, func(b models.Booking) bool {
		return b.ResourceID == resourceID && !b.StartTime.Before(start) && b.StartTime.Before(end)
	}), nil
}

func (r *MemoryBookingRepository) ListExpiredEditWindows(
	ctx context.Context,
	now time.Time,
) ([]models.Booking, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()

	return collect(r.bookings, nil, func(b models.Booking) bool {
		return b.Status == string(booking.StatusModifiable) &&
			b.ModifiableUntil.Valid &&
			b.ModifiableUntil.V.Before(now)
	}), nil
}

func activeIn(b models.Booking, resourceID string, window booking.Interval) bool {
	return b.ResourceID == resourceID &&
		b.Status != string(booking.StatusCancelled) &&
		booking.Overlaps(booking.IntervalOf(&b), window)
}

// collect returns the matching bookings of base with staged overriding it,
// ordered by start.
func collect(
	base map[string]models.Booking,
	staged map[string]models.Booking,
	match func(models.Booking) bool,
) []models.Booking {

	out := []models.Booking{}
	for id, b := range base {
		if s, ok := staged[id]; ok {
			b = s
		}
		if match(b) {
			out = append(out, cloneBooking(b))
		}
	}
	for id, b := range staged {
		if _, ok := base[id]; ok {
			continue
		}
		if match(b) {
			out = append(out, cloneBooking(b))
		}
	}

	slices.SortFunc(out, func(a, b models.Booking) int {
		if c := a.StartTime.Compare(b.StartTime); c != 0 {
			return c
		}
		return strings.Compare(a.ID, b.ID)
	})
	return out
}

func cloneBooking(b models.Booking) models.Booking {
	b.AddOns = slices.Clone(b.AddOns)
	if b.CancelledAt != nil {
		t := *b.CancelledAt
		b.CancelledAt = &t
	}
	if b.CompletedAt != nil {
		t := *b.CompletedAt
		b.CompletedAt = &t
	}
	return b
}

// --------------------------------------------------
// Transaction view
// --------------------------------------------------

type memoryTx struct {
	repo   *MemoryBookingRepository
	staged map[string]models.Booking
}

func (t *memoryTx) GetBooking(
	ctx context.Context,
	id string,
) (*models.Booking, error) {
	if b, ok := t.staged[id]; ok {
		out := cloneBooking(b)
		return &out, nil
	}
	return t.repo.GetBooking(ctx, id)
}

func (t *memoryTx) ListActiveBookings(
	ctx context.Context,
	resourceID string,
	window booking.Interval,
) ([]models.Booking, error) {
	t.repo.mu.RLock()
	defer t.repo.mu.RUnlock()

	return collect(t.repo.bookings, t.staged, func(b models.Booking) bool {
		return activeIn(b, resourceID, window)
	}), nil
}

func (t *memoryTx) CreateBooking(
	ctx context.Context,
	b *models.Booking,
) error {
	if _, err := t.GetBooking(ctx, b.ID); err == nil {
		return fmt.Errorf("booking %s already exists", b.ID)
	}

	now := t.repo.now()
	b.CreatedAt = now
	b.UpdatedAt = now
	return t.stage(ctx, b)
}

func (t *memoryTx) UpdateBooking(
	ctx context.Context,
	b *models.Booking,
) error {
	if _, err := t.GetBooking(ctx, b.ID); err != nil {
		return err
	}

	b.UpdatedAt = t.repo.now()
	return t.stage(ctx, b)
}

// stage rejects overlapping active bookings the way the database exclusion
// constraint does.
func (t *memoryTx) stage(ctx context.Context, b *models.Booking) error {
	if b.Status != string(booking.StatusCancelled) {
		existing, err := t.ListActiveBookings(ctx, b.ResourceID, booking.IntervalOf(b))
		if err != nil {
			return err
		}
		if conflicts := booking.FindConflicts(existing, booking.IntervalOf(b), b.ID); len(conflicts) > 0 {
			return &booking.SlotUnavailableError{ResourceID: b.ResourceID, Conflicts: conflicts}
		}
	}

	t.staged[b.ID] = cloneBooking(*b)
	return nil
}

var _ booking.Repository = (*MemoryBookingRepository)(nil)
