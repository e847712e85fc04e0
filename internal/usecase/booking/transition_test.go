package booking

import (
	"context"
	"errors"
	"testing"
	"time"

	domain "github.com/BruksfildServices01/cast-scheduler/internal/domain/booking"
)

func TestCancelBooking(t *testing.T) {
	f := newFixture(t)
	ctx := context.Background()
	cancel := NewCancelBooking(f.deps)

	b := f.create(t, "cast-1", at(14, 0), at(15, 0))

	got, err := cancel.Execute(ctx, b.ID, customer)
	if err != nil {
		t.Fatal(err)
	}
	if got.Status != string(domain.StatusCancelled) || got.CancelledAt == nil {
		t.Fatalf("cancelled = %+v", got)
	}
	if f.notifier.last().Kind != domain.ChangeCancelled {
		t.Fatal("cancel should notify")
	}

	_, err = cancel.Execute(ctx, b.ID, customer)
	if !errors.Is(err, domain.ErrAlreadyCancelled) {
		t.Fatalf("second cancel: err = %v", err)
	}

	// A cancelled booking frees its slot.
	f.create(t, "cast-1", at(14, 0), at(15, 0))
}

func TestCancelAfterStart(t *testing.T) {
	f := newFixture(t)
	ctx := context.Background()
	b := f.create(t, "cast-1", at(10, 0), at(11, 0))

	f.clock.Set(at(10, 30))

	_, err := NewCancelBooking(f.deps).Execute(ctx, b.ID, customer)
	var te *domain.TransitionError
	if !errors.As(err, &te) || te.Guard != domain.GuardStartPassed {
		t.Fatalf("err = %v", err)
	}

	if _, err := NewCancelBooking(f.deps).Execute(ctx, b.ID, admin); err != nil {
		t.Fatalf("admin override: %v", err)
	}
}

func TestCompleteBooking(t *testing.T) {
	f := newFixture(t)
	ctx := context.Background()
	complete := NewCompleteBooking(f.deps)

	b := f.create(t, "cast-1", at(10, 0), at(11, 0))
	if _, err := complete.Execute(ctx, b.ID, admin); !errors.Is(err, domain.ErrInvalidTransition) {
		t.Fatalf("pending cannot complete: %v", err)
	}
	if _, err := NewConfirmBooking(f.deps).Execute(ctx, b.ID, admin); err != nil {
		t.Fatal(err)
	}
	if _, err := complete.Execute(ctx, b.ID, customer); !errors.Is(err, domain.ErrInvalidTransition) {
		t.Fatalf("before end: %v", err)
	}

	f.clock.Set(at(11, 0))
	got, err := complete.Execute(ctx, b.ID, customer)
	if err != nil {
		t.Fatal(err)
	}
	if got.Status != string(domain.StatusCompleted) {
		t.Fatalf("status = %s", got.Status)
	}
}

func TestEditWindowLifecycle(t *testing.T) {
	f := newFixture(t)
	ctx := context.Background()

	b := f.create(t, "cast-1", at(14, 0), at(15, 0))
	if _, err := NewConfirmBooking(f.deps).Execute(ctx, b.ID, admin); err != nil {
		t.Fatal(err)
	}

	opened, err := NewOpenEditWindow(f.deps, 10*time.Minute).Execute(ctx, b.ID, admin)
	if err != nil {
		t.Fatal(err)
	}
	if opened.Status != string(domain.StatusModifiable) || !opened.ModifiableUntil.Valid {
		t.Fatalf("opened = %+v", opened)
	}

	closed, err := NewCloseEditWindow(f.deps).Execute(ctx, b.ID, admin)
	if err != nil {
		t.Fatal(err)
	}
	if closed.Status != string(domain.StatusConfirmed) || closed.ModifiableUntil.Valid {
		t.Fatalf("closed = %+v", closed)
	}

	want := []domain.ChangeKind{domain.ChangeCreated, domain.ChangeConfirmed, domain.ChangeEditOpened, domain.ChangeEditClosed}
	got := f.notifier.kinds()
	if len(got) != len(want) {
		t.Fatalf("notifications = %v", got)
	}
	for i := range want {
		if got[i] != want[i] {
			t.Fatalf("notifications = %v, want %v", got, want)
		}
	}
}

func TestGetBookingRefreshesExpiredWindow(t *testing.T) {
	f := newFixture(t)
	ctx := context.Background()

	b := f.create(t, "cast-1", at(14, 0), at(15, 0))
	if _, err := NewConfirmBooking(f.deps).Execute(ctx, b.ID, admin); err != nil {
		t.Fatal(err)
	}
	if _, err := NewOpenEditWindow(f.deps, 10*time.Minute).Execute(ctx, b.ID, admin); err != nil {
		t.Fatal(err)
	}

	f.clock.Set(f.clock.Now().Add(11 * time.Minute))

	got, err := NewGetBooking(f.deps).Execute(ctx, b.ID)
	if err != nil {
		t.Fatal(err)
	}
	if got.Status != string(domain.StatusConfirmed) {
		t.Fatalf("read view should be confirmed, got %s", got.Status)
	}
	if f.stored(t, b.ID).Status != string(domain.StatusModifiable) {
		t.Fatal("reads must not write")
	}

	if _, err := NewGetBooking(f.deps).Execute(ctx, "nope"); !errors.Is(err, domain.ErrNotFound) {
		t.Fatalf("missing: %v", err)
	}
}

func TestExpireEditWindows(t *testing.T) {
	f := newFixture(t)
	ctx := context.Background()

	open := f.create(t, "cast-1", at(14, 0), at(15, 0))
	still := f.create(t, "cast-2", at(14, 0), at(15, 0))
	for id, grace := range map[string]time.Duration{open.ID: 5 * time.Minute, still.ID: time.Hour} {
		if _, err := NewConfirmBooking(f.deps).Execute(ctx, id, admin); err != nil {
			t.Fatal(err)
		}
		if _, err := NewOpenEditWindow(f.deps, grace).Execute(ctx, id, admin); err != nil {
			t.Fatal(err)
		}
	}

	f.clock.Set(f.clock.Now().Add(10 * time.Minute))

	n, err := NewExpireEditWindows(f.deps).Execute(ctx)
	if err != nil || n != 1 {
		t.Fatalf("reverted = %d, err = %v", n, err)
	}
	if f.stored(t, open.ID).Status != string(domain.StatusConfirmed) {
		t.Fatal("expired window should be persisted as confirmed")
	}
	if f.stored(t, still.ID).Status != string(domain.StatusModifiable) {
		t.Fatal("open window must stay modifiable")
	}
	if c := f.notifier.last(); c.Kind != domain.ChangeEditClosed || c.Booking.ID != open.ID {
		t.Fatalf("last change = %+v", c)
	}

	// Nothing left to do.
	if n, _ := NewExpireEditWindows(f.deps).Execute(ctx); n != 0 {
		t.Fatalf("second sweep reverted %d", n)
	}
}

func TestListBookings(t *testing.T) {
	f := newFixture(t)
	ctx := context.Background()

	f.create(t, "cast-1", at(10, 0), at(11, 0))
	f.create(t, "cast-1", at(23, 0), at(23, 30))
	f.create(t, "cast-1", time.Date(2026, 3, 15, 0, 0, 0, 0, tokyo), time.Date(2026, 3, 15, 1, 0, 0, 0, tokyo))
	f.create(t, "cast-2", at(10, 0), at(11, 0))

	list := NewListBookings(f.deps)

	day, err := list.ByDate(ctx, "cast-1", at(0, 0))
	if err != nil {
		t.Fatal(err)
	}
	if len(day) != 2 {
		t.Fatalf("day listing = %d bookings", len(day))
	}

	month, err := list.ByMonth(ctx, "cast-1", 2026, 3)
	if err != nil {
		t.Fatal(err)
	}
	if len(month) != 3 {
		t.Fatalf("month listing = %d bookings", len(month))
	}

	if _, err := list.ByMonth(ctx, "cast-1", 2026, 13); err == nil {
		t.Fatal("month 13 must be rejected")
	}
}
