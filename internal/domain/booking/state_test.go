package booking

import (
	"database/sql"
	"errors"
	"testing"
	"time"

	"github.com/BruksfildServices01/cast-scheduler/internal/models"
)

var (
	customer = Actor{ID: "customer-1", Privilege: PrivilegeOrdinary}
	admin    = Actor{ID: "admin-1", Privilege: PrivilegeAdmin}
)

func newBooking(status Status) *models.Booking {
	return &models.Booking{
		ID:         "b-1",
		ResourceID: "cast-1",
		SubjectID:  "customer-1",
		StartTime:  at(14, 0),
		EndTime:    at(15, 0),
		Status:     string(status),
	}
}

func modifiable(until time.Time) *models.Booking {
	b := newBooking(StatusModifiable)
	b.ModifiableUntil = sql.Null[time.Time]{V: until, Valid: true}
	return b
}

// invariant: ModifiableUntil is present iff status is modifiable.
func assertEditWindowInvariant(t *testing.T, b *models.Booking) {
	t.Helper()
	if (Status(b.Status) == StatusModifiable) != b.ModifiableUntil.Valid {
		t.Fatalf("status %s with ModifiableUntil.Valid=%v", b.Status, b.ModifiableUntil.Valid)
	}
}

func TestParseStatusIsClosed(t *testing.T) {
	for _, s := range []string{"pending", "confirmed", "modifiable", "cancelled", "completed"} {
		if _, err := ParseStatus(s); err != nil {
			t.Fatalf("ParseStatus(%q): %v", s, err)
		}
	}
	if _, err := ParseStatus("scheduled"); err == nil {
		t.Fatal("unknown status must be rejected")
	}
}

func TestConfirm(t *testing.T) {
	b := newBooking(StatusPending)
	if err := Confirm(b, at(9, 0)); err != nil {
		t.Fatal(err)
	}
	if b.Status != string(StatusConfirmed) {
		t.Fatalf("status = %s", b.Status)
	}
	if err := Confirm(b, at(9, 0)); !errors.Is(err, ErrInvalidTransition) {
		t.Fatalf("confirming twice: %v", err)
	}
}

func TestOpenAndCloseEditWindow(t *testing.T) {
	now := at(9, 0)
	b := newBooking(StatusConfirmed)

	if err := OpenForEdit(b, admin, now, 15*time.Minute); err != nil {
		t.Fatal(err)
	}
	assertEditWindowInvariant(t, b)
	if !b.ModifiableUntil.V.Equal(now.Add(15 * time.Minute)) {
		t.Fatalf("ModifiableUntil = %v", b.ModifiableUntil.V)
	}

	if err := CloseEdit(b, now.Add(time.Minute)); err != nil {
		t.Fatal(err)
	}
	if b.Status != string(StatusConfirmed) {
		t.Fatalf("status = %s", b.Status)
	}
	assertEditWindowInvariant(t, b)

	pending := newBooking(StatusPending)
	if err := OpenForEdit(pending, admin, now, 0); !errors.Is(err, ErrInvalidTransition) {
		t.Fatalf("pending cannot be reopened: %v", err)
	}
}

func TestOpenForEditRequiresElevatedActor(t *testing.T) {
	now := at(9, 0)
	b := newBooking(StatusConfirmed)

	err := OpenForEdit(b, customer, now, 15*time.Minute)
	if !errors.Is(err, ErrModificationWindowExpired) {
		t.Fatalf("customer reopening: %v", err)
	}
	var te *TransitionError
	if !errors.As(err, &te) || te.Guard != GuardElevatedOnly {
		t.Fatalf("guard = %+v", te)
	}
	if b.Status != string(StatusConfirmed) || b.ModifiableUntil.Valid {
		t.Fatalf("rejected reopen mutated booking: %+v", b)
	}
}

func TestOpenForEditDefaultsGrace(t *testing.T) {
	now := at(9, 0)
	b := newBooking(StatusConfirmed)
	if err := OpenForEdit(b, admin, now, 0); err != nil {
		t.Fatal(err)
	}
	if got := b.ModifiableUntil.V.Sub(now); got != DefaultModifiableGrace {
		t.Fatalf("grace = %v", got)
	}
}

func TestRefreshRevertsExpiredEditWindow(t *testing.T) {
	until := at(9, 30)
	b := modifiable(until)

	if Refresh(b, until) {
		t.Fatal("window is still open at its last instant")
	}
	if !Refresh(b, until.Add(time.Second)) {
		t.Fatal("window should expire after ModifiableUntil")
	}
	if b.Status != string(StatusConfirmed) {
		t.Fatalf("status = %s", b.Status)
	}
	assertEditWindowInvariant(t, b)

	// Expired windows count as closed.
	late := modifiable(until)
	if err := CloseEdit(late, until.Add(time.Hour)); err != nil {
		t.Fatalf("closing an expired window: %v", err)
	}
}

func TestCancel(t *testing.T) {
	beforeStart := at(13, 0)
	afterStart := at(14, 30)

	tests := []struct {
		name    string
		booking *models.Booking
		actor   Actor
		now     time.Time
		wantErr error
		guard   string
	}{
		{"pending before start", newBooking(StatusPending), customer, beforeStart, nil, ""},
		{"confirmed before start", newBooking(StatusConfirmed), customer, beforeStart, nil, ""},
		{"modifiable before start", modifiable(at(13, 30)), customer, beforeStart, nil, ""},
		{"started booking by customer", newBooking(StatusConfirmed), customer, afterStart, ErrInvalidTransition, GuardStartPassed},
		{"exactly at start by customer", newBooking(StatusConfirmed), customer, at(14, 0), ErrInvalidTransition, GuardStartPassed},
		{"started booking by admin", newBooking(StatusConfirmed), admin, afterStart, nil, ""},
		{"completed", newBooking(StatusCompleted), admin, beforeStart, ErrInvalidTransition, ""},
		{"already cancelled", newBooking(StatusCancelled), customer, beforeStart, ErrAlreadyCancelled, ""},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			err := Cancel(tt.booking, tt.actor, tt.now)
			if tt.wantErr == nil {
				if err != nil {
					t.Fatalf("unexpected error: %v", err)
				}
				if tt.booking.Status != string(StatusCancelled) || tt.booking.CancelledAt == nil {
					t.Fatalf("booking not cancelled: %+v", tt.booking)
				}
				assertEditWindowInvariant(t, tt.booking)
				return
			}
			if !errors.Is(err, tt.wantErr) {
				t.Fatalf("err = %v, want %v", err, tt.wantErr)
			}
			var te *TransitionError
			if !errors.As(err, &te) || te.Guard != tt.guard {
				t.Fatalf("guard = %+v, want %q", te, tt.guard)
			}
		})
	}
}

func TestAlreadyCancelledIsDistinctFromInvalidTransition(t *testing.T) {
	err := Cancel(newBooking(StatusCancelled), admin, at(9, 0))
	if !errors.Is(err, ErrAlreadyCancelled) {
		t.Fatalf("err = %v", err)
	}
	if errors.Is(err, ErrInvalidTransition) {
		t.Fatal("AlreadyCancelled must not read as a generic invalid transition")
	}
}

func TestCancelledIsTerminal(t *testing.T) {
	now := at(9, 0)
	for name, apply := range map[string]func(*models.Booking) error{
		"confirm":    func(b *models.Booking) error { return Confirm(b, now) },
		"open edit":  func(b *models.Booking) error { return OpenForEdit(b, admin, now, time.Minute) },
		"close edit": func(b *models.Booking) error { return CloseEdit(b, now) },
		"complete":   func(b *models.Booking) error { return Complete(b, admin, at(16, 0)) },
	} {
		b := newBooking(StatusCancelled)
		if err := apply(b); !errors.Is(err, ErrInvalidTransition) {
			t.Fatalf("%s on cancelled: %v", name, err)
		}
		if b.Status != string(StatusCancelled) || b.ModifiableUntil.Valid || b.CompletedAt != nil {
			t.Fatalf("%s mutated a cancelled booking: %+v", name, b)
		}
	}
}

func TestComplete(t *testing.T) {
	tests := []struct {
		name    string
		booking *models.Booking
		actor   Actor
		now     time.Time
		wantErr error
	}{
		{"confirmed after end", newBooking(StatusConfirmed), customer, at(15, 0), nil},
		{"modifiable after end", modifiable(at(16, 0)), customer, at(15, 30), nil},
		{"confirmed before end", newBooking(StatusConfirmed), customer, at(14, 30), ErrInvalidTransition},
		{"admin override before end", newBooking(StatusConfirmed), admin, at(14, 30), nil},
		{"pending", newBooking(StatusPending), admin, at(16, 0), ErrInvalidTransition},
		{"completed twice", newBooking(StatusCompleted), admin, at(16, 0), ErrInvalidTransition},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			err := Complete(tt.booking, tt.actor, tt.now)
			if !errors.Is(err, tt.wantErr) {
				t.Fatalf("err = %v, want %v", err, tt.wantErr)
			}
			if tt.wantErr == nil {
				if tt.booking.Status != string(StatusCompleted) || tt.booking.CompletedAt == nil {
					t.Fatalf("booking not completed: %+v", tt.booking)
				}
				assertEditWindowInvariant(t, tt.booking)
			}
		})
	}
}

func TestCanModify(t *testing.T) {
	now := at(9, 0)

	tests := []struct {
		name    string
		booking *models.Booking
		actor   Actor
		wantErr error
	}{
		{"pending by customer", newBooking(StatusPending), customer, nil},
		{"open window by customer", modifiable(now.Add(time.Minute)), customer, nil},
		{"expired window by customer", modifiable(now.Add(-time.Minute)), customer, ErrModificationWindowExpired},
		{"expired window by admin", modifiable(now.Add(-time.Minute)), admin, nil},
		{"confirmed by customer", newBooking(StatusConfirmed), customer, ErrModificationWindowExpired},
		{"confirmed by admin", newBooking(StatusConfirmed), admin, nil},
		{"cancelled by admin", newBooking(StatusCancelled), admin, ErrCannotModifyCancelled},
		{"completed", newBooking(StatusCompleted), admin, ErrInvalidTransition},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			err := CanModify(tt.booking, tt.actor, now)
			if tt.wantErr == nil {
				if err != nil {
					t.Fatalf("unexpected error: %v", err)
				}
				return
			}
			if !errors.Is(err, tt.wantErr) {
				t.Fatalf("err = %v, want %v", err, tt.wantErr)
			}
		})
	}
}

func TestCorruptStatusIsRejected(t *testing.T) {
	b := newBooking("scheduled")
	if err := Cancel(b, admin, at(9, 0)); !errors.Is(err, ErrInvalidTransition) {
		t.Fatalf("err = %v", err)
	}
}
