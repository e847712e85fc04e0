package booking

import (
	"context"
	"time"

	"github.com/BruksfildServices01/cast-scheduler/internal/models"
)

type ChangeKind string

const (
	ChangeCreated    ChangeKind = "created"
	ChangeModified   ChangeKind = "modified"
	ChangeCancelled  ChangeKind = "cancelled"
	ChangeConfirmed  ChangeKind = "confirmed"
	ChangeEditOpened ChangeKind = "edit_opened"
	ChangeEditClosed ChangeKind = "edit_closed"
	ChangeCompleted  ChangeKind = "completed"
)

// Change is handed to the notifier after a successful commit.
type Change struct {
	Kind    ChangeKind
	Booking models.Booking

	// Set for ChangeModified.
	PreviousInterval   *Interval
	PreviousResourceID string

	ActorID string
	At      time.Time
}

// Notifier failures never undo or fail the booking operation.
type Notifier interface {
	Notify(ctx context.Context, change Change) error
}

type NotifierFunc func(ctx context.Context, change Change) error

func (f NotifierFunc) Notify(ctx context.Context, change Change) error {
	return f(ctx, change)
}
