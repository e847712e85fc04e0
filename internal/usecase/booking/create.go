package booking

import (
	"context"
	"strings"
	"time"

	"github.com/google/uuid"
	"go.opentelemetry.io/otel/attribute"

	domain "github.com/BruksfildServices01/cast-scheduler/internal/domain/booking"
	"github.com/BruksfildServices01/cast-scheduler/internal/models"
)

// ======================================================
// INPUT
// ======================================================

type CreateBookingInput struct {
	ResourceID string
	SubjectID  string

	Start time.Time
	End   time.Time

	AddOns []string

	// Confirm overrides the configured auto-confirm policy when set.
	Confirm *bool

	Actor domain.Actor
}

// ======================================================
// USE CASE
// ======================================================

type CreateBooking struct {
	deps        Deps
	autoConfirm bool
}

func NewCreateBooking(
	deps Deps,
	autoConfirm bool,
) *CreateBooking {
	return &CreateBooking{
		deps:        deps,
		autoConfirm: autoConfirm,
	}
}

// ======================================================
// EXECUTE
// ======================================================

func (uc *CreateBooking) Execute(
	ctx context.Context,
	in CreateBookingInput,
) (_ *models.Booking, err error) {

	ctx, span := startSpan(ctx, "booking.create", attribute.String("resource_id", in.ResourceID))
	defer func() { endSpan(span, err) }()

	// --------------------------------------------------
	// 1. Validation, before touching the store
	// --------------------------------------------------
	if strings.TrimSpace(in.ResourceID) == "" || strings.TrimSpace(in.SubjectID) == "" {
		return nil, domain.ErrInvalidIdentifier
	}

	iv, err := domain.NewInterval(in.Start, in.End)
	if err != nil {
		return nil, err
	}

	autoConfirm := uc.autoConfirm
	if in.Confirm != nil {
		autoConfirm = *in.Confirm
	}

	b := &models.Booking{
		ID:         uuid.NewString(),
		ResourceID: in.ResourceID,
		SubjectID:  in.SubjectID,
		StartTime:  iv.Start,
		EndTime:    iv.End,
		Status:     string(domain.InitialStatus(autoConfirm)),
		AddOns:     models.NewAddOnSet(in.AddOns),
	}

	// --------------------------------------------------
	// 2. Check and insert as one unit
	// --------------------------------------------------
	err = uc.deps.Repo.WithResourceLock(ctx, []string{in.ResourceID}, func(ctx context.Context, tx domain.Tx) error {
		existing, err := tx.ListActiveBookings(ctx, in.ResourceID, iv)
		if err != nil {
			return err
		}
		if conflicts := domain.FindConflicts(existing, iv, ""); len(conflicts) > 0 {
			return &domain.SlotUnavailableError{ResourceID: in.ResourceID, Conflicts: conflicts}
		}
		return tx.CreateBooking(ctx, b)
	})
	if err != nil {
		return nil, err
	}

	// --------------------------------------------------
	// 3. Notification
	// --------------------------------------------------
	uc.deps.notify(ctx, domain.Change{
		Kind:    domain.ChangeCreated,
		Booking: *b,
		ActorID: in.Actor.ID,
		At:      uc.deps.now(),
	})

	return b, nil
}
