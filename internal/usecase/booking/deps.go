package booking

import (
	"context"
	"time"

	"github.com/sirupsen/logrus"
	"go.opentelemetry.io/otel"
	"go.opentelemetry.io/otel/attribute"
	"go.opentelemetry.io/otel/codes"
	"go.opentelemetry.io/otel/trace"

	domain "github.com/BruksfildServices01/cast-scheduler/internal/domain/booking"
	"github.com/BruksfildServices01/cast-scheduler/internal/timezone"
)

var tracer = otel.Tracer("github.com/BruksfildServices01/cast-scheduler/internal/usecase/booking")

// Deps are the collaborators shared by every booking use case.
type Deps struct {
	Repo      domain.Repository
	Directory domain.ResourceDirectory
	Notifier  domain.Notifier
	Log       logrus.FieldLogger

	// Reference timezone for calendar dates.
	Location *time.Location

	// Now defaults to the wall clock.
	Now func() time.Time
}

func (d Deps) location() *time.Location {
	if d.Location == nil {
		return timezone.Location("")
	}
	return d.Location
}

func (d Deps) now() time.Time {
	if d.Now != nil {
		return d.Now().In(d.location())
	}
	return time.Now().In(d.location())
}

func (d Deps) logger() logrus.FieldLogger {
	if d.Log == nil {
		return logrus.StandardLogger()
	}
	return d.Log
}

// notify runs after commit. A failed notification is logged and otherwise
// ignored; the booking stays committed.
func (d Deps) notify(ctx context.Context, c domain.Change) {
	if d.Notifier == nil {
		return
	}
	if err := d.Notifier.Notify(ctx, c); err != nil {
		d.logger().WithError(err).WithFields(logrus.Fields{
			"kind":        c.Kind,
			"booking_id":  c.Booking.ID,
			"resource_id": c.Booking.ResourceID,
		}).Warn("booking notification failed")
	}
}

func startSpan(ctx context.Context, name string, attrs ...attribute.KeyValue) (context.Context, trace.Span) {
	return tracer.Start(ctx, name, trace.WithAttributes(attrs...))
}

func endSpan(span trace.Span, err error) {
	if err != nil {
		span.RecordError(err)
		span.SetStatus(codes.Error, err.Error())
	}
	span.End()
}
