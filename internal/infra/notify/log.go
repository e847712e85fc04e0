package notify

import (
	"context"

	"github.com/sirupsen/logrus"

	"github.com/BruksfildServices01/cast-scheduler/internal/domain/booking"
)

// LogNotifier writes changes to the application log. It is the fallback when
// no broker is configured.
type LogNotifier struct {
	log logrus.FieldLogger
}

func NewLogNotifier(log logrus.FieldLogger) *LogNotifier {
	return &LogNotifier{log: log}
}

func (n *LogNotifier) Notify(ctx context.Context, c booking.Change) error {
	fields := logrus.Fields{
		"kind":        c.Kind,
		"booking_id":  c.Booking.ID,
		"resource_id": c.Booking.ResourceID,
		"status":      c.Booking.Status,
		"start":       c.Booking.StartTime,
		"end":         c.Booking.EndTime,
	}
	if c.ActorID != "" {
		fields["actor_id"] = c.ActorID
	}
	if c.PreviousResourceID != "" && c.PreviousResourceID != c.Booking.ResourceID {
		fields["previous_resource_id"] = c.PreviousResourceID
	}

	n.log.WithFields(fields).Info("booking changed")
	return nil
}
