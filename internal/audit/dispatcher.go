package audit

import (
	"context"
	"sync"

	"github.com/sirupsen/logrus"

	"github.com/BruksfildServices01/cast-scheduler/internal/domain/booking"
)

const DefaultQueueSize = 100

type Event struct {
	ResourceID string
	ActorID    string
	Action     string
	Entity     string
	EntityID   string
	Metadata   any
}

// EventFromChange maps a committed booking change to its audit row.
func EventFromChange(c booking.Change) Event {
	meta := map[string]any{
		"status": c.Booking.Status,
		"start":  c.Booking.StartTime,
		"end":    c.Booking.EndTime,
	}
	if c.PreviousInterval != nil {
		meta["previous_start"] = c.PreviousInterval.Start
		meta["previous_end"] = c.PreviousInterval.End
	}
	if c.PreviousResourceID != "" && c.PreviousResourceID != c.Booking.ResourceID {
		meta["previous_resource_id"] = c.PreviousResourceID
	}

	return Event{
		ResourceID: c.Booking.ResourceID,
		ActorID:    c.ActorID,
		Action:     "booking_" + string(c.Kind),
		Entity:     "booking",
		EntityID:   c.Booking.ID,
		Metadata:   meta,
	}
}

// Dispatcher writes audit events on a single background worker. When the
// queue is full the event is dropped; auditing never blocks or fails a
// booking.
type Dispatcher struct {
	sink Sink
	log  logrus.FieldLogger

	mu     sync.RWMutex
	closed bool
	queue  chan Event
	done   chan struct{}
}

func NewDispatcher(sink Sink, log logrus.FieldLogger, size int) *Dispatcher {
	if size <= 0 {
		size = DefaultQueueSize
	}
	d := &Dispatcher{
		sink:  sink,
		log:   log,
		queue: make(chan Event, size),
		done:  make(chan struct{}),
	}

	go d.worker()
	return d
}

func (d *Dispatcher) worker() {
	defer close(d.done)
	for ev := range d.queue {
		if err := d.sink.Log(context.Background(), ev); err != nil {
			d.log.WithError(err).WithField("action", ev.Action).Error("audit write failed")
		}
	}
}

func (d *Dispatcher) Dispatch(ev Event) {
	d.mu.RLock()
	defer d.mu.RUnlock()

	if d.closed {
		return
	}

	select {
	case d.queue <- ev:
	default:
		d.log.WithField("action", ev.Action).Warn("audit queue full, dropping event")
	}
}

// Notify lets the dispatcher sit behind booking.Notifier.
func (d *Dispatcher) Notify(ctx context.Context, c booking.Change) error {
	d.Dispatch(EventFromChange(c))
	return nil
}

// Close drains the queue and waits for the worker.
func (d *Dispatcher) Close() {
	d.mu.Lock()
	if !d.closed {
		d.closed = true
		close(d.queue)
	}
	d.mu.Unlock()

	<-d.done
}

var _ booking.Notifier = (*Dispatcher)(nil)
