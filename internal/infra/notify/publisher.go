package notify

import (
	"context"
	"encoding/json"
	"fmt"
	"sync"
	"time"

	amqp "github.com/rabbitmq/amqp091-go"

	"github.com/BruksfildServices01/cast-scheduler/internal/domain/booking"
	"github.com/BruksfildServices01/cast-scheduler/internal/dto"
)

const DefaultExchange = "cast.bookings"

// Message is the JSON body published for every booking change.
type Message struct {
	Kind    booking.ChangeKind `json:"kind"`
	Booking dto.BookingDTO     `json:"booking"`

	PreviousStart      *time.Time `json:"previous_start,omitempty"`
	PreviousEnd        *time.Time `json:"previous_end,omitempty"`
	PreviousResourceID string     `json:"previous_resource_id,omitempty"`

	ActorID string    `json:"actor_id,omitempty"`
	At      time.Time `json:"at"`
}

func NewMessage(c booking.Change) Message {
	m := Message{
		Kind:               c.Kind,
		Booking:            dto.FromBooking(c.Booking),
		PreviousResourceID: c.PreviousResourceID,
		ActorID:            c.ActorID,
		At:                 c.At,
	}
	if c.PreviousInterval != nil {
		start, end := c.PreviousInterval.Start, c.PreviousInterval.End
		m.PreviousStart, m.PreviousEnd = &start, &end
	}
	return m
}

// RoutingKey is booking.<kind>, e.g. booking.cancelled.
func RoutingKey(kind booking.ChangeKind) string {
	return "booking." + string(kind)
}

// Publisher sends changes to a topic exchange. A channel is not safe for
// concurrent publishing, so publishes are serialized.
type Publisher struct {
	mu       sync.Mutex
	conn     *amqp.Connection
	ch       *amqp.Channel
	exchange string
}

func NewPublisher(url, exchange string) (*Publisher, error) {
	if exchange == "" {
		exchange = DefaultExchange
	}

	conn, err := amqp.Dial(url)
	if err != nil {
		return nil, fmt.Errorf("dial rabbitmq: %w", err)
	}
	ch, err := conn.Channel()
	if err != nil {
		_ = conn.Close()
		return nil, fmt.Errorf("open channel: %w", err)
	}
	if err := ch.ExchangeDeclare(exchange, "topic", true, false, false, false, nil); err != nil {
		_ = ch.Close()
		_ = conn.Close()
		return nil, fmt.Errorf("declare exchange: %w", err)
	}
	return &Publisher{conn: conn, ch: ch, exchange: exchange}, nil
}

func (p *Publisher) Notify(ctx context.Context, c booking.Change) error {
	body, err := json.Marshal(NewMessage(c))
	if err != nil {
		return err
	}

	p.mu.Lock()
	defer p.mu.Unlock()

	return p.ch.PublishWithContext(ctx, p.exchange, RoutingKey(c.Kind), false, false, amqp.Publishing{
		ContentType:  "application/json",
		DeliveryMode: amqp.Persistent,
		MessageId:    c.Booking.ID + ":" + string(c.Kind) + ":" + c.At.Format(time.RFC3339Nano),
		Timestamp:    c.At,
		Body:         body,
	})
}

func (p *Publisher) Close() error {
	if p.ch != nil {
		_ = p.ch.Close()
	}
	if p.conn != nil {
		return p.conn.Close()
	}
	return nil
}

var _ booking.Notifier = (*Publisher)(nil)
