// Package events publishes domain events to a RabbitMQ topic exchange.
package events

import (
	"context"
	"encoding/json"
	"fmt"
	"log/slog"
	"sync"
	"time"

	"github.com/google/uuid"
	amqp "github.com/rabbitmq/amqp091-go"

	"github.com/simp-lee/quizhub/internal/pkg"
)

// Routing keys of the published events.
const (
	QuizCreated  = "quiz.created"
	UserFollowed = "user.followed"
)

// Event is a message published after a state change has been committed.
type Event struct {
	Type       string
	Payload    any
	OccurredAt time.Time
	// CorrelationID is the id of the request that caused the event.
	CorrelationID string
}

// QuizCreatedPayload is the body of a quiz.created event.
type QuizCreatedPayload struct {
	QuizID    uint   `json:"quiz_id"`
	CreatorID uint   `json:"creator_id"`
	Title     string `json:"title"`
}

// UserFollowedPayload is the body of a user.followed event.
type UserFollowedPayload struct {
	FollowerID uint `json:"follower_id"`
	FollowedID uint `json:"followed_id"`
}

// Publisher sends events to subscribers.
type Publisher interface {
	Publish(ctx context.Context, evt Event) error
	Close() error
}

// Emit publishes evt and logs instead of failing when delivery is not possible.
func Emit(ctx context.Context, p Publisher, evt Event) {
	if p == nil {
		return
	}
	if evt.OccurredAt.IsZero() {
		evt.OccurredAt = time.Now().UTC()
	}
	if evt.CorrelationID == "" {
		evt.CorrelationID = pkg.RequestIDFromContext(ctx)
	}
	if err := p.Publish(ctx, evt); err != nil {
		slog.WarnContext(ctx, "event publish failed",
			slog.String("event", evt.Type),
			slog.Any("error", err),
		)
	}
}

// amqpChannel is the subset of *amqp.Channel used by RabbitPublisher.
type amqpChannel interface {
	PublishWithContext(ctx context.Context, exchange, key string, mandatory, immediate bool, msg amqp.Publishing) error
	Close() error
}

// RabbitPublisher publishes JSON events to a durable topic exchange.
type RabbitPublisher struct {
	conn     *amqp.Connection
	channel  amqpChannel
	exchange string
	mu       sync.Mutex
}

// NewRabbitPublisher dials url and declares the topic exchange.
func NewRabbitPublisher(url, exchange string) (*RabbitPublisher, error) {
	conn, err := amqp.Dial(url)
	if err != nil {
		return nil, fmt.Errorf("failed to connect to RabbitMQ: %w", err)
	}

	ch, err := conn.Channel()
	if err != nil {
		conn.Close()
		return nil, fmt.Errorf("failed to open channel: %w", err)
	}

	if err := ch.ExchangeDeclare(
		exchange,
		amqp.ExchangeTopic,
		true,  // durable
		false, // auto-deleted
		false, // internal
		false, // no-wait
		nil,
	); err != nil {
		ch.Close()
		conn.Close()
		return nil, fmt.Errorf("failed to declare exchange %s: %w", exchange, err)
	}

	return &RabbitPublisher{conn: conn, channel: ch, exchange: exchange}, nil
}

func newRabbitPublisherWithChannel(ch amqpChannel, exchange string) *RabbitPublisher {
	return &RabbitPublisher{channel: ch, exchange: exchange}
}

// Publish sends evt with its type as the routing key.
func (p *RabbitPublisher) Publish(ctx context.Context, evt Event) error {
	body, err := json.Marshal(evt.Payload)
	if err != nil {
		return fmt.Errorf("encode %s payload: %w", evt.Type, err)
	}

	p.mu.Lock()
	defer p.mu.Unlock()

	return p.channel.PublishWithContext(
		ctx,
		p.exchange,
		evt.Type,
		false, // mandatory
		false, // immediate
		amqp.Publishing{
			ContentType:   "application/json",
			DeliveryMode:  amqp.Persistent,
			MessageId:     uuid.NewString(),
			CorrelationId: evt.CorrelationID,
			Type:          evt.Type,
			Timestamp:     evt.OccurredAt,
			Body:          body,
		},
	)
}

// Close closes the channel and the connection.
func (p *RabbitPublisher) Close() error {
	if p.channel != nil {
		p.channel.Close()
	}
	if p.conn != nil {
		return p.conn.Close()
	}
	return nil
}

// Nop discards every event. It is used when events are disabled.
type Nop struct{}

func (Nop) Publish(context.Context, Event) error { return nil }
func (Nop) Close() error                         { return nil }
