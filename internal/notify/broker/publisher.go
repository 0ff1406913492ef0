package broker

import (
	"context"
	"fmt"
	"log/slog"
	"strings"
	"time"

	"github.com/google/uuid"
	"github.com/rabbitmq/amqp091-go"

	"github.com/Jayasakthi-07/foodie/internal/notify"
)

type channel interface {
	ExchangeDeclare(name, kind string, durable, autoDelete, internal, noWait bool, args amqp091.Table) error
	PublishWithContext(ctx context.Context, exchange, key string, mandatory, immediate bool, msg amqp091.Publishing) error
	Close() error
}

// Publisher mirrors notifications to a RabbitMQ topic exchange.
type Publisher struct {
	exchange    string
	logger      *slog.Logger
	openChannel func() (channel, error)
	closeConn   func() error
}

// New dials RabbitMQ and declares the durable topic exchange.
func New(url, exchange string, logger *slog.Logger) (*Publisher, error) {
	conn, err := amqp091.Dial(url)
	if err != nil {
		return nil, fmt.Errorf("connect rabbitmq: %w", err)
	}

	p := &Publisher{
		exchange: exchange,
		logger:   logger,
		openChannel: func() (channel, error) {
			ch, err := conn.Channel()
			if err != nil {
				return nil, err
			}
			return ch, nil
		},
		closeConn: conn.Close,
	}
	if err := p.declare(); err != nil {
		_ = conn.Close()
		return nil, err
	}
	return p, nil
}

func (p *Publisher) declare() error {
	ch, err := p.openChannel()
	if err != nil {
		return fmt.Errorf("open channel: %w", err)
	}
	defer ch.Close()

	if err := ch.ExchangeDeclare(p.exchange, amqp091.ExchangeTopic, true, false, false, false, nil); err != nil {
		return fmt.Errorf("declare exchange: %w", err)
	}
	return nil
}

// RoutingKey converts a notification topic into an AMQP routing key.
func RoutingKey(topic string) string {
	return strings.ReplaceAll(topic, ":", ".")
}

// Publish implements notify.Publisher.
func (p *Publisher) Publish(ctx context.Context, topic string, event notify.Event) error {
	body, err := notify.Encode(topic, event)
	if err != nil {
		return err
	}

	ch, err := p.openChannel()
	if err != nil {
		return fmt.Errorf("open channel: %w", err)
	}
	defer ch.Close()

	err = ch.PublishWithContext(ctx, p.exchange, RoutingKey(topic), false, false, amqp091.Publishing{
		ContentType:  "application/json",
		DeliveryMode: amqp091.Persistent,
		MessageId:    uuid.NewString(),
		Timestamp:    time.Now().UTC(),
		Type:         event.Name,
		Body:         body,
	})
	if err != nil {
		return fmt.Errorf("publish to %s: %w", p.exchange, err)
	}
	p.logger.Debug("event mirrored to broker", slog.String("event", event.Name), slog.String("topic", topic))
	return nil
}

// Close releases the broker connection.
func (p *Publisher) Close() error {
	if p.closeConn == nil {
		return nil
	}
	return p.closeConn()
}
