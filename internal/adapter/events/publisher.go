// Package events publishes record lifecycle events to RabbitMQ.
package events

import (
	"context"
	"encoding/json"
	"fmt"
	"sync"

	"ai-folio/internal/domain"

	"github.com/rabbitmq/amqp091-go"
	"go.uber.org/zap"
)

// Exchange is the durable topic exchange events are routed through. The
// routing key is the event type, e.g. portfolio.published.
const Exchange = "folio.events"

type Publisher struct {
	mu      sync.Mutex
	conn    *amqp091.Connection
	channel *amqp091.Channel
	enabled bool
	log     *zap.Logger
}

// NewPublisher connects and declares the exchange. An empty URI yields a
// disabled publisher that drops every event.
func NewPublisher(uri string, log *zap.Logger) (*Publisher, error) {
	if uri == "" {
		log.Warn("RabbitMQ URI is empty, event publishing is disabled")
		return &Publisher{log: log}, nil
	}

	conn, err := amqp091.Dial(uri)
	if err != nil {
		return nil, fmt.Errorf("failed to connect to RabbitMQ: %w", err)
	}
	channel, err := conn.Channel()
	if err != nil {
		conn.Close()
		return nil, fmt.Errorf("failed to open a channel: %w", err)
	}
	err = channel.ExchangeDeclare(
		Exchange, // name
		"topic",  // type
		true,     // durable
		false,    // auto-deleted
		false,    // internal
		false,    // no-wait
		nil,      // arguments
	)
	if err != nil {
		channel.Close()
		conn.Close()
		return nil, fmt.Errorf("failed to declare exchange: %w", err)
	}

	log.Info("event publisher initialized", zap.String("exchange", Exchange))
	return &Publisher{conn: conn, channel: channel, enabled: true, log: log}, nil
}

// message builds the AMQP publishing for ev.
func message(ev domain.Event) (string, amqp091.Publishing, error) {
	body, err := json.Marshal(ev)
	if err != nil {
		return "", amqp091.Publishing{}, fmt.Errorf("failed to marshal event: %w", err)
	}
	return string(ev.Type), amqp091.Publishing{
		ContentType:  "application/json",
		DeliveryMode: amqp091.Persistent,
		Timestamp:    ev.OccurredAt,
		MessageId:    ev.RecordID.String() + ":" + string(ev.Type),
		Body:         body,
		Headers: amqp091.Table{
			"event_type": string(ev.Type),
			"record_id":  ev.RecordID.String(),
			"user_id":    ev.UserID.String(),
			"kind":       string(ev.Kind),
		},
	}, nil
}

func (p *Publisher) Publish(ctx context.Context, ev domain.Event) error {
	if !p.enabled {
		p.log.Debug("event publishing disabled, skipping event", zap.String("type", string(ev.Type)))
		return nil
	}
	key, msg, err := message(ev)
	if err != nil {
		return err
	}

	p.mu.Lock()
	defer p.mu.Unlock()
	if err := p.channel.PublishWithContext(ctx, Exchange, key, false, false, msg); err != nil {
		return fmt.Errorf("failed to publish event: %w", err)
	}
	p.log.Debug("published event", zap.String("type", key), zap.Stringer("record_id", ev.RecordID))
	return nil
}

func (p *Publisher) Close() error {
	if !p.enabled {
		return nil
	}
	if p.channel != nil {
		if err := p.channel.Close(); err != nil {
			p.log.Warn("error closing RabbitMQ channel", zap.Error(err))
		}
	}
	if p.conn != nil {
		if err := p.conn.Close(); err != nil {
			return fmt.Errorf("error closing RabbitMQ connection: %w", err)
		}
	}
	return nil
}
