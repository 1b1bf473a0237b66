// Package queue wraps a durable RabbitMQ work queue.
package queue

import (
	"context"
	"errors"
	"fmt"
	"sync"
	"time"

	amqp "github.com/rabbitmq/amqp091-go"
	"github.com/yigit/tam/internal/pkg/logger"
)

// ErrClosed is returned when publishing on a closed client
var ErrClosed = errors.New("queue client closed")

// Handler processes one message body. A returned error Nacks the delivery;
// it is requeued once and dropped on the second failure.
type Handler func(ctx context.Context, body []byte) error

// Client publishes to and consumes from one durable queue on the default exchange
type Client struct {
	conn    *amqp.Connection
	channel *amqp.Channel
	queue   string

	mu     sync.Mutex
	closed bool
}

// NewRabbit connects to RabbitMQ and declares the queue
func NewRabbit(url, queue string) (*Client, error) {
	conn, err := amqp.Dial(url)
	if err != nil {
		return nil, fmt.Errorf("failed to connect to RabbitMQ: %w", err)
	}

	ch, err := conn.Channel()
	if err != nil {
		_ = conn.Close()
		return nil, fmt.Errorf("failed to open RabbitMQ channel: %w", err)
	}

	if _, err := ch.QueueDeclare(
		queue,
		true,  // durable
		false, // auto-delete
		false, // exclusive
		false, // no-wait
		nil,
	); err != nil {
		_ = ch.Close()
		_ = conn.Close()
		return nil, fmt.Errorf("failed to declare queue %s: %w", queue, err)
	}

	// One unacknowledged message per consumer
	if err := ch.Qos(1, 0, false); err != nil {
		_ = ch.Close()
		_ = conn.Close()
		return nil, fmt.Errorf("failed to set channel qos: %w", err)
	}

	logger.Info().Str("queue", queue).Msg("RabbitMQ initialized")

	return &Client{conn: conn, channel: ch, queue: queue}, nil
}

// Publish sends a persistent JSON message to the queue
func (c *Client) Publish(ctx context.Context, body []byte) error {
	c.mu.Lock()
	defer c.mu.Unlock()

	if c.closed {
		return ErrClosed
	}

	err := c.channel.PublishWithContext(ctx,
		"",      // default exchange
		c.queue, // routing key
		false,
		false,
		amqp.Publishing{
			ContentType:  "application/json",
			DeliveryMode: amqp.Persistent,
			Timestamp:    time.Now(),
			Body:         body,
		},
	)
	if err != nil {
		return fmt.Errorf("failed to publish message: %w", err)
	}

	logger.Debug().Str("queue", c.queue).Msg("Message published")
	return nil
}

// Consume delivers messages to handler until ctx is cancelled or the channel closes
func (c *Client) Consume(ctx context.Context, handler Handler) error {
	msgs, err := c.channel.Consume(
		c.queue,
		"",    // consumer tag
		false, // auto-ack
		false,
		false,
		false,
		nil,
	)
	if err != nil {
		return fmt.Errorf("failed to start consuming messages: %w", err)
	}

	logger.Info().Str("queue", c.queue).Msg("Started consuming")

	for {
		select {
		case <-ctx.Done():
			return nil
		case d, ok := <-msgs:
			if !ok {
				return nil
			}
			if err := handler(ctx, d.Body); err != nil {
				requeue := !d.Redelivered
				logger.Warn().Err(err).Bool("requeue", requeue).Msg("Failed to process message")
				_ = d.Nack(false, requeue)
				continue
			}
			_ = d.Ack(false)
		}
	}
}

// Close closes the channel and the connection
func (c *Client) Close() {
	c.mu.Lock()
	defer c.mu.Unlock()

	if c.closed {
		return
	}
	c.closed = true

	if c.channel != nil {
		_ = c.channel.Close()
	}
	if c.conn != nil {
		_ = c.conn.Close()
	}
	logger.Info().Msg("RabbitMQ connection closed")
}
