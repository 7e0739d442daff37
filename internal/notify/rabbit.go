package notify

import (
	"context"
	"errors"
	"fmt"
	"sync"
	"time"

	amqp "github.com/rabbitmq/amqp091-go"
	"github.com/yukikurage/event-management-api/internal/logging"
)

// ErrConsumerClosed is returned when the broker closes the delivery channel.
var ErrConsumerClosed = errors.New("rabbitmq delivery channel closed")

// RabbitClient owns one connection and channel, re-dialing after the broker drops them.
type RabbitClient struct {
	url         string
	exchange    string
	queue       string
	dialTimeout time.Duration

	mu      sync.Mutex
	conn    *amqp.Connection
	channel *amqp.Channel
}

// NewRabbitClient creates a client. No connection is made until first use.
// dialTimeout bounds both the TCP dial and the AMQP handshake.
func NewRabbitClient(url, exchange, queue string, dialTimeout time.Duration) *RabbitClient {
	return &RabbitClient{url: url, exchange: exchange, queue: queue, dialTimeout: dialTimeout}
}

// Connect dials the broker and declares the exchange, queue and binding.
func (c *RabbitClient) Connect() error {
	c.mu.Lock()
	defer c.mu.Unlock()
	_, err := c.ensureChannel()
	return err
}

func (c *RabbitClient) ensureChannel() (*amqp.Channel, error) {
	if c.conn != nil && !c.conn.IsClosed() && c.channel != nil && !c.channel.IsClosed() {
		return c.channel, nil
	}
	c.closeLocked()

	conn, err := amqp.DialConfig(c.url, amqp.Config{
		Heartbeat: 10 * time.Second,
		Locale:    "en_US",
		Dial:      amqp.DefaultDial(c.dialTimeout),
	})
	if err != nil {
		return nil, fmt.Errorf("failed to connect to RabbitMQ: %w", err)
	}

	ch, err := conn.Channel()
	if err != nil {
		_ = conn.Close()
		return nil, fmt.Errorf("failed to open RabbitMQ channel: %w", err)
	}

	if err := ch.ExchangeDeclare(c.exchange, "direct", true, false, false, false, nil); err != nil {
		_ = conn.Close()
		return nil, fmt.Errorf("failed to declare exchange: %w", err)
	}
	if _, err := ch.QueueDeclare(c.queue, true, false, false, false, nil); err != nil {
		_ = conn.Close()
		return nil, fmt.Errorf("failed to declare queue: %w", err)
	}
	if err := ch.QueueBind(c.queue, c.queue, c.exchange, false, nil); err != nil {
		_ = conn.Close()
		return nil, fmt.Errorf("failed to bind queue: %w", err)
	}

	c.conn = conn
	c.channel = ch
	logging.Info().Str("exchange", c.exchange).Str("queue", c.queue).Msg("RabbitMQ initialized")
	return ch, nil
}

// Publish sends a persistent JSON message to the exchange.
func (c *RabbitClient) Publish(ctx context.Context, body []byte) error {
	c.mu.Lock()
	defer c.mu.Unlock()

	ch, err := c.ensureChannel()
	if err != nil {
		return err
	}

	return ch.PublishWithContext(ctx, c.exchange, c.queue, false, false, amqp.Publishing{
		ContentType:  "application/json",
		DeliveryMode: amqp.Persistent,
		Timestamp:    time.Now(),
		Body:         body,
	})
}

// Consume delivers messages to handler until ctx is done or the channel closes.
// Failed messages are requeued once, then dropped.
func (c *RabbitClient) Consume(ctx context.Context, handler func(context.Context, []byte) error) error {
	c.mu.Lock()
	ch, err := c.ensureChannel()
	if err == nil {
		err = ch.Qos(10, 0, false)
	}
	var deliveries <-chan amqp.Delivery
	if err == nil {
		deliveries, err = ch.Consume(c.queue, "", false, false, false, false, nil)
	}
	c.mu.Unlock()
	if err != nil {
		return fmt.Errorf("failed to start consuming: %w", err)
	}

	logging.Info().Str("queue", c.queue).Msg("started consuming")

	for {
		select {
		case <-ctx.Done():
			return ctx.Err()
		case d, ok := <-deliveries:
			if !ok {
				return ErrConsumerClosed
			}
			if err := handler(ctx, d.Body); err != nil {
				logging.Warn().Err(err).Bool("redelivered", d.Redelivered).Msg("failed to process message")
				_ = d.Nack(false, !d.Redelivered)
				continue
			}
			_ = d.Ack(false)
		}
	}
}

// Close closes the channel and connection.
func (c *RabbitClient) Close() {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.closeLocked()
	logging.Info().Msg("RabbitMQ connection closed")
}

func (c *RabbitClient) closeLocked() {
	if c.channel != nil {
		_ = c.channel.Close()
		c.channel = nil
	}
	if c.conn != nil {
		_ = c.conn.Close()
		c.conn = nil
	}
}
