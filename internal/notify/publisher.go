package notify

import (
	"context"
	"encoding/json"
	"fmt"
	"time"

	"github.com/sony/gobreaker/v2"
	"github.com/yukikurage/event-management-api/internal/logging"
	"github.com/yukikurage/event-management-api/internal/metrics"
)

// Broker publishes raw message bodies.
type Broker interface {
	Publish(ctx context.Context, body []byte) error
}

// Publisher encodes notifications and publishes them behind a circuit breaker.
// An open breaker fails fast so request handlers never wait on a dead broker.
type Publisher struct {
	broker  Broker
	breaker *gobreaker.CircuitBreaker[struct{}]
	timeout time.Duration
}

// PublisherConfig tunes the breaker.
type PublisherConfig struct {
	FailureThreshold uint32
	OpenTimeout      time.Duration
	PublishTimeout   time.Duration
}

// DefaultPublisherConfig trips after 5 consecutive failures and probes again after 30s.
func DefaultPublisherConfig() PublisherConfig {
	return PublisherConfig{
		FailureThreshold: 5,
		OpenTimeout:      30 * time.Second,
		PublishTimeout:   3 * time.Second,
	}
}

// NewPublisher wraps broker.
func NewPublisher(broker Broker, cfg PublisherConfig) *Publisher {
	settings := gobreaker.Settings{
		Name:        "rabbitmq-publisher",
		MaxRequests: 1,
		Timeout:     cfg.OpenTimeout,
		ReadyToTrip: func(counts gobreaker.Counts) bool {
			return counts.ConsecutiveFailures >= cfg.FailureThreshold
		},
		OnStateChange: func(name string, from, to gobreaker.State) {
			logging.Warn().Str("breaker", name).Str("from", from.String()).Str("to", to.String()).Msg("circuit breaker state changed")
		},
	}

	return &Publisher{
		broker:  broker,
		breaker: gobreaker.NewCircuitBreaker[struct{}](settings),
		timeout: cfg.PublishTimeout,
	}
}

// Notify implements Notifier.
func (p *Publisher) Notify(ctx context.Context, n Notification) error {
	if n.OccurredAt.IsZero() {
		n.OccurredAt = time.Now().UTC()
	}

	body, err := json.Marshal(n)
	if err != nil {
		return fmt.Errorf("failed to encode notification: %w", err)
	}

	_, err = p.breaker.Execute(func() (struct{}, error) {
		pubCtx, cancel := context.WithTimeout(ctx, p.timeout)
		defer cancel()
		return struct{}{}, p.broker.Publish(pubCtx, body)
	})
	if err != nil {
		metrics.NotificationsPublished.WithLabelValues(string(n.Type), "failed").Inc()
		return fmt.Errorf("failed to publish %s: %w", n.Type, err)
	}

	metrics.NotificationsPublished.WithLabelValues(string(n.Type), "published").Inc()
	return nil
}

// State exposes the breaker state; /health reports it.
func (p *Publisher) State() gobreaker.State {
	return p.breaker.State()
}
