package worker

import (
	"context"
	"encoding/json"
	"fmt"
	"time"

	"github.com/rs/zerolog"

	"github.com/jwalitptl/provider-directory/internal/model"
	"github.com/jwalitptl/provider-directory/pkg/messaging"
	"github.com/jwalitptl/provider-directory/pkg/metrics"
)

const invalidEventType = "invalid"

type EventConsumerConfig struct {
	Channel       string
	RetryAttempts int
	RetryDelay    time.Duration
}

// EventHandler processes one decoded provider change event.
type EventHandler func(ctx context.Context, event model.ProviderEvent) error

type EventConsumer struct {
	broker  messaging.Broker
	config  EventConsumerConfig
	handle  EventHandler
	logger  zerolog.Logger
	metrics *metrics.Metrics
}

func NewEventConsumer(
	broker messaging.Broker,
	config EventConsumerConfig,
	handle EventHandler,
	logger zerolog.Logger,
	metrics *metrics.Metrics,
) *EventConsumer {
	// Config validation instead of defaults
	if config.Channel == "" {
		panic("Channel must not be empty")
	}
	if config.RetryAttempts <= 0 {
		panic("RetryAttempts must be greater than 0")
	}
	if config.RetryDelay <= 0 {
		panic("RetryDelay must be greater than 0")
	}

	return &EventConsumer{
		broker:  broker,
		config:  config,
		handle:  handle,
		logger:  logger.With().Str("channel", config.Channel).Logger(),
		metrics: metrics,
	}
}

// Start subscribes and processes events until ctx is cancelled or the
// subscription ends.
func (c *EventConsumer) Start(ctx context.Context) error {
	var msgs <-chan []byte
	err := retry(ctx, c.config.RetryAttempts, c.config.RetryDelay, func() error {
		var err error
		msgs, err = c.broker.Subscribe(ctx, c.config.Channel)
		return err
	})
	if err != nil {
		return fmt.Errorf("failed to subscribe: %w", err)
	}

	c.logger.Info().Msg("Starting event consumer")

	for {
		select {
		case <-ctx.Done():
			c.logger.Info().Msg("Shutting down event consumer")
			return nil
		case raw, ok := <-msgs:
			if !ok {
				c.logger.Info().Msg("Subscription closed")
				return nil
			}
			c.processMessage(ctx, raw)
		}
	}
}

func (c *EventConsumer) processMessage(ctx context.Context, raw []byte) {
	var event model.ProviderEvent
	if err := json.Unmarshal(raw, &event); err != nil || event.Type == "" {
		c.count(invalidEventType)
		c.logger.Warn().Err(err).Bytes("payload", raw).Msg("Discarding undecodable event")
		return
	}

	c.count(event.Type)
	if err := c.handle(ctx, event); err != nil {
		c.logger.Error().Err(err).
			Str("event_type", event.Type).
			Str("provider_id", event.ProviderID).
			Msg("Failed to process event")
	}
}

func (c *EventConsumer) count(eventType string) {
	if c.metrics != nil {
		c.metrics.EventsConsumed.WithLabelValues(eventType).Inc()
	}
}

// LogEvent returns a handler that records every event in the log.
func LogEvent(logger zerolog.Logger) EventHandler {
	return func(ctx context.Context, event model.ProviderEvent) error {
		logger.Info().
			Str("event_type", event.Type).
			Str("provider_id", event.ProviderID).
			Time("occurred_at", event.OccurredAt).
			Msg("Provider changed")
		return nil
	}
}

// Helper retry function
func retry(ctx context.Context, attempts int, delay time.Duration, fn func() error) error {
	var err error
	for i := 0; i < attempts; i++ {
		if err = fn(); err == nil {
			return nil
		}
		if i < attempts-1 {
			select {
			case <-ctx.Done():
				return ctx.Err()
			case <-time.After(delay):
			}
		}
	}
	return err
}
