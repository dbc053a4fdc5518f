package messaging

import (
	"context"
	"fmt"

	"github.com/jwalitptl/provider-directory/pkg/metrics"
)

// ChannelPublisher publishes every payload to one broker channel.
type ChannelPublisher struct {
	broker  Broker
	channel string
	metrics *metrics.Metrics
}

// NewChannelPublisher returns a Publisher bound to channel. m may be nil.
func NewChannelPublisher(broker Broker, channel string, m *metrics.Metrics) *ChannelPublisher {
	return &ChannelPublisher{broker: broker, channel: channel, metrics: m}
}

func (p *ChannelPublisher) Publish(ctx context.Context, eventType string, payload interface{}) error {
	err := p.broker.Publish(ctx, p.channel, payload)
	if p.metrics != nil {
		status := "ok"
		if err != nil {
			status = "error"
		}
		p.metrics.EventsPublished.WithLabelValues(eventType, status).Inc()
	}
	if err != nil {
		return fmt.Errorf("failed to publish %s: %w", eventType, err)
	}
	return nil
}
