package model

import "time"

// Provider change event types
const (
	EventProviderCreated = "provider.created"
	EventProviderUpdated = "provider.updated"
	EventProviderDeleted = "provider.deleted"
)

// ProviderEvent is published after every successful mutation.
type ProviderEvent struct {
	Type       string    `json:"type"`
	ProviderID string    `json:"provider_id"`
	Payload    *Provider `json:"payload"`
	OccurredAt time.Time `json:"occurred_at"`
}
