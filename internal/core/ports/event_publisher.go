package ports

import (
	"context"

	"marketplace/internal/core/domain/model/event"
)

// EventPublisher publishes domain events for downstream consumers.
type EventPublisher interface {
	Publish(ctx context.Context, events ...event.Event) error
}

// Notifier delivers a templated notification to a user or to the admin team.
type Notifier interface {
	Notify(ctx context.Context, recipientID, template string, context map[string]string) error
}

// Ledger records money movements: fines, payouts and refunds.
type Ledger interface {
	Record(ctx context.Context, e event.Event) error
}
