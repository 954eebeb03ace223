package ports

import (
	"context"
	"time"

	"marketplace/internal/core/domain/model/event"
)

// OutboxMessage is a stored event still waiting for delivery.
type OutboxMessage struct {
	ID       int64
	Envelope event.Envelope
	Attempts int
}

// OutboxRepository stores events in the same transaction as the order they belong to
// and hands them to the relay afterwards.
type OutboxRepository interface {
	Add(ctx context.Context, events ...event.Event) error

	// FetchPending returns up to limit undelivered messages, oldest first, locked for
	// the calling transaction.
	FetchPending(ctx context.Context, limit int) ([]OutboxMessage, error)
	MarkSent(ctx context.Context, id int64, at time.Time) error
	MarkFailed(ctx context.Context, id int64, cause error) error
}
