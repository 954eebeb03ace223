package commands

import (
	"context"
	"errors"
	"fmt"

	"marketplace/internal/core/domain/model/event"
	"marketplace/internal/core/ports"
)

// EventDispatcher hands committed domain events to their consumers. The outbox relay
// is its only caller.
type EventDispatcher interface {
	Dispatch(ctx context.Context, events []event.Event) error
}

// DomainEventDispatcher publishes every event and additionally routes
// NotificationDue to the notifier and money events to the ledger.
type DomainEventDispatcher struct {
	publisher ports.EventPublisher
	notifier  ports.Notifier
	ledger    ports.Ledger
}

func NewDomainEventDispatcher(
	publisher ports.EventPublisher,
	notifier ports.Notifier,
	ledger ports.Ledger,
) *DomainEventDispatcher {
	return &DomainEventDispatcher{
		publisher: publisher,
		notifier:  notifier,
		ledger:    ledger,
	}
}

// Dispatch delivers events in order and continues past failures, which are joined.
func (d *DomainEventDispatcher) Dispatch(ctx context.Context, events []event.Event) error {
	if len(events) == 0 {
		return nil
	}

	var errList []error
	if err := d.publisher.Publish(ctx, events...); err != nil {
		errList = append(errList, fmt.Errorf("publish: %w", err))
	}

	for _, e := range events {
		switch v := e.(type) {
		case event.NotificationDue:
			if err := d.notifier.Notify(ctx, v.RecipientID, v.Template, v.Context); err != nil {
				errList = append(errList, fmt.Errorf("notify %s: %w", v.RecipientID, err))
			}
		case event.FineApplied, event.PaymentDue:
			if err := d.ledger.Record(ctx, e); err != nil {
				errList = append(errList, fmt.Errorf("ledger %s: %w", e.EventID(), err))
			}
		}
	}

	return errors.Join(errList...)
}

// stageEvents writes events to the outbox of the open unit of work. They are delivered
// by the outbox relay once the transaction commits.
func stageEvents(ctx context.Context, uow OutboxRepoFactory, events []event.Event) error {
	if len(events) == 0 {
		return nil
	}
	if err := uow.OutboxRepository().Add(ctx, events...); err != nil {
		return fmt.Errorf("stage %d events: %w", len(events), err)
	}
	return nil
}
