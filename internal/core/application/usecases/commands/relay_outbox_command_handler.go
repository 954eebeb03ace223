package commands

import (
	"context"
	"errors"
	"fmt"
	"log/slog"

	"marketplace/internal/core/domain/model/event"
	"marketplace/internal/core/ports"
)

// RelayOutboxResult summarizes one relay pass.
type RelayOutboxResult struct {
	Fetched int
	Sent    int
	Failed  int
}

// RelayOutboxCommandHandler delivers staged events to the dispatcher and records
// the outcome per message. Delivery is at least once: a message is only marked sent
// after every consumer accepted it, and a retry republishes the whole envelope.
// Consumers deduplicate on the event id.
type RelayOutboxCommandHandler struct {
	uowFactory OrderUoWFactory
	dispatcher EventDispatcher
	clock      ports.Clock
	logger     *slog.Logger
}

func NewRelayOutboxCommandHandler(
	uowFactory OrderUoWFactory,
	dispatcher EventDispatcher,
	clock ports.Clock,
	logger *slog.Logger,
) RelayOutboxCommandHandler {
	return RelayOutboxCommandHandler{
		uowFactory: uowFactory,
		dispatcher: dispatcher,
		clock:      clock,
		logger:     logger.With("component", "relay-outbox-handler"),
	}
}

// Handle runs one pass in a single transaction. Messages that fail to deliver stay
// pending with their attempt counted; their errors are joined into the result.
func (h *RelayOutboxCommandHandler) Handle(ctx context.Context, cmd RelayOutboxCommand) (RelayOutboxResult, error) {
	if err := cmd.Validate(); err != nil {
		return RelayOutboxResult{}, err
	}

	uow := h.uowFactory.Create()
	if err := uow.Begin(ctx); err != nil {
		return RelayOutboxResult{}, err
	}

	defer func() {
		_ = uow.Rollback(ctx)
	}()

	outbox := uow.OutboxRepository()
	pending, err := outbox.FetchPending(ctx, cmd.BatchSize())
	if err != nil {
		return RelayOutboxResult{}, err
	}

	result := RelayOutboxResult{Fetched: len(pending)}
	var errList []error
	for _, msg := range pending {
		deliverErr := h.deliver(ctx, msg)
		if deliverErr == nil {
			if err = outbox.MarkSent(ctx, msg.ID, h.clock.Now()); err != nil {
				return result, err
			}
			result.Sent++
			continue
		}

		result.Failed++
		errList = append(errList, fmt.Errorf("event %s: %w", msg.Envelope.ID, deliverErr))
		h.logger.WarnContext(ctx, "outbox delivery failed",
			"event_id", msg.Envelope.ID.String(),
			"order_id", msg.Envelope.OrderID.String(),
			"type", string(msg.Envelope.Type),
			"attempt", msg.Attempts+1,
			"error", deliverErr,
		)
		if err = outbox.MarkFailed(ctx, msg.ID, deliverErr); err != nil {
			return result, err
		}
	}

	if err = uow.Commit(ctx); err != nil {
		return result, err
	}

	return result, errors.Join(errList...)
}

func (h *RelayOutboxCommandHandler) deliver(ctx context.Context, msg ports.OutboxMessage) error {
	e, err := msg.Envelope.Unwrap()
	if err != nil {
		return err
	}
	return h.dispatcher.Dispatch(ctx, []event.Event{e})
}
