package commands

import (
	"context"
	"log/slog"

	"marketplace/internal/core/domain/model/event"
	"marketplace/internal/core/domain/model/kernel"
	"marketplace/internal/core/domain/model/order"
	"marketplace/internal/core/domain/services/lifecycle"
	"marketplace/internal/core/domain/services/transition"
	"marketplace/internal/core/ports"
)

// CreateOrderCommandHandler prices and stores a new order, optionally publishing it.
type CreateOrderCommandHandler struct {
	uowFactory OrderUoWFactory
	engine     *lifecycle.Engine
	metrics    ports.TransitionMetrics
	clock      ports.Clock
	logger     *slog.Logger
}

func NewCreateOrderCommandHandler(
	uowFactory OrderUoWFactory,
	engine *lifecycle.Engine,
	metrics ports.TransitionMetrics,
	clock ports.Clock,
	logger *slog.Logger,
) CreateOrderCommandHandler {
	return CreateOrderCommandHandler{
		uowFactory: uowFactory,
		engine:     engine,
		metrics:    metrics,
		clock:      clock,
		logger:     logger.With("component", "create-order-handler"),
	}
}

// Handle creates the order in Draft, or in Available when the command asks to
// publish, and returns the stored snapshot.
func (h *CreateOrderCommandHandler) Handle(ctx context.Context, cmd CreateOrderCommand) (*order.Order, error) {
	if err := cmd.Validate(); err != nil {
		return nil, err
	}

	now := h.clock.Now()
	policy := h.engine.Policy()
	quote, err := policy.Quote(cmd.Details().Pages, cmd.Urgency())
	if err != nil {
		return nil, err
	}

	created, err := order.NewOrder(cmd.OrderID(), cmd.Details(), quote.Pricing(), policy.RevisionStartScore, now)
	if err != nil {
		return nil, err
	}

	var events []event.Event
	if cmd.Publish() {
		res, err := h.engine.ApplyAction(created, order.ActionCreate, kernel.RoleAdmin, transition.Payload{}, now)
		if err != nil {
			h.metrics.TransitionRejected(order.ActionCreate, kernel.RoleAdmin, err)
			return nil, err
		}
		created, events = res.Order, res.Events
	}

	uow := h.uowFactory.Create()
	if err = uow.Begin(ctx); err != nil {
		return nil, err
	}

	defer func() {
		_ = uow.Rollback(ctx)
	}()

	if err = uow.OrderRepository().Add(ctx, created); err != nil {
		return nil, err
	}
	if err = stageEvents(ctx, uow, events); err != nil {
		return nil, err
	}

	if err = uow.Commit(ctx); err != nil {
		return nil, err
	}

	if cmd.Publish() {
		h.metrics.TransitionApplied(order.Draft, created.Status(), order.ActionCreate, kernel.RoleAdmin)
	}
	h.logger.InfoContext(ctx, "order created",
		"order_id", created.ID().String(),
		"number", created.Number(),
		"status", created.Status().String(),
		"total_price", created.TotalPrice(),
	)

	return created, nil
}
