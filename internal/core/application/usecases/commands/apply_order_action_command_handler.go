package commands

import (
	"context"
	"log/slog"

	"marketplace/internal/core/domain/model/order"
	"marketplace/internal/core/domain/services/lifecycle"
	"marketplace/internal/core/ports"
)

// ApplyOrderActionCommandHandler runs one lifecycle transition end to end:
// load, admit and apply, store with a version check and stage the events, commit.
type ApplyOrderActionCommandHandler struct {
	uowFactory OrderUoWFactory
	engine     *lifecycle.Engine
	metrics    ports.TransitionMetrics
	clock      ports.Clock
	logger     *slog.Logger
}

func NewApplyOrderActionCommandHandler(
	uowFactory OrderUoWFactory,
	engine *lifecycle.Engine,
	metrics ports.TransitionMetrics,
	clock ports.Clock,
	logger *slog.Logger,
) ApplyOrderActionCommandHandler {
	return ApplyOrderActionCommandHandler{
		uowFactory: uowFactory,
		engine:     engine,
		metrics:    metrics,
		clock:      clock,
		logger:     logger.With("component", "apply-order-action-handler"),
	}
}

// Handle returns the new order snapshot. Rejections from the transition table are
// returned unwrapped so callers can match them with errors.Is and errors.As.
// A concurrent update of the same order surfaces as errs.VersionIsInvalidError.
func (h *ApplyOrderActionCommandHandler) Handle(
	ctx context.Context,
	cmd ApplyOrderActionCommand,
) (*order.Order, error) {
	if err := cmd.Validate(); err != nil {
		return nil, err
	}

	uow := h.uowFactory.Create()
	if err := uow.Begin(ctx); err != nil {
		return nil, err
	}

	defer func() {
		_ = uow.Rollback(ctx)
	}()

	orderRepo := uow.OrderRepository()
	current, err := orderRepo.Get(ctx, cmd.OrderID())
	if err != nil {
		return nil, err
	}

	res, err := h.engine.ApplyAction(current, cmd.Action(), cmd.Role(), cmd.Payload(), h.clock.Now())
	if err != nil {
		h.metrics.TransitionRejected(cmd.Action(), cmd.Role(), err)
		h.logger.InfoContext(ctx, "transition rejected",
			"order_id", cmd.OrderID().String(),
			"action", cmd.Action().String(),
			"role", cmd.Role().String(),
			"status", current.Status().String(),
			"error", err,
		)
		return nil, err
	}

	if err = orderRepo.Update(ctx, res.Order); err != nil {
		return nil, err
	}
	if err = stageEvents(ctx, uow, res.Events); err != nil {
		return nil, err
	}

	if err = uow.Commit(ctx); err != nil {
		return nil, err
	}

	h.metrics.TransitionApplied(current.Status(), res.Order.Status(), cmd.Action(), cmd.Role())
	h.logger.InfoContext(ctx, "transition applied",
		"order_id", cmd.OrderID().String(),
		"action", cmd.Action().String(),
		"role", cmd.Role().String(),
		"from", current.Status().String(),
		"to", res.Order.Status().String(),
		"version", res.Order.Version(),
	)

	return res.Order, nil
}
