package commands

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"time"

	"marketplace/internal/core/domain/model/kernel"
	"marketplace/internal/core/domain/services/lifecycle"
	"marketplace/internal/core/ports"
)

// ReevaluateOrdersResult summarizes one scheduler pass.
type ReevaluateOrdersResult struct {
	Checked int
	Changed int
}

// ReevaluateOrdersCommandHandler feeds time-driven transitions back through the
// engine. Each order is re-read and stored in its own unit of work so one failing
// order does not hold back the rest.
type ReevaluateOrdersCommandHandler struct {
	uowFactory OrderUoWFactory
	engine     *lifecycle.Engine
	metrics    ports.TransitionMetrics
	clock      ports.Clock
	logger     *slog.Logger
}

func NewReevaluateOrdersCommandHandler(
	uowFactory OrderUoWFactory,
	engine *lifecycle.Engine,
	metrics ports.TransitionMetrics,
	clock ports.Clock,
	logger *slog.Logger,
) ReevaluateOrdersCommandHandler {
	return ReevaluateOrdersCommandHandler{
		uowFactory: uowFactory,
		engine:     engine,
		metrics:    metrics,
		clock:      clock,
		logger:     logger.With("component", "reevaluate-orders-handler"),
	}
}

// Handle reevaluates all active orders at a single instant. Per-order failures are
// joined into the returned error; the result still counts the orders that succeeded.
func (h *ReevaluateOrdersCommandHandler) Handle(
	ctx context.Context,
	cmd ReevaluateOrdersCommand,
) (ReevaluateOrdersResult, error) {
	if err := cmd.Validate(); err != nil {
		return ReevaluateOrdersResult{}, err
	}

	ids, err := h.activeOrderIDs(ctx)
	if err != nil {
		return ReevaluateOrdersResult{}, err
	}

	now := h.clock.Now()
	result := ReevaluateOrdersResult{Checked: len(ids)}
	var errList []error
	for _, id := range ids {
		changed, err := h.reevaluate(ctx, id, now)
		if err != nil {
			errList = append(errList, fmt.Errorf("order %s: %w", id, err))
			continue
		}
		if changed {
			result.Changed++
		}
	}

	return result, errors.Join(errList...)
}

func (h *ReevaluateOrdersCommandHandler) activeOrderIDs(ctx context.Context) ([]kernel.UUID, error) {
	uow := h.uowFactory.Create()
	if err := uow.Begin(ctx); err != nil {
		return nil, err
	}

	defer func() {
		_ = uow.Rollback(ctx)
	}()

	active, err := uow.OrderRepository().GetAllActive(ctx)
	if err != nil {
		return nil, err
	}

	ids := make([]kernel.UUID, 0, len(active))
	for _, o := range active {
		ids = append(ids, o.ID())
	}
	return ids, nil
}

func (h *ReevaluateOrdersCommandHandler) reevaluate(ctx context.Context, id kernel.UUID, now time.Time) (bool, error) {
	uow := h.uowFactory.Create()
	if err := uow.Begin(ctx); err != nil {
		return false, err
	}

	defer func() {
		_ = uow.Rollback(ctx)
	}()

	orderRepo := uow.OrderRepository()
	current, err := orderRepo.Get(ctx, id)
	if err != nil {
		return false, err
	}

	res, err := h.engine.Reevaluate(current, now)
	if err != nil {
		return false, err
	}
	if !res.Changed(current) {
		return false, nil
	}

	if err = orderRepo.Update(ctx, res.Order); err != nil {
		return false, err
	}
	if err = stageEvents(ctx, uow, res.Events); err != nil {
		return false, err
	}

	if err = uow.Commit(ctx); err != nil {
		return false, err
	}

	h.metrics.TransitionApplied(current.Status(), res.Order.Status(), res.Action, kernel.RoleSystem)
	h.logger.InfoContext(ctx, "order reevaluated",
		"order_id", id.String(),
		"action", res.Action.String(),
		"from", current.Status().String(),
		"to", res.Order.Status().String(),
		"events", len(res.Events),
	)

	return true, nil
}
