package queries

import (
	"context"

	"marketplace/internal/core/domain/model/kernel"
	"marketplace/internal/core/domain/model/order"
	"marketplace/internal/core/domain/services/lifecycle"
	"marketplace/internal/core/ports"
)

// OrderReader is the slice of the order repository queries need.
type OrderReader interface {
	Get(ctx context.Context, id kernel.UUID) (*order.Order, error)
}

type GetOrderQueryHandler struct {
	orders OrderReader
	engine *lifecycle.Engine
	clock  ports.Clock
}

func NewGetOrderQueryHandler(orders OrderReader, engine *lifecycle.Engine, clock ports.Clock) GetOrderQueryHandler {
	return GetOrderQueryHandler{orders: orders, engine: engine, clock: clock}
}

// Handle returns the snapshot and the valid next transitions evaluated at the
// current time, so time-gated actions such as a writer release appear only while open.
func (h GetOrderQueryHandler) Handle(ctx context.Context, query GetOrderQuery) (GetOrderQueryResponse, error) {
	if err := query.Validate(); err != nil {
		return GetOrderQueryResponse{}, err
	}

	o, err := h.orders.Get(ctx, query.OrderID())
	if err != nil {
		return GetOrderQueryResponse{}, err
	}

	return GetOrderQueryResponse{
		Order:       o.Snapshot(),
		NextActions: h.engine.ValidNextStates(o, query.Role(), h.clock.Now()),
	}, nil
}
