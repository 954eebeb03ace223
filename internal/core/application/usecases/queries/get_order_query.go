package queries

import (
	"errors"

	"marketplace/internal/core/domain/model/kernel"
	"marketplace/internal/core/domain/model/order"
	"marketplace/internal/core/domain/services/transition"
	"marketplace/internal/pkg/guard"
)

var ErrGetOrderQueryIsNotConstructed = errors.New(
	"GetOrderQuery must be created via NewGetOrderQuery constructor",
)

// GetOrderQuery reads one order together with what role may do next with it.
type GetOrderQuery struct {
	orderID kernel.UUID
	role    kernel.Role

	guard guard.ConstructorGuard
}

func NewGetOrderQuery(orderID kernel.UUID, role kernel.Role) (GetOrderQuery, error) {
	if err := orderID.Validate(); err != nil {
		return GetOrderQuery{}, err
	}
	if _, err := kernel.ParseRole(string(role)); err != nil {
		return GetOrderQuery{}, err
	}

	return GetOrderQuery{
		orderID: orderID,
		role:    role,
		guard:   guard.NewConstructorGuard(),
	}, nil
}

func (q GetOrderQuery) Validate() error {
	return q.guard.Validate(ErrGetOrderQueryIsNotConstructed)
}

func (q GetOrderQuery) OrderID() kernel.UUID { return q.orderID }
func (q GetOrderQuery) Role() kernel.Role    { return q.role }

// GetOrderQueryResponse is the order snapshot plus the transitions open to the role.
type GetOrderQueryResponse struct {
	Order       order.State
	NextActions []transition.Option
}
