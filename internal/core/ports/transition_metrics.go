package ports

import (
	"marketplace/internal/core/domain/model/kernel"
	"marketplace/internal/core/domain/model/order"
)

// TransitionMetrics records the outcome of lifecycle transitions.
type TransitionMetrics interface {
	TransitionApplied(from, to order.Status, action order.Action, role kernel.Role)
	TransitionRejected(action order.Action, role kernel.Role, err error)
}
