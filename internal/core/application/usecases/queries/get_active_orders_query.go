// Package queries contains the read use cases of the order lifecycle.
package queries

import (
	"errors"
	"time"

	"marketplace/internal/core/domain/model/kernel"
	"marketplace/internal/core/domain/model/order"
	"marketplace/internal/pkg/guard"
)

var ErrGetActiveOrdersQueryIsNotConstructed = errors.New(
	"GetActiveOrdersQuery must be created via NewGetActiveOrdersQuery constructor",
)

// GetActiveOrdersQuery lists every order that has not reached a terminal status.
type GetActiveOrdersQuery struct {
	guard guard.ConstructorGuard
}

func NewGetActiveOrdersQuery() GetActiveOrdersQuery {
	return GetActiveOrdersQuery{guard: guard.NewConstructorGuard()}
}

func (q GetActiveOrdersQuery) Validate() error {
	return q.guard.Validate(ErrGetActiveOrdersQueryIsNotConstructed)
}

// GetActiveOrdersQueryResponse is one row of the active orders board.
type GetActiveOrdersQueryResponse struct {
	ID                  kernel.UUID
	Number              string
	Status              order.Status
	WriterID            string
	Deadline            time.Time
	TotalPrice          int64
	FineAmount          int64
	Currency            string
	IsOverdue           bool
	NeedsAdminAttention bool
	Version             int64
}
