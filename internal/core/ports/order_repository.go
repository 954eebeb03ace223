// Package ports defines the contracts between the order core and infrastructure.
package ports

import (
	"context"

	"marketplace/internal/core/domain/model/kernel"
	"marketplace/internal/core/domain/model/order"
)

// OrderRepository defines the persistence contract for order aggregates.
type OrderRepository interface {
	// Add persists a new order aggregate.
	Add(ctx context.Context, aggregate *order.Order) error

	// Update stores the next snapshot of an existing order. It succeeds only when
	// the stored version equals aggregate.Version()-1 and otherwise returns an
	// errs.VersionIsInvalidError, so concurrent transitions on one order serialize.
	Update(ctx context.Context, aggregate *order.Order) error

	// Get retrieves an order by its identifier.
	Get(ctx context.Context, id kernel.UUID) (*order.Order, error)

	// GetAllActive retrieves every order that is not in a terminal status,
	// ordered by deadline.
	GetAllActive(ctx context.Context) ([]*order.Order, error)
}
