package commands

import (
	"errors"
	"slices"

	"marketplace/internal/core/domain/model/kernel"
	"marketplace/internal/core/domain/model/order"
	"marketplace/internal/pkg/guard"
)

var (
	ErrCreateOrderCommandIsNotConstructed = errors.New(
		"CreateOrderCommand must be created via NewCreateOrderCommand constructor",
	)
	ErrOrderNumberIsRequired = errors.New("order number is required")
	ErrPagesIsInvalid        = errors.New("pages must be greater than 0")
	ErrDeadlineIsRequired    = errors.New("deadline is required")
)

// CreateOrderCommand registers a new order. The price is not part of the command:
// it is quoted from the financial policy for the requested pages and urgency.
//
// Example:
//
//	cmd, err := NewCreateOrderCommand(kernel.NewUUID(), order.Details{
//	    Number:   "ORD-1042",
//	    ClientID: "client-7",
//	    Pages:    5,
//	    Deadline: time.Now().Add(72 * time.Hour),
//	}, order.UrgencyNormal, true)
type CreateOrderCommand struct { //nolint:recvcheck //using for validation
	orderID kernel.UUID
	details order.Details
	urgency order.Urgency
	publish bool

	guard guard.ConstructorGuard
}

// NewCreateOrderCommand validates the order identity and details. With publish set
// the handler also makes the order available to writers.
func NewCreateOrderCommand(
	orderID kernel.UUID,
	details order.Details,
	urgency order.Urgency,
	publish bool,
) (CreateOrderCommand, error) {
	cmd := CreateOrderCommand{
		publish: publish,
		guard:   guard.NewConstructorGuard(),
	}

	if err := errors.Join(
		cmd.setOrderID(orderID),
		cmd.setDetails(details),
		cmd.setUrgency(urgency),
	); err != nil {
		return CreateOrderCommand{}, err
	}

	return cmd, nil
}

// Validate ensures the command was created through the constructor.
func (c CreateOrderCommand) Validate() error {
	return c.guard.Validate(ErrCreateOrderCommandIsNotConstructed)
}

func (c CreateOrderCommand) OrderID() kernel.UUID { return c.orderID }

func (c CreateOrderCommand) Details() order.Details {
	d := c.details
	d.RequirementFiles = slices.Clone(c.details.RequirementFiles)
	return d
}

func (c CreateOrderCommand) Urgency() order.Urgency { return c.urgency }

// Publish reports whether the order goes straight to Available.
func (c CreateOrderCommand) Publish() bool { return c.publish }

func (c *CreateOrderCommand) setOrderID(orderID kernel.UUID) error {
	if err := orderID.Validate(); err != nil {
		return err
	}

	c.orderID = orderID
	return nil
}

func (c *CreateOrderCommand) setDetails(d order.Details) error {
	var err error
	if d.Number == "" {
		err = errors.Join(err, ErrOrderNumberIsRequired)
	}
	if d.Pages <= 0 {
		err = errors.Join(err, ErrPagesIsInvalid)
	}
	if d.Deadline.IsZero() {
		err = errors.Join(err, ErrDeadlineIsRequired)
	}
	if err != nil {
		return err
	}

	c.details = d
	c.details.RequirementFiles = slices.Clone(d.RequirementFiles)
	return nil
}

func (c *CreateOrderCommand) setUrgency(u order.Urgency) error {
	if u == "" {
		u = order.UrgencyNormal
	}
	if err := u.Validate(); err != nil {
		return err
	}

	c.urgency = u
	return nil
}
