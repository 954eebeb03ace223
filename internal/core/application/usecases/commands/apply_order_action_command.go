package commands

import (
	"errors"

	"marketplace/internal/core/domain/model/kernel"
	"marketplace/internal/core/domain/model/order"
	"marketplace/internal/core/domain/services/transition"
	"marketplace/internal/pkg/errs"
	"marketplace/internal/pkg/guard"
)

var ErrApplyOrderActionCommandIsNotConstructed = errors.New(
	"ApplyOrderActionCommand must be created via NewApplyOrderActionCommand constructor",
)

// ApplyOrderActionCommand asks the lifecycle engine to perform an action on an order
// on behalf of an admin or a writer.
type ApplyOrderActionCommand struct { //nolint:recvcheck //using for validation
	orderID kernel.UUID
	action  order.Action
	role    kernel.Role
	payload transition.Payload

	guard guard.ConstructorGuard
}

// NewApplyOrderActionCommand validates identity, action and role. Payload contents
// are checked by the transition table when the command is handled.
func NewApplyOrderActionCommand(
	orderID kernel.UUID,
	action order.Action,
	role kernel.Role,
	payload transition.Payload,
) (ApplyOrderActionCommand, error) {
	cmd := ApplyOrderActionCommand{
		payload: transition.NewPayload(payload.Fields, payload.Files...),
		guard:   guard.NewConstructorGuard(),
	}

	if err := errors.Join(
		cmd.setOrderID(orderID),
		cmd.setAction(action),
		cmd.setRole(role),
	); err != nil {
		return ApplyOrderActionCommand{}, err
	}

	return cmd, nil
}

// Validate ensures the command was created through the constructor.
func (c ApplyOrderActionCommand) Validate() error {
	return c.guard.Validate(ErrApplyOrderActionCommandIsNotConstructed)
}

func (c ApplyOrderActionCommand) OrderID() kernel.UUID        { return c.orderID }
func (c ApplyOrderActionCommand) Action() order.Action        { return c.action }
func (c ApplyOrderActionCommand) Role() kernel.Role           { return c.role }
func (c ApplyOrderActionCommand) Payload() transition.Payload { return c.payload }

func (c *ApplyOrderActionCommand) setOrderID(orderID kernel.UUID) error {
	if err := orderID.Validate(); err != nil {
		return err
	}

	c.orderID = orderID
	return nil
}

func (c *ApplyOrderActionCommand) setAction(action order.Action) error {
	parsed, err := order.ParseAction(string(action))
	if err != nil {
		return err
	}

	c.action = parsed
	return nil
}

// setRole accepts only caller roles; system transitions come from the scheduler.
func (c *ApplyOrderActionCommand) setRole(role kernel.Role) error {
	if role == kernel.RoleSystem {
		return errs.NewValueIsInvalidError("role")
	}
	if err := role.Validate(); err != nil {
		return err
	}

	c.role = role
	return nil
}
