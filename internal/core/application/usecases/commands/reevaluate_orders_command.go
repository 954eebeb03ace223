package commands

import (
	"errors"

	"marketplace/internal/pkg/guard"
)

var ErrReevaluateOrdersCommandIsNotConstructed = errors.New(
	"ReevaluateOrdersCommand must be created via NewReevaluateOrdersCommand constructor",
)

// ReevaluateOrdersCommand asks for every non-terminal order to be checked for
// due auto-confirmation, lateness and auto-reassignment.
type ReevaluateOrdersCommand struct {
	guard guard.ConstructorGuard
}

func NewReevaluateOrdersCommand() (ReevaluateOrdersCommand, error) {
	return ReevaluateOrdersCommand{guard: guard.NewConstructorGuard()}, nil
}

func (c ReevaluateOrdersCommand) Validate() error {
	return c.guard.Validate(ErrReevaluateOrdersCommandIsNotConstructed)
}
