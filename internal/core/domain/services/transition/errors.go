package transition

import (
	"errors"
	"fmt"

	"marketplace/internal/core/domain/model/kernel"
	"marketplace/internal/core/domain/model/order"
)

var (
	ErrInvalidTransition      = errors.New("invalid transition")
	ErrRoleNotPermitted       = errors.New("role not permitted")
	ErrMissingRequiredField   = errors.New("missing required field")
	ErrGuardRejected          = errors.New("guard rejected")
	ErrTerminalStateViolation = errors.New("terminal state violation")
)

// Error describes a rejected transition. Kind is one of the sentinels above and is what
// errors.Is matches against.
type Error struct {
	Kind   error
	From   order.Status
	To     order.Status
	Action order.Action
	Role   kernel.Role
	Field  string
	Reason string
}

func (e *Error) Error() string {
	switch e.Kind {
	case ErrTerminalStateViolation:
		return fmt.Sprintf("%s: order is %s, %s is not allowed", e.Kind, e.From, e.Action)
	case ErrInvalidTransition:
		if e.To != order.Unknown {
			return fmt.Sprintf("%s: %s from %s to %s", e.Kind, e.Action, e.From, e.To)
		}
		return fmt.Sprintf("%s: %s from %s", e.Kind, e.Action, e.From)
	case ErrRoleNotPermitted:
		return fmt.Sprintf("%s: %s may not %s from %s", e.Kind, e.Role, e.Action, e.From)
	case ErrMissingRequiredField:
		return fmt.Sprintf("%s: %s is required for %s", e.Kind, e.Field, e.Action)
	default:
		return fmt.Sprintf("%s: %s from %s: %s", e.Kind, e.Action, e.From, e.Reason)
	}
}

func (e *Error) Unwrap() error {
	return e.Kind
}
