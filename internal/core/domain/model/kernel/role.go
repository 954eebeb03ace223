package kernel

import (
	"fmt"

	"marketplace/internal/pkg/errs"
)

// Role identifies the kind of actor requesting an order transition.
type Role string

const (
	// RoleAdmin is a marketplace operator.
	RoleAdmin Role = "admin"

	// RoleWriter is the author working on (or bidding for) an order.
	RoleWriter Role = "writer"

	// RoleSystem is used by the scheduler when it feeds detected auto-confirmations,
	// lateness and auto-reassignments back through the engine. It is never accepted
	// from external callers.
	RoleSystem Role = "system"
)

// ParseRole converts an external role tag. Only admin and writer are accepted.
func ParseRole(s string) (Role, error) {
	switch r := Role(s); r {
	case RoleAdmin, RoleWriter:
		return r, nil
	default:
		return "", errs.NewValueIsInvalidErrorWithCause("role", fmt.Errorf("%q is not an external role", s))
	}
}

// Validate checks that the role is one of the known roles.
func (r Role) Validate() error {
	switch r {
	case RoleAdmin, RoleWriter, RoleSystem:
		return nil
	default:
		return errs.NewValueIsInvalidErrorWithCause("role", fmt.Errorf("%q is not a valid role", string(r)))
	}
}

func (r Role) String() string {
	return string(r)
}
