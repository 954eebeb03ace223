// Package guard holds the constructor guard shared by domain objects, commands and queries.
package guard

import "errors"

// ErrDefaultConstructorGuard is returned by Validate when no specific error is supplied.
var ErrDefaultConstructorGuard = errors.New("object must be created via its constructor")

// ConstructorGuard marks a value as built through its constructor. Embedding it lets
// Validate tell a properly constructed value from a zero value.
//
// Example:
//
//	type ApplyOrderActionCommand struct {
//	    action order.Action
//	    guard  guard.ConstructorGuard
//	}
//
//	func (c ApplyOrderActionCommand) Validate() error {
//	    return c.guard.Validate(ErrApplyOrderActionCommandIsNotConstructed)
//	}
type ConstructorGuard struct {
	isConstructed bool
}

// NewConstructorGuard returns a guard flagged as constructed.
func NewConstructorGuard() ConstructorGuard {
	return ConstructorGuard{isConstructed: true}
}

// Validate returns validationError (or ErrDefaultConstructorGuard when it is nil)
// if the owning value was not created through its constructor.
func (g ConstructorGuard) Validate(validationError error) error {
	if g.isConstructed {
		return nil
	}
	if validationError == nil {
		return ErrDefaultConstructorGuard
	}
	return validationError
}
