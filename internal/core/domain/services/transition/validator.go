package transition

import (
	"fmt"
	"slices"
	"time"

	"marketplace/internal/core/domain/model/kernel"
	"marketplace/internal/core/domain/model/order"
)

// Request is a transition to be validated. To is optional: the zero value means "the
// status the table leads to". Order is needed by guarded entries; a guarded request
// without a constructed order fails with order.ErrOrderIsNotConstructed.
type Request struct {
	From    order.Status
	To      order.Status
	Action  order.Action
	Role    kernel.Role
	Payload Payload
	Order   *order.Order
	Now     time.Time
}

// Validate admits a request or returns a *Error naming the first failed check.
func (t *Table) Validate(req Request) error {
	_, err := t.Admit(req)
	return err
}

// Admit is Validate that also returns the matched entry.
func (t *Table) Admit(req Request) (Entry, error) {
	reject := func(kind error) *Error {
		return &Error{Kind: kind, From: req.From, To: req.To, Action: req.Action, Role: req.Role}
	}

	if req.From.IsTerminal() {
		return Entry{}, reject(ErrTerminalStateViolation)
	}

	entry, ok := t.Lookup(req.From, req.Action)
	if !ok || (req.To != order.Unknown && req.To != entry.To) {
		return Entry{}, reject(ErrInvalidTransition)
	}

	if !entry.Allows(req.Role) {
		return Entry{}, reject(ErrRoleNotPermitted)
	}

	for _, field := range entry.Required {
		if !req.Payload.Has(field) {
			e := reject(ErrMissingRequiredField)
			e.Field = field
			return Entry{}, e
		}
	}

	if entry.Guard != nil {
		if err := req.Order.Validate(); err != nil {
			return Entry{}, fmt.Errorf("%s from %s: %w", req.Action, req.From, err)
		}
		if err := entry.Guard(req.Order, req.Role, req.Payload, req.Now); err != nil {
			e := reject(ErrGuardRejected)
			e.Reason = err.Error()
			return Entry{}, e
		}
	}

	return entry, nil
}

// Option is an action a role may take next.
type Option struct {
	Action   order.Action
	To       order.Status
	Required []string
}

// ValidNextStates lists the actions role may take from status from, with guards
// evaluated against o at now. Payload-dependent checks are not applied.
func (t *Table) ValidNextStates(from order.Status, role kernel.Role, o *order.Order, now time.Time) []Option {
	if from.IsTerminal() {
		return nil
	}
	var options []Option
	for _, e := range t.From(from) {
		if !e.Allows(role) {
			continue
		}
		if e.Guard != nil && (o == nil || e.Guard(o, role, Payload{}, now) != nil) {
			continue
		}
		options = append(options, Option{Action: e.Action, To: e.To, Required: slices.Clone(e.Required)})
	}
	return options
}
