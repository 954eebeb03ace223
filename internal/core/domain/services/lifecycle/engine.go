package lifecycle

import (
	"errors"
	"fmt"
	"time"

	"marketplace/internal/core/domain/model/event"
	"marketplace/internal/core/domain/model/kernel"
	"marketplace/internal/core/domain/model/order"
	"marketplace/internal/core/domain/services/financial"
	"marketplace/internal/core/domain/services/temporal"
	"marketplace/internal/core/domain/services/transition"
)

// Result is the outcome of an admitted transition. Action is empty when
// Reevaluate found nothing due.
type Result struct {
	Order  *order.Order
	Action order.Action
	Events []event.Event
}

// Changed reports whether the transition produced a new snapshot.
func (r Result) Changed(prev *order.Order) bool {
	return r.Order != nil && r.Order.Version() != prev.Version()
}

// Engine is the order lifecycle orchestrator. It is stateless and safe for concurrent use.
type Engine struct {
	table  *transition.Table
	rules  temporal.Rules
	policy financial.Policy
}

// NewEngine builds an engine over the default transition table.
func NewEngine(rules temporal.Rules, policy financial.Policy) (*Engine, error) {
	if err := errors.Join(rules.Validate(), policy.Validate()); err != nil {
		return nil, err
	}
	return &Engine{
		table:  transition.DefaultTable(rules),
		rules:  rules,
		policy: policy,
	}, nil
}

func (e *Engine) Table() *transition.Table { return e.table }
func (e *Engine) Rules() temporal.Rules    { return e.rules }
func (e *Engine) Policy() financial.Policy { return e.policy }

// ApplyAction validates and applies action to o. On rejection the *transition.Error
// is returned as is. The input order is never modified.
func (e *Engine) ApplyAction(
	o *order.Order,
	action order.Action,
	role kernel.Role,
	payload transition.Payload,
	now time.Time,
) (Result, error) {
	if err := o.Validate(); err != nil {
		return Result{}, err
	}

	entry, err := e.table.Admit(transition.Request{
		From:    o.Status(),
		Action:  action,
		Role:    role,
		Payload: payload,
		Order:   o,
		Now:     now,
	})
	if err != nil {
		return Result{}, err
	}

	deadline, err := payload.Deadline()
	if err != nil {
		return Result{}, err
	}

	t := &step{
		engine:   e,
		prev:     o,
		entry:    entry,
		role:     role,
		payload:  payload,
		deadline: deadline,
		now:      now,
		version:  o.Version() + 1,
	}
	t.emit(event.StatusChanged{
		From:    entry.From,
		To:      entry.To,
		Action:  action,
		Role:    role,
		Reason:  payload.Get(transition.FieldReason),
		Version: t.version,
	})

	next, err := o.Evolve(now, t.apply)
	if err != nil {
		return Result{}, fmt.Errorf("%s from %s: %w", action, o.Status(), err)
	}

	return Result{Order: next, Action: action, Events: t.events}, nil
}

// Reevaluate applies the time-driven transition that is due for o, if any. Priority is
// auto-reassignment, then auto-confirmation, then lateness. When nothing is due the
// order is returned unchanged with no events.
func (e *Engine) Reevaluate(o *order.Order, now time.Time) (Result, error) {
	if err := o.Validate(); err != nil {
		return Result{}, err
	}
	if o.Status().IsTerminal() {
		return Result{Order: o}, nil
	}

	var action order.Action
	switch {
	case e.rules.AutoReassignDue(o, now):
		action = order.ActionAutoReassign
	case e.rules.AutoConfirmDue(o, now):
		action = order.ActionAutoConfirm
	case e.rules.LateMarkDue(o, now):
		action = order.ActionMarkLate
	default:
		return Result{Order: o}, nil
	}

	return e.ApplyAction(o, action, kernel.RoleSystem, transition.Payload{}, now)
}

// ValidNextStates lists what role may do next with o.
func (e *Engine) ValidNextStates(o *order.Order, role kernel.Role, now time.Time) []transition.Option {
	return e.table.ValidNextStates(o.Status(), role, o, now)
}
