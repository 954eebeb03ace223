// Package temporal holds the time-based rules of the order lifecycle: auto-confirmation
// windows, lateness, the writer release cutoff and automatic reassignment.
//
// Every function is pure. The current time is always passed in.
package temporal

import (
	"errors"
	"fmt"
	"math"
	"time"

	"marketplace/internal/core/domain/model/order"
	"marketplace/internal/pkg/errs"
)

const (
	DefaultAutoConfirmWindow = 24 * time.Hour
	DefaultReassignCutoff    = 12 * time.Hour
	DefaultAutoReassignAfter = 24 * time.Hour
)

// ErrReleaseCutoffPassed is returned when a writer tries to give an order back too close
// to its deadline.
var ErrReleaseCutoffPassed = errors.New("too close to the deadline to release the order")

// Rules is the named temporal configuration of the engine.
type Rules struct {
	// AutoConfirmWindow is how long a writer has to confirm an assignment before the
	// system confirms it on their behalf.
	AutoConfirmWindow time.Duration

	// ReassignCutoff is the minimum time before the deadline a writer may still release
	// an order. Admins are not bound by it.
	ReassignCutoff time.Duration

	// AutoReassignAfter is how late an order may run before it is taken from its writer.
	AutoReassignAfter time.Duration
}

// DefaultRules returns the stock configuration.
func DefaultRules() Rules {
	return Rules{
		AutoConfirmWindow: DefaultAutoConfirmWindow,
		ReassignCutoff:    DefaultReassignCutoff,
		AutoReassignAfter: DefaultAutoReassignAfter,
	}
}

func (r Rules) Validate() error {
	var err error
	if r.AutoConfirmWindow <= 0 {
		err = errors.Join(err, errs.NewValueIsInvalidErrorWithCause("autoConfirmWindow", fmt.Errorf("%s is not positive", r.AutoConfirmWindow)))
	}
	if r.ReassignCutoff < 0 {
		err = errors.Join(err, errs.NewValueIsInvalidErrorWithCause("reassignCutoff", fmt.Errorf("%s is negative", r.ReassignCutoff)))
	}
	if r.AutoReassignAfter < 0 {
		err = errors.Join(err, errs.NewValueIsInvalidErrorWithCause("autoReassignAfter", fmt.Errorf("%s is negative", r.AutoReassignAfter)))
	}
	return err
}

// AutoConfirmDeadline is the moment an assignment made at assignedAt confirms itself.
func (r Rules) AutoConfirmDeadline(assignedAt time.Time) time.Time {
	return assignedAt.Add(r.AutoConfirmWindow)
}

// AutoConfirmDue reports whether an assigned, still unconfirmed order reached its
// auto-confirm deadline.
func (r Rules) AutoConfirmDue(o *order.Order, now time.Time) bool {
	if o.Status() != order.Assigned || o.ConfirmationStatus() != order.ConfirmationPending {
		return false
	}
	deadline := o.AutoConfirmDeadline()
	return deadline != nil && !now.Before(*deadline)
}

// IsLate reports whether a non-terminal order is past its deadline.
func IsLate(o *order.Order, now time.Time) bool {
	return !o.Status().IsTerminal() && now.After(o.Deadline())
}

// HoursLate is the fractional number of hours past the deadline, never negative.
func HoursLate(o *order.Order, now time.Time) float64 {
	return math.Max(0, now.Sub(o.Deadline()).Hours())
}

// AutoReassignDue reports whether the order has run late long enough to be taken from
// its writer.
func (r Rules) AutoReassignDue(o *order.Order, now time.Time) bool {
	switch o.Status() {
	case order.Assigned, order.InProgress, order.Late:
	default:
		return false
	}
	return HoursLate(o, now) > r.AutoReassignAfter.Hours()
}

// LateMarkDue reports whether an in-progress order should be moved to Late.
func (r Rules) LateMarkDue(o *order.Order, now time.Time) bool {
	return o.Status() == order.InProgress && IsLate(o, now) && !r.AutoReassignDue(o, now)
}

// RemainingTime is the time left until the deadline. It is negative once the deadline passed.
func RemainingTime(o *order.Order, now time.Time) time.Duration {
	return o.Deadline().Sub(now)
}

// CheckWriterRelease refuses a writer-initiated release when less than ReassignCutoff
// remains before the deadline.
func (r Rules) CheckWriterRelease(o *order.Order, now time.Time) error {
	remaining := RemainingTime(o, now)
	if remaining < r.ReassignCutoff {
		return fmt.Errorf("%w: %s remaining, cutoff is %s", ErrReleaseCutoffPassed,
			remaining.Truncate(time.Minute), r.ReassignCutoff)
	}
	return nil
}
