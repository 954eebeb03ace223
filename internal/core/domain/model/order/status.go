package order

import (
	"fmt"
	"slices"

	"marketplace/internal/pkg/errs"
)

// Status represents the lifecycle state of an order.
//
// Main flow:
//
//	Draft ──> Available ──> Awaiting Approval ──> Assigned ──> In Progress ──> Submitted ──> Approved ──> Completed
//	              │  ^                                │  ^          │  ^            │  ^
//	              │  └──────── reassign / decline ────┘  │          │  │            │  │
//	              └──────────> Assigned (direct assign)  │          v  │            v  │
//	                                                     │        On Hold        Revision
//	                                                     └── Late (system) ──> Submitted
//
// Completed, Cancelled and Refunded are terminal. Transition legality itself lives in
// the transition table; Status only knows its own classification.
type Status int

const (
	// Unknown represents an invalid or undefined status.
	// This value (0) helps catch uninitialized Status values.
	Unknown Status = iota

	// Draft is an order that has not been published to writers yet.
	Draft

	// Available orders are open for bids or direct assignment.
	Available

	// AwaitingApproval holds a writer's bid until an admin approves or declines it.
	AwaitingApproval

	// Assigned orders have a writer who has not confirmed yet.
	Assigned

	// InProgress orders are being written.
	InProgress

	// Submitted orders wait for admin review.
	Submitted

	// Approved orders passed review and can be completed.
	Approved

	// Rejected orders failed review.
	Rejected

	// Revision orders were sent back to the writer with feedback.
	Revision

	// Resubmitted is kept for stored orders from older workflows; resubmission now
	// returns an order to Submitted.
	Resubmitted

	// Completed is a final state.
	Completed

	// Late orders passed their deadline while in progress.
	Late

	// AutoReassigned is kept for stored orders; automatic reassignment now returns an
	// order to Available and records the original writer.
	AutoReassigned

	// Cancelled is a final state.
	Cancelled

	// OnHold orders are paused by an admin.
	OnHold

	// Disputed orders wait for an admin resolution.
	Disputed

	// Refunded is a final state.
	Refunded
)

func getStatusStrings() map[Status]string {
	return map[Status]string{
		Unknown:          "Unknown",
		Draft:            "Draft",
		Available:        "Available",
		AwaitingApproval: "Awaiting Approval",
		Assigned:         "Assigned",
		InProgress:       "In Progress",
		Submitted:        "Submitted",
		Approved:         "Approved",
		Rejected:         "Rejected",
		Revision:         "Revision",
		Resubmitted:      "Resubmitted",
		Completed:        "Completed",
		Late:             "Late",
		AutoReassigned:   "Auto-Reassigned",
		Cancelled:        "Cancelled",
		OnHold:           "On Hold",
		Disputed:         "Disputed",
		Refunded:         "Refunded",
	}
}

// Statuses returns every valid status in declaration order.
func Statuses() []Status {
	statuses := make([]Status, 0, int(Refunded))
	for s := Draft; s <= Refunded; s++ {
		statuses = append(statuses, s)
	}
	return statuses
}

// TerminalStatuses lists the statuses no transition leaves.
func TerminalStatuses() []Status {
	return []Status{Completed, Cancelled, Refunded}
}

// ParseStatus converts a display name such as "In Progress" back to a Status.
func ParseStatus(s string) (Status, error) {
	for status, name := range getStatusStrings() {
		if status != Unknown && name == s {
			return status, nil
		}
	}
	return Unknown, errs.NewValueIsInvalidErrorWithCause("status is invalid", fmt.Errorf("%q is not a valid status", s))
}

// Validate checks if the Status value is valid. Unknown (0) and out of range values are invalid.
func (s Status) Validate() error {
	if s <= Unknown || s > Refunded {
		return errs.NewValueIsInvalidErrorWithCause("status is invalid", fmt.Errorf("%d is not a valid status", s))
	}
	return nil
}

// String returns the display name of the status, or "Unknown" for invalid values.
func (s Status) String() string {
	if str, ok := getStatusStrings()[s]; ok {
		return str
	}
	return "Unknown"
}

// IsTerminal reports whether no transition may leave this status.
func (s Status) IsTerminal() bool {
	return slices.Contains(TerminalStatuses(), s)
}

// HoldsWriter reports whether an order in this status must have a writer attached.
func (s Status) HoldsWriter() bool {
	switch s {
	case Draft, Available, Cancelled, AutoReassigned, Unknown:
		return false
	default:
		return true
	}
}

// MarshalText encodes the status by display name.
func (s Status) MarshalText() ([]byte, error) {
	if err := s.Validate(); err != nil {
		return nil, err
	}
	return []byte(s.String()), nil
}

// UnmarshalText decodes a display name.
func (s *Status) UnmarshalText(data []byte) error {
	parsed, err := ParseStatus(string(data))
	if err != nil {
		return err
	}
	*s = parsed
	return nil
}
