package order

import (
	"time"

	"marketplace/internal/core/domain/model/kernel"
)

// FineReason says why a fine entry was recorded.
type FineReason string

const (
	FineReasonLate             FineReason = "late"
	FineReasonRejection        FineReason = "rejection"
	FineReasonAutoReassignment FineReason = "auto-reassignment"

	// FineReasonWaiver marks a cancelling entry. Its amount is the negation of the
	// waived fine.
	FineReasonWaiver FineReason = "waiver"
)

// Fine is one append-only entry of an order's fine history.
type Fine struct {
	ID         kernel.UUID  `json:"id"`
	Amount     int64        `json:"amount"`
	Reason     FineReason   `json:"reason"`
	AppliedAt  time.Time    `json:"appliedAt"`
	AppliedBy  string       `json:"appliedBy"`
	WriterID   string       `json:"writerId,omitempty"`
	WaivesFine *kernel.UUID `json:"waivesFineId,omitempty"`
	Note       string       `json:"note,omitempty"`
}

// FineTotal is the live sum of a fine history.
func FineTotal(history []Fine) int64 {
	var total int64
	for _, f := range history {
		total += f.Amount
	}
	return total
}

// FindFine returns the entry with the given id.
func FindFine(history []Fine, id kernel.UUID) (Fine, bool) {
	for _, f := range history {
		if f.ID.IsEqual(id) {
			return f, true
		}
	}
	return Fine{}, false
}

// IsWaived reports whether a waiver entry already cancels the fine with the given id.
func IsWaived(history []Fine, id kernel.UUID) bool {
	for _, f := range history {
		if f.Reason == FineReasonWaiver && f.WaivesFine != nil && f.WaivesFine.IsEqual(id) {
			return true
		}
	}
	return false
}
