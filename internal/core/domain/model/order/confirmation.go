package order

import "time"

// ConfirmationStatus tracks the writer's answer to an assignment.
type ConfirmationStatus string

const (
	ConfirmationNone      ConfirmationStatus = ""
	ConfirmationPending   ConfirmationStatus = "pending"
	ConfirmationConfirmed ConfirmationStatus = "confirmed"
	ConfirmationRejected  ConfirmationStatus = "rejected"
)

// Confirmation records who confirmed an assignment. System-authored confirmations
// come from the auto-confirm window and carry no estimate or questions.
type Confirmation struct {
	ConfirmedBy    string    `json:"confirmedBy"`
	ConfirmedAt    time.Time `json:"confirmedAt"`
	SystemAuthored bool      `json:"systemAuthored"`
	EstimatedHours string    `json:"estimatedHours,omitempty"`
	Questions      string    `json:"questions,omitempty"`
}
