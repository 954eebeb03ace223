package event

import (
	"time"

	"marketplace/internal/core/domain/model/kernel"
	"marketplace/internal/core/domain/model/order"
)

// Type is the dotted wire name of an event.
type Type string

const (
	TypeStatusChanged          Type = "order.status_changed"
	TypeFineApplied            Type = "order.fine_applied"
	TypeDeadlineSet            Type = "order.deadline_set"
	TypeNotificationDue        Type = "order.notification_due"
	TypePaymentDue             Type = "order.payment_due"
	TypeAdminAttentionRequired Type = "order.admin_attention_required"
)

// Event is implemented by every domain event.
type Event interface {
	EventID() kernel.UUID
	EventType() Type
	AggregateID() kernel.UUID
	OccurredAt() time.Time
}

// Header carries the fields shared by all events.
type Header struct {
	ID       kernel.UUID `json:"eventId"`
	OrderID  kernel.UUID `json:"orderId"`
	Occurred time.Time   `json:"occurredAt"`
}

func (h Header) EventID() kernel.UUID     { return h.ID }
func (h Header) AggregateID() kernel.UUID { return h.OrderID }
func (h Header) OccurredAt() time.Time    { return h.Occurred }

// StatusChanged is emitted for every admitted transition, including self-transitions.
type StatusChanged struct {
	Header
	From    order.Status `json:"from"`
	To      order.Status `json:"to"`
	Action  order.Action `json:"action"`
	Role    kernel.Role  `json:"role"`
	Reason  string       `json:"reason,omitempty"`
	Version int64        `json:"version"`
}

func (StatusChanged) EventType() Type { return TypeStatusChanged }

// FineApplied is emitted for every appended fine entry, waivers included.
type FineApplied struct {
	Header
	FineID   kernel.UUID      `json:"fineId"`
	Amount   int64            `json:"amount"`
	Reason   order.FineReason `json:"reason"`
	WriterID string           `json:"writerId,omitempty"`
	Currency string           `json:"currency"`
	Total    int64            `json:"fineAmount"`
}

func (FineApplied) EventType() Type { return TypeFineApplied }

// DeadlineKind names the deadline a DeadlineSet event refers to.
type DeadlineKind string

const (
	DeadlineSubmission  DeadlineKind = "submission"
	DeadlineAutoConfirm DeadlineKind = "auto-confirm"
)

// DeadlineSet is emitted when a transition sets or moves a deadline.
type DeadlineSet struct {
	Header
	Kind     DeadlineKind `json:"kind"`
	Deadline time.Time    `json:"deadline"`
}

func (DeadlineSet) EventType() Type { return TypeDeadlineSet }

// Notification templates.
const (
	TemplateOrderAssigned     = "order-assigned"
	TemplateBidPlaced         = "bid-placed"
	TemplateBidDeclined       = "bid-declined"
	TemplateWorkSubmitted     = "work-submitted"
	TemplateRevisionRequested = "revision-requested"
	TemplateOrderApproved     = "order-approved"
	TemplateOrderRejected     = "order-rejected"
	TemplateOrderReleased     = "order-released"
	TemplateOrderLate         = "order-late"
	TemplateOrderCancelled    = "order-cancelled"
	TemplateAdminMessage      = "admin-message"
	TemplateDisputeOpened     = "dispute-opened"
)

// RecipientAdmins addresses the admin team instead of a single user.
const RecipientAdmins = "admins"

// NotificationDue asks the notification dispatcher to contact a recipient.
type NotificationDue struct {
	Header
	RecipientID string            `json:"recipientId"`
	Template    string            `json:"template"`
	Context     map[string]string `json:"context,omitempty"`
}

func (NotificationDue) EventType() Type { return TypeNotificationDue }

// PaymentKind distinguishes ledger instructions.
type PaymentKind string

const (
	PaymentWriterPayout PaymentKind = "writer-payout"
	PaymentClientRefund PaymentKind = "client-refund"
)

// PaymentDue instructs the wallet/ledger to move money.
type PaymentDue struct {
	Header
	Kind     PaymentKind `json:"kind"`
	PayeeID  string      `json:"payeeId"`
	Amount   int64       `json:"amount"`
	Currency string      `json:"currency"`
}

func (PaymentDue) EventType() Type { return TypePaymentDue }

// AdminAttentionRequired flags an order for manual review.
type AdminAttentionRequired struct {
	Header
	Reason string `json:"reason"`
}

func (AdminAttentionRequired) EventType() Type { return TypeAdminAttentionRequired }

// WithHeader returns e with its header replaced by h.
func WithHeader(e Event, h Header) Event {
	switch v := e.(type) {
	case StatusChanged:
		v.Header = h
		return v
	case FineApplied:
		v.Header = h
		return v
	case DeadlineSet:
		v.Header = h
		return v
	case NotificationDue:
		v.Header = h
		return v
	case PaymentDue:
		v.Header = h
		return v
	case AdminAttentionRequired:
		v.Header = h
		return v
	default:
		return e
	}
}
