package lifecycle

import (
	"fmt"
	"time"

	"marketplace/internal/core/domain/model/event"
	"marketplace/internal/core/domain/model/kernel"
	"marketplace/internal/core/domain/model/order"
	"marketplace/internal/core/domain/services/financial"
	"marketplace/internal/core/domain/services/temporal"
	"marketplace/internal/core/domain/services/transition"
)

// step carries one admitted transition while its effects are applied to the next state.
type step struct {
	engine   *Engine
	prev     *order.Order
	entry    transition.Entry
	role     kernel.Role
	payload  transition.Payload
	deadline *time.Time
	now      time.Time
	version  int64
	events   []event.Event
}

// actor is the identity recorded in assignedBy, appliedBy and similar fields.
func (t *step) actor() string {
	if id := t.payload.Get(transition.FieldActorID); id != "" {
		return id
	}
	if t.role == kernel.RoleWriter && t.prev.WriterID() != "" {
		return t.prev.WriterID()
	}
	return string(t.role)
}

func (t *step) header() event.Header {
	return event.Header{
		ID:       kernel.DeriveUUID(t.prev.ID(), fmt.Sprintf("event/%d/%d", t.version, len(t.events))),
		OrderID:  t.prev.ID(),
		Occurred: t.now,
	}
}

func (t *step) emit(e event.Event) {
	t.events = append(t.events, event.WithHeader(e, t.header()))
}

func (t *step) notify(recipient, template string, s *order.State) {
	if recipient == "" {
		return
	}
	t.emit(event.NotificationDue{
		RecipientID: recipient,
		Template:    template,
		Context: map[string]string{
			"orderNumber": s.Number,
			"status":      s.Status.String(),
		},
	})
}

// apply is the Evolve callback. It must only touch the state it is given.
func (t *step) apply(s *order.State) {
	s.Status = t.entry.To
	if t.entry.From != t.entry.To {
		s.StatusReason = t.payload.Get(transition.FieldReason)
	}

	switch t.entry.Action {
	case order.ActionCreate:
		s.Timeline.PublishedAt = order.Stamp(t.now)
		t.moveDeadline(s)

	case order.ActionBid:
		s.WriterID = t.payload.Get(transition.FieldWriterID)
		s.WriterName = t.payload.Get(transition.FieldWriterName)
		t.notify(event.RecipientAdmins, event.TemplateBidPlaced, s)

	case order.ActionApproveBid:
		t.moveDeadline(s)
		t.assign(s)

	case order.ActionDeclineBid:
		t.notify(s.WriterID, event.TemplateBidDeclined, s)
		clearWriter(s)

	case order.ActionAssign:
		s.WriterID = t.payload.Get(transition.FieldWriterID)
		s.WriterName = t.payload.Get(transition.FieldWriterName)
		t.moveDeadline(s)
		t.assign(s)

	case order.ActionConfirm, order.ActionStartWork:
		if t.entry.From == order.Assigned {
			t.confirm(s, false)
		}
		if s.Timeline.StartedAt == nil {
			s.Timeline.StartedAt = order.Stamp(t.now)
		}

	case order.ActionAutoConfirm:
		t.confirm(s, true)
		s.Timeline.StartedAt = order.Stamp(t.now)
		t.notify(s.WriterID, event.TemplateOrderAssigned, s)

	case order.ActionDecline:
		t.release(s)
		s.ConfirmationStatus = order.ConfirmationRejected
		t.notify(event.RecipientAdmins, event.TemplateOrderReleased, s)

	case order.ActionUploadFiles:
		s.SubmissionFiles = append(s.SubmissionFiles, t.payload.Files...)

	case order.ActionSubmit:
		s.SubmissionFiles = append(s.SubmissionFiles, t.payload.Files...)
		s.Timeline.SubmittedAt = order.Stamp(t.now)
		if t.entry.From == order.Late || temporal.IsLate(t.prev, t.now) {
			hours := temporal.HoursLate(t.prev, t.now)
			t.fine(s, t.engine.policy.LateFine(t.prev, hours), order.FineReasonLate, string(kernel.RoleSystem))
		}
		t.notify(event.RecipientAdmins, event.TemplateWorkSubmitted, s)

	case order.ActionApprove:
		s.Timeline.ApprovedAt = order.Stamp(t.now)
		t.notify(s.WriterID, event.TemplateOrderApproved, s)

	case order.ActionReject:
		s.Timeline.RejectedAt = order.Stamp(t.now)
		t.fine(s, t.engine.policy.RejectionFine(t.prev), order.FineReasonRejection, t.actor())
		t.notify(s.WriterID, event.TemplateOrderRejected, s)

	case order.ActionRequestRevision:
		s.RevisionCount++
		s.RevisionScore = t.engine.policy.NextRevisionScore(s.RevisionScore)
		s.RevisionExplanation = t.payload.Get(transition.FieldExplanation)
		t.moveDeadline(s)
		t.notify(s.WriterID, event.TemplateRevisionRequested, s)
		if s.RevisionScore == 0 && !t.prev.NeedsAdminAttention() {
			t.emit(event.AdminAttentionRequired{Reason: "revision score exhausted"})
		}

	case order.ActionUploadRevisionFiles:
		s.RevisionFiles = append(s.RevisionFiles, t.payload.Files...)

	case order.ActionResubmit:
		s.RevisionFiles = append(s.RevisionFiles, t.payload.Files...)
		s.RevisionResponseNotes = t.payload.Get(transition.FieldRevisionNotes)
		s.Timeline.SubmittedAt = order.Stamp(t.now)
		t.notify(event.RecipientAdmins, event.TemplateWorkSubmitted, s)

	case order.ActionComplete:
		s.Timeline.CompletedAt = order.Stamp(t.now)
		t.emit(event.PaymentDue{
			Kind:     event.PaymentWriterPayout,
			PayeeID:  s.WriterID,
			Amount:   financial.WriterPayout(t.prev),
			Currency: s.Currency,
		})

	case order.ActionReassign, order.ActionMakeAvailable:
		writer := s.WriterID
		t.release(s)
		t.moveDeadline(s)
		t.notify(writer, event.TemplateOrderReleased, s)

	case order.ActionAutoReassign:
		writer := s.WriterID
		t.fine(s, t.engine.policy.AutoReassignFine(t.prev), order.FineReasonAutoReassignment, string(kernel.RoleSystem))
		t.release(s)
		t.notify(writer, event.TemplateOrderReleased, s)
		t.notify(event.RecipientAdmins, event.TemplateOrderReleased, s)

	case order.ActionMarkLate:
		t.notify(s.WriterID, event.TemplateOrderLate, s)

	case order.ActionCancel:
		s.Timeline.CancelledAt = order.Stamp(t.now)
		t.notify(s.WriterID, event.TemplateOrderCancelled, s)
		clearWriter(s)

	case order.ActionOpenDispute:
		t.notify(event.RecipientAdmins, event.TemplateDisputeOpened, s)

	case order.ActionResolveDispute:
		s.Timeline.ApprovedAt = order.Stamp(t.now)
		t.notify(s.WriterID, event.TemplateOrderApproved, s)

	case order.ActionRefund:
		t.emit(event.PaymentDue{
			Kind:     event.PaymentClientRefund,
			PayeeID:  s.ClientID,
			Amount:   s.TotalPrice,
			Currency: s.Currency,
		})

	case order.ActionWaiveFine:
		t.waive(s)

	case order.ActionSendMessage:
		s.Messages = append(s.Messages, order.Message{
			Author: t.actor(),
			Text:   t.payload.Get(transition.FieldMessage),
			SentAt: t.now,
		})
		t.notify(s.WriterID, event.TemplateAdminMessage, s)
	}

	s.IsOverdue = !s.Status.IsTerminal() && t.now.After(s.Deadline)
}

// assign starts the confirmation window of a fresh assignment.
func (t *step) assign(s *order.State) {
	deadline := t.engine.rules.AutoConfirmDeadline(t.now)
	s.Timeline.AssignedAt = order.Stamp(t.now)
	s.AssignedBy = t.actor()
	s.ConfirmationStatus = order.ConfirmationPending
	s.Confirmation = nil
	s.AutoConfirmDeadline = order.Stamp(deadline)

	t.emit(event.DeadlineSet{Kind: event.DeadlineAutoConfirm, Deadline: deadline})
	t.notify(s.WriterID, event.TemplateOrderAssigned, s)
}

func (t *step) confirm(s *order.State, system bool) {
	c := &order.Confirmation{
		ConfirmedBy:    t.actor(),
		ConfirmedAt:    t.now,
		SystemAuthored: system,
	}
	if !system {
		c.EstimatedHours = t.payload.Get(transition.FieldEstimatedHours)
		c.Questions = t.payload.Get(transition.FieldQuestions)
	}
	s.ConfirmationStatus = order.ConfirmationConfirmed
	s.Confirmation = c
}

// release takes the order away from its writer and remembers who had it.
func (t *step) release(s *order.State) {
	s.OriginalWriterID = s.WriterID
	s.ReassignedBy = t.actor()
	clearWriter(s)
}

func clearWriter(s *order.State) {
	s.WriterID = ""
	s.WriterName = ""
	s.ConfirmationStatus = order.ConfirmationNone
	s.Confirmation = nil
	s.AutoConfirmDeadline = nil
}

func (t *step) moveDeadline(s *order.State) {
	if t.deadline == nil {
		return
	}
	s.Deadline = *t.deadline
	t.emit(event.DeadlineSet{Kind: event.DeadlineSubmission, Deadline: *t.deadline})
}

func (t *step) fine(s *order.State, amount int64, reason order.FineReason, appliedBy string) {
	if amount <= 0 {
		return
	}
	f := financial.NewFine(t.prev, amount, reason, appliedBy, t.now)
	s.Fines = append(s.Fines, f)
	t.emit(event.FineApplied{
		FineID:   f.ID,
		Amount:   f.Amount,
		Reason:   f.Reason,
		WriterID: f.WriterID,
		Currency: s.Currency,
		Total:    order.FineTotal(s.Fines),
	})
}

func (t *step) waive(s *order.State) {
	id, err := kernel.UUIDFromString(t.payload.Get(transition.FieldFineID))
	if err != nil {
		return
	}
	fine, ok := order.FindFine(s.Fines, id)
	if !ok {
		return
	}
	w := financial.NewWaiver(t.prev, fine, t.actor(), t.payload.Get(transition.FieldReason), t.now)
	s.Fines = append(s.Fines, w)
	t.emit(event.FineApplied{
		FineID:   w.ID,
		Amount:   w.Amount,
		Reason:   w.Reason,
		WriterID: w.WriterID,
		Currency: s.Currency,
		Total:    order.FineTotal(s.Fines),
	})
}
