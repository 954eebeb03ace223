package transition

import (
	"errors"
	"fmt"
	"time"

	"marketplace/internal/core/domain/model/kernel"
	"marketplace/internal/core/domain/model/order"
	"marketplace/internal/core/domain/services/temporal"
)

var (
	admin       = []kernel.Role{kernel.RoleAdmin}
	writer      = []kernel.Role{kernel.RoleWriter}
	system      = []kernel.Role{kernel.RoleSystem}
	adminWriter = []kernel.Role{kernel.RoleAdmin, kernel.RoleWriter}
)

// DefaultTable returns the marketplace workflow with guards bound to rules.
func DefaultTable(rules temporal.Rules) *Table {
	release := writerRelease(rules)

	entries := []Entry{
		{From: order.Draft, Action: order.ActionCreate, To: order.Available, Roles: admin},

		{From: order.Available, Action: order.ActionBid, To: order.AwaitingApproval, Roles: writer,
			Required: []string{FieldWriterID, FieldWriterName}},
		{From: order.AwaitingApproval, Action: order.ActionApproveBid, To: order.Assigned, Roles: admin,
			Guard: openDeadline},
		{From: order.AwaitingApproval, Action: order.ActionDeclineBid, To: order.Available, Roles: admin},
		{From: order.Available, Action: order.ActionAssign, To: order.Assigned, Roles: admin,
			Required: []string{FieldWriterID, FieldWriterName}, Guard: openDeadline},

		{From: order.Assigned, Action: order.ActionConfirm, To: order.InProgress, Roles: writer},
		{From: order.Assigned, Action: order.ActionStartWork, To: order.InProgress, Roles: writer},
		{From: order.Assigned, Action: order.ActionDecline, To: order.Available, Roles: writer,
			Required: []string{FieldReason}, Guard: release},
		{From: order.Assigned, Action: order.ActionAutoConfirm, To: order.InProgress, Roles: system,
			Guard: autoConfirmDue(rules)},

		{From: order.InProgress, Action: order.ActionUploadFiles, To: order.InProgress, Roles: writer,
			Required: []string{FieldFiles}},
		{From: order.InProgress, Action: order.ActionSubmit, To: order.Submitted, Roles: writer,
			Required: []string{FieldFiles}},
		{From: order.InProgress, Action: order.ActionPutOnHold, To: order.OnHold, Roles: admin,
			Required: []string{FieldReason}},
		{From: order.InProgress, Action: order.ActionMarkLate, To: order.Late, Roles: system,
			Guard: lateMarkDue(rules)},
		{From: order.OnHold, Action: order.ActionStartWork, To: order.InProgress, Roles: adminWriter},

		{From: order.Late, Action: order.ActionUploadFiles, To: order.Late, Roles: writer,
			Required: []string{FieldFiles}},
		{From: order.Late, Action: order.ActionSubmit, To: order.Submitted, Roles: writer,
			Required: []string{FieldFiles}},

		{From: order.Submitted, Action: order.ActionApprove, To: order.Approved, Roles: admin},
		{From: order.Submitted, Action: order.ActionReject, To: order.Rejected, Roles: admin},
		{From: order.Submitted, Action: order.ActionRequestRevision, To: order.Revision, Roles: admin,
			Required: []string{FieldExplanation}},
		{From: order.Revision, Action: order.ActionUploadRevisionFiles, To: order.Revision, Roles: writer,
			Required: []string{FieldFiles}},
		{From: order.Revision, Action: order.ActionResubmit, To: order.Submitted, Roles: writer,
			Required: []string{FieldFiles, FieldRevisionNotes}},

		{From: order.Approved, Action: order.ActionComplete, To: order.Completed, Roles: adminWriter},

		{From: order.Disputed, Action: order.ActionResolveDispute, To: order.Approved, Roles: admin,
			Required: []string{FieldReason}},
	}

	for _, from := range []order.Status{order.Assigned, order.InProgress, order.Late} {
		entries = append(entries,
			Entry{From: from, Action: order.ActionReassign, To: order.Available, Roles: adminWriter,
				Required: []string{FieldReason}, Guard: release},
			Entry{From: from, Action: order.ActionMakeAvailable, To: order.Available, Roles: admin},
			Entry{From: from, Action: order.ActionAutoReassign, To: order.Available, Roles: system,
				Guard: autoReassignDue(rules)},
		)
	}
	for _, from := range []order.Status{order.Available, order.Assigned} {
		entries = append(entries,
			Entry{From: from, Action: order.ActionCancel, To: order.Cancelled, Roles: admin})
	}
	for _, from := range []order.Status{order.Submitted, order.Approved, order.Rejected} {
		entries = append(entries,
			Entry{From: from, Action: order.ActionOpenDispute, To: order.Disputed, Roles: adminWriter,
				Required: []string{FieldReason}})
	}
	for _, from := range []order.Status{order.Disputed, order.Rejected} {
		entries = append(entries,
			Entry{From: from, Action: order.ActionRefund, To: order.Refunded, Roles: admin,
				Required: []string{FieldReason}})
	}
	for _, from := range order.Statuses() {
		if from.IsTerminal() {
			continue
		}
		entries = append(entries,
			Entry{From: from, Action: order.ActionWaiveFine, To: from, Roles: admin,
				Required: []string{FieldFineID, FieldReason}, Guard: waivableFine},
			Entry{From: from, Action: order.ActionSendMessage, To: from, Roles: admin,
				Required: []string{FieldMessage}},
		)
	}

	return MustNewTable(entries...)
}

// writerRelease applies the reassign cutoff to writers only.
func writerRelease(rules temporal.Rules) Guard {
	return func(o *order.Order, role kernel.Role, _ Payload, now time.Time) error {
		if role != kernel.RoleWriter {
			return nil
		}
		return rules.CheckWriterRelease(o, now)
	}
}

// openDeadline refuses to hand an order to a writer when its deadline has already
// passed, unless the request carries a new one.
func openDeadline(o *order.Order, _ kernel.Role, p Payload, now time.Time) error {
	deadline := o.Deadline()
	if d, err := p.Deadline(); err == nil && d != nil {
		deadline = *d
	}
	if !deadline.After(now) {
		return fmt.Errorf("deadline %s has passed, a new %s is required", deadline.Format(time.RFC3339), FieldDeadline)
	}
	return nil
}

func autoConfirmDue(rules temporal.Rules) Guard {
	return func(o *order.Order, _ kernel.Role, _ Payload, now time.Time) error {
		if !rules.AutoConfirmDue(o, now) {
			return errors.New("auto-confirm deadline not reached")
		}
		return nil
	}
}

func lateMarkDue(rules temporal.Rules) Guard {
	return func(o *order.Order, _ kernel.Role, _ Payload, now time.Time) error {
		if !rules.LateMarkDue(o, now) {
			return errors.New("order is not late")
		}
		return nil
	}
}

func autoReassignDue(rules temporal.Rules) Guard {
	return func(o *order.Order, _ kernel.Role, _ Payload, now time.Time) error {
		if !rules.AutoReassignDue(o, now) {
			return fmt.Errorf("order is not more than %s late", rules.AutoReassignAfter)
		}
		return nil
	}
}

// waivableFine checks the fine named by the payload. Without a fine id it only checks
// that some fine can be waived, which is what option listings need.
func waivableFine(o *order.Order, _ kernel.Role, p Payload, _ time.Time) error {
	raw := p.Get(FieldFineID)
	if raw == "" {
		if len(WaivableFines(o)) == 0 {
			return errors.New("order has no fine to waive")
		}
		return nil
	}

	id, err := kernel.UUIDFromString(raw)
	if err != nil {
		return fmt.Errorf("fine id %q is malformed", raw)
	}
	fines := o.Fines()
	fine, ok := order.FindFine(fines, id)
	switch {
	case !ok:
		return fmt.Errorf("fine %s does not exist", id)
	case fine.Reason == order.FineReasonWaiver:
		return fmt.Errorf("fine %s is a waiver", id)
	case order.IsWaived(fines, id):
		return fmt.Errorf("fine %s is already waived", id)
	}
	return nil
}

// WaivableFines lists the fines of o that are not waivers and not yet waived.
func WaivableFines(o *order.Order) []order.Fine {
	fines := o.Fines()
	var out []order.Fine
	for _, f := range fines {
		if f.Reason != order.FineReasonWaiver && !order.IsWaived(fines, f.ID) {
			out = append(out, f)
		}
	}
	return out
}
