package order

import (
	"fmt"

	"marketplace/internal/pkg/errs"
)

// Action identifies a requested lifecycle operation. Values are the wire identifiers
// accepted from callers.
type Action string

const (
	ActionCreate              Action = "create"
	ActionBid                 Action = "bid"
	ActionApproveBid          Action = "approve_bid"
	ActionDeclineBid          Action = "decline_bid"
	ActionAssign              Action = "assign"
	ActionConfirm             Action = "confirm"
	ActionDecline             Action = "decline"
	ActionStartWork           Action = "start_work"
	ActionUploadFiles         Action = "upload_files"
	ActionSubmit              Action = "submit"
	ActionApprove             Action = "approve"
	ActionReject              Action = "reject"
	ActionRequestRevision     Action = "request_revision"
	ActionUploadRevisionFiles Action = "upload_revision_files"
	ActionResubmit            Action = "resubmit"
	ActionComplete            Action = "complete"
	ActionReassign            Action = "reassign"
	ActionMakeAvailable       Action = "make_available"
	ActionCancel              Action = "cancel"
	ActionPutOnHold           Action = "put_on_hold"
	ActionOpenDispute         Action = "open_dispute"
	ActionResolveDispute      Action = "resolve_dispute"
	ActionRefund              Action = "refund"
	ActionWaiveFine           Action = "waive_fine"
	ActionSendMessage         Action = "send_message"

	// Actions below are issued by the scheduler through the system role.
	ActionAutoConfirm  Action = "auto_confirm"
	ActionMarkLate     Action = "mark_late"
	ActionAutoReassign Action = "auto_reassign"
)

// Actions lists every known action.
func Actions() []Action {
	return []Action{
		ActionCreate, ActionBid, ActionApproveBid, ActionDeclineBid, ActionAssign,
		ActionConfirm, ActionDecline, ActionStartWork, ActionUploadFiles, ActionSubmit,
		ActionApprove, ActionReject, ActionRequestRevision, ActionUploadRevisionFiles,
		ActionResubmit, ActionComplete, ActionReassign, ActionMakeAvailable, ActionCancel,
		ActionPutOnHold, ActionOpenDispute, ActionResolveDispute, ActionRefund,
		ActionWaiveFine, ActionSendMessage, ActionAutoConfirm, ActionMarkLate, ActionAutoReassign,
	}
}

// ParseAction converts a wire identifier into an Action.
func ParseAction(s string) (Action, error) {
	for _, a := range Actions() {
		if string(a) == s {
			return a, nil
		}
	}
	return "", errs.NewValueIsInvalidErrorWithCause("action", fmt.Errorf("%q is not a known action", s))
}

func (a Action) String() string {
	return string(a)
}
