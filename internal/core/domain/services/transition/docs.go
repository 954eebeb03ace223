// Package transition holds the order state machine: a static table of legal
// (from, action, to) triples, each with the roles allowed to trigger it, the payload
// fields it needs and an optional business guard, plus the validator that admits or
// rejects a requested transition with a precise reason.
//
// The validator checks, in order, and stops at the first failure:
//   - the current status is not terminal (ErrTerminalStateViolation)
//   - the (from, action) pair exists and leads to the requested status (ErrInvalidTransition)
//   - the role is allowed (ErrRoleNotPermitted)
//   - every required payload field is present and non-empty (ErrMissingRequiredField)
//   - the guard admits the request (ErrGuardRejected)
package transition
