// Package lifecycle applies admitted transitions to order snapshots.
//
// Engine.ApplyAction validates a request against the transition table, evolves the
// order into its next snapshot and returns the domain events the transition produced.
// Engine.Reevaluate is the scheduler entry point: it detects auto-reassignment,
// auto-confirmation and lateness and feeds them back through ApplyAction with the
// system role.
//
// The engine never performs I/O and never reads the clock. Callers persist the new
// snapshot and dispatch the events.
package lifecycle
