// Package event defines the domain events emitted by order transitions.
//
// Events are plain values. The lifecycle service returns them next to the new order
// snapshot and the application layer dispatches them after the snapshot is committed.
package event
