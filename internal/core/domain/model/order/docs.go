// Package order provides the Order aggregate of the academic-writing marketplace.
//
// The package includes:
//   - Order: an immutable snapshot of one order, evolved through Order.Evolve
//   - State: the serializable content of a snapshot
//   - Status, Action, Urgency: the enumerations the lifecycle is expressed in
//   - Fine, File, Message, Confirmation: value records carried by an order
//
// Which actions are legal in which status is not decided here. The transition table
// and the lifecycle service own that; Order only guards the invariants every snapshot
// must satisfy and the rules that link consecutive snapshots.
package order
