// Package financial computes the money side of the order lifecycle: per-page pricing
// with urgency multipliers, fines for late, rejected and reassigned work, the revision
// score decay, and the writer payout.
//
// Amounts are integers in minor currency units. Intermediate arithmetic uses
// shopspring/decimal so percentages and multipliers round exactly once.
package financial
