package order

import (
	"errors"
	"fmt"
	"slices"
	"time"

	"marketplace/internal/core/domain/model/kernel"
	"marketplace/internal/pkg/errs"
	"marketplace/internal/pkg/guard"
)

var (
	// ErrOrderIsNotConstructed is returned when an Order instance was not created through
	// NewOrder, RestoreOrder or Evolve.
	ErrOrderIsNotConstructed = errors.New("order must be created via NewOrder or RestoreOrder")

	// ErrOrderIsTerminal is returned when a terminal order is asked to evolve.
	ErrOrderIsTerminal = errors.New("order is in a terminal status")

	// ErrInvariantViolated is wrapped by every rejected evolution.
	ErrInvariantViolated = errors.New("order invariant violated")
)

// Order is the aggregate root of the marketplace: one academic-writing order from its
// draft to a terminal status.
//
// Order is an immutable snapshot. Every change goes through Evolve, which returns a new
// Order with a bumped version and leaves the receiver untouched. That keeps the
// previous snapshot available for event derivation and optimistic locking.
//
// Invariants checked on every snapshot:
//   - writer identity is present exactly when the status holds a writer
//   - fineAmount equals the sum of the fine history
//   - revisionScore and revisionCount are never negative
//
// Invariants checked between consecutive snapshots:
//   - terminal orders never change
//   - revisionScore never increases, revisionCount never decreases
//   - fine history and messages are append-only
//   - requirement files are frozen once the order leaves Draft
//   - a changed deadline is not in the past
type Order struct {
	state State
	guard guard.ConstructorGuard
}

// Details describes the paper being ordered.
type Details struct {
	Number           string
	ClientID         string
	Discipline       string
	PaperType        string
	CitationFormat   string
	Pages            int
	Words            int
	Deadline         time.Time
	RequirementFiles []File
}

// Pricing carries the quoted price of an order. TotalPrice is in minor currency units.
type Pricing struct {
	Currency    string
	RatePerPage int64
	Urgency     Urgency
	TotalPrice  int64
}

// NewOrder creates a Draft order.
//
// initialScore is the revision budget (revisionScore) the order starts with. The
// deadline must lie after createdAt.
//
// Example:
//
//	o, err := order.NewOrder(kernel.NewUUID(), details, pricing, 10, time.Now())
//	if err != nil {
//	    // Handle validation error
//	}
func NewOrder(id kernel.UUID, details Details, pricing Pricing, initialScore int, createdAt time.Time) (*Order, error) {
	o := &Order{
		state: State{
			Status:    Draft,
			Timeline:  Timeline{CreatedAt: createdAt},
			UpdatedAt: createdAt,
			Version:   1,
		},
		guard: guard.NewConstructorGuard(),
	}

	if err := errors.Join(
		o.setID(id),
		o.setDetails(details, createdAt),
		o.setPricing(pricing),
		o.setRevisionScore(initialScore),
	); err != nil {
		return nil, err
	}

	return o, nil
}

// RestoreOrder rebuilds an Order from a stored snapshot. The snapshot must satisfy
// every per-snapshot invariant, including fineAmount == sum(fineHistory).
func RestoreOrder(s State) (*Order, error) {
	restored := s.clone()
	if err := restored.validate(); err != nil {
		return nil, err
	}
	return &Order{state: restored, guard: guard.NewConstructorGuard()}, nil
}

// Validate ensures the Order instance was properly constructed.
func (o *Order) Validate() error {
	if o == nil {
		return ErrOrderIsNotConstructed
	}
	if err := o.guard.Validate(ErrOrderIsNotConstructed); err != nil {
		return err
	}
	return nil
}

// Evolve applies mutate to a copy of the current state and returns the result as a new
// snapshot. Version is incremented, UpdatedAt is set to now, fineAmount is recomputed
// from the fine history, and the admin-attention flag is raised once the revision
// score is exhausted. The receiver is never modified.
func (o *Order) Evolve(now time.Time, mutate func(next *State)) (*Order, error) {
	if err := o.Validate(); err != nil {
		return nil, err
	}
	if o.state.Status.IsTerminal() {
		return nil, fmt.Errorf("%w: %s", ErrOrderIsTerminal, o.state.Status)
	}

	next := o.state.clone()
	mutate(&next)

	next.FineAmount = FineTotal(next.Fines)
	next.Version = o.state.Version + 1
	next.UpdatedAt = now
	if next.RevisionCount > 0 && next.RevisionScore == 0 {
		next.NeedsAdminAttention = true
	}

	if err := errors.Join(next.validate(), checkEvolution(o.state, next, now)); err != nil {
		return nil, err
	}

	return &Order{state: next, guard: guard.NewConstructorGuard()}, nil
}

// Snapshot returns a deep copy of the order state, safe to serialize or modify.
func (o *Order) Snapshot() State {
	return o.state.clone()
}

// IsEqual compares two orders by their unique identifiers.
func (o *Order) IsEqual(other *Order) bool {
	return other != nil && o.state.ID.IsEqual(other.state.ID)
}

func (o *Order) ID() kernel.UUID                        { return o.state.ID }
func (o *Order) Number() string                         { return o.state.Number }
func (o *Order) ClientID() string                       { return o.state.ClientID }
func (o *Order) Discipline() string                     { return o.state.Discipline }
func (o *Order) PaperType() string                      { return o.state.PaperType }
func (o *Order) CitationFormat() string                 { return o.state.CitationFormat }
func (o *Order) Pages() int                             { return o.state.Pages }
func (o *Order) Words() int                             { return o.state.Words }
func (o *Order) Currency() string                       { return o.state.Currency }
func (o *Order) RatePerPage() int64                     { return o.state.RatePerPage }
func (o *Order) Urgency() Urgency                       { return o.state.Urgency }
func (o *Order) TotalPrice() int64                      { return o.state.TotalPrice }
func (o *Order) FineAmount() int64                      { return o.state.FineAmount }
func (o *Order) Fines() []Fine                          { return cloneFines(o.state.Fines) }
func (o *Order) Status() Status                         { return o.state.Status }
func (o *Order) ConfirmationStatus() ConfirmationStatus { return o.state.ConfirmationStatus }
func (o *Order) Deadline() time.Time                    { return o.state.Deadline }
func (o *Order) AutoConfirmDeadline() *time.Time        { return cloneTime(o.state.AutoConfirmDeadline) }
func (o *Order) IsOverdue() bool                        { return o.state.IsOverdue }
func (o *Order) StatusReason() string                   { return o.state.StatusReason }
func (o *Order) WriterID() string                       { return o.state.WriterID }
func (o *Order) WriterName() string                     { return o.state.WriterName }
func (o *Order) OriginalWriterID() string               { return o.state.OriginalWriterID }
func (o *Order) AssignedBy() string                     { return o.state.AssignedBy }
func (o *Order) ReassignedBy() string                   { return o.state.ReassignedBy }
func (o *Order) RevisionCount() int                     { return o.state.RevisionCount }
func (o *Order) RevisionScore() int                     { return o.state.RevisionScore }
func (o *Order) RevisionExplanation() string            { return o.state.RevisionExplanation }
func (o *Order) RevisionResponseNotes() string          { return o.state.RevisionResponseNotes }
func (o *Order) NeedsAdminAttention() bool              { return o.state.NeedsAdminAttention }
func (o *Order) RequirementFiles() []File               { return slices.Clone(o.state.RequirementFiles) }
func (o *Order) SubmissionFiles() []File                { return slices.Clone(o.state.SubmissionFiles) }
func (o *Order) RevisionFiles() []File                  { return slices.Clone(o.state.RevisionFiles) }
func (o *Order) Messages() []Message                    { return slices.Clone(o.state.Messages) }
func (o *Order) Version() int64                         { return o.state.Version }
func (o *Order) UpdatedAt() time.Time                   { return o.state.UpdatedAt }

// Timeline returns a copy of the phase stamps.
func (o *Order) Timeline() Timeline {
	return o.state.clone().Timeline
}

// Confirmation returns the writer's confirmation, or nil when none was recorded.
func (o *Order) Confirmation() *Confirmation {
	if o.state.Confirmation == nil {
		return nil
	}
	c := *o.state.Confirmation
	return &c
}

// HasWriter reports whether a writer is attached.
func (o *Order) HasWriter() bool {
	return o.state.WriterID != ""
}

// SubmittedAt returns the most recent submission stamp, or nil.
func (o *Order) SubmittedAt() *time.Time {
	return cloneTime(o.state.Timeline.SubmittedAt)
}

// AssignedAt returns the most recent assignment stamp, or nil.
func (o *Order) AssignedAt() *time.Time {
	return cloneTime(o.state.Timeline.AssignedAt)
}

func (o *Order) setID(id kernel.UUID) error {
	if err := id.Validate(); err != nil {
		return err
	}
	o.state.ID = id
	return nil
}

func (o *Order) setDetails(d Details, createdAt time.Time) error {
	var err error
	if d.Number == "" {
		err = errors.Join(err, errs.NewValueIsRequiredError("orderNumber"))
	}
	if d.Pages <= 0 {
		err = errors.Join(err, errs.NewValueIsInvalidErrorWithCause("pages", fmt.Errorf("%d is not greater than 0", d.Pages)))
	}
	if d.Words < 0 {
		err = errors.Join(err, errs.NewValueIsInvalidErrorWithCause("words", fmt.Errorf("%d is negative", d.Words)))
	}
	if d.Deadline.IsZero() {
		err = errors.Join(err, errs.NewValueIsRequiredError("deadline"))
	} else if !d.Deadline.After(createdAt) {
		err = errors.Join(err, errs.NewValueIsInvalidErrorWithCause("deadline", fmt.Errorf("%s is not after %s", d.Deadline, createdAt)))
	}
	if fileErr := validateFiles(d.RequirementFiles); fileErr != nil {
		err = errors.Join(err, fileErr)
	}
	if err != nil {
		return err
	}

	o.state.Number = d.Number
	o.state.ClientID = d.ClientID
	o.state.Discipline = d.Discipline
	o.state.PaperType = d.PaperType
	o.state.CitationFormat = d.CitationFormat
	o.state.Pages = d.Pages
	o.state.Words = d.Words
	o.state.Deadline = d.Deadline
	o.state.RequirementFiles = slices.Clone(d.RequirementFiles)
	return nil
}

func (o *Order) setPricing(p Pricing) error {
	var err error
	if p.Currency == "" {
		err = errors.Join(err, errs.NewValueIsRequiredError("currency"))
	}
	if p.RatePerPage <= 0 {
		err = errors.Join(err, errs.NewValueIsInvalidErrorWithCause("ratePerPage", fmt.Errorf("%d is not greater than 0", p.RatePerPage)))
	}
	if p.TotalPrice <= 0 {
		err = errors.Join(err, errs.NewValueIsInvalidErrorWithCause("totalPrice", fmt.Errorf("%d is not greater than 0", p.TotalPrice)))
	}
	if uErr := p.Urgency.Validate(); uErr != nil {
		err = errors.Join(err, uErr)
	}
	if err != nil {
		return err
	}

	o.state.Currency = p.Currency
	o.state.RatePerPage = p.RatePerPage
	o.state.Urgency = p.Urgency
	o.state.TotalPrice = p.TotalPrice
	return nil
}

func (o *Order) setRevisionScore(score int) error {
	if score < 0 {
		return errs.NewValueIsInvalidErrorWithCause("revisionScore", fmt.Errorf("%d is negative", score))
	}
	o.state.RevisionScore = score
	return nil
}

// validate checks the invariants that hold for any single snapshot.
func (s State) validate() error {
	var err error
	if idErr := s.ID.Validate(); idErr != nil {
		err = errors.Join(err, idErr)
	}
	if stErr := s.Status.Validate(); stErr != nil {
		err = errors.Join(err, stErr)
	}
	if s.Status.HoldsWriter() && s.WriterID == "" {
		err = errors.Join(err, violation("writerId", fmt.Errorf("status %s requires a writer", s.Status)))
	}
	if !s.Status.HoldsWriter() && s.WriterID != "" {
		err = errors.Join(err, violation("writerId", fmt.Errorf("status %s must not hold a writer", s.Status)))
	}
	if s.RevisionScore < 0 {
		err = errors.Join(err, violation("revisionScore", fmt.Errorf("%d is negative", s.RevisionScore)))
	}
	if s.RevisionCount < 0 {
		err = errors.Join(err, violation("revisionCount", fmt.Errorf("%d is negative", s.RevisionCount)))
	}
	if total := FineTotal(s.Fines); total != s.FineAmount {
		err = errors.Join(err, violation("fineAmount", fmt.Errorf("%d does not match fine history total %d", s.FineAmount, total)))
	}
	for _, list := range [][]File{s.RequirementFiles, s.SubmissionFiles, s.RevisionFiles} {
		if fErr := validateFiles(list); fErr != nil {
			err = errors.Join(err, fErr)
		}
	}
	return err
}

// checkEvolution checks the invariants that relate two consecutive snapshots.
func checkEvolution(prev, next State, now time.Time) error {
	var err error
	if !prev.ID.IsEqual(next.ID) || prev.Number != next.Number {
		err = errors.Join(err, violation("id", errors.New("order identity cannot change")))
	}
	if next.RevisionScore > prev.RevisionScore {
		err = errors.Join(err, violation("revisionScore", fmt.Errorf("%d cannot increase to %d", prev.RevisionScore, next.RevisionScore)))
	}
	if next.RevisionCount < prev.RevisionCount {
		err = errors.Join(err, violation("revisionCount", fmt.Errorf("%d cannot decrease to %d", prev.RevisionCount, next.RevisionCount)))
	}
	if !isFinePrefix(prev.Fines, next.Fines) {
		err = errors.Join(err, violation("fineHistory", errors.New("fine history is append-only")))
	}
	if len(next.Messages) < len(prev.Messages) || !slices.Equal(prev.Messages, next.Messages[:len(prev.Messages)]) {
		err = errors.Join(err, violation("messages", errors.New("messages are append-only")))
	}
	if prev.Status != Draft && !sameFiles(prev.RequirementFiles, next.RequirementFiles) {
		err = errors.Join(err, violation("requirementFiles", errors.New("requirement files are frozen after publication")))
	}
	if !next.Deadline.Equal(prev.Deadline) && next.Deadline.Before(now) {
		err = errors.Join(err, violation("deadline", fmt.Errorf("%s is in the past", next.Deadline)))
	}
	if next.AutoConfirmDeadline != nil && !sameTime(prev.AutoConfirmDeadline, next.AutoConfirmDeadline) &&
		next.AutoConfirmDeadline.Before(now) {
		err = errors.Join(err, violation("autoConfirmDeadline", fmt.Errorf("%s is in the past", *next.AutoConfirmDeadline)))
	}
	return err
}

func violation(param string, cause error) error {
	return fmt.Errorf("%w: %w", ErrInvariantViolated, errs.NewValueIsInvalidErrorWithCause(param, cause))
}

func isFinePrefix(prev, next []Fine) bool {
	if len(next) < len(prev) {
		return false
	}
	for i := range prev {
		if !prev[i].ID.IsEqual(next[i].ID) || prev[i].Amount != next[i].Amount || prev[i].Reason != next[i].Reason {
			return false
		}
	}
	return true
}

func sameFiles(a, b []File) bool {
	if len(a) != len(b) {
		return false
	}
	for i := range a {
		if a[i].ID != b[i].ID {
			return false
		}
	}
	return true
}

func sameTime(a, b *time.Time) bool {
	if a == nil || b == nil {
		return a == b
	}
	return a.Equal(*b)
}
