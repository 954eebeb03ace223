// Package ordertest builds Order snapshots in arbitrary statuses for tests.
package ordertest

import (
	"testing"
	"time"

	"github.com/stretchr/testify/require"

	"marketplace/internal/core/domain/model/kernel"
	"marketplace/internal/core/domain/model/order"
)

// Now is the reference clock used by fixtures.
var Now = time.Date(2026, 3, 2, 12, 0, 0, 0, time.UTC)

const (
	WriterID   = "writer-1"
	WriterName = "Jane Doe"
	ClientID   = "client-1"
)

// Option adjusts a fixture state before it is restored.
type Option func(s *order.State)

// WithDeadline sets the submission deadline.
func WithDeadline(deadline time.Time) Option {
	return func(s *order.State) { s.Deadline = deadline }
}

// WithFines replaces the fine history.
func WithFines(fines ...order.Fine) Option {
	return func(s *order.State) { s.Fines = fines }
}

// WithRevisionScore sets the remaining revision score.
func WithRevisionScore(score int) Option {
	return func(s *order.State) { s.RevisionScore = score }
}

// WithAutoConfirmDeadline sets the auto-confirm deadline of an assignment.
func WithAutoConfirmDeadline(deadline time.Time) Option {
	return func(s *order.State) { s.AutoConfirmDeadline = order.Stamp(deadline) }
}

// With applies an arbitrary change.
func With(fn func(s *order.State)) Option {
	return Option(fn)
}

// State returns a consistent snapshot in status.
func State(status order.Status, opts ...Option) order.State {
	created := Now.Add(-24 * time.Hour)
	s := order.State{
		ID:             kernel.NewUUID(),
		Number:         "ORD-1001",
		ClientID:       ClientID,
		Discipline:     "History",
		PaperType:      "Essay",
		CitationFormat: "APA",
		Pages:          5,
		Words:          1375,
		Currency:       "KES",
		RatePerPage:    350,
		Urgency:        order.UrgencyNormal,
		TotalPrice:     1750,
		Status:         status,
		Timeline:       order.Timeline{CreatedAt: created, PublishedAt: order.Stamp(created)},
		Deadline:       Now.Add(72 * time.Hour),
		RevisionScore:  10,
		RequirementFiles: []order.File{
			{ID: "req-1", Name: "brief.pdf", Size: 2048, URL: "https://files.example/req-1", UploadedAt: created},
		},
		Version:   3,
		UpdatedAt: created,
	}
	if status == order.Draft {
		s.Timeline.PublishedAt = nil
	}
	if status.HoldsWriter() {
		s.WriterID = WriterID
		s.WriterName = WriterName
		if status != order.AwaitingApproval {
			assigned := Now.Add(-12 * time.Hour)
			s.Timeline.AssignedAt = &assigned
			s.AssignedBy = string(kernel.RoleAdmin)
		}
	}
	if status == order.Assigned {
		s.ConfirmationStatus = order.ConfirmationPending
		s.AutoConfirmDeadline = order.Stamp(s.Timeline.AssignedAt.Add(24 * time.Hour))
	}
	for _, opt := range opts {
		opt(&s)
	}
	s.FineAmount = order.FineTotal(s.Fines)
	return s
}

// Restore returns an Order built from State.
func Restore(t testing.TB, status order.Status, opts ...Option) *order.Order {
	t.Helper()
	o, err := order.RestoreOrder(State(status, opts...))
	require.NoError(t, err)
	return o
}

// File returns attachment metadata with the given id.
func File(id string) order.File {
	return order.File{ID: id, Name: id + ".docx", Size: 4096, URL: "https://files.example/" + id, UploadedAt: Now}
}
