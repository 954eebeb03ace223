package order

import (
	"slices"
	"time"

	"marketplace/internal/core/domain/model/kernel"
)

// Timeline holds the stamp of every phase transition. Nil means the phase was not reached.
type Timeline struct {
	CreatedAt   time.Time  `json:"createdAt"`
	PublishedAt *time.Time `json:"publishedAt,omitempty"`
	AssignedAt  *time.Time `json:"assignedAt,omitempty"`
	StartedAt   *time.Time `json:"startedAt,omitempty"`
	SubmittedAt *time.Time `json:"submittedAt,omitempty"`
	ApprovedAt  *time.Time `json:"approvedAt,omitempty"`
	RejectedAt  *time.Time `json:"rejectedAt,omitempty"`
	CompletedAt *time.Time `json:"completedAt,omitempty"`
	CancelledAt *time.Time `json:"cancelledAt,omitempty"`
}

// State is the full, serializable content of an Order snapshot. Orders are rebuilt
// from it by RestoreOrder and evolved through Order.Evolve; both validate it.
type State struct {
	ID       kernel.UUID `json:"id"`
	Number   string      `json:"number"`
	ClientID string      `json:"clientId,omitempty"`

	Discipline     string `json:"discipline"`
	PaperType      string `json:"paperType"`
	CitationFormat string `json:"citationFormat"`
	Pages          int    `json:"pages"`
	Words          int    `json:"words"`

	Currency    string  `json:"currency"`
	RatePerPage int64   `json:"ratePerPage"`
	Urgency     Urgency `json:"urgency"`
	TotalPrice  int64   `json:"totalPrice"`
	FineAmount  int64   `json:"fineAmount"`
	Fines       []Fine  `json:"fineHistory"`

	Status              Status             `json:"status"`
	ConfirmationStatus  ConfirmationStatus `json:"confirmationStatus,omitempty"`
	Confirmation        *Confirmation      `json:"confirmation,omitempty"`
	Timeline            Timeline           `json:"timeline"`
	Deadline            time.Time          `json:"deadline"`
	AutoConfirmDeadline *time.Time         `json:"autoConfirmDeadline,omitempty"`
	IsOverdue           bool               `json:"isOverdue"`
	StatusReason        string             `json:"statusReason,omitempty"`

	WriterID         string `json:"writerId,omitempty"`
	WriterName       string `json:"writerName,omitempty"`
	OriginalWriterID string `json:"originalWriterId,omitempty"`
	AssignedBy       string `json:"assignedBy,omitempty"`
	ReassignedBy     string `json:"reassignedBy,omitempty"`

	RevisionCount         int    `json:"revisionCount"`
	RevisionScore         int    `json:"revisionScore"`
	RevisionExplanation   string `json:"revisionExplanation,omitempty"`
	RevisionResponseNotes string `json:"revisionResponseNotes,omitempty"`
	NeedsAdminAttention   bool   `json:"needsAdminAttention"`

	RequirementFiles []File    `json:"requirementFiles"`
	SubmissionFiles  []File    `json:"submissionFiles"`
	RevisionFiles    []File    `json:"revisionFiles"`
	Messages         []Message `json:"messages"`

	Version   int64     `json:"version"`
	UpdatedAt time.Time `json:"updatedAt"`
}

func (s State) clone() State {
	c := s
	c.Fines = cloneFines(s.Fines)
	c.RequirementFiles = slices.Clone(s.RequirementFiles)
	c.SubmissionFiles = slices.Clone(s.SubmissionFiles)
	c.RevisionFiles = slices.Clone(s.RevisionFiles)
	c.Messages = slices.Clone(s.Messages)
	c.AutoConfirmDeadline = cloneTime(s.AutoConfirmDeadline)
	if s.Confirmation != nil {
		confirmation := *s.Confirmation
		c.Confirmation = &confirmation
	}
	c.Timeline = Timeline{
		CreatedAt:   s.Timeline.CreatedAt,
		PublishedAt: cloneTime(s.Timeline.PublishedAt),
		AssignedAt:  cloneTime(s.Timeline.AssignedAt),
		StartedAt:   cloneTime(s.Timeline.StartedAt),
		SubmittedAt: cloneTime(s.Timeline.SubmittedAt),
		ApprovedAt:  cloneTime(s.Timeline.ApprovedAt),
		RejectedAt:  cloneTime(s.Timeline.RejectedAt),
		CompletedAt: cloneTime(s.Timeline.CompletedAt),
		CancelledAt: cloneTime(s.Timeline.CancelledAt),
	}
	return c
}

func cloneFines(fines []Fine) []Fine {
	if fines == nil {
		return nil
	}
	out := make([]Fine, len(fines))
	for i, f := range fines {
		out[i] = f
		if f.WaivesFine != nil {
			id := *f.WaivesFine
			out[i].WaivesFine = &id
		}
	}
	return out
}

func cloneTime(t *time.Time) *time.Time {
	if t == nil {
		return nil
	}
	v := *t
	return &v
}

// Stamp returns a pointer to a copy of t, for timeline fields.
func Stamp(t time.Time) *time.Time {
	return &t
}
