package transition

import (
	"fmt"
	"maps"
	"slices"
	"strings"
	"time"

	"marketplace/internal/core/domain/model/order"
	"marketplace/internal/pkg/errs"
)

// Payload field names.
const (
	FieldWriterID       = "writerId"
	FieldWriterName     = "writerName"
	FieldFiles          = "files"
	FieldExplanation    = "explanation"
	FieldRevisionNotes  = "revisionNotes"
	FieldReason         = "reason"
	FieldFineID         = "fineId"
	FieldMessage        = "message"
	FieldActorID        = "actorId"
	FieldDeadline       = "deadline"
	FieldEstimatedHours = "estimatedHours"
	FieldQuestions      = "questions"
)

// Payload is the data supplied with an action: string fields plus attachment metadata.
type Payload struct {
	Fields map[string]string
	Files  []order.File
}

// NewPayload copies fields and files into a Payload.
func NewPayload(fields map[string]string, files ...order.File) Payload {
	return Payload{Fields: maps.Clone(fields), Files: slices.Clone(files)}
}

// Get returns the trimmed value of a field.
func (p Payload) Get(name string) string {
	return strings.TrimSpace(p.Fields[name])
}

// Has reports whether a field is present and non-empty. The files field is satisfied by
// a non-empty file list.
func (p Payload) Has(name string) bool {
	if name == FieldFiles {
		return len(p.Files) > 0
	}
	return p.Get(name) != ""
}

// Deadline parses the optional RFC 3339 deadline field. It returns nil when absent.
func (p Payload) Deadline() (*time.Time, error) {
	raw := p.Get(FieldDeadline)
	if raw == "" {
		return nil, nil
	}
	t, err := time.Parse(time.RFC3339, raw)
	if err != nil {
		return nil, errs.NewValueIsInvalidErrorWithCause(FieldDeadline, fmt.Errorf("%q is not RFC 3339: %w", raw, err))
	}
	return &t, nil
}
