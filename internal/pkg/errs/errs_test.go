package errs_test

import (
	"errors"
	"fmt"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"marketplace/internal/pkg/errs"
)

func TestErrorMessages(t *testing.T) {
	cause := errors.New("connection reset")

	tests := []struct {
		name string
		err  error
		want string
	}{
		{
			name: "object not found",
			err:  errs.NewObjectNotFoundError("order", "7f1c"),
			want: "object not found: 7f1c",
		},
		{
			name: "object not found with cause",
			err:  errs.NewObjectNotFoundErrorWithCause("order", "7f1c", cause),
			want: "object not found: param is: order, ID is: 7f1c (cause: connection reset)",
		},
		{
			name: "invalid value",
			err:  errs.NewValueIsInvalidError("urgency"),
			want: "value is invalid: urgency",
		},
		{
			name: "invalid value with cause",
			err:  errs.NewValueIsInvalidErrorWithCause("deadline", errors.New("not RFC 3339")),
			want: "value is invalid: deadline (cause: not RFC 3339)",
		},
		{
			name: "out of range",
			err:  errs.NewValueIsOutOfRangeError("rejectionFinePercent", 120, 0, 100),
			want: "value is invalid: 120 is rejectionFinePercent, min value is 0, max value is 100",
		},
		{
			name: "out of range with cause",
			err:  errs.NewValueIsOutOfRangeErrorWithCause("revisionScore", -1, 0, 10, cause),
			want: "value is invalid: -1 is revisionScore, min value is 0, max value is 10 (cause: connection reset)",
		},
		{
			name: "out of range flattens multi-line values",
			err:  errs.NewValueIsOutOfRangeError("note", "line one\nline two", 0, 1),
			want: "value is invalid: line one line two is note, min value is 0, max value is 1",
		},
		{
			name: "required value",
			err:  errs.NewValueIsRequiredError("explanation"),
			want: "value is required: explanation",
		},
		{
			name: "required value with cause",
			err:  errs.NewValueIsRequiredErrorWithCause("files", cause),
			want: "value is required: files (cause: connection reset)",
		},
		{
			name: "version conflict",
			err:  errs.NewVersionIsInvalidError("order"),
			want: "version is invalid: order",
		},
		{
			name: "version conflict with cause",
			err:  errs.NewVersionIsInvalidErrorWithCause("order", errors.New("stored version is 4")),
			want: "version is invalid: order (cause: stored version is 4)",
		},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.want, tt.err.Error())
		})
	}
}

func TestErrorsMatchTheirSentinel(t *testing.T) {
	tests := []struct {
		name     string
		err      error
		sentinel error
	}{
		{"object not found", errs.NewObjectNotFoundError("order", 1), errs.ErrObjectNotFound},
		{"invalid value", errs.NewValueIsInvalidError("role"), errs.ErrValueIsInvalid},
		{"out of range", errs.NewValueIsOutOfRangeError("pages", 0, 1, 500), errs.ErrValueIsOutOfRange},
		{"required value", errs.NewValueIsRequiredError("reason"), errs.ErrValueIsRequired},
		{"version conflict", errs.NewVersionIsInvalidError("order"), errs.ErrVersionIsInvalid},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.ErrorIs(t, tt.err, tt.sentinel)
			assert.ErrorIs(t, fmt.Errorf("order ORD-1001: %w", tt.err), tt.sentinel)
		})
	}
}

func TestJoinedValidationErrors(t *testing.T) {
	err := errors.Join(
		errs.NewValueIsRequiredError("number"),
		errs.NewValueIsInvalidErrorWithCause("pages", errors.New("0 is not greater than 0")),
	)

	require.ErrorIs(t, err, errs.ErrValueIsRequired)
	require.ErrorIs(t, err, errs.ErrValueIsInvalid)
	assert.NotErrorIs(t, err, errs.ErrObjectNotFound)

	var invalid *errs.ValueIsInvalidError
	require.ErrorAs(t, err, &invalid)
	assert.Equal(t, "pages", invalid.ParamName)
}

func TestCauseIsKeptButNotUnwrapped(t *testing.T) {
	cause := errors.New("duplicate key")
	err := errs.NewVersionIsInvalidErrorWithCause("order", cause)

	assert.Same(t, cause, err.Cause)
	assert.NotErrorIs(t, err, cause)
}
