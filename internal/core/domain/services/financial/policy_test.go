package financial_test

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"marketplace/internal/core/domain/model/kernel"
	"marketplace/internal/core/domain/model/order"
	"marketplace/internal/core/domain/model/order/ordertest"
	"marketplace/internal/core/domain/services/financial"
	"marketplace/internal/pkg/errs"
)

func TestPolicy_Validate(t *testing.T) {
	assert.NoError(t, financial.DefaultPolicy().Validate())

	p := financial.DefaultPolicy()
	p.Currency = ""
	p.RevisionScoreStep = 0
	p.RejectionFinePercent = 120

	err := p.Validate()

	require.Error(t, err)
	assert.ErrorIs(t, err, errs.ErrValueIsRequired)
	assert.ErrorIs(t, err, errs.ErrValueIsInvalid)
	assert.ErrorIs(t, err, errs.ErrValueIsOutOfRange)
}

func TestPolicy_TotalPrice(t *testing.T) {
	policy := financial.DefaultPolicy()

	tests := []struct {
		name     string
		pages    int
		urgency  order.Urgency
		expected int64
	}{
		{"normal is the base price", 5, order.UrgencyNormal, 1750},
		{"urgent applies 1.2", 5, order.UrgencyUrgent, 2100},
		{"very urgent applies 1.5", 5, order.UrgencyVeryUrgent, 2625},
		{"one urgent page", 1, order.UrgencyUrgent, 420},
		{"one very urgent page", 1, order.UrgencyVeryUrgent, 525},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			total, err := policy.TotalPrice(tt.pages, tt.urgency)

			require.NoError(t, err)
			assert.Equal(t, tt.expected, total)
		})
	}

	t.Run("rounds fractional results", func(t *testing.T) {
		p := financial.DefaultPolicy()
		p.RatePerPage = 333

		total, err := p.TotalPrice(1, order.UrgencyUrgent)

		require.NoError(t, err)
		assert.Equal(t, int64(400), total) // 399.6
	})

	t.Run("rejects non-positive pages", func(t *testing.T) {
		_, err := policy.TotalPrice(0, order.UrgencyNormal)
		assert.ErrorIs(t, err, errs.ErrValueIsInvalid)
	})

	t.Run("rejects unknown urgency", func(t *testing.T) {
		_, err := policy.TotalPrice(3, order.Urgency("asap"))
		assert.ErrorIs(t, err, errs.ErrValueIsInvalid)
	})
}

func TestPolicy_Quote(t *testing.T) {
	q, err := financial.DefaultPolicy().Quote(5, order.UrgencyUrgent)

	require.NoError(t, err)
	assert.Equal(t, int64(1750), q.BasePrice)
	assert.Equal(t, "1.2", q.Multiplier.String())
	assert.Equal(t, int64(2100), q.TotalPrice)
	assert.Equal(t, order.Pricing{Currency: "KES", RatePerPage: 350, Urgency: order.UrgencyUrgent, TotalPrice: 2100}, q.Pricing())
}

func TestPolicy_Fines(t *testing.T) {
	policy := financial.DefaultPolicy()
	o := ordertest.Restore(t, order.InProgress) // total 1750

	t.Run("late fine rounds hours up", func(t *testing.T) {
		assert.Equal(t, int64(0), policy.LateFine(o, 0))
		assert.Equal(t, int64(50), policy.LateFine(o, 0.1))
		assert.Equal(t, int64(100), policy.LateFine(o, 1.5))
	})

	t.Run("late fine is capped at the order total", func(t *testing.T) {
		assert.Equal(t, int64(1750), policy.LateFine(o, 500))
	})

	t.Run("percentage fines", func(t *testing.T) {
		assert.Equal(t, int64(175), policy.RejectionFine(o))
		assert.Equal(t, int64(350), policy.AutoReassignFine(o))
	})
}

func TestPolicy_NextRevisionScore(t *testing.T) {
	policy := financial.DefaultPolicy()

	assert.Equal(t, 9, policy.NextRevisionScore(10))
	assert.Equal(t, 0, policy.NextRevisionScore(1))
	assert.Equal(t, 0, policy.NextRevisionScore(0))
}

func TestWriterPayout(t *testing.T) {
	now := ordertest.Now

	t.Run("subtracts live fines", func(t *testing.T) {
		o := ordertest.Restore(t, order.Approved, ordertest.WithFines(
			order.Fine{ID: kernel.NewUUID(), Amount: 175, Reason: order.FineReasonRejection, AppliedAt: now},
		))

		assert.Equal(t, int64(1575), financial.WriterPayout(o))
	})

	t.Run("never goes negative", func(t *testing.T) {
		o := ordertest.Restore(t, order.Approved, ordertest.WithFines(
			order.Fine{ID: kernel.NewUUID(), Amount: 1750, Reason: order.FineReasonLate, AppliedAt: now},
			order.Fine{ID: kernel.NewUUID(), Amount: 350, Reason: order.FineReasonAutoReassignment, AppliedAt: now},
		))

		assert.Equal(t, int64(0), financial.WriterPayout(o))
	})
}

func TestNewFine(t *testing.T) {
	now := ordertest.Now
	o := ordertest.Restore(t, order.InProgress)

	first := financial.NewFine(o, 100, order.FineReasonLate, "system", now)
	again := financial.NewFine(o, 100, order.FineReasonLate, "system", now.Add(time.Minute))

	assert.True(t, first.ID.IsEqual(again.ID))
	assert.Equal(t, ordertest.WriterID, first.WriterID)

	waiver := financial.NewWaiver(o, first, "admin", "goodwill", now)
	assert.Equal(t, int64(-100), waiver.Amount)
	assert.Equal(t, order.FineReasonWaiver, waiver.Reason)
	require.NotNil(t, waiver.WaivesFine)
	assert.True(t, waiver.WaivesFine.IsEqual(first.ID))
	assert.False(t, waiver.ID.IsEqual(first.ID))
}
