package queries_test

import (
	"testing"

	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"marketplace/internal/core/application/usecases/queries"
	"marketplace/internal/core/domain/model/order"
	"marketplace/internal/core/domain/services/financial"
	"marketplace/internal/pkg/errs"
)

func TestQuotePriceQueryHandler_Handle(t *testing.T) {
	h := queries.NewQuotePriceQueryHandler(financial.DefaultPolicy())

	tests := []struct {
		name    string
		pages   int
		urgency order.Urgency
		total   int64
	}{
		{"normal defaults when urgency is empty", 3, "", 1050},
		{"urgent adds a fifth", 3, order.UrgencyUrgent, 1260},
		{"very urgent adds half", 3, order.UrgencyVeryUrgent, 1575},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			q, err := queries.NewQuotePriceQuery(tt.pages, tt.urgency)
			require.NoError(t, err)

			quote, err := h.Handle(t.Context(), q)

			require.NoError(t, err)
			assert.Equal(t, tt.total, quote.TotalPrice)
			assert.Equal(t, int64(1050), quote.BasePrice)
			assert.Equal(t, financial.DefaultCurrency, quote.Currency)
		})
	}

	t.Run("multiplier is exposed", func(t *testing.T) {
		q, _ := queries.NewQuotePriceQuery(1, order.UrgencyUrgent)
		quote, err := h.Handle(t.Context(), q)
		require.NoError(t, err)
		assert.True(t, decimal.RequireFromString("1.2").Equal(quote.Multiplier))
	})

	t.Run("pages must be positive", func(t *testing.T) {
		_, err := queries.NewQuotePriceQuery(0, order.UrgencyNormal)
		require.ErrorIs(t, err, errs.ErrValueIsInvalid)
	})

	t.Run("unknown urgency", func(t *testing.T) {
		_, err := queries.NewQuotePriceQuery(2, order.Urgency("asap"))
		require.Error(t, err)
	})

	t.Run("unconstructed query", func(t *testing.T) {
		_, err := h.Handle(t.Context(), queries.QuotePriceQuery{})
		require.ErrorIs(t, err, queries.ErrQuotePriceQueryIsNotConstructed)
	})
}
