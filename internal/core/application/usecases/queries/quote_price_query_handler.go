package queries

import (
	"context"

	"marketplace/internal/core/domain/services/financial"
)

type QuotePriceQueryHandler struct {
	policy financial.Policy
}

func NewQuotePriceQueryHandler(policy financial.Policy) QuotePriceQueryHandler {
	return QuotePriceQueryHandler{policy: policy}
}

func (h QuotePriceQueryHandler) Handle(_ context.Context, query QuotePriceQuery) (financial.Quote, error) {
	if err := query.Validate(); err != nil {
		return financial.Quote{}, err
	}

	return h.policy.Quote(query.Pages(), query.Urgency())
}
