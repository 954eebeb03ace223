package queries

import (
	"errors"
	"fmt"

	"marketplace/internal/core/domain/model/order"
	"marketplace/internal/pkg/errs"
	"marketplace/internal/pkg/guard"
)

var ErrQuotePriceQueryIsNotConstructed = errors.New(
	"QuotePriceQuery must be created via NewQuotePriceQuery constructor",
)

// QuotePriceQuery prices a prospective order before it is created.
type QuotePriceQuery struct {
	pages   int
	urgency order.Urgency

	guard guard.ConstructorGuard
}

func NewQuotePriceQuery(pages int, urgency order.Urgency) (QuotePriceQuery, error) {
	if pages <= 0 {
		return QuotePriceQuery{}, errs.NewValueIsInvalidErrorWithCause("pages", fmt.Errorf("%d is not greater than 0", pages))
	}
	if urgency == "" {
		urgency = order.UrgencyNormal
	}
	if err := urgency.Validate(); err != nil {
		return QuotePriceQuery{}, err
	}

	return QuotePriceQuery{pages: pages, urgency: urgency, guard: guard.NewConstructorGuard()}, nil
}

func (q QuotePriceQuery) Validate() error {
	return q.guard.Validate(ErrQuotePriceQueryIsNotConstructed)
}

func (q QuotePriceQuery) Pages() int             { return q.pages }
func (q QuotePriceQuery) Urgency() order.Urgency { return q.urgency }
