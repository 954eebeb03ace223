package financial

import (
	"errors"
	"fmt"
	"math"
	"time"

	"github.com/shopspring/decimal"

	"marketplace/internal/core/domain/model/kernel"
	"marketplace/internal/core/domain/model/order"
	"marketplace/internal/pkg/errs"
)

const (
	DefaultCurrency                = "KES"
	DefaultRatePerPage             = 350
	DefaultRevisionStartScore      = 10
	DefaultRevisionScoreStep       = 1
	DefaultLateFinePerHour         = 50
	DefaultRejectionFinePercent    = 10
	DefaultAutoReassignFinePercent = 20
)

// Policy is the named financial configuration of the engine.
type Policy struct {
	Currency                string
	RatePerPage             int64
	RevisionStartScore      int
	RevisionScoreStep       int
	LateFinePerHour         int64
	RejectionFinePercent    int64
	AutoReassignFinePercent int64
}

// DefaultPolicy returns the stock configuration.
func DefaultPolicy() Policy {
	return Policy{
		Currency:                DefaultCurrency,
		RatePerPage:             DefaultRatePerPage,
		RevisionStartScore:      DefaultRevisionStartScore,
		RevisionScoreStep:       DefaultRevisionScoreStep,
		LateFinePerHour:         DefaultLateFinePerHour,
		RejectionFinePercent:    DefaultRejectionFinePercent,
		AutoReassignFinePercent: DefaultAutoReassignFinePercent,
	}
}

func (p Policy) Validate() error {
	var err error
	if p.Currency == "" {
		err = errors.Join(err, errs.NewValueIsRequiredError("currency"))
	}
	if p.RatePerPage <= 0 {
		err = errors.Join(err, errs.NewValueIsInvalidErrorWithCause("ratePerPage", fmt.Errorf("%d is not greater than 0", p.RatePerPage)))
	}
	if p.RevisionStartScore < 0 {
		err = errors.Join(err, errs.NewValueIsInvalidErrorWithCause("revisionStartScore", fmt.Errorf("%d is negative", p.RevisionStartScore)))
	}
	if p.RevisionScoreStep <= 0 {
		err = errors.Join(err, errs.NewValueIsInvalidErrorWithCause("revisionScoreStep", fmt.Errorf("%d is not greater than 0", p.RevisionScoreStep)))
	}
	if p.LateFinePerHour < 0 {
		err = errors.Join(err, errs.NewValueIsInvalidErrorWithCause("lateFinePerHour", fmt.Errorf("%d is negative", p.LateFinePerHour)))
	}
	for name, pct := range map[string]int64{
		"rejectionFinePercent":    p.RejectionFinePercent,
		"autoReassignFinePercent": p.AutoReassignFinePercent,
	} {
		if pct < 0 || pct > 100 {
			err = errors.Join(err, errs.NewValueIsOutOfRangeError(name, pct, 0, 100))
		}
	}
	return err
}

// Multiplier returns the urgency price multiplier.
func Multiplier(u order.Urgency) (decimal.Decimal, error) {
	switch u {
	case order.UrgencyNormal:
		return decimal.NewFromInt(1), nil
	case order.UrgencyUrgent:
		return decimal.RequireFromString("1.2"), nil
	case order.UrgencyVeryUrgent:
		return decimal.RequireFromString("1.5"), nil
	default:
		return decimal.Zero, u.Validate()
	}
}

// BasePrice is pages × rate.
func (p Policy) BasePrice(pages int) (int64, error) {
	if pages <= 0 {
		return 0, errs.NewValueIsInvalidErrorWithCause("pages", fmt.Errorf("%d is not greater than 0", pages))
	}
	return int64(pages) * p.RatePerPage, nil
}

// TotalPrice is round(pages × rate × multiplier), rounded half away from zero.
func (p Policy) TotalPrice(pages int, u order.Urgency) (int64, error) {
	base, err := p.BasePrice(pages)
	if err != nil {
		return 0, err
	}
	m, err := Multiplier(u)
	if err != nil {
		return 0, err
	}
	return decimal.NewFromInt(base).Mul(m).Round(0).IntPart(), nil
}

// Quote is a priced offer for a number of pages at an urgency level.
type Quote struct {
	Pages       int
	Urgency     order.Urgency
	RatePerPage int64
	BasePrice   int64
	Multiplier  decimal.Decimal
	TotalPrice  int64
	Currency    string
}

// Quote prices an order.
func (p Policy) Quote(pages int, u order.Urgency) (Quote, error) {
	base, err := p.BasePrice(pages)
	if err != nil {
		return Quote{}, err
	}
	m, err := Multiplier(u)
	if err != nil {
		return Quote{}, err
	}
	return Quote{
		Pages:       pages,
		Urgency:     u,
		RatePerPage: p.RatePerPage,
		BasePrice:   base,
		Multiplier:  m,
		TotalPrice:  decimal.NewFromInt(base).Mul(m).Round(0).IntPart(),
		Currency:    p.Currency,
	}, nil
}

// Pricing returns the order pricing for a quote.
func (q Quote) Pricing() order.Pricing {
	return order.Pricing{Currency: q.Currency, RatePerPage: q.RatePerPage, Urgency: q.Urgency, TotalPrice: q.TotalPrice}
}

// LateFine is ceil(hoursLate) × LateFinePerHour, capped at the order total.
func (p Policy) LateFine(o *order.Order, hoursLate float64) int64 {
	if hoursLate <= 0 {
		return 0
	}
	fine := decimal.NewFromFloat(math.Ceil(hoursLate)).Mul(decimal.NewFromInt(p.LateFinePerHour))
	total := decimal.NewFromInt(o.TotalPrice())
	return decimal.Min(fine, total).IntPart()
}

// RejectionFine is RejectionFinePercent of the order total.
func (p Policy) RejectionFine(o *order.Order) int64 {
	return percentOf(o.TotalPrice(), p.RejectionFinePercent)
}

// AutoReassignFine is AutoReassignFinePercent of the order total.
func (p Policy) AutoReassignFine(o *order.Order) int64 {
	return percentOf(o.TotalPrice(), p.AutoReassignFinePercent)
}

// NextRevisionScore decays a revision score by one step, never below zero.
func (p Policy) NextRevisionScore(score int) int {
	return max(0, score-p.RevisionScoreStep)
}

// WriterPayout is what the writer receives on completion: the total minus live fines.
func WriterPayout(o *order.Order) int64 {
	return max(0, o.TotalPrice()-o.FineAmount())
}

// NewFine builds a fine entry with an identifier derived from the order and its
// version, so applying the same transition twice yields the same entry.
func NewFine(o *order.Order, amount int64, reason order.FineReason, appliedBy string, appliedAt time.Time) order.Fine {
	name := fmt.Sprintf("fine/%d/%s/%d", o.Version(), reason, len(o.Fines()))
	return order.Fine{
		ID:        kernel.DeriveUUID(o.ID(), name),
		Amount:    amount,
		Reason:    reason,
		AppliedAt: appliedAt,
		AppliedBy: appliedBy,
		WriterID:  o.WriterID(),
	}
}

// NewWaiver builds the cancelling entry for fine.
func NewWaiver(o *order.Order, fine order.Fine, appliedBy, note string, appliedAt time.Time) order.Fine {
	waived := fine.ID
	w := NewFine(o, -fine.Amount, order.FineReasonWaiver, appliedBy, appliedAt)
	w.WriterID = fine.WriterID
	w.WaivesFine = &waived
	w.Note = note
	return w
}

func percentOf(total, pct int64) int64 {
	return decimal.NewFromInt(total).
		Mul(decimal.NewFromInt(pct)).
		Div(decimal.NewFromInt(100)).
		Round(0).
		IntPart()
}
