package order

import (
	"fmt"

	"marketplace/internal/pkg/errs"
)

// Urgency classifies how quickly an order is needed. The price multiplier for each
// level is owned by the financial rules.
type Urgency string

const (
	UrgencyNormal     Urgency = "normal"
	UrgencyUrgent     Urgency = "urgent"
	UrgencyVeryUrgent Urgency = "very-urgent"
)

// ParseUrgency converts a wire value. An empty string means normal.
func ParseUrgency(s string) (Urgency, error) {
	if s == "" {
		return UrgencyNormal, nil
	}
	u := Urgency(s)
	if err := u.Validate(); err != nil {
		return "", err
	}
	return u, nil
}

func (u Urgency) Validate() error {
	switch u {
	case UrgencyNormal, UrgencyUrgent, UrgencyVeryUrgent:
		return nil
	default:
		return errs.NewValueIsInvalidErrorWithCause("urgency", fmt.Errorf("%q is not a valid urgency", string(u)))
	}
}
