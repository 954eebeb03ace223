package event

import (
	"encoding/json"
	"fmt"
	"time"

	"marketplace/internal/core/domain/model/kernel"
	"marketplace/internal/pkg/errs"
)

// Envelope is the serialized form of an event as it leaves the service.
type Envelope struct {
	ID         kernel.UUID     `json:"eventId"`
	Type       Type            `json:"type"`
	OrderID    kernel.UUID     `json:"orderId"`
	OccurredAt time.Time       `json:"occurredAt"`
	Payload    json.RawMessage `json:"payload"`
}

// Wrap serializes e into an Envelope.
func Wrap(e Event) (Envelope, error) {
	payload, err := json.Marshal(e)
	if err != nil {
		return Envelope{}, err
	}
	return Envelope{
		ID:         e.EventID(),
		Type:       e.EventType(),
		OrderID:    e.AggregateID(),
		OccurredAt: e.OccurredAt(),
		Payload:    payload,
	}, nil
}

// Unwrap decodes the payload back into the event type named by Type.
func (env Envelope) Unwrap() (Event, error) {
	switch env.Type {
	case TypeStatusChanged:
		return decode[StatusChanged](env.Payload)
	case TypeFineApplied:
		return decode[FineApplied](env.Payload)
	case TypeDeadlineSet:
		return decode[DeadlineSet](env.Payload)
	case TypeNotificationDue:
		return decode[NotificationDue](env.Payload)
	case TypePaymentDue:
		return decode[PaymentDue](env.Payload)
	case TypeAdminAttentionRequired:
		return decode[AdminAttentionRequired](env.Payload)
	default:
		return nil, errs.NewValueIsInvalidErrorWithCause("type", fmt.Errorf("unknown event type %q", env.Type))
	}
}

func decode[T Event](payload json.RawMessage) (Event, error) {
	var e T
	if err := json.Unmarshal(payload, &e); err != nil {
		return nil, err
	}
	return e, nil
}
