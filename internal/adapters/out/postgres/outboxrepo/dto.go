// Package outboxrepo persists domain events next to the order writes that produced
// them, so delivery to Kafka survives broker outages and process restarts.
package outboxrepo

import (
	"encoding/json"
	"time"

	"github.com/google/uuid"

	"marketplace/internal/core/domain/model/event"
	"marketplace/internal/core/ports"
)

// MessageDTO is the outbox table row. One row holds one event envelope.
type MessageDTO struct {
	ID        int64      `gorm:"primaryKey;autoIncrement"`
	EventID   uuid.UUID  `gorm:"type:uuid;uniqueIndex;not null"`
	OrderID   uuid.UUID  `gorm:"type:uuid;index;not null"`
	Type      string     `gorm:"not null"`
	Envelope  string     `gorm:"type:jsonb;not null"`
	CreatedAt time.Time  `gorm:"not null"`
	SentAt    *time.Time `gorm:"index"`
	Attempts  int
	LastError string
}

func (MessageDTO) TableName() string {
	return "outbox"
}

func fromEvent(e event.Event) (MessageDTO, error) {
	env, err := event.Wrap(e)
	if err != nil {
		return MessageDTO{}, err
	}
	data, err := json.Marshal(env)
	if err != nil {
		return MessageDTO{}, err
	}

	return MessageDTO{
		EventID:   env.ID.Bytes(),
		OrderID:   env.OrderID.Bytes(),
		Type:      string(env.Type),
		Envelope:  string(data),
		CreatedAt: env.OccurredAt,
	}, nil
}

func toMessage(dto MessageDTO) (ports.OutboxMessage, error) {
	var env event.Envelope
	if err := json.Unmarshal([]byte(dto.Envelope), &env); err != nil {
		return ports.OutboxMessage{}, err
	}

	return ports.OutboxMessage{
		ID:       dto.ID,
		Envelope: env,
		Attempts: dto.Attempts,
	}, nil
}
