// Package orderrepo persists order snapshots with GORM. The complete snapshot is
// stored as jsonb next to the columns that queries filter and sort on.
package orderrepo

import (
	"encoding/json"
	"time"

	"github.com/google/uuid"

	"marketplace/internal/core/domain/model/order"
)

// OrderDTO is the orders table row.
type OrderDTO struct {
	ID                  uuid.UUID `gorm:"type:uuid;primaryKey"`
	Number              string    `gorm:"uniqueIndex;not null"`
	ClientID            string    `gorm:"index"`
	WriterID            string    `gorm:"index"`
	Status              int       `gorm:"index;not null"`
	Urgency             string
	Pages               int
	Currency            string `gorm:"type:varchar(3)"`
	TotalPrice          int64
	FineAmount          int64
	Deadline            time.Time `gorm:"index;not null"`
	AutoConfirmDeadline *time.Time
	IsOverdue           bool
	RevisionScore       int
	NeedsAdminAttention bool      `gorm:"index"`
	Version             int64     `gorm:"not null"`
	UpdatedAt           time.Time `gorm:"autoUpdateTime:false"`
	Snapshot            string    `gorm:"type:jsonb;not null"`
}

func (OrderDTO) TableName() string {
	return "orders"
}

func fromDomain(o *order.Order) (OrderDTO, error) {
	snapshot, err := json.Marshal(o.Snapshot())
	if err != nil {
		return OrderDTO{}, err
	}

	return OrderDTO{
		ID:                  o.ID().Bytes(),
		Number:              o.Number(),
		ClientID:            o.ClientID(),
		WriterID:            o.WriterID(),
		Status:              int(o.Status()),
		Urgency:             string(o.Urgency()),
		Pages:               o.Pages(),
		Currency:            o.Currency(),
		TotalPrice:          o.TotalPrice(),
		FineAmount:          o.FineAmount(),
		Deadline:            o.Deadline(),
		AutoConfirmDeadline: o.AutoConfirmDeadline(),
		IsOverdue:           o.IsOverdue(),
		RevisionScore:       o.RevisionScore(),
		NeedsAdminAttention: o.NeedsAdminAttention(),
		Version:             o.Version(),
		UpdatedAt:           o.UpdatedAt(),
		Snapshot:            string(snapshot),
	}, nil
}

// toDomain rebuilds the order from the snapshot column; RestoreOrder revalidates it.
func toDomain(dto OrderDTO) (*order.Order, error) {
	var s order.State
	if err := json.Unmarshal([]byte(dto.Snapshot), &s); err != nil {
		return nil, err
	}

	return order.RestoreOrder(s)
}
