package models

import (
	"time"

	"github.com/fazendagestaosvp/fazenda-vista-backend/pkg/enums"
	"github.com/google/uuid"
	"github.com/shopspring/decimal"
)

// Animal is a single head of livestock owned by one identity.
type Animal struct {
	ID        uuid.UUID           `gorm:"type:uuid;default:gen_random_uuid();primaryKey"`
	OwnerID   uuid.UUID           `gorm:"type:uuid;column:owner_id;not null;index"`
	Kind      enums.AnimalKind    `gorm:"type:text;column:kind;not null"`
	Name      string              `gorm:"column:name;not null"`
	Tag       *string             `gorm:"column:tag"`
	Breed     *string             `gorm:"column:breed"`
	BirthDate *time.Time          `gorm:"column:birth_date"`
	WeightKg  decimal.NullDecimal `gorm:"type:numeric(10,2);column:weight_kg"`
	Status    enums.AnimalStatus  `gorm:"type:text;column:status;not null;default:active"`
	Notes     *string             `gorm:"column:notes"`
	CreatedAt time.Time           `gorm:"column:created_at;autoCreateTime"`
	UpdatedAt time.Time           `gorm:"column:updated_at;autoUpdateTime"`
}
