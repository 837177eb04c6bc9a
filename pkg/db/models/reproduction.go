package models

import (
	"time"

	"github.com/fazendagestaosvp/fazenda-vista-backend/pkg/enums"
	"github.com/google/uuid"
)

// ReproductionProtocol tracks a hormonal/insemination protocol for one animal.
type ReproductionProtocol struct {
	ID        uuid.UUID            `gorm:"type:uuid;default:gen_random_uuid();primaryKey"`
	OwnerID   uuid.UUID            `gorm:"type:uuid;column:owner_id;not null;index"`
	AnimalID  uuid.UUID            `gorm:"type:uuid;column:animal_id;not null;index"`
	Type      string               `gorm:"column:type;not null"`
	StartDate time.Time            `gorm:"column:start_date;not null"`
	EndDate   *time.Time           `gorm:"column:end_date"`
	Status    enums.ProtocolStatus `gorm:"type:text;column:status;not null;default:scheduled"`
	Notes     *string              `gorm:"column:notes"`
	CreatedAt time.Time            `gorm:"column:created_at;autoCreateTime"`
	UpdatedAt time.Time            `gorm:"column:updated_at;autoUpdateTime"`
}

// UltrasoundExam records a pregnancy check for one animal.
type UltrasoundExam struct {
	ID        uuid.UUID              `gorm:"type:uuid;default:gen_random_uuid();primaryKey"`
	OwnerID   uuid.UUID              `gorm:"type:uuid;column:owner_id;not null;index"`
	AnimalID  uuid.UUID              `gorm:"type:uuid;column:animal_id;not null;index"`
	ExamDate  time.Time              `gorm:"column:exam_date;not null"`
	Result    enums.UltrasoundResult `gorm:"type:text;column:result;not null"`
	Notes     *string                `gorm:"column:notes"`
	CreatedAt time.Time              `gorm:"column:created_at;autoCreateTime"`
	UpdatedAt time.Time              `gorm:"column:updated_at;autoUpdateTime"`
}
