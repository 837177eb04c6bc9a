package models

import (
	"time"

	"github.com/google/uuid"
)

// CalendarEvent is a dated farm activity (vaccination, visit, handling).
type CalendarEvent struct {
	ID        uuid.UUID  `gorm:"type:uuid;default:gen_random_uuid();primaryKey"`
	OwnerID   uuid.UUID  `gorm:"type:uuid;column:owner_id;not null;index"`
	Title     string     `gorm:"column:title;not null"`
	Category  *string    `gorm:"column:category"`
	StartsAt  time.Time  `gorm:"column:starts_at;not null"`
	EndsAt    *time.Time `gorm:"column:ends_at"`
	AllDay    bool       `gorm:"column:all_day;not null;default:false"`
	Notes     *string    `gorm:"column:notes"`
	CreatedAt time.Time  `gorm:"column:created_at;autoCreateTime"`
	UpdatedAt time.Time  `gorm:"column:updated_at;autoUpdateTime"`
}
