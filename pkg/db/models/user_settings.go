package models

import (
	"time"

	"github.com/google/uuid"
)

// UserSettings holds one preferences row per identity, replaced whole on
// every update.
type UserSettings struct {
	UserID               uuid.UUID `gorm:"type:uuid;column:user_id;primaryKey"`
	Language             string    `gorm:"column:language;not null;default:pt-BR"`
	Timezone             string    `gorm:"column:timezone;not null;default:America/Sao_Paulo"`
	NotificationsEnabled bool      `gorm:"column:notifications_enabled;not null;default:true"`
	UpdatedAt            time.Time `gorm:"column:updated_at;autoUpdateTime"`
}

// TableName pins the plural-free historical name.
func (UserSettings) TableName() string {
	return "user_settings"
}
