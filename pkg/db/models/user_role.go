package models

import (
	"time"

	"github.com/fazendagestaosvp/fazenda-vista-backend/pkg/enums"
	"github.com/google/uuid"
)

// UserRole associates an identity with its stored role. The unique index
// on user_id keeps the table at one role record per identity.
type UserRole struct {
	ID        uuid.UUID        `gorm:"type:uuid;default:gen_random_uuid();primaryKey"`
	UserID    uuid.UUID        `gorm:"type:uuid;column:user_id;not null;uniqueIndex"`
	Role      enums.StoredRole `gorm:"type:text;column:role;not null"`
	CreatedAt time.Time        `gorm:"column:created_at;autoCreateTime"`
	UpdatedAt time.Time        `gorm:"column:updated_at;autoUpdateTime"`
}

// TableName pins the historical table name.
func (UserRole) TableName() string {
	return "user_roles"
}
