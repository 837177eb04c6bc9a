package models

import (
	"time"

	"github.com/google/uuid"
)

// ViewerAccess grants a viewer identity read access to one account's
// records. A viewer's grant set is replaced wholesale on each update.
type ViewerAccess struct {
	ID        uuid.UUID `gorm:"type:uuid;default:gen_random_uuid();primaryKey"`
	ViewerID  uuid.UUID `gorm:"type:uuid;column:viewer_id;not null;index:idx_viewer_account,unique"`
	AccountID uuid.UUID `gorm:"type:uuid;column:account_id;not null;index:idx_viewer_account,unique"`
	CreatedAt time.Time `gorm:"column:created_at;autoCreateTime"`
}

// TableName pins the join-table name.
func (ViewerAccess) TableName() string {
	return "viewer_access"
}
