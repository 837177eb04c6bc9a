package models

import (
	"time"

	"github.com/google/uuid"
	"github.com/lib/pq"
)

// Folder groups documents for one owner. The tree is flat: a folder is
// just a named bucket, no nesting.
type Folder struct {
	ID        uuid.UUID `gorm:"type:uuid;default:gen_random_uuid();primaryKey"`
	OwnerID   uuid.UUID `gorm:"type:uuid;column:owner_id;not null;index"`
	Name      string    `gorm:"column:name;not null"`
	CreatedAt time.Time `gorm:"column:created_at;autoCreateTime"`
	UpdatedAt time.Time `gorm:"column:updated_at;autoUpdateTime"`
}

// Document is the metadata row for a stored blob. ObjectKey references
// the object in blob storage; the bytes never live in the database.
type Document struct {
	ID          uuid.UUID      `gorm:"type:uuid;default:gen_random_uuid();primaryKey"`
	OwnerID     uuid.UUID      `gorm:"type:uuid;column:owner_id;not null;index"`
	FolderID    *uuid.UUID     `gorm:"type:uuid;column:folder_id;index"`
	Name        string         `gorm:"column:name;not null"`
	ContentType string         `gorm:"column:content_type;not null"`
	SizeBytes   int64          `gorm:"column:size_bytes;not null;default:0"`
	ObjectKey   string         `gorm:"column:object_key;not null"`
	Tags        pq.StringArray `gorm:"type:text[];column:tags"`
	CreatedAt   time.Time      `gorm:"column:created_at;autoCreateTime"`
	UpdatedAt   time.Time      `gorm:"column:updated_at;autoUpdateTime"`
}
