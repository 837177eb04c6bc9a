package documents

import (
	"time"

	"github.com/google/uuid"

	"github.com/fazendagestaosvp/fazenda-vista-backend/pkg/db/models"
)

// FolderDTO is the transport shape for a document folder.
type FolderDTO struct {
	ID        uuid.UUID `json:"id"`
	Name      string    `json:"name"`
	CreatedAt time.Time `json:"created_at"`
	UpdatedAt time.Time `json:"updated_at"`
}

// UpsertFolderRequest carries create/rename payloads.
type UpsertFolderRequest struct {
	Name string `json:"name" validate:"required,min=1,max=120"`
}

// DocumentDTO is the metadata transport shape; bytes are streamed separately.
type DocumentDTO struct {
	ID          uuid.UUID  `json:"id"`
	FolderID    *uuid.UUID `json:"folder_id,omitempty"`
	Name        string     `json:"name"`
	ContentType string     `json:"content_type"`
	SizeBytes   int64      `json:"size_bytes"`
	Tags        []string   `json:"tags"`
	CreatedAt   time.Time  `json:"created_at"`
	UpdatedAt   time.Time  `json:"updated_at"`
}

// UpdateDocumentRequest edits metadata without touching the blob.
type UpdateDocumentRequest struct {
	Name     string     `json:"name" validate:"required,min=1,max=200"`
	FolderID *uuid.UUID `json:"folder_id,omitempty"`
	Tags     []string   `json:"tags" validate:"omitempty,max=20,dive,min=1,max=40"`
}

// ListResponse wraps a page of documents with the next cursor.
type ListResponse struct {
	Items      []DocumentDTO `json:"items"`
	NextCursor *string       `json:"next_cursor,omitempty"`
}

func folderFromModel(f *models.Folder) *FolderDTO {
	if f == nil {
		return nil
	}
	return &FolderDTO{
		ID:        f.ID,
		Name:      f.Name,
		CreatedAt: f.CreatedAt,
		UpdatedAt: f.UpdatedAt,
	}
}

func documentFromModel(d *models.Document) *DocumentDTO {
	if d == nil {
		return nil
	}
	tags := make([]string, 0, len(d.Tags))
	tags = append(tags, d.Tags...)
	return &DocumentDTO{
		ID:          d.ID,
		FolderID:    d.FolderID,
		Name:        d.Name,
		ContentType: d.ContentType,
		SizeBytes:   d.SizeBytes,
		Tags:        tags,
		CreatedAt:   d.CreatedAt,
		UpdatedAt:   d.UpdatedAt,
	}
}
