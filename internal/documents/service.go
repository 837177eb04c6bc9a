package documents

import (
	"context"
	"errors"
	"fmt"
	"io"

	"github.com/fazendagestaosvp/fazenda-vista-backend/pkg/db/models"
	pkgerrors "github.com/fazendagestaosvp/fazenda-vista-backend/pkg/errors"
	"github.com/fazendagestaosvp/fazenda-vista-backend/pkg/pagination"
	"github.com/fazendagestaosvp/fazenda-vista-backend/pkg/storage/gcs"
	"github.com/google/uuid"
	"github.com/lib/pq"
	"gorm.io/gorm"
)

// Service defines the behavior needed by the documents controller.
type Service interface {
	CreateFolder(ctx context.Context, ownerID uuid.UUID, req UpsertFolderRequest) (*FolderDTO, error)
	ListFolders(ctx context.Context, ownerID uuid.UUID) ([]FolderDTO, error)
	RenameFolder(ctx context.Context, ownerID, id uuid.UUID, req UpsertFolderRequest) (*FolderDTO, error)
	DeleteFolder(ctx context.Context, ownerID, id uuid.UUID) error

	Upload(ctx context.Context, ownerID uuid.UUID, params UploadParams) (*DocumentDTO, error)
	Get(ctx context.Context, ownerID, id uuid.UUID) (*DocumentDTO, error)
	Download(ctx context.Context, ownerID, id uuid.UUID) (*DocumentDTO, io.ReadCloser, error)
	List(ctx context.Context, ownerID uuid.UUID, folderID *uuid.UUID, params pagination.Params) (*ListResponse, error)
	UpdateMetadata(ctx context.Context, ownerID, id uuid.UUID, req UpdateDocumentRequest) (*DocumentDTO, error)
	Delete(ctx context.Context, ownerID, id uuid.UUID) error
}

// UploadParams carries a streamed blob plus its metadata.
type UploadParams struct {
	Name        string
	ContentType string
	FolderID    *uuid.UUID
	SizeBytes   int64
	Tags        []string
	Body        io.Reader
}

type documentRepository interface {
	CreateFolder(ctx context.Context, folder *models.Folder) error
	FindFolderByID(ctx context.Context, ownerID, id uuid.UUID) (*models.Folder, error)
	ListFolders(ctx context.Context, ownerID uuid.UUID) ([]models.Folder, error)
	UpdateFolder(ctx context.Context, folder *models.Folder) error
	DeleteFolder(ctx context.Context, ownerID, id uuid.UUID) error

	CreateDocument(ctx context.Context, doc *models.Document) error
	FindDocumentByID(ctx context.Context, ownerID, id uuid.UUID) (*models.Document, error)
	ListDocuments(ctx context.Context, ownerID uuid.UUID, folderID *uuid.UUID, cursor *pagination.Cursor, limit int) ([]models.Document, error)
	UpdateDocument(ctx context.Context, doc *models.Document) error
	DeleteDocument(ctx context.Context, ownerID, id uuid.UUID) error
}

type service struct {
	repo    documentRepository
	blobs   gcs.ObjectStore
	maxSize int64
}

// ServiceParams bundles the documents service dependencies.
type ServiceParams struct {
	Repo        documentRepository
	Blobs       gcs.ObjectStore
	MaxUploadMB int
}

// NewService constructs a documents service.
func NewService(params ServiceParams) (Service, error) {
	if params.Repo == nil {
		return nil, fmt.Errorf("document repository is required")
	}
	if params.Blobs == nil {
		return nil, fmt.Errorf("object store is required")
	}
	maxMB := params.MaxUploadMB
	if maxMB <= 0 {
		maxMB = 50
	}
	return &service{
		repo:    params.Repo,
		blobs:   params.Blobs,
		maxSize: int64(maxMB) << 20,
	}, nil
}

func (s *service) CreateFolder(ctx context.Context, ownerID uuid.UUID, req UpsertFolderRequest) (*FolderDTO, error) {
	folder := &models.Folder{OwnerID: ownerID, Name: req.Name}
	if err := s.repo.CreateFolder(ctx, folder); err != nil {
		return nil, pkgerrors.Wrap(pkgerrors.CodeInternal, err, "create folder")
	}
	return folderFromModel(folder), nil
}

func (s *service) ListFolders(ctx context.Context, ownerID uuid.UUID) ([]FolderDTO, error) {
	rows, err := s.repo.ListFolders(ctx, ownerID)
	if err != nil {
		return nil, pkgerrors.Wrap(pkgerrors.CodeInternal, err, "list folders")
	}
	folders := make([]FolderDTO, 0, len(rows))
	for i := range rows {
		folders = append(folders, *folderFromModel(&rows[i]))
	}
	return folders, nil
}

func (s *service) RenameFolder(ctx context.Context, ownerID, id uuid.UUID, req UpsertFolderRequest) (*FolderDTO, error) {
	folder, err := s.repo.FindFolderByID(ctx, ownerID, id)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, pkgerrors.New(pkgerrors.CodeNotFound, "folder not found")
		}
		return nil, pkgerrors.Wrap(pkgerrors.CodeInternal, err, "lookup folder")
	}
	folder.Name = req.Name
	if err := s.repo.UpdateFolder(ctx, folder); err != nil {
		return nil, pkgerrors.Wrap(pkgerrors.CodeInternal, err, "rename folder")
	}
	return folderFromModel(folder), nil
}

func (s *service) DeleteFolder(ctx context.Context, ownerID, id uuid.UUID) error {
	if err := s.repo.DeleteFolder(ctx, ownerID, id); err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return pkgerrors.New(pkgerrors.CodeNotFound, "folder not found")
		}
		return pkgerrors.Wrap(pkgerrors.CodeInternal, err, "delete folder")
	}
	return nil
}

func (s *service) Upload(ctx context.Context, ownerID uuid.UUID, params UploadParams) (*DocumentDTO, error) {
	if params.Name == "" {
		return nil, pkgerrors.New(pkgerrors.CodeValidation, "document name is required")
	}
	if params.SizeBytes > s.maxSize {
		return nil, pkgerrors.New(pkgerrors.CodeValidation, "document exceeds the maximum upload size")
	}
	if params.FolderID != nil {
		if _, err := s.repo.FindFolderByID(ctx, ownerID, *params.FolderID); err != nil {
			if errors.Is(err, gorm.ErrRecordNotFound) {
				return nil, pkgerrors.New(pkgerrors.CodeValidation, "folder does not belong to this account")
			}
			return nil, pkgerrors.Wrap(pkgerrors.CodeInternal, err, "lookup folder")
		}
	}

	contentType := params.ContentType
	if contentType == "" {
		contentType = "application/octet-stream"
	}

	objectKey := fmt.Sprintf("documents/%s/%s", ownerID, uuid.NewString())
	body := io.LimitReader(params.Body, s.maxSize+1)
	if err := s.blobs.Put(ctx, objectKey, contentType, body); err != nil {
		return nil, pkgerrors.Wrap(pkgerrors.CodeDependency, err, "store blob")
	}

	doc := &models.Document{
		OwnerID:     ownerID,
		FolderID:    params.FolderID,
		Name:        params.Name,
		ContentType: contentType,
		SizeBytes:   params.SizeBytes,
		ObjectKey:   objectKey,
		Tags:        pq.StringArray(params.Tags),
	}
	if err := s.repo.CreateDocument(ctx, doc); err != nil {
		// Best effort: do not leave an orphan blob behind.
		_ = s.blobs.Delete(ctx, objectKey)
		return nil, pkgerrors.Wrap(pkgerrors.CodeInternal, err, "create document")
	}
	return documentFromModel(doc), nil
}

func (s *service) Get(ctx context.Context, ownerID, id uuid.UUID) (*DocumentDTO, error) {
	doc, err := s.findDocument(ctx, ownerID, id)
	if err != nil {
		return nil, err
	}
	return documentFromModel(doc), nil
}

func (s *service) Download(ctx context.Context, ownerID, id uuid.UUID) (*DocumentDTO, io.ReadCloser, error) {
	doc, err := s.findDocument(ctx, ownerID, id)
	if err != nil {
		return nil, nil, err
	}

	body, err := s.blobs.Get(ctx, doc.ObjectKey)
	if err != nil {
		if errors.Is(err, gcs.ErrObjectNotFound) {
			return nil, nil, pkgerrors.New(pkgerrors.CodeNotFound, "document content missing")
		}
		return nil, nil, pkgerrors.Wrap(pkgerrors.CodeDependency, err, "fetch blob")
	}
	return documentFromModel(doc), body, nil
}

func (s *service) List(ctx context.Context, ownerID uuid.UUID, folderID *uuid.UUID, params pagination.Params) (*ListResponse, error) {
	cursor, err := pagination.ParseCursor(params.Cursor)
	if err != nil {
		return nil, pkgerrors.Wrap(pkgerrors.CodeValidation, err, "invalid cursor")
	}
	limit := pagination.NormalizeLimit(params.Limit)

	rows, err := s.repo.ListDocuments(ctx, ownerID, folderID, cursor, pagination.LimitWithBuffer(params.Limit))
	if err != nil {
		return nil, pkgerrors.Wrap(pkgerrors.CodeInternal, err, "list documents")
	}

	resp := &ListResponse{Items: make([]DocumentDTO, 0, len(rows))}
	for i := range rows {
		if i == limit {
			next := pagination.EncodeCursor(pagination.Cursor{
				CreatedAt: rows[limit-1].CreatedAt,
				ID:        rows[limit-1].ID,
			})
			resp.NextCursor = &next
			break
		}
		resp.Items = append(resp.Items, *documentFromModel(&rows[i]))
	}
	return resp, nil
}

func (s *service) UpdateMetadata(ctx context.Context, ownerID, id uuid.UUID, req UpdateDocumentRequest) (*DocumentDTO, error) {
	doc, err := s.findDocument(ctx, ownerID, id)
	if err != nil {
		return nil, err
	}

	if req.FolderID != nil {
		if _, err := s.repo.FindFolderByID(ctx, ownerID, *req.FolderID); err != nil {
			if errors.Is(err, gorm.ErrRecordNotFound) {
				return nil, pkgerrors.New(pkgerrors.CodeValidation, "folder does not belong to this account")
			}
			return nil, pkgerrors.Wrap(pkgerrors.CodeInternal, err, "lookup folder")
		}
	}

	doc.Name = req.Name
	doc.FolderID = req.FolderID
	doc.Tags = pq.StringArray(req.Tags)
	if err := s.repo.UpdateDocument(ctx, doc); err != nil {
		return nil, pkgerrors.Wrap(pkgerrors.CodeInternal, err, "update document")
	}
	return documentFromModel(doc), nil
}

func (s *service) Delete(ctx context.Context, ownerID, id uuid.UUID) error {
	doc, err := s.findDocument(ctx, ownerID, id)
	if err != nil {
		return err
	}

	if err := s.repo.DeleteDocument(ctx, ownerID, id); err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return pkgerrors.New(pkgerrors.CodeNotFound, "document not found")
		}
		return pkgerrors.Wrap(pkgerrors.CodeInternal, err, "delete document")
	}

	if err := s.blobs.Delete(ctx, doc.ObjectKey); err != nil {
		return pkgerrors.Wrap(pkgerrors.CodeDependency, err, "delete blob")
	}
	return nil
}

func (s *service) findDocument(ctx context.Context, ownerID, id uuid.UUID) (*models.Document, error) {
	doc, err := s.repo.FindDocumentByID(ctx, ownerID, id)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, pkgerrors.New(pkgerrors.CodeNotFound, "document not found")
		}
		return nil, pkgerrors.Wrap(pkgerrors.CodeInternal, err, "lookup document")
	}
	return doc, nil
}
