package reproduction

import (
	"context"

	"github.com/fazendagestaosvp/fazenda-vista-backend/pkg/db/models"
	"github.com/fazendagestaosvp/fazenda-vista-backend/pkg/pagination"
	"github.com/google/uuid"
	"gorm.io/gorm"
)

// Repository exposes reproduction persistence operations scoped to an owner.
type Repository struct {
	db *gorm.DB
}

// NewRepository constructs a reproduction repo bound to the provided GORM DB.
func NewRepository(db *gorm.DB) *Repository {
	return &Repository{db: db}
}

func (r *Repository) CreateProtocol(ctx context.Context, protocol *models.ReproductionProtocol) error {
	return r.db.WithContext(ctx).Create(protocol).Error
}

func (r *Repository) FindProtocolByID(ctx context.Context, ownerID, id uuid.UUID) (*models.ReproductionProtocol, error) {
	var protocol models.ReproductionProtocol
	if err := r.db.WithContext(ctx).
		Where("owner_id = ? AND id = ?", ownerID, id).
		First(&protocol).Error; err != nil {
		return nil, err
	}
	return &protocol, nil
}

func (r *Repository) ListProtocols(ctx context.Context, ownerID uuid.UUID, cursor *pagination.Cursor, limit int) ([]models.ReproductionProtocol, error) {
	q := r.db.WithContext(ctx).
		Where("owner_id = ?", ownerID).
		Order("created_at DESC, id DESC").
		Limit(limit)
	if cursor != nil {
		q = q.Where("(created_at, id) < (?, ?)", cursor.CreatedAt, cursor.ID)
	}
	var protocols []models.ReproductionProtocol
	if err := q.Find(&protocols).Error; err != nil {
		return nil, err
	}
	return protocols, nil
}

func (r *Repository) UpdateProtocol(ctx context.Context, protocol *models.ReproductionProtocol) error {
	return r.db.WithContext(ctx).Save(protocol).Error
}

func (r *Repository) DeleteProtocol(ctx context.Context, ownerID, id uuid.UUID) error {
	result := r.db.WithContext(ctx).
		Where("owner_id = ? AND id = ?", ownerID, id).
		Delete(&models.ReproductionProtocol{})
	if result.Error != nil {
		return result.Error
	}
	if result.RowsAffected == 0 {
		return gorm.ErrRecordNotFound
	}
	return nil
}

func (r *Repository) CreateUltrasound(ctx context.Context, exam *models.UltrasoundExam) error {
	return r.db.WithContext(ctx).Create(exam).Error
}

func (r *Repository) FindUltrasoundByID(ctx context.Context, ownerID, id uuid.UUID) (*models.UltrasoundExam, error) {
	var exam models.UltrasoundExam
	if err := r.db.WithContext(ctx).
		Where("owner_id = ? AND id = ?", ownerID, id).
		First(&exam).Error; err != nil {
		return nil, err
	}
	return &exam, nil
}

func (r *Repository) ListUltrasounds(ctx context.Context, ownerID uuid.UUID, cursor *pagination.Cursor, limit int) ([]models.UltrasoundExam, error) {
	q := r.db.WithContext(ctx).
		Where("owner_id = ?", ownerID).
		Order("created_at DESC, id DESC").
		Limit(limit)
	if cursor != nil {
		q = q.Where("(created_at, id) < (?, ?)", cursor.CreatedAt, cursor.ID)
	}
	var exams []models.UltrasoundExam
	if err := q.Find(&exams).Error; err != nil {
		return nil, err
	}
	return exams, nil
}

func (r *Repository) UpdateUltrasound(ctx context.Context, exam *models.UltrasoundExam) error {
	return r.db.WithContext(ctx).Save(exam).Error
}

func (r *Repository) DeleteUltrasound(ctx context.Context, ownerID, id uuid.UUID) error {
	result := r.db.WithContext(ctx).
		Where("owner_id = ? AND id = ?", ownerID, id).
		Delete(&models.UltrasoundExam{})
	if result.Error != nil {
		return result.Error
	}
	if result.RowsAffected == 0 {
		return gorm.ErrRecordNotFound
	}
	return nil
}
