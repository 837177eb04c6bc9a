package vieweraccess

import (
	"context"

	"github.com/fazendagestaosvp/fazenda-vista-backend/pkg/db/models"
	"github.com/google/uuid"
	"gorm.io/gorm"
)

// Repository exposes viewer-grant persistence.
type Repository struct {
	db *gorm.DB
}

// NewRepository constructs a viewer-access repo bound to the provided GORM DB.
func NewRepository(db *gorm.DB) *Repository {
	return &Repository{db: db}
}

// ListAccountIDs returns the accounts the viewer may read.
func (r *Repository) ListAccountIDs(ctx context.Context, viewerID uuid.UUID) ([]uuid.UUID, error) {
	var ids []uuid.UUID
	if err := r.db.WithContext(ctx).
		Model(&models.ViewerAccess{}).
		Where("viewer_id = ?", viewerID).
		Order("created_at ASC").
		Pluck("account_id", &ids).Error; err != nil {
		return nil, err
	}
	return ids, nil
}

// HasGrant reports whether the viewer may read the given account.
func (r *Repository) HasGrant(ctx context.Context, viewerID, accountID uuid.UUID) (bool, error) {
	var count int64
	if err := r.db.WithContext(ctx).
		Model(&models.ViewerAccess{}).
		Where("viewer_id = ? AND account_id = ?", viewerID, accountID).
		Count(&count).Error; err != nil {
		return false, err
	}
	return count > 0, nil
}

// Replace swaps the viewer's grant set in one transaction.
func (r *Repository) Replace(ctx context.Context, viewerID uuid.UUID, accountIDs []uuid.UUID) error {
	return r.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		if err := tx.Where("viewer_id = ?", viewerID).Delete(&models.ViewerAccess{}).Error; err != nil {
			return err
		}
		if len(accountIDs) == 0 {
			return nil
		}
		grants := make([]models.ViewerAccess, 0, len(accountIDs))
		for _, accountID := range accountIDs {
			grants = append(grants, models.ViewerAccess{
				ViewerID:  viewerID,
				AccountID: accountID,
			})
		}
		return tx.Create(&grants).Error
	})
}
