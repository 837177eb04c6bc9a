package roles

import (
	"context"

	"github.com/fazendagestaosvp/fazenda-vista-backend/pkg/db/models"
	"github.com/fazendagestaosvp/fazenda-vista-backend/pkg/enums"
	"github.com/google/uuid"
	"gorm.io/gorm"
)

// Repository exposes role-record persistence operations.
type Repository struct {
	db *gorm.DB
}

// NewRepository constructs a roles repo bound to the provided GORM DB.
func NewRepository(db *gorm.DB) *Repository {
	return &Repository{db: db}
}

// FindByUserID returns the single role record for an identity.
func (r *Repository) FindByUserID(ctx context.Context, userID uuid.UUID) (*models.UserRole, error) {
	var record models.UserRole
	if err := r.db.WithContext(ctx).Where("user_id = ?", userID).First(&record).Error; err != nil {
		return nil, err
	}
	return &record, nil
}

// FindByUserIDs returns role records for the given identities.
func (r *Repository) FindByUserIDs(ctx context.Context, userIDs []uuid.UUID) ([]models.UserRole, error) {
	if len(userIDs) == 0 {
		return nil, nil
	}
	var records []models.UserRole
	if err := r.db.WithContext(ctx).Where("user_id IN ?", userIDs).Find(&records).Error; err != nil {
		return nil, err
	}
	return records, nil
}

// Upsert replaces the identity's role record inside one transaction, so a
// failure can never leave the identity with zero records.
func (r *Repository) Upsert(ctx context.Context, userID uuid.UUID, role enums.StoredRole) error {
	return r.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		if err := tx.Where("user_id = ?", userID).Delete(&models.UserRole{}).Error; err != nil {
			return err
		}
		record := models.UserRole{UserID: userID, Role: role}
		return tx.Create(&record).Error
	})
}

// DeleteByUserID removes the identity's role record.
func (r *Repository) DeleteByUserID(ctx context.Context, userID uuid.UUID) error {
	return r.db.WithContext(ctx).Where("user_id = ?", userID).Delete(&models.UserRole{}).Error
}

// AllowedStoredValues queries the database catalog for the role enum's
// currently legal members. Environments migrated at different times can
// disagree on the member set, so callers treat this as the source of truth
// when writing.
func (r *Repository) AllowedStoredValues(ctx context.Context) ([]string, error) {
	var values []string
	err := r.db.WithContext(ctx).
		Raw(`SELECT e.enumlabel
		     FROM pg_enum e
		     JOIN pg_type t ON e.enumtypid = t.oid
		     WHERE t.typname = 'app_role'
		     ORDER BY e.enumsortorder`).
		Scan(&values).Error
	if err != nil {
		return nil, err
	}
	return values, nil
}
