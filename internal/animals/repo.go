package animals

import (
	"context"

	"github.com/fazendagestaosvp/fazenda-vista-backend/pkg/db/models"
	"github.com/fazendagestaosvp/fazenda-vista-backend/pkg/pagination"
	"github.com/google/uuid"
	"gorm.io/gorm"
)

// Repository exposes animal persistence operations scoped to an owner.
type Repository struct {
	db *gorm.DB
}

// NewRepository constructs an animals repo bound to the provided GORM DB.
func NewRepository(db *gorm.DB) *Repository {
	return &Repository{db: db}
}

// Create inserts a new animal.
func (r *Repository) Create(ctx context.Context, animal *models.Animal) error {
	return r.db.WithContext(ctx).Create(animal).Error
}

// FindByID loads an animal owned by the given identity.
func (r *Repository) FindByID(ctx context.Context, ownerID, id uuid.UUID) (*models.Animal, error) {
	var animal models.Animal
	if err := r.db.WithContext(ctx).
		Where("owner_id = ? AND id = ?", ownerID, id).
		First(&animal).Error; err != nil {
		return nil, err
	}
	return &animal, nil
}

// List returns a cursor page of the owner's animals, newest first.
func (r *Repository) List(ctx context.Context, ownerID uuid.UUID, cursor *pagination.Cursor, limit int) ([]models.Animal, error) {
	q := r.db.WithContext(ctx).
		Where("owner_id = ?", ownerID).
		Order("created_at DESC, id DESC").
		Limit(limit)
	if cursor != nil {
		q = q.Where("(created_at, id) < (?, ?)", cursor.CreatedAt, cursor.ID)
	}
	var animals []models.Animal
	if err := q.Find(&animals).Error; err != nil {
		return nil, err
	}
	return animals, nil
}

// Update saves the full record.
func (r *Repository) Update(ctx context.Context, animal *models.Animal) error {
	return r.db.WithContext(ctx).Save(animal).Error
}

// Delete removes an animal owned by the given identity.
func (r *Repository) Delete(ctx context.Context, ownerID, id uuid.UUID) error {
	result := r.db.WithContext(ctx).
		Where("owner_id = ? AND id = ?", ownerID, id).
		Delete(&models.Animal{})
	if result.Error != nil {
		return result.Error
	}
	if result.RowsAffected == 0 {
		return gorm.ErrRecordNotFound
	}
	return nil
}
