package calendar

import (
	"context"
	"time"

	"github.com/fazendagestaosvp/fazenda-vista-backend/pkg/db/models"
	"github.com/google/uuid"
	"gorm.io/gorm"
)

// Repository exposes calendar event persistence scoped to an owner.
type Repository struct {
	db *gorm.DB
}

// NewRepository constructs a calendar repo bound to the provided GORM DB.
func NewRepository(db *gorm.DB) *Repository {
	return &Repository{db: db}
}

func (r *Repository) Create(ctx context.Context, event *models.CalendarEvent) error {
	return r.db.WithContext(ctx).Create(event).Error
}

func (r *Repository) FindByID(ctx context.Context, ownerID, id uuid.UUID) (*models.CalendarEvent, error) {
	var event models.CalendarEvent
	if err := r.db.WithContext(ctx).
		Where("owner_id = ? AND id = ?", ownerID, id).
		First(&event).Error; err != nil {
		return nil, err
	}
	return &event, nil
}

// ListRange returns the owner's events starting inside [from, to),
// ordered chronologically.
func (r *Repository) ListRange(ctx context.Context, ownerID uuid.UUID, from, to time.Time) ([]models.CalendarEvent, error) {
	var events []models.CalendarEvent
	if err := r.db.WithContext(ctx).
		Where("owner_id = ? AND starts_at >= ? AND starts_at < ?", ownerID, from, to).
		Order("starts_at ASC, id ASC").
		Find(&events).Error; err != nil {
		return nil, err
	}
	return events, nil
}

func (r *Repository) Update(ctx context.Context, event *models.CalendarEvent) error {
	return r.db.WithContext(ctx).Save(event).Error
}

func (r *Repository) Delete(ctx context.Context, ownerID, id uuid.UUID) error {
	result := r.db.WithContext(ctx).
		Where("owner_id = ? AND id = ?", ownerID, id).
		Delete(&models.CalendarEvent{})
	if result.Error != nil {
		return result.Error
	}
	if result.RowsAffected == 0 {
		return gorm.ErrRecordNotFound
	}
	return nil
}
