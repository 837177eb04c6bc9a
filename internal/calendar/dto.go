package calendar

import (
	"time"

	"github.com/google/uuid"

	"github.com/fazendagestaosvp/fazenda-vista-backend/pkg/db/models"
)

// EventDTO is the transport shape for a calendar event.
type EventDTO struct {
	ID        uuid.UUID  `json:"id"`
	Title     string     `json:"title"`
	Category  *string    `json:"category,omitempty"`
	StartsAt  time.Time  `json:"starts_at"`
	EndsAt    *time.Time `json:"ends_at,omitempty"`
	AllDay    bool       `json:"all_day"`
	Notes     *string    `json:"notes,omitempty"`
	CreatedAt time.Time  `json:"created_at"`
	UpdatedAt time.Time  `json:"updated_at"`
}

// UpsertEventRequest carries create/update payloads. Updates replace the
// whole record.
type UpsertEventRequest struct {
	Title    string     `json:"title" validate:"required,min=1,max=200"`
	Category *string    `json:"category,omitempty" validate:"omitempty,max=60"`
	StartsAt time.Time  `json:"starts_at" validate:"required"`
	EndsAt   *time.Time `json:"ends_at,omitempty"`
	AllDay   bool       `json:"all_day"`
	Notes    *string    `json:"notes,omitempty" validate:"omitempty,max=2000"`
}

func fromModel(e *models.CalendarEvent) *EventDTO {
	if e == nil {
		return nil
	}
	return &EventDTO{
		ID:        e.ID,
		Title:     e.Title,
		Category:  e.Category,
		StartsAt:  e.StartsAt,
		EndsAt:    e.EndsAt,
		AllDay:    e.AllDay,
		Notes:     e.Notes,
		CreatedAt: e.CreatedAt,
		UpdatedAt: e.UpdatedAt,
	}
}
