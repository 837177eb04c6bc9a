package settings

import (
	"time"

	"github.com/fazendagestaosvp/fazenda-vista-backend/pkg/db/models"
)

// SettingsDTO is the transport shape for a user's preferences.
type SettingsDTO struct {
	Language             string    `json:"language"`
	Timezone             string    `json:"timezone"`
	NotificationsEnabled bool      `json:"notifications_enabled"`
	UpdatedAt            time.Time `json:"updated_at"`
}

// UpdateSettingsRequest replaces the preferences row wholesale.
type UpdateSettingsRequest struct {
	Language             string `json:"language" validate:"required,min=2,max=20"`
	Timezone             string `json:"timezone" validate:"required,min=1,max=60"`
	NotificationsEnabled bool   `json:"notifications_enabled"`
}

func fromModel(s *models.UserSettings) *SettingsDTO {
	if s == nil {
		return nil
	}
	return &SettingsDTO{
		Language:             s.Language,
		Timezone:             s.Timezone,
		NotificationsEnabled: s.NotificationsEnabled,
		UpdatedAt:            s.UpdatedAt,
	}
}
