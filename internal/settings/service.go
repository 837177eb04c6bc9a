package settings

import (
	"context"
	"errors"
	"fmt"

	"github.com/fazendagestaosvp/fazenda-vista-backend/pkg/db/models"
	pkgerrors "github.com/fazendagestaosvp/fazenda-vista-backend/pkg/errors"
	"github.com/google/uuid"
	"gorm.io/gorm"
)

const (
	defaultLanguage = "pt-BR"
	defaultTimezone = "America/Sao_Paulo"
)

// Service defines the behavior needed by the settings controller.
type Service interface {
	Get(ctx context.Context, userID uuid.UUID) (*SettingsDTO, error)
	Update(ctx context.Context, userID uuid.UUID, req UpdateSettingsRequest) (*SettingsDTO, error)
}

type settingsRepository interface {
	FindByUserID(ctx context.Context, userID uuid.UUID) (*models.UserSettings, error)
	Upsert(ctx context.Context, settings *models.UserSettings) error
}

type service struct {
	repo settingsRepository
}

// NewService constructs a settings service.
func NewService(repo settingsRepository) (Service, error) {
	if repo == nil {
		return nil, fmt.Errorf("settings repository is required")
	}
	return &service{repo: repo}, nil
}

// Get returns the user's preferences, falling back to defaults when no
// row exists yet.
func (s *service) Get(ctx context.Context, userID uuid.UUID) (*SettingsDTO, error) {
	settings, err := s.repo.FindByUserID(ctx, userID)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return &SettingsDTO{
				Language:             defaultLanguage,
				Timezone:             defaultTimezone,
				NotificationsEnabled: true,
			}, nil
		}
		return nil, pkgerrors.Wrap(pkgerrors.CodeInternal, err, "lookup settings")
	}
	return fromModel(settings), nil
}

func (s *service) Update(ctx context.Context, userID uuid.UUID, req UpdateSettingsRequest) (*SettingsDTO, error) {
	settings := &models.UserSettings{
		UserID:               userID,
		Language:             req.Language,
		Timezone:             req.Timezone,
		NotificationsEnabled: req.NotificationsEnabled,
	}
	if err := s.repo.Upsert(ctx, settings); err != nil {
		return nil, pkgerrors.Wrap(pkgerrors.CodeInternal, err, "save settings")
	}
	return fromModel(settings), nil
}
