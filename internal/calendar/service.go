package calendar

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/fazendagestaosvp/fazenda-vista-backend/pkg/db/models"
	pkgerrors "github.com/fazendagestaosvp/fazenda-vista-backend/pkg/errors"
	"github.com/google/uuid"
	"gorm.io/gorm"
)

const maxRangeDays = 366

// Service defines the behavior needed by the calendar controller.
type Service interface {
	Create(ctx context.Context, ownerID uuid.UUID, req UpsertEventRequest) (*EventDTO, error)
	Get(ctx context.Context, ownerID, id uuid.UUID) (*EventDTO, error)
	ListRange(ctx context.Context, ownerID uuid.UUID, from, to time.Time) ([]EventDTO, error)
	Update(ctx context.Context, ownerID, id uuid.UUID, req UpsertEventRequest) (*EventDTO, error)
	Delete(ctx context.Context, ownerID, id uuid.UUID) error
}

type eventRepository interface {
	Create(ctx context.Context, event *models.CalendarEvent) error
	FindByID(ctx context.Context, ownerID, id uuid.UUID) (*models.CalendarEvent, error)
	ListRange(ctx context.Context, ownerID uuid.UUID, from, to time.Time) ([]models.CalendarEvent, error)
	Update(ctx context.Context, event *models.CalendarEvent) error
	Delete(ctx context.Context, ownerID, id uuid.UUID) error
}

type service struct {
	repo eventRepository
}

// NewService constructs a calendar service.
func NewService(repo eventRepository) (Service, error) {
	if repo == nil {
		return nil, fmt.Errorf("event repository is required")
	}
	return &service{repo: repo}, nil
}

func (s *service) Create(ctx context.Context, ownerID uuid.UUID, req UpsertEventRequest) (*EventDTO, error) {
	event, err := applyRequest(&models.CalendarEvent{OwnerID: ownerID}, req)
	if err != nil {
		return nil, err
	}
	if err := s.repo.Create(ctx, event); err != nil {
		return nil, pkgerrors.Wrap(pkgerrors.CodeInternal, err, "create event")
	}
	return fromModel(event), nil
}

func (s *service) Get(ctx context.Context, ownerID, id uuid.UUID) (*EventDTO, error) {
	event, err := s.repo.FindByID(ctx, ownerID, id)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, pkgerrors.New(pkgerrors.CodeNotFound, "event not found")
		}
		return nil, pkgerrors.Wrap(pkgerrors.CodeInternal, err, "lookup event")
	}
	return fromModel(event), nil
}

func (s *service) ListRange(ctx context.Context, ownerID uuid.UUID, from, to time.Time) ([]EventDTO, error) {
	if !to.After(from) {
		return nil, pkgerrors.New(pkgerrors.CodeValidation, "range end must follow range start")
	}
	if to.Sub(from) > maxRangeDays*24*time.Hour {
		return nil, pkgerrors.New(pkgerrors.CodeValidation, "range too wide")
	}

	rows, err := s.repo.ListRange(ctx, ownerID, from, to)
	if err != nil {
		return nil, pkgerrors.Wrap(pkgerrors.CodeInternal, err, "list events")
	}
	events := make([]EventDTO, 0, len(rows))
	for i := range rows {
		events = append(events, *fromModel(&rows[i]))
	}
	return events, nil
}

func (s *service) Update(ctx context.Context, ownerID, id uuid.UUID, req UpsertEventRequest) (*EventDTO, error) {
	event, err := s.repo.FindByID(ctx, ownerID, id)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, pkgerrors.New(pkgerrors.CodeNotFound, "event not found")
		}
		return nil, pkgerrors.Wrap(pkgerrors.CodeInternal, err, "lookup event")
	}

	event, err = applyRequest(event, req)
	if err != nil {
		return nil, err
	}
	if err := s.repo.Update(ctx, event); err != nil {
		return nil, pkgerrors.Wrap(pkgerrors.CodeInternal, err, "update event")
	}
	return fromModel(event), nil
}

func (s *service) Delete(ctx context.Context, ownerID, id uuid.UUID) error {
	if err := s.repo.Delete(ctx, ownerID, id); err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return pkgerrors.New(pkgerrors.CodeNotFound, "event not found")
		}
		return pkgerrors.Wrap(pkgerrors.CodeInternal, err, "delete event")
	}
	return nil
}

func applyRequest(event *models.CalendarEvent, req UpsertEventRequest) (*models.CalendarEvent, error) {
	if req.EndsAt != nil && req.EndsAt.Before(req.StartsAt) {
		return nil, pkgerrors.New(pkgerrors.CodeValidation, "event ends before it starts")
	}

	event.Title = req.Title
	event.Category = req.Category
	event.StartsAt = req.StartsAt
	event.EndsAt = req.EndsAt
	event.AllDay = req.AllDay
	event.Notes = req.Notes
	return event, nil
}
