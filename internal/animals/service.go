package animals

import (
	"context"
	"errors"
	"fmt"

	"github.com/fazendagestaosvp/fazenda-vista-backend/pkg/db/models"
	"github.com/fazendagestaosvp/fazenda-vista-backend/pkg/enums"
	pkgerrors "github.com/fazendagestaosvp/fazenda-vista-backend/pkg/errors"
	"github.com/fazendagestaosvp/fazenda-vista-backend/pkg/pagination"
	"github.com/google/uuid"
	"github.com/shopspring/decimal"
	"gorm.io/gorm"
)

// Service defines the behavior needed by the animals controller.
type Service interface {
	Create(ctx context.Context, ownerID uuid.UUID, req UpsertAnimalRequest) (*AnimalDTO, error)
	Get(ctx context.Context, ownerID, id uuid.UUID) (*AnimalDTO, error)
	List(ctx context.Context, ownerID uuid.UUID, params pagination.Params) (*ListResponse, error)
	Update(ctx context.Context, ownerID, id uuid.UUID, req UpsertAnimalRequest) (*AnimalDTO, error)
	Delete(ctx context.Context, ownerID, id uuid.UUID) error
}

type animalRepository interface {
	Create(ctx context.Context, animal *models.Animal) error
	FindByID(ctx context.Context, ownerID, id uuid.UUID) (*models.Animal, error)
	List(ctx context.Context, ownerID uuid.UUID, cursor *pagination.Cursor, limit int) ([]models.Animal, error)
	Update(ctx context.Context, animal *models.Animal) error
	Delete(ctx context.Context, ownerID, id uuid.UUID) error
}

type service struct {
	repo animalRepository
}

// NewService constructs an animals service.
func NewService(repo animalRepository) (Service, error) {
	if repo == nil {
		return nil, fmt.Errorf("animal repository is required")
	}
	return &service{repo: repo}, nil
}

func (s *service) Create(ctx context.Context, ownerID uuid.UUID, req UpsertAnimalRequest) (*AnimalDTO, error) {
	animal, err := s.applyRequest(&models.Animal{OwnerID: ownerID}, req)
	if err != nil {
		return nil, err
	}
	if err := s.repo.Create(ctx, animal); err != nil {
		return nil, pkgerrors.Wrap(pkgerrors.CodeInternal, err, "create animal")
	}
	return FromModel(animal), nil
}

func (s *service) Get(ctx context.Context, ownerID, id uuid.UUID) (*AnimalDTO, error) {
	animal, err := s.repo.FindByID(ctx, ownerID, id)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, pkgerrors.New(pkgerrors.CodeNotFound, "animal not found")
		}
		return nil, pkgerrors.Wrap(pkgerrors.CodeInternal, err, "lookup animal")
	}
	return FromModel(animal), nil
}

func (s *service) List(ctx context.Context, ownerID uuid.UUID, params pagination.Params) (*ListResponse, error) {
	cursor, err := pagination.ParseCursor(params.Cursor)
	if err != nil {
		return nil, pkgerrors.Wrap(pkgerrors.CodeValidation, err, "invalid cursor")
	}
	limit := pagination.NormalizeLimit(params.Limit)

	rows, err := s.repo.List(ctx, ownerID, cursor, pagination.LimitWithBuffer(params.Limit))
	if err != nil {
		return nil, pkgerrors.Wrap(pkgerrors.CodeInternal, err, "list animals")
	}

	resp := &ListResponse{Items: make([]AnimalDTO, 0, len(rows))}
	for i := range rows {
		if i == limit {
			next := pagination.EncodeCursor(pagination.Cursor{
				CreatedAt: rows[limit-1].CreatedAt,
				ID:        rows[limit-1].ID,
			})
			resp.NextCursor = &next
			break
		}
		resp.Items = append(resp.Items, *FromModel(&rows[i]))
	}
	return resp, nil
}

func (s *service) Update(ctx context.Context, ownerID, id uuid.UUID, req UpsertAnimalRequest) (*AnimalDTO, error) {
	animal, err := s.repo.FindByID(ctx, ownerID, id)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, pkgerrors.New(pkgerrors.CodeNotFound, "animal not found")
		}
		return nil, pkgerrors.Wrap(pkgerrors.CodeInternal, err, "lookup animal")
	}

	animal, err = s.applyRequest(animal, req)
	if err != nil {
		return nil, err
	}
	if err := s.repo.Update(ctx, animal); err != nil {
		return nil, pkgerrors.Wrap(pkgerrors.CodeInternal, err, "update animal")
	}
	return FromModel(animal), nil
}

func (s *service) Delete(ctx context.Context, ownerID, id uuid.UUID) error {
	if err := s.repo.Delete(ctx, ownerID, id); err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return pkgerrors.New(pkgerrors.CodeNotFound, "animal not found")
		}
		return pkgerrors.Wrap(pkgerrors.CodeInternal, err, "delete animal")
	}
	return nil
}

func (s *service) applyRequest(animal *models.Animal, req UpsertAnimalRequest) (*models.Animal, error) {
	kind, err := enums.ParseAnimalKind(req.Kind)
	if err != nil {
		return nil, pkgerrors.New(pkgerrors.CodeValidation, "invalid animal kind").WithDetails(map[string]any{"kind": req.Kind})
	}
	status, err := enums.ParseAnimalStatus(req.Status)
	if err != nil {
		return nil, pkgerrors.New(pkgerrors.CodeValidation, "invalid animal status").WithDetails(map[string]any{"status": req.Status})
	}

	animal.Kind = kind
	animal.Name = req.Name
	animal.Tag = req.Tag
	animal.Breed = req.Breed
	animal.BirthDate = req.BirthDate
	animal.Status = status
	animal.Notes = req.Notes
	if req.WeightKg != nil {
		if req.WeightKg.IsNegative() {
			return nil, pkgerrors.New(pkgerrors.CodeValidation, "weight must not be negative")
		}
		animal.WeightKg = decimal.NullDecimal{Decimal: *req.WeightKg, Valid: true}
	} else {
		animal.WeightKg = decimal.NullDecimal{}
	}
	return animal, nil
}
