package animals

import (
	"time"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"

	"github.com/fazendagestaosvp/fazenda-vista-backend/pkg/db/models"
	"github.com/fazendagestaosvp/fazenda-vista-backend/pkg/enums"
)

// AnimalDTO is the transport shape for one head of livestock.
type AnimalDTO struct {
	ID        uuid.UUID          `json:"id"`
	Kind      enums.AnimalKind   `json:"kind"`
	Name      string             `json:"name"`
	Tag       *string            `json:"tag,omitempty"`
	Breed     *string            `json:"breed,omitempty"`
	BirthDate *time.Time         `json:"birth_date,omitempty"`
	WeightKg  *decimal.Decimal   `json:"weight_kg,omitempty"`
	Status    enums.AnimalStatus `json:"status"`
	Notes     *string            `json:"notes,omitempty"`
	CreatedAt time.Time          `json:"created_at"`
	UpdatedAt time.Time          `json:"updated_at"`
}

// UpsertAnimalRequest carries create/update payloads. Updates replace the
// whole record.
type UpsertAnimalRequest struct {
	Kind      string           `json:"kind" validate:"required,oneof=cattle horse"`
	Name      string           `json:"name" validate:"required,min=1,max=120"`
	Tag       *string          `json:"tag,omitempty" validate:"omitempty,max=40"`
	Breed     *string          `json:"breed,omitempty" validate:"omitempty,max=80"`
	BirthDate *time.Time       `json:"birth_date,omitempty"`
	WeightKg  *decimal.Decimal `json:"weight_kg,omitempty"`
	Status    string           `json:"status" validate:"required,oneof=active sold deceased"`
	Notes     *string          `json:"notes,omitempty" validate:"omitempty,max=2000"`
}

// ListResponse wraps a page of animals with the next cursor.
type ListResponse struct {
	Items      []AnimalDTO `json:"items"`
	NextCursor *string     `json:"next_cursor,omitempty"`
}

func FromModel(a *models.Animal) *AnimalDTO {
	if a == nil {
		return nil
	}
	var weight *decimal.Decimal
	if a.WeightKg.Valid {
		w := a.WeightKg.Decimal
		weight = &w
	}
	return &AnimalDTO{
		ID:        a.ID,
		Kind:      a.Kind,
		Name:      a.Name,
		Tag:       a.Tag,
		Breed:     a.Breed,
		BirthDate: a.BirthDate,
		WeightKg:  weight,
		Status:    a.Status,
		Notes:     a.Notes,
		CreatedAt: a.CreatedAt,
		UpdatedAt: a.UpdatedAt,
	}
}
