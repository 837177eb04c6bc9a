package reproduction

import (
	"time"

	"github.com/google/uuid"

	"github.com/fazendagestaosvp/fazenda-vista-backend/pkg/db/models"
	"github.com/fazendagestaosvp/fazenda-vista-backend/pkg/enums"
)

// ProtocolDTO is the transport shape for a reproduction protocol.
type ProtocolDTO struct {
	ID        uuid.UUID            `json:"id"`
	AnimalID  uuid.UUID            `json:"animal_id"`
	Type      string               `json:"type"`
	StartDate time.Time            `json:"start_date"`
	EndDate   *time.Time           `json:"end_date,omitempty"`
	Status    enums.ProtocolStatus `json:"status"`
	Notes     *string              `json:"notes,omitempty"`
	CreatedAt time.Time            `json:"created_at"`
	UpdatedAt time.Time            `json:"updated_at"`
}

// UpsertProtocolRequest carries create/update payloads for a protocol.
type UpsertProtocolRequest struct {
	AnimalID  uuid.UUID  `json:"animal_id" validate:"required"`
	Type      string     `json:"type" validate:"required,min=1,max=80"`
	StartDate time.Time  `json:"start_date" validate:"required"`
	EndDate   *time.Time `json:"end_date,omitempty"`
	Status    string     `json:"status" validate:"required,oneof=scheduled in_progress completed cancelled"`
	Notes     *string    `json:"notes,omitempty" validate:"omitempty,max=2000"`
}

// UltrasoundDTO is the transport shape for a pregnancy exam.
type UltrasoundDTO struct {
	ID        uuid.UUID              `json:"id"`
	AnimalID  uuid.UUID              `json:"animal_id"`
	ExamDate  time.Time              `json:"exam_date"`
	Result    enums.UltrasoundResult `json:"result"`
	Notes     *string                `json:"notes,omitempty"`
	CreatedAt time.Time              `json:"created_at"`
	UpdatedAt time.Time              `json:"updated_at"`
}

// UpsertUltrasoundRequest carries create/update payloads for an exam.
type UpsertUltrasoundRequest struct {
	AnimalID uuid.UUID `json:"animal_id" validate:"required"`
	ExamDate time.Time `json:"exam_date" validate:"required"`
	Result   string    `json:"result" validate:"required,oneof=pregnant empty inconclusive"`
	Notes    *string   `json:"notes,omitempty" validate:"omitempty,max=2000"`
}

// ProtocolListResponse wraps a page of protocols with the next cursor.
type ProtocolListResponse struct {
	Items      []ProtocolDTO `json:"items"`
	NextCursor *string       `json:"next_cursor,omitempty"`
}

// UltrasoundListResponse wraps a page of exams with the next cursor.
type UltrasoundListResponse struct {
	Items      []UltrasoundDTO `json:"items"`
	NextCursor *string         `json:"next_cursor,omitempty"`
}

func protocolFromModel(p *models.ReproductionProtocol) *ProtocolDTO {
	if p == nil {
		return nil
	}
	return &ProtocolDTO{
		ID:        p.ID,
		AnimalID:  p.AnimalID,
		Type:      p.Type,
		StartDate: p.StartDate,
		EndDate:   p.EndDate,
		Status:    p.Status,
		Notes:     p.Notes,
		CreatedAt: p.CreatedAt,
		UpdatedAt: p.UpdatedAt,
	}
}

func ultrasoundFromModel(e *models.UltrasoundExam) *UltrasoundDTO {
	if e == nil {
		return nil
	}
	return &UltrasoundDTO{
		ID:        e.ID,
		AnimalID:  e.AnimalID,
		ExamDate:  e.ExamDate,
		Result:    e.Result,
		Notes:     e.Notes,
		CreatedAt: e.CreatedAt,
		UpdatedAt: e.UpdatedAt,
	}
}
