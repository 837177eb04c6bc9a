package reproduction

import (
	"context"
	"errors"
	"fmt"

	"github.com/fazendagestaosvp/fazenda-vista-backend/pkg/db/models"
	"github.com/fazendagestaosvp/fazenda-vista-backend/pkg/enums"
	pkgerrors "github.com/fazendagestaosvp/fazenda-vista-backend/pkg/errors"
	"github.com/fazendagestaosvp/fazenda-vista-backend/pkg/pagination"
	"github.com/google/uuid"
	"gorm.io/gorm"
)

// Service defines the behavior needed by the reproduction controller.
type Service interface {
	CreateProtocol(ctx context.Context, ownerID uuid.UUID, req UpsertProtocolRequest) (*ProtocolDTO, error)
	GetProtocol(ctx context.Context, ownerID, id uuid.UUID) (*ProtocolDTO, error)
	ListProtocols(ctx context.Context, ownerID uuid.UUID, params pagination.Params) (*ProtocolListResponse, error)
	UpdateProtocol(ctx context.Context, ownerID, id uuid.UUID, req UpsertProtocolRequest) (*ProtocolDTO, error)
	DeleteProtocol(ctx context.Context, ownerID, id uuid.UUID) error

	CreateUltrasound(ctx context.Context, ownerID uuid.UUID, req UpsertUltrasoundRequest) (*UltrasoundDTO, error)
	GetUltrasound(ctx context.Context, ownerID, id uuid.UUID) (*UltrasoundDTO, error)
	ListUltrasounds(ctx context.Context, ownerID uuid.UUID, params pagination.Params) (*UltrasoundListResponse, error)
	UpdateUltrasound(ctx context.Context, ownerID, id uuid.UUID, req UpsertUltrasoundRequest) (*UltrasoundDTO, error)
	DeleteUltrasound(ctx context.Context, ownerID, id uuid.UUID) error
}

type reproductionRepository interface {
	CreateProtocol(ctx context.Context, protocol *models.ReproductionProtocol) error
	FindProtocolByID(ctx context.Context, ownerID, id uuid.UUID) (*models.ReproductionProtocol, error)
	ListProtocols(ctx context.Context, ownerID uuid.UUID, cursor *pagination.Cursor, limit int) ([]models.ReproductionProtocol, error)
	UpdateProtocol(ctx context.Context, protocol *models.ReproductionProtocol) error
	DeleteProtocol(ctx context.Context, ownerID, id uuid.UUID) error

	CreateUltrasound(ctx context.Context, exam *models.UltrasoundExam) error
	FindUltrasoundByID(ctx context.Context, ownerID, id uuid.UUID) (*models.UltrasoundExam, error)
	ListUltrasounds(ctx context.Context, ownerID uuid.UUID, cursor *pagination.Cursor, limit int) ([]models.UltrasoundExam, error)
	UpdateUltrasound(ctx context.Context, exam *models.UltrasoundExam) error
	DeleteUltrasound(ctx context.Context, ownerID, id uuid.UUID) error
}

type animalChecker interface {
	FindByID(ctx context.Context, ownerID, id uuid.UUID) (*models.Animal, error)
}

type service struct {
	repo    reproductionRepository
	animals animalChecker
}

// NewService constructs a reproduction service.
func NewService(repo reproductionRepository, animals animalChecker) (Service, error) {
	if repo == nil {
		return nil, fmt.Errorf("reproduction repository is required")
	}
	if animals == nil {
		return nil, fmt.Errorf("animal repository is required")
	}
	return &service{repo: repo, animals: animals}, nil
}

func (s *service) CreateProtocol(ctx context.Context, ownerID uuid.UUID, req UpsertProtocolRequest) (*ProtocolDTO, error) {
	protocol, err := s.applyProtocol(ctx, &models.ReproductionProtocol{OwnerID: ownerID}, ownerID, req)
	if err != nil {
		return nil, err
	}
	if err := s.repo.CreateProtocol(ctx, protocol); err != nil {
		return nil, pkgerrors.Wrap(pkgerrors.CodeInternal, err, "create protocol")
	}
	return protocolFromModel(protocol), nil
}

func (s *service) GetProtocol(ctx context.Context, ownerID, id uuid.UUID) (*ProtocolDTO, error) {
	protocol, err := s.repo.FindProtocolByID(ctx, ownerID, id)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, pkgerrors.New(pkgerrors.CodeNotFound, "protocol not found")
		}
		return nil, pkgerrors.Wrap(pkgerrors.CodeInternal, err, "lookup protocol")
	}
	return protocolFromModel(protocol), nil
}

func (s *service) ListProtocols(ctx context.Context, ownerID uuid.UUID, params pagination.Params) (*ProtocolListResponse, error) {
	cursor, err := pagination.ParseCursor(params.Cursor)
	if err != nil {
		return nil, pkgerrors.Wrap(pkgerrors.CodeValidation, err, "invalid cursor")
	}
	limit := pagination.NormalizeLimit(params.Limit)

	rows, err := s.repo.ListProtocols(ctx, ownerID, cursor, pagination.LimitWithBuffer(params.Limit))
	if err != nil {
		return nil, pkgerrors.Wrap(pkgerrors.CodeInternal, err, "list protocols")
	}

	resp := &ProtocolListResponse{Items: make([]ProtocolDTO, 0, len(rows))}
	for i := range rows {
		if i == limit {
			next := pagination.EncodeCursor(pagination.Cursor{
				CreatedAt: rows[limit-1].CreatedAt,
				ID:        rows[limit-1].ID,
			})
			resp.NextCursor = &next
			break
		}
		resp.Items = append(resp.Items, *protocolFromModel(&rows[i]))
	}
	return resp, nil
}

func (s *service) UpdateProtocol(ctx context.Context, ownerID, id uuid.UUID, req UpsertProtocolRequest) (*ProtocolDTO, error) {
	protocol, err := s.repo.FindProtocolByID(ctx, ownerID, id)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, pkgerrors.New(pkgerrors.CodeNotFound, "protocol not found")
		}
		return nil, pkgerrors.Wrap(pkgerrors.CodeInternal, err, "lookup protocol")
	}

	protocol, err = s.applyProtocol(ctx, protocol, ownerID, req)
	if err != nil {
		return nil, err
	}
	if err := s.repo.UpdateProtocol(ctx, protocol); err != nil {
		return nil, pkgerrors.Wrap(pkgerrors.CodeInternal, err, "update protocol")
	}
	return protocolFromModel(protocol), nil
}

func (s *service) DeleteProtocol(ctx context.Context, ownerID, id uuid.UUID) error {
	if err := s.repo.DeleteProtocol(ctx, ownerID, id); err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return pkgerrors.New(pkgerrors.CodeNotFound, "protocol not found")
		}
		return pkgerrors.Wrap(pkgerrors.CodeInternal, err, "delete protocol")
	}
	return nil
}

func (s *service) CreateUltrasound(ctx context.Context, ownerID uuid.UUID, req UpsertUltrasoundRequest) (*UltrasoundDTO, error) {
	exam, err := s.applyUltrasound(ctx, &models.UltrasoundExam{OwnerID: ownerID}, ownerID, req)
	if err != nil {
		return nil, err
	}
	if err := s.repo.CreateUltrasound(ctx, exam); err != nil {
		return nil, pkgerrors.Wrap(pkgerrors.CodeInternal, err, "create ultrasound")
	}
	return ultrasoundFromModel(exam), nil
}

func (s *service) GetUltrasound(ctx context.Context, ownerID, id uuid.UUID) (*UltrasoundDTO, error) {
	exam, err := s.repo.FindUltrasoundByID(ctx, ownerID, id)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, pkgerrors.New(pkgerrors.CodeNotFound, "ultrasound not found")
		}
		return nil, pkgerrors.Wrap(pkgerrors.CodeInternal, err, "lookup ultrasound")
	}
	return ultrasoundFromModel(exam), nil
}

func (s *service) ListUltrasounds(ctx context.Context, ownerID uuid.UUID, params pagination.Params) (*UltrasoundListResponse, error) {
	cursor, err := pagination.ParseCursor(params.Cursor)
	if err != nil {
		return nil, pkgerrors.Wrap(pkgerrors.CodeValidation, err, "invalid cursor")
	}
	limit := pagination.NormalizeLimit(params.Limit)

	rows, err := s.repo.ListUltrasounds(ctx, ownerID, cursor, pagination.LimitWithBuffer(params.Limit))
	if err != nil {
		return nil, pkgerrors.Wrap(pkgerrors.CodeInternal, err, "list ultrasounds")
	}

	resp := &UltrasoundListResponse{Items: make([]UltrasoundDTO, 0, len(rows))}
	for i := range rows {
		if i == limit {
			next := pagination.EncodeCursor(pagination.Cursor{
				CreatedAt: rows[limit-1].CreatedAt,
				ID:        rows[limit-1].ID,
			})
			resp.NextCursor = &next
			break
		}
		resp.Items = append(resp.Items, *ultrasoundFromModel(&rows[i]))
	}
	return resp, nil
}

func (s *service) UpdateUltrasound(ctx context.Context, ownerID, id uuid.UUID, req UpsertUltrasoundRequest) (*UltrasoundDTO, error) {
	exam, err := s.repo.FindUltrasoundByID(ctx, ownerID, id)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, pkgerrors.New(pkgerrors.CodeNotFound, "ultrasound not found")
		}
		return nil, pkgerrors.Wrap(pkgerrors.CodeInternal, err, "lookup ultrasound")
	}

	exam, err = s.applyUltrasound(ctx, exam, ownerID, req)
	if err != nil {
		return nil, err
	}
	if err := s.repo.UpdateUltrasound(ctx, exam); err != nil {
		return nil, pkgerrors.Wrap(pkgerrors.CodeInternal, err, "update ultrasound")
	}
	return ultrasoundFromModel(exam), nil
}

func (s *service) DeleteUltrasound(ctx context.Context, ownerID, id uuid.UUID) error {
	if err := s.repo.DeleteUltrasound(ctx, ownerID, id); err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return pkgerrors.New(pkgerrors.CodeNotFound, "ultrasound not found")
		}
		return pkgerrors.Wrap(pkgerrors.CodeInternal, err, "delete ultrasound")
	}
	return nil
}

func (s *service) applyProtocol(ctx context.Context, protocol *models.ReproductionProtocol, ownerID uuid.UUID, req UpsertProtocolRequest) (*models.ReproductionProtocol, error) {
	status, err := enums.ParseProtocolStatus(req.Status)
	if err != nil {
		return nil, pkgerrors.New(pkgerrors.CodeValidation, "invalid protocol status").WithDetails(map[string]any{"status": req.Status})
	}
	if err := s.requireAnimal(ctx, ownerID, req.AnimalID); err != nil {
		return nil, err
	}
	if req.EndDate != nil && req.EndDate.Before(req.StartDate) {
		return nil, pkgerrors.New(pkgerrors.CodeValidation, "end date precedes start date")
	}

	protocol.AnimalID = req.AnimalID
	protocol.Type = req.Type
	protocol.StartDate = req.StartDate
	protocol.EndDate = req.EndDate
	protocol.Status = status
	protocol.Notes = req.Notes
	return protocol, nil
}

func (s *service) applyUltrasound(ctx context.Context, exam *models.UltrasoundExam, ownerID uuid.UUID, req UpsertUltrasoundRequest) (*models.UltrasoundExam, error) {
	result, err := enums.ParseUltrasoundResult(req.Result)
	if err != nil {
		return nil, pkgerrors.New(pkgerrors.CodeValidation, "invalid ultrasound result").WithDetails(map[string]any{"result": req.Result})
	}
	if err := s.requireAnimal(ctx, ownerID, req.AnimalID); err != nil {
		return nil, err
	}

	exam.AnimalID = req.AnimalID
	exam.ExamDate = req.ExamDate
	exam.Result = result
	exam.Notes = req.Notes
	return exam, nil
}

func (s *service) requireAnimal(ctx context.Context, ownerID, animalID uuid.UUID) error {
	if _, err := s.animals.FindByID(ctx, ownerID, animalID); err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return pkgerrors.New(pkgerrors.CodeValidation, "animal does not belong to this account")
		}
		return pkgerrors.Wrap(pkgerrors.CodeInternal, err, "lookup animal")
	}
	return nil
}
