package users

import (
	"context"
	"errors"
	"fmt"

	"github.com/fazendagestaosvp/fazenda-vista-backend/internal/roles"
	"github.com/fazendagestaosvp/fazenda-vista-backend/pkg/db/models"
	pkgerrors "github.com/fazendagestaosvp/fazenda-vista-backend/pkg/errors"
	"github.com/google/uuid"
	"gorm.io/gorm"
)

// Service defines the behavior needed by the profile controller.
type Service interface {
	Profile(ctx context.Context, userID uuid.UUID) (*ProfileDTO, error)
}

type profileRepository interface {
	FindByID(ctx context.Context, id uuid.UUID) (*models.User, error)
}

// Capabilities reports what the resolved role lets the client do. The UI
// gates buttons on these; the server still enforces them per request.
type Capabilities struct {
	CanEdit bool `json:"can_edit"`
	IsAdmin bool `json:"is_admin"`
}

// ProfileDTO is the authenticated user's own view of their account.
type ProfileDTO struct {
	*UserDTO
	Capabilities Capabilities `json:"capabilities"`
}

type service struct {
	users profileRepository
	roles roles.Service
}

// NewService constructs a profile service.
func NewService(repo profileRepository, roleService roles.Service) (Service, error) {
	if repo == nil {
		return nil, fmt.Errorf("user repository is required")
	}
	if roleService == nil {
		return nil, fmt.Errorf("role service is required")
	}
	return &service{users: repo, roles: roleService}, nil
}

// Profile returns the caller's account plus the role resolved from the
// database, not from the token.
func (s *service) Profile(ctx context.Context, userID uuid.UUID) (*ProfileDTO, error) {
	user, err := s.users.FindByID(ctx, userID)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, pkgerrors.New(pkgerrors.CodeNotFound, "user not found")
		}
		return nil, pkgerrors.Wrap(pkgerrors.CodeInternal, err, "lookup user")
	}

	role, err := s.roles.Resolve(ctx, userID)
	if err != nil {
		return nil, err
	}
	if role == nil {
		return nil, pkgerrors.New(pkgerrors.CodeForbidden, "role not provisioned")
	}

	return &ProfileDTO{
		UserDTO: FromModel(user, *role),
		Capabilities: Capabilities{
			CanEdit: role.CanEdit(),
			IsAdmin: role.IsAdmin(),
		},
	}, nil
}
