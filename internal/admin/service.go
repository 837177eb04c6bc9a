package admin

import (
	"context"
	"errors"
	"fmt"
	"strings"

	"github.com/fazendagestaosvp/fazenda-vista-backend/internal/roles"
	"github.com/fazendagestaosvp/fazenda-vista-backend/internal/users"
	"github.com/fazendagestaosvp/fazenda-vista-backend/pkg/config"
	"github.com/fazendagestaosvp/fazenda-vista-backend/pkg/db/models"
	"github.com/fazendagestaosvp/fazenda-vista-backend/pkg/enums"
	pkgerrors "github.com/fazendagestaosvp/fazenda-vista-backend/pkg/errors"
	"github.com/fazendagestaosvp/fazenda-vista-backend/pkg/security"
	"github.com/google/uuid"
	"gorm.io/gorm"
)

const accessDeniedMessage = "access denied"

// Service is the privilege-checked administration surface. Every method
// takes the caller's identity and re-verifies the stored role against the
// database; the JWT role claim is never trusted for these mutations.
type Service interface {
	CreateUser(ctx context.Context, callerID uuid.UUID, req CreateUserRequest) (*users.UserDTO, error)
	DeleteUser(ctx context.Context, callerID uuid.UUID, req DeleteUserRequest) error
	UpdateUserRole(ctx context.Context, callerID uuid.UUID, req UpdateUserRoleRequest) (*UpdateUserRoleResponse, error)
	ListUsers(ctx context.Context, callerID uuid.UUID, limit int) ([]UserSummary, error)
}

type userRepository interface {
	Create(ctx context.Context, dto users.CreateUserDTO) (*models.User, error)
	FindByEmail(ctx context.Context, email string) (*models.User, error)
	FindByID(ctx context.Context, id uuid.UUID) (*models.User, error)
	List(ctx context.Context, limit int) ([]models.User, error)
	Delete(ctx context.Context, id uuid.UUID) error
}

type service struct {
	users       userRepository
	roles       roles.Service
	passwordCfg config.PasswordConfig
}

// ServiceParams bundles the dependencies required to build the admin service.
type ServiceParams struct {
	UserRepo       userRepository
	RoleService    roles.Service
	PasswordConfig config.PasswordConfig
}

// NewService constructs the admin service.
func NewService(params ServiceParams) (Service, error) {
	if params.UserRepo == nil {
		return nil, fmt.Errorf("user repository is required")
	}
	if params.RoleService == nil {
		return nil, fmt.Errorf("role service is required")
	}
	return &service{
		users:       params.UserRepo,
		roles:       params.RoleService,
		passwordCfg: params.PasswordConfig,
	}, nil
}

func (s *service) CreateUser(ctx context.Context, callerID uuid.UUID, req CreateUserRequest) (*users.UserDTO, error) {
	if err := s.requireAdmin(ctx, callerID); err != nil {
		return nil, err
	}

	role, err := enums.ParseUIRole(req.Role)
	if err != nil {
		return nil, pkgerrors.New(pkgerrors.CodeValidation, "invalid role").WithDetails(map[string]any{"role": req.Role})
	}

	email := strings.ToLower(strings.TrimSpace(req.Email))
	if _, err := s.users.FindByEmail(ctx, email); err == nil {
		return nil, pkgerrors.New(pkgerrors.CodeConflict, "email already registered")
	} else if !errors.Is(err, gorm.ErrRecordNotFound) {
		return nil, pkgerrors.Wrap(pkgerrors.CodeInternal, err, "lookup email")
	}

	hash, err := security.HashPassword(req.Password, s.passwordCfg)
	if err != nil {
		return nil, pkgerrors.Wrap(pkgerrors.CodeInternal, err, "hash password")
	}

	user, err := s.users.Create(ctx, users.CreateUserDTO{
		Email:        email,
		PasswordHash: hash,
		FullName:     strings.TrimSpace(req.FullName),
	})
	if err != nil {
		return nil, pkgerrors.Wrap(pkgerrors.CodeInternal, err, "create user")
	}

	// No compensating delete if this fails: the identity exists without a
	// role and stays locked out until an admin assigns one.
	stored, err := s.roles.Assign(ctx, user.ID, role)
	if err != nil {
		return nil, err
	}

	effective, err := stored.ToUI()
	if err != nil {
		return nil, pkgerrors.Wrap(pkgerrors.CodeInternal, err, "translate stored role")
	}

	return users.FromModel(user, effective), nil
}

func (s *service) DeleteUser(ctx context.Context, callerID uuid.UUID, req DeleteUserRequest) error {
	if err := s.requireAdmin(ctx, callerID); err != nil {
		return err
	}

	if req.UserID == callerID {
		return pkgerrors.New(pkgerrors.CodeValidation, "cannot delete your own account")
	}

	if _, err := s.users.FindByID(ctx, req.UserID); err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return pkgerrors.New(pkgerrors.CodeNotFound, "user not found")
		}
		return pkgerrors.Wrap(pkgerrors.CodeInternal, err, "lookup user")
	}

	if err := s.roles.Remove(ctx, req.UserID); err != nil {
		return err
	}
	if err := s.users.Delete(ctx, req.UserID); err != nil {
		return pkgerrors.Wrap(pkgerrors.CodeInternal, err, "delete user")
	}
	return nil
}

func (s *service) UpdateUserRole(ctx context.Context, callerID uuid.UUID, req UpdateUserRoleRequest) (*UpdateUserRoleResponse, error) {
	if err := s.requireAdmin(ctx, callerID); err != nil {
		return nil, err
	}

	role, err := enums.ParseUIRole(req.Role)
	if err != nil {
		return nil, pkgerrors.New(pkgerrors.CodeValidation, "invalid role").WithDetails(map[string]any{"role": req.Role})
	}

	if _, err := s.users.FindByID(ctx, req.UserID); err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, pkgerrors.New(pkgerrors.CodeNotFound, "user not found")
		}
		return nil, pkgerrors.Wrap(pkgerrors.CodeInternal, err, "lookup user")
	}

	stored, err := s.roles.Assign(ctx, req.UserID, role)
	if err != nil {
		return nil, err
	}

	effective, err := stored.ToUI()
	if err != nil {
		return nil, pkgerrors.Wrap(pkgerrors.CodeInternal, err, "translate stored role")
	}

	return &UpdateUserRoleResponse{
		UserID:     req.UserID,
		Role:       effective,
		StoredRole: stored,
	}, nil
}

func (s *service) ListUsers(ctx context.Context, callerID uuid.UUID, limit int) ([]UserSummary, error) {
	if err := s.requireAdmin(ctx, callerID); err != nil {
		return nil, err
	}

	rows, err := s.users.List(ctx, limit)
	if err != nil {
		return nil, pkgerrors.Wrap(pkgerrors.CodeInternal, err, "list users")
	}

	ids := make([]uuid.UUID, 0, len(rows))
	for _, row := range rows {
		ids = append(ids, row.ID)
	}
	resolved, err := s.roles.ResolveMany(ctx, ids)
	if err != nil {
		return nil, err
	}

	summaries := make([]UserSummary, 0, len(rows))
	for i := range rows {
		row := rows[i]
		role, hasRole := resolved[row.ID]
		summaries = append(summaries, UserSummary{
			UserDTO: users.FromModel(&row, role),
			HasRole: hasRole,
		})
	}
	return summaries, nil
}

// requireAdmin is the single privilege gate for every admin mutation. It
// reads the caller's stored role from the database; a missing record or
// any non-admin value is a 403.
func (s *service) requireAdmin(ctx context.Context, callerID uuid.UUID) error {
	if callerID == uuid.Nil {
		return pkgerrors.New(pkgerrors.CodeUnauthorized, "missing credentials")
	}
	stored, err := s.roles.ResolveStored(ctx, callerID)
	if err != nil {
		return err
	}
	if stored == nil || *stored != enums.StoredRoleAdmin {
		return pkgerrors.New(pkgerrors.CodeForbidden, accessDeniedMessage)
	}
	return nil
}
