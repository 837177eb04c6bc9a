package roles

import (
	"context"
	"errors"
	"fmt"

	"github.com/fazendagestaosvp/fazenda-vista-backend/pkg/db/models"
	"github.com/fazendagestaosvp/fazenda-vista-backend/pkg/enums"
	pkgerrors "github.com/fazendagestaosvp/fazenda-vista-backend/pkg/errors"
	"github.com/google/uuid"
	"gorm.io/gorm"
)

// Service resolves effective roles and applies role mutations. It is the
// single authority for UI-to-stored translation; nothing else in the
// codebase writes role records.
type Service interface {
	Resolve(ctx context.Context, userID uuid.UUID) (*enums.UIRole, error)
	ResolveStored(ctx context.Context, userID uuid.UUID) (*enums.StoredRole, error)
	ResolveMany(ctx context.Context, userIDs []uuid.UUID) (map[uuid.UUID]enums.UIRole, error)
	Assign(ctx context.Context, userID uuid.UUID, role enums.UIRole) (enums.StoredRole, error)
	Remove(ctx context.Context, userID uuid.UUID) error
}

type roleRepository interface {
	FindByUserID(ctx context.Context, userID uuid.UUID) (*models.UserRole, error)
	FindByUserIDs(ctx context.Context, userIDs []uuid.UUID) ([]models.UserRole, error)
	Upsert(ctx context.Context, userID uuid.UUID, role enums.StoredRole) error
	DeleteByUserID(ctx context.Context, userID uuid.UUID) error
	AllowedStoredValues(ctx context.Context) ([]string, error)
}

type service struct {
	repo roleRepository
}

// NewService constructs a role service with the provided repository.
func NewService(repo roleRepository) (Service, error) {
	if repo == nil {
		return nil, fmt.Errorf("role repository is required")
	}
	return &service{repo: repo}, nil
}

// Resolve returns the identity's effective UI role, or nil when no role
// record exists. Callers decide how to treat the unprovisioned case;
// nothing here invents a role.
func (s *service) Resolve(ctx context.Context, userID uuid.UUID) (*enums.UIRole, error) {
	record, err := s.repo.FindByUserID(ctx, userID)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, nil
		}
		return nil, pkgerrors.Wrap(pkgerrors.CodeInternal, err, "lookup role")
	}

	role, err := record.Role.ToUI()
	if err != nil {
		return nil, pkgerrors.Wrap(pkgerrors.CodeInternal, err, "translate stored role")
	}
	return &role, nil
}

// ResolveStored returns the raw stored role value, nil when unprovisioned.
func (s *service) ResolveStored(ctx context.Context, userID uuid.UUID) (*enums.StoredRole, error) {
	record, err := s.repo.FindByUserID(ctx, userID)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, nil
		}
		return nil, pkgerrors.Wrap(pkgerrors.CodeInternal, err, "lookup role")
	}
	role := record.Role
	return &role, nil
}

// ResolveMany maps each identity with a role record to its UI role.
// Identities without records are omitted from the result.
func (s *service) ResolveMany(ctx context.Context, userIDs []uuid.UUID) (map[uuid.UUID]enums.UIRole, error) {
	records, err := s.repo.FindByUserIDs(ctx, userIDs)
	if err != nil {
		return nil, pkgerrors.Wrap(pkgerrors.CodeInternal, err, "lookup roles")
	}

	resolved := make(map[uuid.UUID]enums.UIRole, len(records))
	for _, record := range records {
		role, err := record.Role.ToUI()
		if err != nil {
			return nil, pkgerrors.Wrap(pkgerrors.CodeInternal, err, "translate stored role")
		}
		resolved[record.UserID] = role
	}
	return resolved, nil
}

// Assign translates the UI role, remaps it against the store's currently
// legal enum members, and replaces the identity's role record atomically.
// Returns the stored value that was actually written.
func (s *service) Assign(ctx context.Context, userID uuid.UUID, role enums.UIRole) (enums.StoredRole, error) {
	if !role.IsValid() {
		return "", pkgerrors.New(pkgerrors.CodeValidation, "invalid role").WithDetails(map[string]any{"role": string(role)})
	}

	stored, err := s.storableRole(ctx, role)
	if err != nil {
		return "", err
	}

	if err := s.repo.Upsert(ctx, userID, stored); err != nil {
		return "", pkgerrors.Wrap(pkgerrors.CodeInternal, err, "persist role")
	}
	return stored, nil
}

// Remove deletes the identity's role record if one exists.
func (s *service) Remove(ctx context.Context, userID uuid.UUID) error {
	if err := s.repo.DeleteByUserID(ctx, userID); err != nil {
		return pkgerrors.Wrap(pkgerrors.CodeInternal, err, "delete role")
	}
	return nil
}

// storableRole checks the translated value against the runtime-discovered
// enum members and falls back to viewer (or the first legal member) when
// the intended value is not currently writable. Schema drift between
// environments is the reason this survives instead of a fixed contract.
func (s *service) storableRole(ctx context.Context, role enums.UIRole) (enums.StoredRole, error) {
	intended := role.ToStored()

	allowed, err := s.repo.AllowedStoredValues(ctx)
	if err != nil || len(allowed) == 0 {
		// Catalog unavailable (non-postgres store, degraded connection):
		// trust the compile-time mapping.
		return intended, nil
	}

	for _, value := range allowed {
		if value == string(intended) {
			return intended, nil
		}
	}

	for _, value := range allowed {
		if value == string(enums.StoredRoleViewer) {
			return enums.StoredRoleViewer, nil
		}
	}

	fallback, err := enums.ParseStoredRole(allowed[0])
	if err != nil {
		return "", pkgerrors.Wrap(pkgerrors.CodeInternal, err, "no usable role value")
	}
	return fallback, nil
}
