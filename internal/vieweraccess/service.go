package vieweraccess

import (
	"context"
	"errors"
	"fmt"

	"github.com/fazendagestaosvp/fazenda-vista-backend/internal/roles"
	"github.com/fazendagestaosvp/fazenda-vista-backend/pkg/enums"
	pkgerrors "github.com/fazendagestaosvp/fazenda-vista-backend/pkg/errors"
	"github.com/google/uuid"
	"gorm.io/gorm"
)

// Service manages which accounts a viewer identity may read, and resolves
// the effective data scope for any actor.
type Service interface {
	ReplaceGrants(ctx context.Context, callerID, viewerID uuid.UUID, req ReplaceGrantsRequest) (*GrantsDTO, error)
	ListGrants(ctx context.Context, callerID, viewerID uuid.UUID) (*GrantsDTO, error)
	ResolveScope(ctx context.Context, actorID uuid.UUID, role enums.UIRole, requestedAccount *uuid.UUID) (uuid.UUID, error)
}

type grantRepository interface {
	ListAccountIDs(ctx context.Context, viewerID uuid.UUID) ([]uuid.UUID, error)
	HasGrant(ctx context.Context, viewerID, accountID uuid.UUID) (bool, error)
	Replace(ctx context.Context, viewerID uuid.UUID, accountIDs []uuid.UUID) error
}

type service struct {
	repo  grantRepository
	roles roles.Service
}

// NewService constructs a viewer-access service.
func NewService(repo grantRepository, roleService roles.Service) (Service, error) {
	if repo == nil {
		return nil, fmt.Errorf("grant repository is required")
	}
	if roleService == nil {
		return nil, fmt.Errorf("role service is required")
	}
	return &service{repo: repo, roles: roleService}, nil
}

// ReplaceGrants swaps the viewer's full grant set. Admin-only: the caller's
// stored role is re-verified against the database.
func (s *service) ReplaceGrants(ctx context.Context, callerID, viewerID uuid.UUID, req ReplaceGrantsRequest) (*GrantsDTO, error) {
	if err := s.requireAdmin(ctx, callerID); err != nil {
		return nil, err
	}

	seen := make(map[uuid.UUID]struct{}, len(req.AccountIDs))
	deduped := make([]uuid.UUID, 0, len(req.AccountIDs))
	for _, id := range req.AccountIDs {
		if id == uuid.Nil || id == viewerID {
			return nil, pkgerrors.New(pkgerrors.CodeValidation, "invalid account id in grant list")
		}
		if _, ok := seen[id]; ok {
			continue
		}
		seen[id] = struct{}{}
		deduped = append(deduped, id)
	}

	if err := s.repo.Replace(ctx, viewerID, deduped); err != nil {
		return nil, pkgerrors.Wrap(pkgerrors.CodeInternal, err, "replace grants")
	}
	return &GrantsDTO{ViewerID: viewerID, AccountIDs: deduped}, nil
}

// ListGrants returns the viewer's grant set. Admins can inspect anyone;
// other callers only themselves.
func (s *service) ListGrants(ctx context.Context, callerID, viewerID uuid.UUID) (*GrantsDTO, error) {
	if callerID != viewerID {
		if err := s.requireAdmin(ctx, callerID); err != nil {
			return nil, err
		}
	}

	ids, err := s.repo.ListAccountIDs(ctx, viewerID)
	if err != nil {
		return nil, pkgerrors.Wrap(pkgerrors.CodeInternal, err, "list grants")
	}
	if ids == nil {
		ids = []uuid.UUID{}
	}
	return &GrantsDTO{ViewerID: viewerID, AccountIDs: ids}, nil
}

// ResolveScope returns the account whose records the actor may read for
// this request. Admins and editors always read their own records. Viewers
// read their own by default, or a granted account when one is requested.
func (s *service) ResolveScope(ctx context.Context, actorID uuid.UUID, role enums.UIRole, requestedAccount *uuid.UUID) (uuid.UUID, error) {
	if requestedAccount == nil || *requestedAccount == actorID {
		return actorID, nil
	}
	if !role.IsViewer() {
		return uuid.Nil, pkgerrors.New(pkgerrors.CodeForbidden, "cannot read another account's records")
	}

	ok, err := s.repo.HasGrant(ctx, actorID, *requestedAccount)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return uuid.Nil, pkgerrors.New(pkgerrors.CodeForbidden, "no access to this account")
		}
		return uuid.Nil, pkgerrors.Wrap(pkgerrors.CodeInternal, err, "check grant")
	}
	if !ok {
		return uuid.Nil, pkgerrors.New(pkgerrors.CodeForbidden, "no access to this account")
	}
	return *requestedAccount, nil
}

func (s *service) requireAdmin(ctx context.Context, callerID uuid.UUID) error {
	if callerID == uuid.Nil {
		return pkgerrors.New(pkgerrors.CodeUnauthorized, "missing credentials")
	}
	stored, err := s.roles.ResolveStored(ctx, callerID)
	if err != nil {
		return err
	}
	if stored == nil || *stored != enums.StoredRoleAdmin {
		return pkgerrors.New(pkgerrors.CodeForbidden, "access denied")
	}
	return nil
}
