package vieweraccess

import (
	"context"
	"testing"

	"github.com/google/uuid"

	"github.com/fazendagestaosvp/fazenda-vista-backend/pkg/enums"
	pkgerrors "github.com/fazendagestaosvp/fazenda-vista-backend/pkg/errors"
)

type fakeGrantRepo struct {
	grants map[uuid.UUID][]uuid.UUID
}

func newFakeGrantRepo() *fakeGrantRepo {
	return &fakeGrantRepo{grants: map[uuid.UUID][]uuid.UUID{}}
}

func (f *fakeGrantRepo) ListAccountIDs(_ context.Context, viewerID uuid.UUID) ([]uuid.UUID, error) {
	return f.grants[viewerID], nil
}

func (f *fakeGrantRepo) HasGrant(_ context.Context, viewerID, accountID uuid.UUID) (bool, error) {
	for _, id := range f.grants[viewerID] {
		if id == accountID {
			return true, nil
		}
	}
	return false, nil
}

func (f *fakeGrantRepo) Replace(_ context.Context, viewerID uuid.UUID, accountIDs []uuid.UUID) error {
	f.grants[viewerID] = accountIDs
	return nil
}

type fakeRoleService struct {
	stored map[uuid.UUID]enums.StoredRole
}

func (f *fakeRoleService) Resolve(ctx context.Context, userID uuid.UUID) (*enums.UIRole, error) {
	stored, err := f.ResolveStored(ctx, userID)
	if err != nil || stored == nil {
		return nil, err
	}
	ui, err := stored.ToUI()
	if err != nil {
		return nil, err
	}
	return &ui, nil
}

func (f *fakeRoleService) ResolveStored(_ context.Context, userID uuid.UUID) (*enums.StoredRole, error) {
	role, ok := f.stored[userID]
	if !ok {
		return nil, nil
	}
	return &role, nil
}

func (f *fakeRoleService) ResolveMany(_ context.Context, userIDs []uuid.UUID) (map[uuid.UUID]enums.UIRole, error) {
	out := map[uuid.UUID]enums.UIRole{}
	for _, id := range userIDs {
		if stored, ok := f.stored[id]; ok {
			if ui, err := stored.ToUI(); err == nil {
				out[id] = ui
			}
		}
	}
	return out, nil
}

func (f *fakeRoleService) Assign(_ context.Context, userID uuid.UUID, role enums.UIRole) (enums.StoredRole, error) {
	stored := role.ToStored()
	f.stored[userID] = stored
	return stored, nil
}

func (f *fakeRoleService) Remove(_ context.Context, userID uuid.UUID) error {
	delete(f.stored, userID)
	return nil
}

func newTestService(t *testing.T) (Service, *fakeGrantRepo, *fakeRoleService) {
	t.Helper()
	repo := newFakeGrantRepo()
	rolesSvc := &fakeRoleService{stored: map[uuid.UUID]enums.StoredRole{}}
	svc, err := NewService(repo, rolesSvc)
	if err != nil {
		t.Fatal(err)
	}
	return svc, repo, rolesSvc
}

func assertCode(t *testing.T, err error, code pkgerrors.Code) {
	t.Helper()
	if err == nil {
		t.Fatal("expected error")
	}
	coded := pkgerrors.As(err)
	if coded == nil {
		t.Fatalf("error %v carries no code", err)
	}
	if coded.Code() != code {
		t.Fatalf("error code %s, want %s", coded.Code(), code)
	}
}

func TestResolveScopeDefaultsToSelf(t *testing.T) {
	svc, _, _ := newTestService(t)
	actor := uuid.New()

	for _, role := range []enums.UIRole{enums.UIRoleAdmin, enums.UIRoleEditor, enums.UIRoleViewer} {
		scope, err := svc.ResolveScope(context.Background(), actor, role, nil)
		if err != nil {
			t.Fatalf("role %s: %v", role, err)
		}
		if scope != actor {
			t.Fatalf("role %s scoped to %s, want self", role, scope)
		}
	}
}

func TestResolveScopeRejectsCrossAccountForEditors(t *testing.T) {
	svc, _, _ := newTestService(t)
	other := uuid.New()

	for _, role := range []enums.UIRole{enums.UIRoleAdmin, enums.UIRoleEditor} {
		_, err := svc.ResolveScope(context.Background(), uuid.New(), role, &other)
		assertCode(t, err, pkgerrors.CodeForbidden)
	}
}

func TestResolveScopeHonorsViewerGrant(t *testing.T) {
	svc, repo, _ := newTestService(t)
	viewer := uuid.New()
	granted := uuid.New()
	repo.grants[viewer] = []uuid.UUID{granted}

	scope, err := svc.ResolveScope(context.Background(), viewer, enums.UIRoleViewer, &granted)
	if err != nil {
		t.Fatal(err)
	}
	if scope != granted {
		t.Fatalf("scoped to %s, want %s", scope, granted)
	}

	ungranted := uuid.New()
	_, err = svc.ResolveScope(context.Background(), viewer, enums.UIRoleViewer, &ungranted)
	assertCode(t, err, pkgerrors.CodeForbidden)
}

func TestReplaceGrantsRequiresStoredAdmin(t *testing.T) {
	svc, repo, rolesSvc := newTestService(t)
	editor := uuid.New()
	rolesSvc.stored[editor] = enums.StoredRoleUser
	viewer := uuid.New()

	_, err := svc.ReplaceGrants(context.Background(), editor, viewer, ReplaceGrantsRequest{
		AccountIDs: []uuid.UUID{uuid.New()},
	})
	assertCode(t, err, pkgerrors.CodeForbidden)
	if len(repo.grants[viewer]) != 0 {
		t.Fatal("grants written despite denial")
	}

	_, err = svc.ReplaceGrants(context.Background(), uuid.Nil, viewer, ReplaceGrantsRequest{})
	assertCode(t, err, pkgerrors.CodeUnauthorized)
}

func TestReplaceGrantsDeduplicatesAndValidates(t *testing.T) {
	svc, repo, rolesSvc := newTestService(t)
	adminID := uuid.New()
	rolesSvc.stored[adminID] = enums.StoredRoleAdmin
	viewer := uuid.New()
	account := uuid.New()

	dto, err := svc.ReplaceGrants(context.Background(), adminID, viewer, ReplaceGrantsRequest{
		AccountIDs: []uuid.UUID{account, account},
	})
	if err != nil {
		t.Fatal(err)
	}
	if len(dto.AccountIDs) != 1 || dto.AccountIDs[0] != account {
		t.Fatalf("unexpected grant set %v", dto.AccountIDs)
	}
	if len(repo.grants[viewer]) != 1 {
		t.Fatalf("stored %d grants, want 1", len(repo.grants[viewer]))
	}

	_, err = svc.ReplaceGrants(context.Background(), adminID, viewer, ReplaceGrantsRequest{
		AccountIDs: []uuid.UUID{viewer},
	})
	assertCode(t, err, pkgerrors.CodeValidation)
}

func TestListGrantsSelfAndAdminOnly(t *testing.T) {
	svc, repo, rolesSvc := newTestService(t)
	viewer := uuid.New()
	account := uuid.New()
	repo.grants[viewer] = []uuid.UUID{account}

	dto, err := svc.ListGrants(context.Background(), viewer, viewer)
	if err != nil {
		t.Fatal(err)
	}
	if len(dto.AccountIDs) != 1 {
		t.Fatalf("self lookup returned %v", dto.AccountIDs)
	}

	nosy := uuid.New()
	rolesSvc.stored[nosy] = enums.StoredRoleViewer
	_, err = svc.ListGrants(context.Background(), nosy, viewer)
	assertCode(t, err, pkgerrors.CodeForbidden)

	adminID := uuid.New()
	rolesSvc.stored[adminID] = enums.StoredRoleAdmin
	dto, err = svc.ListGrants(context.Background(), adminID, viewer)
	if err != nil {
		t.Fatal(err)
	}
	if len(dto.AccountIDs) != 1 {
		t.Fatalf("admin lookup returned %v", dto.AccountIDs)
	}
}
