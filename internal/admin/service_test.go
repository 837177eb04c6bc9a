package admin

import (
	"context"
	"testing"

	"github.com/google/uuid"
	"gorm.io/gorm"

	"github.com/fazendagestaosvp/fazenda-vista-backend/internal/users"
	"github.com/fazendagestaosvp/fazenda-vista-backend/pkg/db/models"
	"github.com/fazendagestaosvp/fazenda-vista-backend/pkg/enums"
	pkgerrors "github.com/fazendagestaosvp/fazenda-vista-backend/pkg/errors"
)

type fakeUserRepo struct {
	byID    map[uuid.UUID]*models.User
	byEmail map[string]*models.User
	deleted []uuid.UUID
	created []*models.User
}

func newFakeUserRepo() *fakeUserRepo {
	return &fakeUserRepo{
		byID:    map[uuid.UUID]*models.User{},
		byEmail: map[string]*models.User{},
	}
}

func (f *fakeUserRepo) add(user *models.User) {
	f.byID[user.ID] = user
	f.byEmail[user.Email] = user
}

func (f *fakeUserRepo) Create(_ context.Context, dto users.CreateUserDTO) (*models.User, error) {
	user := dto.ToModel()
	user.ID = uuid.New()
	f.add(user)
	f.created = append(f.created, user)
	return user, nil
}

func (f *fakeUserRepo) FindByEmail(_ context.Context, email string) (*models.User, error) {
	if user, ok := f.byEmail[email]; ok {
		return user, nil
	}
	return nil, gorm.ErrRecordNotFound
}

func (f *fakeUserRepo) FindByID(_ context.Context, id uuid.UUID) (*models.User, error) {
	if user, ok := f.byID[id]; ok {
		return user, nil
	}
	return nil, gorm.ErrRecordNotFound
}

func (f *fakeUserRepo) List(_ context.Context, limit int) ([]models.User, error) {
	var out []models.User
	for _, user := range f.byID {
		if limit > 0 && len(out) == limit {
			break
		}
		out = append(out, *user)
	}
	return out, nil
}

func (f *fakeUserRepo) Delete(_ context.Context, id uuid.UUID) error {
	if _, ok := f.byID[id]; !ok {
		return gorm.ErrRecordNotFound
	}
	delete(f.byEmail, f.byID[id].Email)
	delete(f.byID, id)
	f.deleted = append(f.deleted, id)
	return nil
}

// fakeRoleService mimics the role layer: a map of stored values plus an
// optional assign override for fallback scenarios.
type fakeRoleService struct {
	stored   map[uuid.UUID]enums.StoredRole
	assignFn func(userID uuid.UUID, role enums.UIRole) (enums.StoredRole, error)
	removed  []uuid.UUID
}

func newFakeRoleService() *fakeRoleService {
	return &fakeRoleService{stored: map[uuid.UUID]enums.StoredRole{}}
}

func (f *fakeRoleService) Resolve(_ context.Context, userID uuid.UUID) (*enums.UIRole, error) {
	stored, ok := f.stored[userID]
	if !ok {
		return nil, nil
	}
	role, err := stored.ToUI()
	if err != nil {
		return nil, err
	}
	return &role, nil
}

func (f *fakeRoleService) ResolveStored(_ context.Context, userID uuid.UUID) (*enums.StoredRole, error) {
	stored, ok := f.stored[userID]
	if !ok {
		return nil, nil
	}
	return &stored, nil
}

func (f *fakeRoleService) ResolveMany(_ context.Context, userIDs []uuid.UUID) (map[uuid.UUID]enums.UIRole, error) {
	out := map[uuid.UUID]enums.UIRole{}
	for _, id := range userIDs {
		if stored, ok := f.stored[id]; ok {
			role, err := stored.ToUI()
			if err != nil {
				return nil, err
			}
			out[id] = role
		}
	}
	return out, nil
}

func (f *fakeRoleService) Assign(_ context.Context, userID uuid.UUID, role enums.UIRole) (enums.StoredRole, error) {
	if f.assignFn != nil {
		stored, err := f.assignFn(userID, role)
		if err != nil {
			return "", err
		}
		f.stored[userID] = stored
		return stored, nil
	}
	stored := role.ToStored()
	f.stored[userID] = stored
	return stored, nil
}

func (f *fakeRoleService) Remove(_ context.Context, userID uuid.UUID) error {
	delete(f.stored, userID)
	f.removed = append(f.removed, userID)
	return nil
}

func newTestService(t *testing.T, repo *fakeUserRepo, roleSvc *fakeRoleService) Service {
	t.Helper()
	svc, err := NewService(ServiceParams{UserRepo: repo, RoleService: roleSvc})
	if err != nil {
		t.Fatal(err)
	}
	return svc
}

func assertCode(t *testing.T, err error, code pkgerrors.Code) {
	t.Helper()
	if err == nil {
		t.Fatalf("expected %s error, got nil", code)
	}
	typed := pkgerrors.As(err)
	if typed == nil {
		t.Fatalf("expected coded error, got %v", err)
	}
	if typed.Code() != code {
		t.Fatalf("expected %s, got %s (%v)", code, typed.Code(), err)
	}
}

func seedAdmin(repo *fakeUserRepo, roleSvc *fakeRoleService) *models.User {
	admin := &models.User{ID: uuid.New(), Email: "admin@fazenda.test", FullName: "Admin", IsActive: true}
	repo.add(admin)
	roleSvc.stored[admin.ID] = enums.StoredRoleAdmin
	return admin
}

func TestAdminOpsRejectNonAdminCallers(t *testing.T) {
	repo := newFakeUserRepo()
	roleSvc := newFakeRoleService()
	svc := newTestService(t, repo, roleSvc)

	target := &models.User{ID: uuid.New(), Email: "target@fazenda.test", IsActive: true}
	repo.add(target)
	roleSvc.stored[target.ID] = enums.StoredRoleViewer

	callers := map[string]uuid.UUID{
		"viewer":    uuid.New(),
		"editor":    uuid.New(),
		"no record": uuid.New(),
	}
	roleSvc.stored[callers["viewer"]] = enums.StoredRoleViewer
	roleSvc.stored[callers["editor"]] = enums.StoredRoleUser

	for name, caller := range callers {
		t.Run(name, func(t *testing.T) {
			_, err := svc.CreateUser(context.Background(), caller, CreateUserRequest{
				Email: "new@fazenda.test", Password: "password123", FullName: "New User", Role: "viewer",
			})
			assertCode(t, err, pkgerrors.CodeForbidden)

			err = svc.DeleteUser(context.Background(), caller, DeleteUserRequest{UserID: target.ID})
			assertCode(t, err, pkgerrors.CodeForbidden)

			_, err = svc.UpdateUserRole(context.Background(), caller, UpdateUserRoleRequest{UserID: target.ID, Role: "admin"})
			assertCode(t, err, pkgerrors.CodeForbidden)

			_, err = svc.ListUsers(context.Background(), caller, 10)
			assertCode(t, err, pkgerrors.CodeForbidden)
		})
	}

	if len(repo.created) != 0 || len(repo.deleted) != 0 {
		t.Fatal("store mutated by rejected callers")
	}
	if roleSvc.stored[target.ID] != enums.StoredRoleViewer {
		t.Fatal("target role mutated by rejected callers")
	}
}

func TestAdminOpsRejectMissingCaller(t *testing.T) {
	svc := newTestService(t, newFakeUserRepo(), newFakeRoleService())

	_, err := svc.ListUsers(context.Background(), uuid.Nil, 10)
	assertCode(t, err, pkgerrors.CodeUnauthorized)
}

func TestDeleteUserRejectsSelfDelete(t *testing.T) {
	repo := newFakeUserRepo()
	roleSvc := newFakeRoleService()
	svc := newTestService(t, repo, roleSvc)
	admin := seedAdmin(repo, roleSvc)

	err := svc.DeleteUser(context.Background(), admin.ID, DeleteUserRequest{UserID: admin.ID})
	assertCode(t, err, pkgerrors.CodeValidation)
	if len(repo.deleted) != 0 {
		t.Fatal("self-delete reached the store")
	}
}

func TestDeleteUserRemovesRoleAndAccount(t *testing.T) {
	repo := newFakeUserRepo()
	roleSvc := newFakeRoleService()
	svc := newTestService(t, repo, roleSvc)
	admin := seedAdmin(repo, roleSvc)

	target := &models.User{ID: uuid.New(), Email: "target@fazenda.test", IsActive: true}
	repo.add(target)
	roleSvc.stored[target.ID] = enums.StoredRoleUser

	if err := svc.DeleteUser(context.Background(), admin.ID, DeleteUserRequest{UserID: target.ID}); err != nil {
		t.Fatal(err)
	}
	if len(roleSvc.removed) != 1 || roleSvc.removed[0] != target.ID {
		t.Fatal("role record not removed")
	}
	if len(repo.deleted) != 1 || repo.deleted[0] != target.ID {
		t.Fatal("account not removed")
	}
}

func TestDeleteUserUnknownTarget(t *testing.T) {
	repo := newFakeUserRepo()
	roleSvc := newFakeRoleService()
	svc := newTestService(t, repo, roleSvc)
	admin := seedAdmin(repo, roleSvc)

	err := svc.DeleteUser(context.Background(), admin.ID, DeleteUserRequest{UserID: uuid.New()})
	assertCode(t, err, pkgerrors.CodeNotFound)
}

func TestCreateUserDuplicateEmail(t *testing.T) {
	repo := newFakeUserRepo()
	roleSvc := newFakeRoleService()
	svc := newTestService(t, repo, roleSvc)
	admin := seedAdmin(repo, roleSvc)

	_, err := svc.CreateUser(context.Background(), admin.ID, CreateUserRequest{
		Email: admin.Email, Password: "password123", FullName: "Dup", Role: "viewer",
	})
	assertCode(t, err, pkgerrors.CodeConflict)
}

func TestCreateUserReportsFallbackRole(t *testing.T) {
	repo := newFakeUserRepo()
	roleSvc := newFakeRoleService()
	// The store's enum lost the editor spelling; the role layer remaps to
	// viewer and reports what it wrote.
	roleSvc.assignFn = func(_ uuid.UUID, role enums.UIRole) (enums.StoredRole, error) {
		if role == enums.UIRoleEditor {
			return enums.StoredRoleViewer, nil
		}
		return role.ToStored(), nil
	}
	svc := newTestService(t, repo, roleSvc)
	admin := seedAdmin(repo, roleSvc)

	user, err := svc.CreateUser(context.Background(), admin.ID, CreateUserRequest{
		Email: "editor@fazenda.test", Password: "password123", FullName: "Would Be Editor", Role: "editor",
	})
	if err != nil {
		t.Fatal(err)
	}
	if user.Role != enums.UIRoleViewer {
		t.Fatalf("effective role %s, want viewer after fallback", user.Role)
	}
}

func TestUpdateUserRoleReportsStoredValue(t *testing.T) {
	repo := newFakeUserRepo()
	roleSvc := newFakeRoleService()
	svc := newTestService(t, repo, roleSvc)
	admin := seedAdmin(repo, roleSvc)

	target := &models.User{ID: uuid.New(), Email: "target@fazenda.test", IsActive: true}
	repo.add(target)
	roleSvc.stored[target.ID] = enums.StoredRoleViewer

	resp, err := svc.UpdateUserRole(context.Background(), admin.ID, UpdateUserRoleRequest{
		UserID: target.ID, Role: "editor",
	})
	if err != nil {
		t.Fatal(err)
	}
	if resp.StoredRole != enums.StoredRoleUser {
		t.Fatalf("stored %s, want user", resp.StoredRole)
	}
	if resp.Role != enums.UIRoleEditor {
		t.Fatalf("effective %s, want editor", resp.Role)
	}
}

func TestListUsersMarksUnprovisionedAccounts(t *testing.T) {
	repo := newFakeUserRepo()
	roleSvc := newFakeRoleService()
	svc := newTestService(t, repo, roleSvc)
	admin := seedAdmin(repo, roleSvc)

	orphan := &models.User{ID: uuid.New(), Email: "orphan@fazenda.test", IsActive: true}
	repo.add(orphan)

	summaries, err := svc.ListUsers(context.Background(), admin.ID, 10)
	if err != nil {
		t.Fatal(err)
	}
	if len(summaries) != 2 {
		t.Fatalf("expected 2 rows, got %d", len(summaries))
	}
	for _, summary := range summaries {
		switch summary.ID {
		case admin.ID:
			if !summary.HasRole || summary.Role != enums.UIRoleAdmin {
				t.Fatalf("admin row wrong: %+v", summary)
			}
		case orphan.ID:
			if summary.HasRole {
				t.Fatal("orphan row claims a role")
			}
		}
	}
}
