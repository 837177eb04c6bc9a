package roles

import (
	"context"
	"testing"

	"github.com/google/uuid"
	"gorm.io/gorm"

	"github.com/fazendagestaosvp/fazenda-vista-backend/pkg/db/models"
	"github.com/fazendagestaosvp/fazenda-vista-backend/pkg/enums"
)

// fakeRoleRepo keeps at most one record per user, like the UNIQUE(user_id)
// constraint does in postgres.
type fakeRoleRepo struct {
	records map[uuid.UUID]enums.StoredRole
	allowed []string
}

func newFakeRoleRepo() *fakeRoleRepo {
	return &fakeRoleRepo{records: map[uuid.UUID]enums.StoredRole{}}
}

func (f *fakeRoleRepo) FindByUserID(_ context.Context, userID uuid.UUID) (*models.UserRole, error) {
	role, ok := f.records[userID]
	if !ok {
		return nil, gorm.ErrRecordNotFound
	}
	return &models.UserRole{UserID: userID, Role: role}, nil
}

func (f *fakeRoleRepo) FindByUserIDs(_ context.Context, userIDs []uuid.UUID) ([]models.UserRole, error) {
	var out []models.UserRole
	for _, id := range userIDs {
		if role, ok := f.records[id]; ok {
			out = append(out, models.UserRole{UserID: id, Role: role})
		}
	}
	return out, nil
}

func (f *fakeRoleRepo) Upsert(_ context.Context, userID uuid.UUID, role enums.StoredRole) error {
	f.records[userID] = role
	return nil
}

func (f *fakeRoleRepo) DeleteByUserID(_ context.Context, userID uuid.UUID) error {
	delete(f.records, userID)
	return nil
}

func (f *fakeRoleRepo) AllowedStoredValues(_ context.Context) ([]string, error) {
	return f.allowed, nil
}

func TestResolveLegacyUserValueAsEditor(t *testing.T) {
	repo := newFakeRoleRepo()
	svc, err := NewService(repo)
	if err != nil {
		t.Fatal(err)
	}

	userID := uuid.New()
	repo.records[userID] = enums.StoredRoleUser

	role, err := svc.Resolve(context.Background(), userID)
	if err != nil {
		t.Fatal(err)
	}
	if role == nil || *role != enums.UIRoleEditor {
		t.Fatalf("stored user resolved to %v, want editor", role)
	}
}

func TestResolveUnprovisionedReturnsNil(t *testing.T) {
	svc, err := NewService(newFakeRoleRepo())
	if err != nil {
		t.Fatal(err)
	}

	role, err := svc.Resolve(context.Background(), uuid.New())
	if err != nil {
		t.Fatal(err)
	}
	if role != nil {
		t.Fatalf("expected nil role, got %s", *role)
	}
}

func TestSequentialAssignsLeaveOneRecord(t *testing.T) {
	repo := newFakeRoleRepo()
	svc, err := NewService(repo)
	if err != nil {
		t.Fatal(err)
	}

	userID := uuid.New()
	for _, role := range []enums.UIRole{enums.UIRoleEditor, enums.UIRoleAdmin, enums.UIRoleViewer} {
		if _, err := svc.Assign(context.Background(), userID, role); err != nil {
			t.Fatalf("assign %s: %v", role, err)
		}
	}

	if len(repo.records) != 1 {
		t.Fatalf("expected one record, got %d", len(repo.records))
	}
	if repo.records[userID] != enums.StoredRoleViewer {
		t.Fatalf("final record is %s, want viewer", repo.records[userID])
	}
}

func TestAssignEditorPersistsLegacyUserValue(t *testing.T) {
	repo := newFakeRoleRepo()
	svc, err := NewService(repo)
	if err != nil {
		t.Fatal(err)
	}

	stored, err := svc.Assign(context.Background(), uuid.New(), enums.UIRoleEditor)
	if err != nil {
		t.Fatal(err)
	}
	if stored != enums.StoredRoleUser {
		t.Fatalf("editor persisted as %s, want user", stored)
	}
}

func TestAssignFallsBackWhenEnumMemberMissing(t *testing.T) {
	repo := newFakeRoleRepo()
	repo.allowed = []string{"admin", "viewer"}
	svc, err := NewService(repo)
	if err != nil {
		t.Fatal(err)
	}

	userID := uuid.New()
	stored, err := svc.Assign(context.Background(), userID, enums.UIRoleEditor)
	if err != nil {
		t.Fatal(err)
	}
	if stored != enums.StoredRoleViewer {
		t.Fatalf("fallback wrote %s, want viewer", stored)
	}
	if repo.records[userID] != enums.StoredRoleViewer {
		t.Fatalf("record holds %s, want viewer", repo.records[userID])
	}
}

func TestAssignUsesFirstAllowedWhenViewerMissing(t *testing.T) {
	repo := newFakeRoleRepo()
	repo.allowed = []string{"admin"}
	svc, err := NewService(repo)
	if err != nil {
		t.Fatal(err)
	}

	stored, err := svc.Assign(context.Background(), uuid.New(), enums.UIRoleEditor)
	if err != nil {
		t.Fatal(err)
	}
	if stored != enums.StoredRoleAdmin {
		t.Fatalf("fallback wrote %s, want admin", stored)
	}
}

func TestAssignRejectsUnknownRole(t *testing.T) {
	svc, err := NewService(newFakeRoleRepo())
	if err != nil {
		t.Fatal(err)
	}

	if _, err := svc.Assign(context.Background(), uuid.New(), enums.UIRole("superuser")); err == nil {
		t.Fatal("expected validation error")
	}
}
