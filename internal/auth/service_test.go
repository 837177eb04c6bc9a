package auth

import (
	"context"
	"testing"
	"time"

	"github.com/google/uuid"
	redislib "github.com/redis/go-redis/v9"
	"gorm.io/gorm"

	"github.com/fazendagestaosvp/fazenda-vista-backend/internal/users"
	pkgAuth "github.com/fazendagestaosvp/fazenda-vista-backend/pkg/auth"
	"github.com/fazendagestaosvp/fazenda-vista-backend/pkg/auth/session"
	"github.com/fazendagestaosvp/fazenda-vista-backend/pkg/config"
	"github.com/fazendagestaosvp/fazenda-vista-backend/pkg/db/models"
	"github.com/fazendagestaosvp/fazenda-vista-backend/pkg/enums"
	pkgerrors "github.com/fazendagestaosvp/fazenda-vista-backend/pkg/errors"
	"github.com/fazendagestaosvp/fazenda-vista-backend/pkg/security"
)

var testJWT = config.JWTConfig{
	Secret:                 "test-secret",
	Issuer:                 "fazenda-test",
	ExpirationMinutes:      15,
	RefreshTokenTTLMinutes: 60,
}

type fakeUserRepo struct {
	byEmail map[string]*models.User
	byID    map[uuid.UUID]*models.User
}

func newFakeUserRepo() *fakeUserRepo {
	return &fakeUserRepo{byEmail: map[string]*models.User{}, byID: map[uuid.UUID]*models.User{}}
}

func (f *fakeUserRepo) add(user *models.User) {
	f.byEmail[user.Email] = user
	f.byID[user.ID] = user
}

func (f *fakeUserRepo) Create(_ context.Context, dto users.CreateUserDTO) (*models.User, error) {
	user := dto.ToModel()
	user.ID = uuid.New()
	f.add(user)
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

func (f *fakeUserRepo) UpdateLastLogin(_ context.Context, _ uuid.UUID, _ time.Time) error {
	return nil
}

func (f *fakeUserRepo) UpdatePasswordHash(_ context.Context, id uuid.UUID, hash string) error {
	user, ok := f.byID[id]
	if !ok {
		return gorm.ErrRecordNotFound
	}
	user.PasswordHash = hash
	return nil
}

type fakeRoleService struct {
	stored map[uuid.UUID]enums.StoredRole
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
		if role, err := f.Resolve(context.Background(), id); err == nil && role != nil {
			out[id] = *role
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

// fakeSessionManager issues predictable tokens and tracks rotations.
type fakeSessionManager struct {
	refreshByAccessID map[string]string
	rotations         int
}

func newFakeSessionManager() *fakeSessionManager {
	return &fakeSessionManager{refreshByAccessID: map[string]string{}}
}

func (f *fakeSessionManager) Generate(_ context.Context, accessID string) (string, error) {
	token := "refresh-" + accessID
	f.refreshByAccessID[accessID] = token
	return token, nil
}

func (f *fakeSessionManager) Rotate(_ context.Context, oldAccessID, provided string) (string, string, error) {
	stored, ok := f.refreshByAccessID[oldAccessID]
	if !ok || stored != provided {
		return "", "", session.ErrInvalidRefreshToken
	}
	delete(f.refreshByAccessID, oldAccessID)
	newAccessID := uuid.NewString()
	newToken := "refresh-" + newAccessID
	f.refreshByAccessID[newAccessID] = newToken
	f.rotations++
	return newAccessID, newToken, nil
}

func (f *fakeSessionManager) Revoke(_ context.Context, accessID string) error {
	delete(f.refreshByAccessID, accessID)
	return nil
}

type fakeResetStore struct {
	values map[string]string
}

func newFakeResetStore() *fakeResetStore {
	return &fakeResetStore{values: map[string]string{}}
}

func (f *fakeResetStore) Set(_ context.Context, key string, value any, _ time.Duration) error {
	f.values[key] = value.(string)
	return nil
}

func (f *fakeResetStore) Get(_ context.Context, key string) (string, error) {
	value, ok := f.values[key]
	if !ok {
		return "", redislib.Nil
	}
	return value, nil
}

func (f *fakeResetStore) Del(_ context.Context, keys ...string) error {
	for _, key := range keys {
		delete(f.values, key)
	}
	return nil
}

func (f *fakeResetStore) PasswordResetKey(token string) string {
	return "fv:pwreset:" + token
}

type testDeps struct {
	users    *fakeUserRepo
	roles    *fakeRoleService
	sessions *fakeSessionManager
	resets   *fakeResetStore
}

func newTestService(t *testing.T) (Service, *testDeps) {
	t.Helper()
	deps := &testDeps{
		users:    newFakeUserRepo(),
		roles:    newFakeRoleService(),
		sessions: newFakeSessionManager(),
		resets:   newFakeResetStore(),
	}
	svc, err := NewService(ServiceParams{
		UserRepo:       deps.users,
		RoleService:    deps.roles,
		SessionManager: deps.sessions,
		ResetTokens:    deps.resets,
		JWTConfig:      testJWT,
	})
	if err != nil {
		t.Fatal(err)
	}
	return svc, deps
}

func seedUser(t *testing.T, deps *testDeps, email, password string, role *enums.StoredRole) *models.User {
	t.Helper()
	hash, err := security.HashPassword(password, config.PasswordConfig{})
	if err != nil {
		t.Fatal(err)
	}
	user := &models.User{
		ID:           uuid.New(),
		Email:        email,
		PasswordHash: hash,
		FullName:     "Test User",
		IsActive:     true,
	}
	deps.users.add(user)
	if role != nil {
		deps.roles.stored[user.ID] = *role
	}
	return user
}

func assertCode(t *testing.T, err error, code pkgerrors.Code) {
	t.Helper()
	typed := pkgerrors.As(err)
	if typed == nil || typed.Code() != code {
		t.Fatalf("expected %s, got %v", code, err)
	}
}

func TestLoginResolvesRoleFromStore(t *testing.T) {
	svc, deps := newTestService(t)
	stored := enums.StoredRoleUser
	seedUser(t, deps, "editor@fazenda.test", "correct horse", &stored)

	resp, err := svc.Login(context.Background(), LoginRequest{Email: "Editor@Fazenda.test", Password: "correct horse"})
	if err != nil {
		t.Fatal(err)
	}
	if resp.User.Role != enums.UIRoleEditor {
		t.Fatalf("legacy user value resolved to %s, want editor", resp.User.Role)
	}

	claims, err := pkgAuth.ParseAccessToken(testJWT, resp.AccessToken)
	if err != nil {
		t.Fatal(err)
	}
	if claims.Role != enums.UIRoleEditor {
		t.Fatalf("token role %s, want editor", claims.Role)
	}
	if _, ok := deps.sessions.refreshByAccessID[claims.ID]; !ok {
		t.Fatal("refresh session not stored under jti")
	}
}

func TestLoginFailsClosedWithoutRoleRecord(t *testing.T) {
	svc, deps := newTestService(t)
	seedUser(t, deps, "norole@fazenda.test", "correct horse", nil)

	_, err := svc.Login(context.Background(), LoginRequest{Email: "norole@fazenda.test", Password: "correct horse"})
	assertCode(t, err, pkgerrors.CodeForbidden)
	if len(deps.sessions.refreshByAccessID) != 0 {
		t.Fatal("session issued for unprovisioned identity")
	}
}

func TestLoginRejectsBadPasswordAndInactive(t *testing.T) {
	svc, deps := newTestService(t)
	stored := enums.StoredRoleAdmin
	user := seedUser(t, deps, "admin@fazenda.test", "correct horse", &stored)

	_, err := svc.Login(context.Background(), LoginRequest{Email: "admin@fazenda.test", Password: "wrong"})
	assertCode(t, err, pkgerrors.CodeUnauthorized)

	user.IsActive = false
	_, err = svc.Login(context.Background(), LoginRequest{Email: "admin@fazenda.test", Password: "correct horse"})
	assertCode(t, err, pkgerrors.CodeUnauthorized)
}

func TestRegisterProvisionsViewer(t *testing.T) {
	svc, deps := newTestService(t)

	resp, err := svc.Register(context.Background(), RegisterRequest{
		Email: "new@fazenda.test", Password: "correct horse", FullName: "New Farmer",
	})
	if err != nil {
		t.Fatal(err)
	}
	if resp.User.Role != enums.UIRoleViewer {
		t.Fatalf("signup role %s, want viewer", resp.User.Role)
	}
	if deps.roles.stored[resp.User.ID] != enums.StoredRoleViewer {
		t.Fatal("viewer record not written")
	}
}

func TestRegisterDuplicateEmail(t *testing.T) {
	svc, deps := newTestService(t)
	stored := enums.StoredRoleViewer
	seedUser(t, deps, "taken@fazenda.test", "correct horse", &stored)

	_, err := svc.Register(context.Background(), RegisterRequest{
		Email: "taken@fazenda.test", Password: "correct horse", FullName: "Second",
	})
	assertCode(t, err, pkgerrors.CodeConflict)
}

func TestRefreshRotatesAndReResolvesRole(t *testing.T) {
	svc, deps := newTestService(t)
	stored := enums.StoredRoleAdmin
	user := seedUser(t, deps, "admin@fazenda.test", "correct horse", &stored)

	login, err := svc.Login(context.Background(), LoginRequest{Email: "admin@fazenda.test", Password: "correct horse"})
	if err != nil {
		t.Fatal(err)
	}

	// Demote between login and refresh; the next access token must carry
	// the new role.
	deps.roles.stored[user.ID] = enums.StoredRoleViewer

	refreshed, err := svc.Refresh(context.Background(), RefreshRequest{
		AccessToken:  login.AccessToken,
		RefreshToken: login.RefreshToken,
	})
	if err != nil {
		t.Fatal(err)
	}
	if deps.sessions.rotations != 1 {
		t.Fatalf("expected one rotation, got %d", deps.sessions.rotations)
	}

	claims, err := pkgAuth.ParseAccessToken(testJWT, refreshed.AccessToken)
	if err != nil {
		t.Fatal(err)
	}
	if claims.Role != enums.UIRoleViewer {
		t.Fatalf("refreshed role %s, want viewer", claims.Role)
	}

	// The old pair is dead after rotation.
	_, err = svc.Refresh(context.Background(), RefreshRequest{
		AccessToken:  login.AccessToken,
		RefreshToken: login.RefreshToken,
	})
	assertCode(t, err, pkgerrors.CodeUnauthorized)
}

func TestRefreshFailsClosedWhenRoleRemoved(t *testing.T) {
	svc, deps := newTestService(t)
	stored := enums.StoredRoleUser
	user := seedUser(t, deps, "editor@fazenda.test", "correct horse", &stored)

	login, err := svc.Login(context.Background(), LoginRequest{Email: "editor@fazenda.test", Password: "correct horse"})
	if err != nil {
		t.Fatal(err)
	}

	delete(deps.roles.stored, user.ID)

	_, err = svc.Refresh(context.Background(), RefreshRequest{
		AccessToken:  login.AccessToken,
		RefreshToken: login.RefreshToken,
	})
	assertCode(t, err, pkgerrors.CodeForbidden)
}

func TestPasswordResetFlow(t *testing.T) {
	svc, deps := newTestService(t)
	stored := enums.StoredRoleViewer
	user := seedUser(t, deps, "farmer@fazenda.test", "old password", &stored)

	if err := svc.ForgotPassword(context.Background(), ForgotPasswordRequest{Email: "farmer@fazenda.test"}); err != nil {
		t.Fatal(err)
	}
	if len(deps.resets.values) != 1 {
		t.Fatalf("expected one reset token, got %d", len(deps.resets.values))
	}

	var token string
	for key := range deps.resets.values {
		token = key[len("fv:pwreset:"):]
	}

	if err := svc.ResetPassword(context.Background(), ResetPasswordRequest{Token: token, NewPassword: "new password"}); err != nil {
		t.Fatal(err)
	}

	ok, err := security.VerifyPassword("new password", user.PasswordHash)
	if err != nil || !ok {
		t.Fatalf("new password not usable: ok=%v err=%v", ok, err)
	}
	if err := svc.ResetPassword(context.Background(), ResetPasswordRequest{Token: token, NewPassword: "again"}); err == nil {
		t.Fatal("reset token should be single use")
	}
}

func TestForgotPasswordHidesUnknownEmail(t *testing.T) {
	svc, deps := newTestService(t)

	if err := svc.ForgotPassword(context.Background(), ForgotPasswordRequest{Email: "ghost@fazenda.test"}); err != nil {
		t.Fatalf("unknown email must not error: %v", err)
	}
	if len(deps.resets.values) != 0 {
		t.Fatal("token stored for unknown email")
	}
}
