package controllers

import (
	"context"
	"encoding/json"
	"io"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"
	"time"

	"github.com/go-chi/chi/v5"
	"github.com/google/uuid"

	"github.com/fazendagestaosvp/fazenda-vista-backend/api/middleware"
	"github.com/fazendagestaosvp/fazenda-vista-backend/internal/admin"
	"github.com/fazendagestaosvp/fazenda-vista-backend/internal/users"
	pkgAuth "github.com/fazendagestaosvp/fazenda-vista-backend/pkg/auth"
	"github.com/fazendagestaosvp/fazenda-vista-backend/pkg/config"
	"github.com/fazendagestaosvp/fazenda-vista-backend/pkg/enums"
	pkgerrors "github.com/fazendagestaosvp/fazenda-vista-backend/pkg/errors"
	"github.com/fazendagestaosvp/fazenda-vista-backend/pkg/logger"
)

var testJWT = config.JWTConfig{
	Secret:            "test-secret",
	Issuer:            "fazenda-test",
	ExpirationMinutes: 15,
}

type allowAllSessions struct{}

func (allowAllSessions) HasSession(context.Context, string) (bool, error) { return true, nil }

type testAdminService struct {
	createFn     func(ctx context.Context, callerID uuid.UUID, req admin.CreateUserRequest) (*users.UserDTO, error)
	deleteFn     func(ctx context.Context, callerID uuid.UUID, req admin.DeleteUserRequest) error
	updateRoleFn func(ctx context.Context, callerID uuid.UUID, req admin.UpdateUserRoleRequest) (*admin.UpdateUserRoleResponse, error)
	listFn       func(ctx context.Context, callerID uuid.UUID, limit int) ([]admin.UserSummary, error)
}

func (s *testAdminService) CreateUser(ctx context.Context, callerID uuid.UUID, req admin.CreateUserRequest) (*users.UserDTO, error) {
	if s.createFn != nil {
		return s.createFn(ctx, callerID, req)
	}
	return nil, nil
}

func (s *testAdminService) DeleteUser(ctx context.Context, callerID uuid.UUID, req admin.DeleteUserRequest) error {
	if s.deleteFn != nil {
		return s.deleteFn(ctx, callerID, req)
	}
	return nil
}

func (s *testAdminService) UpdateUserRole(ctx context.Context, callerID uuid.UUID, req admin.UpdateUserRoleRequest) (*admin.UpdateUserRoleResponse, error) {
	if s.updateRoleFn != nil {
		return s.updateRoleFn(ctx, callerID, req)
	}
	return nil, nil
}

func (s *testAdminService) ListUsers(ctx context.Context, callerID uuid.UUID, limit int) ([]admin.UserSummary, error) {
	if s.listFn != nil {
		return s.listFn(ctx, callerID, limit)
	}
	return nil, nil
}

func testLogger() *logger.Logger {
	return logger.New(logger.Options{ServiceName: "test", Output: io.Discard})
}

func adminTestRouter(svc admin.Service) http.Handler {
	logg := testLogger()
	r := chi.NewRouter()
	r.Route("/api/admin/v1/users", func(r chi.Router) {
		r.Use(middleware.Auth(testJWT, allowAllSessions{}, logg))
		r.Get("/", AdminListUsers(svc, logg))
		r.Post("/", AdminCreateUser(svc, logg))
		r.Post("/delete", AdminDeleteUser(svc, logg))
		r.Post("/role", AdminUpdateUserRole(svc, logg))
	})
	return r
}

func mintToken(t *testing.T, userID uuid.UUID, role enums.UIRole) string {
	t.Helper()
	token, err := pkgAuth.MintAccessToken(testJWT, time.Now().UTC(), pkgAuth.AccessTokenPayload{
		UserID: userID,
		Role:   role,
		JTI:    uuid.NewString(),
	})
	if err != nil {
		t.Fatal(err)
	}
	return token
}

func decodeErrorCode(t *testing.T, body io.Reader) string {
	t.Helper()
	var envelope struct {
		Error struct {
			Code string `json:"code"`
		} `json:"error"`
	}
	if err := json.NewDecoder(body).Decode(&envelope); err != nil {
		t.Fatalf("decode error envelope: %v", err)
	}
	return envelope.Error.Code
}

func TestAdminEndpointsRejectMissingBearer(t *testing.T) {
	called := false
	svc := &testAdminService{
		deleteFn: func(context.Context, uuid.UUID, admin.DeleteUserRequest) error {
			called = true
			return nil
		},
	}
	router := adminTestRouter(svc)

	req := httptest.NewRequest(http.MethodPost, "/api/admin/v1/users/delete",
		strings.NewReader(`{"user_id":"`+uuid.NewString()+`"}`))
	resp := httptest.NewRecorder()
	router.ServeHTTP(resp, req)

	if resp.Code != http.StatusUnauthorized {
		t.Fatalf("unexpected status %d", resp.Code)
	}
	if called {
		t.Fatal("service reached without credentials")
	}
}

func TestAdminCreateUserForbiddenForNonAdmin(t *testing.T) {
	viewerID := uuid.New()
	svc := &testAdminService{
		createFn: func(_ context.Context, callerID uuid.UUID, _ admin.CreateUserRequest) (*users.UserDTO, error) {
			if callerID != viewerID {
				t.Fatalf("caller %s, want %s", callerID, viewerID)
			}
			// The service re-checks the stored role and denies.
			return nil, pkgerrors.New(pkgerrors.CodeForbidden, "access denied")
		},
	}
	router := adminTestRouter(svc)

	req := httptest.NewRequest(http.MethodPost, "/api/admin/v1/users",
		strings.NewReader(`{"email":"x@fazenda.test","password":"password123","full_name":"X Y","role":"viewer"}`))
	req.Header.Set("Authorization", "Bearer "+mintToken(t, viewerID, enums.UIRoleViewer))
	resp := httptest.NewRecorder()
	router.ServeHTTP(resp, req)

	if resp.Code != http.StatusForbidden {
		t.Fatalf("unexpected status %d", resp.Code)
	}
	if code := decodeErrorCode(t, resp.Body); code != string(pkgerrors.CodeForbidden) {
		t.Fatalf("unexpected error code %s", code)
	}
}

func TestAdminCreateUserRejectsUnknownRoleValue(t *testing.T) {
	called := false
	svc := &testAdminService{
		createFn: func(context.Context, uuid.UUID, admin.CreateUserRequest) (*users.UserDTO, error) {
			called = true
			return nil, nil
		},
	}
	router := adminTestRouter(svc)

	req := httptest.NewRequest(http.MethodPost, "/api/admin/v1/users",
		strings.NewReader(`{"email":"x@fazenda.test","password":"password123","full_name":"X Y","role":"superuser"}`))
	req.Header.Set("Authorization", "Bearer "+mintToken(t, uuid.New(), enums.UIRoleAdmin))
	resp := httptest.NewRecorder()
	router.ServeHTTP(resp, req)

	if resp.Code != http.StatusBadRequest {
		t.Fatalf("unexpected status %d", resp.Code)
	}
	if called {
		t.Fatal("invalid payload reached the service")
	}
}

func TestAdminUpdateUserRoleReportsStoredValue(t *testing.T) {
	adminID := uuid.New()
	targetID := uuid.New()
	svc := &testAdminService{
		updateRoleFn: func(_ context.Context, callerID uuid.UUID, req admin.UpdateUserRoleRequest) (*admin.UpdateUserRoleResponse, error) {
			if callerID != adminID || req.UserID != targetID || req.Role != "editor" {
				t.Fatalf("unexpected call: caller=%s req=%+v", callerID, req)
			}
			return &admin.UpdateUserRoleResponse{
				UserID:     targetID,
				Role:       enums.UIRoleEditor,
				StoredRole: enums.StoredRoleUser,
			}, nil
		},
	}
	router := adminTestRouter(svc)

	req := httptest.NewRequest(http.MethodPost, "/api/admin/v1/users/role",
		strings.NewReader(`{"user_id":"`+targetID.String()+`","role":"editor"}`))
	req.Header.Set("Authorization", "Bearer "+mintToken(t, adminID, enums.UIRoleAdmin))
	resp := httptest.NewRecorder()
	router.ServeHTTP(resp, req)

	if resp.Code != http.StatusOK {
		t.Fatalf("unexpected status %d: %s", resp.Code, resp.Body.String())
	}
	var envelope struct {
		Data struct {
			Role       string `json:"role"`
			StoredRole string `json:"stored_role"`
		} `json:"data"`
	}
	if err := json.NewDecoder(resp.Body).Decode(&envelope); err != nil {
		t.Fatal(err)
	}
	if envelope.Data.Role != "editor" || envelope.Data.StoredRole != "user" {
		t.Fatalf("unexpected payload %+v", envelope.Data)
	}
}

func TestAdminDeleteUserMethodNotAllowed(t *testing.T) {
	router := adminTestRouter(&testAdminService{})

	req := httptest.NewRequest(http.MethodGet, "/api/admin/v1/users/delete", nil)
	req.Header.Set("Authorization", "Bearer "+mintToken(t, uuid.New(), enums.UIRoleAdmin))
	resp := httptest.NewRecorder()
	router.ServeHTTP(resp, req)

	if resp.Code != http.StatusMethodNotAllowed {
		t.Fatalf("unexpected status %d", resp.Code)
	}
}
