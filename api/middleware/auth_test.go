package middleware

import (
	"context"
	"io"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/google/uuid"

	pkgAuth "github.com/fazendagestaosvp/fazenda-vista-backend/pkg/auth"
	"github.com/fazendagestaosvp/fazenda-vista-backend/pkg/config"
	"github.com/fazendagestaosvp/fazenda-vista-backend/pkg/enums"
	"github.com/fazendagestaosvp/fazenda-vista-backend/pkg/logger"
)

var testJWT = config.JWTConfig{
	Secret:            "test-secret",
	Issuer:            "fazenda-test",
	ExpirationMinutes: 15,
}

type sessionSet map[string]bool

func (s sessionSet) HasSession(_ context.Context, accessID string) (bool, error) {
	return s[accessID], nil
}

func testLogger() *logger.Logger {
	return logger.New(logger.Options{ServiceName: "test", Output: io.Discard})
}

func mint(t *testing.T, userID uuid.UUID, role enums.UIRole, jti string) string {
	t.Helper()
	token, err := pkgAuth.MintAccessToken(testJWT, time.Now().UTC(), pkgAuth.AccessTokenPayload{
		UserID: userID,
		Role:   role,
		JTI:    jti,
	})
	if err != nil {
		t.Fatal(err)
	}
	return token
}

func TestAuthSeedsContext(t *testing.T) {
	userID := uuid.New()
	jti := uuid.NewString()
	sessions := sessionSet{jti: true}

	var gotUser, gotRole string
	handler := Auth(testJWT, sessions, testLogger())(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		gotUser = UserIDFromContext(r.Context())
		gotRole = RoleFromContext(r.Context())
	}))

	req := httptest.NewRequest(http.MethodGet, "/", nil)
	req.Header.Set("Authorization", "Bearer "+mint(t, userID, enums.UIRoleEditor, jti))
	resp := httptest.NewRecorder()
	handler.ServeHTTP(resp, req)

	if resp.Code != http.StatusOK {
		t.Fatalf("unexpected status %d: %s", resp.Code, resp.Body.String())
	}
	if gotUser != userID.String() {
		t.Fatalf("context user %q, want %q", gotUser, userID)
	}
	if gotRole != string(enums.UIRoleEditor) {
		t.Fatalf("context role %q", gotRole)
	}
}

func TestAuthRejectsRevokedSession(t *testing.T) {
	jti := uuid.NewString()
	sessions := sessionSet{} // jti absent: logged out or rotated away

	reached := false
	handler := Auth(testJWT, sessions, testLogger())(http.HandlerFunc(func(http.ResponseWriter, *http.Request) {
		reached = true
	}))

	req := httptest.NewRequest(http.MethodGet, "/", nil)
	req.Header.Set("Authorization", "Bearer "+mint(t, uuid.New(), enums.UIRoleAdmin, jti))
	resp := httptest.NewRecorder()
	handler.ServeHTTP(resp, req)

	if resp.Code != http.StatusUnauthorized {
		t.Fatalf("unexpected status %d", resp.Code)
	}
	if reached {
		t.Fatal("handler reached with revoked session")
	}
}

func TestAuthRejectsTamperedToken(t *testing.T) {
	jti := uuid.NewString()
	otherSecret := testJWT
	otherSecret.Secret = "other-secret"

	token, err := pkgAuth.MintAccessToken(otherSecret, time.Now().UTC(), pkgAuth.AccessTokenPayload{
		UserID: uuid.New(),
		Role:   enums.UIRoleAdmin,
		JTI:    jti,
	})
	if err != nil {
		t.Fatal(err)
	}

	handler := Auth(testJWT, sessionSet{jti: true}, testLogger())(http.HandlerFunc(func(http.ResponseWriter, *http.Request) {
		t.Fatal("handler reached with bad signature")
	}))

	req := httptest.NewRequest(http.MethodGet, "/", nil)
	req.Header.Set("Authorization", "Bearer "+token)
	resp := httptest.NewRecorder()
	handler.ServeHTTP(resp, req)

	if resp.Code != http.StatusUnauthorized {
		t.Fatalf("unexpected status %d", resp.Code)
	}
}

func TestAuthRejectsExpiredToken(t *testing.T) {
	jti := uuid.NewString()
	issued := time.Now().UTC().Add(-time.Duration(testJWT.ExpirationMinutes+5) * time.Minute)

	token, err := pkgAuth.MintAccessToken(testJWT, issued, pkgAuth.AccessTokenPayload{
		UserID: uuid.New(),
		Role:   enums.UIRoleViewer,
		JTI:    jti,
	})
	if err != nil {
		t.Fatal(err)
	}

	handler := Auth(testJWT, sessionSet{jti: true}, testLogger())(http.HandlerFunc(func(http.ResponseWriter, *http.Request) {
		t.Fatal("handler reached with expired token")
	}))

	req := httptest.NewRequest(http.MethodGet, "/", nil)
	req.Header.Set("Authorization", "Bearer "+token)
	resp := httptest.NewRecorder()
	handler.ServeHTTP(resp, req)

	if resp.Code != http.StatusUnauthorized {
		t.Fatalf("unexpected status %d", resp.Code)
	}
}

func TestRequireEditorBlocksViewer(t *testing.T) {
	handler := RequireEditor(testLogger())(http.HandlerFunc(func(http.ResponseWriter, *http.Request) {
		t.Fatal("handler reached for viewer")
	}))

	ctx := WithUserID(context.Background(), uuid.NewString())
	ctx = WithRole(ctx, string(enums.UIRoleViewer))
	req := httptest.NewRequest(http.MethodPost, "/", nil).WithContext(ctx)
	resp := httptest.NewRecorder()
	handler.ServeHTTP(resp, req)

	if resp.Code != http.StatusForbidden {
		t.Fatalf("unexpected status %d", resp.Code)
	}
}

func TestRequireEditorAllowsEditorAndAdmin(t *testing.T) {
	for _, role := range []enums.UIRole{enums.UIRoleEditor, enums.UIRoleAdmin} {
		reached := false
		handler := RequireEditor(testLogger())(http.HandlerFunc(func(http.ResponseWriter, *http.Request) {
			reached = true
		}))

		ctx := WithUserID(context.Background(), uuid.NewString())
		ctx = WithRole(ctx, string(role))
		req := httptest.NewRequest(http.MethodPost, "/", nil).WithContext(ctx)
		resp := httptest.NewRecorder()
		handler.ServeHTTP(resp, req)

		if resp.Code != http.StatusOK || !reached {
			t.Fatalf("role %s blocked: status %d", role, resp.Code)
		}
	}
}
