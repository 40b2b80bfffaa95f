package controllers

import (
	"context"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"

	pkgauth "github.com/recipebookhq/recipebook-backend/pkg/auth"
	"github.com/recipebookhq/recipebook-backend/pkg/config"
)

type stubSessionRotator struct {
	revoked    []string
	rotatedOld string
	rotateErr  error
}

func (s *stubSessionRotator) NewAccessID() string {
	return "new-access-id"
}

func (s *stubSessionRotator) Rotate(ctx context.Context, oldAccessID, refreshToken, newAccessID string) (string, error) {
	if s.rotateErr != nil {
		return "", s.rotateErr
	}
	s.rotatedOld = oldAccessID
	return "new-refresh-token", nil
}

func (s *stubSessionRotator) Revoke(ctx context.Context, accessID string) error {
	s.revoked = append(s.revoked, accessID)
	return nil
}

func sessionTestIssuer(t *testing.T) *pkgauth.TokenIssuer {
	t.Helper()
	issuer, err := pkgauth.NewTokenIssuer(config.JWTConfig{
		Secret:            "0123456789abcdef0123456789abcdef",
		Issuer:            "recipebook-test",
		ExpirationMinutes: 60,
	})
	if err != nil {
		t.Fatalf("build issuer: %v", err)
	}
	return issuer
}

func TestUserLogoutRevokesSession(t *testing.T) {
	logg := testLogger()
	issuer := sessionTestIssuer(t)
	stub := &stubSessionRotator{}

	token, err := issuer.Mint(42, pkgauth.RoleUser, "access-123")
	if err != nil {
		t.Fatalf("mint token: %v", err)
	}

	req := httptest.NewRequest(http.MethodPost, "/api/v1/user/logout", nil)
	req.Header.Set("Authorization", "Bearer "+token)
	rec := httptest.NewRecorder()
	UserLogout(stub, issuer, logg).ServeHTTP(rec, req)

	if rec.Code != http.StatusOK {
		t.Fatalf("expected 200, got %d", rec.Code)
	}
	if len(stub.revoked) != 1 || stub.revoked[0] != "access-123" {
		t.Fatalf("expected session access-123 revoked, got %v", stub.revoked)
	}
}

func TestUserLogoutRequiresToken(t *testing.T) {
	logg := testLogger()
	req := httptest.NewRequest(http.MethodPost, "/api/v1/user/logout", nil)
	rec := httptest.NewRecorder()
	UserLogout(&stubSessionRotator{}, sessionTestIssuer(t), logg).ServeHTTP(rec, req)
	if rec.Code != http.StatusUnauthorized {
		t.Fatalf("expected 401 without token, got %d", rec.Code)
	}
}

func TestUserRefreshRotatesSession(t *testing.T) {
	logg := testLogger()
	issuer := sessionTestIssuer(t)
	stub := &stubSessionRotator{}

	token, err := issuer.Mint(42, pkgauth.RoleStaff, "access-old")
	if err != nil {
		t.Fatalf("mint token: %v", err)
	}

	req := httptest.NewRequest(http.MethodPost, "/api/v1/user/refresh", strings.NewReader(`{"refresh_token":"the-refresh-token"}`))
	req.Header.Set("Content-Type", "application/json")
	req.Header.Set("Authorization", "Bearer "+token)
	rec := httptest.NewRecorder()
	UserRefresh(stub, issuer, logg).ServeHTTP(rec, req)

	if rec.Code != http.StatusOK {
		t.Fatalf("expected 200, got %d", rec.Code)
	}
	if stub.rotatedOld != "access-old" {
		t.Fatalf("expected old session rotated, got %q", stub.rotatedOld)
	}
}

func TestUserRefreshRequiresRefreshToken(t *testing.T) {
	logg := testLogger()
	issuer := sessionTestIssuer(t)

	token, err := issuer.Mint(42, pkgauth.RoleUser, "access-old")
	if err != nil {
		t.Fatalf("mint token: %v", err)
	}

	req := httptest.NewRequest(http.MethodPost, "/api/v1/user/refresh", strings.NewReader(`{}`))
	req.Header.Set("Content-Type", "application/json")
	req.Header.Set("Authorization", "Bearer "+token)
	rec := httptest.NewRecorder()
	UserRefresh(&stubSessionRotator{}, issuer, logg).ServeHTTP(rec, req)

	if rec.Code != http.StatusBadRequest {
		t.Fatalf("expected 400 without refresh token, got %d", rec.Code)
	}
}
