package middleware

import (
	"context"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/labstack/echo/v4"

	"github.com/serraej/member-evaluations/internal/core/domain"
	"github.com/serraej/member-evaluations/internal/core/ports"
)

type stubVerifier struct {
	verifyFn func(ctx context.Context, token string) (*ports.Claims, error)
}

func (s *stubVerifier) Verify(ctx context.Context, token string) (*ports.Claims, error) {
	return s.verifyFn(ctx, token)
}

func rejectAll(t *testing.T) *stubVerifier {
	return &stubVerifier{verifyFn: func(ctx context.Context, token string) (*ports.Claims, error) {
		return nil, domain.ErrInvalidCredentials
	}}
}

func TestAuthMiddleware_ValidToken(t *testing.T) {
	e := echo.New()
	verifier := &stubVerifier{verifyFn: func(ctx context.Context, token string) (*ports.Claims, error) {
		if token != "good-token" {
			t.Fatalf("unexpected token %q", token)
		}
		return &ports.Claims{UserID: "dir_carlos", SessionID: "s1", Role: domain.RoleDirector, Name: "Carlos Diretor"}, nil
	}}

	req := httptest.NewRequest(http.MethodGet, "/", nil)
	req.Header.Set("Authorization", "Bearer good-token")
	rec := httptest.NewRecorder()
	c := e.NewContext(req, rec)

	called := false
	mw := Auth(verifier)
	handler := mw(func(c echo.Context) error {
		called = true
		if c.Get(KeyUserID) != "dir_carlos" {
			t.Fatalf("user_id not set")
		}
		if c.Get(KeySessionID) != "s1" {
			t.Fatalf("session_id not set")
		}
		if c.Get(KeyRole) != domain.RoleDirector {
			t.Fatalf("role not set")
		}
		if c.Get(KeyName) != "Carlos Diretor" {
			t.Fatalf("name not set")
		}
		return c.NoContent(http.StatusOK)
	})

	if err := handler(c); err != nil {
		t.Fatalf("handler error: %v", err)
	}
	if !called {
		t.Fatalf("next not called")
	}
	if rec.Code != http.StatusOK {
		t.Fatalf("expected 200, got %d", rec.Code)
	}
}

func TestAuthMiddleware_MissingHeader(t *testing.T) {
	e := echo.New()
	req := httptest.NewRequest(http.MethodGet, "/", nil)
	rec := httptest.NewRecorder()
	c := e.NewContext(req, rec)

	mw := Auth(rejectAll(t))
	handler := mw(func(c echo.Context) error {
		t.Fatalf("should not reach next")
		return nil
	})

	if err := handler(c); err != nil {
		e.HTTPErrorHandler(err, c)
	}

	if rec.Code != http.StatusUnauthorized {
		t.Fatalf("expected 401, got %d", rec.Code)
	}
}

func TestAuthMiddleware_InvalidHeaderFormat(t *testing.T) {
	e := echo.New()
	req := httptest.NewRequest(http.MethodGet, "/", nil)
	req.Header.Set("Authorization", "Token abc")
	rec := httptest.NewRecorder()
	c := e.NewContext(req, rec)

	mw := Auth(rejectAll(t))
	handler := mw(func(c echo.Context) error {
		t.Fatalf("should not reach next")
		return nil
	})

	if err := handler(c); err != nil {
		e.HTTPErrorHandler(err, c)
	}

	if rec.Code != http.StatusUnauthorized {
		t.Fatalf("expected 401, got %d", rec.Code)
	}
}

func TestAuthMiddleware_LoggedOutSession(t *testing.T) {
	e := echo.New()
	verifier := &stubVerifier{verifyFn: func(ctx context.Context, token string) (*ports.Claims, error) {
		return nil, domain.ErrSessionNotFound
	}}
	req := httptest.NewRequest(http.MethodGet, "/", nil)
	req.Header.Set("Authorization", "Bearer stale")
	rec := httptest.NewRecorder()
	c := e.NewContext(req, rec)

	mw := Auth(verifier)
	handler := mw(func(c echo.Context) error {
		t.Fatalf("should not reach next")
		return nil
	})

	if err := handler(c); err != nil {
		e.HTTPErrorHandler(err, c)
	}

	if rec.Code != http.StatusUnauthorized {
		t.Fatalf("expected 401, got %d", rec.Code)
	}
}
