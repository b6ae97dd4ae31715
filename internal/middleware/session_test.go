package middleware

import (
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/labstack/echo/v4"

	"github.com/admincontrol/user-admin/internal/utils"
)

const testSecret = "secret"

func run(t *testing.T, mw echo.MiddlewareFunc, req *http.Request) (*httptest.ResponseRecorder, bool) {
	t.Helper()
	e := echo.New()
	rec := httptest.NewRecorder()
	c := e.NewContext(req, rec)
	called := false
	h := mw(func(c echo.Context) error {
		called = true
		return c.NoContent(http.StatusOK)
	})
	if err := h(c); err != nil {
		t.Fatalf("handler error: %v", err)
	}
	return rec, called
}

func TestSessionAuth_ValidCookie(t *testing.T) {
	tok, err := utils.NewSessionToken(testSecret, 7, "alice01", "admin", 60)
	if err != nil {
		t.Fatalf("sign: %v", err)
	}
	req := httptest.NewRequest(http.MethodGet, "/v1/users", nil)
	req.AddCookie(&http.Cookie{Name: SessionCookie, Value: tok.Token})

	e := echo.New()
	rec := httptest.NewRecorder()
	c := e.NewContext(req, rec)
	h := SessionAuth(testSecret)(func(c echo.Context) error {
		if c.Get("user_id") != int64(7) {
			t.Fatalf("user_id not set: %v", c.Get("user_id"))
		}
		if c.Get("login") != "alice01" || c.Get("role") != "admin" {
			t.Fatal("claims not injected")
		}
		return c.NoContent(http.StatusOK)
	})
	if err := h(c); err != nil {
		t.Fatalf("handler error: %v", err)
	}
	if rec.Code != http.StatusOK {
		t.Fatalf("expected 200, got %d", rec.Code)
	}
}

func TestSessionAuth_MissingCookieRedirectsGet(t *testing.T) {
	req := httptest.NewRequest(http.MethodGet, "/v1/users", nil)
	rec, called := run(t, SessionAuth(testSecret), req)
	if called {
		t.Fatal("next must not run")
	}
	if rec.Code != http.StatusFound || rec.Header().Get("Location") != LoginPath {
		t.Fatalf("expected redirect to login, got %d %q", rec.Code, rec.Header().Get("Location"))
	}
}

func TestSessionAuth_MissingCookie401OnPost(t *testing.T) {
	req := httptest.NewRequest(http.MethodPost, "/v1/users", nil)
	rec, called := run(t, SessionAuth(testSecret), req)
	if called {
		t.Fatal("next must not run")
	}
	if rec.Code != http.StatusUnauthorized {
		t.Fatalf("expected 401, got %d", rec.Code)
	}
}

func TestSessionAuth_WrongSecretRejected(t *testing.T) {
	tok, _ := utils.NewSessionToken("other-secret", 7, "alice01", "admin", 60)
	req := httptest.NewRequest(http.MethodPost, "/v1/users", nil)
	req.AddCookie(&http.Cookie{Name: SessionCookie, Value: tok.Token})
	rec, called := run(t, SessionAuth(testSecret), req)
	if called || rec.Code != http.StatusUnauthorized {
		t.Fatalf("forged cookie must be rejected, got %d", rec.Code)
	}
}

func TestRequireRole(t *testing.T) {
	mw := RequireRole("admin", "manager")

	for _, role := range []string{"admin", "manager"} {
		e := echo.New()
		req := httptest.NewRequest(http.MethodGet, "/v1/users", nil)
		rec := httptest.NewRecorder()
		c := e.NewContext(req, rec)
		c.Set("role", role)
		called := false
		h := mw(func(c echo.Context) error { called = true; return c.NoContent(http.StatusOK) })
		if err := h(c); err != nil || !called {
			t.Fatalf("role %s must pass: %v", role, err)
		}
	}

	// Unknown role: redirect on GET, 403 otherwise.
	e := echo.New()
	req := httptest.NewRequest(http.MethodGet, "/v1/users", nil)
	rec := httptest.NewRecorder()
	c := e.NewContext(req, rec)
	c.Set("role", "guest")
	h := mw(func(c echo.Context) error { return c.NoContent(http.StatusOK) })
	if err := h(c); err != nil {
		t.Fatalf("handler error: %v", err)
	}
	if rec.Code != http.StatusFound || rec.Header().Get("Location") != DeniedPath {
		t.Fatalf("expected redirect to denied, got %d", rec.Code)
	}

	req = httptest.NewRequest(http.MethodDelete, "/v1/users/1", nil)
	rec = httptest.NewRecorder()
	c = e.NewContext(req, rec)
	// Role never set at all.
	if err := h(c); err != nil {
		t.Fatalf("handler error: %v", err)
	}
	if rec.Code != http.StatusForbidden {
		t.Fatalf("expected 403, got %d", rec.Code)
	}
}
