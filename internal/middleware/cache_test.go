package middleware

import (
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"

	"github.com/labstack/echo/v4"

	"github.com/admincontrol/user-admin/internal/config"
)

// A non-positive limit means unlimited: the full body is buffered and
// the response stays storable.
func TestCaptureWriter_UnlimitedBody(t *testing.T) {
	cw := &captureWriter{ResponseWriter: httptest.NewRecorder(), status: http.StatusOK}
	body := strings.Repeat("x", 4096)
	if _, err := cw.Write([]byte(body)); err != nil {
		t.Fatalf("write: %v", err)
	}
	if cw.overLimit() {
		t.Fatal("unlimited capture must stay storable")
	}
	if cw.buf.String() != body {
		t.Fatalf("expected full body buffered, got %d bytes", cw.buf.Len())
	}
}

func TestCaptureWriter_LimitExceeded(t *testing.T) {
	cw := &captureWriter{ResponseWriter: httptest.NewRecorder(), status: http.StatusOK, limit: 5}
	if _, err := cw.Write([]byte("0123456789")); err != nil {
		t.Fatalf("write: %v", err)
	}
	if !cw.overLimit() {
		t.Fatal("oversized response must not be storable")
	}
	// The client still received the full body.
	rec := cw.ResponseWriter.(*httptest.ResponseRecorder)
	if rec.Body.String() != "0123456789" {
		t.Fatalf("client body truncated: %q", rec.Body.String())
	}
}

// Disabled cache and nil client must both pass requests straight through.
func TestResponseCache_NoopWhenDisabled(t *testing.T) {
	for _, cfg := range []config.CacheConfig{
		{Enabled: false},
		{Enabled: true}, // enabled but no Redis client
	} {
		e := echo.New()
		req := httptest.NewRequest(http.MethodGet, "/v1/users", nil)
		rec := httptest.NewRecorder()
		c := e.NewContext(req, rec)
		h := ResponseCache(cfg, nil)(func(c echo.Context) error {
			return c.String(http.StatusOK, "payload")
		})
		if err := h(c); err != nil {
			t.Fatalf("handler error: %v", err)
		}
		if rec.Code != http.StatusOK || rec.Body.String() != "payload" {
			t.Fatalf("expected passthrough, got %d %q", rec.Code, rec.Body.String())
		}
	}
}
