package handler

import (
	"context"
	"database/sql"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"

	"github.com/labstack/echo/v4"
	_ "github.com/mattn/go-sqlite3"
	"github.com/rs/zerolog"

	"github.com/admincontrol/user-admin/internal/config"
	"github.com/admincontrol/user-admin/internal/middleware"
	"github.com/admincontrol/user-admin/internal/model"
	"github.com/admincontrol/user-admin/internal/repository"
	"github.com/admincontrol/user-admin/internal/service"
	"github.com/admincontrol/user-admin/internal/utils"
)

func newAccountHandler(t *testing.T) *AccountHandler {
	t.Helper()
	db, err := sql.Open("sqlite3", ":memory:?_foreign_keys=on")
	if err != nil {
		t.Fatalf("open: %v", err)
	}
	db.SetMaxOpenConns(1)
	t.Cleanup(func() { _ = db.Close() })

	for _, stmt := range []string{
		`CREATE TABLE roles (
			id INTEGER PRIMARY KEY AUTOINCREMENT, name VARCHAR(50) NOT NULL UNIQUE,
			created_at DATETIME NOT NULL, updated_at DATETIME NOT NULL)`,
		`CREATE TABLE users (
			id INTEGER PRIMARY KEY AUTOINCREMENT, login VARCHAR(50) NOT NULL UNIQUE,
			password_hash CHAR(64) NOT NULL,
			first_name VARCHAR(100) NOT NULL DEFAULT '', last_name VARCHAR(100) NOT NULL DEFAULT '',
			email VARCHAR(255) NOT NULL UNIQUE, phone_number VARCHAR(20), address TEXT,
			gender VARCHAR(10), recovery_keyword VARCHAR(255),
			is_active BOOLEAN NOT NULL DEFAULT 1,
			created_at DATETIME NOT NULL, updated_at DATETIME NOT NULL,
			role_id INTEGER NOT NULL REFERENCES roles(id))`,
	} {
		if _, err := db.Exec(stmt); err != nil {
			t.Fatalf("schema: %v", err)
		}
	}

	ctx := context.Background()
	role, err := repository.NewRoleRepo(db).Create(ctx, "admin")
	if err != nil {
		t.Fatalf("seed role: %v", err)
	}
	_, err = repository.NewUserRepo(db).Create(ctx, model.User{
		Login:        "alice01",
		PasswordHash: utils.PasswordDigest("Secret123"),
		FirstName:    "Al",
		LastName:     "Ice",
		Email:        "a@b.com",
		IsActive:     true,
		RoleID:       role.ID,
	})
	if err != nil {
		t.Fatalf("seed user: %v", err)
	}

	log := zerolog.Nop()
	cfg := config.Config{SessionSecret: "secret", SessionTTLMin: 60}
	return NewAccountHandler(cfg, service.NewAuthService(repository.NewUserRepo(db), log), log)
}

func postLogin(t *testing.T, h *AccountHandler, body string) *httptest.ResponseRecorder {
	t.Helper()
	e := echo.New()
	req := httptest.NewRequest(http.MethodPost, "/v1/account/login", strings.NewReader(body))
	req.Header.Set(echo.HeaderContentType, echo.MIMEApplicationJSON)
	rec := httptest.NewRecorder()
	if err := h.Login(e.NewContext(req, rec)); err != nil {
		t.Fatalf("handler error: %v", err)
	}
	return rec
}

func TestAccountLogin_Success(t *testing.T) {
	h := newAccountHandler(t)
	rec := postLogin(t, h, `{"login":"alice01","password":"Secret123"}`)

	if rec.Code != http.StatusOK {
		t.Fatalf("expected 200, got %d: %s", rec.Code, rec.Body.String())
	}
	var resp map[string]any
	if err := json.Unmarshal(rec.Body.Bytes(), &resp); err != nil {
		t.Fatalf("invalid json: %v", err)
	}
	if resp["login"] != "alice01" || resp["role"] != "admin" {
		t.Fatalf("unexpected payload: %v", resp)
	}

	var sessionSet bool
	for _, c := range rec.Result().Cookies() {
		if c.Name == middleware.SessionCookie && c.Value != "" && c.HttpOnly {
			sessionSet = true
		}
	}
	if !sessionSet {
		t.Fatal("expected HttpOnly session cookie")
	}
}

// Wrong password and unknown login produce the identical response.
func TestAccountLogin_InvalidCredentials(t *testing.T) {
	h := newAccountHandler(t)

	wrongPass := postLogin(t, h, `{"login":"alice01","password":"nope"}`)
	unknown := postLogin(t, h, `{"login":"ghost","password":"Secret123"}`)

	if wrongPass.Code != http.StatusUnauthorized || unknown.Code != http.StatusUnauthorized {
		t.Fatalf("expected 401/401, got %d/%d", wrongPass.Code, unknown.Code)
	}
	if wrongPass.Body.String() != unknown.Body.String() {
		t.Fatalf("failure bodies must not differ: %s vs %s",
			wrongPass.Body.String(), unknown.Body.String())
	}
	for _, c := range wrongPass.Result().Cookies() {
		if c.Name == middleware.SessionCookie {
			t.Fatal("no session cookie on failure")
		}
	}
}

func TestAccountLogout_ClearsCookie(t *testing.T) {
	h := newAccountHandler(t)
	e := echo.New()
	req := httptest.NewRequest(http.MethodPost, "/v1/account/logout", nil)
	rec := httptest.NewRecorder()
	if err := h.Logout(e.NewContext(req, rec)); err != nil {
		t.Fatalf("handler error: %v", err)
	}
	if rec.Code != http.StatusNoContent {
		t.Fatalf("expected 204, got %d", rec.Code)
	}
	var cleared bool
	for _, c := range rec.Result().Cookies() {
		if c.Name == middleware.SessionCookie && c.MaxAge < 0 {
			cleared = true
		}
	}
	if !cleared {
		t.Fatal("expected expired session cookie")
	}
}
