// Package handler implements the HTTP surface: account/session
// endpoints and the user and role administration screens' JSON API.
package handler

import (
	"context"
	"errors"
	"net/http"
	"time"

	"github.com/labstack/echo/v4"
	"github.com/rs/zerolog"

	"github.com/admincontrol/user-admin/internal/config"
	"github.com/admincontrol/user-admin/internal/middleware"
	"github.com/admincontrol/user-admin/internal/service"
	"github.com/admincontrol/user-admin/internal/utils"
)

const dbTimeout = 5 * time.Second

// AccountHandler bundles dependencies for the session endpoints.
type AccountHandler struct {
	Cfg  config.Config
	Auth *service.AuthService
	Log  zerolog.Logger
}

func NewAccountHandler(cfg config.Config, auth *service.AuthService, log zerolog.Logger) *AccountHandler {
	return &AccountHandler{Cfg: cfg, Auth: auth, Log: log}
}

type loginReq struct {
	Login    string `json:"login" form:"login"`
	Password string `json:"password" form:"password"`
}

type sessionUser struct {
	ID        int64  `json:"id"`
	Login     string `json:"login"`
	FirstName string `json:"first_name"`
	LastName  string `json:"last_name"`
	Role      string `json:"role"`
}

// Login verifies credentials and issues the signed session cookie.
// The failure response never distinguishes a wrong login from a wrong
// password.
func (h *AccountHandler) Login(c echo.Context) error {
	var req loginReq
	if err := c.Bind(&req); err != nil {
		return c.JSON(http.StatusBadRequest, echo.Map{"error": "invalid body"})
	}

	ctx, cancel := context.WithTimeout(c.Request().Context(), dbTimeout)
	defer cancel()

	u, err := h.Auth.Authenticate(ctx, req.Login, req.Password)
	if err != nil {
		if errors.Is(err, service.ErrInvalidCredentials) {
			return c.JSON(http.StatusUnauthorized, echo.Map{"error": "invalid login or password"})
		}
		return c.JSON(http.StatusInternalServerError, echo.Map{"error": "login failed"})
	}

	tok, err := utils.NewSessionToken(h.Cfg.SessionSecret, u.ID, u.Login, u.RoleName, h.Cfg.SessionTTLMin)
	if err != nil {
		return c.JSON(http.StatusInternalServerError, echo.Map{"error": "issue session failed"})
	}
	c.SetCookie(&http.Cookie{
		Name:     middleware.SessionCookie,
		Value:    tok.Token,
		Path:     "/",
		Expires:  tok.Exp,
		HttpOnly: true,
		SameSite: http.SameSiteLaxMode,
	})

	return c.JSON(http.StatusOK, sessionUser{
		ID:        u.ID,
		Login:     u.Login,
		FirstName: u.FirstName,
		LastName:  u.LastName,
		Role:      u.RoleName,
	})
}

// LoginForm is the landing route for redirected unauthenticated
// requests.
func (h *AccountHandler) LoginForm(c echo.Context) error {
	return c.JSON(http.StatusUnauthorized, echo.Map{"error": "authentication required"})
}

// Logout clears the session cookie. Sessions are stateless, so there is
// nothing to revoke server-side.
func (h *AccountHandler) Logout(c echo.Context) error {
	c.SetCookie(&http.Cookie{
		Name:     middleware.SessionCookie,
		Value:    "",
		Path:     "/",
		MaxAge:   -1,
		HttpOnly: true,
	})
	return c.NoContent(http.StatusNoContent)
}

// Denied is the landing route for authenticated requests whose role is
// not permitted.
func (h *AccountHandler) Denied(c echo.Context) error {
	h.Log.Warn().Str("login", loginFrom(c)).Msg("access denied")
	return c.JSON(http.StatusForbidden, echo.Map{"error": "access denied"})
}

// Me returns the authenticated session's claims.
func (h *AccountHandler) Me(c echo.Context) error {
	return c.JSON(http.StatusOK, echo.Map{
		"user_id": c.Get("user_id"),
		"login":   c.Get("login"),
		"role":    c.Get("role"),
	})
}

func loginFrom(c echo.Context) string {
	if s, ok := c.Get("login").(string); ok {
		return s
	}
	return "anonymous"
}
