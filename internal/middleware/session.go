// Package middleware provides shared request processing: session cookie
// authentication, role gating, response caching and metrics.
package middleware

import (
	"net/http"

	"github.com/golang-jwt/jwt/v5"
	"github.com/labstack/echo/v4"
)

// SessionCookie is the name of the signed session cookie set on login.
const SessionCookie = "admin_session"

// LoginPath is where unauthenticated browser requests are redirected.
const LoginPath = "/v1/account/login"

// SessionAuth validates the signed session cookie and injects the
// subject, login and role claims into the request context under
// "user_id", "login" and "role". Requests without a valid session are
// redirected to the login route when they are GETs (the browser form
// flow) and rejected with 401 otherwise.
func SessionAuth(secret string) echo.MiddlewareFunc {
	return func(next echo.HandlerFunc) echo.HandlerFunc {
		return func(c echo.Context) error {
			cookie, err := c.Cookie(SessionCookie)
			if err != nil || cookie.Value == "" {
				return rejectUnauthenticated(c)
			}

			tok, err := jwt.Parse(cookie.Value, func(t *jwt.Token) (interface{}, error) {
				if _, ok := t.Method.(*jwt.SigningMethodHMAC); !ok {
					return nil, echo.ErrUnauthorized
				}
				return []byte(secret), nil
			})
			if err != nil || !tok.Valid {
				return rejectUnauthenticated(c)
			}
			claims, ok := tok.Claims.(jwt.MapClaims)
			if !ok {
				return rejectUnauthenticated(c)
			}

			if sub, ok := claims["sub"].(float64); ok {
				c.Set("user_id", int64(sub))
			}
			if login, ok := claims["login"].(string); ok {
				c.Set("login", login)
			}
			if role, ok := claims["role"].(string); ok {
				c.Set("role", role)
			}
			return next(c)
		}
	}
}

func rejectUnauthenticated(c echo.Context) error {
	if c.Request().Method == http.MethodGet {
		return c.Redirect(http.StatusFound, LoginPath)
	}
	return c.JSON(http.StatusUnauthorized, echo.Map{"error": "authentication required"})
}
