package middleware

import (
	"net/http"

	"github.com/labstack/echo/v4"
)

// DeniedPath is where authenticated browser requests without a permitted
// role are redirected.
const DeniedPath = "/v1/account/denied"

// RequireRole enforces that the authenticated user's role is one of the
// allowed names. It assumes SessionAuth has already stored the role in
// the context. GETs are redirected to the access-denied route; other
// methods get a 403.
func RequireRole(roles ...string) echo.MiddlewareFunc {
	allowed := make(map[string]bool, len(roles))
	for _, r := range roles {
		allowed[r] = true
	}
	return func(next echo.HandlerFunc) echo.HandlerFunc {
		return func(c echo.Context) error {
			role, ok := c.Get("role").(string)
			if !ok || !allowed[role] {
				if c.Request().Method == http.MethodGet {
					return c.Redirect(http.StatusFound, DeniedPath)
				}
				return c.JSON(http.StatusForbidden, echo.Map{"error": "forbidden"})
			}
			return next(c)
		}
	}
}
