package middleware

import (
	"net/http"

	"github.com/labstack/echo/v4"
)

// RequireRole enforces that the authenticated request carries the expected role.
// Anonymous requests get 401, other roles 403.
func RequireRole(role string) echo.MiddlewareFunc {
	return func(next echo.HandlerFunc) echo.HandlerFunc {
		return func(c echo.Context) error {
			identity, ok := IdentityFromContext(c)
			if !ok {
				return reject(c, http.StatusUnauthorized, "authentication required")
			}
			if identity.Role == "" {
				return reject(c, http.StatusForbidden, "missing role")
			}
			if identity.Role != role {
				return reject(c, http.StatusForbidden, "insufficient permissions")
			}
			return next(c)
		}
	}
}
