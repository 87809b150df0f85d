package middleware

import (
	"net/http"

	"github.com/labstack/echo/v4"

	"github.com/vitikova/user-service/internal/models"
)

// RequireRole aborts with 403 unless the caller's capability set (populated
// by the access filter) contains one of the given roles.
func RequireRole(roles ...models.RoleName) echo.MiddlewareFunc {
	allowed := make(map[models.RoleName]bool, len(roles))
	for _, r := range roles {
		allowed[r] = true
	}
	return func(next echo.HandlerFunc) echo.HandlerFunc {
		return func(c echo.Context) error {
			granted, ok := c.Get(ctxKeyRoles).([]models.RoleName)
			if !ok {
				return echo.NewHTTPError(http.StatusForbidden, "forbidden")
			}
			for _, r := range granted {
				if allowed[r] {
					return next(c)
				}
			}
			return echo.NewHTTPError(http.StatusForbidden, "forbidden")
		}
	}
}
