package middleware

import (
	"net/http"

	"github.com/labstack/echo/v4"

	"github.com/autospa/carwash-booking/internal/model"
)

// RequireRole enforces that the authenticated identity carries one of the
// given roles. It assumes RequireAuth ran earlier in the chain; a missing
// identity is treated the same as an insufficient role and rejected with
// 403 before any handler side effects.
func RequireRole(roles ...model.Role) echo.MiddlewareFunc {
	allowed := make(map[model.Role]bool, len(roles))
	for _, r := range roles {
		allowed[r] = true
	}
	return func(next echo.HandlerFunc) echo.HandlerFunc {
		return func(c echo.Context) error {
			ident, ok := CurrentIdentity(c)
			if !ok || !allowed[ident.Role] {
				return c.JSON(http.StatusForbidden, echo.Map{"error": "forbidden"})
			}
			return next(c)
		}
	}
}
