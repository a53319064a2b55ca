package middleware

// identity.go holds the context plumbing shared by the auth middlewares
// and the handlers: a single key under which the verified identity lives,
// plus typed accessors so handlers never touch raw context values.

import (
	"github.com/labstack/echo/v4"

	"github.com/autospa/carwash-booking/internal/auth"
)

const identityKey = "identity"

// SetIdentity stores a verified identity in the request context.
func SetIdentity(c echo.Context, ident auth.Identity) {
	c.Set(identityKey, ident)
}

// CurrentIdentity returns the identity attached by RequireAuth or
// OptionalAuth. The boolean is false on public routes where no token was
// presented; handlers on optional-auth routes branch on it.
func CurrentIdentity(c echo.Context) (auth.Identity, bool) {
	ident, ok := c.Get(identityKey).(auth.Identity)
	return ident, ok
}
