package middleware

// auth.go guards the admin routes with a static shared secret.  There
// are no user accounts in this service: the storefront reads public
// routes, and the admin surface is driven by back-office automation
// holding the one secret.

import (
	"crypto/subtle"
	"net/http"

	"github.com/labstack/echo/v4"
)

// AdminHeader is the request header carrying the shared secret.
const AdminHeader = "X-Admin-Secret"

// RequireSecret rejects requests whose secret header does not match.
// The comparison is constant-time.  Authentication fails fast, before
// any request body is read or any backend call is made.
func RequireSecret(secret string) echo.MiddlewareFunc {
	return func(next echo.HandlerFunc) echo.HandlerFunc {
		return func(c echo.Context) error {
			got := c.Request().Header.Get(AdminHeader)
			if got == "" || subtle.ConstantTimeCompare([]byte(got), []byte(secret)) != 1 {
				return c.JSON(http.StatusUnauthorized, map[string]string{"error": "unauthorized"})
			}
			return next(c)
		}
	}
}
