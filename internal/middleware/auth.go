package middleware // middleware provides shared request processing for handlers

import (
	"net/http" // HTTP status codes for responses
	"strings"  // string utilities for prefix checking and trimming

	"github.com/labstack/echo/v4" // Echo framework used for defining middleware and handlers

	"github.com/iliyamo/restaurant-reservation/internal/auth"
)

// BearerAuth returns an Echo middleware that validates the bearer token
// on the Authorization header and injects the authenticated user id
// into the request context under "user_id" (as uint64). Verification
// is delegated entirely to the token issuer, so the middleware does
// not know or care about the signing scheme. A missing, malformed,
// tampered or expired token yields the same uniform 401.
func BearerAuth(issuer auth.TokenIssuer) echo.MiddlewareFunc {
	return func(next echo.HandlerFunc) echo.HandlerFunc {
		return func(c echo.Context) error {
			header := c.Request().Header.Get("Authorization")
			if !strings.HasPrefix(header, "Bearer ") {
				return c.JSON(http.StatusUnauthorized, echo.Map{"error": "missing bearer token"})
			}
			raw := strings.TrimPrefix(header, "Bearer ")

			userID, err := issuer.Authenticate(raw)
			if err != nil {
				return c.JSON(http.StatusUnauthorized, echo.Map{"error": "invalid token"})
			}

			c.Set("user_id", userID)
			return next(c)
		}
	}
}
