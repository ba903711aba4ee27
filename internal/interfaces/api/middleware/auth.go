package middleware

import (
	"fmt"
	"net/http"
	"strings"

	"fitreminder/internal/pkg/auth"
	"fitreminder/internal/pkg/logger"

	"github.com/labstack/echo/v4"
)

const (
	userIDKey = "userID"
	bearer    = "Bearer "
)

// Verifier validates a bearer token and returns the caller.
type Verifier interface {
	Verify(token string) (*auth.Identity, error)
}

// RequireAuth rejects requests without a valid bearer token and stores the
// caller's user id on the context for the handlers.
func RequireAuth(verifier Verifier, log logger.Logger) echo.MiddlewareFunc {
	return func(next echo.HandlerFunc) echo.HandlerFunc {
		return func(c echo.Context) error {
			header := c.Request().Header.Get(echo.HeaderAuthorization)
			if header == "" {
				return c.JSON(http.StatusUnauthorized, map[string]string{"error": "Access Denied"})
			}

			token := strings.TrimSpace(strings.TrimPrefix(header, bearer))
			if !strings.HasPrefix(header, bearer) || token == "" {
				return c.JSON(http.StatusUnauthorized, map[string]string{"error": "Access Denied"})
			}

			identity, err := verifier.Verify(token)
			if err != nil {
				log.Debug(fmt.Sprintf("Rejected bearer token: %v", err))
				return c.JSON(http.StatusUnauthorized, map[string]string{"error": "Invalid Token"})
			}

			c.Set(userIDKey, identity.UserID)
			return next(c)
		}
	}
}

// UserID returns the authenticated caller set by RequireAuth.
func UserID(c echo.Context) string {
	id, _ := c.Get(userIDKey).(string)
	return id
}
