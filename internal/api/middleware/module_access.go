package middleware

import (
	"context"
	"net/http"

	"github.com/labstack/echo/v4"

	"github.com/acmecorp/user-management-api/internal/core/ports"
)

// AccessChecker answers capability queries for the authenticated user.
type AccessChecker interface {
	CheckModuleAccess(ctx context.Context, userID, module string) (*ports.ModuleAccess, error)
}

// RequireModule lets a request through only when the caller's role grants
// the given access module. It expects Auth to have run first.
func RequireModule(module string, checker AccessChecker) echo.MiddlewareFunc {
	return func(next echo.HandlerFunc) echo.HandlerFunc {
		return func(c echo.Context) error {
			userID, _ := c.Get("user_id").(string)
			if userID == "" {
				return echo.NewHTTPError(http.StatusUnauthorized, "missing authentication claims")
			}

			access, err := checker.CheckModuleAccess(c.Request().Context(), userID, module)
			if err != nil {
				return echo.NewHTTPError(http.StatusUnauthorized, "unknown user")
			}
			if !access.HasAccess {
				return c.JSON(http.StatusForbidden, map[string]string{"error": "forbidden"})
			}
			return next(c)
		}
	}
}
