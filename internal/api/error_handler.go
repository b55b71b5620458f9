package api

import (
	"errors"
	"fmt"
	"net/http"

	"github.com/labstack/echo/v4"
	"github.com/rs/zerolog"

	"github.com/acmecorp/user-management-api/internal/core/domain"
	"github.com/acmecorp/user-management-api/internal/core/service"
)

// errorResponse is the canonical error envelope for all API errors.
type errorResponse struct {
	StatusCode int    `json:"statusCode"`
	Msg        string `json:"msg"`
	Errors     any    `json:"errors,omitempty"`
}

// NewHTTPErrorHandler returns an echo.HTTPErrorHandler that:
//   - Maps known domain errors to their appropriate HTTP status codes.
//   - Logs unexpected errors internally without leaking details to the client.
//   - Renders a consistent JSON envelope: {"statusCode": ..., "msg": ...}.
func NewHTTPErrorHandler(log zerolog.Logger) echo.HTTPErrorHandler {
	return func(err error, c echo.Context) {
		if c.Response().Committed {
			return
		}

		code, msg, details := resolveError(err, log, c)
		_ = c.JSON(code, errorResponse{StatusCode: code, Msg: msg, Errors: details})
	}
}

func resolveError(err error, log zerolog.Logger, c echo.Context) (int, string, any) {
	// Echo's own errors (bind failures, 404 from router, etc.)
	var he *echo.HTTPError
	if errors.As(err, &he) {
		return he.Code, fmt.Sprintf("%v", he.Message), nil
	}

	// Bulk pre-validation reports every unknown id at once.
	var bve *domain.BulkValidationError
	if errors.As(err, &bve) {
		return http.StatusBadRequest, "Some users not found.",
			map[string]any{"incorrectUserIds": bve.IncorrectUserIDs}
	}

	// Known domain errors → deterministic HTTP codes.
	switch {
	case errors.Is(err, domain.ErrRoleNotFound):
		return http.StatusNotFound, "Role is not found.", nil
	case errors.Is(err, domain.ErrUserNotFound):
		return http.StatusNotFound, "User is not found.", nil
	case errors.Is(err, domain.ErrDuplicateName):
		return http.StatusConflict, "name already exists.", nil
	case errors.Is(err, domain.ErrDuplicateUsername):
		return http.StatusConflict, "username already exists.", nil
	case errors.Is(err, domain.ErrDuplicateEmail):
		return http.StatusConflict, "email already exists.", nil
	case errors.Is(err, domain.ErrRoleAssigned):
		return http.StatusConflict, err.Error(), nil
	case errors.Is(err, domain.ErrInvalidRole),
		errors.Is(err, domain.ErrInvalidUser),
		errors.Is(err, domain.ErrDuplicateModules),
		errors.Is(err, domain.ErrModuleExists),
		errors.Is(err, domain.ErrModuleNotFound):
		return http.StatusBadRequest, err.Error(), nil
	case errors.Is(err, domain.ErrInvalidCredentials):
		// Same message for unknown email and wrong password.
		return http.StatusUnauthorized, "Invalid credentials", nil
	case errors.Is(err, service.ErrSigningKeyMissing):
		// Startup-class misconfiguration surfacing at request time.
		log.Error().Err(err).Msg("token signing misconfigured")
		return http.StatusInternalServerError, "internal server error", nil
	}

	// Unexpected error: log the real cause, return a generic message.
	log.Error().
		Err(err).
		Str("method", c.Request().Method).
		Str("path", c.Path()).
		Msg("unhandled error")

	return http.StatusInternalServerError, "internal server error", nil
}
