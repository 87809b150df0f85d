package httpserver

import (
	"errors"
	"net/http"

	"github.com/labstack/echo/v4"

	"github.com/vitikova/user-service/internal/repo"
	"github.com/vitikova/user-service/internal/service"
)

// httpError maps domain errors onto status codes: 404 for
// lookup misses, 400 for credential-shaped failures, 500 for the rest.
func httpError(err error) *echo.HTTPError {
	switch {
	case errors.Is(err, repo.ErrNotFound):
		return echo.NewHTTPError(http.StatusNotFound, "entity not found")
	case errors.Is(err, repo.ErrUserExists):
		return echo.NewHTTPError(http.StatusBadRequest, "login already exists")
	case errors.Is(err, service.ErrPasswordMismatch):
		return echo.NewHTTPError(http.StatusBadRequest, "passwords do not match")
	case errors.Is(err, service.ErrValidation):
		return echo.NewHTTPError(http.StatusBadRequest, err.Error())
	case errors.Is(err, service.ErrInvalidCredentials):
		return echo.NewHTTPError(http.StatusBadRequest, "invalid credentials")
	default:
		return echo.NewHTTPError(http.StatusInternalServerError, "internal error")
	}
}
