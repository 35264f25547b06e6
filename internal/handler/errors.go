package handler

import (
	"errors"
	"net/http"

	"github.com/labstack/echo/v4"
	"github.com/rs/zerolog"

	"github.com/provisionexpertax/taxportal/internal/calendly"
	"github.com/provisionexpertax/taxportal/internal/repository"
	"github.com/provisionexpertax/taxportal/internal/service"
)

// respondError maps service and repository errors onto HTTP statuses.
// Unclassified errors are logged and answered with fallback.
func respondError(c echo.Context, err error, fallback string) error {
	var validationErr *service.ValidationError
	var calendlyErr *calendly.APIError

	switch {
	case errors.As(err, &validationErr):
		return ValidationFailed(c, validationErr.Message, validationErr.Fields)
	case errors.Is(err, repository.ErrNotFound):
		return Error(c, http.StatusNotFound, err.Error())
	case errors.Is(err, repository.ErrSlugTaken),
		errors.Is(err, repository.ErrUsernameTaken),
		errors.Is(err, repository.ErrEmailDuplicate),
		errors.Is(err, repository.ErrSlugLocked),
		errors.Is(err, service.ErrExternalAppointment):
		return Error(c, http.StatusConflict, err.Error())
	case errors.Is(err, service.ErrInvalidCredentials):
		return Error(c, http.StatusUnauthorized, "invalid credentials")
	case errors.Is(err, calendly.ErrNotConfigured):
		return Error(c, http.StatusServiceUnavailable, "calendly integration is not configured")
	case errors.As(err, &calendlyErr):
		zerolog.Ctx(c.Request().Context()).Error().Err(err).Int("upstream_status", calendlyErr.StatusCode).Msg("calendly request failed")
		return Error(c, http.StatusInternalServerError, "failed to reach calendly")
	default:
		zerolog.Ctx(c.Request().Context()).Error().Err(err).Str("path", c.Path()).Msg(fallback)
		return Error(c, http.StatusInternalServerError, fallback)
	}
}
