package handler

import (
	"net/http"

	"github.com/labstack/echo/v4"

	"github.com/provisionexpertax/taxportal/internal/service"
)

// CalendarHandler exposes the merged calendar and the Calendly proxy endpoints.
type CalendarHandler struct {
	service *service.CalendarService
}

// NewCalendarHandler creates a new handler instance.
func NewCalendarHandler(service *service.CalendarService) *CalendarHandler {
	return &CalendarHandler{service: service}
}

// Entries handles GET /api/calendar requests.
func (h *CalendarHandler) Entries(c echo.Context) error {
	entries, err := h.service.Entries(c.Request().Context())
	if err != nil {
		return respondError(c, err, "failed to fetch calendar")
	}
	return Success(c, http.StatusOK, "", entries)
}

// User handles GET /api/calendly/user requests.
func (h *CalendarHandler) User(c echo.Context) error {
	user, err := h.service.User(c.Request().Context())
	if err != nil {
		return respondError(c, err, "failed to fetch calendly user")
	}
	return Success(c, http.StatusOK, "", user)
}

// Events handles GET /api/calendly/events requests.
func (h *CalendarHandler) Events(c echo.Context) error {
	events, err := h.service.Events(c.Request().Context())
	if err != nil {
		return respondError(c, err, "failed to fetch calendly events")
	}
	return Success(c, http.StatusOK, "", events)
}

// Invitees handles GET /api/calendly/events/:eventId/invitees requests.
func (h *CalendarHandler) Invitees(c echo.Context) error {
	invitees, err := h.service.Invitees(c.Request().Context(), c.Param("eventId"))
	if err != nil {
		return respondError(c, err, "failed to fetch calendly invitees")
	}
	return Success(c, http.StatusOK, "", invitees)
}
