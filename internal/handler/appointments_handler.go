package handler

import (
	"net/http"

	"github.com/labstack/echo/v4"

	"github.com/provisionexpertax/taxportal/internal/dto"
	"github.com/provisionexpertax/taxportal/internal/service"
)

// AppointmentsHandler exposes booking and appointment administration.
type AppointmentsHandler struct {
	service *service.AppointmentService
}

// NewAppointmentsHandler creates a new handler instance.
func NewAppointmentsHandler(service *service.AppointmentService) *AppointmentsHandler {
	return &AppointmentsHandler{service: service}
}

// Create handles POST /api/appointments requests.
func (h *AppointmentsHandler) Create(c echo.Context) error {
	var req dto.CreateAppointmentRequest
	if err := c.Bind(&req); err != nil {
		return Error(c, http.StatusBadRequest, "invalid payload")
	}

	appointment, err := h.service.Create(c.Request().Context(), req)
	if err != nil {
		return respondError(c, err, "failed to book appointment")
	}
	return Success(c, http.StatusOK, "appointment booked", appointment)
}

// List handles GET /api/appointments requests.
func (h *AppointmentsHandler) List(c echo.Context) error {
	appointments, err := h.service.List(c.Request().Context())
	if err != nil {
		return respondError(c, err, "failed to fetch appointments")
	}
	return Success(c, http.StatusOK, "", appointments)
}

// ListByAgent handles GET /api/appointments/agent/:agentId requests.
func (h *AppointmentsHandler) ListByAgent(c echo.Context) error {
	appointments, err := h.service.ListByAgent(c.Request().Context(), c.Param("agentId"))
	if err != nil {
		return respondError(c, err, "failed to fetch agent appointments")
	}
	return Success(c, http.StatusOK, "", appointments)
}

// UpdateStatus handles PATCH /api/appointments/:id/status requests.
func (h *AppointmentsHandler) UpdateStatus(c echo.Context) error {
	var req dto.UpdateAppointmentStatusRequest
	if err := c.Bind(&req); err != nil {
		return Error(c, http.StatusBadRequest, "invalid payload")
	}
	if req.Source == "" {
		req.Source = c.QueryParam("source")
	}

	appointment, err := h.service.UpdateStatus(c.Request().Context(), c.Param("id"), req)
	if err != nil {
		return respondError(c, err, "failed to update appointment status")
	}
	return Success(c, http.StatusOK, "appointment status updated", appointment)
}
