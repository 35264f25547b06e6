package handler

import (
	"net/http"

	"github.com/labstack/echo/v4"

	"github.com/provisionexpertax/taxportal/internal/dto"
	"github.com/provisionexpertax/taxportal/internal/service"
)

// ContactsHandler exposes the contact form endpoints.
type ContactsHandler struct {
	service *service.ContactService
}

// NewContactsHandler creates a new handler instance.
func NewContactsHandler(service *service.ContactService) *ContactsHandler {
	return &ContactsHandler{service: service}
}

// Create handles POST /api/contacts requests.
func (h *ContactsHandler) Create(c echo.Context) error {
	var req dto.CreateContactRequest
	if err := c.Bind(&req); err != nil {
		return Error(c, http.StatusBadRequest, "invalid payload")
	}

	contact, err := h.service.Create(c.Request().Context(), req)
	if err != nil {
		return respondError(c, err, "failed to submit contact form")
	}
	return Success(c, http.StatusOK, "contact form submitted", contact)
}

// List handles GET /api/contacts requests.
func (h *ContactsHandler) List(c echo.Context) error {
	contacts, err := h.service.List(c.Request().Context())
	if err != nil {
		return respondError(c, err, "failed to fetch contacts")
	}
	return Success(c, http.StatusOK, "", contacts)
}
