package handler

import (
	"net/http"

	"github.com/labstack/echo/v4"

	"github.com/provisionexpertax/taxportal/internal/service"
)

// AgentsHandler serves the public staff roster.
type AgentsHandler struct {
	service *service.AgentService
}

// NewAgentsHandler creates a new handler instance.
func NewAgentsHandler(service *service.AgentService) *AgentsHandler {
	return &AgentsHandler{service: service}
}

// List handles GET /api/agents requests.
func (h *AgentsHandler) List(c echo.Context) error {
	agents, err := h.service.List(c.Request().Context())
	if err != nil {
		return respondError(c, err, "failed to fetch agents")
	}
	return Success(c, http.StatusOK, "", agents)
}
