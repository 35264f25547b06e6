package handler

import (
	"net/http"
	"strconv"
	"strings"

	"github.com/labstack/echo/v4"

	"github.com/provisionexpertax/taxportal/internal/dto"
	middlewarepkg "github.com/provisionexpertax/taxportal/internal/middleware"
	"github.com/provisionexpertax/taxportal/internal/service"
)

// BlogHandler exposes blog reading and editorial endpoints.
type BlogHandler struct {
	service *service.BlogService
}

// NewBlogHandler creates a new handler instance.
func NewBlogHandler(service *service.BlogService) *BlogHandler {
	return &BlogHandler{service: service}
}

// Create handles POST /api/blog requests.
func (h *BlogHandler) Create(c echo.Context) error {
	var req dto.CreateBlogPostRequest
	if err := c.Bind(&req); err != nil {
		return Error(c, http.StatusBadRequest, "invalid payload")
	}

	post, err := h.service.Create(c.Request().Context(), req)
	if err != nil {
		return respondError(c, err, "failed to create blog post")
	}
	return Success(c, http.StatusOK, "blog post created", post)
}

// List handles GET /api/blog requests.
func (h *BlogHandler) List(c echo.Context) error {
	admin := middlewarepkg.IsAdmin(c)

	var published *bool
	if admin {
		var ok bool
		published, ok = parseOptionalBool(c.QueryParam("published"))
		if !ok {
			return ValidationFailed(c, "", map[string]string{"published": "must be true or false"})
		}
	}

	posts, err := h.service.List(c.Request().Context(), published, admin)
	if err != nil {
		return respondError(c, err, "failed to fetch blog posts")
	}
	return Success(c, http.StatusOK, "", posts)
}

// GetBySlug handles GET /api/blog/:slug requests.
func (h *BlogHandler) GetBySlug(c echo.Context) error {
	post, err := h.service.GetBySlug(c.Request().Context(), c.Param("slug"), middlewarepkg.IsAdmin(c))
	if err != nil {
		return respondError(c, err, "failed to fetch blog post")
	}
	return Success(c, http.StatusOK, "", post)
}

// Update handles PATCH /api/blog/:id requests.
func (h *BlogHandler) Update(c echo.Context) error {
	var req dto.UpdateBlogPostRequest
	if err := c.Bind(&req); err != nil {
		return Error(c, http.StatusBadRequest, "invalid payload")
	}

	post, err := h.service.Update(c.Request().Context(), c.Param("id"), req)
	if err != nil {
		return respondError(c, err, "failed to update blog post")
	}
	return Success(c, http.StatusOK, "blog post updated", post)
}

// Publish handles PATCH /api/blog/:id/publish requests.
func (h *BlogHandler) Publish(c echo.Context) error {
	post, err := h.service.Publish(c.Request().Context(), c.Param("id"))
	if err != nil {
		return respondError(c, err, "failed to publish blog post")
	}
	return Success(c, http.StatusOK, "blog post published", post)
}

// parseOptionalBool reads a boolean query value; empty means unset.
func parseOptionalBool(raw string) (*bool, bool) {
	raw = strings.TrimSpace(raw)
	if raw == "" {
		return nil, true
	}
	v, err := strconv.ParseBool(raw)
	if err != nil {
		return nil, false
	}
	return &v, true
}
