package handler

import (
	"net/http"

	"github.com/labstack/echo/v4"

	"github.com/provisionexpertax/taxportal/internal/dto"
	"github.com/provisionexpertax/taxportal/internal/entity"
	middlewarepkg "github.com/provisionexpertax/taxportal/internal/middleware"
	"github.com/provisionexpertax/taxportal/internal/service"
)

// TestimonialsHandler exposes review submission and moderation.
type TestimonialsHandler struct {
	service *service.TestimonialService
}

// NewTestimonialsHandler creates a new handler instance.
func NewTestimonialsHandler(service *service.TestimonialService) *TestimonialsHandler {
	return &TestimonialsHandler{service: service}
}

// Create handles POST /api/testimonials requests.
func (h *TestimonialsHandler) Create(c echo.Context) error {
	var req dto.CreateTestimonialRequest
	if err := c.Bind(&req); err != nil {
		return Error(c, http.StatusBadRequest, "invalid payload")
	}

	testimonial, err := h.service.Create(c.Request().Context(), req)
	if err != nil {
		return respondError(c, err, "failed to submit testimonial")
	}
	return Success(c, http.StatusOK, "testimonial submitted for review", testimonial)
}

// List handles GET /api/testimonials requests.
func (h *TestimonialsHandler) List(c echo.Context) error {
	admin := middlewarepkg.IsAdmin(c)

	// the public list is approved-only; malformed filters are ignored for it
	approved, approvedOK := parseOptionalBool(c.QueryParam("approved"))
	featured, featuredOK := parseOptionalBool(c.QueryParam("featured"))
	if admin {
		if !approvedOK {
			return ValidationFailed(c, "", map[string]string{"approved": "must be true or false"})
		}
		if !featuredOK {
			return ValidationFailed(c, "", map[string]string{"featured": "must be true or false"})
		}
	}

	filter := entity.TestimonialFilter{Approved: approved, Featured: featured}
	testimonials, err := h.service.List(c.Request().Context(), filter, admin)
	if err != nil {
		return respondError(c, err, "failed to fetch testimonials")
	}
	return Success(c, http.StatusOK, "", testimonials)
}

// Approve handles PATCH /api/testimonials/:id/approve requests.
func (h *TestimonialsHandler) Approve(c echo.Context) error {
	testimonial, err := h.service.Approve(c.Request().Context(), c.Param("id"))
	if err != nil {
		return respondError(c, err, "failed to approve testimonial")
	}
	return Success(c, http.StatusOK, "testimonial approved", testimonial)
}

// Feature handles PATCH /api/testimonials/:id/feature requests.
func (h *TestimonialsHandler) Feature(c echo.Context) error {
	var req dto.FeatureTestimonialRequest
	if err := c.Bind(&req); err != nil {
		return Error(c, http.StatusBadRequest, "invalid payload")
	}

	testimonial, err := h.service.Feature(c.Request().Context(), c.Param("id"), req)
	if err != nil {
		return respondError(c, err, "failed to update testimonial")
	}
	return Success(c, http.StatusOK, "testimonial updated", testimonial)
}
