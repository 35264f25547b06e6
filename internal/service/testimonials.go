package service

import (
	"context"
	"strings"

	"github.com/google/uuid"

	"github.com/provisionexpertax/taxportal/internal/dto"
	"github.com/provisionexpertax/taxportal/internal/entity"
	"github.com/provisionexpertax/taxportal/internal/normalize"
	"github.com/provisionexpertax/taxportal/internal/repository"
)

// TestimonialService handles review submission and moderation.
type TestimonialService struct {
	repo     repository.TestimonialsRepository
	notifier Notifier
}

// NewTestimonialService constructs a TestimonialService.
func NewTestimonialService(repo repository.TestimonialsRepository, notifier Notifier) *TestimonialService {
	return &TestimonialService{repo: repo, notifier: notifierOrNop(notifier)}
}

// Create stores a submission pending moderation.
func (s *TestimonialService) Create(ctx context.Context, req dto.CreateTestimonialRequest) (*entity.Testimonial, error) {
	if err := req.Validate(); err != nil {
		return nil, validationFailed(err)
	}
	email, err := normalize.Email(req.ClientEmail)
	if err != nil {
		return nil, invalidField("clientEmail", "invalid email format")
	}

	testimonial, err := s.repo.CreateTestimonial(ctx, entity.NewTestimonial{
		ClientName:      strings.TrimSpace(req.ClientName),
		ClientEmail:     email,
		Rating:          req.Rating,
		TestimonialText: strings.TrimSpace(req.TestimonialText),
		Service:         normalize.OptionalText(req.Service),
	})
	if err != nil {
		return nil, err
	}

	s.notifier.TestimonialSubmitted(ctx, *testimonial)
	return testimonial, nil
}

// List filters testimonials. Non-admin callers only see approved ones,
// whatever filter they asked for.
func (s *TestimonialService) List(ctx context.Context, filter entity.TestimonialFilter, admin bool) ([]entity.Testimonial, error) {
	if !admin {
		approved := true
		filter.Approved = &approved
	}
	return s.repo.ListTestimonials(ctx, filter)
}

// Approve makes a testimonial publicly visible.
func (s *TestimonialService) Approve(ctx context.Context, id string) (*entity.Testimonial, error) {
	testimonialID, err := uuid.Parse(id)
	if err != nil {
		return nil, repository.ErrTestimonialNotFound
	}
	return s.repo.ApproveTestimonial(ctx, testimonialID)
}

// Feature sets the featured flag.
func (s *TestimonialService) Feature(ctx context.Context, id string, req dto.FeatureTestimonialRequest) (*entity.Testimonial, error) {
	if err := req.Validate(); err != nil {
		return nil, validationFailed(err)
	}
	testimonialID, err := uuid.Parse(id)
	if err != nil {
		return nil, repository.ErrTestimonialNotFound
	}
	return s.repo.FeatureTestimonial(ctx, testimonialID, *req.Featured)
}
