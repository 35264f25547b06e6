package dto

import (
	validation "github.com/go-ozzo/ozzo-validation/v4"
	"github.com/go-ozzo/ozzo-validation/v4/is"
)

// CreateTestimonialRequest is a public review submission. Moderation flags
// are not accepted from clients.
type CreateTestimonialRequest struct {
	ClientName      string  `json:"clientName"`
	ClientEmail     string  `json:"clientEmail"`
	Rating          int     `json:"rating"`
	TestimonialText string  `json:"testimonialText"`
	Service         *string `json:"service"`
}

func (r CreateTestimonialRequest) Validate() error {
	return validation.ValidateStruct(&r,
		validation.Field(&r.ClientName, validation.Required.Error("client name is required"), notBlank, validation.Length(1, 100)),
		validation.Field(&r.ClientEmail, validation.Required.Error("client email is required"), is.EmailFormat.Error("invalid email format")),
		validation.Field(&r.Rating,
			validation.Required.Error("rating is required"),
			validation.Min(1).Error("rating must be between 1 and 5"),
			validation.Max(5).Error("rating must be between 1 and 5"),
		),
		validation.Field(&r.TestimonialText, validation.Required.Error("testimonial text is required"), notBlank, validation.Length(10, 2000)),
		validation.Field(&r.Service, validation.Length(0, 100)),
	)
}

// FeatureTestimonialRequest toggles the featured flag.
type FeatureTestimonialRequest struct {
	Featured *bool `json:"featured"`
}

func (r FeatureTestimonialRequest) Validate() error {
	return validation.ValidateStruct(&r,
		validation.Field(&r.Featured, validation.NotNil.Error("featured must be true or false")),
	)
}
