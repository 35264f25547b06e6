package entity

import (
	"time"

	"github.com/google/uuid"
)

// Testimonial is a client review subject to moderation.
type Testimonial struct {
	ID              uuid.UUID `json:"id"`
	ClientName      string    `json:"clientName"`
	ClientEmail     string    `json:"clientEmail"`
	Rating          int       `json:"rating"`
	TestimonialText string    `json:"testimonialText"`
	Service         *string   `json:"service"`
	Approved        bool      `json:"approved"`
	Featured        bool      `json:"featured"`
	CreatedAt       time.Time `json:"createdAt"`
}

// NewTestimonial describes a public submission. Moderation flags always start false.
type NewTestimonial struct {
	ClientName      string
	ClientEmail     string
	Rating          int
	TestimonialText string
	Service         *string
}

// TestimonialFilter narrows listings; nil fields match everything.
type TestimonialFilter struct {
	Approved *bool
	Featured *bool
}
