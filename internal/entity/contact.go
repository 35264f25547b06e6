package entity

import (
	"time"

	"github.com/google/uuid"
)

// Contact is an inbound lead captured by the public contact form.
type Contact struct {
	ID        uuid.UUID `json:"id"`
	FirstName string    `json:"firstName"`
	LastName  string    `json:"lastName"`
	Email     string    `json:"email"`
	Phone     *string   `json:"phone"`
	Service   *string   `json:"service"`
	Message   *string   `json:"message"`
	CreatedAt time.Time `json:"createdAt"`
}

// NewContact carries the validated fields of a contact submission.
type NewContact struct {
	FirstName string
	LastName  string
	Email     string
	Phone     *string
	Service   *string
	Message   *string
}
