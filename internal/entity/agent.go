package entity

import (
	"time"

	"github.com/google/uuid"
)

// Agent is a staff member shown on the public roster.
type Agent struct {
	ID          uuid.UUID `json:"id"`
	Name        string    `json:"name"`
	Title       string    `json:"title"`
	Bio         string    `json:"bio"`
	Email       string    `json:"email"`
	ImageURL    string    `json:"imageUrl"`
	Credentials []string  `json:"credentials"`
	CreatedAt   time.Time `json:"-"`
}

// NewAgent describes an agent to insert.
type NewAgent struct {
	Name        string
	Title       string
	Bio         string
	Email       string
	ImageURL    string
	Credentials []string
}
