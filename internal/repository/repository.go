package repository

import (
	"context"
	"errors"
	"fmt"

	"github.com/google/uuid"

	"github.com/provisionexpertax/taxportal/internal/entity"
)

// ErrNotFound is wrapped by every entity-specific lookup miss.
var ErrNotFound = errors.New("not found")

var (
	ErrAppointmentNotFound = fmt.Errorf("appointment %w", ErrNotFound)
	ErrDocumentNotFound    = fmt.Errorf("document %w", ErrNotFound)
	ErrBlogPostNotFound    = fmt.Errorf("blog post %w", ErrNotFound)
	ErrTestimonialNotFound = fmt.Errorf("testimonial %w", ErrNotFound)
	ErrUserNotFound        = fmt.Errorf("user %w", ErrNotFound)

	ErrSlugTaken      = errors.New("slug already exists")
	ErrSlugLocked     = errors.New("slug cannot change after the post is published")
	ErrUsernameTaken  = errors.New("username already exists")
	ErrEmailDuplicate = errors.New("email already exists")
)

// ContactsRepository persists contact form submissions.
type ContactsRepository interface {
	CreateContact(ctx context.Context, in entity.NewContact) (*entity.Contact, error)
	ListContacts(ctx context.Context) ([]entity.Contact, error)
}

// AgentsRepository persists the staff roster.
type AgentsRepository interface {
	ListAgents(ctx context.Context) ([]entity.Agent, error)
	// EnsureAgent inserts the agent unless one with the same email exists.
	EnsureAgent(ctx context.Context, in entity.NewAgent) (bool, error)
}

// AppointmentsRepository persists locally booked appointments.
type AppointmentsRepository interface {
	CreateAppointment(ctx context.Context, in entity.NewAppointment) (*entity.Appointment, error)
	ListAppointments(ctx context.Context) ([]entity.Appointment, error)
	ListAppointmentsByAgent(ctx context.Context, agentID string) ([]entity.Appointment, error)
	UpdateAppointmentStatus(ctx context.Context, id uuid.UUID, status entity.AppointmentStatus) (*entity.Appointment, error)
}

// DocumentsRepository persists metadata of uploaded client files.
type DocumentsRepository interface {
	CreateDocument(ctx context.Context, in entity.NewDocument) (*entity.Document, error)
	GetDocument(ctx context.Context, id uuid.UUID) (*entity.Document, error)
	ListDocumentsByClient(ctx context.Context, clientEmail string) ([]entity.Document, error)
	UpdateDocumentStatus(ctx context.Context, id uuid.UUID, status entity.DocumentStatus) (*entity.Document, error)
}

// BlogRepository persists blog posts.
type BlogRepository interface {
	CreateBlogPost(ctx context.Context, in entity.NewBlogPost) (*entity.BlogPost, error)
	// ListBlogPosts returns every post when published is nil.
	ListBlogPosts(ctx context.Context, published *bool) ([]entity.BlogPost, error)
	GetBlogPost(ctx context.Context, id uuid.UUID) (*entity.BlogPost, error)
	GetBlogPostBySlug(ctx context.Context, slug string) (*entity.BlogPost, error)
	UpdateBlogPost(ctx context.Context, id uuid.UUID, patch entity.BlogPostPatch) (*entity.BlogPost, error)
	// PublishBlogPost stamps publishedAt only on the first publish.
	PublishBlogPost(ctx context.Context, id uuid.UUID) (*entity.BlogPost, error)
}

// TestimonialsRepository persists client reviews.
type TestimonialsRepository interface {
	CreateTestimonial(ctx context.Context, in entity.NewTestimonial) (*entity.Testimonial, error)
	ListTestimonials(ctx context.Context, filter entity.TestimonialFilter) ([]entity.Testimonial, error)
	ApproveTestimonial(ctx context.Context, id uuid.UUID) (*entity.Testimonial, error)
	FeatureTestimonial(ctx context.Context, id uuid.UUID, featured bool) (*entity.Testimonial, error)
}

// UsersRepository persists accounts.
type UsersRepository interface {
	CreateUser(ctx context.Context, in entity.NewUser) (*entity.User, error)
	FindUserByID(ctx context.Context, id uuid.UUID) (*entity.User, error)
	FindUserByUsername(ctx context.Context, username string) (*entity.User, error)
	FindUserByEmail(ctx context.Context, email string) (*entity.User, error)
}

// Storage is the full persistence surface. PGXStore and MemoryStore both
// satisfy it with the same observable behavior.
type Storage interface {
	ContactsRepository
	AgentsRepository
	AppointmentsRepository
	DocumentsRepository
	BlogRepository
	TestimonialsRepository
	UsersRepository
}

var (
	_ Storage = (*PGXStore)(nil)
	_ Storage = (*MemoryStore)(nil)
)
