package repository

import (
	"context"
	"sort"
	"sync"
	"time"

	"github.com/google/uuid"

	"github.com/provisionexpertax/taxportal/internal/entity"
)

// MemoryStore implements Storage in process memory. Records are kept in
// insertion order and handed out as copies.
type MemoryStore struct {
	mu           sync.RWMutex
	now          func() time.Time
	contacts     []entity.Contact
	agents       []entity.Agent
	appointments []entity.Appointment
	documents    []entity.Document
	posts        []entity.BlogPost
	testimonials []entity.Testimonial
	users        []entity.User
}

// NewMemoryStore returns an empty store.
func NewMemoryStore() *MemoryStore {
	return &MemoryStore{now: time.Now}
}

func (m *MemoryStore) timestamp() time.Time {
	return m.now().UTC()
}

// CreateContact inserts a contact submission.
func (m *MemoryStore) CreateContact(_ context.Context, in entity.NewContact) (*entity.Contact, error) {
	m.mu.Lock()
	defer m.mu.Unlock()

	c := entity.Contact{
		ID:        uuid.New(),
		FirstName: in.FirstName,
		LastName:  in.LastName,
		Email:     in.Email,
		Phone:     in.Phone,
		Service:   in.Service,
		Message:   in.Message,
		CreatedAt: m.timestamp(),
	}
	m.contacts = append(m.contacts, cloneContact(c))
	return &c, nil
}

// ListContacts returns every contact, newest first.
func (m *MemoryStore) ListContacts(_ context.Context) ([]entity.Contact, error) {
	m.mu.RLock()
	defer m.mu.RUnlock()
	return cloneEach(newestFirst(m.contacts, func(c entity.Contact) time.Time { return c.CreatedAt }), cloneContact), nil
}

// ListAgents returns the roster with the featured agents first.
func (m *MemoryStore) ListAgents(_ context.Context) ([]entity.Agent, error) {
	m.mu.RLock()
	defer m.mu.RUnlock()

	agents := make([]entity.Agent, len(m.agents))
	for i, a := range m.agents {
		agents[i] = cloneAgent(a)
	}
	sortRoster(agents)
	return agents, nil
}

// EnsureAgent inserts the agent unless its email is already on the roster.
func (m *MemoryStore) EnsureAgent(_ context.Context, in entity.NewAgent) (bool, error) {
	m.mu.Lock()
	defer m.mu.Unlock()

	for _, a := range m.agents {
		if a.Email == in.Email {
			return false, nil
		}
	}
	m.agents = append(m.agents, cloneAgent(entity.Agent{
		ID:          uuid.New(),
		Name:        in.Name,
		Title:       in.Title,
		Bio:         in.Bio,
		Email:       in.Email,
		ImageURL:    in.ImageURL,
		Credentials: in.Credentials,
		CreatedAt:   m.timestamp(),
	}))
	return true, nil
}

// CreateAppointment inserts a booking.
func (m *MemoryStore) CreateAppointment(_ context.Context, in entity.NewAppointment) (*entity.Appointment, error) {
	m.mu.Lock()
	defer m.mu.Unlock()

	a := entity.Appointment{
		ID:              uuid.New(),
		ClientName:      in.ClientName,
		ClientEmail:     in.ClientEmail,
		ClientPhone:     in.ClientPhone,
		Service:         in.Service,
		AgentID:         in.AgentID,
		AppointmentDate: in.AppointmentDate.UTC(),
		Duration:        in.Duration,
		Status:          in.Status,
		Notes:           in.Notes,
		CreatedAt:       m.timestamp(),
	}
	m.appointments = append(m.appointments, cloneAppointment(a))
	return &a, nil
}

// ListAppointments returns every appointment, newest booking first.
func (m *MemoryStore) ListAppointments(_ context.Context) ([]entity.Appointment, error) {
	m.mu.RLock()
	defer m.mu.RUnlock()
	return cloneEach(newestFirst(m.appointments, func(a entity.Appointment) time.Time { return a.CreatedAt }), cloneAppointment), nil
}

// ListAppointmentsByAgent returns an agent's appointments, latest date first.
func (m *MemoryStore) ListAppointmentsByAgent(_ context.Context, agentID string) ([]entity.Appointment, error) {
	m.mu.RLock()
	defer m.mu.RUnlock()

	matching := make([]entity.Appointment, 0)
	for _, a := range m.appointments {
		if a.AgentID != nil && *a.AgentID == agentID {
			matching = append(matching, a)
		}
	}
	return cloneEach(newestFirst(matching, func(a entity.Appointment) time.Time { return a.AppointmentDate }), cloneAppointment), nil
}

// UpdateAppointmentStatus sets the status of a local appointment.
func (m *MemoryStore) UpdateAppointmentStatus(_ context.Context, id uuid.UUID, status entity.AppointmentStatus) (*entity.Appointment, error) {
	m.mu.Lock()
	defer m.mu.Unlock()

	for i := range m.appointments {
		if m.appointments[i].ID == id {
			m.appointments[i].Status = status
			a := cloneAppointment(m.appointments[i])
			return &a, nil
		}
	}
	return nil, ErrAppointmentNotFound
}

// CreateDocument records an uploaded file.
func (m *MemoryStore) CreateDocument(_ context.Context, in entity.NewDocument) (*entity.Document, error) {
	m.mu.Lock()
	defer m.mu.Unlock()

	status := in.Status
	if status == "" {
		status = entity.DocumentUploaded
	}
	d := entity.Document{
		ID:           uuid.New(),
		ClientEmail:  in.ClientEmail,
		FileName:     in.FileName,
		StorageKey:   in.StorageKey,
		MimeType:     in.MimeType,
		FileSize:     in.FileSize,
		DocumentType: in.DocumentType,
		Status:       status,
		UploadedAt:   m.timestamp(),
	}
	m.documents = append(m.documents, d)
	return &d, nil
}

// GetDocument fetches a document by id.
func (m *MemoryStore) GetDocument(_ context.Context, id uuid.UUID) (*entity.Document, error) {
	m.mu.RLock()
	defer m.mu.RUnlock()

	for _, d := range m.documents {
		if d.ID == id {
			return &d, nil
		}
	}
	return nil, ErrDocumentNotFound
}

// ListDocumentsByClient returns a client's uploads, newest first.
func (m *MemoryStore) ListDocumentsByClient(_ context.Context, clientEmail string) ([]entity.Document, error) {
	m.mu.RLock()
	defer m.mu.RUnlock()

	matching := make([]entity.Document, 0)
	for _, d := range m.documents {
		if d.ClientEmail == clientEmail {
			matching = append(matching, d)
		}
	}
	return newestFirst(matching, func(d entity.Document) time.Time { return d.UploadedAt }), nil
}

// UpdateDocumentStatus moves a document through review.
func (m *MemoryStore) UpdateDocumentStatus(_ context.Context, id uuid.UUID, status entity.DocumentStatus) (*entity.Document, error) {
	m.mu.Lock()
	defer m.mu.Unlock()

	for i := range m.documents {
		if m.documents[i].ID == id {
			m.documents[i].Status = status
			d := m.documents[i]
			return &d, nil
		}
	}
	return nil, ErrDocumentNotFound
}

// CreateBlogPost inserts a draft.
func (m *MemoryStore) CreateBlogPost(_ context.Context, in entity.NewBlogPost) (*entity.BlogPost, error) {
	m.mu.Lock()
	defer m.mu.Unlock()

	for _, p := range m.posts {
		if p.Slug == in.Slug {
			return nil, ErrSlugTaken
		}
	}
	now := m.timestamp()
	p := entity.BlogPost{
		ID:        uuid.New(),
		Title:     in.Title,
		Slug:      in.Slug,
		Excerpt:   in.Excerpt,
		Content:   in.Content,
		Category:  in.Category,
		AuthorID:  cloneString(in.AuthorID),
		CreatedAt: now,
		UpdatedAt: now,
	}
	m.posts = append(m.posts, p)
	return clonePost(p), nil
}

// ListBlogPosts returns posts newest first, optionally filtered by published state.
func (m *MemoryStore) ListBlogPosts(_ context.Context, published *bool) ([]entity.BlogPost, error) {
	m.mu.RLock()
	defer m.mu.RUnlock()

	matching := make([]entity.BlogPost, 0, len(m.posts))
	for _, p := range m.posts {
		if published == nil || p.Published == *published {
			matching = append(matching, *clonePost(p))
		}
	}
	return newestFirst(matching, func(p entity.BlogPost) time.Time { return p.CreatedAt }), nil
}

// GetBlogPost fetches a post by id.
func (m *MemoryStore) GetBlogPost(_ context.Context, id uuid.UUID) (*entity.BlogPost, error) {
	m.mu.RLock()
	defer m.mu.RUnlock()

	if i := m.postIndex(id); i >= 0 {
		return clonePost(m.posts[i]), nil
	}
	return nil, ErrBlogPostNotFound
}

// GetBlogPostBySlug fetches a post by its public slug.
func (m *MemoryStore) GetBlogPostBySlug(_ context.Context, slug string) (*entity.BlogPost, error) {
	m.mu.RLock()
	defer m.mu.RUnlock()

	for _, p := range m.posts {
		if p.Slug == slug {
			return clonePost(p), nil
		}
	}
	return nil, ErrBlogPostNotFound
}

// UpdateBlogPost applies a partial edit.
func (m *MemoryStore) UpdateBlogPost(_ context.Context, id uuid.UUID, patch entity.BlogPostPatch) (*entity.BlogPost, error) {
	m.mu.Lock()
	defer m.mu.Unlock()

	i := m.postIndex(id)
	if i < 0 {
		return nil, ErrBlogPostNotFound
	}
	post := m.posts[i]
	if patch.Slug != nil && *patch.Slug != post.Slug {
		if post.Published {
			return nil, ErrSlugLocked
		}
		for _, other := range m.posts {
			if other.ID != id && other.Slug == *patch.Slug {
				return nil, ErrSlugTaken
			}
		}
		post.Slug = *patch.Slug
	}
	if patch.Title != nil {
		post.Title = *patch.Title
	}
	if patch.Excerpt != nil {
		post.Excerpt = *patch.Excerpt
	}
	if patch.Content != nil {
		post.Content = *patch.Content
	}
	if patch.Category != nil {
		post.Category = *patch.Category
	}
	post.UpdatedAt = m.timestamp()
	m.posts[i] = post
	return clonePost(post), nil
}

// PublishBlogPost marks the post published, keeping an existing publishedAt.
func (m *MemoryStore) PublishBlogPost(_ context.Context, id uuid.UUID) (*entity.BlogPost, error) {
	m.mu.Lock()
	defer m.mu.Unlock()

	i := m.postIndex(id)
	if i < 0 {
		return nil, ErrBlogPostNotFound
	}
	now := m.timestamp()
	post := m.posts[i]
	post.Published = true
	if post.PublishedAt == nil {
		post.PublishedAt = &now
	}
	post.UpdatedAt = now
	m.posts[i] = post
	return clonePost(post), nil
}

func (m *MemoryStore) postIndex(id uuid.UUID) int {
	for i := range m.posts {
		if m.posts[i].ID == id {
			return i
		}
	}
	return -1
}

// CreateTestimonial stores a submission awaiting moderation.
func (m *MemoryStore) CreateTestimonial(_ context.Context, in entity.NewTestimonial) (*entity.Testimonial, error) {
	m.mu.Lock()
	defer m.mu.Unlock()

	t := entity.Testimonial{
		ID:              uuid.New(),
		ClientName:      in.ClientName,
		ClientEmail:     in.ClientEmail,
		Rating:          in.Rating,
		TestimonialText: in.TestimonialText,
		Service:         in.Service,
		CreatedAt:       m.timestamp(),
	}
	m.testimonials = append(m.testimonials, cloneTestimonial(t))
	return &t, nil
}

// ListTestimonials returns testimonials matching the filter, newest first.
func (m *MemoryStore) ListTestimonials(_ context.Context, filter entity.TestimonialFilter) ([]entity.Testimonial, error) {
	m.mu.RLock()
	defer m.mu.RUnlock()

	matching := make([]entity.Testimonial, 0, len(m.testimonials))
	for _, t := range m.testimonials {
		if filter.Approved != nil && t.Approved != *filter.Approved {
			continue
		}
		if filter.Featured != nil && t.Featured != *filter.Featured {
			continue
		}
		matching = append(matching, t)
	}
	return cloneEach(newestFirst(matching, func(t entity.Testimonial) time.Time { return t.CreatedAt }), cloneTestimonial), nil
}

// ApproveTestimonial makes a testimonial publicly visible.
func (m *MemoryStore) ApproveTestimonial(_ context.Context, id uuid.UUID) (*entity.Testimonial, error) {
	return m.updateTestimonial(id, func(t *entity.Testimonial) { t.Approved = true })
}

// FeatureTestimonial sets or clears the featured flag.
func (m *MemoryStore) FeatureTestimonial(_ context.Context, id uuid.UUID, featured bool) (*entity.Testimonial, error) {
	return m.updateTestimonial(id, func(t *entity.Testimonial) { t.Featured = featured })
}

func (m *MemoryStore) updateTestimonial(id uuid.UUID, apply func(*entity.Testimonial)) (*entity.Testimonial, error) {
	m.mu.Lock()
	defer m.mu.Unlock()

	for i := range m.testimonials {
		if m.testimonials[i].ID == id {
			apply(&m.testimonials[i])
			t := cloneTestimonial(m.testimonials[i])
			return &t, nil
		}
	}
	return nil, ErrTestimonialNotFound
}

// CreateUser inserts a new account; username and email must be unique.
func (m *MemoryStore) CreateUser(_ context.Context, in entity.NewUser) (*entity.User, error) {
	m.mu.Lock()
	defer m.mu.Unlock()

	for _, u := range m.users {
		if u.Username == in.Username {
			return nil, ErrUsernameTaken
		}
		if u.Email == in.Email {
			return nil, ErrEmailDuplicate
		}
	}
	now := m.timestamp()
	u := entity.User{
		ID:           uuid.New(),
		Username:     in.Username,
		Email:        in.Email,
		PasswordHash: in.PasswordHash,
		FirstName:    in.FirstName,
		LastName:     in.LastName,
		Role:         in.Role,
		CreatedAt:    now,
		UpdatedAt:    now,
	}
	m.users = append(m.users, cloneUser(u))
	return &u, nil
}

// FindUserByID retrieves a user by identifier.
func (m *MemoryStore) FindUserByID(_ context.Context, id uuid.UUID) (*entity.User, error) {
	return m.findUser(func(u entity.User) bool { return u.ID == id })
}

// FindUserByUsername retrieves a user by login name.
func (m *MemoryStore) FindUserByUsername(_ context.Context, username string) (*entity.User, error) {
	return m.findUser(func(u entity.User) bool { return u.Username == username })
}

// FindUserByEmail fetches a user by email if present.
func (m *MemoryStore) FindUserByEmail(_ context.Context, email string) (*entity.User, error) {
	return m.findUser(func(u entity.User) bool { return u.Email == email })
}

func (m *MemoryStore) findUser(match func(entity.User) bool) (*entity.User, error) {
	m.mu.RLock()
	defer m.mu.RUnlock()

	for _, u := range m.users {
		if match(u) {
			u = cloneUser(u)
			return &u, nil
		}
	}
	return nil, ErrUserNotFound
}

// newestFirst copies records (held in insertion order) and sorts them by key
// descending; equal keys keep the most recently inserted record first.
func newestFirst[T any](records []T, key func(T) time.Time) []T {
	out := make([]T, len(records))
	for i, r := range records {
		out[len(records)-1-i] = r
	}
	sort.SliceStable(out, func(i, j int) bool {
		return key(out[i]).After(key(out[j]))
	})
	return out
}

func cloneAgent(a entity.Agent) entity.Agent {
	a.Credentials = append([]string{}, a.Credentials...)
	return a
}

func clonePost(p entity.BlogPost) *entity.BlogPost {
	p.AuthorID = cloneString(p.AuthorID)
	if p.PublishedAt != nil {
		at := *p.PublishedAt
		p.PublishedAt = &at
	}
	return &p
}

func cloneEach[T any](records []T, clone func(T) T) []T {
	for i := range records {
		records[i] = clone(records[i])
	}
	return records
}

func cloneString(v *string) *string {
	if v == nil {
		return nil
	}
	out := *v
	return &out
}

func cloneContact(c entity.Contact) entity.Contact {
	c.Phone = cloneString(c.Phone)
	c.Service = cloneString(c.Service)
	c.Message = cloneString(c.Message)
	return c
}

func cloneAppointment(a entity.Appointment) entity.Appointment {
	a.ClientPhone = cloneString(a.ClientPhone)
	a.AgentID = cloneString(a.AgentID)
	a.Notes = cloneString(a.Notes)
	return a
}

func cloneTestimonial(t entity.Testimonial) entity.Testimonial {
	t.Service = cloneString(t.Service)
	return t
}

func cloneUser(u entity.User) entity.User {
	u.FirstName = cloneString(u.FirstName)
	u.LastName = cloneString(u.LastName)
	return u
}
