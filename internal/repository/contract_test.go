package repository

import (
	"context"
	"os"
	"testing"
	"time"

	"github.com/google/uuid"
	"github.com/jackc/pgx/v5/pgxpool"
	"github.com/stretchr/testify/require"
	"github.com/stretchr/testify/suite"

	"github.com/provisionexpertax/taxportal/internal/database"
	"github.com/provisionexpertax/taxportal/internal/entity"
)

// storageSuite runs the same behavioral checks against every Storage.
type storageSuite struct {
	suite.Suite
	newStore func(t *testing.T) Storage
	store    Storage
	ctx      context.Context
}

func (s *storageSuite) SetupTest() {
	s.ctx = context.Background()
	s.store = s.newStore(s.T())
}

func TestMemoryStoreContract(t *testing.T) {
	suite.Run(t, &storageSuite{newStore: func(*testing.T) Storage { return NewMemoryStore() }})
}

func TestPGXStoreContract(t *testing.T) {
	dsn := os.Getenv("TEST_DATABASE_URL")
	if dsn == "" {
		t.Skip("TEST_DATABASE_URL not set")
	}
	ctx := context.Background()
	pool, err := database.Connect(ctx, dsn)
	require.NoError(t, err)
	t.Cleanup(pool.Close)
	require.NoError(t, database.Migrate(ctx, pool))

	suite.Run(t, &storageSuite{newStore: func(t *testing.T) Storage {
		truncateAll(t, pool)
		return NewPGXStore(pool)
	}})
}

func truncateAll(t *testing.T, pool *pgxpool.Pool) {
	t.Helper()
	_, err := pool.Exec(context.Background(), `TRUNCATE contacts, agents, appointments, documents, blog_posts, testimonials, users`)
	require.NoError(t, err)
}

func strPtr(s string) *string { return &s }

func boolPtr(b bool) *bool { return &b }

func (s *storageSuite) TestContactsNewestFirst() {
	for _, name := range []string{"First", "Second", "Third"} {
		_, err := s.store.CreateContact(s.ctx, entity.NewContact{FirstName: name, LastName: "Doe", Email: "doe@example.com"})
		s.Require().NoError(err)
	}

	contacts, err := s.store.ListContacts(s.ctx)
	s.Require().NoError(err)
	s.Require().Len(contacts, 3)
	s.Equal("Third", contacts[0].FirstName)
	s.Equal("First", contacts[2].FirstName)
	s.Nil(contacts[0].Phone)
}

func (s *storageSuite) TestAgentsRosterOrderAndIdempotentSeed() {
	for _, name := range []string{"Morgan", "Jennifer Constantino", "Sandy", "AI Tax Agent", "Alex"} {
		created, err := s.store.EnsureAgent(s.ctx, entity.NewAgent{
			Name:        name,
			Email:       name + "@example.com",
			Credentials: []string{"CPA"},
		})
		s.Require().NoError(err)
		s.True(created)
	}
	created, err := s.store.EnsureAgent(s.ctx, entity.NewAgent{Name: "Sandy again", Email: "Sandy@example.com"})
	s.Require().NoError(err)
	s.False(created)

	agents, err := s.store.ListAgents(s.ctx)
	s.Require().NoError(err)
	names := make([]string, 0, len(agents))
	for _, a := range agents {
		names = append(names, a.Name)
	}
	s.Equal([]string{"Sandy", "AI Tax Agent", "Jennifer Constantino", "Morgan", "Alex"}, names)
	s.Equal([]string{"CPA"}, agents[0].Credentials)
}

func (s *storageSuite) TestAppointmentsOrderingAndStatus() {
	agent := "agent-1"
	base := time.Date(2025, 3, 10, 9, 0, 0, 0, time.UTC)
	early, err := s.store.CreateAppointment(s.ctx, entity.NewAppointment{
		ClientName: "Early", ClientEmail: "e@example.com", Service: "Tax Prep",
		AgentID: &agent, AppointmentDate: base, Duration: 60, Status: entity.AppointmentPending,
	})
	s.Require().NoError(err)
	_, err = s.store.CreateAppointment(s.ctx, entity.NewAppointment{
		ClientName: "Late", ClientEmail: "l@example.com", Service: "Tax Prep",
		AgentID: &agent, AppointmentDate: base.Add(48 * time.Hour), Duration: 30, Status: entity.AppointmentPending,
	})
	s.Require().NoError(err)
	_, err = s.store.CreateAppointment(s.ctx, entity.NewAppointment{
		ClientName: "Unassigned", ClientEmail: "u@example.com", Service: "Planning",
		AppointmentDate: base.Add(time.Hour), Duration: 60, Status: entity.AppointmentPending,
	})
	s.Require().NoError(err)

	all, err := s.store.ListAppointments(s.ctx)
	s.Require().NoError(err)
	s.Require().Len(all, 3)
	s.Equal("Unassigned", all[0].ClientName)
	s.Nil(all[0].AgentID)

	byAgent, err := s.store.ListAppointmentsByAgent(s.ctx, agent)
	s.Require().NoError(err)
	s.Require().Len(byAgent, 2)
	s.Equal("Late", byAgent[0].ClientName)
	s.Equal("Early", byAgent[1].ClientName)

	updated, err := s.store.UpdateAppointmentStatus(s.ctx, early.ID, entity.AppointmentCancelled)
	s.Require().NoError(err)
	s.Equal(entity.AppointmentCancelled, updated.Status)

	// any status may move to any other status
	updated, err = s.store.UpdateAppointmentStatus(s.ctx, early.ID, entity.AppointmentPending)
	s.Require().NoError(err)
	s.Equal(entity.AppointmentPending, updated.Status)

	_, err = s.store.UpdateAppointmentStatus(s.ctx, uuid.New(), entity.AppointmentConfirmed)
	s.ErrorIs(err, ErrAppointmentNotFound)
	s.ErrorIs(err, ErrNotFound)
}

func (s *storageSuite) TestReturnedRecordsAreDetached() {
	agent, phone, notes := "agent-1", "+16502530000", "bring W-2s"
	created, err := s.store.CreateAppointment(s.ctx, entity.NewAppointment{
		ClientName: "Ann", ClientEmail: "ann@example.com", ClientPhone: &phone, Service: "Tax Prep",
		AgentID: &agent, AppointmentDate: time.Date(2025, 3, 10, 9, 0, 0, 0, time.UTC), Duration: 60,
		Status: entity.AppointmentPending, Notes: &notes,
	})
	s.Require().NoError(err)

	agent, phone, notes = "changed", "changed", "changed"
	*created.AgentID = "changed-too"

	listed, err := s.store.ListAppointments(s.ctx)
	s.Require().NoError(err)
	s.Require().Len(listed, 1)
	*listed[0].Notes = "changed-again"

	again, err := s.store.ListAppointmentsByAgent(s.ctx, "agent-1")
	s.Require().NoError(err)
	s.Require().Len(again, 1)
	s.Equal("agent-1", *again[0].AgentID)
	s.Equal("+16502530000", *again[0].ClientPhone)
	s.Equal("bring W-2s", *again[0].Notes)

	service := "Planning"
	_, err = s.store.CreateContact(s.ctx, entity.NewContact{FirstName: "Ann", LastName: "Lee", Email: "ann@example.com", Service: &service})
	s.Require().NoError(err)
	contacts, err := s.store.ListContacts(s.ctx)
	s.Require().NoError(err)
	*contacts[0].Service = "changed"
	contacts, err = s.store.ListContacts(s.ctx)
	s.Require().NoError(err)
	s.Equal("Planning", *contacts[0].Service)
}

func (s *storageSuite) TestDocumentsScopedByClient() {
	mine, err := s.store.CreateDocument(s.ctx, entity.NewDocument{
		ClientEmail: "me@example.com", FileName: "w2.pdf", StorageKey: "documents/a.pdf",
		MimeType: "application/pdf", FileSize: 1024, DocumentType: "w2",
	})
	s.Require().NoError(err)
	s.Equal(entity.DocumentUploaded, mine.Status)

	_, err = s.store.CreateDocument(s.ctx, entity.NewDocument{
		ClientEmail: "other@example.com", FileName: "receipt.png", StorageKey: "documents/b.png",
		MimeType: "image/png", FileSize: 10, DocumentType: "receipt",
	})
	s.Require().NoError(err)

	docs, err := s.store.ListDocumentsByClient(s.ctx, "me@example.com")
	s.Require().NoError(err)
	s.Require().Len(docs, 1)
	s.Equal("documents/a.pdf", docs[0].StorageKey)

	got, err := s.store.GetDocument(s.ctx, mine.ID)
	s.Require().NoError(err)
	s.Equal(int64(1024), got.FileSize)

	reviewed, err := s.store.UpdateDocumentStatus(s.ctx, mine.ID, entity.DocumentReviewed)
	s.Require().NoError(err)
	s.Equal(entity.DocumentReviewed, reviewed.Status)

	_, err = s.store.GetDocument(s.ctx, uuid.New())
	s.ErrorIs(err, ErrDocumentNotFound)
}

func (s *storageSuite) TestBlogLifecycle() {
	draft, err := s.store.CreateBlogPost(s.ctx, entity.NewBlogPost{
		Title: "Deductions", Slug: "deductions", Excerpt: "e", Content: "c", Category: "tax-tips",
	})
	s.Require().NoError(err)
	s.False(draft.Published)
	s.Nil(draft.PublishedAt)

	_, err = s.store.CreateBlogPost(s.ctx, entity.NewBlogPost{Title: "Dup", Slug: "deductions", Excerpt: "e", Content: "c", Category: "planning"})
	s.ErrorIs(err, ErrSlugTaken)

	published, err := s.store.ListBlogPosts(s.ctx, boolPtr(true))
	s.Require().NoError(err)
	s.Empty(published)

	renamed, err := s.store.UpdateBlogPost(s.ctx, draft.ID, entity.BlogPostPatch{Slug: strPtr("deductions-2025"), Title: strPtr("Deductions 2025")})
	s.Require().NoError(err)
	s.Equal("deductions-2025", renamed.Slug)
	s.Equal("Deductions 2025", renamed.Title)
	s.Equal("e", renamed.Excerpt)
	s.False(renamed.UpdatedAt.Before(draft.UpdatedAt))

	first, err := s.store.PublishBlogPost(s.ctx, draft.ID)
	s.Require().NoError(err)
	s.True(first.Published)
	s.Require().NotNil(first.PublishedAt)

	again, err := s.store.PublishBlogPost(s.ctx, draft.ID)
	s.Require().NoError(err)
	s.True(first.PublishedAt.Equal(*again.PublishedAt))

	_, err = s.store.UpdateBlogPost(s.ctx, draft.ID, entity.BlogPostPatch{Slug: strPtr("changed")})
	s.ErrorIs(err, ErrSlugLocked)

	kept, err := s.store.UpdateBlogPost(s.ctx, draft.ID, entity.BlogPostPatch{Slug: strPtr("deductions-2025"), Content: strPtr("new body")})
	s.Require().NoError(err)
	s.Equal("new body", kept.Content)

	bySlug, err := s.store.GetBlogPostBySlug(s.ctx, "deductions-2025")
	s.Require().NoError(err)
	s.Equal(draft.ID, bySlug.ID)

	_, err = s.store.GetBlogPostBySlug(s.ctx, "deductions")
	s.ErrorIs(err, ErrBlogPostNotFound)
	_, err = s.store.PublishBlogPost(s.ctx, uuid.New())
	s.ErrorIs(err, ErrBlogPostNotFound)

	all, err := s.store.ListBlogPosts(s.ctx, nil)
	s.Require().NoError(err)
	s.Len(all, 1)
}

func (s *storageSuite) TestTestimonialModeration() {
	pending, err := s.store.CreateTestimonial(s.ctx, entity.NewTestimonial{
		ClientName: "Pat", ClientEmail: "pat@example.com", Rating: 5, TestimonialText: "Excellent service all round",
	})
	s.Require().NoError(err)
	s.False(pending.Approved)
	s.False(pending.Featured)

	_, err = s.store.CreateTestimonial(s.ctx, entity.NewTestimonial{
		ClientName: "Sam", ClientEmail: "sam@example.com", Rating: 4, TestimonialText: "Very helpful team", Service: strPtr("Business Tax Filing"),
	})
	s.Require().NoError(err)

	approved, err := s.store.ListTestimonials(s.ctx, entity.TestimonialFilter{Approved: boolPtr(true)})
	s.Require().NoError(err)
	s.Empty(approved)

	_, err = s.store.ApproveTestimonial(s.ctx, pending.ID)
	s.Require().NoError(err)
	featured, err := s.store.FeatureTestimonial(s.ctx, pending.ID, true)
	s.Require().NoError(err)
	s.True(featured.Approved)
	s.True(featured.Featured)

	visible, err := s.store.ListTestimonials(s.ctx, entity.TestimonialFilter{Approved: boolPtr(true), Featured: boolPtr(true)})
	s.Require().NoError(err)
	s.Require().Len(visible, 1)
	s.Equal("Pat", visible[0].ClientName)

	all, err := s.store.ListTestimonials(s.ctx, entity.TestimonialFilter{})
	s.Require().NoError(err)
	s.Require().Len(all, 2)
	s.Equal("Sam", all[0].ClientName)

	_, err = s.store.ApproveTestimonial(s.ctx, uuid.New())
	s.ErrorIs(err, ErrTestimonialNotFound)
}

func (s *storageSuite) TestUsersUniqueness() {
	user, err := s.store.CreateUser(s.ctx, entity.NewUser{
		Username: "jane", Email: "jane@example.com", PasswordHash: "hash", Role: entity.RoleClient,
	})
	s.Require().NoError(err)

	_, err = s.store.CreateUser(s.ctx, entity.NewUser{Username: "jane", Email: "other@example.com", PasswordHash: "hash", Role: entity.RoleClient})
	s.ErrorIs(err, ErrUsernameTaken)
	_, err = s.store.CreateUser(s.ctx, entity.NewUser{Username: "janet", Email: "jane@example.com", PasswordHash: "hash", Role: entity.RoleClient})
	s.ErrorIs(err, ErrEmailDuplicate)

	byID, err := s.store.FindUserByID(s.ctx, user.ID)
	s.Require().NoError(err)
	s.Equal("jane", byID.Username)

	byName, err := s.store.FindUserByUsername(s.ctx, "jane")
	s.Require().NoError(err)
	s.Equal(user.ID, byName.ID)

	_, err = s.store.FindUserByEmail(s.ctx, "nobody@example.com")
	s.ErrorIs(err, ErrUserNotFound)
}
