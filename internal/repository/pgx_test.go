package repository

import (
	"context"
	"errors"
	"strings"
	"testing"
	"time"

	"github.com/google/uuid"
	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgconn"

	"github.com/provisionexpertax/taxportal/internal/entity"
)

type stubPool struct {
	queryRowFunc func(ctx context.Context, query string, args ...any) pgx.Row
	queryFunc    func(ctx context.Context, query string, args ...any) (pgx.Rows, error)
	execFunc     func(ctx context.Context, query string, args ...any) (pgconn.CommandTag, error)
	beginTxFunc  func(ctx context.Context, txOptions pgx.TxOptions) (pgx.Tx, error)
}

func (s *stubPool) QueryRow(ctx context.Context, query string, args ...any) pgx.Row {
	if s.queryRowFunc != nil {
		return s.queryRowFunc(ctx, query, args...)
	}
	return &stubRow{scan: func(dest ...any) error { return nil }}
}

func (s *stubPool) Query(ctx context.Context, query string, args ...any) (pgx.Rows, error) {
	if s.queryFunc != nil {
		return s.queryFunc(ctx, query, args...)
	}
	return nil, errors.New("query not implemented")
}

func (s *stubPool) Exec(ctx context.Context, query string, args ...any) (pgconn.CommandTag, error) {
	if s.execFunc != nil {
		return s.execFunc(ctx, query, args...)
	}
	return pgconn.CommandTag{}, errors.New("exec not implemented")
}

func (s *stubPool) BeginTx(ctx context.Context, txOptions pgx.TxOptions) (pgx.Tx, error) {
	if s.beginTxFunc != nil {
		return s.beginTxFunc(ctx, txOptions)
	}
	return nil, errors.New("begin tx not implemented")
}

type stubRow struct {
	scan func(dest ...any) error
}

func (s *stubRow) Scan(dest ...any) error {
	if s.scan != nil {
		return s.scan(dest...)
	}
	return nil
}

type stubRows struct {
	scans []func(dest ...any) error
	idx   int
	err   error
}

func (s *stubRows) Close() {}

func (s *stubRows) Err() error { return s.err }

func (s *stubRows) CommandTag() pgconn.CommandTag { return pgconn.CommandTag{} }

func (s *stubRows) FieldDescriptions() []pgconn.FieldDescription { return nil }

func (s *stubRows) Next() bool {
	if s.err != nil {
		return false
	}
	if s.idx < len(s.scans) {
		s.idx++
		return true
	}
	return false
}

func (s *stubRows) Scan(dest ...any) error {
	if s.idx == 0 || s.idx > len(s.scans) {
		return errors.New("scan called out of order")
	}
	return s.scans[s.idx-1](dest...)
}

func (s *stubRows) Values() ([]any, error) { return nil, nil }

func (s *stubRows) RawValues() [][]byte { return nil }

func (s *stubRows) Conn() *pgx.Conn { return nil }

// stubTx only implements the calls the store makes inside a transaction.
type stubTx struct {
	pgx.Tx
	queryRows  []func(dest ...any) error
	queries    []string
	committed  bool
	rolledBack bool
}

func (s *stubTx) QueryRow(_ context.Context, query string, _ ...any) pgx.Row {
	s.queries = append(s.queries, query)
	idx := len(s.queries) - 1
	if idx >= len(s.queryRows) {
		return &stubRow{scan: func(dest ...any) error { return errors.New("unexpected query") }}
	}
	return &stubRow{scan: s.queryRows[idx]}
}

func (s *stubTx) Commit(context.Context) error {
	s.committed = true
	return nil
}

func (s *stubTx) Rollback(context.Context) error {
	if !s.committed {
		s.rolledBack = true
	}
	return nil
}

func scanUserInto(id uuid.UUID, username, email, role string) func(dest ...any) error {
	return func(dest ...any) error {
		created := time.Now()
		*dest[0].(*uuid.UUID) = id
		*dest[1].(*string) = username
		*dest[2].(*string) = email
		*dest[3].(*string) = "hashed"
		*dest[4].(**string) = nil
		*dest[5].(**string) = nil
		*dest[6].(*string) = role
		*dest[7].(*time.Time) = created
		*dest[8].(*time.Time) = created
		return nil
	}
}

func scanPostInto(id uuid.UUID, slug string, published bool) func(dest ...any) error {
	return func(dest ...any) error {
		created := time.Now()
		*dest[0].(*uuid.UUID) = id
		*dest[1].(*string) = "Title"
		*dest[2].(*string) = slug
		*dest[3].(*string) = "Excerpt"
		*dest[4].(*string) = "Content"
		*dest[5].(*string) = "tax-tips"
		*dest[6].(**string) = nil
		*dest[7].(*bool) = published
		if published {
			*dest[8].(**time.Time) = &created
		}
		*dest[9].(*time.Time) = created
		*dest[10].(*time.Time) = created
		return nil
	}
}

func noRows(dest ...any) error { return pgx.ErrNoRows }

func TestPGXStore_FindUserByUsername(t *testing.T) {
	id := uuid.MustParse("aaaaaaaa-aaaa-aaaa-aaaa-aaaaaaaaaaaa")
	var gotQuery string
	store := &PGXStore{pool: &stubPool{
		queryRowFunc: func(ctx context.Context, query string, args ...any) pgx.Row {
			gotQuery = query
			return &stubRow{scan: scanUserInto(id, "jane", "jane@example.com", entity.RoleClient)}
		},
	}}

	user, err := store.FindUserByUsername(context.Background(), "jane")
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if user.ID != id || user.Username != "jane" || user.Role != entity.RoleClient {
		t.Fatalf("unexpected user: %+v", user)
	}
	if !strings.Contains(gotQuery, "WHERE username = $1") {
		t.Fatalf("unexpected query: %s", gotQuery)
	}

	store.pool = &stubPool{
		queryRowFunc: func(ctx context.Context, query string, args ...any) pgx.Row {
			return &stubRow{scan: noRows}
		},
	}
	if _, err := store.FindUserByEmail(context.Background(), "missing@example.com"); !errors.Is(err, ErrUserNotFound) {
		t.Fatalf("expected ErrUserNotFound, got %v", err)
	}
}

func TestPGXStore_CreateUserMapsUniqueViolations(t *testing.T) {
	cases := map[string]struct {
		constraint string
		want       error
	}{
		"username": {constraint: "users_username_key", want: ErrUsernameTaken},
		"email":    {constraint: "users_email_key", want: ErrEmailDuplicate},
	}

	for name, tc := range cases {
		t.Run(name, func(t *testing.T) {
			store := &PGXStore{pool: &stubPool{
				queryRowFunc: func(ctx context.Context, query string, args ...any) pgx.Row {
					return &stubRow{scan: func(dest ...any) error {
						return &pgconn.PgError{Code: "23505", ConstraintName: tc.constraint}
					}}
				},
			}}
			_, err := store.CreateUser(context.Background(), entity.NewUser{Username: "jane", Email: "jane@example.com"})
			if !errors.Is(err, tc.want) {
				t.Fatalf("expected %v, got %v", tc.want, err)
			}
		})
	}
}

func TestPGXStore_CreateBlogPostDuplicateSlug(t *testing.T) {
	store := &PGXStore{pool: &stubPool{
		queryRowFunc: func(ctx context.Context, query string, args ...any) pgx.Row {
			return &stubRow{scan: func(dest ...any) error {
				return &pgconn.PgError{Code: "23505", ConstraintName: "blog_posts_slug_key"}
			}}
		},
	}}

	if _, err := store.CreateBlogPost(context.Background(), entity.NewBlogPost{Slug: "taken"}); !errors.Is(err, ErrSlugTaken) {
		t.Fatalf("expected ErrSlugTaken, got %v", err)
	}
}

func TestPGXStore_UpdateBlogPostRejectsSlugChangeWhenPublished(t *testing.T) {
	id := uuid.New()
	tx := &stubTx{queryRows: []func(dest ...any) error{scanPostInto(id, "original", true)}}
	store := &PGXStore{pool: &stubPool{
		beginTxFunc: func(ctx context.Context, opts pgx.TxOptions) (pgx.Tx, error) { return tx, nil },
	}}

	slug := "renamed"
	_, err := store.UpdateBlogPost(context.Background(), id, entity.BlogPostPatch{Slug: &slug})
	if !errors.Is(err, ErrSlugLocked) {
		t.Fatalf("expected ErrSlugLocked, got %v", err)
	}
	if tx.committed || !tx.rolledBack {
		t.Fatalf("expected rollback without commit")
	}
	if !strings.Contains(tx.queries[0], "FOR UPDATE") {
		t.Fatalf("expected row lock, got %s", tx.queries[0])
	}
}

func TestPGXStore_UpdateBlogPostBuildsPartialUpdate(t *testing.T) {
	id := uuid.New()
	tx := &stubTx{queryRows: []func(dest ...any) error{
		scanPostInto(id, "draft", false),
		scanPostInto(id, "draft-renamed", false),
	}}
	store := &PGXStore{pool: &stubPool{
		beginTxFunc: func(ctx context.Context, opts pgx.TxOptions) (pgx.Tx, error) { return tx, nil },
	}}

	title := "New title"
	slug := "draft-renamed"
	post, err := store.UpdateBlogPost(context.Background(), id, entity.BlogPostPatch{Title: &title, Slug: &slug})
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if post.Slug != "draft-renamed" || !tx.committed {
		t.Fatalf("expected committed update, got %+v committed=%v", post, tx.committed)
	}
	update := tx.queries[1]
	if !strings.Contains(update, "title = $1") || !strings.Contains(update, "slug = $2") || !strings.Contains(update, "WHERE id = $3") {
		t.Fatalf("unexpected update query: %s", update)
	}
	if strings.Contains(update, "excerpt =") {
		t.Fatalf("untouched columns must not be updated: %s", update)
	}
}

func TestPGXStore_PublishKeepsFirstPublishedAt(t *testing.T) {
	var gotQuery string
	store := &PGXStore{pool: &stubPool{
		queryRowFunc: func(ctx context.Context, query string, args ...any) pgx.Row {
			gotQuery = query
			return &stubRow{scan: scanPostInto(uuid.New(), "post", true)}
		},
	}}

	post, err := store.PublishBlogPost(context.Background(), uuid.New())
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if !post.Published || post.PublishedAt == nil {
		t.Fatalf("expected published post: %+v", post)
	}
	if !strings.Contains(gotQuery, "COALESCE(published_at") {
		t.Fatalf("publish must keep an existing publishedAt: %s", gotQuery)
	}
}

func TestPGXStore_ListTestimonialsFilter(t *testing.T) {
	var gotQuery string
	var gotArgs []any
	store := &PGXStore{pool: &stubPool{
		queryFunc: func(ctx context.Context, query string, args ...any) (pgx.Rows, error) {
			gotQuery = query
			gotArgs = args
			return &stubRows{}, nil
		},
	}}

	approved, featured := true, false
	rows, err := store.ListTestimonials(context.Background(), entity.TestimonialFilter{Approved: &approved, Featured: &featured})
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if rows == nil || len(rows) != 0 {
		t.Fatalf("expected empty non-nil slice, got %#v", rows)
	}
	if !strings.Contains(gotQuery, "WHERE approved = $1 AND featured = $2") || len(gotArgs) != 2 {
		t.Fatalf("unexpected query %q args %v", gotQuery, gotArgs)
	}
}

func TestPGXStore_UpdateAppointmentStatusNotFound(t *testing.T) {
	store := &PGXStore{pool: &stubPool{
		queryRowFunc: func(ctx context.Context, query string, args ...any) pgx.Row {
			return &stubRow{scan: noRows}
		},
	}}

	_, err := store.UpdateAppointmentStatus(context.Background(), uuid.New(), entity.AppointmentConfirmed)
	if !errors.Is(err, ErrAppointmentNotFound) || !errors.Is(err, ErrNotFound) {
		t.Fatalf("expected appointment not found, got %v", err)
	}
}

func TestPGXStore_EnsureAgent(t *testing.T) {
	tags := []string{"INSERT 0 1", "INSERT 0 0"}
	calls := 0
	store := &PGXStore{pool: &stubPool{
		execFunc: func(ctx context.Context, query string, args ...any) (pgconn.CommandTag, error) {
			if !strings.Contains(query, "ON CONFLICT (email) DO NOTHING") {
				t.Fatalf("unexpected query: %s", query)
			}
			tag := pgconn.NewCommandTag(tags[calls])
			calls++
			return tag, nil
		},
	}}

	created, err := store.EnsureAgent(context.Background(), entity.NewAgent{Name: "Sandy", Email: "sandy@example.com"})
	if err != nil || !created {
		t.Fatalf("expected first insert to create, got %v %v", created, err)
	}
	created, err = store.EnsureAgent(context.Background(), entity.NewAgent{Name: "Sandy", Email: "sandy@example.com"})
	if err != nil || created {
		t.Fatalf("expected second insert to be a no-op, got %v %v", created, err)
	}
}

func TestPGXStore_ListAgentsAppliesRosterOrder(t *testing.T) {
	names := []string{"Zed", "Jennifer Constantino", "AI Tax Agent", "Sandy"}
	scans := make([]func(dest ...any) error, 0, len(names))
	for _, name := range names {
		name := name
		scans = append(scans, func(dest ...any) error {
			*dest[0].(*uuid.UUID) = uuid.New()
			*dest[1].(*string) = name
			*dest[6].(*[]string) = nil
			return nil
		})
	}
	store := &PGXStore{pool: &stubPool{
		queryFunc: func(ctx context.Context, query string, args ...any) (pgx.Rows, error) {
			return &stubRows{scans: scans}, nil
		},
	}}

	agents, err := store.ListAgents(context.Background())
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	want := []string{"Sandy", "AI Tax Agent", "Jennifer Constantino", "Zed"}
	for i, name := range want {
		if agents[i].Name != name {
			t.Fatalf("position %d: expected %s, got %s", i, name, agents[i].Name)
		}
	}
	if agents[0].Credentials == nil {
		t.Fatalf("credentials should never be nil")
	}
}
