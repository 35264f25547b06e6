package repository

import (
	"context"
	"errors"
	"fmt"
	"strings"

	"github.com/google/uuid"
	"github.com/jackc/pgx/v5"

	"github.com/provisionexpertax/taxportal/internal/entity"
)

const (
	blogColumns        = `id, title, slug, excerpt, content, category, author_id, published, published_at, created_at, updated_at`
	blogSlugConstraint = "blog_posts_slug_key"
)

func scanBlogPost(row pgx.Row) (*entity.BlogPost, error) {
	var p entity.BlogPost
	if err := row.Scan(&p.ID, &p.Title, &p.Slug, &p.Excerpt, &p.Content, &p.Category, &p.AuthorID,
		&p.Published, &p.PublishedAt, &p.CreatedAt, &p.UpdatedAt); err != nil {
		return nil, err
	}
	return &p, nil
}

func blogWriteError(op string, err error) error {
	if errors.Is(err, pgx.ErrNoRows) {
		return ErrBlogPostNotFound
	}
	if isUniqueViolation(err, blogSlugConstraint) {
		return ErrSlugTaken
	}
	return fmt.Errorf("%s: %w", op, err)
}

// CreateBlogPost inserts a draft.
func (s *PGXStore) CreateBlogPost(ctx context.Context, in entity.NewBlogPost) (*entity.BlogPost, error) {
	row := s.pool.QueryRow(ctx, `
        INSERT INTO blog_posts (title, slug, excerpt, content, category, author_id, published)
        VALUES ($1, $2, $3, $4, $5, $6, FALSE)
        RETURNING `+blogColumns,
		in.Title, in.Slug, in.Excerpt, in.Content, in.Category, in.AuthorID)

	post, err := scanBlogPost(row)
	if err != nil {
		return nil, blogWriteError("insert blog post", err)
	}
	return post, nil
}

// ListBlogPosts returns posts newest first, optionally filtered by published state.
func (s *PGXStore) ListBlogPosts(ctx context.Context, published *bool) ([]entity.BlogPost, error) {
	query := `SELECT ` + blogColumns + ` FROM blog_posts`
	args := make([]any, 0, 1)
	if published != nil {
		query += ` WHERE published = $1`
		args = append(args, *published)
	}
	query += ` ORDER BY created_at DESC, seq DESC`

	rows, err := s.pool.Query(ctx, query, args...)
	if err != nil {
		return nil, fmt.Errorf("list blog posts: %w", err)
	}
	defer rows.Close()

	posts := make([]entity.BlogPost, 0)
	for rows.Next() {
		p, err := scanBlogPost(rows)
		if err != nil {
			return nil, fmt.Errorf("scan blog post row: %w", err)
		}
		posts = append(posts, *p)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("iterate blog posts: %w", err)
	}
	return posts, nil
}

// GetBlogPost fetches a post by id.
func (s *PGXStore) GetBlogPost(ctx context.Context, id uuid.UUID) (*entity.BlogPost, error) {
	post, err := scanBlogPost(s.pool.QueryRow(ctx, `SELECT `+blogColumns+` FROM blog_posts WHERE id = $1`, id))
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, ErrBlogPostNotFound
		}
		return nil, fmt.Errorf("query blog post: %w", err)
	}
	return post, nil
}

// GetBlogPostBySlug fetches a post by its public slug.
func (s *PGXStore) GetBlogPostBySlug(ctx context.Context, slug string) (*entity.BlogPost, error) {
	post, err := scanBlogPost(s.pool.QueryRow(ctx, `SELECT `+blogColumns+` FROM blog_posts WHERE slug = $1`, slug))
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, ErrBlogPostNotFound
		}
		return nil, fmt.Errorf("query blog post by slug: %w", err)
	}
	return post, nil
}

// UpdateBlogPost applies a partial edit. The row is locked while the slug
// rule is checked so a concurrent publish cannot slip in between.
func (s *PGXStore) UpdateBlogPost(ctx context.Context, id uuid.UUID, patch entity.BlogPostPatch) (*entity.BlogPost, error) {
	tx, err := s.pool.BeginTx(ctx, pgx.TxOptions{})
	if err != nil {
		return nil, fmt.Errorf("begin blog update: %w", err)
	}
	defer tx.Rollback(ctx)

	current, err := scanBlogPost(tx.QueryRow(ctx, `SELECT `+blogColumns+` FROM blog_posts WHERE id = $1 FOR UPDATE`, id))
	if err != nil {
		return nil, blogWriteError("lock blog post", err)
	}
	if patch.Slug != nil && *patch.Slug != current.Slug && current.Published {
		return nil, ErrSlugLocked
	}

	setClauses := make([]string, 0, 6)
	args := make([]any, 0, 6)
	idx := 1
	add := func(column string, value *string) {
		if value == nil {
			return
		}
		setClauses = append(setClauses, fmt.Sprintf("%s = $%d", column, idx))
		args = append(args, *value)
		idx++
	}
	add("title", patch.Title)
	add("slug", patch.Slug)
	add("excerpt", patch.Excerpt)
	add("content", patch.Content)
	add("category", patch.Category)

	setClauses = append(setClauses, "updated_at = clock_timestamp()")
	args = append(args, id)

	query := fmt.Sprintf(`UPDATE blog_posts SET %s WHERE id = $%d RETURNING %s`, strings.Join(setClauses, ", "), idx, blogColumns)
	post, err := scanBlogPost(tx.QueryRow(ctx, query, args...))
	if err != nil {
		return nil, blogWriteError("update blog post", err)
	}

	if err := tx.Commit(ctx); err != nil {
		return nil, blogWriteError("commit blog update", err)
	}
	return post, nil
}

// PublishBlogPost marks the post published, keeping an existing publishedAt.
func (s *PGXStore) PublishBlogPost(ctx context.Context, id uuid.UUID) (*entity.BlogPost, error) {
	row := s.pool.QueryRow(ctx, `
        UPDATE blog_posts
        SET published = TRUE,
            published_at = COALESCE(published_at, clock_timestamp()),
            updated_at = clock_timestamp()
        WHERE id = $1
        RETURNING `+blogColumns, id)

	post, err := scanBlogPost(row)
	if err != nil {
		return nil, blogWriteError("publish blog post", err)
	}
	return post, nil
}
