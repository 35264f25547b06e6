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

const testimonialColumns = `id, client_name, client_email, rating, testimonial_text, service, approved, featured, created_at`

func scanTestimonial(row pgx.Row) (*entity.Testimonial, error) {
	var t entity.Testimonial
	if err := row.Scan(&t.ID, &t.ClientName, &t.ClientEmail, &t.Rating, &t.TestimonialText, &t.Service,
		&t.Approved, &t.Featured, &t.CreatedAt); err != nil {
		return nil, err
	}
	return &t, nil
}

// CreateTestimonial stores a submission awaiting moderation.
func (s *PGXStore) CreateTestimonial(ctx context.Context, in entity.NewTestimonial) (*entity.Testimonial, error) {
	row := s.pool.QueryRow(ctx, `
        INSERT INTO testimonials (client_name, client_email, rating, testimonial_text, service, approved, featured)
        VALUES ($1, $2, $3, $4, $5, FALSE, FALSE)
        RETURNING `+testimonialColumns,
		in.ClientName, in.ClientEmail, in.Rating, in.TestimonialText, in.Service)

	testimonial, err := scanTestimonial(row)
	if err != nil {
		return nil, fmt.Errorf("insert testimonial: %w", err)
	}
	return testimonial, nil
}

// ListTestimonials returns testimonials matching the filter, newest first.
func (s *PGXStore) ListTestimonials(ctx context.Context, filter entity.TestimonialFilter) ([]entity.Testimonial, error) {
	conditions := make([]string, 0, 2)
	args := make([]any, 0, 2)
	idx := 1
	if filter.Approved != nil {
		conditions = append(conditions, fmt.Sprintf("approved = $%d", idx))
		args = append(args, *filter.Approved)
		idx++
	}
	if filter.Featured != nil {
		conditions = append(conditions, fmt.Sprintf("featured = $%d", idx))
		args = append(args, *filter.Featured)
	}

	query := `SELECT ` + testimonialColumns + ` FROM testimonials`
	if len(conditions) > 0 {
		query += ` WHERE ` + strings.Join(conditions, " AND ")
	}
	query += ` ORDER BY created_at DESC, seq DESC`

	rows, err := s.pool.Query(ctx, query, args...)
	if err != nil {
		return nil, fmt.Errorf("list testimonials: %w", err)
	}
	defer rows.Close()

	testimonials := make([]entity.Testimonial, 0)
	for rows.Next() {
		t, err := scanTestimonial(rows)
		if err != nil {
			return nil, fmt.Errorf("scan testimonial row: %w", err)
		}
		testimonials = append(testimonials, *t)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("iterate testimonials: %w", err)
	}
	return testimonials, nil
}

// ApproveTestimonial makes a testimonial publicly visible.
func (s *PGXStore) ApproveTestimonial(ctx context.Context, id uuid.UUID) (*entity.Testimonial, error) {
	return s.updateTestimonial(ctx, `UPDATE testimonials SET approved = TRUE WHERE id = $1 RETURNING `+testimonialColumns, id)
}

// FeatureTestimonial sets or clears the featured flag.
func (s *PGXStore) FeatureTestimonial(ctx context.Context, id uuid.UUID, featured bool) (*entity.Testimonial, error) {
	return s.updateTestimonial(ctx, `UPDATE testimonials SET featured = $2 WHERE id = $1 RETURNING `+testimonialColumns, id, featured)
}

func (s *PGXStore) updateTestimonial(ctx context.Context, query string, args ...any) (*entity.Testimonial, error) {
	testimonial, err := scanTestimonial(s.pool.QueryRow(ctx, query, args...))
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, ErrTestimonialNotFound
		}
		return nil, fmt.Errorf("update testimonial: %w", err)
	}
	return testimonial, nil
}
