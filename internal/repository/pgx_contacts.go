package repository

import (
	"context"
	"fmt"

	"github.com/jackc/pgx/v5"

	"github.com/provisionexpertax/taxportal/internal/entity"
)

const contactColumns = `id, first_name, last_name, email, phone, service, message, created_at`

func scanContact(row pgx.Row) (*entity.Contact, error) {
	var c entity.Contact
	if err := row.Scan(&c.ID, &c.FirstName, &c.LastName, &c.Email, &c.Phone, &c.Service, &c.Message, &c.CreatedAt); err != nil {
		return nil, err
	}
	return &c, nil
}

// CreateContact inserts a contact submission.
func (s *PGXStore) CreateContact(ctx context.Context, in entity.NewContact) (*entity.Contact, error) {
	row := s.pool.QueryRow(ctx, `
        INSERT INTO contacts (first_name, last_name, email, phone, service, message)
        VALUES ($1, $2, $3, $4, $5, $6)
        RETURNING `+contactColumns,
		in.FirstName, in.LastName, in.Email, in.Phone, in.Service, in.Message)

	contact, err := scanContact(row)
	if err != nil {
		return nil, fmt.Errorf("insert contact: %w", err)
	}
	return contact, nil
}

// ListContacts returns every contact, newest first.
func (s *PGXStore) ListContacts(ctx context.Context) ([]entity.Contact, error) {
	rows, err := s.pool.Query(ctx, `SELECT `+contactColumns+` FROM contacts ORDER BY created_at DESC, seq DESC`)
	if err != nil {
		return nil, fmt.Errorf("list contacts: %w", err)
	}
	defer rows.Close()

	contacts := make([]entity.Contact, 0)
	for rows.Next() {
		c, err := scanContact(rows)
		if err != nil {
			return nil, fmt.Errorf("scan contact row: %w", err)
		}
		contacts = append(contacts, *c)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("iterate contacts: %w", err)
	}
	return contacts, nil
}
