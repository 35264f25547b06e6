package repository

import (
	"context"
	"errors"
	"fmt"

	"github.com/google/uuid"
	"github.com/jackc/pgx/v5"

	"github.com/provisionexpertax/taxportal/internal/entity"
)

const documentColumns = `id, client_email, file_name, storage_key, mime_type, file_size, document_type, status, uploaded_at`

func scanDocument(row pgx.Row) (*entity.Document, error) {
	var d entity.Document
	var status string
	if err := row.Scan(&d.ID, &d.ClientEmail, &d.FileName, &d.StorageKey, &d.MimeType, &d.FileSize,
		&d.DocumentType, &status, &d.UploadedAt); err != nil {
		return nil, err
	}
	d.Status = entity.DocumentStatus(status)
	return &d, nil
}

// CreateDocument records an uploaded file.
func (s *PGXStore) CreateDocument(ctx context.Context, in entity.NewDocument) (*entity.Document, error) {
	status := in.Status
	if status == "" {
		status = entity.DocumentUploaded
	}
	row := s.pool.QueryRow(ctx, `
        INSERT INTO documents (client_email, file_name, storage_key, mime_type, file_size, document_type, status)
        VALUES ($1, $2, $3, $4, $5, $6, $7)
        RETURNING `+documentColumns,
		in.ClientEmail, in.FileName, in.StorageKey, in.MimeType, in.FileSize, in.DocumentType, string(status))

	doc, err := scanDocument(row)
	if err != nil {
		return nil, fmt.Errorf("insert document: %w", err)
	}
	return doc, nil
}

// GetDocument fetches a document by id.
func (s *PGXStore) GetDocument(ctx context.Context, id uuid.UUID) (*entity.Document, error) {
	doc, err := scanDocument(s.pool.QueryRow(ctx, `SELECT `+documentColumns+` FROM documents WHERE id = $1`, id))
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, ErrDocumentNotFound
		}
		return nil, fmt.Errorf("query document: %w", err)
	}
	return doc, nil
}

// ListDocumentsByClient returns a client's uploads, newest first.
func (s *PGXStore) ListDocumentsByClient(ctx context.Context, clientEmail string) ([]entity.Document, error) {
	rows, err := s.pool.Query(ctx, `
        SELECT `+documentColumns+`
        FROM documents
        WHERE client_email = $1
        ORDER BY uploaded_at DESC, seq DESC`, clientEmail)
	if err != nil {
		return nil, fmt.Errorf("list documents: %w", err)
	}
	defer rows.Close()

	docs := make([]entity.Document, 0)
	for rows.Next() {
		d, err := scanDocument(rows)
		if err != nil {
			return nil, fmt.Errorf("scan document row: %w", err)
		}
		docs = append(docs, *d)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("iterate documents: %w", err)
	}
	return docs, nil
}

// UpdateDocumentStatus moves a document through review.
func (s *PGXStore) UpdateDocumentStatus(ctx context.Context, id uuid.UUID, status entity.DocumentStatus) (*entity.Document, error) {
	doc, err := scanDocument(s.pool.QueryRow(ctx,
		`UPDATE documents SET status = $1 WHERE id = $2 RETURNING `+documentColumns, string(status), id))
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, ErrDocumentNotFound
		}
		return nil, fmt.Errorf("update document status: %w", err)
	}
	return doc, nil
}
