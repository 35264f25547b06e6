package entity

import (
	"time"

	"github.com/google/uuid"
)

// DocumentStatus tracks review progress of an uploaded client document.
type DocumentStatus string

const (
	DocumentUploaded   DocumentStatus = "uploaded"
	DocumentProcessing DocumentStatus = "processing"
	DocumentReviewed   DocumentStatus = "reviewed"
)

// Valid reports whether s is a known document status.
func (s DocumentStatus) Valid() bool {
	switch s {
	case DocumentUploaded, DocumentProcessing, DocumentReviewed:
		return true
	}
	return false
}

// DocumentTypes lists the accepted documentType values.
var DocumentTypes = []string{"w2", "1099", "receipt", "bank_statement", "tax_return", "other"}

// Document is a file uploaded by a client. StorageKey is the location in the
// blob store and is never serialized.
type Document struct {
	ID           uuid.UUID      `json:"id"`
	ClientEmail  string         `json:"clientEmail"`
	FileName     string         `json:"fileName"`
	StorageKey   string         `json:"-"`
	MimeType     string         `json:"mimeType"`
	FileSize     int64          `json:"fileSize"`
	DocumentType string         `json:"documentType"`
	Status       DocumentStatus `json:"status"`
	UploadedAt   time.Time      `json:"uploadedAt"`
}

// NewDocument describes a stored upload.
type NewDocument struct {
	ClientEmail  string
	FileName     string
	StorageKey   string
	MimeType     string
	FileSize     int64
	DocumentType string
	Status       DocumentStatus
}
