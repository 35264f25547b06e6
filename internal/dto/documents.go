package dto

import (
	"time"

	validation "github.com/go-ozzo/ozzo-validation/v4"

	"github.com/provisionexpertax/taxportal/internal/entity"
)

// UploadDocumentForm holds the non-file fields of a document upload.
type UploadDocumentForm struct {
	DocumentType string `json:"documentType"`
}

func (r UploadDocumentForm) Validate() error {
	return validation.ValidateStruct(&r,
		validation.Field(&r.DocumentType,
			validation.Required.Error("document type is required"),
			validation.In(stringsToAny(entity.DocumentTypes)...).Error("must be one of w2, 1099, receipt, bank_statement, tax_return, other"),
		),
	)
}

// UpdateDocumentStatusRequest moves a document through review.
type UpdateDocumentStatusRequest struct {
	Status string `json:"status"`
}

func (r UpdateDocumentStatusRequest) Validate() error {
	return validation.ValidateStruct(&r,
		validation.Field(&r.Status,
			validation.Required.Error("status is required"),
			validation.In(string(entity.DocumentUploaded), string(entity.DocumentProcessing), string(entity.DocumentReviewed)).
				Error("must be one of uploaded, processing, reviewed"),
		),
	)
}

// DocumentResponse is the public view of a document. The blob location is
// replaced by the download route.
type DocumentResponse struct {
	ID           string    `json:"id"`
	ClientEmail  string    `json:"clientEmail"`
	FileName     string    `json:"fileName"`
	FileURL      string    `json:"fileUrl"`
	MimeType     string    `json:"mimeType"`
	FileSize     int64     `json:"fileSize"`
	DocumentType string    `json:"documentType"`
	Status       string    `json:"status"`
	UploadedAt   time.Time `json:"uploadedAt"`
}

// NewDocumentResponse converts a stored document.
func NewDocumentResponse(d entity.Document) DocumentResponse {
	return DocumentResponse{
		ID:           d.ID.String(),
		ClientEmail:  d.ClientEmail,
		FileName:     d.FileName,
		FileURL:      "/api/documents/" + d.ID.String() + "/download",
		MimeType:     d.MimeType,
		FileSize:     d.FileSize,
		DocumentType: d.DocumentType,
		Status:       string(d.Status),
		UploadedAt:   d.UploadedAt,
	}
}

// NewDocumentResponses converts a list of stored documents.
func NewDocumentResponses(docs []entity.Document) []DocumentResponse {
	out := make([]DocumentResponse, 0, len(docs))
	for _, d := range docs {
		out = append(out, NewDocumentResponse(d))
	}
	return out
}
