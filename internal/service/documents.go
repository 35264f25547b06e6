package service

import (
	"context"
	"errors"
	"fmt"
	"io"
	"path/filepath"
	"strings"

	"github.com/gabriel-vasile/mimetype"
	"github.com/google/uuid"

	"github.com/provisionexpertax/taxportal/internal/dto"
	"github.com/provisionexpertax/taxportal/internal/entity"
	"github.com/provisionexpertax/taxportal/internal/filestore"
	"github.com/provisionexpertax/taxportal/internal/repository"
)

// MaxDocumentSize is the largest accepted upload in bytes.
const MaxDocumentSize int64 = 10 << 20

// AllowedDocumentTypes are the MIME types clients may upload.
var AllowedDocumentTypes = []string{
	"application/pdf",
	"image/jpeg",
	"image/png",
	"application/msword",
	"application/vnd.openxmlformats-officedocument.wordprocessingml.document",
	"application/vnd.ms-excel",
	"application/vnd.openxmlformats-officedocument.spreadsheetml.sheet",
}

// Upload is a client file received by the transport layer.
type Upload struct {
	FileName     string
	Size         int64
	Content      io.ReadSeeker
	DocumentType string
}

// DocumentService stores client documents and enforces ownership. The owner
// is always the authenticated caller's email.
type DocumentService struct {
	repo  repository.DocumentsRepository
	files filestore.Store
}

// NewDocumentService constructs a DocumentService.
func NewDocumentService(repo repository.DocumentsRepository, files filestore.Store) *DocumentService {
	return &DocumentService{repo: repo, files: files}
}

// Upload checks the file, writes the blob under a generated key and records it.
func (s *DocumentService) Upload(ctx context.Context, owner string, up Upload) (*entity.Document, error) {
	if err := (dto.UploadDocumentForm{DocumentType: up.DocumentType}).Validate(); err != nil {
		return nil, validationFailed(err)
	}
	if up.Content == nil || up.Size <= 0 {
		return nil, invalidField("file", "file is required")
	}
	if up.Size > MaxDocumentSize {
		return nil, invalidField("file", "file exceeds the 10MB limit")
	}

	detected, err := mimetype.DetectReader(up.Content)
	if err != nil {
		return nil, fmt.Errorf("detect file type: %w", err)
	}
	if _, err := up.Content.Seek(0, io.SeekStart); err != nil {
		return nil, fmt.Errorf("rewind upload: %w", err)
	}
	mimeType, ok := allowedMIME(detected)
	if !ok {
		return nil, invalidField("file", "invalid file type; only PDF, images, and office documents are allowed")
	}

	key := "documents/" + uuid.NewString() + detected.Extension()
	if err := s.files.Put(ctx, key, up.Content, up.Size, mimeType); err != nil {
		return nil, fmt.Errorf("store document: %w", err)
	}

	return s.repo.CreateDocument(ctx, entity.NewDocument{
		ClientEmail:  strings.ToLower(strings.TrimSpace(owner)),
		FileName:     displayName(up.FileName, detected.Extension()),
		StorageKey:   key,
		MimeType:     mimeType,
		FileSize:     up.Size,
		DocumentType: up.DocumentType,
		Status:       entity.DocumentUploaded,
	})
}

// List returns the owner's documents, newest first.
func (s *DocumentService) List(ctx context.Context, owner string) ([]entity.Document, error) {
	return s.repo.ListDocumentsByClient(ctx, strings.ToLower(strings.TrimSpace(owner)))
}

// Download opens a document's content. Documents of other owners are
// reported as not found.
func (s *DocumentService) Download(ctx context.Context, owner, id string) (*entity.Document, io.ReadCloser, error) {
	doc, err := s.owned(ctx, owner, id)
	if err != nil {
		return nil, nil, err
	}
	content, err := s.files.Open(ctx, doc.StorageKey)
	if err != nil {
		if errors.Is(err, filestore.ErrNotFound) {
			return nil, nil, repository.ErrDocumentNotFound
		}
		return nil, nil, fmt.Errorf("open document: %w", err)
	}
	return doc, content, nil
}

// UpdateStatus moves one of the owner's documents to another review status.
func (s *DocumentService) UpdateStatus(ctx context.Context, owner, id string, req dto.UpdateDocumentStatusRequest) (*entity.Document, error) {
	if err := req.Validate(); err != nil {
		return nil, validationFailed(err)
	}
	doc, err := s.owned(ctx, owner, id)
	if err != nil {
		return nil, err
	}
	return s.repo.UpdateDocumentStatus(ctx, doc.ID, entity.DocumentStatus(req.Status))
}

func (s *DocumentService) owned(ctx context.Context, owner, id string) (*entity.Document, error) {
	docID, err := uuid.Parse(id)
	if err != nil {
		return nil, repository.ErrDocumentNotFound
	}
	doc, err := s.repo.GetDocument(ctx, docID)
	if err != nil {
		return nil, err
	}
	owner = strings.TrimSpace(owner)
	if owner == "" || !strings.EqualFold(doc.ClientEmail, owner) {
		return nil, repository.ErrDocumentNotFound
	}
	return doc, nil
}

// allowedMIME walks from the detected type up through its parents and
// returns the first allow-listed type.
func allowedMIME(detected *mimetype.MIME) (string, bool) {
	for m := detected; m != nil; m = m.Parent() {
		for _, allowed := range AllowedDocumentTypes {
			if m.Is(allowed) {
				return allowed, true
			}
		}
	}
	return "", false
}

func displayName(name, ext string) string {
	name = filepath.Base(strings.ReplaceAll(strings.TrimSpace(name), "\\", "/"))
	if name == "" || name == "." || name == "/" {
		return "document" + ext
	}
	return name
}
