package handler

import (
	"mime"
	"net/http"

	"github.com/labstack/echo/v4"

	"github.com/provisionexpertax/taxportal/internal/dto"
	middlewarepkg "github.com/provisionexpertax/taxportal/internal/middleware"
	"github.com/provisionexpertax/taxportal/internal/service"
)

// DocumentsHandler exposes the client document area. Every route requires
// an authenticated caller; ownership is keyed on the caller's email.
type DocumentsHandler struct {
	service *service.DocumentService
}

// NewDocumentsHandler creates a new handler instance.
func NewDocumentsHandler(service *service.DocumentService) *DocumentsHandler {
	return &DocumentsHandler{service: service}
}

// Upload handles multipart POST /api/documents requests.
func (h *DocumentsHandler) Upload(c echo.Context) error {
	identity, ok := middlewarepkg.IdentityFromContext(c)
	if !ok {
		return Error(c, http.StatusUnauthorized, "authentication required")
	}

	fileHeader, err := c.FormFile("file")
	if err != nil {
		return ValidationFailed(c, "", map[string]string{"file": "file is required"})
	}
	file, err := fileHeader.Open()
	if err != nil {
		return Error(c, http.StatusBadRequest, "unable to open file")
	}
	defer file.Close()

	doc, err := h.service.Upload(c.Request().Context(), identity.Email, service.Upload{
		FileName:     fileHeader.Filename,
		Size:         fileHeader.Size,
		Content:      file,
		DocumentType: c.FormValue("documentType"),
	})
	if err != nil {
		return respondError(c, err, "failed to upload document")
	}
	return Success(c, http.StatusOK, "document uploaded", dto.NewDocumentResponse(*doc))
}

// List handles GET /api/documents requests.
func (h *DocumentsHandler) List(c echo.Context) error {
	identity, ok := middlewarepkg.IdentityFromContext(c)
	if !ok {
		return Error(c, http.StatusUnauthorized, "authentication required")
	}

	docs, err := h.service.List(c.Request().Context(), identity.Email)
	if err != nil {
		return respondError(c, err, "failed to fetch documents")
	}
	return Success(c, http.StatusOK, "", dto.NewDocumentResponses(docs))
}

// Download handles GET /api/documents/:id/download requests.
func (h *DocumentsHandler) Download(c echo.Context) error {
	identity, ok := middlewarepkg.IdentityFromContext(c)
	if !ok {
		return Error(c, http.StatusUnauthorized, "authentication required")
	}

	doc, content, err := h.service.Download(c.Request().Context(), identity.Email, c.Param("id"))
	if err != nil {
		return respondError(c, err, "failed to download document")
	}
	defer content.Close()

	disposition := mime.FormatMediaType("attachment", map[string]string{"filename": doc.FileName})
	if disposition == "" {
		disposition = "attachment"
	}
	c.Response().Header().Set(echo.HeaderContentDisposition, disposition)
	return c.Stream(http.StatusOK, doc.MimeType, content)
}

// UpdateStatus handles PATCH /api/documents/:id/status requests.
func (h *DocumentsHandler) UpdateStatus(c echo.Context) error {
	identity, ok := middlewarepkg.IdentityFromContext(c)
	if !ok {
		return Error(c, http.StatusUnauthorized, "authentication required")
	}

	var req dto.UpdateDocumentStatusRequest
	if err := c.Bind(&req); err != nil {
		return Error(c, http.StatusBadRequest, "invalid payload")
	}

	doc, err := h.service.UpdateStatus(c.Request().Context(), identity.Email, c.Param("id"), req)
	if err != nil {
		return respondError(c, err, "failed to update document status")
	}
	return Success(c, http.StatusOK, "document status updated", dto.NewDocumentResponse(*doc))
}
