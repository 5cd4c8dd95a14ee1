package handler

import (
	"net/http"

	"github.com/gin-gonic/gin"
	"github.com/google/uuid"

	"agriverify/internal/csvexport"
	"agriverify/internal/service"
)

// DocumentHandler handles verification document endpoints.
type DocumentHandler struct {
	docService service.DocumentService
}

// NewDocumentHandler creates a new DocumentHandler.
func NewDocumentHandler(docService service.DocumentService) *DocumentHandler {
	return &DocumentHandler{docService: docService}
}

// List handles GET /api/v1/documents
func (h *DocumentHandler) List(c *gin.Context) {
	offset, limit := paginationParams(c)

	if farmerID := c.Query("farmer_id"); farmerID != "" {
		docs, total, err := h.docService.ListByFarmer(c.Request.Context(), farmerID, offset, limit)
		if err != nil {
			HandleError(c, err)
			return
		}
		RespondPaginated(c, docs, PagMeta{Total: total, Offset: offset, Limit: limit})
		return
	}

	docs, total, err := h.docService.List(c.Request.Context(), offset, limit)
	if err != nil {
		HandleError(c, err)
		return
	}
	RespondPaginated(c, docs, PagMeta{Total: total, Offset: offset, Limit: limit})
}

// Get handles GET /api/v1/documents/:id
func (h *DocumentHandler) Get(c *gin.Context) {
	docID, err := uuid.Parse(c.Param("id"))
	if err != nil {
		RespondError(c, http.StatusBadRequest, "INVALID_REQUEST", "invalid document id")
		return
	}

	doc, err := h.docService.GetByID(c.Request.Context(), docID)
	if err != nil {
		HandleError(c, err)
		return
	}
	RespondOK(c, doc)
}

// ImageURL handles GET /api/v1/documents/:id/image
// Returns a time-limited presigned URL for the stored document image.
func (h *DocumentHandler) ImageURL(c *gin.Context) {
	docID, err := uuid.Parse(c.Param("id"))
	if err != nil {
		RespondError(c, http.StatusBadRequest, "INVALID_REQUEST", "invalid document id")
		return
	}

	url, err := h.docService.GetImageURL(c.Request.Context(), docID)
	if err != nil {
		HandleError(c, err)
		return
	}
	RespondOK(c, gin.H{"url": url})
}

// Delete handles DELETE /api/v1/documents/:id
func (h *DocumentHandler) Delete(c *gin.Context) {
	docID, err := uuid.Parse(c.Param("id"))
	if err != nil {
		RespondError(c, http.StatusBadRequest, "INVALID_REQUEST", "invalid document id")
		return
	}

	if err := h.docService.Delete(c.Request.Context(), docID); err != nil {
		HandleError(c, err)
		return
	}
	RespondOK(c, gin.H{"deleted": docID})
}

// Export handles GET /api/v1/documents/export
// Streams all verification documents as a CSV download.
func (h *DocumentHandler) Export(c *gin.Context) {
	filename := csvexport.BuildFilename("verifications")
	c.Header("Content-Type", "text/csv; charset=utf-8")
	c.Header("Content-Disposition", `attachment; filename="`+filename+`"`)

	if err := h.docService.ExportCSV(c.Request.Context(), c.Writer); err != nil {
		// Headers are already sent, abort the stream.
		c.Abort()
		return
	}
}
