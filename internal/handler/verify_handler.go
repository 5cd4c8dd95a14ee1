package handler

import (
	"io"
	"net/http"

	"github.com/gin-gonic/gin"

	"agriverify/internal/extract"
	"agriverify/internal/service"
)

// VerifyHandler handles document verification endpoints.
type VerifyHandler struct {
	verifyService service.VerificationService
}

// NewVerifyHandler creates a new VerifyHandler.
func NewVerifyHandler(verifyService service.VerificationService) *VerifyHandler {
	return &VerifyHandler{verifyService: verifyService}
}

// Verify handles POST /api/v1/verify
// Accepts a multipart form with a "file" field and runs the full
// quality, OCR, extraction and matching pipeline.
func (h *VerifyHandler) Verify(c *gin.Context) {
	userID, _, ok := extractAuthContext(c)
	if !ok {
		return
	}

	file, header, err := c.Request.FormFile("file")
	if err != nil {
		RespondError(c, http.StatusBadRequest, "INVALID_REQUEST", "file is required")
		return
	}
	defer file.Close()

	data, err := io.ReadAll(file)
	if err != nil {
		RespondError(c, http.StatusBadRequest, "INVALID_REQUEST", "could not read uploaded file")
		return
	}

	result, err := h.verifyService.Verify(c.Request.Context(), service.VerifyInput{
		FileName:    header.Filename,
		ContentType: header.Header.Get("Content-Type"),
		Image:       data,
		UploadedBy:  userID,
	})
	if err != nil {
		HandleError(c, err)
		return
	}
	RespondOK(c, result)
}

// Quality handles POST /api/v1/verify/quality
// Runs only the image quality gate and returns the report.
func (h *VerifyHandler) Quality(c *gin.Context) {
	data, ok := readUpload(c)
	if !ok {
		return
	}

	report, err := h.verifyService.CheckQuality(c.Request.Context(), data)
	if err != nil {
		HandleError(c, err)
		return
	}
	RespondOK(c, report)
}

// OCR handles POST /api/v1/verify/ocr
// Runs recognition and field extraction without matching.
func (h *VerifyHandler) OCR(c *gin.Context) {
	file, header, err := c.Request.FormFile("file")
	if err != nil {
		RespondError(c, http.StatusBadRequest, "INVALID_REQUEST", "file is required")
		return
	}
	defer file.Close()

	data, err := io.ReadAll(file)
	if err != nil {
		RespondError(c, http.StatusBadRequest, "INVALID_REQUEST", "could not read uploaded file")
		return
	}

	result, err := h.verifyService.Recognize(c.Request.Context(), data, header.Header.Get("Content-Type"))
	if err != nil {
		HandleError(c, err)
		return
	}
	RespondOK(c, result)
}

// ValidateFields handles POST /api/v1/verify/fields
// Matches already-extracted fields against the farmer registry.
func (h *VerifyHandler) ValidateFields(c *gin.Context) {
	var fields extract.Fields
	if err := c.ShouldBindJSON(&fields); err != nil {
		RespondError(c, http.StatusBadRequest, "INVALID_REQUEST", err.Error())
		return
	}

	result, err := h.verifyService.ValidateFields(&fields)
	if err != nil {
		HandleError(c, err)
		return
	}
	RespondOK(c, result)
}

func readUpload(c *gin.Context) ([]byte, bool) {
	file, _, err := c.Request.FormFile("file")
	if err != nil {
		RespondError(c, http.StatusBadRequest, "INVALID_REQUEST", "file is required")
		return nil, false
	}
	defer file.Close()

	data, err := io.ReadAll(file)
	if err != nil {
		RespondError(c, http.StatusBadRequest, "INVALID_REQUEST", "could not read uploaded file")
		return nil, false
	}
	return data, true
}
