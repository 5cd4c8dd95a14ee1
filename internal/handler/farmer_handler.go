package handler

import (
	"net/http"
	"strconv"

	"github.com/gin-gonic/gin"

	"agriverify/internal/service"
)

// FarmerHandler handles farmer registry CRUD endpoints.
type FarmerHandler struct {
	farmerService service.FarmerService
}

// NewFarmerHandler creates a new FarmerHandler.
func NewFarmerHandler(farmerService service.FarmerService) *FarmerHandler {
	return &FarmerHandler{farmerService: farmerService}
}

// Create handles POST /api/v1/farmers
func (h *FarmerHandler) Create(c *gin.Context) {
	var input service.FarmerInput
	if err := c.ShouldBindJSON(&input); err != nil {
		RespondError(c, http.StatusBadRequest, "INVALID_REQUEST", err.Error())
		return
	}

	farmer, err := h.farmerService.Create(c.Request.Context(), input)
	if err != nil {
		HandleError(c, err)
		return
	}
	RespondCreated(c, farmer)
}

// Get handles GET /api/v1/farmers/:id
func (h *FarmerHandler) Get(c *gin.Context) {
	farmer, err := h.farmerService.GetByID(c.Request.Context(), c.Param("id"))
	if err != nil {
		HandleError(c, err)
		return
	}
	RespondOK(c, farmer)
}

// List handles GET /api/v1/farmers
func (h *FarmerHandler) List(c *gin.Context) {
	offset, limit := paginationParams(c)

	farmers, total, err := h.farmerService.List(c.Request.Context(), offset, limit)
	if err != nil {
		HandleError(c, err)
		return
	}
	RespondPaginated(c, farmers, PagMeta{Total: total, Offset: offset, Limit: limit})
}

// Update handles PUT /api/v1/farmers/:id
func (h *FarmerHandler) Update(c *gin.Context) {
	var input service.FarmerInput
	if err := c.ShouldBindJSON(&input); err != nil {
		RespondError(c, http.StatusBadRequest, "INVALID_REQUEST", err.Error())
		return
	}

	farmer, err := h.farmerService.Update(c.Request.Context(), c.Param("id"), input)
	if err != nil {
		HandleError(c, err)
		return
	}
	RespondOK(c, farmer)
}

// Delete handles DELETE /api/v1/farmers/:id
func (h *FarmerHandler) Delete(c *gin.Context) {
	if err := h.farmerService.Delete(c.Request.Context(), c.Param("id")); err != nil {
		HandleError(c, err)
		return
	}
	RespondOK(c, gin.H{"deleted": true})
}

// Similar handles GET /api/v1/farmers/similar?name=&limit=
// Returns registry entries whose names fuzzily match the query.
func (h *FarmerHandler) Similar(c *gin.Context) {
	name := c.Query("name")
	if name == "" {
		RespondError(c, http.StatusBadRequest, "INVALID_REQUEST", "name query parameter is required")
		return
	}

	limit := 10
	if raw := c.Query("limit"); raw != "" {
		if parsed, err := strconv.Atoi(raw); err == nil && parsed > 0 && parsed <= 100 {
			limit = parsed
		}
	}

	RespondOK(c, h.farmerService.FindSimilar(name, limit))
}

func paginationParams(c *gin.Context) (offset, limit int) {
	offset = 0
	limit = 50
	if raw := c.Query("offset"); raw != "" {
		if parsed, err := strconv.Atoi(raw); err == nil && parsed >= 0 {
			offset = parsed
		}
	}
	if raw := c.Query("limit"); raw != "" {
		if parsed, err := strconv.Atoi(raw); err == nil && parsed > 0 && parsed <= 200 {
			limit = parsed
		}
	}
	return offset, limit
}
