package handler

import (
	"github.com/gin-gonic/gin"

	"agriverify/internal/service"
)

// RegistryHandler exposes manual control over the in-memory farmer registry.
type RegistryHandler struct {
	registry service.RegistryService
}

// NewRegistryHandler creates a new RegistryHandler.
func NewRegistryHandler(registry service.RegistryService) *RegistryHandler {
	return &RegistryHandler{registry: registry}
}

// Refresh handles POST /api/v1/registry/refresh
// Reloads the registry snapshot from the database.
func (h *RegistryHandler) Refresh(c *gin.Context) {
	count, err := h.registry.Refresh(c.Request.Context())
	if err != nil {
		HandleError(c, err)
		return
	}
	RespondOK(c, gin.H{"farmers_loaded": count})
}

// Status handles GET /api/v1/registry/status
func (h *RegistryHandler) Status(c *gin.Context) {
	RespondOK(c, gin.H{"farmers_loaded": h.registry.Snapshot().Size()})
}
