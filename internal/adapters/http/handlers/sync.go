package handlers

import (
	"net/http"

	"github.com/gin-gonic/gin"

	"github.com/jsamuelsen/quotesync/internal/adapters/http/dto"
	"github.com/jsamuelsen/quotesync/internal/app"
)

// SyncHandler serves the sync endpoints.
type SyncHandler struct {
	service *app.SyncService
}

// NewSyncHandler creates a sync handler.
func NewSyncHandler(service *app.SyncService) *SyncHandler {
	return &SyncHandler{service: service}
}

// Sync handles POST /sync. It answers 202 when another cycle is running.
// A failed cycle is reported through the error envelope; the partial counts
// are visible in /sync/status.
func (h *SyncHandler) Sync(c *gin.Context) {
	result, err := h.service.Sync(c.Request.Context())
	if err != nil {
		dto.HandleError(c, err)
		return
	}

	status := http.StatusOK
	if result.Skipped {
		status = http.StatusAccepted
	}

	c.JSON(status, dto.NewSyncResultResponse(result))
}

// Status handles GET /sync/status.
func (h *SyncHandler) Status(c *gin.Context) {
	c.JSON(http.StatusOK, dto.NewSyncStatusResponse(h.service.Status()))
}

// RegisterRoutes registers the sync routes on rg.
func (h *SyncHandler) RegisterRoutes(rg *gin.RouterGroup) {
	rg.POST("/sync", h.Sync)
	rg.GET("/sync/status", h.Status)
}
