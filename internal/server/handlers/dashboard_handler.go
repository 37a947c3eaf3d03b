package handlers

import (
	"net/http"

	"github.com/gin-gonic/gin"
	"go.uber.org/zap"

	"github.com/oreka/backend/internal/service/reporting"
)

// DashboardHandler handles GET /api/dashboard.
type DashboardHandler struct {
	svc    reporting.Projector
	logger *zap.Logger
}

// NewDashboardHandler constructs the HTTP handler adapter.
func NewDashboardHandler(svc reporting.Projector, logger *zap.Logger) *DashboardHandler {
	if logger == nil {
		logger = zap.NewNop()
	}
	return &DashboardHandler{svc: svc, logger: logger}
}

// Dashboard serves the freshly recomputed projection. The payload shape
// is a hard contract with the frontend.
func (h *DashboardHandler) Dashboard(c *gin.Context) {
	dashboard, err := h.svc.ProjectDashboard(c.Request.Context())
	if err != nil {
		h.logger.Error("failed projecting dashboard", zap.Error(err))
		c.JSON(http.StatusInternalServerError, gin.H{"error": "failed to load dashboard"})
		return
	}

	c.JSON(http.StatusOK, gin.H{"dashboard": dashboard})
}
