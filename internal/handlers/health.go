package handlers

import (
	"net/http"

	"github.com/gin-gonic/gin"

	"github.com/jonesrussell/north-cloud/icon-catalog/internal/logger"
)

type HealthHandler struct {
	service IconService
	logger  logger.Logger
}

func NewHealthHandler(service IconService, log logger.Logger) *HealthHandler {
	return &HealthHandler{
		service: service,
		logger:  log,
	}
}

// Check serves GET /health. A degraded status still answers 200: the
// service is serving from the fallback catalog, which is exactly what the
// fallback is for. Only total data loss reports unavailable.
func (h *HealthHandler) Check(c *gin.Context) {
	status, err := h.service.Health(c.Request.Context())
	if err != nil {
		h.logger.Error("Health check failed", logger.Error(err))
		c.JSON(http.StatusServiceUnavailable, gin.H{
			"status": "unhealthy",
			"error":  "no metadata store reachable",
		})
		return
	}

	c.JSON(http.StatusOK, status)
}
