// Package handlers holds the Gin HTTP handlers for the icon catalog API.
package handlers

import (
	"context"
	"errors"
	"net/http"
	"strconv"
	"strings"

	"github.com/gin-gonic/gin"

	"github.com/jonesrussell/north-cloud/icon-catalog/internal/logger"
	"github.com/jonesrussell/north-cloud/icon-catalog/internal/models"
	"github.com/jonesrussell/north-cloud/icon-catalog/internal/repository"
)

const (
	// MinIconSize and MaxIconSize bound the ?size= query parameter.
	MinIconSize = 16
	MaxIconSize = 512
)

// IconService is the lookup surface the handlers expose over HTTP.
type IconService interface {
	ResolveMetadata(ctx context.Context, provider, id string) (*models.Icon, error)
	ResolveContent(ctx context.Context, provider, id string, size int) (*models.IconWithContent, error)
	ListIconsWithContent(ctx context.Context, query repository.ListQuery, size int) (*models.PaginatedIconsWithContent, error)
	ListProviders(ctx context.Context) ([]string, error)
	ListTags(ctx context.Context) ([]string, error)
	Health(ctx context.Context) (*models.HealthStatus, error)
}

type IconHandler struct {
	service IconService
	logger  logger.Logger
}

func NewIconHandler(service IconService, log logger.Logger) *IconHandler {
	return &IconHandler{
		service: service,
		logger:  log,
	}
}

// List serves GET /api/icons with filter and pagination query parameters.
// Every page item carries its rendered SVG; ?size= picks the pixel size
// within [MinIconSize, MaxIconSize].
func (h *IconHandler) List(c *gin.Context) {
	query := repository.ListQuery{
		Provider: c.DefaultQuery("provider", models.ProviderAll),
		Search:   c.Query("search"),
	}

	if tags := c.Query("tags"); tags != "" {
		query.Tags = strings.Split(tags, ",")
	}

	var err error
	if query.Page, err = parseIntParam(c, "page", 1); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "Invalid page parameter"})
		return
	}
	if query.PageSize, err = parseIntParam(c, "pageSize", repository.DefaultPageSize); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "Invalid pageSize parameter"})
		return
	}

	size, err := parseIntParam(c, "size", 0)
	if err != nil || (size != 0 && (size < MinIconSize || size > MaxIconSize)) {
		c.JSON(http.StatusBadRequest, gin.H{
			"error": "size must be an integer between 16 and 512",
		})
		return
	}

	result, err := h.service.ListIconsWithContent(c.Request.Context(), query, size)
	if err != nil {
		h.logger.Error("Failed to list icons",
			logger.String("provider", query.Provider),
			logger.Error(err),
		)
		h.serviceError(c, err)
		return
	}

	c.JSON(http.StatusOK, result)
}

// Get serves GET /api/icons/:provider/:id with icon metadata.
func (h *IconHandler) Get(c *gin.Context) {
	provider := c.Param("provider")
	id := c.Param("id")

	icon, err := h.service.ResolveMetadata(c.Request.Context(), provider, id)
	if err != nil {
		if errors.Is(err, models.ErrNotFound) {
			c.JSON(http.StatusNotFound, gin.H{"error": "Icon not found"})
			return
		}
		h.logger.Error("Failed to resolve icon",
			logger.String("provider", provider),
			logger.String("id", id),
			logger.Error(err),
		)
		h.serviceError(c, err)
		return
	}

	c.JSON(http.StatusOK, icon)
}

// Content serves GET /api/icons/:provider/:id/content with the rendered
// SVG. ?size= picks the pixel size within [MinIconSize, MaxIconSize];
// ?format=raw returns the bare SVG document instead of the JSON envelope.
func (h *IconHandler) Content(c *gin.Context) {
	provider := c.Param("provider")
	id := c.Param("id")

	size, err := parseIntParam(c, "size", 0)
	if err != nil || (size != 0 && (size < MinIconSize || size > MaxIconSize)) {
		c.JSON(http.StatusBadRequest, gin.H{
			"error": "size must be an integer between 16 and 512",
		})
		return
	}

	result, err := h.service.ResolveContent(c.Request.Context(), provider, id, size)
	if err != nil {
		if errors.Is(err, models.ErrNotFound) {
			c.JSON(http.StatusNotFound, gin.H{"error": "Icon not found"})
			return
		}
		h.logger.Error("Failed to resolve icon content",
			logger.String("provider", provider),
			logger.String("id", id),
			logger.Error(err),
		)
		h.serviceError(c, err)
		return
	}

	if c.Query("format") == "raw" {
		if result.SVGContent == "" {
			c.JSON(http.StatusNotFound, gin.H{"error": "Icon has no SVG content"})
			return
		}
		c.Data(http.StatusOK, "image/svg+xml", []byte(result.SVGContent))
		return
	}

	c.JSON(http.StatusOK, result)
}

// Providers serves GET /api/providers.
func (h *IconHandler) Providers(c *gin.Context) {
	providers, err := h.service.ListProviders(c.Request.Context())
	if err != nil {
		h.logger.Error("Failed to list providers", logger.Error(err))
		h.serviceError(c, err)
		return
	}

	c.JSON(http.StatusOK, gin.H{
		"providers": providers,
		"count":     len(providers),
	})
}

// Tags serves GET /api/tags.
func (h *IconHandler) Tags(c *gin.Context) {
	tags, err := h.service.ListTags(c.Request.Context())
	if err != nil {
		h.logger.Error("Failed to list tags", logger.Error(err))
		h.serviceError(c, err)
		return
	}

	c.JSON(http.StatusOK, gin.H{
		"tags":  tags,
		"count": len(tags),
	})
}

// serviceError maps resolver failures onto HTTP status codes. Losing both
// metadata stores is an availability problem, not a server bug.
func (h *IconHandler) serviceError(c *gin.Context, err error) {
	if errors.Is(err, models.ErrDataUnavailable) || errors.Is(err, models.ErrStoreUnavailable) {
		c.JSON(http.StatusServiceUnavailable, gin.H{"error": "Icon data temporarily unavailable"})
		return
	}
	c.JSON(http.StatusInternalServerError, gin.H{"error": "Internal server error"})
}

func parseIntParam(c *gin.Context, name string, fallback int) (int, error) {
	raw := c.Query(name)
	if raw == "" {
		return fallback, nil
	}
	return strconv.Atoi(raw)
}
