package handlers

import (
	"context"
	"net/http"
	"time"

	"github.com/gin-gonic/gin"

	"github.com/SAP-F-2025/school-admin-service/internal/i18n"
	"github.com/SAP-F-2025/school-admin-service/internal/services"
	"github.com/SAP-F-2025/school-admin-service/internal/utils"
)

const serviceName = "school-admin-service"

// SystemHandler serves the unauthenticated endpoints: health and message bundles.
type SystemHandler struct {
	BaseHandler
	services services.ServiceManager
}

func NewSystemHandler(serviceManager services.ServiceManager, logger utils.Logger) *SystemHandler {
	return &SystemHandler{
		BaseHandler: NewBaseHandler(logger),
		services:    serviceManager,
	}
}

// Health reports whether the database answers
// @Summary Health check
// @Tags system
// @Produce json
// @Success 200 {object} map[string]string
// @Failure 503 {object} map[string]string
// @Router /health [get]
func (h *SystemHandler) Health(c *gin.Context) {
	ctx, cancel := context.WithTimeout(c.Request.Context(), 3*time.Second)
	defer cancel()

	if err := h.services.HealthCheck(ctx); err != nil {
		h.LogError(c, err, "Health check failed")
		c.JSON(http.StatusServiceUnavailable, gin.H{
			"status":  "unhealthy",
			"service": serviceName,
		})
		return
	}

	c.JSON(http.StatusOK, gin.H{
		"status":    "healthy",
		"service":   serviceName,
		"timestamp": time.Now().UTC().Format(time.RFC3339),
	})
}

// GetLocale returns the message bundle of a supported locale
// @Summary Message bundle
// @Tags system
// @Produce json
// @Param locale path string true "it or en"
// @Success 200 {object} map[string]string
// @Failure 404 {object} ErrorResponse
// @Router /locales/{locale} [get]
func (h *SystemHandler) GetLocale(c *gin.Context) {
	bundle, err := i18n.Load(c.Param("locale"))
	if err != nil {
		c.JSON(http.StatusNotFound, ErrorResponse{
			Message: "Locale not found",
			Details: i18n.SupportedLocales,
		})
		return
	}

	c.Header("Cache-Control", "public, max-age=3600")
	c.JSON(http.StatusOK, bundle)
}
