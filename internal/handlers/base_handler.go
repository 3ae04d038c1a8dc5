package handlers

import (
	"errors"
	"net/http"

	"github.com/gin-gonic/gin"

	"github.com/SAP-F-2025/school-admin-service/internal/models"
	"github.com/SAP-F-2025/school-admin-service/internal/services"
	"github.com/SAP-F-2025/school-admin-service/internal/utils"
	"github.com/SAP-F-2025/school-admin-service/internal/validator"
)

// ErrorResponse is the JSON body of every failed API call.
type ErrorResponse struct {
	Message          string            `json:"message"`
	Details          interface{}       `json:"details,omitempty"`
	ValidationErrors map[string]string `json:"validation_errors,omitempty"`
}

type BaseHandler struct {
	logger utils.Logger
}

func NewBaseHandler(logger utils.Logger) BaseHandler {
	if logger == nil {
		logger = utils.NewDiscardLogger()
	}
	return BaseHandler{logger: logger}
}

// LogRequest logs an incoming call with the request scoped logger.
func (h *BaseHandler) LogRequest(c *gin.Context, msg string, args ...any) {
	utils.GetLogger(c, h.logger).Info(msg, h.withUser(c, args)...)
}

func (h *BaseHandler) LogError(c *gin.Context, err error, msg string, args ...any) {
	args = append(args, "error", err)
	utils.GetLogger(c, h.logger).Error(msg, h.withUser(c, args)...)
}

func (h *BaseHandler) withUser(c *gin.Context, args []any) []any {
	if userID := c.GetString(ContextUserID); userID != "" {
		args = append(args, "user_id", userID)
	}
	return args
}

// handleServiceError maps service errors to HTTP responses.
func (h *BaseHandler) handleServiceError(c *gin.Context, err error) {
	var validationErrors validator.ValidationErrors
	if errors.As(err, &validationErrors) {
		c.JSON(http.StatusBadRequest, ErrorResponse{
			Message:          "Validation failed",
			Details:          validationErrors,
			ValidationErrors: validationErrors.Fields(),
		})
		return
	}

	var backendError *services.BackendError
	if errors.As(err, &backendError) {
		h.LogError(c, err, "Backend failure", "op", backendError.Op)
		c.JSON(http.StatusBadGateway, ErrorResponse{
			Message: "Upstream service unavailable",
			Details: backendError.Op,
		})
		return
	}

	switch {
	case errors.Is(err, services.ErrValidationFailed):
		c.JSON(http.StatusBadRequest, ErrorResponse{Message: "Validation failed"})
	case errors.Is(err, services.ErrUnauthorized):
		c.JSON(http.StatusUnauthorized, ErrorResponse{Message: "User not authenticated"})
	case errors.Is(err, services.ErrForbidden):
		c.JSON(http.StatusForbidden, ErrorResponse{Message: "Access denied"})
	case errors.Is(err, services.ErrTeacherNotFound):
		c.JSON(http.StatusNotFound, ErrorResponse{Message: "Teacher not found"})
	case errors.Is(err, services.ErrWorkNotFound):
		c.JSON(http.StatusNotFound, ErrorResponse{Message: "Work not found"})
	case errors.Is(err, services.ErrNotFound):
		c.JSON(http.StatusNotFound, ErrorResponse{Message: "Resource not found"})
	case errors.Is(err, services.ErrEmailAlreadyExists):
		c.JSON(http.StatusConflict, ErrorResponse{Message: "Email already exists"})
	case errors.Is(err, services.ErrWorkAlreadyReviewed):
		c.JSON(http.StatusConflict, ErrorResponse{Message: "Work has already been reviewed"})
	default:
		h.LogError(c, err, "Unexpected service error")
		c.JSON(http.StatusInternalServerError, ErrorResponse{
			Message: "Internal server error",
		})
	}
}

func (h *BaseHandler) currentIdentity(c *gin.Context) *models.Identity {
	identity, err := GetIdentityFromContext(c)
	if err != nil {
		return nil
	}
	return identity
}
