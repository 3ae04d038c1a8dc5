package handlers

import (
	"net/http"

	"github.com/gin-gonic/gin"

	"github.com/SAP-F-2025/school-admin-service/internal/services"
	"github.com/SAP-F-2025/school-admin-service/internal/utils"
)

type AuthHandler struct {
	BaseHandler
	service services.AuthService
}

func NewAuthHandler(service services.AuthService, logger utils.Logger) *AuthHandler {
	return &AuthHandler{
		BaseHandler: NewBaseHandler(logger),
		service:     service,
	}
}

// RequestPasswordReset emails a reset link. The answer does not reveal whether the account exists
// @Summary Request password reset
// @Tags auth
// @Accept json
// @Produce json
// @Param body body services.RequestPasswordResetRequest true "Account email"
// @Success 202 {object} map[string]string
// @Failure 400 {object} ErrorResponse
// @Router /auth/password-reset [post]
func (h *AuthHandler) RequestPasswordReset(c *gin.Context) {
	var req services.RequestPasswordResetRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, ErrorResponse{
			Message: "Invalid request payload",
			Details: err.Error(),
		})
		return
	}

	h.LogRequest(c, "Password reset requested")

	if err := h.service.RequestPasswordReset(c.Request.Context(), &req); err != nil {
		h.handleServiceError(c, err)
		return
	}

	c.JSON(http.StatusAccepted, gin.H{
		"message": "If the address belongs to an account, a reset link has been sent",
	})
}

// ResetPassword sets a new password for the signed-in account
// @Summary Change password
// @Tags auth
// @Accept json
// @Produce json
// @Param body body services.ResetPasswordRequest true "New password"
// @Success 204
// @Failure 400 {object} ErrorResponse
// @Failure 401 {object} ErrorResponse
// @Router /auth/password [put]
func (h *AuthHandler) ResetPassword(c *gin.Context) {
	var req services.ResetPasswordRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, ErrorResponse{
			Message: "Invalid request payload",
			Details: err.Error(),
		})
		return
	}

	userID, _ := GetUserIDFromContext(c)
	h.LogRequest(c, "Changing password")

	if err := h.service.ResetPassword(c.Request.Context(), userID, &req); err != nil {
		h.handleServiceError(c, err)
		return
	}

	c.Status(http.StatusNoContent)
}
