package handlers

import (
	"net/http"
	"strconv"

	"github.com/gin-gonic/gin"

	"github.com/SAP-F-2025/school-admin-service/internal/services"
	"github.com/SAP-F-2025/school-admin-service/internal/utils"
	"github.com/SAP-F-2025/school-admin-service/internal/validator"
)

type WorkHandler struct {
	BaseHandler
	service   services.WorkService
	validator *validator.Validator
}

func NewWorkHandler(service services.WorkService, validator *validator.Validator, logger utils.Logger) *WorkHandler {
	return &WorkHandler{
		BaseHandler: NewBaseHandler(logger),
		service:     service,
		validator:   validator,
	}
}

// SubmitWork adds a student's work to the review queue of the calling teacher
// @Summary Submit work
// @Tags works
// @Accept json
// @Produce json
// @Param work body services.SubmitWorkRequest true "Work data"
// @Success 201 {object} services.WorkResponse
// @Failure 400 {object} ErrorResponse
// @Router /works [post]
func (h *WorkHandler) SubmitWork(c *gin.Context) {
	var req services.SubmitWorkRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, ErrorResponse{
			Message: "Invalid request payload",
			Details: err.Error(),
		})
		return
	}

	teacherID, err := GetUserIDFromContext(c)
	if err != nil {
		c.JSON(http.StatusUnauthorized, ErrorResponse{
			Message: "User not authenticated",
		})
		return
	}

	h.LogRequest(c, "Submitting work", "title", req.Title)

	work, err := h.service.Submit(c.Request.Context(), &req, teacherID)
	if err != nil {
		h.handleServiceError(c, err)
		return
	}

	c.JSON(http.StatusCreated, work)
}

// ListPendingWorks returns the review queue, oldest first
// @Summary List pending works
// @Tags works
// @Produce json
// @Param page query int false "Page number (default: 1)"
// @Param limit query int false "Page size (default: 20, max: 100)"
// @Success 200 {object} services.WorkListResponse
// @Router /works/pending [get]
func (h *WorkHandler) ListPendingWorks(c *gin.Context) {
	page, _ := strconv.Atoi(c.DefaultQuery("page", "1"))
	limit, _ := strconv.Atoi(c.DefaultQuery("limit", "20"))

	h.LogRequest(c, "Listing pending works", "page", page, "limit", limit)

	resp, err := h.service.ListPending(c.Request.Context(), h.currentIdentity(c), page, limit)
	if err != nil {
		h.handleServiceError(c, err)
		return
	}

	c.JSON(http.StatusOK, resp)
}

// ReviewWork approves or rejects a pending work
// @Summary Review work
// @Tags works
// @Accept json
// @Produce json
// @Param id path string true "Work ID"
// @Param review body services.ReviewWorkRequest true "Decision"
// @Success 200 {object} models.Work
// @Failure 400 {object} ErrorResponse
// @Failure 403 {object} ErrorResponse
// @Failure 404 {object} ErrorResponse
// @Failure 409 {object} ErrorResponse "Already reviewed"
// @Router /works/{id}/review [post]
func (h *WorkHandler) ReviewWork(c *gin.Context) {
	id := c.Param("id")

	var input map[string]interface{}
	if err := c.ShouldBindJSON(&input); err != nil {
		c.JSON(http.StatusBadRequest, ErrorResponse{
			Message: "Invalid request payload",
			Details: err.Error(),
		})
		return
	}

	req, err := h.validator.ParseReviewWork(input)
	if err != nil {
		h.handleServiceError(c, err)
		return
	}

	h.LogRequest(c, "Reviewing work", "work_id", id, "decision", req.Decision)

	work, err := h.service.Review(c.Request.Context(), id, req, h.currentIdentity(c))
	if err != nil {
		h.handleServiceError(c, err)
		return
	}

	c.JSON(http.StatusOK, work)
}
