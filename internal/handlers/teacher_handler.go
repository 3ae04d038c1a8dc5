package handlers

import (
	"bytes"
	"fmt"
	"net/http"
	"time"

	"github.com/gin-gonic/gin"

	"github.com/SAP-F-2025/school-admin-service/internal/services"
	"github.com/SAP-F-2025/school-admin-service/internal/utils"
	"github.com/SAP-F-2025/school-admin-service/internal/validator"
)

const xlsxContentType = "application/vnd.openxmlformats-officedocument.spreadsheetml.sheet"

type TeacherHandler struct {
	BaseHandler
	service   services.TeacherService
	validator *validator.Validator
}

func NewTeacherHandler(service services.TeacherService, validator *validator.Validator, logger utils.Logger) *TeacherHandler {
	return &TeacherHandler{
		BaseHandler: NewBaseHandler(logger),
		service:     service,
		validator:   validator,
	}
}

// CreateTeacher creates a teacher account and optionally sends the invitation
// @Summary Create teacher
// @Tags teachers
// @Accept json
// @Produce json
// @Param teacher body services.CreateTeacherRequest true "Teacher data"
// @Success 201 {object} services.CreateTeacherResponse
// @Failure 400 {object} ErrorResponse
// @Failure 409 {object} ErrorResponse "Email already exists"
// @Failure 502 {object} ErrorResponse "Identity provider failure"
// @Router /teachers [post]
func (h *TeacherHandler) CreateTeacher(c *gin.Context) {
	var input map[string]interface{}
	if err := c.ShouldBindJSON(&input); err != nil {
		c.JSON(http.StatusBadRequest, ErrorResponse{
			Message: "Invalid request payload",
			Details: err.Error(),
		})
		return
	}

	h.LogRequest(c, "Creating teacher")

	resp, err := h.service.CreateFromInput(c.Request.Context(), input, h.currentIdentity(c))
	if err != nil {
		h.handleServiceError(c, err)
		return
	}

	c.JSON(http.StatusCreated, resp)
}

// ListTeachers returns one page of teachers
// @Summary List teachers
// @Tags teachers
// @Produce json
// @Param page query int false "Page number (default: 1)"
// @Param limit query int false "Page size (default: 10, max: 100)"
// @Param search query string false "Name or email"
// @Param status query string false "active, inactive, suspended or invited"
// @Success 200 {object} services.TeacherListResponse
// @Failure 400 {object} ErrorResponse
// @Router /teachers [get]
func (h *TeacherHandler) ListTeachers(c *gin.Context) {
	filters, ok := h.bindFilters(c)
	if !ok {
		return
	}

	h.LogRequest(c, "Listing teachers", "page", filters.Page, "limit", filters.Limit)

	resp, err := h.service.List(c.Request.Context(), filters)
	if err != nil {
		h.handleServiceError(c, err)
		return
	}

	c.JSON(http.StatusOK, resp)
}

// GetTeacher retrieves a teacher by ID
// @Summary Get teacher
// @Tags teachers
// @Produce json
// @Param id path string true "Teacher ID"
// @Success 200 {object} models.Teacher
// @Failure 404 {object} ErrorResponse
// @Router /teachers/{id} [get]
func (h *TeacherHandler) GetTeacher(c *gin.Context) {
	id := c.Param("id")
	h.LogRequest(c, "Getting teacher", "teacher_id", id)

	teacher, err := h.service.GetByID(c.Request.Context(), id)
	if err != nil {
		h.handleServiceError(c, err)
		return
	}

	c.JSON(http.StatusOK, teacher)
}

// UpdateTeacher applies a partial update; fields absent from the body are left untouched
// @Summary Update teacher
// @Tags teachers
// @Accept json
// @Produce json
// @Param id path string true "Teacher ID"
// @Param teacher body services.UpdateTeacherRequest true "Fields to change"
// @Success 200 {object} models.Teacher
// @Failure 400 {object} ErrorResponse
// @Failure 403 {object} ErrorResponse
// @Failure 404 {object} ErrorResponse
// @Router /teachers/{id} [put]
func (h *TeacherHandler) UpdateTeacher(c *gin.Context) {
	id := c.Param("id")

	var input map[string]interface{}
	if err := c.ShouldBindJSON(&input); err != nil {
		c.JSON(http.StatusBadRequest, ErrorResponse{
			Message: "Invalid request payload",
			Details: err.Error(),
		})
		return
	}

	req, err := h.validator.ParseUpdateTeacher(input)
	if err != nil {
		h.handleServiceError(c, err)
		return
	}

	h.LogRequest(c, "Updating teacher", "teacher_id", id)

	teacher, err := h.service.Update(c.Request.Context(), id, req, h.currentIdentity(c))
	if err != nil {
		h.handleServiceError(c, err)
		return
	}

	c.JSON(http.StatusOK, teacher)
}

// GetTeacherStats returns counts per status and the total storage used
// @Summary Teacher statistics
// @Tags teachers
// @Produce json
// @Success 200 {object} models.TeacherStats
// @Router /teachers/stats [get]
func (h *TeacherHandler) GetTeacherStats(c *gin.Context) {
	h.LogRequest(c, "Getting teacher stats")

	stats, err := h.service.GetStats(c.Request.Context())
	if err != nil {
		h.handleServiceError(c, err)
		return
	}

	c.JSON(http.StatusOK, stats)
}

// ExportTeachers downloads the filtered teachers as a spreadsheet
// @Summary Export teachers
// @Tags teachers
// @Produce application/vnd.openxmlformats-officedocument.spreadsheetml.sheet
// @Param search query string false "Name or email"
// @Param status query string false "Teacher status"
// @Success 200 {file} file
// @Router /teachers/export [get]
func (h *TeacherHandler) ExportTeachers(c *gin.Context) {
	filters, ok := h.bindFilters(c)
	if !ok {
		return
	}

	h.LogRequest(c, "Exporting teachers", "status", filters.Status)

	// Buffered so a failure halfway still gets a proper error response
	var buf bytes.Buffer
	if err := h.service.Export(c.Request.Context(), filters, &buf); err != nil {
		h.handleServiceError(c, err)
		return
	}

	filename := fmt.Sprintf("docenti-%s.xlsx", time.Now().Format("20060102"))
	c.Header("Content-Disposition", fmt.Sprintf(`attachment; filename="%s"`, filename))
	c.Data(http.StatusOK, xlsxContentType, buf.Bytes())
}

func (h *TeacherHandler) bindFilters(c *gin.Context) (*services.TeacherFiltersRequest, bool) {
	filters := validator.NewTeacherFiltersRequest()
	if err := c.ShouldBindQuery(filters); err != nil {
		c.JSON(http.StatusBadRequest, ErrorResponse{
			Message: "Invalid query parameters",
			Details: err.Error(),
		})
		return nil, false
	}
	return filters, true
}
