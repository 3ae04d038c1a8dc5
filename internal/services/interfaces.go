package services

import (
	"context"
	"io"
	"time"

	"github.com/SAP-F-2025/school-admin-service/internal/models"
	"github.com/SAP-F-2025/school-admin-service/internal/repositories"
	"github.com/SAP-F-2025/school-admin-service/internal/validator"
)

// ===== REQUEST/RESPONSE DTOs =====

// Use validator schema types
type CreateTeacherRequest = validator.CreateTeacherRequest
type UpdateTeacherRequest = validator.UpdateTeacherRequest
type TeacherFiltersRequest = validator.TeacherFiltersRequest
type ReviewWorkRequest = validator.ReviewWorkRequest
type SubmitWorkRequest = validator.SubmitWorkRequest
type RequestPasswordResetRequest = validator.RequestPasswordResetRequest
type ResetPasswordRequest = validator.ResetPasswordRequest

type TeacherListResponse = models.PaginatedResponse[*models.Teacher]
type WorkListResponse = models.PaginatedResponse[*WorkResponse]

// CreateTeacherResponse tells the caller whether an invitation went out.
type CreateTeacherResponse struct {
	Teacher        *models.Teacher `json:"teacher"`
	InvitationSent bool            `json:"invitation_sent"`
}

// WorkResponse is a work as shown in the review queue.
type WorkResponse struct {
	ID           string              `json:"id"`
	Title        string              `json:"title"`
	Description  string              `json:"description,omitempty"`
	StudentName  string              `json:"student_name"`
	TeacherID    string              `json:"teacher_id"`
	TeacherName  string              `json:"teacher_name,omitempty"`
	LinkURL      string              `json:"link_url,omitempty"`
	Attachments  []string            `json:"attachments"`
	ReviewStatus models.ReviewStatus `json:"review_status"`
	SubmittedAt  time.Time           `json:"submitted_at"`
}

// ===== SERVICE INTERFACES =====

// TeacherService manages teacher accounts; actor is the signed-in administrator.
type TeacherService interface {
	Create(ctx context.Context, req *CreateTeacherRequest, actor *models.Identity) (*CreateTeacherResponse, error)
	// CreateFromInput runs the createTeacherSchema on untyped input first.
	CreateFromInput(ctx context.Context, input map[string]interface{}, actor *models.Identity) (*CreateTeacherResponse, error)
	Update(ctx context.Context, id string, req *UpdateTeacherRequest, actor *models.Identity) (*models.Teacher, error)
	GetByID(ctx context.Context, id string) (*models.Teacher, error)
	List(ctx context.Context, filters *TeacherFiltersRequest) (*TeacherListResponse, error)
	GetStats(ctx context.Context) (*models.TeacherStats, error)

	// Export writes the filtered teachers as an XLSX workbook, ignoring pagination.
	Export(ctx context.Context, filters *TeacherFiltersRequest, w io.Writer) error
}

// WorkService handles the review queue.
type WorkService interface {
	Submit(ctx context.Context, req *SubmitWorkRequest, teacherID string) (*WorkResponse, error)
	// ListPending returns the reviewer's queue; administrators see every teacher's works.
	ListPending(ctx context.Context, reviewer *models.Identity, page, limit int) (*WorkListResponse, error)
	Review(ctx context.Context, id string, req *ReviewWorkRequest, reviewer *models.Identity) (*models.Work, error)
}

// AuthService covers the account flows not handled by the identity provider UI.
type AuthService interface {
	// RequestPasswordReset answers success whether or not the account exists.
	RequestPasswordReset(ctx context.Context, req *RequestPasswordResetRequest) error
	ResetPassword(ctx context.Context, userID string, req *ResetPasswordRequest) error
}

// ServiceManager owns service instances and their lifecycle
type ServiceManager interface {
	Teacher() TeacherService
	Work() WorkService
	Auth() AuthService
	Dashboard() DashboardService

	// Health and lifecycle
	Initialize(ctx context.Context) error
	HealthCheck(ctx context.Context) error
	Shutdown(ctx context.Context) error
}

func toTeacherFilters(req *TeacherFiltersRequest) repositories.TeacherFilters {
	filters := repositories.TeacherFilters{
		Search:    req.Search,
		Limit:     req.Limit,
		Offset:    req.Offset(),
		SortBy:    "created_at",
		SortOrder: "desc",
	}
	if req.Status != "" {
		status := req.Status
		filters.Status = &status
	}
	return filters
}
