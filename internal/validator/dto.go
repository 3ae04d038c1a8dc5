package validator

import (
	"github.com/SAP-F-2025/school-admin-service/internal/models"
)

// CreateTeacherRequest is the createTeacherSchema.
type CreateTeacherRequest struct {
	Email          string          `json:"email" form:"email" validate:"required,email"`
	Name           string          `json:"name" form:"name" validate:"required,min=2,max=100"`
	Role           models.UserRole `json:"role" form:"role" validate:"omitempty,oneof=admin teacher student"`
	SendInvitation bool            `json:"send_invitation" form:"send_invitation"`
	Bio            *string         `json:"bio" form:"bio" validate:"omitempty,max=500"`
	ImageURL       *string         `json:"image_url" form:"image_url" validate:"omitempty,url"`
}

// NewCreateTeacherRequest returns a request carrying the schema defaults.
// Decoding into it only overwrites the keys present in the input.
func NewCreateTeacherRequest() *CreateTeacherRequest {
	return &CreateTeacherRequest{
		Role:           models.RoleTeacher,
		SendInvitation: true,
	}
}

// UpdateTeacherRequest is the updateTeacherSchema. Nil fields are left untouched.
type UpdateTeacherRequest struct {
	Name     *string               `json:"name" form:"name" validate:"omitnil,min=2,max=100"`
	Role     *models.UserRole      `json:"role" form:"role" validate:"omitnil,oneof=admin teacher student"`
	Status   *models.TeacherStatus `json:"status" form:"status" validate:"omitnil,oneof=active inactive suspended"`
	Bio      *string               `json:"bio" form:"bio" validate:"omitempty,max=500"`
	ImageURL *string               `json:"image_url" form:"image_url" validate:"omitempty,url"`
}

func (r *UpdateTeacherRequest) IsEmpty() bool {
	return r.Name == nil && r.Role == nil && r.Status == nil && r.Bio == nil && r.ImageURL == nil
}

// TeacherFiltersRequest is the list query of the teachers table.
type TeacherFiltersRequest struct {
	Page   int                  `json:"page" form:"page" validate:"min=1"`
	Limit  int                  `json:"limit" form:"limit" validate:"min=1,max=100"`
	Search string               `json:"search" form:"search" validate:"max=100"`
	Status models.TeacherStatus `json:"status" form:"status" validate:"omitempty,oneof=active inactive suspended invited"`
}

func NewTeacherFiltersRequest() *TeacherFiltersRequest {
	return &TeacherFiltersRequest{
		Page:  1,
		Limit: 10,
	}
}

func (r *TeacherFiltersRequest) Offset() int {
	return (r.Page - 1) * r.Limit
}

// RequestPasswordResetRequest starts the password recovery flow.
type RequestPasswordResetRequest struct {
	Email string `json:"email" form:"email" validate:"required,email"`
}

// ResetPasswordRequest sets a new password for the signed-in account.
type ResetPasswordRequest struct {
	Password        string `json:"password" form:"password" validate:"required,min=8,max=72"`
	ConfirmPassword string `json:"confirm_password" form:"confirm_password" validate:"required,eqfield=Password"`
}

// ReviewWorkRequest records a review decision on a pending work.
type ReviewWorkRequest struct {
	Decision models.ReviewStatus `json:"decision" form:"decision" validate:"required,oneof=approved rejected"`
	Comment  string              `json:"comment" form:"comment" validate:"required_if=Decision rejected,max=1000"`
}

// SubmitWorkRequest enqueues a work for review.
type SubmitWorkRequest struct {
	StudentName string   `json:"student_name" validate:"required,min=2,max=100"`
	Title       string   `json:"title" validate:"required,min=1,max=200"`
	Description *string  `json:"description" validate:"omitempty,max=2000"`
	LinkURL     *string  `json:"link_url" validate:"omitempty,url"`
	Attachments []string `json:"attachments" validate:"omitempty,max=10,dive,url"`
}
