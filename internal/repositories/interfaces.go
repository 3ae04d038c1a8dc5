package repositories

import (
	"errors"
	"time"

	"github.com/SAP-F-2025/school-admin-service/internal/models"
)

// ===== ERRORS =====

var (
	ErrNotFound  = errors.New("record not found")
	ErrDuplicate = errors.New("record already exists")
	// ErrConflict means the row changed state between read and write.
	ErrConflict     = errors.New("record state conflict")
	ErrInvalidToken = errors.New("invalid token")
)

func IsNotFoundError(err error) bool {
	return errors.Is(err, ErrNotFound)
}

func IsDuplicateError(err error) bool {
	return errors.Is(err, ErrDuplicate)
}

// ===== SHARED FILTER STRUCTS =====

type TeacherFilters struct {
	Search    string                `json:"search"` // name or email, case-insensitive
	Status    *models.TeacherStatus `json:"status"`
	Role      *models.UserRole      `json:"role"`
	Limit     int                   `json:"limit"`
	Offset    int                   `json:"offset"`
	SortBy    string                `json:"sort_by"`    // "created_at", "name", "email", "last_login_at"
	SortOrder string                `json:"sort_order"` // "asc", "desc"
}

type WorkFilters struct {
	TeacherID *string `json:"teacher_id"`
	Limit     int     `json:"limit"`
	Offset    int     `json:"offset"`
}

// ===== SHARED HELPER STRUCTS =====

// WorkReview is the decision written on a pending work.
type WorkReview struct {
	Status     models.ReviewStatus
	Comment    *string
	ReviewedBy string
	ReviewedAt time.Time
}

// Invitation creates an account at the identity provider.
type Invitation struct {
	Email        string
	Name         string
	Role         models.UserRole
	AvatarURL    string
	TempPassword string
}
