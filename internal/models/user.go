package models

import (
	"time"
)

type UserRole string
type Role = UserRole // Alias for compatibility

const (
	RoleAdmin   UserRole = "admin"
	RoleTeacher UserRole = "teacher"
	RoleStudent UserRole = "student"
)

func (r UserRole) IsValid() bool {
	switch r {
	case RoleAdmin, RoleTeacher, RoleStudent:
		return true
	}
	return false
}

type TeacherStatus string

const (
	StatusActive    TeacherStatus = "active"
	StatusInactive  TeacherStatus = "inactive"
	StatusSuspended TeacherStatus = "suspended"
	StatusInvited   TeacherStatus = "invited"
)

// AllTeacherStatuses lists statuses in display order.
var AllTeacherStatuses = []TeacherStatus{StatusActive, StatusInactive, StatusSuspended, StatusInvited}

func (s TeacherStatus) IsValid() bool {
	switch s {
	case StatusActive, StatusInactive, StatusSuspended, StatusInvited:
		return true
	}
	return false
}

// Teacher is the school-side profile of an account owned by the identity provider.
// Records are never hard-deleted, deactivation is a status change.
type Teacher struct {
	ID    string   `json:"id" gorm:"primaryKey;size:255"`
	Email string   `json:"email" gorm:"uniqueIndex;not null;size:255"`
	Name  string   `json:"name" gorm:"not null;size:100"`
	Role  UserRole `json:"role" gorm:"not null;size:20;default:teacher"`

	// Status
	Status TeacherStatus `json:"status" gorm:"not null;size:20;index"`

	// Profile info
	Bio      *string `json:"bio" gorm:"size:500"`
	ImageURL *string `json:"image_url" gorm:"size:500"`

	// Usage
	StorageUsed int64 `json:"storage_used" gorm:"not null;default:0"`

	LastLoginAt *time.Time `json:"last_login_at"`
	CreatedAt   time.Time  `json:"created_at"`
	UpdatedAt   time.Time  `json:"updated_at"`
}

func (Teacher) TableName() string {
	return "teachers"
}

// CanSignIn reports whether the profile grants access. Invited teachers may
// sign in to finish their registration.
func (t *Teacher) CanSignIn() bool {
	return t.Status == StatusActive || t.Status == StatusInvited
}

// Identity is the authenticated principal resolved from the identity provider.
type Identity struct {
	ID        string   `json:"id"`
	Email     string   `json:"email"`
	Name      string   `json:"name"`
	Role      UserRole `json:"role"`
	AvatarURL string   `json:"avatar_url,omitempty"`
}

func (i *Identity) IsAdmin() bool {
	return i != nil && i.Role == RoleAdmin
}
