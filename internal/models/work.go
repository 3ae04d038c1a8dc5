package models

import (
	"encoding/json"
	"time"

	"gorm.io/datatypes"
)

type ReviewStatus string

const (
	ReviewPending  ReviewStatus = "pending"
	ReviewApproved ReviewStatus = "approved"
	ReviewRejected ReviewStatus = "rejected"
)

// Work is a submission waiting in (or already out of) the review queue.
type Work struct {
	ID          string  `json:"id" gorm:"primaryKey;size:255"`
	TeacherID   string  `json:"teacher_id" gorm:"not null;size:255;index"`
	StudentName string  `json:"student_name" gorm:"not null;size:100"`
	Title       string  `json:"title" gorm:"not null;size:200"`
	Description *string `json:"description" gorm:"size:2000"`
	LinkURL     *string `json:"link_url" gorm:"size:500"`

	Attachments datatypes.JSON `json:"attachments" gorm:"type:jsonb"` // []string

	// Review
	ReviewStatus  ReviewStatus `json:"review_status" gorm:"not null;size:20;index;default:pending"`
	ReviewComment *string      `json:"review_comment" gorm:"size:1000"`
	ReviewedBy    *string      `json:"reviewed_by" gorm:"size:255"`
	ReviewedAt    *time.Time   `json:"reviewed_at"`

	SubmittedAt time.Time `json:"submitted_at" gorm:"not null;index"`
	CreatedAt   time.Time `json:"created_at"`
	UpdatedAt   time.Time `json:"updated_at"`

	Teacher *Teacher `json:"teacher,omitempty" gorm:"foreignKey:TeacherID"`
}

func (Work) TableName() string {
	return "works"
}

// AttachmentURLs decodes the attachments column, ignoring malformed content.
func (w *Work) AttachmentURLs() []string {
	if len(w.Attachments) == 0 {
		return nil
	}
	var urls []string
	if err := json.Unmarshal(w.Attachments, &urls); err != nil {
		return nil
	}
	return urls
}

func (w *Work) IsPending() bool {
	return w.ReviewStatus == ReviewPending
}
