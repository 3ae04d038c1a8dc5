package repositories

import (
	"context"
	"time"
)

// DashboardRepository interface for dashboard analytics operations
type DashboardRepository interface {
	// Submissions and reviews per day over the last days
	GetActivityTrends(ctx context.Context, days int) ([]ActivityTrendData, error)

	// Latest review decisions
	GetRecentActivities(ctx context.Context, limit int) ([]RecentActivityData, error)
}

// Data structures for dashboard responses

type ActivityTrendData struct {
	Period    string    `json:"period"`
	Submitted int64     `json:"submitted"`
	Reviewed  int64     `json:"reviewed"`
	Date      time.Time `json:"-"`
}

type RecentActivityData struct {
	WorkID      string    `json:"work_id"`
	Title       string    `json:"title"`
	StudentName string    `json:"student_name"`
	TeacherName string    `json:"teacher_name"`
	Action      string    `json:"action"` // "approved", "rejected"
	ReviewedBy  string    `json:"reviewed_by"`
	CreatedAt   time.Time `json:"created_at"`
}
