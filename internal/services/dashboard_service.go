package services

import (
	"context"
	"log/slog"
	"time"

	"github.com/samber/lo"

	"github.com/SAP-F-2025/school-admin-service/internal/models"
	"github.com/SAP-F-2025/school-admin-service/internal/repositories"
)

// ===== RESPONSE DTOs =====

type DashboardStatsResponse struct {
	Teachers models.TeacherStats `json:"teachers"`
	Works    WorkCounts          `json:"works"`
}

type WorkCounts struct {
	Pending  int64 `json:"pending"`
	Approved int64 `json:"approved"`
	Rejected int64 `json:"rejected"`
	Total    int64 `json:"total"`
	// Percentage of reviewed works that were approved
	ApprovalRate float64 `json:"approval_rate"`
}

type ActivityTrendResponse struct {
	Period    string `json:"period"`
	Submitted int64  `json:"submitted"`
	Reviewed  int64  `json:"reviewed"`
}

type RecentActivityResponse struct {
	WorkID      string    `json:"work_id"`
	Title       string    `json:"title"`
	StudentName string    `json:"student_name"`
	TeacherName string    `json:"teacher_name"`
	Action      string    `json:"action"`
	ReviewedBy  string    `json:"reviewed_by"`
	CreatedAt   time.Time `json:"created_at"`
}

// ===== SERVICE INTERFACE =====

type DashboardService interface {
	GetDashboardStats(ctx context.Context) (*DashboardStatsResponse, error)
	GetActivityTrends(ctx context.Context, days int) ([]ActivityTrendResponse, error)
	GetRecentActivities(ctx context.Context, limit int) ([]RecentActivityResponse, error)
}

// ===== SERVICE IMPLEMENTATION =====

type dashboardService struct {
	repo   repositories.Repository
	logger *slog.Logger
}

func NewDashboardService(repo repositories.Repository, logger *slog.Logger) DashboardService {
	return &dashboardService{
		repo:   repo,
		logger: logger,
	}
}

func (s *dashboardService) GetDashboardStats(ctx context.Context) (*DashboardStatsResponse, error) {
	s.logger.Info("Getting dashboard stats")

	teachers, err := s.repo.Teacher().GetStats(ctx)
	if err != nil {
		return nil, NewBackendError("get teacher stats", err)
	}

	counts, err := s.repo.Work().CountByStatus(ctx)
	if err != nil {
		return nil, NewBackendError("count works", err)
	}

	works := WorkCounts{
		Pending:  counts[models.ReviewPending],
		Approved: counts[models.ReviewApproved],
		Rejected: counts[models.ReviewRejected],
		Total:    lo.Sum(lo.Values(counts)),
	}
	if reviewed := works.Approved + works.Rejected; reviewed > 0 {
		works.ApprovalRate = roundFloat(float64(works.Approved)*100/float64(reviewed), 1)
	}

	return &DashboardStatsResponse{
		Teachers: *teachers,
		Works:    works,
	}, nil
}

func (s *dashboardService) GetActivityTrends(ctx context.Context, days int) ([]ActivityTrendResponse, error) {
	s.logger.Info("Getting activity trends", "days", days)

	if days <= 0 || days > 90 {
		days = 7
	}

	trends, err := s.repo.Dashboard().GetActivityTrends(ctx, days)
	if err != nil {
		return nil, NewBackendError("get activity trends", err)
	}

	return lo.Map(trends, func(t repositories.ActivityTrendData, _ int) ActivityTrendResponse {
		return ActivityTrendResponse{
			Period:    t.Period,
			Submitted: t.Submitted,
			Reviewed:  t.Reviewed,
		}
	}), nil
}

func (s *dashboardService) GetRecentActivities(ctx context.Context, limit int) ([]RecentActivityResponse, error) {
	s.logger.Info("Getting recent activities", "limit", limit)

	if limit <= 0 || limit > 50 {
		limit = 10
	}

	activities, err := s.repo.Dashboard().GetRecentActivities(ctx, limit)
	if err != nil {
		return nil, NewBackendError("get recent activities", err)
	}

	response := make([]RecentActivityResponse, len(activities))
	for i, a := range activities {
		response[i] = RecentActivityResponse{
			WorkID:      a.WorkID,
			Title:       a.Title,
			StudentName: a.StudentName,
			TeacherName: a.TeacherName,
			Action:      a.Action,
			ReviewedBy:  a.ReviewedBy,
			CreatedAt:   a.CreatedAt,
		}
	}

	return response, nil
}

// ===== HELPER FUNCTIONS =====

func roundFloat(val float64, precision int) float64 {
	ratio := 1.0
	for i := 0; i < precision; i++ {
		ratio *= 10
	}
	return float64(int(val*ratio+0.5)) / ratio
}
