package postgres

import (
	"context"
	"fmt"
	"time"

	"gorm.io/gorm"

	"github.com/SAP-F-2025/school-admin-service/internal/models"
	"github.com/SAP-F-2025/school-admin-service/internal/repositories"
)

type dashboardRepository struct {
	db *gorm.DB
}

func NewDashboardRepository(db *gorm.DB) repositories.DashboardRepository {
	return &dashboardRepository{db: db}
}

// ===== ACTIVITY TRENDS =====

// activityTrendsQuery counts submissions and reviews per UTC day in one pass.
const activityTrendsQuery = `
SELECT day, SUM(submitted) AS submitted, SUM(reviewed) AS reviewed
FROM (
	SELECT date_trunc('day', submitted_at AT TIME ZONE 'UTC') AS day, 1 AS submitted, 0 AS reviewed
	FROM works WHERE submitted_at >= ?
	UNION ALL
	SELECT date_trunc('day', reviewed_at AT TIME ZONE 'UTC') AS day, 0 AS submitted, 1 AS reviewed
	FROM works WHERE reviewed_at >= ?
) activity
GROUP BY day
ORDER BY day`

type dailyActivity struct {
	Day       time.Time
	Submitted int64
	Reviewed  int64
}

func (r *dashboardRepository) GetActivityTrends(ctx context.Context, days int) ([]repositories.ActivityTrendData, error) {
	if days <= 0 {
		days = 7
	}

	now := time.Now().UTC()
	today := time.Date(now.Year(), now.Month(), now.Day(), 0, 0, 0, 0, time.UTC)
	since := today.AddDate(0, 0, -(days - 1))

	var rows []dailyActivity
	if err := r.db.WithContext(ctx).Raw(activityTrendsQuery, since, since).Find(&rows).Error; err != nil {
		return nil, fmt.Errorf("failed to count activity per day: %w", err)
	}

	return fillActivityDays(since, days, rows), nil
}

// fillActivityDays returns one entry per day from since, zero when a day had no activity.
func fillActivityDays(since time.Time, days int, rows []dailyActivity) []repositories.ActivityTrendData {
	byDay := make(map[string]dailyActivity, len(rows))
	for _, row := range rows {
		byDay[row.Day.Format(time.DateOnly)] = row
	}

	results := make([]repositories.ActivityTrendData, 0, days)
	for i := 0; i < days; i++ {
		day := since.AddDate(0, 0, i)
		row := byDay[day.Format(time.DateOnly)]
		results = append(results, repositories.ActivityTrendData{
			Period:    day.Format("02/01"),
			Submitted: row.Submitted,
			Reviewed:  row.Reviewed,
			Date:      day,
		})
	}
	return results
}

// ===== RECENT ACTIVITIES =====

func (r *dashboardRepository) GetRecentActivities(ctx context.Context, limit int) ([]repositories.RecentActivityData, error) {
	if limit <= 0 {
		limit = 10
	}

	var works []*models.Work
	if err := r.db.WithContext(ctx).
		Preload("Teacher").
		Where("reviewed_at IS NOT NULL").
		Order("reviewed_at DESC").
		Limit(limit).
		Find(&works).Error; err != nil {
		return nil, fmt.Errorf("failed to get recent activities: %w", err)
	}

	activities := make([]repositories.RecentActivityData, 0, len(works))
	for _, w := range works {
		activity := repositories.RecentActivityData{
			WorkID:      w.ID,
			Title:       w.Title,
			StudentName: w.StudentName,
			Action:      string(w.ReviewStatus),
		}
		if w.Teacher != nil {
			activity.TeacherName = w.Teacher.Name
		}
		if w.ReviewedBy != nil {
			activity.ReviewedBy = *w.ReviewedBy
		}
		if w.ReviewedAt != nil {
			activity.CreatedAt = *w.ReviewedAt
		}
		activities = append(activities, activity)
	}

	return activities, nil
}
