package repositories

import (
	"context"

	"github.com/SAP-F-2025/school-admin-service/internal/models"
)

// WorkRepository persists submitted works and their review decision.
type WorkRepository interface {
	Create(ctx context.Context, work *models.Work) error
	GetByID(ctx context.Context, id string) (*models.Work, error)

	// ListPending returns works waiting for review, oldest first.
	ListPending(ctx context.Context, filters WorkFilters) ([]*models.Work, int64, error)
	CountByStatus(ctx context.Context) (map[models.ReviewStatus]int64, error)

	// UpdateReview only touches works that are still pending, otherwise ErrConflict.
	UpdateReview(ctx context.Context, id string, review WorkReview) error
}
