package postgres

import (
	"context"
	"time"

	"github.com/google/uuid"
	"gorm.io/gorm"

	"github.com/SAP-F-2025/school-admin-service/internal/cache"
	"github.com/SAP-F-2025/school-admin-service/internal/models"
	"github.com/SAP-F-2025/school-admin-service/internal/repositories"
)

type WorkPostgreSQL struct {
	db      *gorm.DB
	cache   *cache.CacheManager
	helpers *SharedHelpers
}

func NewWorkPostgreSQL(db *gorm.DB, cacheManager *cache.CacheManager) repositories.WorkRepository {
	return &WorkPostgreSQL{
		db:      db,
		cache:   cacheManager,
		helpers: NewSharedHelpers(db),
	}
}

func (r *WorkPostgreSQL) Create(ctx context.Context, work *models.Work) error {
	if work.ID == "" {
		work.ID = uuid.NewString()
	}
	if work.SubmittedAt.IsZero() {
		work.SubmittedAt = time.Now().UTC()
	}
	work.ReviewStatus = models.ReviewPending

	if err := r.db.WithContext(ctx).Create(work).Error; err != nil {
		return handleDBError(err, "create work")
	}

	cache.InvalidateWorkCache(ctx, r.cache, work.ID)
	return nil
}

func (r *WorkPostgreSQL) GetByID(ctx context.Context, id string) (*models.Work, error) {
	var work models.Work
	if err := r.db.WithContext(ctx).
		Preload("Teacher").
		First(&work, "id = ?", id).Error; err != nil {
		return nil, handleDBError(err, "get work by id")
	}
	return &work, nil
}

func (r *WorkPostgreSQL) ListPending(ctx context.Context, filters repositories.WorkFilters) ([]*models.Work, int64, error) {
	var works []*models.Work
	var total int64

	query := r.db.WithContext(ctx).
		Model(&models.Work{}).
		Where("review_status = ?", models.ReviewPending)
	query = r.helpers.ApplyWorkFilters(query, filters)

	if err := query.Count(&total).Error; err != nil {
		return nil, 0, handleDBError(err, "count pending works")
	}

	// Oldest submissions are reviewed first
	query = query.Preload("Teacher").Order("submitted_at ASC").Order("id ASC")
	if filters.Limit > 0 {
		query = query.Limit(filters.Limit)
	}
	if filters.Offset > 0 {
		query = query.Offset(filters.Offset)
	}

	if err := query.Find(&works).Error; err != nil {
		return nil, 0, handleDBError(err, "list pending works")
	}

	return works, total, nil
}

func (r *WorkPostgreSQL) CountByStatus(ctx context.Context) (map[models.ReviewStatus]int64, error) {
	var counts map[models.ReviewStatus]int64

	err := r.cache.Stats.CacheOrExecute(ctx, "works", &counts, cache.StatsCacheConfig.TTL, func() (interface{}, error) {
		result, err := r.helpers.CountWorksByStatus(ctx)
		if err != nil {
			return nil, handleDBError(err, "count works by status")
		}
		return result, nil
	})
	if err != nil {
		return nil, err
	}

	return counts, nil
}

func (r *WorkPostgreSQL) UpdateReview(ctx context.Context, id string, review repositories.WorkReview) error {
	result := r.db.WithContext(ctx).
		Model(&models.Work{}).
		Where("id = ? AND review_status = ?", id, models.ReviewPending).
		Updates(map[string]interface{}{
			"review_status":  review.Status,
			"review_comment": review.Comment,
			"reviewed_by":    review.ReviewedBy,
			"reviewed_at":    review.ReviewedAt,
		})
	if result.Error != nil {
		return handleDBError(result.Error, "update work review")
	}

	if result.RowsAffected == 0 {
		exists, err := r.helpers.ExistsByID(ctx, &models.Work{}, id)
		if err != nil {
			return handleDBError(err, "check work")
		}
		if !exists {
			return handleDBError(gorm.ErrRecordNotFound, "update work review")
		}
		return repositories.ErrConflict
	}

	cache.InvalidateWorkCache(ctx, r.cache, id)
	return nil
}
