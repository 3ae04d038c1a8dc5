package postgres

import (
	"context"
	"strings"
	"time"

	"github.com/google/uuid"
	"gorm.io/gorm"

	"github.com/SAP-F-2025/school-admin-service/internal/cache"
	"github.com/SAP-F-2025/school-admin-service/internal/models"
	"github.com/SAP-F-2025/school-admin-service/internal/repositories"
)

type TeacherPostgreSQL struct {
	db      *gorm.DB
	cache   *cache.CacheManager
	helpers *SharedHelpers
}

func NewTeacherPostgreSQL(db *gorm.DB, cacheManager *cache.CacheManager) repositories.TeacherRepository {
	return &TeacherPostgreSQL{
		db:      db,
		cache:   cacheManager,
		helpers: NewSharedHelpers(db),
	}
}

// ===== BASIC CRUD OPERATIONS =====

func (r *TeacherPostgreSQL) Create(ctx context.Context, teacher *models.Teacher) error {
	if teacher.ID == "" {
		teacher.ID = uuid.NewString()
	}
	teacher.Email = strings.ToLower(teacher.Email)

	if err := r.db.WithContext(ctx).Create(teacher).Error; err != nil {
		return handleDBError(err, "create teacher")
	}

	cache.InvalidateTeacherCache(ctx, r.cache, teacher.ID, teacher.Email)
	return nil
}

func (r *TeacherPostgreSQL) Update(ctx context.Context, id string, fields map[string]interface{}) error {
	if len(fields) == 0 {
		exists, err := r.helpers.ExistsByID(ctx, &models.Teacher{}, id)
		if err != nil {
			return handleDBError(err, "check teacher")
		}
		if !exists {
			return handleDBError(gorm.ErrRecordNotFound, "update teacher")
		}
		return nil
	}

	result := r.db.WithContext(ctx).
		Model(&models.Teacher{}).
		Where("id = ?", id).
		Updates(fields)
	if result.Error != nil {
		return handleDBError(result.Error, "update teacher")
	}
	if result.RowsAffected == 0 {
		return handleDBError(gorm.ErrRecordNotFound, "update teacher")
	}

	cache.InvalidateTeacherCache(ctx, r.cache, id, "")
	return nil
}

func (r *TeacherPostgreSQL) GetByID(ctx context.Context, id string) (*models.Teacher, error) {
	var teacher models.Teacher

	err := r.cache.Teacher.CacheOrExecute(ctx, "id:"+id, &teacher, cache.TeacherCacheConfig.TTL, func() (interface{}, error) {
		var t models.Teacher
		if err := r.db.WithContext(ctx).First(&t, "id = ?", id).Error; err != nil {
			return nil, handleDBError(err, "get teacher by id")
		}
		return &t, nil
	})
	if err != nil {
		return nil, err
	}

	return &teacher, nil
}

func (r *TeacherPostgreSQL) GetByEmail(ctx context.Context, email string) (*models.Teacher, error) {
	var teacher models.Teacher
	if err := r.db.WithContext(ctx).
		Where("email = ?", strings.ToLower(email)).
		First(&teacher).Error; err != nil {
		return nil, handleDBError(err, "get teacher by email")
	}
	return &teacher, nil
}

func (r *TeacherPostgreSQL) ExistsByEmail(ctx context.Context, email string) (bool, error) {
	var count int64
	if err := r.db.WithContext(ctx).
		Model(&models.Teacher{}).
		Where("email = ?", strings.ToLower(email)).
		Count(&count).Error; err != nil {
		return false, handleDBError(err, "check teacher email")
	}
	return count > 0, nil
}

// ===== QUERY OPERATIONS =====

func (r *TeacherPostgreSQL) List(ctx context.Context, filters repositories.TeacherFilters) ([]*models.Teacher, int64, error) {
	var teachers []*models.Teacher
	var total int64

	query := r.helpers.ApplyTeacherFilters(r.db.WithContext(ctx).Model(&models.Teacher{}), filters)

	if err := query.Count(&total).Error; err != nil {
		return nil, 0, handleDBError(err, "count teachers")
	}

	query = r.helpers.ApplyPaginationAndSort(query, filters.SortBy, filters.SortOrder, filters.Limit, filters.Offset)

	if err := query.Find(&teachers).Error; err != nil {
		return nil, 0, handleDBError(err, "list teachers")
	}

	return teachers, total, nil
}

func (r *TeacherPostgreSQL) GetStats(ctx context.Context) (*models.TeacherStats, error) {
	var stats models.TeacherStats

	err := r.cache.Stats.CacheOrExecute(ctx, "teachers", &stats, cache.StatsCacheConfig.TTL, func() (interface{}, error) {
		var rows []struct {
			Status  models.TeacherStatus
			Count   int64
			Storage int64
		}

		if err := r.db.WithContext(ctx).
			Model(&models.Teacher{}).
			Select("status, COUNT(*) AS count, COALESCE(SUM(storage_used), 0) AS storage").
			Group("status").
			Scan(&rows).Error; err != nil {
			return nil, handleDBError(err, "get teacher stats")
		}

		result := &models.TeacherStats{}
		for _, row := range rows {
			result.Add(row.Status, row.Count, row.Storage)
		}
		return result, nil
	})
	if err != nil {
		return nil, err
	}

	return &stats, nil
}

// UpdateLastLogin records a sign-in; an invited teacher becomes active on the first one.
func (r *TeacherPostgreSQL) UpdateLastLogin(ctx context.Context, id string, at time.Time) error {
	result := r.db.WithContext(ctx).
		Model(&models.Teacher{}).
		Where("id = ?", id).
		Updates(map[string]interface{}{
			"last_login_at": at,
			"status": gorm.Expr("CASE WHEN status = ? THEN ? ELSE status END",
				models.StatusInvited, models.StatusActive),
		})
	if result.Error != nil {
		return handleDBError(result.Error, "update last login")
	}
	if result.RowsAffected == 0 {
		return handleDBError(gorm.ErrRecordNotFound, "update last login")
	}

	cache.InvalidateTeacherCache(ctx, r.cache, id, "")
	return nil
}
