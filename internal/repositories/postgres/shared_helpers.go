package postgres

import (
	"context"
	"errors"
	"fmt"
	"strings"

	"gorm.io/gorm"

	"github.com/SAP-F-2025/school-admin-service/internal/models"
	"github.com/SAP-F-2025/school-admin-service/internal/repositories"
)

// SharedHelpers contains common database operations
type SharedHelpers struct {
	db *gorm.DB
}

func NewSharedHelpers(db *gorm.DB) *SharedHelpers {
	return &SharedHelpers{db: db}
}

// handleDBError maps driver errors onto the repository error set
func handleDBError(err error, operation string) error {
	if err == nil {
		return nil
	}

	switch {
	case errors.Is(err, gorm.ErrRecordNotFound):
		return fmt.Errorf("%s: %w", operation, repositories.ErrNotFound)
	case errors.Is(err, gorm.ErrDuplicatedKey):
		return fmt.Errorf("%s: %w", operation, repositories.ErrDuplicate)
	}

	return fmt.Errorf("%s failed: %w", operation, err)
}

// ExistsByID reports whether a row with the given id exists in model's table
func (h *SharedHelpers) ExistsByID(ctx context.Context, model interface{}, id string) (bool, error) {
	var count int64
	err := h.db.WithContext(ctx).
		Model(model).
		Where("id = ?", id).
		Count(&count).Error
	return count > 0, err
}

// ApplyTeacherFilters applies common filters to teacher queries
func (h *SharedHelpers) ApplyTeacherFilters(query *gorm.DB, filters repositories.TeacherFilters) *gorm.DB {
	if search := strings.TrimSpace(filters.Search); search != "" {
		pattern := "%" + escapeLike(search) + "%"
		query = query.Where("(name ILIKE ? OR email ILIKE ?)", pattern, pattern)
	}
	if filters.Status != nil {
		query = query.Where("status = ?", *filters.Status)
	}
	if filters.Role != nil {
		query = query.Where("role = ?", *filters.Role)
	}
	return query
}

// ApplyWorkFilters applies common filters to work queries
func (h *SharedHelpers) ApplyWorkFilters(query *gorm.DB, filters repositories.WorkFilters) *gorm.DB {
	if filters.TeacherID != nil {
		query = query.Where("teacher_id = ?", *filters.TeacherID)
	}
	return query
}

// ApplyPaginationAndSort applies pagination and sorting with SQL injection protection
func (h *SharedHelpers) ApplyPaginationAndSort(query *gorm.DB, sortBy, sortOrder string, limit, offset int) *gorm.DB {
	// Whitelist allowed sort columns
	allowedSortColumns := map[string]bool{
		"created_at":    true,
		"updated_at":    true,
		"name":          true,
		"email":         true,
		"status":        true,
		"last_login_at": true,
		"submitted_at":  true,
	}

	if sortBy == "" || !allowedSortColumns[sortBy] {
		sortBy = "created_at"
	}

	if strings.ToLower(sortOrder) == "asc" {
		sortOrder = "ASC"
	} else {
		sortOrder = "DESC"
	}

	// id keeps the order stable between pages
	query = query.Order(sortBy + " " + sortOrder).Order("id " + sortOrder)

	if limit > 0 {
		query = query.Limit(limit)
	}
	if offset > 0 {
		query = query.Offset(offset)
	}

	return query
}

// CountWorksByStatus groups works by review status
func (h *SharedHelpers) CountWorksByStatus(ctx context.Context) (map[models.ReviewStatus]int64, error) {
	var rows []struct {
		ReviewStatus models.ReviewStatus
		Count        int64
	}

	err := h.db.WithContext(ctx).
		Model(&models.Work{}).
		Select("review_status, COUNT(*) AS count").
		Group("review_status").
		Scan(&rows).Error
	if err != nil {
		return nil, err
	}

	counts := map[models.ReviewStatus]int64{
		models.ReviewPending:  0,
		models.ReviewApproved: 0,
		models.ReviewRejected: 0,
	}
	for _, row := range rows {
		counts[row.ReviewStatus] = row.Count
	}
	return counts, nil
}

func escapeLike(s string) string {
	return strings.NewReplacer(`\`, `\\`, `%`, `\%`, `_`, `\_`).Replace(s)
}
