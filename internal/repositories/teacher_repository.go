package repositories

import (
	"context"
	"time"

	"github.com/SAP-F-2025/school-admin-service/internal/models"
)

// TeacherRepository persists teacher profiles. Records are never hard-deleted.
type TeacherRepository interface {
	Create(ctx context.Context, teacher *models.Teacher) error
	// Update writes only the given columns; a missing id is ErrNotFound.
	Update(ctx context.Context, id string, fields map[string]interface{}) error

	GetByID(ctx context.Context, id string) (*models.Teacher, error)
	GetByEmail(ctx context.Context, email string) (*models.Teacher, error)
	ExistsByEmail(ctx context.Context, email string) (bool, error)

	List(ctx context.Context, filters TeacherFilters) ([]*models.Teacher, int64, error)
	GetStats(ctx context.Context) (*models.TeacherStats, error)

	UpdateLastLogin(ctx context.Context, id string, at time.Time) error
}
