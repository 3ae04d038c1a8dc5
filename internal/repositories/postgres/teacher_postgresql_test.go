package postgres

import (
	"context"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"gorm.io/gorm"

	"github.com/SAP-F-2025/school-admin-service/internal/cache"
	"github.com/SAP-F-2025/school-admin-service/internal/repositories"
)

// captureUpdates records the UPDATE statements a dry run database builds.
func captureUpdates(t *testing.T, db *gorm.DB) *[]string {
	t.Helper()
	var statements []string
	err := db.Callback().Update().After("gorm:update").Register("test:capture_update", func(tx *gorm.DB) {
		statements = append(statements, tx.Dialector.Explain(tx.Statement.SQL.String(), tx.Statement.Vars...))
	})
	require.NoError(t, err)
	return &statements
}

func TestTeacherPostgreSQL_UpdateWritesOnlySuppliedColumns(t *testing.T) {
	db := newDryRunDB(t)
	statements := captureUpdates(t, db)
	repo := NewTeacherPostgreSQL(db, cache.NewCacheManager(nil))

	err := repo.Update(context.Background(), "t1", map[string]interface{}{
		"name":   "Maria Bianchi",
		"status": "suspended",
	})
	// A dry run affects no rows
	assert.ErrorIs(t, err, repositories.ErrNotFound)

	require.Len(t, *statements, 1)
	sql := (*statements)[0]
	assert.Contains(t, sql, `UPDATE "teachers" SET`)
	assert.Contains(t, sql, `"name"='Maria Bianchi'`)
	assert.Contains(t, sql, `"status"='suspended'`)
	assert.Contains(t, sql, `"updated_at"=`)
	assert.Contains(t, sql, "WHERE id = 't1'")
	for _, column := range []string{`"email"`, `"role"`, `"bio"`, `"image_url"`, `"last_login_at"`, `"storage_used"`} {
		assert.NotContains(t, sql, column)
	}
}

func TestTeacherPostgreSQL_UpdateLastLoginActivatesInvited(t *testing.T) {
	db := newDryRunDB(t)
	statements := captureUpdates(t, db)
	repo := NewTeacherPostgreSQL(db, cache.NewCacheManager(nil))

	at := time.Date(2026, 3, 1, 8, 30, 0, 0, time.UTC)
	err := repo.UpdateLastLogin(context.Background(), "t1", at)
	assert.ErrorIs(t, err, repositories.ErrNotFound)

	require.Len(t, *statements, 1)
	sql := (*statements)[0]
	assert.Contains(t, sql, `"last_login_at"='2026-03-01 08:30:00`)
	assert.Contains(t, sql, `"status"=CASE WHEN status = 'invited' THEN 'active' ELSE status END`)
	assert.Contains(t, sql, "WHERE id = 't1'")
}
