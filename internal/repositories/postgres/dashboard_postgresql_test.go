package postgres

import (
	"context"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"gorm.io/gorm"
)

func TestDashboardRepository_GetActivityTrendsSingleQuery(t *testing.T) {
	db := newDryRunDB(t)
	var statements []string
	require.NoError(t, db.Callback().Query().After("gorm:query").Register("test:capture_query", func(tx *gorm.DB) {
		statements = append(statements, tx.Statement.SQL.String())
	}))
	repo := NewDashboardRepository(db)

	trends, err := repo.GetActivityTrends(context.Background(), 30)

	require.NoError(t, err)
	assert.Len(t, trends, 30)
	require.Len(t, statements, 1)
	assert.Contains(t, statements[0], "GROUP BY day")
	assert.Contains(t, statements[0], "UNION ALL")
}

func TestFillActivityDays(t *testing.T) {
	since := time.Date(2026, 3, 1, 0, 0, 0, 0, time.UTC)
	rows := []dailyActivity{
		{Day: since, Submitted: 3},
		{Day: since.AddDate(0, 0, 2), Submitted: 1, Reviewed: 4},
	}

	trends := fillActivityDays(since, 3, rows)

	require.Len(t, trends, 3)
	assert.Equal(t, "01/03", trends[0].Period)
	assert.Equal(t, int64(3), trends[0].Submitted)
	assert.Zero(t, trends[1].Submitted)
	assert.Zero(t, trends[1].Reviewed)
	assert.Equal(t, "03/03", trends[2].Period)
	assert.Equal(t, int64(4), trends[2].Reviewed)
	assert.Equal(t, since.AddDate(0, 0, 2), trends[2].Date)
}
