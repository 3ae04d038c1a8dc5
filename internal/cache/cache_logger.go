package cache

import (
	"context"
	"log/slog"
	"time"
)

// SafeInvalidatePattern safely invalidates cache pattern with logging
func SafeInvalidatePattern(ctx context.Context, helper *CacheHelper, pattern string) {
	if err := helper.InvalidatePattern(ctx, pattern); err != nil {
		slog.ErrorContext(ctx, "Failed to invalidate cache pattern",
			"error", err,
			"pattern", pattern)
	}
}

// SafeDelete safely deletes cache keys with logging
func SafeDelete(ctx context.Context, helper *CacheHelper, keys ...string) {
	if err := helper.Delete(ctx, keys...); err != nil {
		slog.ErrorContext(ctx, "Failed to delete cache keys",
			"error", err,
			"keys", keys)
	}
}

// SafeSet safely stores a value with logging
func SafeSet(ctx context.Context, helper *CacheHelper, key string, value interface{}, ttl time.Duration) {
	if err := helper.Set(ctx, key, value, ttl); err != nil {
		slog.WarnContext(ctx, "Failed to set cache key",
			"error", err,
			"key", key)
	}
}

// InvalidateTeacherCache drops a teacher's cached record and everything derived from the teacher list.
func InvalidateTeacherCache(ctx context.Context, cm *CacheManager, teacherID, email string) {
	keys := []string{"id:" + teacherID}
	if email != "" {
		keys = append(keys, "email:"+email)
	}
	SafeDelete(ctx, cm.Teacher, keys...)
	SafeDelete(ctx, cm.Stats, "teachers")
}

// InvalidateWorkCache drops a work's cached record and the pending queue.
func InvalidateWorkCache(ctx context.Context, cm *CacheManager, workID string) {
	SafeDelete(ctx, cm.Work, "id:"+workID)
	SafeInvalidatePattern(ctx, cm.Work, "pending:*")
	SafeDelete(ctx, cm.Stats, "works")
}
