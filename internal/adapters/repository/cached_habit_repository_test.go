package repository

import (
	"context"
	"testing"
	"time"

	"github.com/google/uuid"
	"github.com/redis/go-redis/v9"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/comitanigiacomo/kanso-insights/internal/adapters/cache"
	"github.com/comitanigiacomo/kanso-insights/internal/core/domain"
)

func setupRedis(t *testing.T) *redis.Client {
	t.Helper()

	rdb, err := cache.NewRedisClient(
		getEnv("REDIS_HOST", "localhost"),
		getEnv("REDIS_PORT", "6379"),
		getEnv("REDIS_PASSWORD", "secret_redis_pass_local"),
		2,
	)
	if err != nil {
		t.Skipf("Skipping Redis integration test: %v", err)
	}
	t.Cleanup(func() { rdb.Close() })

	require.NoError(t, rdb.FlushDB(context.Background()).Err(), "Failed to flush test DB")
	return rdb
}

func TestCachedHabitRepository_Integration(t *testing.T) {
	rdb := setupRedis(t)
	ctx := context.Background()

	next := NewInMemoryHabitRepository()
	repo := NewCachedHabitRepository(next, rdb, time.Minute)

	userID := uuid.NewString()
	read, err := domain.NewHabit(userID, "Read", "", domain.EveryDay())
	require.NoError(t, err)
	require.NoError(t, next.Create(ctx, read))

	t.Run("Miss populates the cache", func(t *testing.T) {
		habits, err := repo.ListByUserID(ctx, userID)
		require.NoError(t, err)
		require.Len(t, habits, 1)

		exists, err := rdb.Exists(ctx, "habits:"+userID).Result()
		require.NoError(t, err)
		assert.Equal(t, int64(1), exists)
	})

	t.Run("Hit ignores new rows until invalidated", func(t *testing.T) {
		gym, err := domain.NewHabit(userID, "Gym", "", domain.EveryDay())
		require.NoError(t, err)
		require.NoError(t, next.Create(ctx, gym))

		habits, err := repo.ListByUserID(ctx, userID)
		require.NoError(t, err)
		assert.Len(t, habits, 1)

		repo.Invalidate(ctx, userID)

		habits, err = repo.ListByUserID(ctx, userID)
		require.NoError(t, err)
		assert.Len(t, habits, 2)
	})

	t.Run("Corrupted payload falls back to the source", func(t *testing.T) {
		require.NoError(t, rdb.Set(ctx, "habits:"+userID, "{not json", time.Minute).Err())

		habits, err := repo.ListByUserID(ctx, userID)
		require.NoError(t, err)
		assert.Len(t, habits, 2)
	})

	t.Run("GetByID passes through", func(t *testing.T) {
		got, err := repo.GetByID(ctx, read.ID)
		require.NoError(t, err)
		assert.Equal(t, "Read", got.Title)

		_, err = repo.GetByID(ctx, "missing")
		assert.ErrorIs(t, err, domain.ErrHabitNotFound)
	})
}
