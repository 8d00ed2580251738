package cache

import (
	"context"
	"fmt"
	"os"
	"testing"
	"time"

	"github.com/joho/godotenv"
	"github.com/redis/go-redis/v9"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/comitanigiacomo/kanso-insights/internal/core/domain"
)

func getEnv(key, fallback string) string {
	if v := os.Getenv(key); v != "" {
		return v
	}
	return fallback
}

func setupRedis(t *testing.T) *redis.Client {
	t.Helper()
	_ = godotenv.Load("../../../.env")

	host := getEnv("REDIS_HOST", "localhost")
	port := getEnv("REDIS_PORT", "6379")
	pass := getEnv("REDIS_PASSWORD", "secret_redis_pass_local")

	rdb, err := NewRedisClient(host, port, pass, 1)
	if err != nil {
		t.Skipf("Skipping Redis integration test: %v", err)
	}
	t.Cleanup(func() { rdb.Close() })

	require.NoError(t, rdb.FlushDB(context.Background()).Err(), "Failed to flush test DB")
	return rdb
}

func TestRedisClient_Integration(t *testing.T) {
	rdb := setupRedis(t)
	ctx := context.Background()

	t.Run("Connection Ping", func(t *testing.T) {
		pong, err := rdb.Ping(ctx).Result()
		assert.NoError(t, err)
		assert.Equal(t, "PONG", pong)
	})

	t.Run("Expire Check", func(t *testing.T) {
		key := "test_expire"
		err := rdb.Set(ctx, key, "expire_me", 1*time.Second).Err()
		require.NoError(t, err)

		time.Sleep(1100 * time.Millisecond)

		_, err = rdb.Get(ctx, key).Result()
		assert.ErrorIs(t, err, redis.Nil, "Errors need to be of type 'redis.Nil'")
	})
}

func TestRedisReportCache_Integration(t *testing.T) {
	rdb := setupRedis(t)
	ctx := context.Background()
	c := NewRedisReportCache(rdb, time.Minute)

	t.Run("Version starts at zero and increments", func(t *testing.T) {
		v, err := c.Version(ctx, "u1")
		require.NoError(t, err)
		assert.Equal(t, int64(0), v)

		require.NoError(t, c.Bump(ctx, "u1"))
		require.NoError(t, c.Bump(ctx, "u1"))

		v, err = c.Version(ctx, "u1")
		require.NoError(t, err)
		assert.Equal(t, int64(2), v)

		other, err := c.Version(ctx, "u2")
		require.NoError(t, err)
		assert.Equal(t, int64(0), other, "versions are per user")
	})

	t.Run("Miss returns no error", func(t *testing.T) {
		r, ok, err := c.Get(ctx, "missing")
		assert.NoError(t, err)
		assert.False(t, ok)
		assert.Nil(t, r)
	})

	t.Run("Set then Get round trips the report", func(t *testing.T) {
		delta := -12.5
		report := &domain.Report{
			View:  domain.ViewWindow{Year: 2024, MonthIndex: 1, StartOfWeek: domain.WeekStartsMonday},
			Today: "2024-02-10",
			Annual: domain.AnnualStats{
				Year:             2024,
				TotalCompletions: 12,
			},
		}
		report.Annual.MonthlySummaries[1].Delta = &delta

		require.NoError(t, c.Set(ctx, "u1:0:2024:1", report))

		got, ok, err := c.Get(ctx, "u1:0:2024:1")
		require.NoError(t, err)
		require.True(t, ok)
		assert.Equal(t, "2024-02-10", got.Today)
		assert.Equal(t, 12.0, got.Annual.TotalCompletions)
		require.NotNil(t, got.Annual.MonthlySummaries[1].Delta)
		assert.Equal(t, delta, *got.Annual.MonthlySummaries[1].Delta)
	})

	t.Run("Corrupted payload is dropped", func(t *testing.T) {
		require.NoError(t, rdb.Set(ctx, reportKey("bad"), "{not json", time.Minute).Err())

		_, ok, err := c.Get(ctx, "bad")
		assert.Error(t, err)
		assert.False(t, ok)

		exists, err := rdb.Exists(ctx, reportKey("bad")).Result()
		require.NoError(t, err)
		assert.Equal(t, int64(0), exists)
	})

	t.Run("Concurrent Access", func(t *testing.T) {
		concurrency := 20
		done := make(chan bool)

		for i := 0; i < concurrency; i++ {
			go func(id int) {
				key := fmt.Sprintf("concurrent_%d", id)
				assert.NoError(t, c.Set(ctx, key, &domain.Report{Today: key}))

				_, ok, err := c.Get(ctx, key)
				assert.NoError(t, err)
				assert.True(t, ok)

				done <- true
			}(i)
		}

		for i := 0; i < concurrency; i++ {
			<-done
		}
	})
}
