package cache

import (
	"context"
	"io"
	"log/slog"
	"testing"
	"time"

	"github.com/alicebob/miniredis/v2"
	"github.com/redis/go-redis/v9"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/hirelens/assessment-service/internal/utils"
)

type payload struct {
	Name  string  `json:"name"`
	Score float64 `json:"score"`
}

func newTestCache(t *testing.T) (CacheService, *miniredis.Miniredis) {
	t.Helper()
	mr := miniredis.RunT(t)
	client := redis.NewClient(&redis.Options{Addr: mr.Addr()})
	t.Cleanup(func() { client.Close() })
	logger := utils.NewSlogLogger(slog.New(slog.NewTextHandler(io.Discard, nil)))
	return NewRedisCache(client, logger), mr
}

func TestRedisCache_SetGet(t *testing.T) {
	ctx := context.Background()
	c, _ := newTestCache(t)

	in := payload{Name: "Ada", Score: 46}
	require.NoError(t, c.Set(ctx, "result:1", in, time.Minute))

	var out payload
	require.NoError(t, c.Get(ctx, "result:1", &out))
	assert.Equal(t, in, out)
}

func TestRedisCache_MissingKey(t *testing.T) {
	ctx := context.Background()
	c, _ := newTestCache(t)

	var out payload
	err := c.Get(ctx, "absent", &out)
	assert.ErrorIs(t, err, ErrCacheMiss)
}

func TestRedisCache_Delete(t *testing.T) {
	ctx := context.Background()
	c, _ := newTestCache(t)

	require.NoError(t, c.Set(ctx, "key", payload{Name: "x"}, time.Minute))
	require.NoError(t, c.Delete(ctx, "key"))

	var out payload
	assert.ErrorIs(t, c.Get(ctx, "key", &out), ErrCacheMiss)
}

func TestRedisCache_TTLExpiry(t *testing.T) {
	ctx := context.Background()
	c, mr := newTestCache(t)

	require.NoError(t, c.Set(ctx, "key", payload{Name: "x"}, 30*time.Second))
	mr.FastForward(31 * time.Second)

	var out payload
	assert.ErrorIs(t, c.Get(ctx, "key", &out), ErrCacheMiss)
}
