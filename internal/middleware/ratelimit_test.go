package middleware

import (
	"context"
	"testing"
	"time"

	"github.com/alicebob/miniredis/v2"
	"github.com/redis/go-redis/v9"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestCheckRateLimitEnforced(t *testing.T) {
	t.Setenv("APP_ENV", "production")
	mr := miniredis.RunT(t)
	rdb := redis.NewClient(&redis.Options{Addr: mr.Addr()})
	ctx := context.Background()

	for i := 0; i < 3; i++ {
		allowed, err := CheckRateLimit(ctx, rdb, "signup", "ip:1.2.3.4", 3, time.Minute)
		require.NoError(t, err)
		assert.True(t, allowed, "request %d should be within the limit", i+1)
	}

	allowed, err := CheckRateLimit(ctx, rdb, "signup", "ip:1.2.3.4", 3, time.Minute)
	require.NoError(t, err)
	assert.False(t, allowed, "fourth request must exceed the limit")

	// A different caller has its own counter.
	allowed, err = CheckRateLimit(ctx, rdb, "signup", "ip:5.6.7.8", 3, time.Minute)
	require.NoError(t, err)
	assert.True(t, allowed)
}

func TestCheckRateLimitWindowExpiry(t *testing.T) {
	t.Setenv("APP_ENV", "production")
	mr := miniredis.RunT(t)
	rdb := redis.NewClient(&redis.Options{Addr: mr.Addr()})
	ctx := context.Background()

	allowed, err := CheckRateLimit(ctx, rdb, "login", "ip:1.2.3.4", 1, time.Minute)
	require.NoError(t, err)
	require.True(t, allowed)

	allowed, err = CheckRateLimit(ctx, rdb, "login", "ip:1.2.3.4", 1, time.Minute)
	require.NoError(t, err)
	require.False(t, allowed)

	mr.FastForward(2 * time.Minute)

	allowed, err = CheckRateLimit(ctx, rdb, "login", "ip:1.2.3.4", 1, time.Minute)
	require.NoError(t, err)
	assert.True(t, allowed, "counter must reset after the window expires")
}

func TestCheckRateLimitDisabledInTestEnv(t *testing.T) {
	t.Setenv("APP_ENV", "test")

	// No Redis needed when the limiter is disabled.
	allowed, err := CheckRateLimit(context.Background(), nil, "signup", "ip:1.2.3.4", 1, time.Minute)
	require.NoError(t, err)
	assert.True(t, allowed)
}

func TestCheckRateLimitNilClient(t *testing.T) {
	t.Setenv("APP_ENV", "production")

	_, err := CheckRateLimit(context.Background(), nil, "signup", "ip:1.2.3.4", 1, time.Minute)
	assert.Error(t, err)
}
