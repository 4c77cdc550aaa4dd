package cache

import (
	"context"
	"testing"
	"time"

	"github.com/alicebob/miniredis/v2"
	"github.com/redis/go-redis/v9"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type payload struct {
	Name  string `json:"name"`
	Count int    `json:"count"`
}

func setupCache(t *testing.T) *miniredis.Miniredis {
	t.Helper()
	mr := miniredis.RunT(t)
	SetClient(redis.NewClient(&redis.Options{Addr: mr.Addr()}))
	t.Cleanup(func() { SetClient(nil) })
	return mr
}

func TestAsideMissThenHit(t *testing.T) {
	setupCache(t)
	ctx := context.Background()

	fetches := 0
	fetch := func(dest *payload) func() error {
		return func() error {
			fetches++
			*dest = payload{Name: "alice", Count: 3}
			return nil
		}
	}

	var got payload
	require.NoError(t, Aside(ctx, "k", &got, time.Minute, fetch(&got)))
	assert.Equal(t, 1, fetches)
	assert.Equal(t, "alice", got.Name)

	// Second read is served from the cache.
	var again payload
	require.NoError(t, Aside(ctx, "k", &again, time.Minute, fetch(&again)))
	assert.Equal(t, 1, fetches, "fetch must not run on a cache hit")
	assert.Equal(t, got, again)
}

func TestAsideInvalidate(t *testing.T) {
	setupCache(t)
	ctx := context.Background()

	fetches := 0
	var got payload
	fetch := func() error {
		fetches++
		got = payload{Name: "alice", Count: fetches}
		return nil
	}

	require.NoError(t, Aside(ctx, "k", &got, time.Minute, fetch))
	Invalidate(ctx, "k")
	require.NoError(t, Aside(ctx, "k", &got, time.Minute, fetch))
	assert.Equal(t, 2, fetches, "invalidation must force a re-fetch")
}

func TestAsideNilClient(t *testing.T) {
	SetClient(nil)
	ctx := context.Background()

	fetches := 0
	var got payload
	fetch := func() error {
		fetches++
		got = payload{Name: "direct"}
		return nil
	}

	// Without a cache every read goes to the source.
	require.NoError(t, Aside(ctx, "k", &got, time.Minute, fetch))
	require.NoError(t, Aside(ctx, "k", &got, time.Minute, fetch))
	assert.Equal(t, 2, fetches)
	assert.Equal(t, "direct", got.Name)
}

func TestGetJSONMiss(t *testing.T) {
	setupCache(t)

	var got payload
	found, err := GetJSON(context.Background(), "missing", &got)
	require.NoError(t, err)
	assert.False(t, found)
}

func TestSetJSONRoundtrip(t *testing.T) {
	setupCache(t)
	ctx := context.Background()

	want := payload{Name: "bob", Count: 7}
	require.NoError(t, SetJSON(ctx, "k", want, time.Minute))

	var got payload
	found, err := GetJSON(ctx, "k", &got)
	require.NoError(t, err)
	require.True(t, found)
	assert.Equal(t, want, got)
}

func TestKeyHelpers(t *testing.T) {
	assert.Equal(t, "user:7", UserKey(7))
	assert.Equal(t, "post:42", PostKey(42))
}
