package repository

import (
	"context"
	"testing"
	"time"

	"ripple/internal/cache"
	"ripple/internal/database"
	"ripple/internal/models"

	"github.com/alicebob/miniredis/v2"
	"github.com/redis/go-redis/v9"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"gorm.io/driver/sqlite"
	"gorm.io/gorm"
	"gorm.io/gorm/logger"
)

func setupDB(t *testing.T) *gorm.DB {
	t.Helper()
	db, err := gorm.Open(sqlite.Open(":memory:"), &gorm.Config{
		Logger: logger.Default.LogMode(logger.Silent),
	})
	require.NoError(t, err)
	require.NoError(t, database.Migrate(db))
	return db
}

func setupLiveCache(t *testing.T) *miniredis.Miniredis {
	t.Helper()
	mr := miniredis.RunT(t)
	cache.SetClient(redis.NewClient(&redis.Options{Addr: mr.Addr()}))
	t.Cleanup(func() { cache.SetClient(nil) })
	return mr
}

func TestPostStoreRoundtrip(t *testing.T) {
	store := NewPostStore(setupDB(t))
	ctx := context.Background()

	post := &models.Post{
		Text:     "hello",
		Name:     "Alice",
		UserID:   1,
		Likes:    []models.Like{{User: 2}},
		Comments: []models.Comment{{ID: "c1", Text: "hi", User: 2}},
	}
	require.NoError(t, store.Create(ctx, post))
	require.NotZero(t, post.ID)

	got, err := store.FindByID(ctx, post.ID)
	require.NoError(t, err)
	assert.Equal(t, "hello", got.Text)
	require.Len(t, got.Likes, 1)
	assert.Equal(t, uint(2), got.Likes[0].User)
	require.Len(t, got.Comments, 1)
	assert.Equal(t, "c1", got.Comments[0].ID)
}

func TestPostStoreFindByIDUnknown(t *testing.T) {
	store := NewPostStore(setupDB(t))

	_, err := store.FindByID(context.Background(), 999)
	require.Error(t, err)
	appErr, ok := err.(*models.AppError)
	require.True(t, ok)
	assert.Equal(t, "NOT_FOUND", appErr.Code)
}

func TestPostStoreFindOrdering(t *testing.T) {
	db := setupDB(t)
	store := NewPostStore(db)
	ctx := context.Background()

	base := time.Date(2026, 1, 10, 12, 0, 0, 0, time.UTC)
	older := &models.Post{Text: "older", Name: "A", UserID: 1, CreatedAt: base.Add(-time.Hour)}
	newer := &models.Post{Text: "newer", Name: "A", UserID: 1, CreatedAt: base}
	// Same timestamp as newer; higher id must win the tie.
	tied := &models.Post{Text: "tied", Name: "A", UserID: 1, CreatedAt: base}

	require.NoError(t, store.Create(ctx, older))
	require.NoError(t, store.Create(ctx, newer))
	require.NoError(t, store.Create(ctx, tied))

	posts, err := store.Find(ctx)
	require.NoError(t, err)
	require.Len(t, posts, 3)
	assert.Equal(t, "tied", posts[0].Text)
	assert.Equal(t, "newer", posts[1].Text)
	assert.Equal(t, "older", posts[2].Text)
}

func TestPostStoreSaveVersionConflict(t *testing.T) {
	store := NewPostStore(setupDB(t))
	ctx := context.Background()

	post := &models.Post{Text: "contested", Name: "A", UserID: 1}
	require.NoError(t, store.Create(ctx, post))

	// Two concurrent readers of the same version.
	first, err := store.FindByID(ctx, post.ID)
	require.NoError(t, err)
	second, err := store.FindByID(ctx, post.ID)
	require.NoError(t, err)

	first.Likes = []models.Like{{User: 2}}
	require.NoError(t, store.Save(ctx, first))

	second.Likes = []models.Like{{User: 3}}
	err = store.Save(ctx, second)
	require.ErrorIs(t, err, ErrVersionConflict)

	// The first write must be intact.
	got, err := store.FindByID(ctx, post.ID)
	require.NoError(t, err)
	require.Len(t, got.Likes, 1)
	assert.Equal(t, uint(2), got.Likes[0].User)
}

func TestPostStoreSaveBumpsVersion(t *testing.T) {
	store := NewPostStore(setupDB(t))
	ctx := context.Background()

	post := &models.Post{Text: "versioned", Name: "A", UserID: 1}
	require.NoError(t, store.Create(ctx, post))

	loaded, err := store.FindByID(ctx, post.ID)
	require.NoError(t, err)
	v := loaded.Version

	loaded.Comments = []models.Comment{{ID: "c1", Text: "x", User: 1}}
	require.NoError(t, store.Save(ctx, loaded))
	assert.Equal(t, v+1, loaded.Version)

	// A second save from the already-bumped copy succeeds.
	loaded.Comments = nil
	require.NoError(t, store.Save(ctx, loaded))
}

func TestPostStoreCachedReadKeepsVersion(t *testing.T) {
	setupLiveCache(t)
	store := NewPostStore(setupDB(t))
	ctx := context.Background()

	post := &models.Post{Text: "cached", Name: "A", UserID: 1}
	require.NoError(t, store.Create(ctx, post))

	// First mutation bumps the row past version zero and evicts the entry.
	first, err := store.FindByID(ctx, post.ID)
	require.NoError(t, err)
	first.Likes = []models.Like{{User: 2}}
	require.NoError(t, store.Save(ctx, first))

	// Warm the cache, then take the cache hit.
	warmed, err := store.FindByID(ctx, post.ID)
	require.NoError(t, err)
	cached, err := store.FindByID(ctx, post.ID)
	require.NoError(t, err)
	assert.Equal(t, warmed.Version, cached.Version,
		"a cache round-trip must not lose the version counter")

	// A mutation built on the cached read must still win its swap.
	cached.Likes = append([]models.Like{{User: 3}}, cached.Likes...)
	require.NoError(t, store.Save(ctx, cached))

	got, err := store.FindByID(ctx, post.ID)
	require.NoError(t, err)
	require.Len(t, got.Likes, 2)
}

func TestPostStoreConflictEvictsCachedEntry(t *testing.T) {
	mr := setupLiveCache(t)
	store := NewPostStore(setupDB(t))
	ctx := context.Background()

	post := &models.Post{Text: "contested", Name: "A", UserID: 1}
	require.NoError(t, store.Create(ctx, post))

	stale, err := store.FindByID(ctx, post.ID)
	require.NoError(t, err)

	winner, err := store.FindByID(ctx, post.ID)
	require.NoError(t, err)
	winner.Likes = []models.Like{{User: 2}}
	require.NoError(t, store.Save(ctx, winner))

	// Re-cache the post, then lose a swap from the stale copy.
	_, err = store.FindByID(ctx, post.ID)
	require.NoError(t, err)
	stale.Likes = []models.Like{{User: 3}}
	require.ErrorIs(t, store.Save(ctx, stale), ErrVersionConflict)

	// The conflicting write must evict the cached entry so a retry
	// re-reads the winning row.
	assert.False(t, mr.Exists(cache.PostKey(post.ID)))

	fresh, err := store.FindByID(ctx, post.ID)
	require.NoError(t, err)
	assert.Equal(t, winner.Version, fresh.Version)
}

func TestPostStoreDelete(t *testing.T) {
	store := NewPostStore(setupDB(t))
	ctx := context.Background()

	post := &models.Post{Text: "gone soon", Name: "A", UserID: 1}
	require.NoError(t, store.Create(ctx, post))

	require.NoError(t, store.Delete(ctx, post.ID))

	_, err := store.FindByID(ctx, post.ID)
	require.Error(t, err)

	err = store.Delete(ctx, post.ID)
	require.Error(t, err)
	appErr, ok := err.(*models.AppError)
	require.True(t, ok)
	assert.Equal(t, "NOT_FOUND", appErr.Code)
}
