// Package repository provides data access layer implementations for the application.
package repository

import (
	"context"
	"errors"

	"ripple/internal/cache"
	"ripple/internal/middleware"
	"ripple/internal/models"

	"gorm.io/gorm"
)

// ErrVersionConflict is returned by Save when the post row changed between
// the read and the write of a read-modify-write cycle.
var ErrVersionConflict = errors.New("post version conflict")

// PostStore defines persistence over the post aggregate. Likes and comments
// travel inside the aggregate; there are no finer-grained operations.
type PostStore interface {
	Create(ctx context.Context, post *models.Post) error
	Find(ctx context.Context) ([]*models.Post, error)
	FindByID(ctx context.Context, id uint) (*models.Post, error)
	// Save persists a mutated aggregate with a compare-and-swap on
	// (id, version). Returns ErrVersionConflict when the swap loses.
	Save(ctx context.Context, post *models.Post) error
	Delete(ctx context.Context, id uint) error
}

type postStore struct {
	db *gorm.DB
}

// NewPostStore creates a new post store backed by the given DB.
func NewPostStore(db *gorm.DB) PostStore {
	return &postStore{db: db}
}

func (s *postStore) Create(ctx context.Context, post *models.Post) error {
	if err := s.db.WithContext(ctx).Create(post).Error; err != nil {
		return models.NewInternalError(err)
	}
	cache.InvalidatePostsList(ctx)
	return nil
}

func (s *postStore) Find(ctx context.Context) ([]*models.Post, error) {
	var posts []*models.Post
	err := cache.Aside(ctx, cache.PostsListKey, &posts, cache.ListTTL, func() error {
		// Newest first; id breaks timestamp ties in insertion order,
		// newest insertion first.
		return s.db.WithContext(ctx).
			Order("created_at DESC, id DESC").
			Find(&posts).Error
	})
	if err != nil {
		return nil, models.NewInternalError(err)
	}
	return posts, nil
}

// postCacheEntry is the cached shape of a post. The API representation of a
// post omits the version counter, so the entry carries it explicitly; a
// cached read must stay usable for a compare-and-swap write.
type postCacheEntry struct {
	Post    *models.Post `json:"post"`
	Version uint         `json:"version"`
}

func (s *postStore) FindByID(ctx context.Context, id uint) (*models.Post, error) {
	key := cache.PostKey(id)

	var entry postCacheEntry
	if found, err := cache.GetJSON(ctx, key, &entry); err == nil && found && entry.Post != nil {
		entry.Post.Version = entry.Version
		return entry.Post, nil
	}

	var post models.Post
	if err := s.db.WithContext(ctx).First(&post, id).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, models.NewNotFoundError("Post", id)
		}
		return nil, models.NewInternalError(err)
	}

	_ = cache.SetJSON(ctx, key, postCacheEntry{Post: &post, Version: post.Version}, cache.PostTTL)
	return &post, nil
}

func (s *postStore) Save(ctx context.Context, post *models.Post) error {
	next := post.Version + 1
	res := s.db.WithContext(ctx).
		Model(post).
		Where("version = ?", post.Version).
		Select("Likes", "Comments", "Version").
		Updates(&models.Post{Likes: post.Likes, Comments: post.Comments, Version: next})
	if res.Error != nil {
		return models.NewInternalError(res.Error)
	}
	if res.RowsAffected == 0 {
		middleware.PostSaveConflicts.Inc()
		// The caller's copy lost the race and any cached entry may be just
		// as stale; evict it so the retry re-reads the winning row.
		cache.InvalidatePost(ctx, post.ID)
		return ErrVersionConflict
	}
	post.Version = next

	cache.InvalidatePost(ctx, post.ID)
	cache.InvalidatePostsList(ctx)
	return nil
}

func (s *postStore) Delete(ctx context.Context, id uint) error {
	res := s.db.WithContext(ctx).Delete(&models.Post{}, id)
	if res.Error != nil {
		return models.NewInternalError(res.Error)
	}
	if res.RowsAffected == 0 {
		return models.NewNotFoundError("Post", id)
	}

	cache.InvalidatePost(ctx, id)
	cache.InvalidatePostsList(ctx)
	return nil
}
