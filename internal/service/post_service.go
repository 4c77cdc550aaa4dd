// Package service contains the business logic of the application.
package service

import (
	"context"
	"errors"
	"fmt"
	"strings"
	"time"

	"ripple/internal/models"
	"ripple/internal/repository"

	"github.com/google/uuid"
)

// maxSaveAttempts bounds the read-mutate-save retry loop on version conflicts.
const maxSaveAttempts = 3

// PostService implements post, like and comment operations on top of the
// stores.
type PostService struct {
	posts repository.PostStore
	users repository.UserStore
}

// NewPostService creates a new PostService.
func NewPostService(posts repository.PostStore, users repository.UserStore) *PostService {
	return &PostService{posts: posts, users: users}
}

// CreatePost validates the text, snapshots the author's display fields and
// persists a new post with empty likes and comments.
func (s *PostService) CreatePost(ctx context.Context, userID uint, text string) (*models.Post, error) {
	text = strings.TrimSpace(text)
	if text == "" {
		return nil, models.NewFieldValidationError("text", "Text is required")
	}

	user, err := s.users.GetByID(ctx, userID)
	if err != nil {
		// The caller is authenticated, so a lookup failure here is an
		// internal inconsistency, not a client error.
		return nil, models.NewInternalError(err)
	}

	post := &models.Post{
		Text:      text,
		Name:      user.Name,
		Avatar:    user.Avatar,
		UserID:    user.ID,
		Likes:     []models.Like{},
		Comments:  []models.Comment{},
		CreatedAt: time.Now().UTC(),
	}
	if err := s.posts.Create(ctx, post); err != nil {
		return nil, err
	}
	return post, nil
}

// ListPosts returns all posts, most recent first.
func (s *PostService) ListPosts(ctx context.Context) ([]*models.Post, error) {
	return s.posts.Find(ctx)
}

// GetPost returns a single post by id.
func (s *PostService) GetPost(ctx context.Context, id uint) (*models.Post, error) {
	return s.posts.FindByID(ctx, id)
}

// DeletePost removes a post. Only the post's author may delete it.
func (s *PostService) DeletePost(ctx context.Context, id, userID uint) (string, error) {
	post, err := s.posts.FindByID(ctx, id)
	if err != nil {
		return "", err
	}
	if post.UserID != userID {
		return "", models.NewUnauthorizedError("User not authorized")
	}
	if err := s.posts.Delete(ctx, id); err != nil {
		return "", err
	}
	return "Post removed", nil
}

// LikePost records the caller's like on the post and returns the updated
// like list. Liking an already-liked post fails.
func (s *PostService) LikePost(ctx context.Context, id, userID uint) ([]models.Like, error) {
	post, err := s.updatePost(ctx, id, func(p *models.Post) error {
		for _, like := range p.Likes {
			if like.User == userID {
				return models.NewAlreadyLikedError()
			}
		}
		p.Likes = append([]models.Like{{User: userID}}, p.Likes...)
		return nil
	})
	if err != nil {
		return nil, err
	}
	return post.Likes, nil
}

// UnlikePost removes the caller's like from the post and returns the updated
// like list. Unliking a post the caller never liked fails.
func (s *PostService) UnlikePost(ctx context.Context, id, userID uint) ([]models.Like, error) {
	post, err := s.updatePost(ctx, id, func(p *models.Post) error {
		idx := -1
		for i, like := range p.Likes {
			if like.User == userID {
				idx = i
				break
			}
		}
		if idx < 0 {
			return models.NewNotLikedError()
		}
		p.Likes = append(p.Likes[:idx], p.Likes[idx+1:]...)
		return nil
	})
	if err != nil {
		return nil, err
	}
	return post.Likes, nil
}

// AddComment attaches a new comment to the post and returns the updated
// comment list, newest first.
func (s *PostService) AddComment(ctx context.Context, postID, userID uint, text string) ([]models.Comment, error) {
	text = strings.TrimSpace(text)
	if text == "" {
		return nil, models.NewFieldValidationError("text", "Text is required")
	}

	user, err := s.users.GetByID(ctx, userID)
	if err != nil {
		return nil, models.NewInternalError(err)
	}

	comment := models.Comment{
		ID:     uuid.NewString(),
		Text:   text,
		Name:   user.Name,
		Avatar: user.Avatar,
		User:   user.ID,
		Date:   time.Now().UTC(),
	}

	post, err := s.updatePost(ctx, postID, func(p *models.Post) error {
		p.Comments = append([]models.Comment{comment}, p.Comments...)
		return nil
	})
	if err != nil {
		return nil, err
	}
	return post.Comments, nil
}

// DeleteComment removes the comment with the given id from the post and
// returns the remaining comments. Only the comment's author may delete it.
func (s *PostService) DeleteComment(ctx context.Context, postID uint, commentID string, userID uint) ([]models.Comment, error) {
	post, err := s.updatePost(ctx, postID, func(p *models.Post) error {
		idx := -1
		for i, c := range p.Comments {
			if c.ID == commentID {
				idx = i
				break
			}
		}
		if idx < 0 {
			return models.NewNotFoundError("Comment", commentID)
		}
		if p.Comments[idx].User != userID {
			return models.NewUnauthorizedError("User not authorized")
		}
		p.Comments = append(p.Comments[:idx], p.Comments[idx+1:]...)
		return nil
	})
	if err != nil {
		return nil, err
	}
	return post.Comments, nil
}

// updatePost runs a read-mutate-save cycle on a post, retrying the whole
// cycle on version conflicts. A mutate error aborts immediately; conflicts
// beyond maxSaveAttempts surface as an internal error.
func (s *PostService) updatePost(ctx context.Context, postID uint, mutate func(*models.Post) error) (*models.Post, error) {
	for attempt := 0; attempt < maxSaveAttempts; attempt++ {
		post, err := s.posts.FindByID(ctx, postID)
		if err != nil {
			return nil, err
		}
		if err := mutate(post); err != nil {
			return nil, err
		}
		err = s.posts.Save(ctx, post)
		if err == nil {
			return post, nil
		}
		if !errors.Is(err, repository.ErrVersionConflict) {
			return nil, err
		}
	}
	return nil, models.NewInternalError(
		fmt.Errorf("post %d: %w after %d attempts", postID, repository.ErrVersionConflict, maxSaveAttempts))
}
