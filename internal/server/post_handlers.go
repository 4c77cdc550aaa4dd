package server

import (
	"ripple/internal/models"

	"github.com/gofiber/fiber/v2"
)

// CreatePost handles POST /api/posts
func (s *Server) CreatePost(c *fiber.Ctx) error {
	var req struct {
		Text string `json:"text"`
	}
	if err := c.BodyParser(&req); err != nil {
		return models.RespondWithError(c, fiber.StatusBadRequest,
			models.NewValidationError("Invalid request body"))
	}

	post, err := s.postService.CreatePost(c.Context(), currentUserID(c), req.Text)
	if err != nil {
		return respondError(c, err)
	}

	return c.JSON(post)
}

// GetPosts handles GET /api/posts
func (s *Server) GetPosts(c *fiber.Ctx) error {
	posts, err := s.postService.ListPosts(c.Context())
	if err != nil {
		return respondError(c, err)
	}
	return c.JSON(posts)
}

// GetPost handles GET /api/posts/:id
func (s *Server) GetPost(c *fiber.Ctx) error {
	id, err := parseParamID(c, "id", "Post")
	if err != nil {
		return nil
	}

	post, err := s.postService.GetPost(c.Context(), id)
	if err != nil {
		return respondError(c, err)
	}
	return c.JSON(post)
}

// DeletePost handles DELETE /api/posts/:id
func (s *Server) DeletePost(c *fiber.Ctx) error {
	id, err := parseParamID(c, "id", "Post")
	if err != nil {
		return nil
	}

	msg, err := s.postService.DeletePost(c.Context(), id, currentUserID(c))
	if err != nil {
		return respondError(c, err)
	}
	return c.JSON(fiber.Map{"msg": msg})
}

// LikePost handles PUT /api/posts/like/:id
func (s *Server) LikePost(c *fiber.Ctx) error {
	id, err := parseParamID(c, "id", "Post")
	if err != nil {
		return nil
	}

	likes, err := s.postService.LikePost(c.Context(), id, currentUserID(c))
	if err != nil {
		return respondError(c, err)
	}
	return c.JSON(likes)
}

// UnlikePost handles PUT /api/posts/unlike/:id
func (s *Server) UnlikePost(c *fiber.Ctx) error {
	id, err := parseParamID(c, "id", "Post")
	if err != nil {
		return nil
	}

	likes, err := s.postService.UnlikePost(c.Context(), id, currentUserID(c))
	if err != nil {
		return respondError(c, err)
	}
	return c.JSON(likes)
}

// AddComment handles POST /api/posts/comment/:id
func (s *Server) AddComment(c *fiber.Ctx) error {
	id, err := parseParamID(c, "id", "Post")
	if err != nil {
		return nil
	}

	var req struct {
		Text string `json:"text"`
	}
	if err := c.BodyParser(&req); err != nil {
		return models.RespondWithError(c, fiber.StatusBadRequest,
			models.NewValidationError("Invalid request body"))
	}

	comments, err := s.postService.AddComment(c.Context(), id, currentUserID(c), req.Text)
	if err != nil {
		return respondError(c, err)
	}
	return c.JSON(comments)
}

// DeleteComment handles DELETE /api/posts/comment/:id/:commentId
func (s *Server) DeleteComment(c *fiber.Ctx) error {
	id, err := parseParamID(c, "id", "Post")
	if err != nil {
		return nil
	}

	commentID := c.Params("commentId")
	if commentID == "" {
		return models.RespondWithError(c, fiber.StatusNotFound,
			models.NewNotFoundError("Comment", commentID))
	}

	comments, err := s.postService.DeleteComment(c.Context(), id, commentID, currentUserID(c))
	if err != nil {
		return respondError(c, err)
	}
	return c.JSON(comments)
}
