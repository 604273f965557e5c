package server

import (
	"dwellr/internal/middleware"
	"dwellr/internal/models"
	"dwellr/internal/service"
	"dwellr/internal/validation"

	"github.com/gofiber/fiber/v2"
)

// CreatePost handles POST /api/createPost.
// The post is attributed to the token's username, never to anything in the
// body, so a client cannot post on another user's behalf.
func (s *Server) CreatePost(c *fiber.Ctx) error {
	username := c.Locals("username").(string)

	var body models.CreatePostBody
	if appErr := validation.ParseBody(c.Body(), &body); appErr != nil {
		return models.RespondWithError(c, appErr)
	}

	post, err := s.postService.CreatePost(c.UserContext(), username, body)
	if err != nil {
		return models.RespondWithError(c, err)
	}

	middleware.Logger.InfoContext(c.UserContext(), "post created",
		"post_id", post.ID, "media_key", post.MediaKey)
	// The mobile client accepts exactly 200 on every call; a 201 here reads
	// as a failed request on its end.
	return c.Status(fiber.StatusOK).JSON(post)
}

// GetPosts handles GET /api/getPosts, returning one feed page. Missing or
// malformed query params fall back to defaults rather than erroring, except
// a negative offset which is a client bug worth surfacing.
func (s *Server) GetPosts(c *fiber.Ctx) error {
	offset := c.QueryInt("offset", 0)
	limit := c.QueryInt("limit", service.DefaultPageSize)

	posts, err := s.postService.ListPosts(c.UserContext(), offset, limit)
	if err != nil {
		return models.RespondWithError(c, err)
	}

	return c.Status(fiber.StatusOK).JSON(posts)
}
