package server

import (
	"github.com/gofiber/fiber/v2"
)

// LikePost handles POST /api/posts/:id/like. Repeated likes are idempotent:
// the response reports the current counter either way.
func (s *Server) LikePost(c *fiber.Ctx) error {
	postID, err := s.parseID(c, "id")
	if err != nil {
		return nil
	}

	result, svcErr := s.postService.LikePost(c.Context(), currentUserID(c), postID)
	if svcErr != nil {
		return respondServiceError(c, svcErr)
	}

	message := "Post liked"
	if !result.Changed {
		message = "Already liked"
	}
	return c.JSON(fiber.Map{
		"ok":          true,
		"message":     message,
		"liked":       true,
		"likes_count": result.LikesCount,
	})
}

// UnlikePost handles DELETE /api/posts/:id/like. Unliking a post that was
// never liked is a no-op, not an error.
func (s *Server) UnlikePost(c *fiber.Ctx) error {
	postID, err := s.parseID(c, "id")
	if err != nil {
		return nil
	}

	result, svcErr := s.postService.UnlikePost(c.Context(), currentUserID(c), postID)
	if svcErr != nil {
		return respondServiceError(c, svcErr)
	}

	message := "Post unliked"
	if !result.Changed {
		message = "Not liked"
	}
	return c.JSON(fiber.Map{
		"ok":          true,
		"message":     message,
		"liked":       false,
		"likes_count": result.LikesCount,
	})
}
