package server

import (
	"minisocial/internal/models"
	"minisocial/internal/service"

	"github.com/gofiber/fiber/v2"
)

// GetFeed handles GET /api/posts
func (s *Server) GetFeed(c *fiber.Ctx) error {
	pp := parsePageParams(c)
	posts, total, err := s.postService.Feed(c.Context(), service.FeedInput{
		Search:   c.Query("search"),
		Tag:      c.Query("tag"),
		AuthorID: uint(c.QueryInt("author_id", 0)),
		Sort:     c.Query("sort", "latest"),
		Page:     pp.Page,
		Limit:    pp.Limit,
	})
	if err != nil {
		return respondServiceError(c, err)
	}
	return c.JSON(fiber.Map{
		"ok":    true,
		"posts": posts,
		"page":  pp.Page,
		"total": total,
	})
}

// GetTrending handles GET /api/posts/trending
func (s *Server) GetTrending(c *fiber.Ctx) error {
	posts, err := s.postService.Trending(c.Context(), service.TrendingInput{
		Days:   c.QueryInt("days", 0),
		Limit:  c.QueryInt("limit", 0),
		Tag:    c.Query("tag"),
		Search: c.Query("search"),
	})
	if err != nil {
		return respondServiceError(c, err)
	}
	return c.JSON(fiber.Map{
		"ok":    true,
		"posts": posts,
	})
}

// GetMyPosts handles GET /api/posts/mine
func (s *Server) GetMyPosts(c *fiber.Ctx) error {
	pp := parsePageParams(c)
	posts, total, err := s.postService.MyPosts(c.Context(), currentUserID(c), pp.Page, pp.Limit)
	if err != nil {
		return respondServiceError(c, err)
	}
	return c.JSON(fiber.Map{
		"ok":    true,
		"posts": posts,
		"page":  pp.Page,
		"total": total,
	})
}

// GetMyDrafts handles GET /api/posts/drafts
func (s *Server) GetMyDrafts(c *fiber.Ctx) error {
	pp := parsePageParams(c)
	posts, total, err := s.postService.MyDrafts(c.Context(), currentUserID(c), pp.Page, pp.Limit)
	if err != nil {
		return respondServiceError(c, err)
	}
	return c.JSON(fiber.Map{
		"ok":    true,
		"posts": posts,
		"page":  pp.Page,
		"total": total,
	})
}

// GetPost handles GET /api/posts/:id
func (s *Server) GetPost(c *fiber.Ctx) error {
	postID, err := s.parseID(c, "id")
	if err != nil {
		return nil
	}

	post, svcErr := s.postService.GetPost(c.Context(), postID, s.optionalUserID(c))
	if svcErr != nil {
		return respondServiceError(c, svcErr)
	}
	return c.JSON(fiber.Map{"ok": true, "post": post})
}

// CreatePost handles POST /api/posts
func (s *Server) CreatePost(c *fiber.Ctx) error {
	var req struct {
		Title   string  `json:"title"`
		Content string  `json:"content"`
		Status  string  `json:"status"`
		Tags    tagList `json:"tags"`
	}
	if err := c.BodyParser(&req); err != nil {
		return models.RespondWithError(c, fiber.StatusBadRequest,
			models.NewValidationError("Invalid request body"))
	}

	post, err := s.postService.CreatePost(c.Context(), service.CreatePostInput{
		AuthorID: currentUserID(c),
		Title:    req.Title,
		Content:  req.Content,
		Status:   req.Status,
		Tags:     req.Tags,
	})
	if err != nil {
		return respondServiceError(c, err)
	}
	return c.Status(fiber.StatusCreated).JSON(fiber.Map{"ok": true, "post": post})
}

// UpdatePost handles PATCH /api/posts/:id
func (s *Server) UpdatePost(c *fiber.Ctx) error {
	postID, err := s.parseID(c, "id")
	if err != nil {
		return nil
	}

	var req struct {
		Title   *string `json:"title"`
		Content *string `json:"content"`
		Status  *string `json:"status"`
		Tags    tagList `json:"tags"`
	}
	if err := c.BodyParser(&req); err != nil {
		return models.RespondWithError(c, fiber.StatusBadRequest,
			models.NewValidationError("Invalid request body"))
	}

	post, svcErr := s.postService.UpdatePost(c.Context(), service.UpdatePostInput{
		UserID:  currentUserID(c),
		PostID:  postID,
		Title:   req.Title,
		Content: req.Content,
		Status:  req.Status,
		Tags:    req.Tags,
	})
	if svcErr != nil {
		return respondServiceError(c, svcErr)
	}
	return c.JSON(fiber.Map{"ok": true, "post": post})
}

// DeletePost handles DELETE /api/posts/:id
func (s *Server) DeletePost(c *fiber.Ctx) error {
	postID, err := s.parseID(c, "id")
	if err != nil {
		return nil
	}

	if svcErr := s.postService.DeletePost(c.Context(), currentUserID(c), postID); svcErr != nil {
		return respondServiceError(c, svcErr)
	}
	return c.JSON(fiber.Map{"ok": true, "message": "Post deleted"})
}
