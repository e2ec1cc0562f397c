package server

import (
	"github.com/vincentFaye/dev-social-network/internal/models"
	"github.com/vincentFaye/dev-social-network/internal/service"

	"github.com/gofiber/fiber/v2"
)

// CreatePost handles POST /api/posts
func (s *Server) CreatePost(c *fiber.Ctx) error {
	var req service.TextInput
	if err := bindBody(c, &req); err != nil {
		return nil
	}

	post, err := s.postService.Create(c.UserContext(), currentUserID(c), req.Text)
	if err != nil {
		return s.respondServiceError(c, err)
	}
	post.EnsureLists()
	return c.JSON(post)
}

// GetPosts handles GET /api/posts
func (s *Server) GetPosts(c *fiber.Ctx) error {
	posts, err := s.postService.List(c.UserContext())
	if err != nil {
		return s.respondServiceError(c, err)
	}
	for _, p := range posts {
		p.EnsureLists()
	}
	if posts == nil {
		posts = []*models.Post{}
	}
	return c.JSON(posts)
}

// GetPost handles GET /api/posts/:postId
func (s *Server) GetPost(c *fiber.Ctx) error {
	postID, err := s.parseID(c, "postId")
	if err != nil {
		return nil
	}

	post, err := s.postService.Get(c.UserContext(), postID)
	if err != nil {
		return s.respondServiceError(c, err)
	}
	post.EnsureLists()
	return c.JSON(post)
}

// DeletePost handles DELETE /api/posts/:postId
func (s *Server) DeletePost(c *fiber.Ctx) error {
	postID, err := s.parseID(c, "postId")
	if err != nil {
		return nil
	}

	if err := s.postService.Delete(c.UserContext(), currentUserID(c), postID); err != nil {
		return s.respondServiceError(c, err)
	}
	return c.JSON(fiber.Map{"msg": "Post removed"})
}

// LikePost handles PUT /api/posts/like/:postId
func (s *Server) LikePost(c *fiber.Ctx) error {
	postID, err := s.parseID(c, "postId")
	if err != nil {
		return nil
	}

	likes, err := s.postService.Like(c.UserContext(), currentUserID(c), postID)
	if err != nil {
		return s.respondServiceError(c, err)
	}
	return c.JSON(likes)
}

// UnlikePost handles PUT /api/posts/unlike/:postId
func (s *Server) UnlikePost(c *fiber.Ctx) error {
	postID, err := s.parseID(c, "postId")
	if err != nil {
		return nil
	}

	likes, err := s.postService.Unlike(c.UserContext(), currentUserID(c), postID)
	if err != nil {
		return s.respondServiceError(c, err)
	}
	return c.JSON(likes)
}

// CreateComment handles POST /api/posts/comment/:postId
func (s *Server) CreateComment(c *fiber.Ctx) error {
	postID, err := s.parseID(c, "postId")
	if err != nil {
		return nil
	}

	var req service.TextInput
	if err := bindBody(c, &req); err != nil {
		return nil
	}

	comments, err := s.postService.AddComment(c.UserContext(), currentUserID(c), postID, req.Text)
	if err != nil {
		return s.respondServiceError(c, err)
	}
	return c.JSON(comments)
}

// DeleteComment handles DELETE /api/posts/comment/:postId/:commentId
func (s *Server) DeleteComment(c *fiber.Ctx) error {
	postID, err := s.parseID(c, "postId")
	if err != nil {
		return nil
	}

	comments, err := s.postService.RemoveComment(c.UserContext(), currentUserID(c), postID, c.Params("commentId"))
	if err != nil {
		return s.respondServiceError(c, err)
	}
	return c.JSON(comments)
}
