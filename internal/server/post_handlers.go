package server

import (
	"blogify/internal/service"

	"github.com/gofiber/fiber/v2"
)

type postRequest struct {
	Title      string `json:"title"`
	Body       string `json:"body"`
	Photo      string `json:"photo"`
	CategoryID uint   `json:"categories"`
}

type likeRequest struct {
	PostID uint `json:"post_id"`
}

// GetPosts handles GET /api/posts?limit=
// @Summary List posts
// @Description Return the newest posts
// @Tags posts
// @Produce json
// @Security BearerAuth
// @Param limit query int false "Max posts"
// @Success 200 {object} object{success=bool,message=string,posts=[]models.Post}
// @Failure 401 {object} models.ErrorResponse
// @Router /posts [get]
func (s *Server) GetPosts(c *fiber.Ctx) error {
	posts, err := s.postService.ListPosts(c.UserContext(), parseLimit(c))
	if err != nil {
		return respondError(c, err)
	}
	return c.JSON(fiber.Map{
		"success": true,
		"message": "Records found",
		"posts":   posts,
	})
}

// SearchPosts handles GET /api/posts/search?q=
// @Summary Search posts
// @Description Full-text search over titles and bodies
// @Tags posts
// @Produce json
// @Param q query string true "Search term"
// @Success 200 {object} object{success=bool,message=string,posts=[]models.Post}
// @Failure 400 {object} models.ErrorResponse
// @Failure 429 {object} models.ErrorResponse
// @Router /posts/search [get]
func (s *Server) SearchPosts(c *fiber.Ctx) error {
	posts, err := s.postService.SearchPosts(c.UserContext(), c.Query("q"), parseLimit(c))
	if err != nil {
		return respondError(c, err)
	}
	return c.JSON(fiber.Map{
		"success": true,
		"message": "Records found",
		"posts":   posts,
	})
}

// CreatePost handles POST /api/posts. The author is always the caller.
// @Summary Create post
// @Description Publish a post as the caller
// @Tags posts
// @Accept json
// @Produce json
// @Security BearerAuth
// @Param request body postRequest true "Post"
// @Success 201 {object} object{success=bool,message=string,data=models.Post}
// @Failure 400 {object} models.ErrorResponse
// @Failure 401 {object} models.ErrorResponse
// @Failure 409 {object} models.ErrorResponse
// @Router /posts [post]
func (s *Server) CreatePost(c *fiber.Ctx) error {
	var req postRequest
	if err := parseBody(c, &req); err != nil {
		return nil
	}

	post, err := s.postService.CreatePost(c.UserContext(), service.CreatePostInput{
		AuthorID:   currentUserID(c),
		Title:      req.Title,
		Body:       req.Body,
		Photo:      req.Photo,
		CategoryID: req.CategoryID,
	})
	if err != nil {
		return respondError(c, err)
	}
	return c.Status(fiber.StatusCreated).JSON(fiber.Map{
		"success": true,
		"message": "Post created successfully",
		"data":    post,
	})
}

// GetPost handles GET /api/posts/:slug
// @Summary Get post
// @Description Return a post by slug
// @Tags posts
// @Produce json
// @Security BearerAuth
// @Param slug path string true "Post slug"
// @Success 200 {object} object{success=bool,message=string,data=models.Post}
// @Failure 401 {object} models.ErrorResponse
// @Failure 404 {object} models.ErrorResponse
// @Router /posts/{slug} [get]
func (s *Server) GetPost(c *fiber.Ctx) error {
	post, err := s.postService.GetPost(c.UserContext(), c.Params("slug"))
	if err != nil {
		return respondError(c, err)
	}
	return c.JSON(fiber.Map{
		"success": true,
		"message": post.Title + " post found",
		"data":    post,
	})
}

// UpdatePost handles PUT /api/posts/:slug
// @Summary Update post
// @Description Edit a post owned by the caller
// @Tags posts
// @Accept json
// @Produce json
// @Security BearerAuth
// @Param slug path string true "Post slug"
// @Param request body postRequest true "Post"
// @Success 200 {object} object{success=bool,message=string,data=models.Post}
// @Failure 400 {object} models.ErrorResponse
// @Failure 401 {object} models.ErrorResponse
// @Failure 403 {object} models.ErrorResponse
// @Failure 404 {object} models.ErrorResponse
// @Router /posts/{slug} [put]
func (s *Server) UpdatePost(c *fiber.Ctx) error {
	var req postRequest
	if err := parseBody(c, &req); err != nil {
		return nil
	}

	post, err := s.postService.UpdatePost(c.UserContext(), service.UpdatePostInput{
		UserID:     currentUserID(c),
		Slug:       c.Params("slug"),
		Title:      req.Title,
		Body:       req.Body,
		Photo:      req.Photo,
		CategoryID: req.CategoryID,
	})
	if err != nil {
		return respondError(c, err)
	}
	return c.JSON(fiber.Map{
		"success": true,
		"message": "Post updated successfully!",
		"data":    post,
	})
}

// DeletePost handles DELETE /api/posts/:slug
// @Summary Delete post
// @Description Delete a post owned by the caller with its comments and likes
// @Tags posts
// @Produce json
// @Security BearerAuth
// @Param slug path string true "Post slug"
// @Success 200 {object} object{success=bool,message=string}
// @Failure 401 {object} models.ErrorResponse
// @Failure 403 {object} models.ErrorResponse
// @Failure 404 {object} models.ErrorResponse
// @Router /posts/{slug} [delete]
func (s *Server) DeletePost(c *fiber.Ctx) error {
	if err := s.postService.DeletePost(c.UserContext(), currentUserID(c), c.Params("slug")); err != nil {
		return respondError(c, err)
	}
	return c.JSON(fiber.Map{
		"success": true,
		"message": "Post deleted successfully",
	})
}

// GetLikedPosts handles GET /api/posts/likes/:user_id
// @Summary Liked posts
// @Description Return the posts a user liked
// @Tags posts
// @Produce json
// @Security BearerAuth
// @Param user_id path int true "User ID"
// @Success 200 {object} object{success=bool,message=string,posts=[]models.Post}
// @Failure 400 {object} models.ErrorResponse
// @Failure 401 {object} models.ErrorResponse
// @Router /posts/likes/{user_id} [get]
func (s *Server) GetLikedPosts(c *fiber.Ctx) error {
	userID, err := parseID(c, "user_id")
	if err != nil {
		return nil
	}

	posts, err := s.postService.LikedPosts(c.UserContext(), userID, parseLimit(c))
	if err != nil {
		return respondError(c, err)
	}
	return c.JSON(fiber.Map{
		"success": true,
		"message": "User liked posts found!",
		"posts":   posts,
	})
}

// ToggleLike handles POST /api/posts/like-and-unlike-post. The liker is the
// authenticated caller, never a body field.
// @Summary Like or unlike
// @Description Toggle the caller's like on a post
// @Tags posts
// @Accept json
// @Produce json
// @Security BearerAuth
// @Param request body likeRequest true "Post to toggle"
// @Success 200 {object} object{success=bool,message=string,data=models.LikeResult}
// @Failure 400 {object} models.ErrorResponse
// @Failure 401 {object} models.ErrorResponse
// @Failure 404 {object} models.ErrorResponse
// @Router /posts/like-and-unlike-post [post]
func (s *Server) ToggleLike(c *fiber.Ctx) error {
	var req likeRequest
	if err := parseBody(c, &req); err != nil {
		return nil
	}

	result, err := s.postService.ToggleLike(c.UserContext(), currentUserID(c), req.PostID)
	if err != nil {
		return respondError(c, err)
	}

	message := "Post was unliked!"
	if result.Liked {
		message = "Post was liked!"
	}
	return c.JSON(fiber.Map{
		"success": true,
		"message": message,
		"data":    result,
	})
}
