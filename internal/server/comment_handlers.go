package server

import (
	"blogify/internal/service"

	"github.com/gofiber/fiber/v2"
)

type commentRequest struct {
	Comment string `json:"comment"`
	PostID  uint   `json:"post_id"`
}

// GetComments handles GET /api/comments/:post_id?limit=
// @Summary List comments
// @Description Return the comments on a post
// @Tags comments
// @Produce json
// @Param post_id path int true "Post ID"
// @Param limit query int false "Max comments"
// @Success 200 {object} object{success=bool,message=string,comments=[]models.Comment}
// @Failure 400 {object} models.ErrorResponse
// @Failure 404 {object} models.ErrorResponse
// @Router /comments/{post_id} [get]
func (s *Server) GetComments(c *fiber.Ctx) error {
	postID, err := parseID(c, "post_id")
	if err != nil {
		return nil
	}

	comments, err := s.commentService.ListComments(c.UserContext(), postID, parseLimit(c))
	if err != nil {
		return respondError(c, err)
	}

	message := "Comments found"
	if len(comments) == 0 {
		message = "No comments found yet"
	}
	return c.JSON(fiber.Map{
		"success":  true,
		"message":  message,
		"comments": comments,
	})
}

// CreateComment handles POST /api/comments
// @Summary Create comment
// @Description Comment on a post as the caller
// @Tags comments
// @Accept json
// @Produce json
// @Security BearerAuth
// @Param request body commentRequest true "Comment"
// @Success 201 {object} object{success=bool,message=string,data=models.Comment}
// @Failure 400 {object} models.ErrorResponse
// @Failure 401 {object} models.ErrorResponse
// @Failure 404 {object} models.ErrorResponse
// @Router /comments [post]
func (s *Server) CreateComment(c *fiber.Ctx) error {
	var req commentRequest
	if err := parseBody(c, &req); err != nil {
		return nil
	}

	comment, err := s.commentService.AddComment(c.UserContext(), service.AddCommentInput{
		UserID:  currentUserID(c),
		PostID:  req.PostID,
		Comment: req.Comment,
	})
	if err != nil {
		return respondError(c, err)
	}
	return c.Status(fiber.StatusCreated).JSON(fiber.Map{
		"success": true,
		"message": "Comment posted successfully!",
		"data":    comment,
	})
}
