package server

import (
	"github.com/gofiber/fiber/v2"
)

// GetProfile handles GET /api/auth/profile/:user_id
// @Summary User profile
// @Description Return a user with post, comment and like counters
// @Tags users
// @Produce json
// @Security BearerAuth
// @Param user_id path int true "User ID"
// @Success 200 {object} object{success=bool,message=string,data=models.Profile}
// @Failure 400 {object} models.ErrorResponse
// @Failure 401 {object} models.ErrorResponse
// @Failure 404 {object} models.ErrorResponse
// @Router /auth/profile/{user_id} [get]
func (s *Server) GetProfile(c *fiber.Ctx) error {
	userID, err := parseID(c, "user_id")
	if err != nil {
		return nil
	}

	profile, err := s.userService.Profile(c.UserContext(), userID)
	if err != nil {
		return respondError(c, err)
	}
	return c.JSON(fiber.Map{
		"success": true,
		"message": "Profile found",
		"data":    profile,
	})
}

// GetUser handles GET /api/auth/:user_id
// @Summary Get user
// @Description Return a user by ID
// @Tags users
// @Produce json
// @Security BearerAuth
// @Param user_id path int true "User ID"
// @Success 200 {object} object{success=bool,message=string,data=models.User}
// @Failure 400 {object} models.ErrorResponse
// @Failure 401 {object} models.ErrorResponse
// @Failure 404 {object} models.ErrorResponse
// @Router /auth/{user_id} [get]
func (s *Server) GetUser(c *fiber.Ctx) error {
	userID, err := parseID(c, "user_id")
	if err != nil {
		return nil
	}

	user, err := s.userService.GetUser(c.UserContext(), userID)
	if err != nil {
		return respondError(c, err)
	}
	return c.JSON(fiber.Map{
		"success": true,
		"message": user.Name + " records found",
		"data":    user,
	})
}
