package server

import (
	"fmt"

	"blogify/internal/models"

	"github.com/gofiber/fiber/v2"
)

// UploadImage handles POST /api/upload with a multipart "image" field.
// @Summary Upload image
// @Description Store an image and return its public URL
// @Tags uploads
// @Accept multipart/form-data
// @Produce json
// @Param image formData file true "Image file"
// @Success 200 {object} object{success=bool,message=string,url=string,imageUrl=string}
// @Failure 400 {object} models.ErrorResponse
// @Failure 429 {object} models.ErrorResponse
// @Router /upload [post]
func (s *Server) UploadImage(c *fiber.Ctx) error {
	file, err := c.FormFile("image")
	if err != nil {
		return models.RespondWithError(c, fiber.StatusBadRequest,
			models.NewFieldError("image", "No file uploaded"))
	}

	limit := s.uploadService.MaxBytes()
	if file.Size > limit {
		return respondError(c, models.NewPayloadTooLargeError(
			fmt.Sprintf("Image must be smaller than %d MB", limit>>20)))
	}

	src, err := file.Open()
	if err != nil {
		return models.RespondWithError(c, fiber.StatusBadRequest,
			models.NewFieldError("image", "Unable to read uploaded file"))
	}
	defer func() { _ = src.Close() }()

	url, err := s.uploadService.UploadImage(c.UserContext(), src)
	if err != nil {
		return respondError(c, err)
	}

	return c.JSON(fiber.Map{
		"success":  true,
		"message":  "Image uploaded successfully",
		"url":      url,
		"imageUrl": url,
	})
}
