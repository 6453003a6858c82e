package server

import (
	"encoding/json"
	"fmt"
	"log/slog"
	"strconv"

	"blogify/internal/auth"
	"blogify/internal/middleware"
	"blogify/internal/service"

	"github.com/gofiber/fiber/v2"
)

type signupRequest struct {
	Name     string `json:"name"`
	Email    string `json:"email"`
	Password string `json:"password"`
	Photo    string `json:"photo"`
}

type loginRequest struct {
	Email    string `json:"email"`
	Password string `json:"password"`
}

type verifyEmailRequest struct {
	VerificationCode codeValue `json:"verificationCode"`
}

// codeValue accepts a verification code sent as a JSON string or as a JSON
// integer. Integers are left-padded with zeros to the code length.
type codeValue string

func (v *codeValue) UnmarshalJSON(data []byte) error {
	if string(data) == "null" {
		*v = ""
		return nil
	}
	if len(data) > 0 && data[0] == '"' {
		var s string
		if err := json.Unmarshal(data, &s); err != nil {
			return err
		}
		*v = codeValue(s)
		return nil
	}

	var n json.Number
	if err := json.Unmarshal(data, &n); err != nil {
		return err
	}
	u, err := strconv.ParseUint(n.String(), 10, 64)
	if err != nil {
		return fmt.Errorf("verification code must be an integer: %w", err)
	}
	*v = codeValue(fmt.Sprintf("%0*d", auth.VerificationCodeDigits, u))
	return nil
}

type forgotPasswordRequest struct {
	Email string `json:"email"`
}

type resetPasswordRequest struct {
	Password string `json:"password"`
}

// Signup handles POST /api/auth/signup
// @Summary User signup
// @Description Register a new account and set the auth cookie
// @Tags auth
// @Accept json
// @Produce json
// @Param request body signupRequest true "Signup request"
// @Success 201 {object} object{success=bool,message=string,user=models.User}
// @Failure 400 {object} models.ErrorResponse
// @Failure 409 {object} models.ErrorResponse
// @Router /auth/signup [post]
func (s *Server) Signup(c *fiber.Ctx) error {
	var req signupRequest
	if err := parseBody(c, &req); err != nil {
		return nil
	}

	user, err := s.authService.Signup(c.UserContext(), service.SignupInput{
		Name:     req.Name,
		Email:    req.Email,
		Password: req.Password,
		Photo:    req.Photo,
	})
	if err != nil {
		return respondError(c, err)
	}

	if _, err := s.tokens.Issue(c, user.ID); err != nil {
		return respondError(c, err)
	}

	return c.Status(fiber.StatusCreated).JSON(fiber.Map{
		"success": true,
		"message": "Account was created successfully",
		"user":    user,
	})
}

// Login handles POST /api/auth/login. The token is set as a cookie and
// echoed in the body for non-browser clients.
// @Summary User login
// @Description Authenticate with email and password
// @Tags auth
// @Accept json
// @Produce json
// @Param request body loginRequest true "Login request"
// @Success 200 {object} object{success=bool,message=string,user=models.User,token=string}
// @Failure 400 {object} models.ErrorResponse
// @Failure 401 {object} models.ErrorResponse
// @Router /auth/login [post]
func (s *Server) Login(c *fiber.Ctx) error {
	var req loginRequest
	if err := parseBody(c, &req); err != nil {
		return nil
	}

	user, err := s.authService.Login(c.UserContext(), service.LoginInput{
		Email:    req.Email,
		Password: req.Password,
	})
	if err != nil {
		return respondError(c, err)
	}

	token, err := s.tokens.Issue(c, user.ID)
	if err != nil {
		return respondError(c, err)
	}

	return c.JSON(fiber.Map{
		"success": true,
		"message": "Login was successful",
		"user":    user,
		"token":   token,
	})
}

// Logout handles POST /api/auth/logout
// @Summary User logout
// @Description Revoke the current token and clear the auth cookie
// @Tags auth
// @Produce json
// @Success 200 {object} object{success=bool,message=string}
// @Router /auth/logout [post]
func (s *Server) Logout(c *fiber.Ctx) error {
	for _, token := range auth.TokensFromRequest(c) {
		if err := s.tokens.Revoke(c.UserContext(), token); err != nil {
			middleware.Logger.WarnContext(c.UserContext(), "token revocation failed",
				slog.String("error", err.Error()))
		}
	}
	s.tokens.ClearCookie(c)

	return c.JSON(fiber.Map{
		"success": true,
		"message": "Logged out successfully",
	})
}

// CheckAuth handles GET /api/auth/check-auth
// @Summary Current user
// @Description Return the authenticated user
// @Tags auth
// @Produce json
// @Security BearerAuth
// @Success 200 {object} object{success=bool,user=models.User}
// @Failure 401 {object} models.ErrorResponse
// @Router /auth/check-auth [get]
func (s *Server) CheckAuth(c *fiber.Ctx) error {
	user, err := s.authService.CurrentUser(c.UserContext(), currentUserID(c))
	if err != nil {
		return respondError(c, err)
	}
	return c.JSON(fiber.Map{
		"success": true,
		"user":    user,
	})
}

// VerifyEmail handles POST /api/auth/verify-email
// @Summary Verify email
// @Description Confirm an account with the emailed verification code
// @Tags auth
// @Accept json
// @Produce json
// @Param request body verifyEmailRequest true "Verification code"
// @Success 200 {object} object{success=bool,message=string,user=models.User}
// @Failure 400 {object} models.ErrorResponse
// @Failure 404 {object} models.ErrorResponse
// @Router /auth/verify-email [post]
func (s *Server) VerifyEmail(c *fiber.Ctx) error {
	var req verifyEmailRequest
	if err := parseBody(c, &req); err != nil {
		return nil
	}

	user, err := s.authService.ConfirmVerification(c.UserContext(), string(req.VerificationCode))
	if err != nil {
		return respondError(c, err)
	}

	return c.JSON(fiber.Map{
		"success": true,
		"message": "Email account verified successfully",
		"user":    user,
	})
}

// ResendVerification handles POST /api/auth/resend-verification
// @Summary Resend verification
// @Description Send a fresh verification code to the caller
// @Tags auth
// @Produce json
// @Security BearerAuth
// @Success 200 {object} object{success=bool,message=string}
// @Failure 400 {object} models.ErrorResponse
// @Failure 401 {object} models.ErrorResponse
// @Router /auth/resend-verification [post]
func (s *Server) ResendVerification(c *fiber.Ctx) error {
	if err := s.authService.RequestVerification(c.UserContext(), currentUserID(c)); err != nil {
		return respondError(c, err)
	}
	return c.JSON(fiber.Map{
		"success": true,
		"message": "A new verification code was sent to your email",
	})
}

// ForgotPassword handles POST /api/auth/forgot-password
// @Summary Forgot password
// @Description Email a password reset link
// @Tags auth
// @Accept json
// @Produce json
// @Param request body forgotPasswordRequest true "Account email"
// @Success 200 {object} object{success=bool,message=string}
// @Failure 400 {object} models.ErrorResponse
// @Failure 404 {object} models.ErrorResponse
// @Router /auth/forgot-password [post]
func (s *Server) ForgotPassword(c *fiber.Ctx) error {
	var req forgotPasswordRequest
	if err := parseBody(c, &req); err != nil {
		return nil
	}

	token, err := s.authService.RequestReset(c.UserContext(), req.Email)
	if err != nil {
		return respondError(c, err)
	}

	body := fiber.Map{
		"success": true,
		"message": "Password reset link sent to your email",
	}
	if s.config.AuthEchoResetToken {
		body["code"] = token
	}
	return c.JSON(body)
}

// ResetPassword handles POST /api/auth/reset-password/:token
// @Summary Reset password
// @Description Set a new password with a reset token
// @Tags auth
// @Accept json
// @Produce json
// @Param token path string true "Reset token"
// @Param request body resetPasswordRequest true "New password"
// @Success 200 {object} object{success=bool,message=string}
// @Failure 400 {object} models.ErrorResponse
// @Router /auth/reset-password/{token} [post]
func (s *Server) ResetPassword(c *fiber.Ctx) error {
	var req resetPasswordRequest
	if err := parseBody(c, &req); err != nil {
		return nil
	}

	err := s.authService.ConfirmReset(c.UserContext(), service.ResetPasswordInput{
		Token:    c.Params("token"),
		Password: req.Password,
	})
	if err != nil {
		return respondError(c, err)
	}

	return c.JSON(fiber.Map{
		"success": true,
		"message": "Password reset successfully, redirecting to login page",
	})
}
