package models

import (
	"errors"
	"fmt"

	"github.com/gofiber/fiber/v2"
)

// Error codes surfaced to clients in the error envelope.
const (
	CodeValidation            = "VALIDATION_ERROR"
	CodeNotFound              = "NOT_FOUND"
	CodeDuplicateKey          = "DUPLICATE_KEY"
	CodeUnauthenticated       = "UNAUTHENTICATED"
	CodeInvalidToken          = "INVALID_TOKEN"
	CodeInvalidOrExpiredCode  = "INVALID_OR_EXPIRED_CODE"
	CodeInvalidOrExpiredToken = "INVALID_OR_EXPIRED_TOKEN"
	CodeForbidden             = "FORBIDDEN"
	CodePayloadTooLarge       = "PAYLOAD_TOO_LARGE"
	CodeUpstream              = "UPSTREAM_FAILURE"
	CodeInternal              = "INTERNAL_ERROR"
)

// ErrorResponse is the failure shape of the response envelope.
type ErrorResponse struct {
	Success bool   `json:"success"`
	Message string `json:"message"`
	Code    string `json:"code,omitempty"`
	Field   string `json:"field,omitempty"`
}

// AppError represents a custom application error
type AppError struct {
	Code    string
	Message string
	// Field names the offending input for validation failures.
	Field string
	Err   error
}

func (e *AppError) Error() string {
	if e.Err != nil {
		return fmt.Sprintf("%s: %v", e.Message, e.Err)
	}
	return e.Message
}

func (e *AppError) Unwrap() error {
	return e.Err
}

// Predefined error constructors
func NewNotFoundError(resource string, id interface{}) *AppError {
	return &AppError{
		Code:    CodeNotFound,
		Message: fmt.Sprintf("%s with ID %v not found", resource, id),
	}
}

// NewNotFoundMessage builds a NOT_FOUND error with a caller-supplied message,
// for lookups that are not keyed by ID (slug, email).
func NewNotFoundMessage(message string) *AppError {
	return &AppError{
		Code:    CodeNotFound,
		Message: message,
	}
}

func NewValidationError(message string) *AppError {
	return &AppError{
		Code:    CodeValidation,
		Message: message,
	}
}

func NewFieldError(field, message string) *AppError {
	return &AppError{
		Code:    CodeValidation,
		Message: message,
		Field:   field,
	}
}

func NewDuplicateKeyError(message string) *AppError {
	return &AppError{
		Code:    CodeDuplicateKey,
		Message: message,
	}
}

func NewUnauthenticatedError(message string) *AppError {
	return &AppError{
		Code:    CodeUnauthenticated,
		Message: message,
	}
}

func NewInvalidTokenError(err error) *AppError {
	return &AppError{
		Code:    CodeInvalidToken,
		Message: "Invalid or expired token",
		Err:     err,
	}
}

func NewInvalidOrExpiredCodeError() *AppError {
	return &AppError{
		Code:    CodeInvalidOrExpiredCode,
		Message: "Invalid or expired verification code",
	}
}

func NewInvalidOrExpiredTokenError() *AppError {
	return &AppError{
		Code:    CodeInvalidOrExpiredToken,
		Message: "Invalid or expired reset token",
	}
}

func NewForbiddenError(message string) *AppError {
	return &AppError{
		Code:    CodeForbidden,
		Message: message,
	}
}

func NewPayloadTooLargeError(message string) *AppError {
	return &AppError{
		Code:    CodePayloadTooLarge,
		Message: message,
	}
}

func NewUpstreamError(message string, err error) *AppError {
	return &AppError{
		Code:    CodeUpstream,
		Message: message,
		Err:     err,
	}
}

func NewInternalError(err error) *AppError {
	return &AppError{
		Code:    CodeInternal,
		Message: "Internal server error",
		Err:     err,
	}
}

// IsCode reports whether err is an AppError carrying code.
func IsCode(err error, code string) bool {
	var appErr *AppError
	return errors.As(err, &appErr) && appErr.Code == code
}

// StatusFor maps an error onto the HTTP status that approximates its class.
func StatusFor(err error) int {
	var appErr *AppError
	if !errors.As(err, &appErr) {
		var fe *fiber.Error
		if errors.As(err, &fe) {
			return fe.Code
		}
		return fiber.StatusInternalServerError
	}
	switch appErr.Code {
	case CodeValidation, CodeInvalidOrExpiredCode, CodeInvalidOrExpiredToken:
		return fiber.StatusBadRequest
	case CodeNotFound:
		return fiber.StatusNotFound
	case CodeDuplicateKey:
		return fiber.StatusConflict
	case CodeUnauthenticated, CodeInvalidToken:
		return fiber.StatusUnauthorized
	case CodeForbidden:
		return fiber.StatusForbidden
	case CodePayloadTooLarge:
		return fiber.StatusRequestEntityTooLarge
	case CodeUpstream:
		return fiber.StatusBadGateway
	default:
		return fiber.StatusInternalServerError
	}
}

// RespondWithError writes the failure envelope. Internal details are never
// echoed back; they are only attached to the error for logging.
func RespondWithError(c *fiber.Ctx, status int, err error) error {
	response := ErrorResponse{Success: false}

	var appErr *AppError
	if errors.As(err, &appErr) {
		response.Message = appErr.Message
		response.Code = appErr.Code
		response.Field = appErr.Field
	} else if status >= fiber.StatusInternalServerError {
		response.Message = "Internal server error"
		response.Code = CodeInternal
	} else {
		response.Message = err.Error()
	}

	return c.Status(status).JSON(response)
}

// RespondWithAppError derives the status from the error class.
func RespondWithAppError(c *fiber.Ctx, err error) error {
	return RespondWithError(c, StatusFor(err), err)
}
