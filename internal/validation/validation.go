// Package validation provides input validation utilities
package validation

import (
	"fmt"
	"regexp"
	"strings"
	"unicode"
	"unicode/utf8"

	"blogify/internal/models"
)

const (
	MinNameLength         = 3
	MaxNameLength         = 60
	MinPasswordLength     = 8
	MaxPasswordLength     = 72
	MinTitleLength        = 5
	MaxTitleLength        = 200
	MinBodyLength         = 15
	MinCategoryNameLength = 3
	MaxCategoryNameLength = 50
	MaxCategoryDescLength = 500
	MaxCommentLength      = 10000
	MaxEmailLength        = 254
)

var emailRegex = regexp.MustCompile(`^[a-zA-Z0-9._%+\-]+@[a-zA-Z0-9.\-]+\.[a-zA-Z]{2,}$`)

// ValidateName checks a display name.
func ValidateName(name string) error {
	n := utf8.RuneCountInString(strings.TrimSpace(name))
	if n < MinNameLength {
		return models.NewFieldError("name", fmt.Sprintf("name must be at least %d characters long", MinNameLength))
	}
	if n > MaxNameLength {
		return models.NewFieldError("name", fmt.Sprintf("name must not exceed %d characters", MaxNameLength))
	}
	return nil
}

// ValidateEmail checks basic email format
func ValidateEmail(email string) error {
	if email == "" {
		return models.NewFieldError("email", "email is required")
	}
	if len(email) > MaxEmailLength {
		return models.NewFieldError("email", fmt.Sprintf("email must not exceed %d characters", MaxEmailLength))
	}
	if !emailRegex.MatchString(email) {
		return models.NewFieldError("email", "invalid email format")
	}
	return nil
}

// ValidatePassword checks if a password meets security requirements
func ValidatePassword(password string) error {
	if len(password) < MinPasswordLength {
		return models.NewFieldError("password", fmt.Sprintf("password must be at least %d characters long", MinPasswordLength))
	}

	// bcrypt rejects inputs longer than 72 bytes.
	if len(password) > MaxPasswordLength {
		return models.NewFieldError("password", fmt.Sprintf("password must not exceed %d bytes", MaxPasswordLength))
	}

	var hasLetter, hasDigit bool
	for _, r := range password {
		switch {
		case unicode.IsLetter(r):
			hasLetter = true
		case unicode.IsDigit(r):
			hasDigit = true
		}
	}
	if !hasLetter {
		return models.NewFieldError("password", "password must contain at least one letter")
	}
	if !hasDigit {
		return models.NewFieldError("password", "password must contain at least one digit")
	}
	return nil
}

// ValidatePost checks the title and body of a post.
func ValidatePost(title, body string) error {
	n := utf8.RuneCountInString(strings.TrimSpace(title))
	if n < MinTitleLength {
		return models.NewFieldError("title", fmt.Sprintf("title must be at least %d characters long", MinTitleLength))
	}
	if n > MaxTitleLength {
		return models.NewFieldError("title", fmt.Sprintf("title must not exceed %d characters", MaxTitleLength))
	}
	if utf8.RuneCountInString(strings.TrimSpace(body)) < MinBodyLength {
		return models.NewFieldError("body", fmt.Sprintf("body must be at least %d characters long", MinBodyLength))
	}
	return nil
}

// ValidateCategory checks a category name and description.
func ValidateCategory(name, description string) error {
	n := utf8.RuneCountInString(strings.TrimSpace(name))
	if n < MinCategoryNameLength {
		return models.NewFieldError("name", fmt.Sprintf("name must be at least %d characters long", MinCategoryNameLength))
	}
	if n > MaxCategoryNameLength {
		return models.NewFieldError("name", fmt.Sprintf("name must not exceed %d characters", MaxCategoryNameLength))
	}
	if utf8.RuneCountInString(description) > MaxCategoryDescLength {
		return models.NewFieldError("description", fmt.Sprintf("description must not exceed %d characters", MaxCategoryDescLength))
	}
	return nil
}

// ValidateComment checks a comment body.
func ValidateComment(text string) error {
	if strings.TrimSpace(text) == "" {
		return models.NewFieldError("comment", "comment is required")
	}
	if utf8.RuneCountInString(text) > MaxCommentLength {
		return models.NewFieldError("comment", fmt.Sprintf("comment must not exceed %d characters", MaxCommentLength))
	}
	return nil
}
