package validation

import (
	"strings"
	"testing"

	"blogify/internal/models"

	"github.com/stretchr/testify/assert"
)

func assertField(t *testing.T, err error, field string) {
	t.Helper()
	var appErr *models.AppError
	if assert.ErrorAs(t, err, &appErr) {
		assert.Equal(t, models.CodeValidation, appErr.Code)
		assert.Equal(t, field, appErr.Field)
	}
}

func TestValidatePassword(t *testing.T) {
	tests := []struct {
		name     string
		password string
		wantErr  bool
	}{
		{name: "valid", password: "hunter22x", wantErr: false},
		{name: "too short", password: "ab1", wantErr: true},
		{name: "no digit", password: "abcdefghij", wantErr: true},
		{name: "no letter", password: "1234567890", wantErr: true},
		{name: "over bcrypt limit", password: strings.Repeat("a1", 40), wantErr: true},
		{name: "unicode letters", password: "pässwörd9", wantErr: false},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			err := ValidatePassword(tt.password)
			if tt.wantErr {
				assertField(t, err, "password")
			} else {
				assert.NoError(t, err)
			}
		})
	}
}

func TestValidateEmail(t *testing.T) {
	for _, email := range []string{"ada@example.com", "first.last+tag@sub.example.org"} {
		assert.NoError(t, ValidateEmail(email), email)
	}
	for _, email := range []string{"", "plain", "a@b", "@example.com", "a b@example.com"} {
		assertField(t, ValidateEmail(email), "email")
	}
	assertField(t, ValidateEmail(strings.Repeat("a", 250)+"@example.com"), "email")
}

func TestValidateName(t *testing.T) {
	assert.NoError(t, ValidateName("Ada"))
	assertField(t, ValidateName("  Al  "), "name")
	assertField(t, ValidateName(strings.Repeat("x", MaxNameLength+1)), "name")
}

func TestValidatePost(t *testing.T) {
	assert.NoError(t, ValidatePost("My First Post", "A body long enough to pass."))
	assertField(t, ValidatePost("Hey", "A body long enough to pass."), "title")
	assertField(t, ValidatePost("My First Post", "too short"), "body")
}

func TestValidateCategory(t *testing.T) {
	assert.NoError(t, ValidateCategory("Tech Notes", "Notes about tech"))
	assert.NoError(t, ValidateCategory("Go!", ""))
	assertField(t, ValidateCategory("Go", ""), "name")
	assertField(t, ValidateCategory("Tech", strings.Repeat("d", MaxCategoryDescLength+1)), "description")
}

func TestValidateComment(t *testing.T) {
	assert.NoError(t, ValidateComment("Nice post"))
	assertField(t, ValidateComment("   "), "comment")
	assertField(t, ValidateComment(strings.Repeat("c", MaxCommentLength+1)), "comment")
	assert.NoError(t, ValidateComment(strings.Repeat("c", MaxCommentLength)))
}
