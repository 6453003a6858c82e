// Package models contains data structures for the application's domain models.
package models

import (
	"time"
)

// User represents a registered author or reader of the blog.
type User struct {
	ID       uint   `gorm:"primaryKey" json:"_id"`
	Name     string `gorm:"not null" json:"name"`
	Email    string `gorm:"uniqueIndex;not null" json:"email"`
	Password string `gorm:"not null" json:"-"`
	Photo    string `json:"photo"`

	IsVerified bool `gorm:"not null;default:false" json:"isVerified"`
	// Verification codes and reset tokens are stored only as SHA-256 digests.
	VerificationCodeHash      *string    `gorm:"index" json:"-"`
	VerificationCodeExpiresAt *time.Time `json:"-"`
	ResetPasswordTokenHash    *string    `gorm:"index" json:"-"`
	ResetPasswordExpiresAt    *time.Time `json:"-"`

	LastLogin time.Time `json:"lastLogin"`
	// Likes lists liked post IDs, most recent first. Loaded from the likes table.
	Likes     []uint    `gorm:"-" json:"likes"`
	CreatedAt time.Time `json:"createdAt"`
	UpdatedAt time.Time `json:"updatedAt"`
}

// Author is the public projection of a user embedded in posts and comments.
type Author struct {
	ID    uint   `gorm:"primaryKey" json:"_id"`
	Name  string `json:"name"`
	Email string `json:"email"`
	Photo string `json:"photo"`
}

// TableName maps the projection onto the users table.
func (Author) TableName() string { return "users" }

// Profile is the aggregated view returned by the profile endpoint.
type Profile struct {
	ID             uint      `json:"_id"`
	Name           string    `json:"name"`
	Email          string    `json:"email"`
	Photo          string    `json:"photo"`
	IsVerified     bool      `json:"isVerified"`
	LastLogin      time.Time `json:"lastLogin"`
	JoinedDate     time.Time `json:"joinedDate"`
	NoOfPosts      int64     `json:"noOfPosts"`
	NoOfLikedPosts int64     `json:"noOfLikedPosts"`
	NoOfComments   int64     `json:"noOfComments"`
}
