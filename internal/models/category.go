package models

import "time"

// Category is a taxonomy entry that every post references exactly once.
type Category struct {
	ID          uint      `gorm:"primaryKey" json:"_id"`
	Name        string    `gorm:"uniqueIndex;not null" json:"name"`
	Description string    `gorm:"type:text" json:"description"`
	CreatedAt   time.Time `json:"createdAt"`
	UpdatedAt   time.Time `json:"updatedAt"`
}

// CategorySummary is the populated form of a post's category.
type CategorySummary struct {
	ID          uint   `gorm:"primaryKey" json:"_id"`
	Name        string `json:"name"`
	Description string `json:"description"`
}

// TableName maps the projection onto the categories table.
func (CategorySummary) TableName() string { return "categories" }
