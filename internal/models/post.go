package models

import (
	"time"
)

// Post represents a blog post. Comments and Likes are derived from their
// own tables and ordered most recent first.
type Post struct {
	ID         uint             `gorm:"primaryKey" json:"_id"`
	Title      string           `gorm:"uniqueIndex;not null" json:"title"`
	Slug       string           `gorm:"uniqueIndex;not null" json:"slug"`
	Body       string           `gorm:"type:text;not null" json:"body"`
	Photo      string           `json:"photo"`
	CategoryID uint             `gorm:"not null;index" json:"-"`
	Category   *CategorySummary `gorm:"foreignKey:CategoryID;-:migration" json:"categories"`
	AuthorID   uint             `gorm:"not null;index" json:"-"`
	Author     *Author          `gorm:"foreignKey:AuthorID;-:migration" json:"author"`
	Comments   []uint           `gorm:"-" json:"comments"`
	Likes      []uint           `gorm:"-" json:"likes"`
	CreatedAt  time.Time        `json:"createdAt"`
	UpdatedAt  time.Time        `json:"updatedAt"`
}
