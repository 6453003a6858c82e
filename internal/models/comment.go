package models

import "time"

// Comment is a reader's reply attached to a post.
type Comment struct {
	ID        uint      `gorm:"primaryKey" json:"_id"`
	PostID    uint      `gorm:"not null;index" json:"post"`
	Comment   string    `gorm:"type:text;not null" json:"comment"`
	AuthorID  uint      `gorm:"not null;index" json:"-"`
	Author    *Author   `gorm:"foreignKey:AuthorID;-:migration" json:"author"`
	CreatedAt time.Time `gorm:"index" json:"createdAt"`
}
