package models

import "time"

// Like is the join row behind both a post's likers and a user's liked posts.
// The composite primary key makes the relation impossible to record twice.
type Like struct {
	UserID    uint      `gorm:"primaryKey;autoIncrement:false" json:"user_id"`
	PostID    uint      `gorm:"primaryKey;autoIncrement:false;index" json:"post_id"`
	CreatedAt time.Time `gorm:"index" json:"created_at"`
}

// LikeResult reports the outcome of a like toggle.
type LikeResult struct {
	PostID uint  `json:"post_id"`
	Liked  bool  `json:"liked"`
	Likes  int64 `json:"likes"`
}
