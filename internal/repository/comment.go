package repository

import (
	"context"

	"blogify/internal/models"

	"gorm.io/gorm"
	"gorm.io/gorm/clause"
)

// CommentRepository defines interface for comment operations
type CommentRepository interface {
	Create(ctx context.Context, comment *models.Comment) error
	ListByPost(ctx context.Context, postID uint, limit int) ([]models.Comment, error)
}

type commentRepository struct {
	db *gorm.DB
}

// NewCommentRepository creates a new CommentRepository
func NewCommentRepository(db *gorm.DB) CommentRepository {
	return &commentRepository{db: db}
}

// Create inserts the comment and loads its author.
func (r *commentRepository) Create(ctx context.Context, comment *models.Comment) error {
	db := r.db.WithContext(ctx)
	if err := db.Omit(clause.Associations).Create(comment).Error; err != nil {
		return dbError(err, nil)
	}
	var author models.Author
	if err := db.First(&author, comment.AuthorID).Error; err != nil {
		return dbError(err, models.NewNotFoundError("User", comment.AuthorID))
	}
	comment.Author = &author
	return nil
}

// ListByPost returns the newest comments on postID first.
func (r *commentRepository) ListByPost(ctx context.Context, postID uint, limit int) ([]models.Comment, error) {
	comments := []models.Comment{}
	err := r.db.WithContext(ctx).
		Preload("Author").
		Where("post_id = ?", postID).
		Order("created_at DESC").
		Order("id DESC").
		Limit(normalizeLimit(limit)).
		Find(&comments).Error
	if err != nil {
		return nil, dbError(err, nil)
	}
	return comments, nil
}
