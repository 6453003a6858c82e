package service

import (
	"context"
	"strings"

	"blogify/internal/cache"
	"blogify/internal/models"
	"blogify/internal/observability"
	"blogify/internal/repository"
	"blogify/internal/validation"

	"go.opentelemetry.io/otel/attribute"
)

// DefaultCommentLimit caps a comment listing when no limit is sent.
const DefaultCommentLimit = 50

type CommentService struct {
	comments repository.CommentRepository
	posts    repository.PostRepository
	cache    *cache.Cache
}

type AddCommentInput struct {
	UserID  uint
	PostID  uint
	Comment string
}

func NewCommentService(comments repository.CommentRepository, posts repository.PostRepository, c *cache.Cache) *CommentService {
	return &CommentService{comments: comments, posts: posts, cache: c}
}

// AddComment stores a comment on an existing post. The post's comment list
// is derived newest first, so the new comment is at its head immediately.
func (s *CommentService) AddComment(ctx context.Context, in AddCommentInput) (comment *models.Comment, err error) {
	ctx, span := observability.StartSpan(ctx, "CommentService.AddComment",
		attribute.Int64("user.id", int64(in.UserID)),
		attribute.Int64("post.id", int64(in.PostID)))
	defer func() { observability.EndSpan(span, err) }()

	if in.PostID == 0 {
		return nil, models.NewFieldError("post", "Post ID is required")
	}
	text := strings.TrimSpace(in.Comment)
	if err := validation.ValidateComment(text); err != nil {
		return nil, err
	}

	exists, err := s.posts.Exists(ctx, in.PostID)
	if err != nil {
		return nil, err
	}
	if !exists {
		return nil, models.NewNotFoundMessage("Post not found")
	}

	comment = &models.Comment{
		PostID:   in.PostID,
		Comment:  text,
		AuthorID: in.UserID,
	}
	if err := s.comments.Create(ctx, comment); err != nil {
		return nil, err
	}

	observability.CommentsCreated.Inc()
	s.cache.InvalidateProfile(ctx, in.UserID)
	return comment, nil
}

func (s *CommentService) ListComments(ctx context.Context, postID uint, limit int) ([]models.Comment, error) {
	if limit <= 0 {
		limit = DefaultCommentLimit
	}
	return s.comments.ListByPost(ctx, postID, limit)
}
