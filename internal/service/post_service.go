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

// DefaultPostLimit is the page size when the client does not send one.
const DefaultPostLimit = 100

type PostService struct {
	posts      repository.PostRepository
	categories repository.CategoryRepository
	cache      *cache.Cache
}

type CreatePostInput struct {
	AuthorID   uint
	Title      string
	Body       string
	Photo      string
	CategoryID uint
}

// UpdatePostInput carries the fields to change; zero values keep the
// current ones.
type UpdatePostInput struct {
	UserID     uint
	Slug       string
	Title      string
	Body       string
	Photo      string
	CategoryID uint
}

func NewPostService(posts repository.PostRepository, categories repository.CategoryRepository, c *cache.Cache) *PostService {
	return &PostService{posts: posts, categories: categories, cache: c}
}

// Slugify lowercases title and joins its words with "-".
func Slugify(title string) string {
	return strings.Join(strings.Fields(strings.ToLower(title)), "-")
}

func (s *PostService) CreatePost(ctx context.Context, in CreatePostInput) (post *models.Post, err error) {
	ctx, span := observability.StartSpan(ctx, "PostService.CreatePost",
		attribute.Int64("user.id", int64(in.AuthorID)))
	defer func() { observability.EndSpan(span, err) }()

	title := strings.TrimSpace(in.Title)
	body := strings.TrimSpace(in.Body)
	if err := validation.ValidatePost(title, body); err != nil {
		return nil, err
	}
	if in.CategoryID == 0 {
		return nil, models.NewFieldError("categories", "Category is required")
	}
	if _, err := s.categories.GetByID(ctx, in.CategoryID); err != nil {
		return nil, err
	}

	post = &models.Post{
		Title:      title,
		Slug:       Slugify(title),
		Body:       body,
		Photo:      strings.TrimSpace(in.Photo),
		CategoryID: in.CategoryID,
		AuthorID:   in.AuthorID,
	}
	if err := s.posts.Create(ctx, post); err != nil {
		return nil, err
	}
	s.cache.InvalidateProfile(ctx, in.AuthorID)
	return post, nil
}

func (s *PostService) GetPost(ctx context.Context, slug string) (*models.Post, error) {
	slug = strings.TrimSpace(slug)
	if slug == "" {
		return nil, models.NewValidationError("Slug is required")
	}
	return s.posts.GetBySlug(ctx, slug)
}

func (s *PostService) ListPosts(ctx context.Context, limit int) ([]*models.Post, error) {
	return s.posts.List(ctx, postLimit(limit))
}

func (s *PostService) SearchPosts(ctx context.Context, query string, limit int) ([]*models.Post, error) {
	query = strings.TrimSpace(query)
	if query == "" {
		return nil, models.NewValidationError("Search query is required")
	}
	return s.posts.Search(ctx, query, postLimit(limit))
}

// LikedPosts lists what userID liked, most recently liked first.
func (s *PostService) LikedPosts(ctx context.Context, userID uint, limit int) ([]*models.Post, error) {
	return s.posts.ListLikedBy(ctx, userID, postLimit(limit))
}

func (s *PostService) PostsByCategory(ctx context.Context, categoryID uint, limit int) ([]*models.Post, error) {
	if _, err := s.categories.GetByID(ctx, categoryID); err != nil {
		return nil, err
	}
	return s.posts.ListByCategory(ctx, categoryID, postLimit(limit))
}

func (s *PostService) UpdatePost(ctx context.Context, in UpdatePostInput) (post *models.Post, err error) {
	ctx, span := observability.StartSpan(ctx, "PostService.UpdatePost",
		attribute.String("post.slug", in.Slug))
	defer func() { observability.EndSpan(span, err) }()

	post, err = s.ownedPost(ctx, in.UserID, in.Slug, "You can only update your own posts")
	if err != nil {
		return nil, err
	}

	if title := strings.TrimSpace(in.Title); title != "" {
		post.Title = title
	}
	if body := strings.TrimSpace(in.Body); body != "" {
		post.Body = body
	}
	if photo := strings.TrimSpace(in.Photo); photo != "" {
		post.Photo = photo
	}
	if err := validation.ValidatePost(post.Title, post.Body); err != nil {
		return nil, err
	}
	if in.CategoryID != 0 && in.CategoryID != post.CategoryID {
		if _, err := s.categories.GetByID(ctx, in.CategoryID); err != nil {
			return nil, err
		}
		post.CategoryID = in.CategoryID
		post.Category = nil
	}
	post.Slug = Slugify(post.Title)

	if err := s.posts.Update(ctx, post); err != nil {
		return nil, err
	}
	return post, nil
}

func (s *PostService) DeletePost(ctx context.Context, userID uint, slug string) (err error) {
	ctx, span := observability.StartSpan(ctx, "PostService.DeletePost",
		attribute.String("post.slug", slug))
	defer func() { observability.EndSpan(span, err) }()

	post, err := s.ownedPost(ctx, userID, slug, "You can only delete your own posts")
	if err != nil {
		return err
	}
	commenters, err := s.posts.Delete(ctx, post.ID)
	if err != nil {
		return err
	}

	// Counters on every liker's and commenter's profile are now stale too.
	keys := make([]string, 0, len(post.Likes)+len(commenters)+1)
	keys = append(keys, cache.ProfileKey(userID))
	for _, likerID := range post.Likes {
		keys = append(keys, cache.ProfileKey(likerID))
	}
	for _, commenterID := range commenters {
		keys = append(keys, cache.ProfileKey(commenterID))
	}
	s.cache.Invalidate(ctx, keys...)
	return nil
}

// ToggleLike likes the post for userID, or unlikes it when already liked.
func (s *PostService) ToggleLike(ctx context.Context, userID, postID uint) (result *models.LikeResult, err error) {
	ctx, span := observability.StartSpan(ctx, "PostService.ToggleLike",
		attribute.Int64("user.id", int64(userID)),
		attribute.Int64("post.id", int64(postID)))
	defer func() { observability.EndSpan(span, err) }()

	if postID == 0 {
		return nil, models.NewFieldError("post_id", "Post ID is required")
	}

	result, err = s.posts.ToggleLike(ctx, userID, postID)
	if err != nil {
		return nil, err
	}

	state := "unliked"
	if result.Liked {
		state = "liked"
	}
	observability.LikeToggles.WithLabelValues(state).Inc()
	s.cache.InvalidateProfile(ctx, userID)
	return result, nil
}

func (s *PostService) ownedPost(ctx context.Context, userID uint, slug, denied string) (*models.Post, error) {
	post, err := s.GetPost(ctx, slug)
	if err != nil {
		return nil, err
	}
	if post.AuthorID != userID {
		return nil, models.NewForbiddenError(denied)
	}
	return post, nil
}

func postLimit(limit int) int {
	if limit <= 0 {
		return DefaultPostLimit
	}
	return limit
}
