package repository

import (
	"context"
	"errors"
	"strings"

	"blogify/internal/models"

	"gorm.io/gorm"
	"gorm.io/gorm/clause"
)

// PostRepository defines the interface for post data operations
type PostRepository interface {
	Create(ctx context.Context, post *models.Post) error
	GetByID(ctx context.Context, id uint) (*models.Post, error)
	GetBySlug(ctx context.Context, slug string) (*models.Post, error)
	Exists(ctx context.Context, id uint) (bool, error)
	List(ctx context.Context, limit int) ([]*models.Post, error)
	Search(ctx context.Context, query string, limit int) ([]*models.Post, error)
	ListByCategory(ctx context.Context, categoryID uint, limit int) ([]*models.Post, error)
	ListLikedBy(ctx context.Context, userID uint, limit int) ([]*models.Post, error)
	Update(ctx context.Context, post *models.Post) error
	Delete(ctx context.Context, id uint) ([]uint, error)
	ToggleLike(ctx context.Context, userID, postID uint) (*models.LikeResult, error)
}

// postRepository implements PostRepository
type postRepository struct {
	db *gorm.DB
}

// NewPostRepository creates a new post repository
func NewPostRepository(db *gorm.DB) PostRepository {
	return &postRepository{db: db}
}

const postDuplicate = "Post already exists"

func (r *postRepository) Create(ctx context.Context, post *models.Post) error {
	if err := r.db.WithContext(ctx).Omit(clause.Associations).Create(post).Error; err != nil {
		return writeError(err, postDuplicate)
	}
	return r.populate(ctx, []*models.Post{post})
}

func (r *postRepository) GetByID(ctx context.Context, id uint) (*models.Post, error) {
	var post models.Post
	if err := r.withRelations(ctx).First(&post, id).Error; err != nil {
		return nil, dbError(err, models.NewNotFoundError("Post", id))
	}
	if err := r.attachLists(ctx, []*models.Post{&post}); err != nil {
		return nil, err
	}
	return &post, nil
}

func (r *postRepository) GetBySlug(ctx context.Context, slug string) (*models.Post, error) {
	var post models.Post
	if err := r.withRelations(ctx).Where("slug = ?", slug).First(&post).Error; err != nil {
		return nil, dbError(err, models.NewNotFoundMessage("No post record found"))
	}
	if err := r.attachLists(ctx, []*models.Post{&post}); err != nil {
		return nil, err
	}
	return &post, nil
}

func (r *postRepository) Exists(ctx context.Context, id uint) (bool, error) {
	var count int64
	if err := r.db.WithContext(ctx).Model(&models.Post{}).Where("id = ?", id).Count(&count).Error; err != nil {
		return false, dbError(err, nil)
	}
	return count > 0, nil
}

// List returns the newest posts first.
func (r *postRepository) List(ctx context.Context, limit int) ([]*models.Post, error) {
	return r.find(ctx, r.withRelations(ctx), limit)
}

// Search matches query case-insensitively against title, slug and body.
func (r *postRepository) Search(ctx context.Context, query string, limit int) ([]*models.Post, error) {
	pattern := "%" + escapeLike(strings.ToLower(query)) + "%"
	db := r.withRelations(ctx).Where(
		`LOWER(posts.title) LIKE ? ESCAPE '\' OR LOWER(posts.slug) LIKE ? ESCAPE '\' OR LOWER(posts.body) LIKE ? ESCAPE '\'`,
		pattern, pattern, pattern,
	)
	return r.find(ctx, db, limit)
}

func (r *postRepository) ListByCategory(ctx context.Context, categoryID uint, limit int) ([]*models.Post, error) {
	return r.find(ctx, r.withRelations(ctx).Where("category_id = ?", categoryID), limit)
}

// ListLikedBy returns the posts userID likes, most recently liked first.
func (r *postRepository) ListLikedBy(ctx context.Context, userID uint, limit int) ([]*models.Post, error) {
	posts := []*models.Post{}
	err := r.withRelations(ctx).
		Joins("JOIN likes ON likes.post_id = posts.id AND likes.user_id = ?", userID).
		Order("likes.created_at DESC").
		Limit(normalizeLimit(limit)).
		Find(&posts).Error
	if err != nil {
		return nil, dbError(err, nil)
	}
	if err := r.attachLists(ctx, posts); err != nil {
		return nil, err
	}
	return posts, nil
}

func (r *postRepository) Update(ctx context.Context, post *models.Post) error {
	if err := r.db.WithContext(ctx).Omit(clause.Associations).Save(post).Error; err != nil {
		return writeError(err, postDuplicate)
	}
	return r.populate(ctx, []*models.Post{post})
}

// Delete removes the post with its comments and likes in one transaction and
// returns the distinct authors of the removed comments.
func (r *postRepository) Delete(ctx context.Context, id uint) ([]uint, error) {
	commenters := []uint{}
	err := r.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		if err := tx.Model(&models.Comment{}).
			Where("post_id = ?", id).
			Distinct().
			Pluck("author_id", &commenters).Error; err != nil {
			return err
		}
		if err := tx.Where("post_id = ?", id).Delete(&models.Like{}).Error; err != nil {
			return err
		}
		if err := tx.Where("post_id = ?", id).Delete(&models.Comment{}).Error; err != nil {
			return err
		}
		res := tx.Delete(&models.Post{}, id)
		if res.Error != nil {
			return res.Error
		}
		if res.RowsAffected == 0 {
			return gorm.ErrRecordNotFound
		}
		return nil
	})
	if err != nil {
		return nil, dbError(err, models.NewNotFoundError("Post", id))
	}
	return commenters, nil
}

// ToggleLike flips the (userID, postID) like inside one transaction. Both the
// post's likers and the user's liked posts read the same row, so the relation
// can never be one-sided.
func (r *postRepository) ToggleLike(ctx context.Context, userID, postID uint) (*models.LikeResult, error) {
	result := &models.LikeResult{PostID: postID}
	err := r.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		var post models.Post
		if err := tx.Select("id").First(&post, postID).Error; err != nil {
			return err
		}

		res := tx.Where("user_id = ? AND post_id = ?", userID, postID).Delete(&models.Like{})
		if res.Error != nil {
			return res.Error
		}
		if res.RowsAffected == 0 {
			like := models.Like{UserID: userID, PostID: postID}
			if err := tx.Clauses(clause.OnConflict{DoNothing: true}).Create(&like).Error; err != nil {
				return err
			}
			result.Liked = true
		}

		return tx.Model(&models.Like{}).Where("post_id = ?", postID).Count(&result.Likes).Error
	})
	if err != nil {
		return nil, dbError(err, models.NewNotFoundError("Post", postID))
	}
	return result, nil
}

func (r *postRepository) withRelations(ctx context.Context) *gorm.DB {
	return r.db.WithContext(ctx).
		Model(&models.Post{}).
		Preload("Author").
		Preload("Category")
}

func (r *postRepository) find(ctx context.Context, db *gorm.DB, limit int) ([]*models.Post, error) {
	posts := []*models.Post{}
	err := db.Order("posts.created_at DESC").
		Order("posts.id DESC").
		Limit(normalizeLimit(limit)).
		Find(&posts).Error
	if err != nil {
		return nil, dbError(err, nil)
	}
	if err := r.attachLists(ctx, posts); err != nil {
		return nil, err
	}
	return posts, nil
}

// populate reloads the author and category of freshly written posts.
func (r *postRepository) populate(ctx context.Context, posts []*models.Post) error {
	db := r.db.WithContext(ctx)
	for _, p := range posts {
		var author models.Author
		if err := db.First(&author, p.AuthorID).Error; err == nil {
			p.Author = &author
		} else if !errors.Is(err, gorm.ErrRecordNotFound) {
			return dbError(err, nil)
		}
		var category models.CategorySummary
		if err := db.First(&category, p.CategoryID).Error; err == nil {
			p.Category = &category
		} else if !errors.Is(err, gorm.ErrRecordNotFound) {
			return dbError(err, nil)
		}
	}
	return r.attachLists(ctx, posts)
}

// attachLists fills Comments and Likes for each post, most recent first.
func (r *postRepository) attachLists(ctx context.Context, posts []*models.Post) error {
	if len(posts) == 0 {
		return nil
	}

	ids := make([]uint, 0, len(posts))
	byID := make(map[uint]*models.Post, len(posts))
	for _, p := range posts {
		p.Comments = []uint{}
		p.Likes = []uint{}
		ids = append(ids, p.ID)
		byID[p.ID] = p
	}

	db := r.db.WithContext(ctx)

	var comments []struct {
		ID     uint
		PostID uint
	}
	if err := db.Model(&models.Comment{}).
		Select("id, post_id").
		Where("post_id IN ?", ids).
		Order("created_at DESC").
		Order("id DESC").
		Scan(&comments).Error; err != nil {
		return dbError(err, nil)
	}
	for _, c := range comments {
		if p := byID[c.PostID]; p != nil {
			p.Comments = append(p.Comments, c.ID)
		}
	}

	var likes []models.Like
	if err := db.Where("post_id IN ?", ids).
		Order("created_at DESC").
		Find(&likes).Error; err != nil {
		return dbError(err, nil)
	}
	for _, l := range likes {
		if p := byID[l.PostID]; p != nil {
			p.Likes = append(p.Likes, l.UserID)
		}
	}
	return nil
}

func escapeLike(s string) string {
	return strings.NewReplacer(`\`, `\\`, `%`, `\%`, `_`, `\_`).Replace(s)
}
