// Package seed fills a database with demo users, categories, posts, comments
// and likes. It is meant for local development only.
package seed

import (
	"context"
	"fmt"
	"log/slog"
	"strings"
	"time"

	"blogify/internal/middleware"
	"blogify/internal/models"
	"blogify/internal/service"

	"github.com/brianvoe/gofakeit/v6"
	"golang.org/x/crypto/bcrypt"
	"gorm.io/gorm"
	"gorm.io/gorm/clause"
)

// DefaultPassword is shared by every seeded account.
const DefaultPassword = "Passw0rd!"

var categoryNames = []string{
	"Technology", "Travel", "Food", "Music", "Books", "Science", "Programming",
	"Fitness", "Gaming", "Art", "History", "Photography", "Movies", "Finance",
}

// Options controls how much data Run creates.
type Options struct {
	Users      int
	Categories int
	Posts      int
	Comments   int
	Likes      int
	Clean      bool
	// FastHash hashes the shared password with bcrypt.MinCost.
	FastHash bool
	// RandSeed makes the generated content reproducible when non-zero.
	RandSeed int64
	// MaxDays spreads creation times over this many days in the past.
	MaxDays int
}

// DefaultOptions returns a small but well connected data set.
func DefaultOptions() Options {
	return Options{
		Users:      20,
		Categories: 8,
		Posts:      60,
		Comments:   150,
		Likes:      200,
		Clean:      true,
		MaxDays:    90,
	}
}

// Result counts the rows Run inserted.
type Result struct {
	Users      int
	Categories int
	Posts      int
	Comments   int
	Likes      int
}

// Seeder writes generated data through a Gorm DB.
type Seeder struct {
	db    *gorm.DB
	opts  Options
	faker *gofakeit.Faker
	now   func() time.Time
}

// NewSeeder creates a Seeder bound to db.
func NewSeeder(db *gorm.DB, opts Options) *Seeder {
	seed := opts.RandSeed
	if seed == 0 {
		seed = time.Now().UnixNano()
	}
	if opts.MaxDays <= 0 {
		opts.MaxDays = 90
	}
	if opts.Categories > len(categoryNames) {
		opts.Categories = len(categoryNames)
	}
	return &Seeder{db: db, opts: opts, faker: gofakeit.New(seed), now: time.Now}
}

// Run optionally clears the database and then seeds it.
func (s *Seeder) Run(ctx context.Context) (*Result, error) {
	if s.opts.Clean {
		if err := s.ClearAll(ctx); err != nil {
			return nil, fmt.Errorf("clear data: %w", err)
		}
	}

	res := &Result{}
	users, err := s.createUsers(ctx)
	if err != nil {
		return nil, fmt.Errorf("create users: %w", err)
	}
	res.Users = len(users)

	categories, err := s.createCategories(ctx)
	if err != nil {
		return nil, fmt.Errorf("create categories: %w", err)
	}
	res.Categories = len(categories)

	posts, err := s.createPosts(ctx, users, categories)
	if err != nil {
		return nil, fmt.Errorf("create posts: %w", err)
	}
	res.Posts = len(posts)

	if res.Comments, err = s.createComments(ctx, users, posts); err != nil {
		return nil, fmt.Errorf("create comments: %w", err)
	}
	if res.Likes, err = s.createLikes(ctx, users, posts); err != nil {
		return nil, fmt.Errorf("create likes: %w", err)
	}

	middleware.Logger.InfoContext(ctx, "database seeded",
		slog.Int("users", res.Users),
		slog.Int("categories", res.Categories),
		slog.Int("posts", res.Posts),
		slog.Int("comments", res.Comments),
		slog.Int("likes", res.Likes))
	return res, nil
}

// ClearAll deletes every row, children before parents.
func (s *Seeder) ClearAll(ctx context.Context) error {
	return s.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		tx = tx.Session(&gorm.Session{AllowGlobalUpdate: true})
		for _, model := range []any{&models.Like{}, &models.Comment{}, &models.Post{}, &models.Category{}, &models.User{}} {
			if err := tx.Delete(model).Error; err != nil {
				return err
			}
		}
		return nil
	})
}

func (s *Seeder) createUsers(ctx context.Context) ([]models.User, error) {
	if s.opts.Users <= 0 {
		return nil, nil
	}
	cost := bcrypt.DefaultCost
	if s.opts.FastHash {
		cost = bcrypt.MinCost
	}
	hashed, err := bcrypt.GenerateFromPassword([]byte(DefaultPassword), cost)
	if err != nil {
		return nil, err
	}

	users := make([]models.User, 0, s.opts.Users)
	for i := range s.opts.Users {
		first, last := s.faker.FirstName(), s.faker.LastName()
		users = append(users, models.User{
			Name:       first + " " + last,
			Email:      strings.ToLower(fmt.Sprintf("%s.%s%d@example.com", first, last, i+1)),
			Password:   string(hashed),
			Photo:      "https://i.pravatar.cc/150?u=" + s.faker.UUID(),
			IsVerified: s.faker.Number(0, 3) > 0,
			LastLogin:  s.pastTime(),
		})
	}
	if err := s.db.WithContext(ctx).Omit(clause.Associations).CreateInBatches(&users, 100).Error; err != nil {
		return nil, err
	}
	return users, nil
}

func (s *Seeder) createCategories(ctx context.Context) ([]models.Category, error) {
	if s.opts.Categories <= 0 {
		return nil, nil
	}
	categories := make([]models.Category, 0, s.opts.Categories)
	for _, name := range categoryNames[:s.opts.Categories] {
		categories = append(categories, models.Category{
			Name:        name,
			Description: s.sentence(10),
		})
	}
	if err := s.db.WithContext(ctx).Create(&categories).Error; err != nil {
		return nil, err
	}
	return categories, nil
}

func (s *Seeder) createPosts(ctx context.Context, users []models.User, categories []models.Category) ([]models.Post, error) {
	if s.opts.Posts <= 0 || len(users) == 0 || len(categories) == 0 {
		return nil, nil
	}

	seen := make(map[string]bool, s.opts.Posts)
	posts := make([]models.Post, 0, s.opts.Posts)
	for range s.opts.Posts {
		title := s.sentence(s.faker.Number(3, 7))
		for seen[service.Slugify(title)] {
			title = fmt.Sprintf("%s %d", title, s.faker.Number(2, 999))
		}
		slug := service.Slugify(title)
		seen[slug] = true

		created := s.pastTime()
		posts = append(posts, models.Post{
			Title:      title,
			Slug:       slug,
			Body:       s.faker.Paragraph(2, 4, 12, "\n\n"),
			Photo:      fmt.Sprintf("https://picsum.photos/seed/%s/800/500", s.faker.UUID()),
			CategoryID: categories[s.faker.Number(0, len(categories)-1)].ID,
			AuthorID:   users[s.faker.Number(0, len(users)-1)].ID,
			CreatedAt:  created,
			UpdatedAt:  created,
		})
	}
	if err := s.db.WithContext(ctx).Omit(clause.Associations).CreateInBatches(&posts, 100).Error; err != nil {
		return nil, err
	}
	return posts, nil
}

func (s *Seeder) createComments(ctx context.Context, users []models.User, posts []models.Post) (int, error) {
	if s.opts.Comments <= 0 || len(users) == 0 || len(posts) == 0 {
		return 0, nil
	}
	comments := make([]models.Comment, 0, s.opts.Comments)
	for range s.opts.Comments {
		post := posts[s.faker.Number(0, len(posts)-1)]
		comments = append(comments, models.Comment{
			PostID:    post.ID,
			AuthorID:  users[s.faker.Number(0, len(users)-1)].ID,
			Comment:   s.faker.Sentence(s.faker.Number(4, 20)),
			CreatedAt: s.after(post.CreatedAt),
		})
	}
	if err := s.db.WithContext(ctx).Omit(clause.Associations).CreateInBatches(&comments, 200).Error; err != nil {
		return 0, err
	}
	return len(comments), nil
}

// createLikes draws random (user, post) pairs. Repeated pairs are skipped, so
// fewer than Options.Likes rows may be written on small data sets.
func (s *Seeder) createLikes(ctx context.Context, users []models.User, posts []models.Post) (int, error) {
	if s.opts.Likes <= 0 || len(users) == 0 || len(posts) == 0 {
		return 0, nil
	}
	type pair struct{ user, post uint }
	seen := make(map[pair]bool, s.opts.Likes)
	likes := make([]models.Like, 0, s.opts.Likes)
	for range s.opts.Likes {
		post := posts[s.faker.Number(0, len(posts)-1)]
		p := pair{user: users[s.faker.Number(0, len(users)-1)].ID, post: post.ID}
		if seen[p] {
			continue
		}
		seen[p] = true
		likes = append(likes, models.Like{UserID: p.user, PostID: p.post, CreatedAt: s.after(post.CreatedAt)})
	}
	if len(likes) == 0 {
		return 0, nil
	}
	err := s.db.WithContext(ctx).
		Clauses(clause.OnConflict{DoNothing: true}).
		CreateInBatches(&likes, 200).Error
	if err != nil {
		return 0, err
	}
	return len(likes), nil
}

// sentence returns a title-like sentence without the trailing period.
func (s *Seeder) sentence(words int) string {
	return strings.TrimRight(s.faker.Sentence(words), ".")
}

func (s *Seeder) pastTime() time.Time {
	back := time.Duration(s.faker.Number(0, s.opts.MaxDays*24*60)) * time.Minute
	return s.now().Add(-back)
}

func (s *Seeder) after(t time.Time) time.Time {
	limit := s.now().Sub(t)
	if limit <= time.Minute {
		return t
	}
	return t.Add(time.Duration(s.faker.Number(1, int(limit/time.Minute))) * time.Minute)
}
