package seed

import (
	"context"
	"testing"

	"blogify/internal/database"
	"blogify/internal/models"
	"blogify/internal/service"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"golang.org/x/crypto/bcrypt"
	"gorm.io/gorm"
)

func openDB(t *testing.T) *gorm.DB {
	t.Helper()
	db, err := database.OpenSQLite(":memory:")
	require.NoError(t, err)
	t.Cleanup(func() { database.Close(db) })
	return db
}

func smallOptions() Options {
	return Options{
		Users:      5,
		Categories: 3,
		Posts:      12,
		Comments:   20,
		Likes:      30,
		Clean:      true,
		FastHash:   true,
		RandSeed:   42,
	}
}

func count(t *testing.T, db *gorm.DB, model any) int64 {
	t.Helper()
	var n int64
	require.NoError(t, db.Model(model).Count(&n).Error)
	return n
}

func TestRun(t *testing.T) {
	db := openDB(t)

	res, err := NewSeeder(db, smallOptions()).Run(context.Background())
	require.NoError(t, err)

	assert.Equal(t, 5, res.Users)
	assert.Equal(t, 3, res.Categories)
	assert.Equal(t, 12, res.Posts)
	assert.Equal(t, 20, res.Comments)
	assert.LessOrEqual(t, res.Likes, 30)
	assert.Positive(t, res.Likes)

	assert.Equal(t, int64(res.Users), count(t, db, &models.User{}))
	assert.Equal(t, int64(res.Posts), count(t, db, &models.Post{}))
	assert.Equal(t, int64(res.Comments), count(t, db, &models.Comment{}))
	assert.Equal(t, int64(res.Likes), count(t, db, &models.Like{}))

	var posts []models.Post
	require.NoError(t, db.Find(&posts).Error)
	for _, p := range posts {
		assert.Equal(t, service.Slugify(p.Title), p.Slug)
		assert.NotZero(t, p.AuthorID)
		assert.NotZero(t, p.CategoryID)
	}

	var user models.User
	require.NoError(t, db.First(&user).Error)
	assert.NoError(t, bcrypt.CompareHashAndPassword([]byte(user.Password), []byte(DefaultPassword)))
}

func TestRun_CleanReplacesData(t *testing.T) {
	db := openDB(t)
	ctx := context.Background()

	_, err := NewSeeder(db, smallOptions()).Run(ctx)
	require.NoError(t, err)

	opts := smallOptions()
	opts.RandSeed = 7
	res, err := NewSeeder(db, opts).Run(ctx)
	require.NoError(t, err)

	assert.Equal(t, int64(res.Users), count(t, db, &models.User{}))
	assert.Equal(t, int64(res.Categories), count(t, db, &models.Category{}))
}

func TestRun_NoUsersSkipsContent(t *testing.T) {
	db := openDB(t)

	opts := smallOptions()
	opts.Users = 0
	res, err := NewSeeder(db, opts).Run(context.Background())
	require.NoError(t, err)

	assert.Zero(t, res.Posts)
	assert.Zero(t, res.Comments)
	assert.Zero(t, res.Likes)
	assert.Equal(t, 3, res.Categories)
}

func TestClearAll(t *testing.T) {
	db := openDB(t)
	ctx := context.Background()
	s := NewSeeder(db, smallOptions())

	_, err := s.Run(ctx)
	require.NoError(t, err)
	require.NoError(t, s.ClearAll(ctx))

	for _, model := range []any{&models.User{}, &models.Category{}, &models.Post{}, &models.Comment{}, &models.Like{}} {
		assert.Zero(t, count(t, db, model))
	}
}

func TestNewSeeder_CapsCategories(t *testing.T) {
	opts := smallOptions()
	opts.Categories = 1000
	s := NewSeeder(nil, opts)
	assert.Equal(t, len(categoryNames), s.opts.Categories)
	assert.Equal(t, 90, s.opts.MaxDays)
}
