package repository

import (
	"testing"
	"time"

	"blogify/internal/database"
	"blogify/internal/models"

	"github.com/DATA-DOG/go-sqlmock"
	"github.com/stretchr/testify/require"
	"gorm.io/driver/postgres"
	"gorm.io/gorm"
)

func newTestDB(t *testing.T) *gorm.DB {
	t.Helper()
	db, err := database.OpenSQLite(":memory:")
	require.NoError(t, err)
	t.Cleanup(func() { database.Close(db) })
	return db
}

func setupMockDB(t *testing.T) (*gorm.DB, sqlmock.Sqlmock) {
	t.Helper()
	db, mock, err := sqlmock.New()
	require.NoError(t, err)
	t.Cleanup(func() { _ = db.Close() })

	gormDB, err := gorm.Open(postgres.New(postgres.Config{
		Conn: db,
	}), &gorm.Config{TranslateError: true})
	require.NoError(t, err)

	return gormDB, mock
}

type fixture struct {
	db       *gorm.DB
	users    UserRepository
	posts    PostRepository
	comments CommentRepository
	cats     CategoryRepository
}

func newFixture(t *testing.T) *fixture {
	db := newTestDB(t)
	return &fixture{
		db:       db,
		users:    NewUserRepository(db),
		posts:    NewPostRepository(db),
		comments: NewCommentRepository(db),
		cats:     NewCategoryRepository(db),
	}
}

func (f *fixture) user(t *testing.T, name, email string) *models.User {
	t.Helper()
	u := &models.User{Name: name, Email: email, Password: "hash", LastLogin: time.Now()}
	require.NoError(t, f.users.Create(t.Context(), u))
	return u
}

func (f *fixture) category(t *testing.T, name string) *models.Category {
	t.Helper()
	c := &models.Category{Name: name, Description: name + " description"}
	require.NoError(t, f.cats.Create(t.Context(), c))
	return c
}

func (f *fixture) post(t *testing.T, title, slug string, author *models.User, cat *models.Category) *models.Post {
	t.Helper()
	p := &models.Post{
		Title:      title,
		Slug:       slug,
		Body:       "A body that is long enough to be a post.",
		CategoryID: cat.ID,
		AuthorID:   author.ID,
	}
	require.NoError(t, f.posts.Create(t.Context(), p))
	return p
}
