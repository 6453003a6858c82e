package repository

import (
	"testing"

	"blogify/internal/models"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestCategoryRepository(t *testing.T) {
	f := newFixture(t)
	ctx := t.Context()

	tech := f.category(t, "Tech Notes")
	f.category(t, "Life")

	err := f.cats.Create(ctx, &models.Category{Name: "Tech Notes"})
	assert.True(t, models.IsCode(err, models.CodeDuplicateKey))

	list, err := f.cats.List(ctx)
	require.NoError(t, err)
	require.Len(t, list, 2)
	assert.Equal(t, "Life", list[0].Name)

	tech.Description = "Updated"
	require.NoError(t, f.cats.Update(ctx, tech))
	got, err := f.cats.GetByID(ctx, tech.ID)
	require.NoError(t, err)
	assert.Equal(t, "Updated", got.Description)

	_, err = f.cats.GetByID(ctx, 999)
	assert.True(t, models.IsCode(err, models.CodeNotFound))
}

func TestCategoryRepository_DeleteLeavesPosts(t *testing.T) {
	f := newFixture(t)
	ctx := t.Context()
	ada := f.user(t, "Ada", "ada@example.com")
	cat := f.category(t, "Tech Notes")
	post := f.post(t, "My First Post", "my-first-post", ada, cat)

	deleted, err := f.cats.Delete(ctx, cat.ID)
	require.NoError(t, err)
	assert.Equal(t, "Tech Notes", deleted.Name)

	got, err := f.posts.GetByID(ctx, post.ID)
	require.NoError(t, err)
	assert.Equal(t, cat.ID, got.CategoryID)
	assert.Nil(t, got.Category)

	_, err = f.cats.Delete(ctx, cat.ID)
	assert.True(t, models.IsCode(err, models.CodeNotFound))
}
