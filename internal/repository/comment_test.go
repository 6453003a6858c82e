package repository

import (
	"testing"

	"blogify/internal/models"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestCommentRepository(t *testing.T) {
	f := newFixture(t)
	ctx := t.Context()
	ada := f.user(t, "Ada", "ada@example.com")
	cat := f.category(t, "Tech Notes")
	post := f.post(t, "My First Post", "my-first-post", ada, cat)

	c := &models.Comment{PostID: post.ID, AuthorID: ada.ID, Comment: "Great read"}
	require.NoError(t, f.comments.Create(ctx, c))
	assert.NotZero(t, c.ID)
	require.NotNil(t, c.Author)
	assert.Equal(t, "Ada", c.Author.Name)

	for _, text := range []string{"two", "three"} {
		require.NoError(t, f.comments.Create(ctx, &models.Comment{PostID: post.ID, AuthorID: ada.ID, Comment: text}))
	}

	list, err := f.comments.ListByPost(ctx, post.ID, 2)
	require.NoError(t, err)
	require.Len(t, list, 2)
	assert.Equal(t, "three", list[0].Comment)
	assert.Equal(t, "two", list[1].Comment)
	assert.Equal(t, ada.ID, list[0].Author.ID)

	empty, err := f.comments.ListByPost(ctx, 999, 0)
	require.NoError(t, err)
	assert.NotNil(t, empty)
	assert.Empty(t, empty)
}
