package server

import (
	"net/http"
	"strings"
	"testing"

	"blogify/internal/models"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestComments(t *testing.T) {
	env := newTestEnv(t)
	author := env.register("author")
	reader := env.register("reader")
	catID := env.createCategory(author.token, "Travel")
	post := env.createPost(author.token, "Commented Post", catID)
	path := "/api/comments/" + uintStr(uint(post["_id"].(float64)))

	resp, body := env.do(http.MethodGet, path, nil, "")
	require.Equal(t, http.StatusOK, resp.StatusCode)
	assert.Equal(t, "No comments found yet", body["message"])
	assert.Equal(t, []any{}, body["comments"])

	for _, text := range []string{"first", "second"} {
		resp, body = env.do(http.MethodPost, "/api/comments",
			map[string]any{"post_id": post["_id"], "comment": text}, reader.token)
		require.Equal(t, http.StatusCreated, resp.StatusCode, "%v", body)
		data := body["data"].(map[string]any)
		assert.Equal(t, text, data["comment"])
		assert.Equal(t, post["_id"], data["post"])
		assert.Equal(t, float64(reader.id), data["author"].(map[string]any)["_id"])
	}

	resp, body = env.do(http.MethodGet, path, nil, "")
	require.Equal(t, http.StatusOK, resp.StatusCode)
	comments := body["comments"].([]any)
	require.Len(t, comments, 2)
	assert.Equal(t, "second", comments[0].(map[string]any)["comment"])

	resp, body = env.do(http.MethodGet, "/api/posts/commented-post", nil, reader.token)
	require.Equal(t, http.StatusOK, resp.StatusCode)
	assert.Len(t, body["data"].(map[string]any)["comments"], 2)
}

func TestCreateComment_Rejections(t *testing.T) {
	env := newTestEnv(t)
	s := env.register("reader")

	tests := []struct {
		name   string
		body   map[string]any
		status int
		field  string
	}{
		{name: "missing post", body: map[string]any{"comment": "hello"}, status: http.StatusBadRequest, field: "post"},
		{name: "blank comment", body: map[string]any{"post_id": 1, "comment": "   "}, status: http.StatusBadRequest, field: "comment"},
		{name: "oversized comment", body: map[string]any{"post_id": 1, "comment": strings.Repeat("x", 10001)}, status: http.StatusBadRequest, field: "comment"},
		{name: "unknown post", body: map[string]any{"post_id": 77, "comment": "hello"}, status: http.StatusNotFound},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			resp, body := env.do(http.MethodPost, "/api/comments", tt.body, s.token)
			assert.Equal(t, tt.status, resp.StatusCode)
			if tt.field != "" {
				assert.Equal(t, tt.field, body["field"])
			} else {
				assert.Equal(t, models.CodeNotFound, body["code"])
			}
		})
	}
}
