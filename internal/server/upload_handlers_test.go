package server

import (
	"bytes"
	"errors"
	"image"
	"image/color"
	"image/png"
	"mime/multipart"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"

	"blogify/internal/models"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func testPNG(t *testing.T) []byte {
	t.Helper()
	img := image.NewRGBA(image.Rect(0, 0, 4, 4))
	img.Set(1, 1, color.RGBA{R: 255, A: 255})
	var buf bytes.Buffer
	require.NoError(t, png.Encode(&buf, img))
	return buf.Bytes()
}

func uploadRequest(t *testing.T, field, filename string, data []byte) *http.Request {
	t.Helper()
	var body bytes.Buffer
	w := multipart.NewWriter(&body)
	part, err := w.CreateFormFile(field, filename)
	require.NoError(t, err)
	_, err = part.Write(data)
	require.NoError(t, err)
	require.NoError(t, w.Close())

	req := httptest.NewRequest(http.MethodPost, "/api/upload", &body)
	req.Header.Set("Content-Type", w.FormDataContentType())
	return req
}

func TestUploadImage(t *testing.T) {
	env := newTestEnv(t)

	resp, body := env.send(uploadRequest(t, "image", "avatar.png", testPNG(t)))
	require.Equal(t, http.StatusOK, resp.StatusCode, "%v", body)
	url := body["url"].(string)
	assert.Equal(t, url, body["imageUrl"])
	assert.True(t, strings.HasPrefix(url, "https://cdn.test/uploads/"))
	assert.True(t, strings.HasSuffix(url, ".png"))

	env.store.mu.Lock()
	defer env.store.mu.Unlock()
	assert.Len(t, env.store.objects, 1)
}

func TestUploadImage_Rejections(t *testing.T) {
	env := newTestEnv(t)

	resp, body := env.send(uploadRequest(t, "file", "avatar.png", testPNG(t)))
	assert.Equal(t, http.StatusBadRequest, resp.StatusCode)
	assert.Equal(t, "image", body["field"])

	resp, body = env.send(uploadRequest(t, "image", "notes.png", []byte("definitely not an image")))
	assert.Equal(t, http.StatusBadRequest, resp.StatusCode)
	assert.Equal(t, models.CodeValidation, body["code"])

	big := append(testPNG(t), bytes.Repeat([]byte{0}, 1<<20)...)
	resp, body = env.send(uploadRequest(t, "image", "huge.png", big))
	assert.Equal(t, http.StatusRequestEntityTooLarge, resp.StatusCode)
	assert.Equal(t, models.CodePayloadTooLarge, body["code"])
	assert.Equal(t, "Image must be smaller than 1 MB", body["message"])
}

func TestUploadImage_StoreFailure(t *testing.T) {
	env := newTestEnv(t)
	env.store.failErr = errors.New("bucket unavailable")

	resp, body := env.send(uploadRequest(t, "image", "avatar.png", testPNG(t)))
	assert.Equal(t, http.StatusBadGateway, resp.StatusCode)
	assert.Equal(t, models.CodeUpstream, body["code"])
	assert.NotContains(t, body["message"], "bucket")
}
