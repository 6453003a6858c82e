package server

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"net/http/httptest"
	"regexp"
	"strconv"
	"sync"
	"testing"

	"blogify/internal/config"
	"blogify/internal/database"
	"blogify/internal/mailer"

	"github.com/alicebob/miniredis/v2"
	"github.com/gofiber/fiber/v2"
	"github.com/redis/go-redis/v9"
	"github.com/stretchr/testify/require"
	"gorm.io/gorm"
)

type recordingMailer struct {
	mu   sync.Mutex
	sent []mailer.Message
}

func (m *recordingMailer) Send(_ context.Context, msg mailer.Message) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.sent = append(m.sent, msg)
	return nil
}

// memStore keeps uploaded objects in memory.
type memStore struct {
	mu      sync.Mutex
	objects map[string][]byte
	failErr error
}

func (s *memStore) Put(_ context.Context, key, _ string, body io.Reader, _ int64) (string, error) {
	if s.failErr != nil {
		return "", s.failErr
	}
	data, err := io.ReadAll(body)
	if err != nil {
		return "", err
	}
	s.mu.Lock()
	defer s.mu.Unlock()
	if s.objects == nil {
		s.objects = map[string][]byte{}
	}
	s.objects[key] = data
	return "https://cdn.test/" + key, nil
}

type testEnv struct {
	t     *testing.T
	srv   *Server
	app   *fiber.App
	db    *gorm.DB
	mail  *recordingMailer
	store *memStore
}

func testConfig(t *testing.T) *config.Config {
	return &config.Config{
		Port:               "0",
		Env:                "test",
		JWTSecret:          "test-secret-key-12345678901234567890",
		JWTIssuer:          "blogify-api",
		JWTAudience:        "blogify-client",
		DBDriver:           "sqlite",
		ClientURL:          "http://client.test",
		AuthEchoResetToken: true,
		StorageDriver:      "disk",
		UploadDir:          t.TempDir(),
		UploadPublicURL:    "http://localhost:8375/uploads",
		UploadMaxSizeMB:    1,
	}
}

func newTestEnv(t *testing.T) *testEnv {
	t.Helper()
	return newTestEnvWithConfig(t, testConfig(t))
}

func newTestEnvWithConfig(t *testing.T, cfg *config.Config) *testEnv {
	t.Helper()
	return newTestEnvWithRedis(t, cfg, nil)
}

// newCachedTestEnv backs the server with an in-memory Redis.
func newCachedTestEnv(t *testing.T) (*testEnv, *miniredis.Miniredis) {
	t.Helper()
	mr := miniredis.RunT(t)
	rdb := redis.NewClient(&redis.Options{Addr: mr.Addr()})
	t.Cleanup(func() { _ = rdb.Close() })
	return newTestEnvWithRedis(t, testConfig(t), rdb), mr
}

func newTestEnvWithRedis(t *testing.T, cfg *config.Config, rdb *redis.Client) *testEnv {
	t.Helper()
	db, err := database.OpenSQLite(":memory:")
	require.NoError(t, err)
	t.Cleanup(func() { database.Close(db) })

	rec := &recordingMailer{}
	store := &memStore{}
	srv, err := NewServerWithDeps(cfg, db, rdb, Deps{Mailer: rec, Store: store})
	require.NoError(t, err)

	return &testEnv{t: t, srv: srv, app: srv.App(), db: db, mail: rec, store: store}
}

// do sends a JSON request and decodes the JSON response.
func (e *testEnv) do(method, path string, body any, token string) (*http.Response, map[string]any) {
	e.t.Helper()
	var reader io.Reader
	if body != nil {
		payload, err := json.Marshal(body)
		require.NoError(e.t, err)
		reader = bytes.NewReader(payload)
	}
	req := httptest.NewRequest(method, path, reader)
	if body != nil {
		req.Header.Set("Content-Type", "application/json")
	}
	if token != "" {
		req.Header.Set("Authorization", "Bearer "+token)
	}
	return e.send(req)
}

func (e *testEnv) send(req *http.Request) (*http.Response, map[string]any) {
	e.t.Helper()
	resp, err := e.app.Test(req, -1)
	require.NoError(e.t, err)
	e.t.Cleanup(func() { _ = resp.Body.Close() })

	raw, err := io.ReadAll(resp.Body)
	require.NoError(e.t, err)
	var out map[string]any
	if len(raw) > 0 {
		require.NoError(e.t, json.Unmarshal(raw, &out), "body: %s", raw)
	}
	return resp, out
}

// mails returns everything dispatched so far.
func (e *testEnv) mails() []mailer.Message {
	e.srv.mail.Wait()
	e.mail.mu.Lock()
	defer e.mail.mu.Unlock()
	return append([]mailer.Message(nil), e.mail.sent...)
}

var verificationCodePattern = regexp.MustCompile(`code is (\d{6})`)

func (e *testEnv) lastVerificationCode(to string) string {
	e.t.Helper()
	msgs := e.mails()
	for i := len(msgs) - 1; i >= 0; i-- {
		if msgs[i].To == to && msgs[i].Template == mailer.TemplateVerification {
			m := verificationCodePattern.FindStringSubmatch(msgs[i].Text)
			require.Len(e.t, m, 2)
			return m[1]
		}
	}
	e.t.Fatalf("no verification mail for %s", to)
	return ""
}

type session struct {
	id    uint
	email string
	token string
}

const testPassword = "Str0ngPassw0rd"

// register signs up and logs in a fresh user.
func (e *testEnv) register(name string) session {
	e.t.Helper()
	email := fmt.Sprintf("%s@example.com", name)
	resp, _ := e.do(http.MethodPost, "/api/auth/signup", map[string]string{
		"name": name, "email": email, "password": testPassword,
	}, "")
	require.Equal(e.t, http.StatusCreated, resp.StatusCode)

	resp, body := e.do(http.MethodPost, "/api/auth/login", map[string]string{
		"email": email, "password": testPassword,
	}, "")
	require.Equal(e.t, http.StatusOK, resp.StatusCode)

	user := body["user"].(map[string]any)
	return session{
		id:    uint(user["_id"].(float64)),
		email: email,
		token: body["token"].(string),
	}
}

func (e *testEnv) createCategory(token, name string) uint {
	e.t.Helper()
	resp, body := e.do(http.MethodPost, "/api/categories", map[string]string{
		"name": name, "description": name + " description",
	}, token)
	require.Equal(e.t, http.StatusCreated, resp.StatusCode, "%v", body)
	return uint(body["data"].(map[string]any)["_id"].(float64))
}

func (e *testEnv) createPost(token, title string, categoryID uint) map[string]any {
	e.t.Helper()
	resp, body := e.do(http.MethodPost, "/api/posts", map[string]any{
		"title":      title,
		"body":       "This body is comfortably longer than fifteen characters.",
		"categories": categoryID,
	}, token)
	require.Equal(e.t, http.StatusCreated, resp.StatusCode, "%v", body)
	return body["data"].(map[string]any)
}

func uintStr(id uint) string {
	return strconv.FormatUint(uint64(id), 10)
}
