package mailer

import (
	"context"
	"encoding/json"
	"errors"
	"net/http"
	"net/http/httptest"
	"sync"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestResendMailer_Send(t *testing.T) {
	var got ResendEmailRequest
	var auth string
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		assert.Equal(t, "/emails", r.URL.Path)
		assert.Equal(t, http.MethodPost, r.Method)
		auth = r.Header.Get("Authorization")
		assert.NoError(t, json.NewDecoder(r.Body).Decode(&got))
		w.Header().Set("Content-Type", "application/json")
		_, _ = w.Write([]byte(`{"id":"email_123"}`))
	}))
	defer srv.Close()

	m := NewResendMailer("re_test", "Blogify <noreply@example.com>", srv.URL)
	err := m.Send(context.Background(), VerificationEmail("ada@example.com", "Ada", "123456", "24 hours"))
	require.NoError(t, err)

	assert.Equal(t, "Bearer re_test", auth)
	assert.Equal(t, "Blogify <noreply@example.com>", got.From)
	assert.Equal(t, []string{"ada@example.com"}, got.To)
	assert.Equal(t, "Verify your email", got.Subject)
	assert.Contains(t, got.HTML, "123456")
	assert.Contains(t, got.Text, "123456")
}

func TestResendMailer_SendErrors(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusUnprocessableEntity)
		_, _ = w.Write([]byte(`{"message":"Invalid from address"}`))
	}))
	defer srv.Close()

	m := NewResendMailer("re_test", "bad", srv.URL)
	err := m.Send(context.Background(), WelcomeEmail("ada@example.com", "Ada"))
	require.Error(t, err)
	assert.Contains(t, err.Error(), "status 422")
	assert.Contains(t, err.Error(), "Invalid from address")

	err = m.Send(context.Background(), Message{Subject: "no recipient"})
	assert.Error(t, err)
}

func TestTemplatesEscapeUserInput(t *testing.T) {
	msg := ResetSuccessEmail("x@example.com", "<script>alert(1)</script>")
	assert.NotContains(t, msg.HTML, "<script>")
	assert.Contains(t, msg.HTML, "&lt;script&gt;")
	assert.Equal(t, TemplateResetSuccess, msg.Template)

	reset := ResetEmail("x@example.com", "http://localhost:5173/reset-password/abc", "1 hour")
	assert.Contains(t, reset.HTML, `href="http://localhost:5173/reset-password/abc"`)
	assert.Contains(t, reset.Text, "reset-password/abc")
}

type recordingMailer struct {
	mu   sync.Mutex
	sent []Message
	err  error
}

func (r *recordingMailer) Send(ctx context.Context, msg Message) error {
	if _, ok := ctx.Deadline(); !ok {
		return errors.New("expected a bounded context")
	}
	r.mu.Lock()
	defer r.mu.Unlock()
	r.sent = append(r.sent, msg)
	return r.err
}

func TestDispatcher(t *testing.T) {
	rec := &recordingMailer{}
	d := NewDispatcher(rec, time.Second)

	ctx, cancel := context.WithCancel(context.Background())
	d.Dispatch(ctx, WelcomeEmail("ada@example.com", "Ada"))
	// Cancelling the request must not abort delivery.
	cancel()
	d.Dispatch(ctx, ResetSuccessEmail("ada@example.com", "Ada"))
	d.Wait()

	rec.mu.Lock()
	defer rec.mu.Unlock()
	assert.Len(t, rec.sent, 2)
}

func TestDispatcher_FailuresAreSwallowed(t *testing.T) {
	rec := &recordingMailer{err: errors.New("provider down")}
	d := NewDispatcher(rec, 0)
	d.Dispatch(context.Background(), WelcomeEmail("ada@example.com", "Ada"))
	d.Wait()

	var nilDispatcher *Dispatcher
	nilDispatcher.Dispatch(context.Background(), Message{})
	nilDispatcher.Wait()
	NewDispatcher(nil, 0).Dispatch(context.Background(), Message{})
}

func TestLogMailer(t *testing.T) {
	assert.NoError(t, LogMailer{}.Send(context.Background(), WelcomeEmail("a@b.co", "A")))
}
