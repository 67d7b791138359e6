package mail_test

import (
	"context"
	"encoding/json"
	"log/slog"
	"net/http"
	"net/http/httptest"
	"os"
	"sync/atomic"
	"testing"
	"time"

	"github.com/hirelane/hirelane/pkg/mail"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func newLogger() *slog.Logger {
	return slog.New(slog.NewTextHandler(os.Stdout, &slog.HandlerOptions{Level: slog.LevelError}))
}

func TestHTTPSender_PostsJSONWithBearer(t *testing.T) {
	t.Parallel()

	var received mail.Message

	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		assert.Equal(t, http.MethodPost, r.Method)
		assert.Equal(t, "Bearer secret", r.Header.Get("Authorization"))
		assert.Equal(t, "application/json", r.Header.Get("Content-Type"))
		assert.NoError(t, json.NewDecoder(r.Body).Decode(&received))
		w.WriteHeader(http.StatusAccepted)
	}))
	defer server.Close()

	sender := mail.NewHTTPSender(server.URL, "secret", 0, 1, newLogger())

	err := sender.Send(context.Background(), mail.Message{
		OrganizationID: "org-1",
		From:           "jobs@acme.test",
		To:             "lina@example.test",
		Subject:        "Welcome",
		Body:           "Hello",
	})
	require.NoError(t, err)
	assert.Equal(t, "lina@example.test", received.To)
	assert.Equal(t, "Welcome", received.Subject)
}

func TestHTTPSender_ProviderErrorIsReturned(t *testing.T) {
	t.Parallel()

	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, _ *http.Request) {
		http.Error(w, "mailbox unavailable", http.StatusUnprocessableEntity)
	}))
	defer server.Close()

	sender := mail.NewHTTPSender(server.URL, "", 0, 1, newLogger())

	err := sender.Send(context.Background(), mail.Message{To: "x@example.test"})
	require.ErrorIs(t, err, mail.ErrDeliveryRejected)
	assert.Contains(t, err.Error(), "422")
}

func TestHTTPSender_RateLimitHonoursContext(t *testing.T) {
	t.Parallel()

	var calls atomic.Int32

	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, _ *http.Request) {
		calls.Add(1)
		w.WriteHeader(http.StatusOK)
	}))
	defer server.Close()

	sender := mail.NewHTTPSender(server.URL, "", 0.01, 1, newLogger())

	require.NoError(t, sender.Send(context.Background(), mail.Message{To: "a@example.test"}))

	ctx, cancel := context.WithTimeout(context.Background(), 50*time.Millisecond)
	defer cancel()

	err := sender.Send(ctx, mail.Message{To: "b@example.test"})
	require.Error(t, err)
	assert.Equal(t, int32(1), calls.Load())
}

func TestSenders_RequireRecipient(t *testing.T) {
	t.Parallel()

	require.ErrorIs(t, mail.NewLogSender(newLogger()).Send(context.Background(), mail.Message{}), mail.ErrMissingRecipient)
	require.ErrorIs(t, mail.NewHTTPSender("http://unused", "", 0, 1, newLogger()).Send(context.Background(), mail.Message{}), mail.ErrMissingRecipient)
}
