package email

import (
	"bytes"
	"encoding/json"
	"log/slog"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/nfrund/propmgr/internal/config"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestNewEmailService(t *testing.T) {
	t.Run("log provider", func(t *testing.T) {
		sender, err := NewEmailService(&config.Config{EmailProvider: "log"})
		require.NoError(t, err)
		assert.IsType(t, &LogSender{}, sender)
	})

	t.Run("resend needs an api key", func(t *testing.T) {
		_, err := NewEmailService(&config.Config{EmailProvider: "resend"})
		assert.ErrorContains(t, err, "EMAIL_API_KEY")

		sender, err := NewEmailService(&config.Config{EmailProvider: "resend", EmailAPIKey: "key"})
		require.NoError(t, err)
		assert.IsType(t, &ResendSender{}, sender)
	})

	t.Run("unknown provider", func(t *testing.T) {
		_, err := NewEmailService(&config.Config{EmailProvider: "pigeon"})
		assert.ErrorContains(t, err, "unknown email provider")
	})
}

func TestLogSender(t *testing.T) {
	var buf bytes.Buffer
	s := NewLogSender("noreply@example.com", slog.New(slog.NewTextHandler(&buf, nil)))

	require.NoError(t, s.Send("ann@example.com", "Hello", "<p>hi</p>"))
	assert.Contains(t, buf.String(), "to=ann@example.com")
	assert.Contains(t, buf.String(), "subject=Hello")
}

func TestResendSender(t *testing.T) {
	var got resendPayload
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		assert.Equal(t, "Bearer key-1", r.Header.Get("Authorization"))
		require.NoError(t, json.NewDecoder(r.Body).Decode(&got))
		if got.To == "bounce@example.com" {
			w.WriteHeader(http.StatusUnprocessableEntity)
			return
		}
		w.WriteHeader(http.StatusOK)
	}))
	defer srv.Close()

	s := NewResendSender("key-1", "")
	s.endpoint = srv.URL

	require.NoError(t, s.Send("ann@example.com", "Welcome", "<p>hi</p>"))
	assert.Equal(t, "Property Manager <onboarding@resend.dev>", got.From)
	assert.Equal(t, "Welcome", got.Subject)

	assert.ErrorContains(t, s.Send("bounce@example.com", "Welcome", "<p>hi</p>"), "status 422")
}
