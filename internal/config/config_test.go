package config

import (
	"errors"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func setRequired(t *testing.T) {
	t.Setenv("SURREAL_URL", "ws://localhost:8000")
	t.Setenv("SURREAL_NS", "test")
	t.Setenv("SURREAL_DB", "test")
	t.Setenv("SESSION_SECRET", "a-very-secret-key-for-testing-!")
}

func TestFromEnv(t *testing.T) {
	t.Run("defaults are applied", func(t *testing.T) {
		setRequired(t)
		t.Setenv("APP_BASE_URL", "https://props.example.com/")

		cfg, err := FromEnv()
		require.NoError(t, err)

		assert.Equal(t, "https://props.example.com", cfg.GetAppBaseURL())
		assert.Equal(t, ":8080", cfg.GetServerAddr())
		assert.Equal(t, 5*time.Second, cfg.GetDBQueryTimeout())
		assert.Equal(t, 10*time.Minute, cfg.GetOAuthStateTTL())
		assert.Equal(t, 7*24*time.Hour, cfg.GetSessionTTL())
		assert.False(t, cfg.GoogleEnabled())
		assert.Equal(t, "log", cfg.GetEmailProvider())
		assert.False(t, cfg.GetTracingEnabled())
	})

	t.Run("durations are parsed", func(t *testing.T) {
		setRequired(t)
		t.Setenv("SESSION_TTL", "2h")
		t.Setenv("OAUTH_STATE_TTL", "not-a-duration")
		t.Setenv("TRACING_ENABLED", "true")

		cfg, err := FromEnv()
		require.NoError(t, err)

		assert.Equal(t, 2*time.Hour, cfg.GetSessionTTL())
		assert.Equal(t, 10*time.Minute, cfg.GetOAuthStateTTL())
		assert.True(t, cfg.GetTracingEnabled())
	})

	t.Run("missing variables are reported", func(t *testing.T) {
		setRequired(t)
		t.Setenv("SURREAL_URL", "")
		t.Setenv("SESSION_SECRET", "")

		_, err := FromEnv()
		require.Error(t, err)
		assert.True(t, errors.Is(err, ErrMissingConfig))

		var missing *MissingError
		require.ErrorAs(t, err, &missing)
		assert.ElementsMatch(t, []string{"SURREAL_URL", "SESSION_SECRET"}, missing.Names)
	})
}
