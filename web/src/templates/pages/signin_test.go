package pages

import (
	"strings"
	"testing"

	"github.com/nfrund/propmgr/internal/authscreen"
	"github.com/nfrund/propmgr/web/src/templates/components"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	cmp "maragu.dev/gomponents"
)

func render(t *testing.T, n cmp.Node) string {
	t.Helper()
	var sb strings.Builder
	require.NoError(t, n.Render(&sb))
	return sb.String()
}

func TestSignIn(t *testing.T) {
	t.Run("login mode", func(t *testing.T) {
		html := render(t, SignIn(SignInData{Mode: authscreen.ModeLogin, Email: "ann@example.com", Name: "Ann"}))

		assert.Contains(t, html, "Welcome to")
		assert.Contains(t, html, "Property Manager")
		assert.Contains(t, html, "Sign in to continue managing properties.")
		assert.Contains(t, html, ">Login</button>")
		assert.Contains(t, html, "Don&#39;t have an account? Register")
		assert.Contains(t, html, `value="ann@example.com"`)
		assert.Contains(t, html, `type="hidden" name="name" value="Ann"`)
		assert.NotContains(t, html, "Full Name")
		assert.NotContains(t, html, "Continue with Google")
	})

	t.Run("register mode", func(t *testing.T) {
		html := render(t, SignIn(SignInData{Mode: authscreen.ModeRegister, GoogleEnabled: true}))

		assert.Contains(t, html, "Create an account to find your dream home.")
		assert.Contains(t, html, `placeholder="Full Name"`)
		assert.Contains(t, html, ">Register</button>")
		assert.Contains(t, html, "Already have an account? Login")
		assert.Contains(t, html, `value="register"`)
		assert.Contains(t, html, "Continue with Google")
	})

	t.Run("alerts", func(t *testing.T) {
		html := render(t, SignIn(SignInData{Alerts: []components.Alert{{Title: "Error", Message: "Failed to login"}}}))
		assert.Contains(t, html, `role="alert"`)
		assert.Contains(t, html, "Failed to login")
	})

	t.Run("password input is always empty", func(t *testing.T) {
		html := render(t, SignIn(SignInData{}))
		idx := strings.Index(html, `name="password"`)
		require.NotEqual(t, -1, idx)
		end := strings.Index(html[idx:], ">")
		assert.NotContains(t, html[idx:idx+end], "value=")
	})
}

func TestModeSwap(t *testing.T) {
	html := render(t, ModeSwap(SignInData{Mode: authscreen.ModeRegister, Name: "Ann", Email: "ann@example.com"}))

	assert.Equal(t, 4, strings.Count(html, `hx-swap-oob="true"`))
	assert.Contains(t, html, `id="auth-mode-head"`)
	assert.Contains(t, html, `id="auth-mode-actions"`)
	assert.Contains(t, html, `value="Ann"`)
	assert.NotContains(t, html, `name="password"`)
	assert.NotContains(t, html, `name="email"`)
}

func TestGreetingName(t *testing.T) {
	assert.Equal(t, "Ann Smith", GreetingName("ann smith"))
	assert.Equal(t, "McDonald", GreetingName("McDonald"))
	assert.Equal(t, "ann@example.com", GreetingName("ann@example.com"))
	assert.Equal(t, "", GreetingName("  "))
}
