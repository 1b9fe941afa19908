package authscreen

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestParseMode(t *testing.T) {
	assert.Equal(t, ModeRegister, ParseMode("register"))
	assert.Equal(t, ModeRegister, ParseMode(" Register "))
	assert.Equal(t, ModeLogin, ParseMode("login"))
	assert.Equal(t, ModeLogin, ParseMode(""))
	assert.Equal(t, ModeLogin, ParseMode("bogus"))
}

func TestModeRoundTrip(t *testing.T) {
	for _, m := range []Mode{ModeLogin, ModeRegister} {
		assert.Equal(t, m, ParseMode(m.String()))
		assert.Equal(t, m, m.Toggle().Toggle())
		assert.NotEqual(t, m, m.Toggle())
	}
}

func TestCopyFor(t *testing.T) {
	login := CopyFor(ModeLogin)
	assert.Equal(t, "Login", login.SubmitLabel)
	assert.Equal(t, "Don't have an account? Register", login.ToggleLabel)
	assert.Equal(t, "Sign in to continue managing properties.", login.Subtitle)
	assert.False(t, login.ShowName)

	register := CopyFor(ModeRegister)
	assert.Equal(t, "Register", register.SubmitLabel)
	assert.Equal(t, "Already have an account? Login", register.ToggleLabel)
	assert.Equal(t, "Create an account to find your dream home.", register.Subtitle)
	assert.True(t, register.ShowName)

	assert.Equal(t, "Continue with Google", register.GoogleLabel)
	assert.Equal(t, MsgLoginFailed, failureMessage(ModeLogin))
	assert.Equal(t, MsgRegisterFailed, failureMessage(ModeRegister))
}
