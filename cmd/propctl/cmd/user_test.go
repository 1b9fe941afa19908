package cmd

import (
	"bytes"
	"context"
	"testing"

	"github.com/nfrund/propmgr/internal/accounts"
	"github.com/nfrund/propmgr/internal/domain"
	"github.com/nfrund/propmgr/internal/handlers"
	"github.com/spf13/cobra"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	surrealmodels "github.com/surrealdb/surrealdb.go/pkg/models"
)

type stubRegistrar struct {
	calls int
	err   error
}

func (s *stubRegistrar) Register(ctx context.Context, name, email, password string, meta accounts.RequestMeta) (*domain.Session, error) {
	s.calls++
	if s.err != nil {
		return nil, s.err
	}
	id := surrealmodels.NewRecordID("user", "abc")
	return &domain.Session{Token: "t", User: &domain.User{ID: &id, Name: &name, Email: email}}, nil
}

func testCommand() (*cobra.Command, *bytes.Buffer, *bytes.Buffer) {
	var out, errOut bytes.Buffer
	c := &cobra.Command{}
	c.SetOut(&out)
	c.SetErr(&errOut)
	return c, &out, &errOut
}

func TestCreateUser(t *testing.T) {
	t.Run("valid details create the account", func(t *testing.T) {
		c, out, _ := testCommand()
		reg := &stubRegistrar{}

		err := createUser(context.Background(), c, reg, handlers.RegistrationRequest{
			Name: "Ada", Email: "ada@example.com", Password: "hunter22",
		})
		require.NoError(t, err)
		assert.Equal(t, 1, reg.calls)
		assert.Contains(t, out.String(), "ada@example.com")
		assert.NotContains(t, out.String(), "hunter22")
	})

	t.Run("invalid email is rejected before registering", func(t *testing.T) {
		c, _, errOut := testCommand()
		reg := &stubRegistrar{}

		err := createUser(context.Background(), c, reg, handlers.RegistrationRequest{
			Name: "Ada", Email: "not-an-email", Password: "hunter22",
		})
		require.Error(t, err)
		assert.Zero(t, reg.calls)
		assert.Contains(t, errOut.String(), "invalid Email: email")
	})

	t.Run("duplicate accounts surface the domain error", func(t *testing.T) {
		c, _, _ := testCommand()
		reg := &stubRegistrar{err: domain.ErrUserAlreadyExists}

		err := createUser(context.Background(), c, reg, handlers.RegistrationRequest{
			Name: "Ada", Email: "ada@example.com", Password: "hunter22",
		})
		assert.ErrorIs(t, err, domain.ErrUserAlreadyExists)
	})
}

func TestVersion(t *testing.T) {
	var out bytes.Buffer
	versionCmd.SetOut(&out)
	versionCmd.Run(versionCmd, nil)
	assert.Equal(t, "propctl v"+version+"\n", out.String())
}
