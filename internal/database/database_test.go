package database

import (
	"context"
	"errors"
	"testing"

	"github.com/nfrund/propmgr/internal/config"
	"github.com/nfrund/propmgr/internal/testutils"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestNewDB(t *testing.T) {
	baseCfg := testutils.ConfigForTests(t)

	tests := []struct {
		name    string
		prepare func() *config.Config
		wantErr bool
	}{
		{
			name:    "success - valid configuration",
			prepare: func() *config.Config { return baseCfg },
		},
		{
			name: "error - invalid URL",
			prepare: func() *config.Config {
				invalidCfg := *baseCfg
				invalidCfg.DBUrl = "invalid://url"
				return &invalidCfg
			},
			wantErr: true,
		},
		{
			name: "error - invalid credentials",
			prepare: func() *config.Config {
				invalidCfg := *baseCfg
				invalidCfg.DBPass = "wrongpassword"
				return &invalidCfg
			},
			wantErr: true,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			ctx := context.Background()

			db, err := NewDB(ctx, tt.prepare())

			if tt.wantErr {
				assert.Error(t, err, "expected an error")
				assert.Nil(t, db, "db should be nil on error")
				return
			}
			require.NoError(t, err, "unexpected error creating DB connection")
			require.NotNil(t, db)
			assert.NoError(t, Migrate(ctx, db), "schema should apply twice without error")
			_ = db.Close(ctx)
		})
	}
}

func TestWithLimit(t *testing.T) {
	assert.Equal(t, "SELECT * FROM user WHERE email = $email LIMIT 1",
		withLimit("SELECT * FROM user WHERE email = $email"))
	assert.Equal(t, "SELECT * FROM user LIMIT 5", withLimit("SELECT * FROM user LIMIT 5"))
	assert.Equal(t, "select * from user limit 1", withLimit("select * from user limit 1"))

	create := "CREATE user SET email = $email"
	assert.Equal(t, create, withLimit(create))

	fetch := "SELECT user FROM session WHERE token = $token LIMIT 1 FETCH user"
	assert.Equal(t, fetch, withLimit(fetch))
}

func TestDBError(t *testing.T) {
	cause := errors.New("connection reset")
	err := NewDBError(cause, "query execution failed").WithQuery("SELECT *\n\t\tFROM user")

	assert.ErrorIs(t, err, ErrQueryFailed)
	assert.ErrorIs(t, err, cause)
	assert.Equal(t, "query execution failed [query: SELECT * FROM user]: connection reset", err.Error())
}

func TestIsDuplicate(t *testing.T) {
	assert.False(t, isDuplicate(nil))
	assert.True(t, isDuplicate(errors.New("Database index `user_email` already contains 'a@b.com'")))
	assert.False(t, isDuplicate(errors.New("timeout")))
}
