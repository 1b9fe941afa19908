package testutils

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/joho/godotenv"
	"github.com/nfrund/propmgr/internal/config"
	"github.com/nfrund/propmgr/internal/logging"
)

// ConfigForTests loads the .env.test file and returns a valid config.Provider.
// Integration tests are skipped when the file or a required variable is
// missing, so `go test ./...` works without a running SurrealDB.
func ConfigForTests(t *testing.T) *config.Config {
	t.Helper()

	if testing.Short() {
		t.Skip("skipping integration test in short mode")
	}

	// 1. Find project root by looking for go.mod to reliably locate .env.test
	path, _ := os.Getwd()
	for {
		if _, err := os.Stat(filepath.Join(path, "go.mod")); err == nil {
			break
		}
		if path == filepath.Dir(path) {
			t.Fatalf("could not find project root with go.mod")
		}
		path = filepath.Dir(path)
	}

	// 2. Manually read the .env.test file.
	env, err := godotenv.Read(filepath.Join(path, ".env.test"))
	if err != nil {
		t.Skipf("no .env.test file, skipping integration test: %v", err)
	}

	// 3. Use t.Setenv to set the environment variables for this test.
	for key, value := range env {
		t.Setenv(key, value)
	}

	logging.New()

	// 4. Now that the environment is set, create the config.
	cfg, err := config.FromEnv()
	if err != nil {
		t.Skipf("incomplete test configuration: %v", err)
	}
	return cfg
}
