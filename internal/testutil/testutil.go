// Package testutil provides shared test helpers for config files and study log fixtures.
package testutil

import (
	"context"
	"fmt"
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/require"
	"go.uber.org/zap"

	"github.com/at-ishikawa/studylog/internal/config"
	"github.com/at-ishikawa/studylog/internal/database"
	"github.com/at-ishikawa/studylog/internal/studylog"
)

// SetupTestConfig creates a minimal config file pointing at a SQLite database in tmpDir.
// Returns the path to the generated config file.
func SetupTestConfig(t *testing.T, tmpDir string) string {
	t.Helper()

	configContent := fmt.Sprintf(`database:
  driver: sqlite
  path: %s
log:
  level: error
`,
		filepath.Join(tmpDir, "data", "learning_log.db"),
	)

	cfgPath := filepath.Join(tmpDir, "config.yml")
	require.NoError(t, os.WriteFile(cfgPath, []byte(configContent), 0644))
	return cfgPath
}

// SetupTestConfigWithAPIKey creates a config file whose Gemini client talks to baseURL with a fake key.
func SetupTestConfigWithAPIKey(t *testing.T, tmpDir, baseURL string) string {
	t.Helper()
	cfgPath := SetupTestConfig(t, tmpDir)

	content, err := os.ReadFile(cfgPath)
	require.NoError(t, err)
	content = append(content, []byte(fmt.Sprintf("gemini:\n  api_key: fake-key-for-testing\n  base_url: %s\n  timeout_seconds: 5\n", baseURL))...)
	require.NoError(t, os.WriteFile(cfgPath, content, 0644))
	return cfgPath
}

// NewStore opens an initialized store on a fresh SQLite file that is closed with the test.
func NewStore(t *testing.T) *studylog.Store {
	t.Helper()

	db, err := database.Open(config.DatabaseConfig{
		Driver: config.DriverSQLite,
		Path:   filepath.Join(t.TempDir(), "learning_log.db"),
	})
	require.NoError(t, err)
	t.Cleanup(func() { _ = db.Close() })

	store := studylog.NewStore(db, zap.NewNop())
	require.NoError(t, store.Initialize(context.Background()))
	return store
}

// SeedEntries inserts entries in order and returns their ids.
func SeedEntries(t *testing.T, repo studylog.Repository, entries ...studylog.NewEntry) []int64 {
	t.Helper()

	ids := make([]int64, 0, len(entries))
	for _, e := range entries {
		id, err := repo.Insert(context.Background(), e)
		require.NoError(t, err)
		ids = append(ids, id)
	}
	return ids
}
