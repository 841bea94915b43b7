package config_test

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/bstanko/liftlog/internal/config"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

const testConfigContent = `
[development]
log_level = "trace"
log_to_stdout = true
backend_url = "http://localhost:54321"
user_id = "temp-user-123"
local_db_path = "./liftlog-dev.db"

[production]
log_level = "info"
logs_path = "/var/log/liftlog"
backend_url = "https://backend.example.com"
user_id = "temp-user-123"
local_db_path = "/var/lib/liftlog/liftlog.db"
`

func writeTestConfig(t *testing.T) string {
	t.Helper()
	path := filepath.Join(t.TempDir(), "config.toml")
	require.NoError(t, os.WriteFile(path, []byte(testConfigContent), 0o600))
	return path
}

func TestLoad(t *testing.T) {
	path := writeTestConfig(t)

	cfg, err := config.Load("development", path)
	require.NoError(t, err)
	require.NotNil(t, cfg)
	assert.Equal(t, "development", cfg.Environment)
	assert.Equal(t, "trace", cfg.LogLevel)
	assert.True(t, cfg.LogToStdout)
	assert.Equal(t, "http://localhost:54321", cfg.BackendURL)
	assert.Equal(t, "temp-user-123", cfg.UserID)

	cfg, err = config.Load("prod", path)
	require.NoError(t, err)
	require.NotNil(t, cfg)
	assert.Equal(t, "info", cfg.LogLevel)
	assert.Equal(t, "/var/log/liftlog", cfg.LogsPath)
	assert.False(t, cfg.LogToStdout)
}

func TestLoad_UnknownEnv(t *testing.T) {
	path := writeTestConfig(t)

	cfg, err := config.Load("staging", path)
	require.Error(t, err)
	assert.Nil(t, cfg)
	assert.Contains(t, err.Error(), "unknown env")
}

func TestLoad_FileMissing(t *testing.T) {
	_, err := config.Load("development", filepath.Join(t.TempDir(), "nope.toml"))
	require.Error(t, err)
}
