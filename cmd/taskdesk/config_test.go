package main

import (
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/mesh-intelligence/taskdesk/pkg/types"
)

func TestLoadConfigWritesDefault(t *testing.T) {
	dir := filepath.Join(t.TempDir(), "conf")

	v, err := loadConfig(dir)
	require.NoError(t, err)

	data, err := os.ReadFile(filepath.Join(dir, configFileExt))
	require.NoError(t, err)
	assert.Equal(t, defaultConfigYAML, string(data))

	cfg := appConfig(v, "/data")
	assert.Equal(t, types.BackendSQLite, cfg.Storage.Backend)
	assert.Equal(t, "/data", cfg.Storage.DataDir)
	assert.Equal(t, types.DefaultSupabaseTimeout, cfg.Storage.Supabase.Timeout)
	assert.Empty(t, cfg.AccessKey)
	assert.Equal(t, "warn", v.GetString(cfgKeyLogLevel))
}

func TestLoadConfigKeepsExistingFile(t *testing.T) {
	dir := t.TempDir()
	yaml := "backend: supabase\nsupabase:\n  url: https://x.supabase.co\n  api_key: k\n  timeout: 5s\n  rate_limit: 2.5\n"
	require.NoError(t, os.WriteFile(filepath.Join(dir, configFileExt), []byte(yaml), 0o600))

	v, err := loadConfig(dir)
	require.NoError(t, err)

	cfg := appConfig(v, "")
	require.NoError(t, cfg.Storage.Validate())
	assert.Equal(t, types.BackendSupabase, cfg.Storage.Backend)
	assert.Equal(t, "https://x.supabase.co", cfg.Storage.Supabase.URL)
	assert.Equal(t, 5*time.Second, cfg.Storage.Supabase.Timeout)
	assert.Equal(t, 2.5, cfg.Storage.Supabase.RateLimit)
}

func TestLoadConfigEnvOverrides(t *testing.T) {
	dir := t.TempDir()
	t.Setenv("TASKDESK_BACKEND", "memory")
	t.Setenv("TASKDESK_SUPABASE_URL", "https://env.supabase.co")
	t.Setenv("TASKDESK_IDENTITY", "699759380")

	v, err := loadConfig(dir)
	require.NoError(t, err)

	cfg := appConfig(v, "")
	assert.Equal(t, types.BackendMemory, cfg.Storage.Backend)
	assert.Equal(t, "https://env.supabase.co", cfg.Storage.Supabase.URL)
	assert.Equal(t, "699759380", v.GetString(cfgKeyIdentity))
}

func TestLoadConfigRejectsBrokenYAML(t *testing.T) {
	dir := t.TempDir()
	require.NoError(t, os.WriteFile(filepath.Join(dir, configFileExt), []byte("backend: [\n"), 0o600))

	_, err := loadConfig(dir)
	assert.Error(t, err)
}
