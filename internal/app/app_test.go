package app

import (
	"bytes"
	"context"
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/mesh-intelligence/taskdesk/internal/logging"
	"github.com/mesh-intelligence/taskdesk/internal/memory"
	"github.com/mesh-intelligence/taskdesk/internal/vault"
	"github.com/mesh-intelligence/taskdesk/pkg/types"
)

func TestOpenMemory(t *testing.T) {
	a, err := Open(Config{Storage: types.Config{Backend: types.BackendMemory}})
	require.NoError(t, err)
	defer a.Close()

	a.Session.LoginByIdentity(context.Background(), "nobody")
	assert.False(t, a.Session.IsAuthenticated())
	assert.NotNil(t, a.Stores.Tasks)
}

func TestOpenRejectsUnknownBackend(t *testing.T) {
	_, err := Open(Config{Storage: types.Config{Backend: "redis"}})
	assert.ErrorIs(t, err, types.ErrBackendUnknown)

	_, err = Open(Config{})
	assert.ErrorIs(t, err, types.ErrBackendEmpty)
}

func TestOpenSupabaseRequiresURL(t *testing.T) {
	_, err := Open(Config{Storage: types.Config{Backend: types.BackendSupabase}})
	assert.ErrorIs(t, err, types.ErrSupabaseURLEmpty)
}

func TestOpenBadAccessKeyDetaches(t *testing.T) {
	b := memory.NewBackend()
	_, err := Open(Config{Storage: types.Config{Backend: types.BackendMemory}, AccessKey: "short"}, WithBackend(b))
	assert.ErrorIs(t, err, vault.ErrInvalidKey)

	_, err = b.GetTable(types.TableUsers)
	assert.ErrorIs(t, err, types.ErrBackendDetached)
}

func TestPlaintextWarning(t *testing.T) {
	var logs bytes.Buffer
	logger, err := logging.NewWriter(&logs, "warn")
	require.NoError(t, err)

	a, err := Open(Config{Storage: types.Config{Backend: types.BackendMemory}}, WithLogger(logger))
	require.NoError(t, err)
	defer a.Close()
	assert.Contains(t, logs.String(), "plaintext")
}

func TestOpenSQLiteSealsAccesses(t *testing.T) {
	ctx := context.Background()
	dir := t.TempDir()
	key, err := vault.GenerateKey()
	require.NoError(t, err)

	a, err := Open(Config{Storage: types.Config{Backend: types.BackendSQLite, DataDir: dir}, AccessKey: key})
	require.NoError(t, err)
	_, err = a.Repos.Accesses.Add(ctx, types.Access{ID: "a1", ProjectID: "p1", Password: "password123"})
	require.NoError(t, err)
	require.NoError(t, a.Close())

	raw, err := os.ReadFile(filepath.Join(dir, "accesses.jsonl"))
	require.NoError(t, err)
	assert.NotContains(t, string(raw), "password123")
	assert.Contains(t, string(raw), vault.Prefix)

	a, err = Open(Config{Storage: types.Config{Backend: types.BackendSQLite, DataDir: dir}, AccessKey: key})
	require.NoError(t, err)
	defer a.Close()
	got, err := a.Repos.Accesses.Get(ctx, "a1")
	require.NoError(t, err)
	assert.Equal(t, "password123", got.Password)
}
