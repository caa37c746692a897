package sqlite

import (
	"context"
	"os"
	"path/filepath"
	"strings"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/mesh-intelligence/taskdesk/pkg/types"
)

func attach(t *testing.T, dir string) *Backend {
	t.Helper()
	b := NewBackend()
	require.NoError(t, b.Attach(types.Config{Backend: types.BackendSQLite, DataDir: dir}))
	t.Cleanup(func() { b.Detach() })
	return b
}

func TestBackend_Attach(t *testing.T) {
	dir := filepath.Join(t.TempDir(), "data")
	b := NewBackend()
	require.NoError(t, b.Attach(types.Config{Backend: types.BackendSQLite, DataDir: dir}))
	defer b.Detach()

	for _, name := range types.StandardTableNames {
		assert.FileExists(t, filepath.Join(dir, name+".jsonl"))
	}
	assert.FileExists(t, filepath.Join(dir, dbFileName))
	assert.ErrorIs(t, b.Attach(types.Config{Backend: types.BackendSQLite, DataDir: dir}), types.ErrAlreadyAttached)
}

func TestBackend_AttachRejectsInvalidConfig(t *testing.T) {
	b := NewBackend()
	assert.ErrorIs(t, b.Attach(types.Config{}), types.ErrBackendEmpty)
}

func TestBackend_Detach(t *testing.T) {
	b := attach(t, t.TempDir())

	require.NoError(t, b.Detach())
	require.NoError(t, b.Detach())

	_, err := b.GetTable(types.TableTasks)
	assert.ErrorIs(t, err, types.ErrBackendDetached)
}

func TestBackend_GetTable(t *testing.T) {
	b := attach(t, t.TempDir())

	for _, name := range types.StandardTableNames {
		tbl, err := b.GetTable(name)
		require.NoError(t, err, name)
		assert.NotNil(t, tbl)
	}
	_, err := b.GetTable("invoices")
	assert.ErrorIs(t, err, types.ErrTableNotFound)
}

func TestTable_CRUD(t *testing.T) {
	ctx := context.Background()
	b := attach(t, t.TempDir())
	tbl, err := b.GetTable(types.TableTasks)
	require.NoError(t, err)

	id, err := tbl.Set(ctx, "", &types.Task{
		Title:     "Fix login",
		ProjectID: "p1",
		CreatorID: "u1",
		Status:    types.TaskNew,
		Assignees: []string{"u2"},
	})
	require.NoError(t, err)
	assert.NotEmpty(t, id)

	got, err := tbl.Get(ctx, id)
	require.NoError(t, err)
	task := got.(*types.Task)
	assert.Equal(t, "Fix login", task.Title)
	assert.Equal(t, types.TaskNew, task.Status)
	assert.Empty(t, task.Assignees, "assignees are not a stored column")

	task.Status = types.TaskDone
	_, err = tbl.Set(ctx, id, task)
	require.NoError(t, err)
	got, err = tbl.Get(ctx, id)
	require.NoError(t, err)
	assert.Equal(t, types.TaskDone, got.(*types.Task).Status)

	require.NoError(t, tbl.Delete(ctx, id))
	_, err = tbl.Get(ctx, id)
	assert.ErrorIs(t, err, types.ErrNotFound)
	assert.ErrorIs(t, tbl.Delete(ctx, id), types.ErrNotFound)

	_, err = tbl.Get(ctx, "")
	assert.ErrorIs(t, err, types.ErrInvalidID)
}

func TestTable_SetRejectsWrongEntity(t *testing.T) {
	b := attach(t, t.TempDir())
	tbl, err := b.GetTable(types.TableUsers)
	require.NoError(t, err)

	_, err = tbl.Set(context.Background(), "", &types.Project{Title: "nope"})
	assert.ErrorIs(t, err, types.ErrInvalidData)
}

func TestTable_FetchFilterAndOrder(t *testing.T) {
	ctx := context.Background()
	b := attach(t, t.TempDir())
	tbl, err := b.GetTable(types.TableComments)
	require.NoError(t, err)

	base := time.Date(2024, 6, 1, 10, 0, 0, 0, time.UTC)
	for _, c := range []*types.Comment{
		{ID: "c2", TaskID: "t1", AuthorID: "u1", Text: "second", CreatedAt: base.Add(2 * time.Second)},
		{ID: "c1", TaskID: "t1", AuthorID: "u1", Text: "first", CreatedAt: base.Add(time.Second)},
		{ID: "c3", TaskID: "t2", AuthorID: "u2", Text: "other", CreatedAt: base},
	} {
		_, err := tbl.Set(ctx, "", c)
		require.NoError(t, err)
	}

	rows, err := tbl.Fetch(ctx, map[string]any{"task_id": "t1"})
	require.NoError(t, err)
	require.Len(t, rows, 2)
	assert.Equal(t, "first", rows[0].(*types.Comment).Text)
	assert.Equal(t, "second", rows[1].(*types.Comment).Text)

	all, err := tbl.Fetch(ctx, nil)
	require.NoError(t, err)
	assert.Len(t, all, 3)

	none, err := tbl.Fetch(ctx, map[string]any{"task_id": "missing"})
	require.NoError(t, err)
	assert.Empty(t, none)

	_, err = tbl.Fetch(ctx, map[string]any{"body": "x"})
	assert.ErrorIs(t, err, types.ErrInvalidFilter)
	_, err = tbl.Fetch(ctx, map[string]any{"task_id": 7})
	assert.ErrorIs(t, err, types.ErrInvalidFilter)
}

func TestTable_UniqueTelegramID(t *testing.T) {
	ctx := context.Background()
	b := attach(t, t.TempDir())
	tbl, err := b.GetTable(types.TableUsers)
	require.NoError(t, err)

	_, err = tbl.Set(ctx, "u1", &types.User{TelegramID: "100", Name: "Ann", Role: types.RoleOwner})
	require.NoError(t, err)
	_, err = tbl.Set(ctx, "u2", &types.User{TelegramID: "100", Name: "Bob", Role: types.RoleEmployee})
	assert.Error(t, err)
}

func TestBackend_PersistsAcrossAttach(t *testing.T) {
	ctx := context.Background()
	dir := t.TempDir()

	b := NewBackend()
	require.NoError(t, b.Attach(types.Config{Backend: types.BackendSQLite, DataDir: dir}))
	users, err := b.GetTable(types.TableUsers)
	require.NoError(t, err)
	_, err = users.Set(ctx, "u1", &types.User{TelegramID: "100", Name: "Ann", Role: types.RoleOwner})
	require.NoError(t, err)
	_, err = users.Set(ctx, "u2", &types.User{TelegramID: "200", Name: "Bob", Role: types.RoleEmployee})
	require.NoError(t, err)
	require.NoError(t, users.Delete(ctx, "u2"))
	require.NoError(t, b.Detach())

	data, err := os.ReadFile(filepath.Join(dir, "users.jsonl"))
	require.NoError(t, err)
	assert.Equal(t, 1, strings.Count(string(data), "\n"))
	assert.Contains(t, string(data), `"telegram_id":"100"`)

	b2 := attach(t, dir)
	users, err = b2.GetTable(types.TableUsers)
	require.NoError(t, err)
	rows, err := users.Fetch(ctx, nil)
	require.NoError(t, err)
	require.Len(t, rows, 1)
	assert.Equal(t, "Ann", rows[0].(*types.User).Name)
}

func TestBackend_LoadSkipsMalformedLines(t *testing.T) {
	dir := t.TempDir()
	content := strings.Join([]string{
		`{"id":"p1","title":"Good","status":"active","created_at":"2024-06-01T10:00:00.000000000Z","extra":"ignored"}`,
		`not json`,
		``,
		`{"title":"no id"}`,
		`{"id":"p2","title":"Also good","status":"archived","created_at":"2024-06-02T10:00:00.000000000Z"}`,
	}, "\n")
	require.NoError(t, os.WriteFile(filepath.Join(dir, "projects.jsonl"), []byte(content), 0o644))

	b := attach(t, dir)
	tbl, err := b.GetTable(types.TableProjects)
	require.NoError(t, err)
	rows, err := tbl.Fetch(context.Background(), nil)
	require.NoError(t, err)
	require.Len(t, rows, 2)
	assert.Equal(t, "Good", rows[0].(*types.Project).Title)
	assert.Equal(t, types.ProjectArchived, rows[1].(*types.Project).Status)
}
