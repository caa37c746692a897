package memory

import (
	"context"
	"errors"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/mesh-intelligence/taskdesk/pkg/types"
)

func attached(t *testing.T) *Backend {
	t.Helper()
	b := NewBackend()
	require.NoError(t, b.Attach(types.Config{Backend: types.BackendMemory}))
	t.Cleanup(func() { b.Detach() })
	return b
}

func TestBackendLifecycle(t *testing.T) {
	b := NewBackend()

	_, err := b.GetTable(types.TableUsers)
	assert.ErrorIs(t, err, types.ErrBackendDetached)

	require.NoError(t, b.Attach(types.Config{Backend: types.BackendMemory}))
	assert.ErrorIs(t, b.Attach(types.Config{Backend: types.BackendMemory}), types.ErrAlreadyAttached)

	_, err = b.GetTable("widgets")
	assert.ErrorIs(t, err, types.ErrTableNotFound)

	require.NoError(t, b.Detach())
	require.NoError(t, b.Detach())
	_, err = b.GetTable(types.TableUsers)
	assert.ErrorIs(t, err, types.ErrBackendDetached)
}

func TestTableCRUD(t *testing.T) {
	ctx := context.Background()
	b := attached(t)
	tbl, err := b.GetTable(types.TableProjects)
	require.NoError(t, err)

	id, err := tbl.Set(ctx, "", &types.Project{Title: "Client A", Status: types.ProjectActive})
	require.NoError(t, err)
	assert.NotEmpty(t, id)

	got, err := tbl.Get(ctx, id)
	require.NoError(t, err)
	assert.Equal(t, "Client A", got.(*types.Project).Title)

	_, err = tbl.Set(ctx, id, &types.Project{Title: "Client A", Status: types.ProjectArchived})
	require.NoError(t, err)
	got, err = tbl.Get(ctx, id)
	require.NoError(t, err)
	assert.Equal(t, types.ProjectArchived, got.(*types.Project).Status)

	require.NoError(t, tbl.Delete(ctx, id))
	_, err = tbl.Get(ctx, id)
	assert.ErrorIs(t, err, types.ErrNotFound)
	assert.ErrorIs(t, tbl.Delete(ctx, id), types.ErrNotFound)

	stats := b.Stats(types.TableProjects)
	assert.Equal(t, Stats{Gets: 3, Sets: 2, Deletes: 2}, stats)
	assert.Equal(t, 4, stats.Mutations())
}

func TestTableSetKeepsExplicitEntityID(t *testing.T) {
	ctx := context.Background()
	b := attached(t)
	tbl, err := b.GetTable(types.TableUsers)
	require.NoError(t, err)

	id, err := tbl.Set(ctx, "", &types.User{ID: "699759380", TelegramID: "699759380", Name: "Owner", Role: types.RoleOwner})
	require.NoError(t, err)
	assert.Equal(t, "699759380", id)
}

func TestTableFetchFiltersAndOrders(t *testing.T) {
	ctx := context.Background()
	b := attached(t)
	tbl, err := b.GetTable(types.TableComments)
	require.NoError(t, err)

	base := time.Date(2024, 6, 1, 9, 0, 0, 0, time.UTC)
	for i, text := range []string{"third", "first", "second"} {
		offset := []time.Duration{3 * time.Minute, time.Minute, 2 * time.Minute}[i]
		_, err := tbl.Set(ctx, "", &types.Comment{TaskID: "t1", AuthorID: "u1", Text: text, CreatedAt: base.Add(offset)})
		require.NoError(t, err)
	}
	_, err = tbl.Set(ctx, "", &types.Comment{TaskID: "t2", AuthorID: "u1", Text: "other", CreatedAt: base})
	require.NoError(t, err)

	rows, err := tbl.Fetch(ctx, map[string]any{"task_id": "t1"})
	require.NoError(t, err)
	require.Len(t, rows, 3)
	var texts []string
	for _, r := range rows {
		texts = append(texts, r.(*types.Comment).Text)
	}
	assert.Equal(t, []string{"first", "second", "third"}, texts)

	all, err := tbl.Fetch(ctx, nil)
	require.NoError(t, err)
	assert.Len(t, all, 4)
}

func TestTableFetchRejectsBadFilter(t *testing.T) {
	ctx := context.Background()
	b := attached(t)
	tbl, err := b.GetTable(types.TableTasks)
	require.NoError(t, err)

	_, err = tbl.Fetch(ctx, map[string]any{"projectId": "p1"})
	assert.ErrorIs(t, err, types.ErrInvalidFilter)

	_, err = tbl.Fetch(ctx, map[string]any{"project_id": 7})
	assert.ErrorIs(t, err, types.ErrInvalidFilter)
}

func TestFailNext(t *testing.T) {
	ctx := context.Background()
	b := attached(t)
	tbl, err := b.GetTable(types.TableAccesses)
	require.NoError(t, err)

	boom := errors.New("connection reset")
	b.FailNext(types.TableAccesses, boom)

	_, err = tbl.Fetch(ctx, nil)
	assert.ErrorIs(t, err, boom)

	_, err = tbl.Fetch(ctx, nil)
	assert.NoError(t, err, "failure applies to one call only")
}

func TestFailFetchSkipsMutations(t *testing.T) {
	ctx := context.Background()
	b := attached(t)
	tbl, err := b.GetTable(types.TableComments)
	require.NoError(t, err)

	boom := errors.New("timeout")
	b.FailFetch(types.TableComments, boom)

	_, err = tbl.Set(ctx, "", &types.Comment{TaskID: "t1", AuthorID: "u1", Text: "hi", CreatedAt: time.Now()})
	require.NoError(t, err)
	_, err = tbl.Fetch(ctx, nil)
	assert.ErrorIs(t, err, boom)
	rows, err := tbl.Fetch(ctx, nil)
	require.NoError(t, err)
	assert.Len(t, rows, 1)
}

func TestSetRejectsWrongEntity(t *testing.T) {
	b := attached(t)
	tbl, err := b.GetTable(types.TableAccesses)
	require.NoError(t, err)

	_, err = tbl.Set(context.Background(), "", &types.User{Name: "x"})
	assert.ErrorIs(t, err, types.ErrInvalidData)
}
