package store

import (
	"context"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/mesh-intelligence/taskdesk/internal/policy"
	"github.com/mesh-intelligence/taskdesk/pkg/types"
)

func TestManagerAddsAccess(t *testing.T) {
	ctx := context.Background()
	e := newEnv(t)
	e.login(t, managerID)

	access := types.Access{ProjectID: "p1", URL: "https://ftp.clienta.com", Login: "ftp", Password: "s3cret", Comment: "FTP"}
	id, err := e.stores.Accesses.Add(ctx, access)
	require.NoError(t, err)

	assert.Equal(t, 1, e.backend.Stats(types.TableAccesses).Sets)
	assert.Equal(t, 1, e.backend.Stats(types.TableAccesses).Fetches)

	cached := e.stores.Accesses.ByProject("p1")
	require.Len(t, cached, 2)
	var found bool
	for _, a := range cached {
		if a.ID == id {
			found = true
			assert.Equal(t, "s3cret", a.Password)
		}
	}
	assert.True(t, found)
}

func TestEmployeeAccessOperationsRejected(t *testing.T) {
	ctx := context.Background()
	e := newEnv(t)
	e.login(t, employeeID)

	err := e.stores.Accesses.Refresh(ctx, "p1")
	assert.ErrorIs(t, err, policy.ErrForbidden)
	assert.Empty(t, e.stores.Accesses.Accesses())

	_, err = e.stores.Accesses.Add(ctx, types.Access{ProjectID: "p1"})
	assert.ErrorIs(t, err, policy.ErrForbidden)
	err = e.stores.Accesses.Update(ctx, types.Access{ID: "a1", ProjectID: "p1", Password: "pwned"})
	assert.ErrorIs(t, err, policy.ErrForbidden)
	err = e.stores.Accesses.Delete(ctx, "a1", "p1")
	assert.ErrorIs(t, err, policy.ErrForbidden)

	assert.Equal(t, 0, e.mutations())
	stats := e.backend.Stats(types.TableAccesses)
	assert.Equal(t, 0, stats.Fetches+stats.Gets, "denied before any read")
}

func TestManagerUpdatesAndDeletesAccess(t *testing.T) {
	ctx := context.Background()
	e := newEnv(t)
	e.login(t, ownerID)

	require.NoError(t, e.stores.Accesses.Refresh(ctx, "p2"))
	require.Len(t, e.stores.Accesses.Accesses(), 1)

	a := e.stores.Accesses.Accesses()[0]
	a.Password = "rotated"
	require.NoError(t, e.stores.Accesses.Update(ctx, a))
	assert.Equal(t, "rotated", e.stores.Accesses.ByProject("p2")[0].Password)

	require.NoError(t, e.stores.Accesses.Delete(ctx, a.ID, "p2"))
	assert.Empty(t, e.stores.Accesses.ByProject("p2"))

	err := e.stores.Accesses.Delete(ctx, a.ID, "p2")
	assert.ErrorIs(t, err, types.ErrNotFound)
}

func TestCachedAccessesHiddenAfterSessionChange(t *testing.T) {
	ctx := context.Background()
	e := newEnv(t)
	e.login(t, managerID)

	require.NoError(t, e.stores.Accesses.Refresh(ctx, "p1"))
	require.Len(t, e.stores.Accesses.ByProject("p1"), 1)

	e.login(t, employeeID)
	assert.Nil(t, e.stores.Accesses.Accesses())
	assert.Nil(t, e.stores.Accesses.ByProject("p1"))

	e.session.Logout()
	assert.Nil(t, e.stores.Accesses.Accesses())

	e.login(t, ownerID)
	require.Len(t, e.stores.Accesses.ByProject("p1"), 1)
	assert.Equal(t, "password123", e.stores.Accesses.ByProject("p1")[0].Password)
}
