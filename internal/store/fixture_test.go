package store

import (
	"bytes"
	"context"
	"testing"
	"time"

	"github.com/stretchr/testify/require"

	"github.com/mesh-intelligence/taskdesk/internal/logging"
	"github.com/mesh-intelligence/taskdesk/internal/memory"
	"github.com/mesh-intelligence/taskdesk/internal/repo"
	"github.com/mesh-intelligence/taskdesk/internal/session"
	"github.com/mesh-intelligence/taskdesk/pkg/types"
)

const (
	ownerID    = "699759380"
	managerID  = "2"
	employeeID = "3"
)

type env struct {
	backend *memory.Backend
	repos   *repo.Repos
	session *session.Session
	stores  *Stores
	logs    *bytes.Buffer
}

// newEnv seeds a memory backend with the team, two projects, two tasks and
// two accesses, then builds stores with an empty session.
func newEnv(t *testing.T) *env {
	t.Helper()
	ctx := context.Background()

	b := memory.NewBackend()
	require.NoError(t, b.Attach(types.Config{Backend: types.BackendMemory}))
	t.Cleanup(func() { b.Detach() })

	now := time.Date(2024, 6, 1, 10, 0, 0, 0, time.UTC)
	r, err := repo.New(b, repo.WithClock(func() time.Time {
		now = now.Add(time.Second)
		return now
	}))
	require.NoError(t, err)

	for _, u := range []types.User{
		{TelegramID: ownerID, Name: "Владелец", Role: types.RoleOwner},
		{TelegramID: managerID, Name: "Менеджер", Role: types.RoleManager},
		{TelegramID: employeeID, Name: "Сотрудник", Role: types.RoleEmployee},
	} {
		_, err := r.Users.Add(ctx, u)
		require.NoError(t, err)
	}
	_, err = r.Projects.Add(ctx, types.Project{ID: "p1", Title: "Клиент А", Status: types.ProjectActive})
	require.NoError(t, err)
	_, err = r.Projects.Add(ctx, types.Project{ID: "p2", Title: "Клиент Б", Status: types.ProjectArchived})
	require.NoError(t, err)
	_, err = r.Tasks.Add(ctx, types.Task{ID: "t1", Title: "Сделать сайт", ProjectID: "p1", CreatorID: ownerID})
	require.NoError(t, err)
	_, err = r.Tasks.Add(ctx, types.Task{
		ID: "t2", Title: "Настроить рекламу", ProjectID: "p1", CreatorID: managerID,
		Status: types.TaskInProgress, Assignees: []string{employeeID},
	})
	require.NoError(t, err)
	_, err = r.Comments.Add(ctx, types.Comment{TaskID: "t2", AuthorID: employeeID, Text: "Начал работу над рекламой"})
	require.NoError(t, err)
	_, err = r.Accesses.Add(ctx, types.Access{ID: "a1", ProjectID: "p1", URL: "https://adminpanel.clienta.com", Login: "admin", Password: "password123"})
	require.NoError(t, err)
	_, err = r.Accesses.Add(ctx, types.Access{ID: "a2", ProjectID: "p2", URL: "https://hosting.clientb.com", Login: "clientb", Password: "securepass"})
	require.NoError(t, err)

	var logs bytes.Buffer
	logger, err := logging.NewWriter(&logs, "debug")
	require.NoError(t, err)

	sess := session.New(r.Users, logger)
	stores := New(r, sess, logger)
	require.NoError(t, stores.Users.Refresh(ctx))
	require.NoError(t, stores.Projects.Refresh(ctx))
	require.NoError(t, stores.Tasks.Refresh(ctx))

	b.ResetStats()
	return &env{backend: b, repos: r, session: sess, stores: stores, logs: &logs}
}

func (e *env) login(t *testing.T, identity string) {
	t.Helper()
	e.session.LoginByIdentity(context.Background(), identity)
	require.NotNil(t, e.session.User(), "login %s", identity)
}

// mutations counts Set and Delete calls on every table since the last reset.
func (e *env) mutations() int {
	n := 0
	for _, name := range types.StandardTableNames {
		n += e.backend.Stats(name).Mutations()
	}
	return n
}
