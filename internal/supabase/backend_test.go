package supabase

import (
	"context"
	"encoding/json"
	"errors"
	"io"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/mesh-intelligence/taskdesk/pkg/types"
)

func newTestBackend(t *testing.T, handler http.HandlerFunc) *Backend {
	t.Helper()
	srv := httptest.NewServer(handler)
	t.Cleanup(srv.Close)

	b := NewBackend()
	require.NoError(t, b.Attach(types.Config{
		Backend:  types.BackendSupabase,
		Supabase: types.SupabaseConfig{URL: srv.URL + "/", APIKey: "anon-key"},
	}))
	t.Cleanup(func() { b.Detach() })
	return b
}

func tableOf(t *testing.T, b *Backend, name string) types.Table {
	t.Helper()
	tbl, err := b.GetTable(name)
	require.NoError(t, err)
	return tbl
}

func TestAttachValidatesConfig(t *testing.T) {
	b := NewBackend()
	err := b.Attach(types.Config{Backend: types.BackendSupabase})
	assert.ErrorIs(t, err, types.ErrSupabaseURLEmpty)

	_, err = b.GetTable(types.TableUsers)
	assert.ErrorIs(t, err, types.ErrBackendDetached)
}

func TestGet(t *testing.T) {
	b := newTestBackend(t, func(w http.ResponseWriter, r *http.Request) {
		assert.Equal(t, http.MethodGet, r.Method)
		assert.Equal(t, "/rest/v1/users", r.URL.Path)
		assert.Equal(t, "eq.u1", r.URL.Query().Get("id"))
		assert.Equal(t, "id,telegram_id,name,role", r.URL.Query().Get("select"))
		assert.Equal(t, "anon-key", r.Header.Get("apikey"))
		assert.Equal(t, "Bearer anon-key", r.Header.Get("Authorization"))
		io.WriteString(w, `[{"id":"u1","telegram_id":699759380,"name":"Ann","role":"owner","extra":null}]`)
	})

	got, err := tableOf(t, b, types.TableUsers).Get(context.Background(), "u1")
	require.NoError(t, err)
	assert.Equal(t, &types.User{ID: "u1", TelegramID: "699759380", Name: "Ann", Role: types.RoleOwner}, got)
}

func TestGetNotFound(t *testing.T) {
	b := newTestBackend(t, func(w http.ResponseWriter, r *http.Request) {
		io.WriteString(w, `[]`)
	})

	_, err := tableOf(t, b, types.TableProjects).Get(context.Background(), "missing")
	assert.ErrorIs(t, err, types.ErrNotFound)
}

func TestSetUpserts(t *testing.T) {
	var body map[string]any
	b := newTestBackend(t, func(w http.ResponseWriter, r *http.Request) {
		assert.Equal(t, http.MethodPost, r.Method)
		assert.Equal(t, "id", r.URL.Query().Get("on_conflict"))
		assert.Equal(t, "resolution=merge-duplicates,return=representation", r.Header.Get("Prefer"))
		assert.NoError(t, json.NewDecoder(r.Body).Decode(&body))
		w.WriteHeader(http.StatusCreated)
		io.WriteString(w, `[]`)
	})

	created := time.Date(2024, 6, 1, 10, 0, 0, 0, time.UTC)
	id, err := tableOf(t, b, types.TableAccesses).Set(context.Background(), "", &types.Access{
		ProjectID: "p1", URL: "https://panel", Login: "admin", Password: "pw", CreatedAt: created,
	})
	require.NoError(t, err)
	assert.NotEmpty(t, id)
	assert.Equal(t, id, body["id"])
	assert.Equal(t, "p1", body["project_id"])
	assert.Equal(t, "2024-06-01T10:00:00.000000000Z", body["created_at"])
}

func TestDelete(t *testing.T) {
	b := newTestBackend(t, func(w http.ResponseWriter, r *http.Request) {
		assert.Equal(t, http.MethodDelete, r.Method)
		if r.URL.Query().Get("id") == "eq.t1" {
			io.WriteString(w, `[{"id":"t1"}]`)
			return
		}
		io.WriteString(w, `[]`)
	})
	tbl := tableOf(t, b, types.TableTasks)

	assert.NoError(t, tbl.Delete(context.Background(), "t1"))
	assert.ErrorIs(t, tbl.Delete(context.Background(), "t2"), types.ErrNotFound)
	assert.ErrorIs(t, tbl.Delete(context.Background(), ""), types.ErrInvalidID)
}

func TestFetch(t *testing.T) {
	b := newTestBackend(t, func(w http.ResponseWriter, r *http.Request) {
		assert.Equal(t, "eq.t1", r.URL.Query().Get("task_id"))
		assert.Equal(t, "created_at.asc,id.asc", r.URL.Query().Get("order"))
		io.WriteString(w, `[
			{"id":"c1","task_id":"t1","author_id":"u1","text":"first","created_at":"2024-06-01T10:00:00+00:00"},
			{"id":"c2","task_id":"t1","author_id":"u2","text":"second","created_at":"2024-06-01T11:00:00+00:00"}
		]`)
	})
	tbl := tableOf(t, b, types.TableComments)

	rows, err := tbl.Fetch(context.Background(), map[string]any{"task_id": "t1"})
	require.NoError(t, err)
	require.Len(t, rows, 2)
	assert.Equal(t, "first", rows[0].(*types.Comment).Text)
	assert.Equal(t, "u2", rows[1].(*types.Comment).AuthorID)

	_, err = tbl.Fetch(context.Background(), map[string]any{"body": "x"})
	assert.ErrorIs(t, err, types.ErrInvalidFilter)
}

func TestAPIErrorSurfacesMessage(t *testing.T) {
	b := newTestBackend(t, func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusConflict)
		io.WriteString(w, `{"code":"23505","message":"duplicate key value violates unique constraint","details":null}`)
	})

	_, err := tableOf(t, b, types.TableUsers).Set(context.Background(), "u1", &types.User{TelegramID: "1", Name: "A", Role: types.RoleEmployee})
	require.Error(t, err)

	var apiErr *APIError
	require.True(t, errors.As(err, &apiErr))
	assert.Equal(t, http.StatusConflict, apiErr.StatusCode)
	assert.Equal(t, "23505", apiErr.Code)
	assert.Contains(t, err.Error(), "duplicate key value")
}

func TestAPIErrorWithoutBody(t *testing.T) {
	resp := &Response{StatusCode: http.StatusBadGateway, Body: []byte("<html>")}
	err := resp.Error()
	require.Error(t, err)
	assert.Contains(t, err.Error(), "Bad Gateway")

	assert.NoError(t, (&Response{StatusCode: http.StatusOK}).Error())
}

func TestTimeout(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		select {
		case <-time.After(time.Second):
		case <-r.Context().Done():
		}
	}))
	defer srv.Close()

	b := NewBackend()
	require.NoError(t, b.Attach(types.Config{
		Backend:  types.BackendSupabase,
		Supabase: types.SupabaseConfig{URL: srv.URL, APIKey: "k", Timeout: 50 * time.Millisecond},
	}))
	defer b.Detach()

	_, err := tableOf(t, b, types.TableUsers).Fetch(context.Background(), nil)
	assert.Error(t, err)
}

func TestRateLimitHonoursContext(t *testing.T) {
	c, err := NewClient(ClientConfig{URL: "http://127.0.0.1:1", APIKey: "k", RateLimit: 0.001})
	require.NoError(t, err)

	// Drain the single burst token so the next request must wait.
	require.True(t, c.limiter.Allow())

	ctx, cancel := context.WithTimeout(context.Background(), 10*time.Millisecond)
	defer cancel()
	_, err = c.From("users").Execute(ctx)
	require.Error(t, err)
	assert.Contains(t, err.Error(), "rate limit")
}
