package store

import (
	"context"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/mesh-intelligence/taskdesk/internal/policy"
)

func TestEmployeeComments(t *testing.T) {
	ctx := context.Background()
	e := newEnv(t)
	e.login(t, employeeID)

	require.NoError(t, e.stores.Comments.Refresh(ctx, "t2"))
	require.Len(t, e.stores.Comments.Comments("t2"), 1)

	_, err := e.stores.Comments.Add(ctx, "t2", "Готово")
	require.NoError(t, err)

	comments := e.stores.Comments.Comments("t2")
	require.Len(t, comments, 2)
	assert.Equal(t, "Начал работу над рекламой", comments[0].Text)
	assert.Equal(t, "Готово", comments[1].Text)
	assert.Equal(t, employeeID, comments[1].AuthorID)
	assert.True(t, comments[0].CreatedAt.Before(comments[1].CreatedAt))
}

func TestAnonymousCannotComment(t *testing.T) {
	e := newEnv(t)

	_, err := e.stores.Comments.Add(context.Background(), "t2", "hi")
	require.Error(t, err)
	assert.ErrorIs(t, err, policy.ErrForbidden)
	assert.Equal(t, "Нет доступа", err.Error())
	assert.Equal(t, 0, e.mutations())
}
