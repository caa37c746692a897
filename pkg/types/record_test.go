package types

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestToRecordDropsHydratedFields(t *testing.T) {
	created := time.Date(2024, 6, 1, 10, 0, 0, 0, time.UTC)
	task := &Task{
		ID:        "t1",
		Title:     "Site",
		ProjectID: "p1",
		CreatorID: "u1",
		Status:    TaskNew,
		CreatedAt: created,
		Assignees: []string{"u2"},
		Comments:  []Comment{{ID: "c1", Text: "hi"}},
	}

	rec, err := ToRecord(TableTasks, task)
	require.NoError(t, err)

	assert.Len(t, rec, 8)
	assert.Equal(t, "p1", rec["project_id"])
	assert.Equal(t, "", rec["deadline"])
	assert.Equal(t, "2024-06-01T10:00:00.000000000Z", rec["created_at"])
	assert.NotContains(t, rec, "assignees")
	assert.NotContains(t, rec, "comments")

	back, err := FromRecord(TableTasks, rec)
	require.NoError(t, err)
	got := back.(*Task)
	assert.Equal(t, "t1", got.ID)
	assert.True(t, created.Equal(got.CreatedAt))
	assert.Nil(t, got.Assignees)
}

func TestToRecordTimestampsSortAsText(t *testing.T) {
	whole := &Comment{ID: "a", CreatedAt: time.Date(2024, 6, 1, 10, 0, 0, 0, time.UTC)}
	frac := &Comment{ID: "b", CreatedAt: time.Date(2024, 6, 1, 10, 0, 0, 100, time.UTC)}

	r1, err := ToRecord(TableComments, whole)
	require.NoError(t, err)
	r2, err := ToRecord(TableComments, frac)
	require.NoError(t, err)

	assert.Less(t, r1["created_at"].(string), r2["created_at"].(string))
}

func TestToRecordRejectsWrongEntity(t *testing.T) {
	_, err := ToRecord(TableUsers, &Project{Title: "x"})
	assert.ErrorIs(t, err, ErrInvalidData)

	var nilUser *User
	_, err = ToRecord(TableUsers, nilUser)
	assert.ErrorIs(t, err, ErrInvalidData)

	_, err = ToRecord("widgets", &User{})
	assert.ErrorIs(t, err, ErrTableNotFound)
}

func TestFromRecordIgnoresUnknownColumns(t *testing.T) {
	e, err := FromRecord(TableUsers, map[string]any{
		"id":          "699759380",
		"telegram_id": "699759380",
		"name":        "Owner",
		"role":        "owner",
		"avatar":      "https://example.com/a.png",
	})
	require.NoError(t, err)
	assert.Equal(t, &User{ID: "699759380", TelegramID: "699759380", Name: "Owner", Role: RoleOwner}, e)
}
