package repo

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/mesh-intelligence/taskdesk/pkg/types"
)

// Tasks is the task repository. Tasks it returns are hydrated with their
// assignees and comments.
type Tasks struct {
	table     types.Table
	assignees *Assignees
	comments  *Comments
	now       func() time.Time
}

// List returns all tasks in creation order.
func (r *Tasks) List(ctx context.Context) ([]types.Task, error) {
	rows, err := r.table.Fetch(ctx, nil)
	if err != nil {
		return nil, fmt.Errorf("list tasks: %w", err)
	}
	tasks, err := collect[types.Task](rows)
	if err != nil {
		return nil, err
	}

	links, err := r.assignees.all(ctx)
	if err != nil {
		return nil, err
	}
	notes, err := r.comments.all(ctx)
	if err != nil {
		return nil, err
	}
	byTask := make(map[string][]string)
	for _, a := range links {
		byTask[a.TaskID] = append(byTask[a.TaskID], a.UserID)
	}
	commentsByTask := make(map[string][]types.Comment)
	for _, c := range notes {
		commentsByTask[c.TaskID] = append(commentsByTask[c.TaskID], c)
	}
	for i := range tasks {
		tasks[i].Assignees = byTask[tasks[i].ID]
		tasks[i].Comments = commentsByTask[tasks[i].ID]
	}
	return tasks, nil
}

// Get returns the task with the given id.
func (r *Tasks) Get(ctx context.Context, id string) (*types.Task, error) {
	row, err := r.table.Get(ctx, id)
	if err != nil {
		return nil, fmt.Errorf("get task %s: %w", id, err)
	}
	t, err := one[types.Task](row)
	if err != nil {
		return nil, err
	}
	if t.Assignees, err = r.assignees.List(ctx, id); err != nil {
		return nil, err
	}
	if t.Comments, err = r.comments.List(ctx, id); err != nil {
		return nil, err
	}
	return t, nil
}

// Add stores a new task and its initial assignees. An empty status becomes
// new. At most MaxAssignees distinct assignees are kept. An id that is
// already stored yields types.ErrAlreadyExists. When an assignee cannot be
// written the task row and its assignees are removed again.
func (r *Tasks) Add(ctx context.Context, t types.Task) (string, error) {
	if t.Status == "" {
		t.Status = types.TaskNew
	}
	if err := t.Validate(); err != nil {
		return "", err
	}
	if t.CreatedAt.IsZero() {
		t.CreatedAt = r.now()
	}
	if err := ensureAbsent(ctx, r.table, t.ID); err != nil {
		return "", fmt.Errorf("add task: %w", err)
	}
	initial := t.Assignees
	t.Assignees, t.Comments = nil, nil

	id, err := r.table.Set(ctx, t.ID, &t)
	if err != nil {
		return "", fmt.Errorf("add task: %w", err)
	}
	for _, userID := range initial {
		if _, err := r.assignees.Add(ctx, id, userID); err != nil {
			if rerr := r.Delete(ctx, id); rerr != nil {
				return "", errors.Join(err, fmt.Errorf("rolling back task %s: %w", id, rerr))
			}
			return "", err
		}
	}
	return id, nil
}

// Update replaces the stored fields of an existing task. Creator and
// creation time are kept; assignees and comments are managed through
// their own repositories.
func (r *Tasks) Update(ctx context.Context, t types.Task) error {
	if err := t.Validate(); err != nil {
		return err
	}
	row, err := r.table.Get(ctx, t.ID)
	if err != nil {
		return fmt.Errorf("update task %s: %w", t.ID, err)
	}
	existing, err := one[types.Task](row)
	if err != nil {
		return err
	}
	t.CreatorID = existing.CreatorID
	t.CreatedAt = existing.CreatedAt
	t.Assignees, t.Comments = nil, nil
	if _, err := r.table.Set(ctx, t.ID, &t); err != nil {
		return fmt.Errorf("update task %s: %w", t.ID, err)
	}
	return nil
}

// Delete removes a task together with its assignee and comment rows.
// Children are removed before the task row.
func (r *Tasks) Delete(ctx context.Context, id string) error {
	if _, err := r.table.Get(ctx, id); err != nil {
		return fmt.Errorf("delete task %s: %w", id, err)
	}
	if err := r.assignees.removeTask(ctx, id); err != nil {
		return err
	}
	if err := r.comments.removeTask(ctx, id); err != nil {
		return err
	}
	if err := r.table.Delete(ctx, id); err != nil {
		return fmt.Errorf("delete task %s: %w", id, err)
	}
	return nil
}
