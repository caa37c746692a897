package repo

import (
	"context"
	"fmt"
	"time"

	"github.com/mesh-intelligence/taskdesk/pkg/types"
)

// Assignees stores which users work on which task.
type Assignees struct {
	table types.Table
	now   func() time.Time
}

// List returns the user ids assigned to a task in assignment order.
func (r *Assignees) List(ctx context.Context, taskID string) ([]string, error) {
	links, err := r.fetch(ctx, map[string]any{"task_id": taskID})
	if err != nil {
		return nil, err
	}
	ids := make([]string, 0, len(links))
	for _, a := range links {
		ids = append(ids, a.UserID)
	}
	return ids, nil
}

// Add assigns a user to a task. A duplicate or an assignment beyond
// MaxAssignees is a no-op; the result reports whether a row was written.
func (r *Assignees) Add(ctx context.Context, taskID, userID string) (bool, error) {
	if taskID == "" || userID == "" {
		return false, types.ErrInvalidReference
	}
	current, err := r.List(ctx, taskID)
	if err != nil {
		return false, err
	}
	task := types.Task{ID: taskID, Assignees: current}
	if !task.CanAssign(userID) {
		return false, nil
	}
	a := &types.Assignee{TaskID: taskID, UserID: userID, CreatedAt: r.now()}
	if _, err := r.table.Set(ctx, "", a); err != nil {
		return false, fmt.Errorf("assign %s to %s: %w", userID, taskID, err)
	}
	return true, nil
}

// Remove unassigns a user from a task. Removing a user who is not
// assigned is a no-op.
func (r *Assignees) Remove(ctx context.Context, taskID, userID string) error {
	links, err := r.fetch(ctx, map[string]any{"task_id": taskID})
	if err != nil {
		return err
	}
	task := types.Task{ID: taskID}
	for _, a := range links {
		task.Assignees = append(task.Assignees, a.UserID)
	}
	if !task.RemoveAssignee(userID) {
		return nil
	}
	for _, a := range links {
		if a.UserID != userID {
			continue
		}
		if err := r.table.Delete(ctx, a.ID); err != nil {
			return fmt.Errorf("unassign %s from %s: %w", userID, taskID, err)
		}
	}
	return nil
}

func (r *Assignees) all(ctx context.Context) ([]types.Assignee, error) {
	return r.fetch(ctx, nil)
}

func (r *Assignees) removeTask(ctx context.Context, taskID string) error {
	links, err := r.fetch(ctx, map[string]any{"task_id": taskID})
	if err != nil {
		return err
	}
	for _, a := range links {
		if err := r.table.Delete(ctx, a.ID); err != nil {
			return fmt.Errorf("delete assignees of %s: %w", taskID, err)
		}
	}
	return nil
}

func (r *Assignees) fetch(ctx context.Context, filter map[string]any) ([]types.Assignee, error) {
	rows, err := r.table.Fetch(ctx, filter)
	if err != nil {
		return nil, fmt.Errorf("list assignees: %w", err)
	}
	return collect[types.Assignee](rows)
}
