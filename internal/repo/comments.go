package repo

import (
	"context"
	"fmt"
	"time"

	"github.com/mesh-intelligence/taskdesk/pkg/types"
)

// Comments is the comment repository.
type Comments struct {
	table types.Table
	now   func() time.Time
}

// List returns the comments of a task, oldest first.
func (r *Comments) List(ctx context.Context, taskID string) ([]types.Comment, error) {
	return r.fetch(ctx, map[string]any{"task_id": taskID})
}

// Add stores a comment stamped with the current time.
func (r *Comments) Add(ctx context.Context, c types.Comment) (string, error) {
	if err := c.Validate(); err != nil {
		return "", err
	}
	c.CreatedAt = r.now()
	id, err := r.table.Set(ctx, c.ID, &c)
	if err != nil {
		return "", fmt.Errorf("add comment: %w", err)
	}
	return id, nil
}

func (r *Comments) all(ctx context.Context) ([]types.Comment, error) {
	return r.fetch(ctx, nil)
}

func (r *Comments) removeTask(ctx context.Context, taskID string) error {
	comments, err := r.List(ctx, taskID)
	if err != nil {
		return err
	}
	for _, c := range comments {
		if err := r.table.Delete(ctx, c.ID); err != nil {
			return fmt.Errorf("delete comments of %s: %w", taskID, err)
		}
	}
	return nil
}

func (r *Comments) fetch(ctx context.Context, filter map[string]any) ([]types.Comment, error) {
	rows, err := r.table.Fetch(ctx, filter)
	if err != nil {
		return nil, fmt.Errorf("list comments: %w", err)
	}
	return collect[types.Comment](rows)
}
