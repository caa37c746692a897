package repo

import (
	"context"
	"fmt"
	"time"

	"github.com/mesh-intelligence/taskdesk/pkg/types"
)

// Projects is the project repository.
type Projects struct {
	table types.Table
	now   func() time.Time
}

// List returns all projects in creation order.
func (r *Projects) List(ctx context.Context) ([]types.Project, error) {
	rows, err := r.table.Fetch(ctx, nil)
	if err != nil {
		return nil, fmt.Errorf("list projects: %w", err)
	}
	return collect[types.Project](rows)
}

// Get returns the project with the given id.
func (r *Projects) Get(ctx context.Context, id string) (*types.Project, error) {
	row, err := r.table.Get(ctx, id)
	if err != nil {
		return nil, fmt.Errorf("get project %s: %w", id, err)
	}
	return one[types.Project](row)
}

// Add stores a new project. An empty status becomes active; an id that is
// already stored yields types.ErrAlreadyExists.
func (r *Projects) Add(ctx context.Context, p types.Project) (string, error) {
	if p.Status == "" {
		p.Status = types.ProjectActive
	}
	if err := p.Validate(); err != nil {
		return "", err
	}
	if p.CreatedAt.IsZero() {
		p.CreatedAt = r.now()
	}
	if err := ensureAbsent(ctx, r.table, p.ID); err != nil {
		return "", fmt.Errorf("add project: %w", err)
	}
	id, err := r.table.Set(ctx, p.ID, &p)
	if err != nil {
		return "", fmt.Errorf("add project: %w", err)
	}
	return id, nil
}

// Update replaces the stored fields of an existing project. The creation
// time is kept.
func (r *Projects) Update(ctx context.Context, p types.Project) error {
	if err := p.Validate(); err != nil {
		return err
	}
	existing, err := r.Get(ctx, p.ID)
	if err != nil {
		return err
	}
	p.CreatedAt = existing.CreatedAt
	if _, err := r.table.Set(ctx, p.ID, &p); err != nil {
		return fmt.Errorf("update project %s: %w", p.ID, err)
	}
	return nil
}

// SetStatus archives or reactivates a project.
func (r *Projects) SetStatus(ctx context.Context, id string, status types.ProjectStatus) error {
	if !status.Valid() {
		return types.ErrInvalidProjectStatus
	}
	p, err := r.Get(ctx, id)
	if err != nil {
		return err
	}
	p.Status = status
	if _, err := r.table.Set(ctx, id, p); err != nil {
		return fmt.Errorf("set project status %s: %w", id, err)
	}
	return nil
}

// Delete removes a project. Tasks and accesses referencing it are left in
// place.
func (r *Projects) Delete(ctx context.Context, id string) error {
	if err := r.table.Delete(ctx, id); err != nil {
		return fmt.Errorf("delete project %s: %w", id, err)
	}
	return nil
}
