package repo

import (
	"context"
	"fmt"
	"time"

	"github.com/mesh-intelligence/taskdesk/internal/vault"
	"github.com/mesh-intelligence/taskdesk/pkg/types"
)

// Accesses is the project credential repository. With a sealer configured,
// passwords are sealed on write and opened on read.
type Accesses struct {
	table  types.Table
	sealer vault.Sealer
	now    func() time.Time
}

// List returns the accesses of a project.
func (r *Accesses) List(ctx context.Context, projectID string) ([]types.Access, error) {
	rows, err := r.table.Fetch(ctx, map[string]any{"project_id": projectID})
	if err != nil {
		return nil, fmt.Errorf("list accesses: %w", err)
	}
	out, err := collect[types.Access](rows)
	if err != nil {
		return nil, err
	}
	for i := range out {
		if err := r.open(&out[i]); err != nil {
			return nil, err
		}
	}
	return out, nil
}

// Get returns the access with the given id.
func (r *Accesses) Get(ctx context.Context, id string) (*types.Access, error) {
	row, err := r.table.Get(ctx, id)
	if err != nil {
		return nil, fmt.Errorf("get access %s: %w", id, err)
	}
	a, err := one[types.Access](row)
	if err != nil {
		return nil, err
	}
	if err := r.open(a); err != nil {
		return nil, err
	}
	return a, nil
}

// Add stores a new access. An id that is already stored yields
// types.ErrAlreadyExists.
func (r *Accesses) Add(ctx context.Context, a types.Access) (string, error) {
	if err := a.Validate(); err != nil {
		return "", err
	}
	if a.CreatedAt.IsZero() {
		a.CreatedAt = r.now()
	}
	if err := ensureAbsent(ctx, r.table, a.ID); err != nil {
		return "", fmt.Errorf("add access: %w", err)
	}
	if err := r.seal(&a); err != nil {
		return "", err
	}
	id, err := r.table.Set(ctx, a.ID, &a)
	if err != nil {
		return "", fmt.Errorf("add access: %w", err)
	}
	return id, nil
}

// Update replaces an existing access, keeping its creation time.
func (r *Accesses) Update(ctx context.Context, a types.Access) error {
	if err := a.Validate(); err != nil {
		return err
	}
	row, err := r.table.Get(ctx, a.ID)
	if err != nil {
		return fmt.Errorf("update access %s: %w", a.ID, err)
	}
	existing, err := one[types.Access](row)
	if err != nil {
		return err
	}
	a.CreatedAt = existing.CreatedAt
	if err := r.seal(&a); err != nil {
		return err
	}
	if _, err := r.table.Set(ctx, a.ID, &a); err != nil {
		return fmt.Errorf("update access %s: %w", a.ID, err)
	}
	return nil
}

// Delete removes an access.
func (r *Accesses) Delete(ctx context.Context, id string) error {
	if err := r.table.Delete(ctx, id); err != nil {
		return fmt.Errorf("delete access %s: %w", id, err)
	}
	return nil
}

func (r *Accesses) seal(a *types.Access) error {
	if r.sealer == nil {
		return nil
	}
	sealed, err := r.sealer.Seal(a.Password)
	if err != nil {
		return fmt.Errorf("sealing access password: %w", err)
	}
	a.Password = sealed
	return nil
}

func (r *Accesses) open(a *types.Access) error {
	if r.sealer == nil {
		return nil
	}
	plain, err := r.sealer.Open(a.Password)
	if err != nil {
		return fmt.Errorf("opening access %s: %w", a.ID, err)
	}
	a.Password = plain
	return nil
}
