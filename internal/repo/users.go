package repo

import (
	"context"
	"errors"
	"fmt"

	"github.com/mesh-intelligence/taskdesk/pkg/types"
)

// Users is the user repository. Users are addressed by telegram id in
// every mutation.
type Users struct {
	table types.Table
}

// List returns all users ordered by name.
func (r *Users) List(ctx context.Context) ([]types.User, error) {
	rows, err := r.table.Fetch(ctx, nil)
	if err != nil {
		return nil, fmt.Errorf("list users: %w", err)
	}
	return collect[types.User](rows)
}

// Get returns the user with the given id.
func (r *Users) Get(ctx context.Context, id string) (*types.User, error) {
	row, err := r.table.Get(ctx, id)
	if err != nil {
		return nil, fmt.Errorf("get user %s: %w", id, err)
	}
	return one[types.User](row)
}

// FindByTelegramID returns the user with the given telegram id, or nil
// when there is none.
func (r *Users) FindByTelegramID(ctx context.Context, telegramID string) (*types.User, error) {
	if telegramID == "" {
		return nil, nil
	}
	rows, err := r.table.Fetch(ctx, map[string]any{"telegram_id": telegramID})
	if err != nil {
		return nil, fmt.Errorf("find user %s: %w", telegramID, err)
	}
	if len(rows) == 0 {
		return nil, nil
	}
	return one[types.User](rows[0])
}

// Add stores a new user. The id defaults to the telegram id. A taken
// telegram id or row id yields ErrUserExists.
func (r *Users) Add(ctx context.Context, u types.User) (string, error) {
	if err := u.Validate(); err != nil {
		return "", err
	}
	existing, err := r.FindByTelegramID(ctx, u.TelegramID)
	if err != nil {
		return "", err
	}
	if existing != nil {
		return "", ErrUserExists
	}
	if u.ID == "" {
		u.ID = u.TelegramID
	}
	if err := ensureAbsent(ctx, r.table, u.ID); err != nil {
		if errors.Is(err, types.ErrAlreadyExists) {
			return "", ErrUserExists
		}
		return "", fmt.Errorf("add user: %w", err)
	}
	id, err := r.table.Set(ctx, u.ID, &u)
	if err != nil {
		return "", fmt.Errorf("add user: %w", err)
	}
	return id, nil
}

// Remove deletes the user with the given telegram id.
func (r *Users) Remove(ctx context.Context, telegramID string) error {
	u, err := r.mustFind(ctx, telegramID)
	if err != nil {
		return err
	}
	if err := r.table.Delete(ctx, u.ID); err != nil {
		return fmt.Errorf("remove user %s: %w", telegramID, err)
	}
	return nil
}

// SetRole changes the role of the user with the given telegram id.
func (r *Users) SetRole(ctx context.Context, telegramID string, role types.Role) error {
	if !role.Valid() {
		return types.ErrInvalidRole
	}
	u, err := r.mustFind(ctx, telegramID)
	if err != nil {
		return err
	}
	u.Role = role
	if _, err := r.table.Set(ctx, u.ID, u); err != nil {
		return fmt.Errorf("set role %s: %w", telegramID, err)
	}
	return nil
}

func (r *Users) mustFind(ctx context.Context, telegramID string) (*types.User, error) {
	u, err := r.FindByTelegramID(ctx, telegramID)
	if err != nil {
		return nil, err
	}
	if u == nil {
		return nil, fmt.Errorf("user %s: %w", telegramID, types.ErrNotFound)
	}
	return u, nil
}
