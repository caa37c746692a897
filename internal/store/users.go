package store

import (
	"context"
	"slices"
	"sync"

	"github.com/mesh-intelligence/taskdesk/internal/policy"
	"github.com/mesh-intelligence/taskdesk/internal/repo"
	"github.com/mesh-intelligence/taskdesk/pkg/types"
)

// UserStore caches the user list.
type UserStore struct {
	guard
	repo *repo.Users

	mu    sync.RWMutex
	users []types.User
}

// Refresh reloads the user list. On failure the cache is kept.
func (s *UserStore) Refresh(ctx context.Context) error {
	users, err := s.repo.List(ctx)
	if err != nil {
		return &LoadError{Collection: types.TableUsers, Err: err}
	}
	s.mu.Lock()
	s.users = users
	s.mu.Unlock()
	return nil
}

// Users returns a copy of the cached users.
func (s *UserStore) Users() []types.User {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return slices.Clone(s.users)
}

// AllowedTelegramIDs returns the telegram ids of every cached user.
func (s *UserStore) AllowedTelegramIDs() []string {
	s.mu.RLock()
	defer s.mu.RUnlock()
	ids := make([]string, len(s.users))
	for i, u := range s.users {
		ids[i] = u.TelegramID
	}
	return ids
}

// Add creates a user. Managers may add employees and managers; only the
// owner may add another owner.
func (s *UserStore) Add(ctx context.Context, u types.User) error {
	actor, err := s.authorize(policy.AddUser, policy.Resource{TargetRole: u.Role})
	if err != nil {
		return err
	}
	id, err := s.repo.Add(ctx, u)
	if err != nil {
		return err
	}
	s.done(policy.AddUser, actor, id)
	return s.Refresh(ctx)
}

// Remove deletes the user with the given telegram id and logs the session
// out if that was the current user.
func (s *UserStore) Remove(ctx context.Context, telegramID string) error {
	actor, err := s.authorize(policy.RemoveUser, policy.Resource{})
	if err != nil {
		return err
	}
	if err := s.repo.Remove(ctx, telegramID); err != nil {
		return err
	}
	s.done(policy.RemoveUser, actor, telegramID)
	s.session.ClearIf(telegramID)
	return s.Refresh(ctx)
}

// SetRole changes a user's role. The session of the affected user keeps
// its old role until it is refreshed.
func (s *UserStore) SetRole(ctx context.Context, telegramID string, role types.Role) error {
	actor, err := s.authorize(policy.SetRole, policy.Resource{TargetRole: role})
	if err != nil {
		return err
	}
	if err := s.repo.SetRole(ctx, telegramID, role); err != nil {
		return err
	}
	s.done(policy.SetRole, actor, telegramID)
	return s.Refresh(ctx)
}
