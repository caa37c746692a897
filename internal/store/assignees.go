package store

import (
	"context"
	"slices"
	"sync"

	"github.com/mesh-intelligence/taskdesk/internal/policy"
	"github.com/mesh-intelligence/taskdesk/internal/repo"
	"github.com/mesh-intelligence/taskdesk/pkg/types"
)

// AssigneeStore caches assignee ids per task.
type AssigneeStore struct {
	guard
	repo  *repo.Assignees
	tasks *repo.Tasks

	mu     sync.RWMutex
	byTask map[string][]string
}

// Refresh reloads the assignees of a task.
func (s *AssigneeStore) Refresh(ctx context.Context, taskID string) error {
	ids, err := s.repo.List(ctx, taskID)
	if err != nil {
		return &LoadError{Collection: types.TableAssignees, Err: err}
	}
	s.mu.Lock()
	s.byTask[taskID] = ids
	s.mu.Unlock()
	return nil
}

// Assignees returns a copy of the cached assignee ids of a task.
func (s *AssigneeStore) Assignees(taskID string) []string {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return slices.Clone(s.byTask[taskID])
}

// Add assigns a user to a task. A duplicate or a fourth assignee is a
// no-op reported by the false result.
func (s *AssigneeStore) Add(ctx context.Context, taskID, userID string) (bool, error) {
	actor, err := s.check(ctx, taskID)
	if err != nil {
		return false, err
	}
	added, err := s.repo.Add(ctx, taskID, userID)
	if err != nil {
		return false, err
	}
	if added {
		s.done(policy.AssignTask, actor, taskID)
	}
	return added, s.Refresh(ctx, taskID)
}

// Remove unassigns a user from a task.
func (s *AssigneeStore) Remove(ctx context.Context, taskID, userID string) error {
	actor, err := s.check(ctx, taskID)
	if err != nil {
		return err
	}
	if err := s.repo.Remove(ctx, taskID, userID); err != nil {
		return err
	}
	s.done(policy.AssignTask, actor, taskID)
	return s.Refresh(ctx, taskID)
}

func (s *AssigneeStore) check(ctx context.Context, taskID string) (*types.User, error) {
	if err := s.requireUser(policy.AssignTask); err != nil {
		return nil, err
	}
	task, err := s.tasks.Get(ctx, taskID)
	if err != nil {
		return nil, err
	}
	return s.authorize(policy.AssignTask, policy.Resource{Task: task})
}
