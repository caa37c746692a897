package store

import (
	"context"
	"slices"
	"sync"

	"github.com/mesh-intelligence/taskdesk/internal/policy"
	"github.com/mesh-intelligence/taskdesk/internal/repo"
	"github.com/mesh-intelligence/taskdesk/pkg/types"
)

// TaskStore caches the hydrated task list.
type TaskStore struct {
	guard
	repo *repo.Tasks

	mu    sync.RWMutex
	tasks []types.Task
}

// Refresh reloads the task list. On failure the cache is kept.
func (s *TaskStore) Refresh(ctx context.Context) error {
	tasks, err := s.repo.List(ctx)
	if err != nil {
		return &LoadError{Collection: types.TableTasks, Err: err}
	}
	s.mu.Lock()
	s.tasks = tasks
	s.mu.Unlock()
	return nil
}

// Tasks returns a copy of the cached tasks.
func (s *TaskStore) Tasks() []types.Task {
	return s.filter(func(types.Task) bool { return true })
}

// ByProject returns the cached tasks of a project.
func (s *TaskStore) ByProject(projectID string) []types.Task {
	return s.filter(func(t types.Task) bool { return t.ProjectID == projectID })
}

// ByAssignee returns the cached tasks assigned to a user.
func (s *TaskStore) ByAssignee(userID string) []types.Task {
	return s.filter(func(t types.Task) bool { return t.HasAssignee(userID) })
}

// Get returns the cached task with the given id, or nil.
func (s *TaskStore) Get(id string) *types.Task {
	found := s.filter(func(t types.Task) bool { return t.ID == id })
	if len(found) == 0 {
		return nil
	}
	return &found[0]
}

func (s *TaskStore) filter(keep func(types.Task) bool) []types.Task {
	s.mu.RLock()
	defer s.mu.RUnlock()
	out := []types.Task{}
	for _, t := range s.tasks {
		if keep(t) {
			out = append(out, cloneTask(t))
		}
	}
	return out
}

func cloneTask(t types.Task) types.Task {
	t.Assignees = slices.Clone(t.Assignees)
	t.Comments = slices.Clone(t.Comments)
	return t
}

// Add creates a task authored by the session user and returns its id.
func (s *TaskStore) Add(ctx context.Context, t types.Task) (string, error) {
	actor, err := s.authorize(policy.CreateTask, policy.Resource{})
	if err != nil {
		return "", err
	}
	t.CreatorID = actor.ID
	id, err := s.repo.Add(ctx, t)
	if err != nil {
		return "", err
	}
	s.done(policy.CreateTask, actor, id)
	return id, s.Refresh(ctx)
}

// Update replaces a task's fields. Allowed to managers and to the task's
// creator.
func (s *TaskStore) Update(ctx context.Context, t types.Task) error {
	actor, _, err := s.check(ctx, policy.UpdateTask, t.ID)
	if err != nil {
		return err
	}
	if err := s.repo.Update(ctx, t); err != nil {
		return err
	}
	s.done(policy.UpdateTask, actor, t.ID)
	return s.Refresh(ctx)
}

// ChangeStatus moves a task to another status. It is an update and follows
// the same rule.
func (s *TaskStore) ChangeStatus(ctx context.Context, id string, status types.TaskStatus) error {
	if !status.Valid() {
		return types.ErrInvalidStatus
	}
	actor, current, err := s.check(ctx, policy.UpdateTask, id)
	if err != nil {
		return err
	}
	current.Status = status
	if err := s.repo.Update(ctx, *current); err != nil {
		return err
	}
	s.done(policy.UpdateTask, actor, id)
	return s.Refresh(ctx)
}

// Delete removes a task with its assignees and comments. Allowed to
// managers and to the task's creator.
func (s *TaskStore) Delete(ctx context.Context, id string) error {
	actor, _, err := s.check(ctx, policy.DeleteTask, id)
	if err != nil {
		return err
	}
	if err := s.repo.Delete(ctx, id); err != nil {
		return err
	}
	s.done(policy.DeleteTask, actor, id)
	return s.Refresh(ctx)
}

// check loads the stored task and authorizes action against it.
func (s *TaskStore) check(ctx context.Context, action policy.Action, id string) (*types.User, *types.Task, error) {
	if err := s.requireUser(action); err != nil {
		return nil, nil, err
	}
	current, err := s.repo.Get(ctx, id)
	if err != nil {
		return nil, nil, err
	}
	actor, err := s.authorize(action, policy.Resource{Task: current})
	if err != nil {
		return nil, nil, err
	}
	return actor, current, nil
}
