package store

import (
	"context"
	"slices"
	"sync"

	"github.com/mesh-intelligence/taskdesk/internal/policy"
	"github.com/mesh-intelligence/taskdesk/internal/repo"
	"github.com/mesh-intelligence/taskdesk/pkg/types"
)

// CommentStore caches comments per task.
type CommentStore struct {
	guard
	repo *repo.Comments

	mu     sync.RWMutex
	byTask map[string][]types.Comment
}

// Refresh reloads the comments of a task.
func (s *CommentStore) Refresh(ctx context.Context, taskID string) error {
	comments, err := s.repo.List(ctx, taskID)
	if err != nil {
		return &LoadError{Collection: types.TableComments, Err: err}
	}
	s.mu.Lock()
	s.byTask[taskID] = comments
	s.mu.Unlock()
	return nil
}

// Comments returns a copy of the cached comments of a task, oldest first.
func (s *CommentStore) Comments(taskID string) []types.Comment {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return slices.Clone(s.byTask[taskID])
}

// Add posts a comment authored by the session user.
func (s *CommentStore) Add(ctx context.Context, taskID, text string) (string, error) {
	actor, err := s.authorize(policy.AddComment, policy.Resource{})
	if err != nil {
		return "", err
	}
	id, err := s.repo.Add(ctx, types.Comment{TaskID: taskID, AuthorID: actor.ID, Text: text})
	if err != nil {
		return "", err
	}
	s.done(policy.AddComment, actor, id)
	return id, s.Refresh(ctx, taskID)
}
