package store

import (
	"context"
	"slices"
	"sync"

	"github.com/mesh-intelligence/taskdesk/internal/policy"
	"github.com/mesh-intelligence/taskdesk/internal/repo"
	"github.com/mesh-intelligence/taskdesk/pkg/types"
)

// AccessStore caches the accesses of the most recently loaded project.
// Every operation, listing included, is reserved to managers.
type AccessStore struct {
	guard
	repo *repo.Accesses

	mu        sync.RWMutex
	projectID string
	accesses  []types.Access
}

// Refresh loads the accesses of a project.
func (s *AccessStore) Refresh(ctx context.Context, projectID string) error {
	if _, err := s.authorize(policy.ListAccesses, policy.Resource{}); err != nil {
		return err
	}
	return s.load(ctx, projectID)
}

func (s *AccessStore) load(ctx context.Context, projectID string) error {
	accesses, err := s.repo.List(ctx, projectID)
	if err != nil {
		return &LoadError{Collection: types.TableAccesses, Err: err}
	}
	s.mu.Lock()
	s.projectID = projectID
	s.accesses = accesses
	s.mu.Unlock()
	return nil
}

// Accesses returns a copy of the cached accesses. It returns nil unless the
// session user may list accesses.
func (s *AccessStore) Accesses() []types.Access {
	if !s.mayRead() {
		return nil
	}
	s.mu.RLock()
	defer s.mu.RUnlock()
	return slices.Clone(s.accesses)
}

// ByProject returns the cached accesses of a project, under the same rule
// as Accesses.
func (s *AccessStore) ByProject(projectID string) []types.Access {
	if !s.mayRead() {
		return nil
	}
	s.mu.RLock()
	defer s.mu.RUnlock()
	var out []types.Access
	for _, a := range s.accesses {
		if a.ProjectID == projectID {
			out = append(out, a)
		}
	}
	return out
}

// mayRead checks the cache against the current session user, who may
// differ from the one that loaded it.
func (s *AccessStore) mayRead() bool {
	return policy.CanPerform(policy.ListAccesses, s.session.User(), policy.Resource{})
}

// Add creates an access and reloads its project's accesses.
func (s *AccessStore) Add(ctx context.Context, a types.Access) (string, error) {
	actor, err := s.authorize(policy.CreateAccess, policy.Resource{})
	if err != nil {
		return "", err
	}
	id, err := s.repo.Add(ctx, a)
	if err != nil {
		return "", err
	}
	s.done(policy.CreateAccess, actor, id)
	return id, s.load(ctx, a.ProjectID)
}

// Update replaces an access and reloads its project's accesses.
func (s *AccessStore) Update(ctx context.Context, a types.Access) error {
	actor, err := s.authorize(policy.UpdateAccess, policy.Resource{})
	if err != nil {
		return err
	}
	if err := s.repo.Update(ctx, a); err != nil {
		return err
	}
	s.done(policy.UpdateAccess, actor, a.ID)
	return s.load(ctx, a.ProjectID)
}

// Delete removes an access and reloads the accesses of projectID.
func (s *AccessStore) Delete(ctx context.Context, id, projectID string) error {
	actor, err := s.authorize(policy.DeleteAccess, policy.Resource{})
	if err != nil {
		return err
	}
	if err := s.repo.Delete(ctx, id); err != nil {
		return err
	}
	s.done(policy.DeleteAccess, actor, id)
	return s.load(ctx, projectID)
}
