package store

import (
	"context"
	"slices"
	"sync"

	"github.com/mesh-intelligence/taskdesk/internal/policy"
	"github.com/mesh-intelligence/taskdesk/internal/repo"
	"github.com/mesh-intelligence/taskdesk/pkg/types"
)

// ProjectStore caches the project list.
type ProjectStore struct {
	guard
	repo *repo.Projects

	mu       sync.RWMutex
	projects []types.Project
}

// Refresh reloads the project list. On failure the cache is kept.
func (s *ProjectStore) Refresh(ctx context.Context) error {
	projects, err := s.repo.List(ctx)
	if err != nil {
		return &LoadError{Collection: types.TableProjects, Err: err}
	}
	s.mu.Lock()
	s.projects = projects
	s.mu.Unlock()
	return nil
}

// Projects returns a copy of the cached projects.
func (s *ProjectStore) Projects() []types.Project {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return slices.Clone(s.projects)
}

// Active returns the cached projects with status active.
func (s *ProjectStore) Active() []types.Project {
	return s.withStatus(types.ProjectActive)
}

// Archived returns the cached projects with status archived.
func (s *ProjectStore) Archived() []types.Project {
	return s.withStatus(types.ProjectArchived)
}

func (s *ProjectStore) withStatus(status types.ProjectStatus) []types.Project {
	s.mu.RLock()
	defer s.mu.RUnlock()
	var out []types.Project
	for _, p := range s.projects {
		if p.Status == status {
			out = append(out, p)
		}
	}
	return out
}

// Add creates a project and returns its id.
func (s *ProjectStore) Add(ctx context.Context, p types.Project) (string, error) {
	actor, err := s.authorize(policy.CreateProject, policy.Resource{})
	if err != nil {
		return "", err
	}
	id, err := s.repo.Add(ctx, p)
	if err != nil {
		return "", err
	}
	s.done(policy.CreateProject, actor, id)
	return id, s.Refresh(ctx)
}

// Update replaces a project's fields.
func (s *ProjectStore) Update(ctx context.Context, p types.Project) error {
	actor, err := s.authorize(policy.UpdateProject, policy.Resource{})
	if err != nil {
		return err
	}
	if err := s.repo.Update(ctx, p); err != nil {
		return err
	}
	s.done(policy.UpdateProject, actor, p.ID)
	return s.Refresh(ctx)
}

// Archive moves a project to the archive.
func (s *ProjectStore) Archive(ctx context.Context, id string) error {
	return s.setStatus(ctx, id, types.ProjectArchived)
}

// Activate returns an archived project to the active list.
func (s *ProjectStore) Activate(ctx context.Context, id string) error {
	return s.setStatus(ctx, id, types.ProjectActive)
}

func (s *ProjectStore) setStatus(ctx context.Context, id string, status types.ProjectStatus) error {
	actor, err := s.authorize(policy.UpdateProject, policy.Resource{})
	if err != nil {
		return err
	}
	if err := s.repo.SetStatus(ctx, id, status); err != nil {
		return err
	}
	s.done(policy.UpdateProject, actor, id)
	return s.Refresh(ctx)
}

// Delete removes a project.
func (s *ProjectStore) Delete(ctx context.Context, id string) error {
	actor, err := s.authorize(policy.DeleteProject, policy.Resource{})
	if err != nil {
		return err
	}
	if err := s.repo.Delete(ctx, id); err != nil {
		return err
	}
	s.done(policy.DeleteProject, actor, id)
	return s.Refresh(ctx)
}
