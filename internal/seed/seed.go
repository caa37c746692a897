// Package seed loads YAML fixtures straight through the repositories. It
// is the bootstrap path: no session exists yet, so nothing is authorized.
package seed

import (
	"bytes"
	"context"
	_ "embed"
	"errors"
	"fmt"
	"io"

	"gopkg.in/yaml.v3"

	"github.com/mesh-intelligence/taskdesk/internal/repo"
	"github.com/mesh-intelligence/taskdesk/pkg/types"
)

//go:embed demo.yaml
var demo []byte

// File is the fixture document.
type File struct {
	Users    []User    `yaml:"users"`
	Projects []Project `yaml:"projects"`
	Tasks    []Task    `yaml:"tasks"`
	Accesses []Access  `yaml:"accesses"`
}

type User struct {
	ID         string `yaml:"id"`
	TelegramID string `yaml:"telegram_id"`
	Name       string `yaml:"name"`
	Role       string `yaml:"role"`
}

type Project struct {
	ID          string `yaml:"id"`
	Title       string `yaml:"title"`
	Description string `yaml:"description"`
	Status      string `yaml:"status"`
}

type Task struct {
	ID          string    `yaml:"id"`
	Title       string    `yaml:"title"`
	Description string    `yaml:"description"`
	Deadline    string    `yaml:"deadline"`
	ProjectID   string    `yaml:"project_id"`
	CreatorID   string    `yaml:"creator_id"`
	Status      string    `yaml:"status"`
	Assignees   []string  `yaml:"assignees"`
	Comments    []Comment `yaml:"comments"`
}

type Comment struct {
	AuthorID string `yaml:"author_id"`
	Text     string `yaml:"text"`
}

type Access struct {
	ID        string `yaml:"id"`
	ProjectID string `yaml:"project_id"`
	URL       string `yaml:"url"`
	Login     string `yaml:"login"`
	Password  string `yaml:"password"`
	Comment   string `yaml:"comment"`
}

// Summary counts what Load wrote.
type Summary struct {
	Users    int
	Projects int
	Tasks    int
	Comments int
	Accesses int
}

// Parse decodes a fixture. Unknown keys are rejected.
func Parse(r io.Reader) (File, error) {
	var f File
	dec := yaml.NewDecoder(r)
	dec.KnownFields(true)
	if err := dec.Decode(&f); err != nil && !errors.Is(err, io.EOF) {
		return File{}, fmt.Errorf("parsing fixture: %w", err)
	}
	return f, nil
}

// Demo returns the built-in demo fixture.
func Demo() File {
	f, err := Parse(bytes.NewReader(demo))
	if err != nil {
		panic(err)
	}
	return f
}

// Load writes the fixture through the repositories. Users, projects and
// accesses that already exist are skipped; a task with an id replaces the
// stored task together with its assignees and comments.
func Load(ctx context.Context, r *repo.Repos, f File) (Summary, error) {
	var s Summary

	for _, u := range f.Users {
		_, err := r.Users.Add(ctx, types.User{ID: u.ID, TelegramID: u.TelegramID, Name: u.Name, Role: types.Role(u.Role)})
		if errors.Is(err, repo.ErrUserExists) {
			continue
		}
		if err != nil {
			return s, fmt.Errorf("user %s: %w", u.TelegramID, err)
		}
		s.Users++
	}

	for _, p := range f.Projects {
		_, err := r.Projects.Add(ctx, types.Project{
			ID: p.ID, Title: p.Title, Description: p.Description, Status: types.ProjectStatus(p.Status),
		})
		if errors.Is(err, types.ErrAlreadyExists) {
			continue
		}
		if err != nil {
			return s, fmt.Errorf("project %s: %w", p.Title, err)
		}
		s.Projects++
	}

	for _, t := range f.Tasks {
		if t.ID != "" {
			// Reloading a fixture must not duplicate child rows.
			if err := r.Tasks.Delete(ctx, t.ID); err != nil && !errors.Is(err, types.ErrNotFound) {
				return s, fmt.Errorf("task %s: %w", t.Title, err)
			}
		}
		id, err := r.Tasks.Add(ctx, types.Task{
			ID: t.ID, Title: t.Title, Description: t.Description, Deadline: t.Deadline,
			ProjectID: t.ProjectID, CreatorID: t.CreatorID, Status: types.TaskStatus(t.Status),
			Assignees: t.Assignees,
		})
		if err != nil {
			return s, fmt.Errorf("task %s: %w", t.Title, err)
		}
		s.Tasks++
		for _, c := range t.Comments {
			if _, err := r.Comments.Add(ctx, types.Comment{TaskID: id, AuthorID: c.AuthorID, Text: c.Text}); err != nil {
				return s, fmt.Errorf("comment on %s: %w", t.Title, err)
			}
			s.Comments++
		}
	}

	for _, a := range f.Accesses {
		_, err := r.Accesses.Add(ctx, types.Access{
			ID: a.ID, ProjectID: a.ProjectID, URL: a.URL, Login: a.Login, Password: a.Password, Comment: a.Comment,
		})
		if errors.Is(err, types.ErrAlreadyExists) {
			continue
		}
		if err != nil {
			return s, fmt.Errorf("access %s: %w", a.URL, err)
		}
		s.Accesses++
	}
	return s, nil
}
