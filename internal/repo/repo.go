// Package repo provides typed repositories over the generic tables of a
// types.Backend. Repositories validate entities, stamp creation times and
// keep child rows consistent; they do not authorize.
package repo

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/mesh-intelligence/taskdesk/internal/vault"
	"github.com/mesh-intelligence/taskdesk/pkg/types"
)

// ErrUserExists is returned when adding a user whose telegram id or row id
// is taken. It matches types.ErrAlreadyExists.
var ErrUserExists = fmt.Errorf("user already exists: %w", types.ErrAlreadyExists)

// Repos bundles the repositories of one backend.
type Repos struct {
	Users     *Users
	Projects  *Projects
	Tasks     *Tasks
	Assignees *Assignees
	Comments  *Comments
	Accesses  *Accesses
}

type options struct {
	sealer vault.Sealer
	now    func() time.Time
}

// Option configures New.
type Option func(*options)

// WithSealer seals access passwords before they are stored.
func WithSealer(s vault.Sealer) Option {
	return func(o *options) { o.sealer = s }
}

// WithClock overrides the clock used for created_at.
func WithClock(now func() time.Time) Option {
	return func(o *options) { o.now = now }
}

// New builds every repository over the backend's standard tables. The
// backend must be attached.
func New(b types.Backend, opts ...Option) (*Repos, error) {
	o := options{now: time.Now}
	for _, opt := range opts {
		opt(&o)
	}

	tables := make(map[string]types.Table, len(types.StandardTableNames))
	for _, name := range types.StandardTableNames {
		t, err := b.GetTable(name)
		if err != nil {
			return nil, fmt.Errorf("opening table %s: %w", name, err)
		}
		tables[name] = t
	}

	assignees := &Assignees{table: tables[types.TableAssignees], now: o.now}
	comments := &Comments{table: tables[types.TableComments], now: o.now}
	return &Repos{
		Users:     &Users{table: tables[types.TableUsers]},
		Projects:  &Projects{table: tables[types.TableProjects], now: o.now},
		Tasks:     &Tasks{table: tables[types.TableTasks], assignees: assignees, comments: comments, now: o.now},
		Assignees: assignees,
		Comments:  comments,
		Accesses:  &Accesses{table: tables[types.TableAccesses], sealer: o.sealer, now: o.now},
	}, nil
}

// ensureAbsent fails with types.ErrAlreadyExists when id is already stored.
// An empty id always passes: the table generates a fresh one.
func ensureAbsent(ctx context.Context, t types.Table, id string) error {
	if id == "" {
		return nil
	}
	_, err := t.Get(ctx, id)
	switch {
	case err == nil:
		return fmt.Errorf("%s: %w", id, types.ErrAlreadyExists)
	case errors.Is(err, types.ErrNotFound):
		return nil
	default:
		return err
	}
}

// collect converts table rows into values of T.
func collect[T any](rows []any) ([]T, error) {
	out := make([]T, 0, len(rows))
	for _, r := range rows {
		p, ok := r.(*T)
		if !ok {
			return nil, fmt.Errorf("unexpected row type %T: %w", r, types.ErrInvalidData)
		}
		out = append(out, *p)
	}
	return out, nil
}

// one converts a single table row into *T.
func one[T any](row any) (*T, error) {
	p, ok := row.(*T)
	if !ok {
		return nil, fmt.Errorf("unexpected row type %T: %w", row, types.ErrInvalidData)
	}
	return p, nil
}
