// Package memory implements an in-process Backend. Rows live in maps and
// vanish on Detach. It serves ephemeral runs (backend: memory) and is the
// table double the store and repository tests run against: every table
// counts its calls and can be told to fail the next one.
package memory

import (
	"context"
	"fmt"
	"sort"
	"sync"

	"github.com/google/uuid"

	"github.com/mesh-intelligence/taskdesk/pkg/types"
)

// Stats counts the calls a table has served.
type Stats struct {
	Gets    int
	Sets    int
	Deletes int
	Fetches int
}

// Mutations returns the number of Set and Delete calls.
func (s Stats) Mutations() int {
	return s.Sets + s.Deletes
}

// Backend implements types.Backend with in-memory tables.
type Backend struct {
	mu       sync.RWMutex
	attached bool
	tables   map[string]*table
}

// NewBackend creates a detached memory backend.
func NewBackend() *Backend {
	return &Backend{tables: make(map[string]*table)}
}

// Attach creates an empty table for each standard table name.
func (b *Backend) Attach(config types.Config) error {
	b.mu.Lock()
	defer b.mu.Unlock()

	if b.attached {
		return types.ErrAlreadyAttached
	}
	if err := config.Validate(); err != nil {
		return err
	}
	for _, name := range types.StandardTableNames {
		schema, _ := types.SchemaFor(name)
		b.tables[name] = &table{
			name:    name,
			schema:  schema,
			backend: b,
			rows:    make(map[string]map[string]any),
		}
	}
	b.attached = true
	return nil
}

// Detach drops all rows. Idempotent.
func (b *Backend) Detach() error {
	b.mu.Lock()
	defer b.mu.Unlock()

	b.attached = false
	b.tables = make(map[string]*table)
	return nil
}

// GetTable returns the named table.
func (b *Backend) GetTable(name string) (types.Table, error) {
	b.mu.RLock()
	defer b.mu.RUnlock()

	if !b.attached {
		return nil, types.ErrBackendDetached
	}
	t, ok := b.tables[name]
	if !ok {
		return nil, types.ErrTableNotFound
	}
	return t, nil
}

// Stats returns the call counters of the named table.
func (b *Backend) Stats(name string) Stats {
	b.mu.RLock()
	defer b.mu.RUnlock()

	if t, ok := b.tables[name]; ok {
		return t.stats
	}
	return Stats{}
}

// ResetStats zeroes the call counters of every table.
func (b *Backend) ResetStats() {
	b.mu.Lock()
	defer b.mu.Unlock()

	for _, t := range b.tables {
		t.stats = Stats{}
	}
}

// FailNext makes the next call on the named table return err.
func (b *Backend) FailNext(name string, err error) {
	b.mu.Lock()
	defer b.mu.Unlock()

	if t, ok := b.tables[name]; ok {
		t.failNext = err
	}
}

// FailFetch makes the next Fetch on the named table return err, leaving
// other calls unaffected.
func (b *Backend) FailFetch(name string, err error) {
	b.mu.Lock()
	defer b.mu.Unlock()

	if t, ok := b.tables[name]; ok {
		t.failFetch = err
	}
}

// table implements types.Table over a map of column records.
type table struct {
	name      string
	schema    types.TableSchema
	backend   *Backend
	rows      map[string]map[string]any
	stats     Stats
	failNext  error
	failFetch error
}

// takeFailure returns and clears the injected failure. Caller holds the lock.
func (t *table) takeFailure() error {
	err := t.failNext
	t.failNext = nil
	return err
}

func (t *table) Get(ctx context.Context, id string) (any, error) {
	t.backend.mu.Lock()
	defer t.backend.mu.Unlock()

	t.stats.Gets++
	if err := t.takeFailure(); err != nil {
		return nil, err
	}
	if id == "" {
		return nil, types.ErrInvalidID
	}
	rec, ok := t.rows[id]
	if !ok {
		return nil, types.ErrNotFound
	}
	return types.FromRecord(t.name, rec)
}

func (t *table) Set(ctx context.Context, id string, data any) (string, error) {
	t.backend.mu.Lock()
	defer t.backend.mu.Unlock()

	t.stats.Sets++
	if err := t.takeFailure(); err != nil {
		return "", err
	}
	e, err := types.AsEntity(t.name, data)
	if err != nil {
		return "", err
	}
	if id == "" {
		id = e.EntityID()
	}
	if id == "" {
		id = uuid.Must(uuid.NewV7()).String()
	}
	e.SetEntityID(id)

	rec, err := types.ToRecord(t.name, e)
	if err != nil {
		return "", err
	}
	t.rows[id] = rec
	return id, nil
}

func (t *table) Delete(ctx context.Context, id string) error {
	t.backend.mu.Lock()
	defer t.backend.mu.Unlock()

	t.stats.Deletes++
	if err := t.takeFailure(); err != nil {
		return err
	}
	if id == "" {
		return types.ErrInvalidID
	}
	if _, ok := t.rows[id]; !ok {
		return types.ErrNotFound
	}
	delete(t.rows, id)
	return nil
}

func (t *table) Fetch(ctx context.Context, filter map[string]any) ([]any, error) {
	t.backend.mu.Lock()
	defer t.backend.mu.Unlock()

	t.stats.Fetches++
	if err := t.takeFailure(); err != nil {
		return nil, err
	}
	if err := t.failFetch; err != nil {
		t.failFetch = nil
		return nil, err
	}
	for col, v := range filter {
		if !t.schema.HasColumn(col) {
			return nil, fmt.Errorf("column %q: %w", col, types.ErrInvalidFilter)
		}
		if _, ok := v.(string); !ok {
			return nil, fmt.Errorf("column %q: %w", col, types.ErrInvalidFilter)
		}
	}

	var matched []map[string]any
	for _, rec := range t.rows {
		if matches(rec, filter) {
			matched = append(matched, rec)
		}
	}
	sort.Slice(matched, func(i, j int) bool {
		for _, col := range t.schema.OrderBy {
			a, b := matched[i][col].(string), matched[j][col].(string)
			if a != b {
				return a < b
			}
		}
		return false
	})

	out := make([]any, 0, len(matched))
	for _, rec := range matched {
		e, err := types.FromRecord(t.name, rec)
		if err != nil {
			return nil, err
		}
		out = append(out, e)
	}
	return out, nil
}

func matches(rec map[string]any, filter map[string]any) bool {
	for col, want := range filter {
		if rec[col] != want {
			return false
		}
	}
	return true
}
