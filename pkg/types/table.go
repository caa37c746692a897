package types

import (
	"context"
	"errors"
)

// Table provides uniform CRUD operations for a single entity table.
// Get and Fetch return any; callers type-assert to the concrete entity
// pointer (*User, *Project, *Task, *Assignee, *Comment, *Access).
type Table interface {
	// Get retrieves the entity with the given ID.
	// Returns ErrNotFound if no entity exists with that ID.
	Get(ctx context.Context, id string) (any, error)

	// Set creates or updates an entity. When both id and the entity's own
	// ID are empty a new UUID v7 is generated and the row is inserted;
	// otherwise the row with that ID is upserted. Returns the ID used.
	Set(ctx context.Context, id string, data any) (string, error)

	// Delete removes the entity with the given ID.
	// Returns ErrNotFound if no entity exists with that ID.
	Delete(ctx context.Context, id string) error

	// Fetch returns all entities whose columns equal the filter values,
	// in the table's default order. An empty filter returns every row.
	// Filter keys must be column names and values must be strings.
	Fetch(ctx context.Context, filter map[string]any) ([]any, error)
}

// Table operation errors.
var (
	ErrNotFound      = errors.New("entity not found")
	ErrAlreadyExists = errors.New("entity already exists")
	ErrInvalidID     = errors.New("invalid entity ID")
	ErrInvalidData   = errors.New("invalid entity data")
	ErrInvalidFilter = errors.New("invalid filter")
)

// Entity validation errors.
var (
	ErrInvalidRole          = errors.New("invalid role")
	ErrInvalidStatus        = errors.New("invalid status")
	ErrInvalidProjectStatus = errors.New("invalid project status")
	ErrInvalidName          = errors.New("name must not be empty")
	ErrInvalidTitle         = errors.New("title must not be empty")
	ErrInvalidIdentity      = errors.New("telegram id must not be empty")
	ErrInvalidContent       = errors.New("comment text must not be empty")
	ErrInvalidReference     = errors.New("parent reference must not be empty")
)
