// Package sqlite implements the local storage backend: SQLite is the query
// engine and one JSONL file per table in the data directory is the source of
// truth. Attach rebuilds the database from the JSONL files; every mutation
// rewrites the affected table's file atomically.
//
// This is the backend used when no remote table store is configured. The
// user collection lives under the fixed key "users" (users.jsonl).
package sqlite

import (
	"database/sql"
	"fmt"
	"os"
	"path/filepath"
	"sync"

	_ "modernc.org/sqlite"

	"github.com/mesh-intelligence/taskdesk/pkg/types"
)

// dbFileName is the SQLite file created inside the data directory.
const dbFileName = "taskdesk.db"

// Backend implements types.Backend on SQLite plus JSONL files.
type Backend struct {
	mu       sync.RWMutex
	attached bool
	config   types.Config
	dataDir  string
	db       *sql.DB
	tables   map[string]*table
}

// NewBackend creates a new SQLite backend instance.
// The backend is not attached; call Attach with a Config to initialize.
func NewBackend() *Backend {
	return &Backend{
		tables: make(map[string]*table),
	}
}

// GetTable returns the Table for the specified table name.
// Returns ErrTableNotFound if the table name is not recognized.
// Returns ErrBackendDetached if the backend is not attached.
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

// Attach initializes the backend with the given configuration.
// Creates DataDir if it does not exist, recreates the SQLite database,
// creates missing JSONL files and loads every JSONL file into SQLite.
// Returns ErrAlreadyAttached if already attached.
func (b *Backend) Attach(config types.Config) error {
	b.mu.Lock()
	defer b.mu.Unlock()

	if b.attached {
		return types.ErrAlreadyAttached
	}

	if err := config.Validate(); err != nil {
		return err
	}

	dataDir := config.DataDir
	if dataDir == "" {
		dataDir = "."
	}
	if err := os.MkdirAll(dataDir, 0o755); err != nil {
		return fmt.Errorf("creating data dir: %w", err)
	}

	// The database is a disposable index over the JSONL files.
	dbPath := filepath.Join(dataDir, dbFileName)
	_ = os.Remove(dbPath)

	db, err := sql.Open("sqlite", dbPath)
	if err != nil {
		return fmt.Errorf("opening database: %w", err)
	}
	db.SetMaxOpenConns(1)

	if err := createSchema(db); err != nil {
		db.Close()
		return err
	}

	if err := initJSONLFiles(dataDir); err != nil {
		db.Close()
		return err
	}

	if err := loadAllJSONL(db, dataDir); err != nil {
		db.Close()
		return fmt.Errorf("load JSONL: %w", err)
	}

	b.db = db
	b.config = config
	b.dataDir = dataDir
	b.attached = true

	for _, name := range types.StandardTableNames {
		b.tables[name] = newTable(b, name)
	}

	return nil
}

// Detach closes the SQLite connection. After Detach, GetTable returns
// ErrBackendDetached. Detach is idempotent. JSONL files are always current,
// so there is nothing to flush.
func (b *Backend) Detach() error {
	b.mu.Lock()
	defer b.mu.Unlock()

	if !b.attached {
		return nil
	}

	if b.db != nil {
		if err := b.db.Close(); err != nil {
			return err
		}
		b.db = nil
	}

	b.attached = false
	b.tables = make(map[string]*table)

	return nil
}
