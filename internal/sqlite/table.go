package sqlite

import (
	"context"
	"database/sql"
	"encoding/json"
	"fmt"
	"sort"
	"strings"

	"github.com/google/uuid"

	"github.com/mesh-intelligence/taskdesk/pkg/types"
)

// table implements types.Table for one standard table. Rows are read from
// SQLite; every successful mutation rewrites the table's JSONL file.
type table struct {
	name    string
	schema  types.TableSchema
	backend *Backend
}

func newTable(b *Backend, name string) *table {
	schema, _ := types.SchemaFor(name)
	return &table{name: name, schema: schema, backend: b}
}

// newUUID generates a UUID v7 string.
func newUUID() string {
	return uuid.Must(uuid.NewV7()).String()
}

// Get retrieves an entity by ID.
// Returns ErrInvalidID if id is empty, ErrNotFound if not found.
func (t *table) Get(ctx context.Context, id string) (any, error) {
	if id == "" {
		return nil, types.ErrInvalidID
	}
	t.backend.mu.RLock()
	defer t.backend.mu.RUnlock()

	query := fmt.Sprintf("SELECT %s FROM %s WHERE id = ?", strings.Join(t.schema.Columns, ", "), t.name)
	rows, err := t.backend.db.QueryContext(ctx, query, id)
	if err != nil {
		return nil, fmt.Errorf("querying %s: %w", t.name, err)
	}
	defer rows.Close()

	if !rows.Next() {
		if err := rows.Err(); err != nil {
			return nil, fmt.Errorf("querying %s: %w", t.name, err)
		}
		return nil, types.ErrNotFound
	}
	rec, err := t.scan(rows)
	if err != nil {
		return nil, err
	}
	return types.FromRecord(t.name, rec)
}

// Set creates or updates an entity. If neither id nor the entity carries an
// ID, a UUID v7 is generated. Returns the ID used.
func (t *table) Set(ctx context.Context, id string, data any) (string, error) {
	e, err := types.AsEntity(t.name, data)
	if err != nil {
		return "", err
	}
	if id == "" {
		id = e.EntityID()
	}
	if id == "" {
		id = newUUID()
	}
	e.SetEntityID(id)

	rec, err := types.ToRecord(t.name, e)
	if err != nil {
		return "", err
	}
	args := make([]any, len(t.schema.Columns))
	for i, col := range t.schema.Columns {
		args[i] = rec[col]
	}

	t.backend.mu.Lock()
	defer t.backend.mu.Unlock()

	if _, err := t.backend.db.ExecContext(ctx, upsertSQL(t.schema), args...); err != nil {
		return "", fmt.Errorf("writing %s: %w", t.name, err)
	}
	if err := t.persist(ctx); err != nil {
		return "", err
	}
	return id, nil
}

// Delete removes an entity by ID.
// Returns ErrInvalidID if id is empty, ErrNotFound if not found.
func (t *table) Delete(ctx context.Context, id string) error {
	if id == "" {
		return types.ErrInvalidID
	}
	t.backend.mu.Lock()
	defer t.backend.mu.Unlock()

	res, err := t.backend.db.ExecContext(ctx, fmt.Sprintf("DELETE FROM %s WHERE id = ?", t.name), id)
	if err != nil {
		return fmt.Errorf("deleting from %s: %w", t.name, err)
	}
	n, err := res.RowsAffected()
	if err != nil {
		return fmt.Errorf("deleting from %s: %w", t.name, err)
	}
	if n == 0 {
		return types.ErrNotFound
	}
	return t.persist(ctx)
}

// Fetch returns the rows whose columns equal every filter value, in the
// table's default order.
func (t *table) Fetch(ctx context.Context, filter map[string]any) ([]any, error) {
	keys := make([]string, 0, len(filter))
	for col, v := range filter {
		if !t.schema.HasColumn(col) {
			return nil, fmt.Errorf("column %q: %w", col, types.ErrInvalidFilter)
		}
		if _, ok := v.(string); !ok {
			return nil, fmt.Errorf("column %q: %w", col, types.ErrInvalidFilter)
		}
		keys = append(keys, col)
	}
	sort.Strings(keys)

	query := fmt.Sprintf("SELECT %s FROM %s", strings.Join(t.schema.Columns, ", "), t.name)
	args := make([]any, 0, len(keys))
	if len(keys) > 0 {
		conds := make([]string, len(keys))
		for i, col := range keys {
			conds[i] = col + " = ?"
			args = append(args, filter[col])
		}
		query += " WHERE " + strings.Join(conds, " AND ")
	}
	query += " ORDER BY " + strings.Join(t.schema.OrderBy, ", ")

	t.backend.mu.RLock()
	defer t.backend.mu.RUnlock()

	rows, err := t.backend.db.QueryContext(ctx, query, args...)
	if err != nil {
		return nil, fmt.Errorf("querying %s: %w", t.name, err)
	}
	defer rows.Close()

	out := []any{}
	for rows.Next() {
		rec, err := t.scan(rows)
		if err != nil {
			return nil, err
		}
		e, err := types.FromRecord(t.name, rec)
		if err != nil {
			return nil, err
		}
		out = append(out, e)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("querying %s: %w", t.name, err)
	}
	return out, nil
}

// scan reads one row of the schema's columns into a record.
func (t *table) scan(rows *sql.Rows) (map[string]any, error) {
	vals := make([]sql.NullString, len(t.schema.Columns))
	ptrs := make([]any, len(vals))
	for i := range vals {
		ptrs[i] = &vals[i]
	}
	if err := rows.Scan(ptrs...); err != nil {
		return nil, fmt.Errorf("scanning %s: %w", t.name, err)
	}
	rec := make(map[string]any, len(vals))
	for i, col := range t.schema.Columns {
		rec[col] = vals[i].String
	}
	return rec, nil
}

// persist rewrites the table's JSONL file from SQLite. Caller holds the
// write lock.
func (t *table) persist(ctx context.Context) error {
	query := fmt.Sprintf("SELECT %s FROM %s ORDER BY id", strings.Join(t.schema.Columns, ", "), t.name)
	rows, err := t.backend.db.QueryContext(ctx, query)
	if err != nil {
		return fmt.Errorf("reading %s for persist: %w", t.name, err)
	}
	defer rows.Close()

	var records []json.RawMessage
	for rows.Next() {
		rec, err := t.scan(rows)
		if err != nil {
			return err
		}
		b, err := json.Marshal(rec)
		if err != nil {
			return fmt.Errorf("encoding %s row: %w", t.name, err)
		}
		records = append(records, b)
	}
	if err := rows.Err(); err != nil {
		return fmt.Errorf("reading %s for persist: %w", t.name, err)
	}
	if err := writeJSONL(jsonlPath(t.backend.dataDir, t.name), records); err != nil {
		return fmt.Errorf("persisting %s: %w", t.name, err)
	}
	return nil
}
