package sqlite

import (
	"database/sql"
	"encoding/json"
	"fmt"
	"strings"

	"github.com/mesh-intelligence/taskdesk/pkg/types"
)

// loadAllJSONL reads each table's JSONL file and inserts the records into
// SQLite inside one transaction: either every file loads or the database
// stays empty. Malformed lines and rows violating a constraint are skipped.
// Unknown fields are ignored so files written by newer versions still load.
func loadAllJSONL(db *sql.DB, dataDir string) error {
	tx, err := db.Begin()
	if err != nil {
		return fmt.Errorf("beginning load transaction: %w", err)
	}
	defer tx.Rollback()

	for _, name := range types.StandardTableNames {
		records, err := readJSONL(jsonlPath(dataDir, name))
		if err != nil {
			return err
		}
		if len(records) == 0 {
			continue
		}
		schema, _ := types.SchemaFor(name)
		if err := insertRecords(tx, schema, records); err != nil {
			return fmt.Errorf("loading %s: %w", name, err)
		}
	}

	if err := tx.Commit(); err != nil {
		return fmt.Errorf("committing load transaction: %w", err)
	}
	return nil
}

// insertRecords inserts parsed JSONL records into a table. Only the schema
// columns are read from each record.
func insertRecords(tx *sql.Tx, schema types.TableSchema, records []json.RawMessage) error {
	stmt, err := tx.Prepare(insertSQL(schema))
	if err != nil {
		return fmt.Errorf("preparing insert for %s: %w", schema.Name, err)
	}
	defer stmt.Close()

	for _, rec := range records {
		var obj map[string]any
		if err := json.Unmarshal(rec, &obj); err != nil {
			continue
		}
		if id, _ := obj["id"].(string); id == "" {
			continue
		}
		args := make([]any, len(schema.Columns))
		for i, col := range schema.Columns {
			switch v := obj[col].(type) {
			case string:
				args[i] = v
			case nil:
				args[i] = ""
			default:
				args[i] = fmt.Sprint(v)
			}
		}
		if _, err := stmt.Exec(args...); err != nil {
			continue
		}
	}
	return nil
}

// insertSQL renders the plain INSERT used while loading.
func insertSQL(schema types.TableSchema) string {
	return fmt.Sprintf("INSERT INTO %s (%s) VALUES (%s)",
		schema.Name,
		strings.Join(schema.Columns, ", "),
		placeholders(len(schema.Columns)),
	)
}

// upsertSQL renders the INSERT ... ON CONFLICT(id) statement used by Set.
func upsertSQL(schema types.TableSchema) string {
	updates := make([]string, 0, len(schema.Columns)-1)
	for _, col := range schema.Columns[1:] {
		updates = append(updates, col+" = excluded."+col)
	}
	return insertSQL(schema) + " ON CONFLICT(id) DO UPDATE SET " + strings.Join(updates, ", ")
}

func placeholders(n int) string {
	return strings.TrimSuffix(strings.Repeat("?, ", n), ", ")
}
