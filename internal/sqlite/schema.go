package sqlite

import (
	"database/sql"
	"fmt"
	"strings"

	"github.com/mesh-intelligence/taskdesk/pkg/types"
)

// Secondary indexes for the lookups the repositories issue.
var indexDDL = []string{
	`CREATE UNIQUE INDEX idx_users_telegram_id ON users(telegram_id);`,
	`CREATE INDEX idx_tasks_project ON tasks(project_id);`,
	`CREATE INDEX idx_task_assignees_task ON task_assignees(task_id);`,
	`CREATE INDEX idx_comments_task ON comments(task_id, created_at);`,
	`CREATE INDEX idx_accesses_project ON accesses(project_id);`,
}

// createTableDDL renders the CREATE TABLE statement for a schema. Every
// column is TEXT; the first column is the primary key.
func createTableDDL(s types.TableSchema) string {
	cols := make([]string, len(s.Columns))
	for i, c := range s.Columns {
		if i == 0 {
			cols[i] = c + " TEXT PRIMARY KEY"
			continue
		}
		cols[i] = c + " TEXT NOT NULL DEFAULT ''"
	}
	return fmt.Sprintf("CREATE TABLE %s (\n    %s\n);", s.Name, strings.Join(cols, ",\n    "))
}

// createSchema creates every standard table and its indexes.
func createSchema(db *sql.DB) error {
	for _, name := range types.StandardTableNames {
		s, err := types.SchemaFor(name)
		if err != nil {
			return err
		}
		if _, err := db.Exec(createTableDDL(s)); err != nil {
			return fmt.Errorf("creating table %s: %w", name, err)
		}
	}
	for _, ddl := range indexDDL {
		if _, err := db.Exec(ddl); err != nil {
			return fmt.Errorf("creating index: %w", err)
		}
	}
	return nil
}
