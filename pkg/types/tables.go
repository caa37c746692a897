package types

// Standard table names for Backend.GetTable.
const (
	TableUsers     = "users"
	TableProjects  = "projects"
	TableTasks     = "tasks"
	TableAssignees = "task_assignees"
	TableComments  = "comments"
	TableAccesses  = "accesses"
)

// StandardTableNames lists all standard table names in load order: parents
// before the rows that reference them.
var StandardTableNames = []string{
	TableUsers,
	TableProjects,
	TableTasks,
	TableAssignees,
	TableComments,
	TableAccesses,
}

// TableSchema describes the stored columns of a table. The first column is
// always the primary key "id". OrderBy lists the columns, ascending, that
// give the table's default order.
type TableSchema struct {
	Name    string
	Columns []string
	OrderBy []string
}

// HasColumn reports whether col is a stored column of the table.
func (s TableSchema) HasColumn(col string) bool {
	for _, c := range s.Columns {
		if c == col {
			return true
		}
	}
	return false
}

var schemas = map[string]TableSchema{
	TableUsers: {
		Name:    TableUsers,
		Columns: []string{"id", "telegram_id", "name", "role"},
		OrderBy: []string{"name", "id"},
	},
	TableProjects: {
		Name:    TableProjects,
		Columns: []string{"id", "title", "description", "status", "created_at"},
		OrderBy: []string{"created_at", "id"},
	},
	TableTasks: {
		Name:    TableTasks,
		Columns: []string{"id", "title", "description", "deadline", "project_id", "creator_id", "status", "created_at"},
		OrderBy: []string{"created_at", "id"},
	},
	TableAssignees: {
		Name:    TableAssignees,
		Columns: []string{"id", "task_id", "user_id", "created_at"},
		OrderBy: []string{"created_at", "id"},
	},
	TableComments: {
		Name:    TableComments,
		Columns: []string{"id", "task_id", "author_id", "text", "created_at"},
		OrderBy: []string{"created_at", "id"},
	},
	TableAccesses: {
		Name:    TableAccesses,
		Columns: []string{"id", "project_id", "url", "login", "password", "comment", "created_at"},
		OrderBy: []string{"created_at", "id"},
	},
}

// SchemaFor returns the schema of a standard table.
// Returns ErrTableNotFound for unknown names.
func SchemaFor(name string) (TableSchema, error) {
	s, ok := schemas[name]
	if !ok {
		return TableSchema{}, ErrTableNotFound
	}
	return s, nil
}
