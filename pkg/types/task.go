package types

import (
	"slices"
	"time"
)

// TaskStatus is the workflow position of a task.
type TaskStatus string

// Task statuses.
const (
	TaskNew        TaskStatus = "new"
	TaskInProgress TaskStatus = "in_progress"
	TaskDone       TaskStatus = "done"
	TaskBacklog    TaskStatus = "backlog"
)

// TaskStatuses lists every task status in workflow order.
var TaskStatuses = []TaskStatus{TaskNew, TaskInProgress, TaskDone, TaskBacklog}

// Valid reports whether s is a known task status.
func (s TaskStatus) Valid() bool {
	return slices.Contains(TaskStatuses, s)
}

// MaxAssignees is the largest number of users a task can be assigned to.
const MaxAssignees = 3

// Task is a unit of work inside a project.
//
// Assignees and Comments are not columns of the tasks table. Repositories
// hydrate them from the task_assignees and comments tables.
type Task struct {
	ID          string     `json:"id"`
	Title       string     `json:"title"`
	Description string     `json:"description"`
	Deadline    string     `json:"deadline"`
	ProjectID   string     `json:"project_id"`
	CreatorID   string     `json:"creator_id"`
	Status      TaskStatus `json:"status"`
	CreatedAt   time.Time  `json:"created_at"`
	Assignees   []string   `json:"assignees,omitempty"`
	Comments    []Comment  `json:"comments,omitempty"`
}

// Validate checks the fields required to store a task.
func (t *Task) Validate() error {
	if t.Title == "" {
		return ErrInvalidTitle
	}
	if t.ProjectID == "" {
		return ErrInvalidReference
	}
	if !t.Status.Valid() {
		return ErrInvalidStatus
	}
	return nil
}

// HasAssignee reports whether userID is assigned to the task.
func (t *Task) HasAssignee(userID string) bool {
	return slices.Contains(t.Assignees, userID)
}

// CanAssign reports whether AddAssignee would change the task.
func (t *Task) CanAssign(userID string) bool {
	return userID != "" && !t.HasAssignee(userID) && len(t.Assignees) < MaxAssignees
}

// AddAssignee appends userID to the assignees. A duplicate or a fourth
// assignee leaves the set unchanged; the return value reports whether the
// set changed.
func (t *Task) AddAssignee(userID string) bool {
	if !t.CanAssign(userID) {
		return false
	}
	t.Assignees = append(t.Assignees, userID)
	return true
}

// RemoveAssignee drops userID from the assignees, preserving the order of
// the rest. Returns false when userID was not assigned.
func (t *Task) RemoveAssignee(userID string) bool {
	i := slices.Index(t.Assignees, userID)
	if i < 0 {
		return false
	}
	t.Assignees = slices.Delete(t.Assignees, i, i+1)
	return true
}
