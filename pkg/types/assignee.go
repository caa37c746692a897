package types

import "time"

// Assignee links a user to a task. Rows are ordered by CreatedAt so the
// assignee list keeps insertion order.
type Assignee struct {
	ID        string    `json:"id"`
	TaskID    string    `json:"task_id"`
	UserID    string    `json:"user_id"`
	CreatedAt time.Time `json:"created_at"`
}
