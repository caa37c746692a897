package types

import "time"

// Comment is a note left on a task. CreatedAt is assigned by the repository
// when the comment is added.
type Comment struct {
	ID        string    `json:"id"`
	TaskID    string    `json:"task_id"`
	AuthorID  string    `json:"author_id"`
	Text      string    `json:"text"`
	CreatedAt time.Time `json:"created_at"`
}

// Validate checks the fields required to store a comment.
func (c *Comment) Validate() error {
	if c.TaskID == "" || c.AuthorID == "" {
		return ErrInvalidReference
	}
	if c.Text == "" {
		return ErrInvalidContent
	}
	return nil
}
