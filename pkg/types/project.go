package types

import "time"

// ProjectStatus is either active or archived.
type ProjectStatus string

// Project statuses.
const (
	ProjectActive   ProjectStatus = "active"
	ProjectArchived ProjectStatus = "archived"
)

// Valid reports whether s is a known project status.
func (s ProjectStatus) Valid() bool {
	return s == ProjectActive || s == ProjectArchived
}

// Project is a client engagement grouping tasks and access records.
type Project struct {
	ID          string        `json:"id"`
	Title       string        `json:"title"`
	Description string        `json:"description"`
	Status      ProjectStatus `json:"status"`
	CreatedAt   time.Time     `json:"created_at"`
}

// Validate checks the fields required to store a project.
func (p *Project) Validate() error {
	if p.Title == "" {
		return ErrInvalidTitle
	}
	if !p.Status.Valid() {
		return ErrInvalidProjectStatus
	}
	return nil
}
