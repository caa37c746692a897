package types

import "time"

// Access is a credential record scoped to a project.
//
// Password is stored as given unless the repository was built with a
// sealer, in which case the stored value is ciphertext.
type Access struct {
	ID        string    `json:"id"`
	ProjectID string    `json:"project_id"`
	URL       string    `json:"url"`
	Login     string    `json:"login"`
	Password  string    `json:"password"`
	Comment   string    `json:"comment"`
	CreatedAt time.Time `json:"created_at"`
}

// Validate checks the fields required to store an access record.
func (a *Access) Validate() error {
	if a.ProjectID == "" {
		return ErrInvalidReference
	}
	return nil
}
