package types

// Role is a user's position in the owner > manager > employee hierarchy.
type Role string

// Roles. Owner and manager share the elevated capabilities; the owner
// additionally manages other users' roles.
const (
	RoleOwner    Role = "owner"
	RoleManager  Role = "manager"
	RoleEmployee Role = "employee"
)

// Valid reports whether r is one of the known roles.
func (r Role) Valid() bool {
	switch r {
	case RoleOwner, RoleManager, RoleEmployee:
		return true
	}
	return false
}

// AtLeastManager reports whether r carries manager capabilities.
func (r Role) AtLeastManager() bool {
	return r == RoleOwner || r == RoleManager
}

// User is a member of the team. TelegramID is the external identity used to
// bind a session; ID is the row key. The two often hold the same value but
// are distinct fields.
type User struct {
	ID         string `json:"id"`
	TelegramID string `json:"telegram_id"`
	Name       string `json:"name"`
	Role       Role   `json:"role"`
}

// Validate checks the fields required to store a user.
func (u *User) Validate() error {
	if u.TelegramID == "" {
		return ErrInvalidIdentity
	}
	if u.Name == "" {
		return ErrInvalidName
	}
	if !u.Role.Valid() {
		return ErrInvalidRole
	}
	return nil
}
