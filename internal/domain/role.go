package domain

import "time"

type Role string

const (
	RoleAdmin      Role = "admin"
	RoleSuperAdmin Role = "super_admin"
)

// UserRole grants elevated privileges to a user. At most one row exists per
// user; a Protected row can never be demoted or deleted.
type UserRole struct {
	ID                 uint      `json:"id"`
	UserID             uint      `json:"user_id"`
	Email              string    `json:"email"`
	Role               Role      `json:"role"`
	MustChangePassword bool      `json:"must_change_password"`
	Protected          bool      `json:"protected"`
	CreatedAt          time.Time `json:"created_at"`
}

// Identity is the per-request projection of a user and their (possibly
// absent) role row. HasRole is false when no role row exists, in which case
// MustChangePassword is always false.
type Identity struct {
	User               User `json:"user"`
	HasRole            bool `json:"has_role"`
	Role               Role `json:"role,omitempty"`
	MustChangePassword bool `json:"must_change_password"`
}

func (i Identity) IsAdmin() bool {
	return i.HasRole && (i.Role == RoleAdmin || i.Role == RoleSuperAdmin)
}

func (i Identity) IsSuperAdmin() bool {
	return i.HasRole && i.Role == RoleSuperAdmin
}
