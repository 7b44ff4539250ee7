package user

type Role string

const (
	RoleStaff Role = "staff"
	RoleAdmin Role = "admin"
)

func (r Role) String() string {
	return string(r)
}

func (r Role) IsValid() bool {
	switch r {
	case RoleStaff, RoleAdmin:
		return true
	default:
		return false
	}
}

// IsElevated reports whether the role carries administrator capabilities.
func (r Role) IsElevated() bool {
	return r == RoleAdmin
}

func NewRole(s string) (Role, error) {
	role := Role(s)
	if !role.IsValid() {
		return "", ErrInvalidRole
	}
	return role, nil
}
