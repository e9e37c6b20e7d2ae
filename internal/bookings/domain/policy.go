package domain

// Roles recognized by the platform.
const (
	RoleRegularUser = "regular_user"
	RoleModerator   = "moderator"
	RoleAdmin       = "admin"
)

// Identity is the authenticated caller of an operation.
type Identity struct {
	Username string
	Role     string
}

// IsAdmin reports whether the identity carries the admin role.
func (i Identity) IsAdmin() bool {
	return i.Role == RoleAdmin
}

// CanAccess is the single authorization rule for booking resources:
// administrators may act on any booking, everyone else only on their own.
func CanAccess(requester Identity, owner string) bool {
	return requester.IsAdmin() || requester.Username == owner
}
