package domain

// Identity is the authenticated caller of an operation.
type Identity struct {
	Username string
	Role     string
}

// IsAdmin reports whether the identity carries the admin role.
func (i Identity) IsAdmin() bool {
	return i.Role == RoleAdmin
}

// CanAccess allows administrators to act on any account and everyone
// else only on their own.
func CanAccess(requester Identity, owner string) bool {
	return requester.IsAdmin() || requester.Username == owner
}
