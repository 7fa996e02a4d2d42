package domain

// Role constants define the allowed user roles. The role gates which views
// the client offers; authorization itself is enforced by the backend.
const (
	RoleCustomer = "customer"
	RoleVendor   = "vendor"
	RoleAdmin    = "admin"
)

// ValidRoles returns the set of valid user roles.
func ValidRoles() []string {
	return []string{RoleCustomer, RoleVendor, RoleAdmin}
}

// IsValidRole checks whether the given role string is a valid user role.
func IsValidRole(role string) bool {
	for _, r := range ValidRoles() {
		if r == role {
			return true
		}
	}
	return false
}

// User is the authenticated identity as returned by the backend's whoami
// endpoint. It exists in memory only while a valid credential backs it.
type User struct {
	ID       int64  `json:"id"`
	Email    string `json:"email"`
	Username string `json:"username"`
	Role     string `json:"role"`
}

// IsVendor reports whether the user may reach vendor views.
func (u *User) IsVendor() bool {
	return u.Role == RoleVendor || u.Role == RoleAdmin
}

// TokenPair holds an access and refresh token pair as issued by the backend.
type TokenPair struct {
	AccessToken  string `json:"access_token"`
	RefreshToken string `json:"refresh_token"`
}
