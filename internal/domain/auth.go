package domain

// Role is the role claim carried by a session token. The set is open:
// values the client does not know about are kept as-is.
type Role string

const (
	RoleUser     Role = "user"
	RoleMerchant Role = "merchant"
	RoleAdmin    Role = "admin"
)

// Known reports whether r is one of the roles the client renders specially.
func (r Role) Known() bool {
	switch r {
	case RoleUser, RoleMerchant, RoleAdmin:
		return true
	}
	return false
}

// Title returns the role with its first letter upper-cased, as shown on the profile page.
func (r Role) Title() string {
	if r == "" {
		return ""
	}
	s := string(r)
	first := s[0]
	if first >= 'a' && first <= 'z' {
		first -= 'a' - 'A'
	}
	return string(first) + s[1:]
}
