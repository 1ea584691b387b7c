package models

// Role is the navigation role of the current user.
type Role string

const (
	RoleDeveloper Role = "DEVELOPER"
	RoleOwner     Role = "PEMILIK"
	RoleAdmin     Role = "ADMIN"
	RoleOperator  Role = "OPERATOR"
)

// CanAccessFinance reports whether the role may post journals and read reports.
func (r Role) CanAccessFinance() bool {
	switch r {
	case RoleDeveloper, RoleOwner, RoleAdmin:
		return true
	}
	return false
}
