package permission

// Role is the single primary permission level assigned to a user.
type Role string

const (
	RoleAdmin          Role = "admin"
	RoleStaff          Role = "staff"
	RoleDivisionLeader Role = "division_leader"
	RoleSpecialist     Role = "specialist"
	RoleViewer         Role = "viewer"
)

// capabilities groups the cross-cutting behaviors a role carries.
// Keeping these in one table means adding a role cannot silently skip a
// check site.
type capabilities struct {
	// FullDivisionAccess bypasses the division_permissions table
	// entirely: every division is visible.
	FullDivisionAccess bool
}

var roleCapabilities = map[Role]capabilities{
	RoleAdmin:          {FullDivisionAccess: true},
	RoleStaff:          {FullDivisionAccess: false},
	RoleDivisionLeader: {FullDivisionAccess: false},
	RoleSpecialist:     {FullDivisionAccess: true},
	RoleViewer:         {FullDivisionAccess: false},
}

// IsValid reports whether r is one of the known roles.
func (r Role) IsValid() bool {
	_, ok := roleCapabilities[r]
	return ok
}

// HasFullDivisionAccess reports whether the role sees every division
// without explicit grants. Unknown roles get no capabilities.
func (r Role) HasFullDivisionAccess() bool {
	return roleCapabilities[r].FullDivisionAccess
}

// AllRoles lists the assignable roles, for validation in the admin
// screens.
func AllRoles() []Role {
	return []Role{RoleAdmin, RoleStaff, RoleDivisionLeader, RoleSpecialist, RoleViewer}
}
