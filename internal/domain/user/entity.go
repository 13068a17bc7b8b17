package user

type Role string

const (
	RoleOwner    Role = "owner"    // Company owner - full access
	RoleHR       Role = "hr"       // Runs accruals and manages every balance
	RoleManager  Role = "manager"  // Can approve leave and view team attendance
	RoleEmployee Role = "employee" // Regular employee
	RolePending  Role = "pending"  // Still in onboarding
)

func (r Role) IsValid() bool {
	_, ok := RolePermissions[r]
	return ok
}

// Identity is the caller resolved by the surrounding API layer. The ledger
// trusts it and never verifies credentials itself.
type Identity struct {
	EmployeeID string
	Role       Role
}

// Can reports whether the identity's role grants permission.
func (i Identity) Can(permission Permission) bool {
	return HasPermission(i.Role, permission)
}

// IsSelf reports whether employeeID refers to the caller.
func (i Identity) IsSelf(employeeID string) bool {
	return i.EmployeeID != "" && i.EmployeeID == employeeID
}
