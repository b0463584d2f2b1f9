package user

type Role string

const (
	RoleAdmin    Role = "admin"    // HR administrator - full access
	RoleManager  Role = "manager"  // Can approve leave
	RoleEmployee Role = "employee" // Regular employee
)

// Actor is the caller identity resolved by the authentication gate.
type Actor struct {
	UserID     string
	EmployeeID string
	Role       Role
}

// IsAdmin checks if actor is an HR administrator
func (a Actor) IsAdmin() bool {
	return a.Role == RoleAdmin
}

// CanApprove checks if actor can approve requests
func (a Actor) CanApprove() bool {
	return a.Role == RoleManager || a.Role == RoleAdmin
}

// Owns reports whether the actor is the given employee.
func (a Actor) Owns(employeeID string) bool {
	return a.EmployeeID != "" && a.EmployeeID == employeeID
}

func (r Role) Valid() bool {
	switch r {
	case RoleAdmin, RoleManager, RoleEmployee:
		return true
	}
	return false
}
