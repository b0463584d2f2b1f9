package employee

import "time"

type Employee struct {
	ID               string
	EmployeeCode     string
	FullName         string
	HireDate         time.Time
	EmploymentStatus EmploymentStatus
	LeavePlanID      *string
	CreatedAt        time.Time
	UpdatedAt        time.Time
}

type EmploymentStatus string

const (
	EmploymentStatusActive     EmploymentStatus = "active"
	EmploymentStatusInactive   EmploymentStatus = "inactive"
	EmploymentStatusResigned   EmploymentStatus = "resigned"
	EmploymentStatusTerminated EmploymentStatus = "terminated"
)

func (e Employee) IsActive() bool {
	return e.EmploymentStatus == EmploymentStatusActive
}

// JoiningDate is the hire date truncated to midnight UTC.
func (e Employee) JoiningDate() time.Time {
	y, m, d := e.HireDate.Date()
	return time.Date(y, m, d, 0, 0, 0, 0, time.UTC)
}
