package employee

import "context"

type EmployeeRepository interface {
	GetByID(ctx context.Context, id string) (Employee, error)
	GetActive(ctx context.Context) ([]Employee, error)
	GetActiveByLeavePlan(ctx context.Context, leavePlanID string) ([]Employee, error)
	AssignLeavePlan(ctx context.Context, id string, leavePlanID string) error
}
