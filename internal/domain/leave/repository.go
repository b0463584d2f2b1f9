package leave

import (
	"context"

	"github.com/shopspring/decimal"
)

// LeaveTypeRepository - interface for leave_types table
type LeaveTypeRepository interface {
	// Create returns ErrLeaveTypeCodeExists on a duplicate code.
	Create(ctx context.Context, leaveType LeaveType) (LeaveType, error)
	GetByID(ctx context.Context, id string) (LeaveType, error)
	GetByIDs(ctx context.Context, ids []string) (map[string]LeaveType, error)
	List(ctx context.Context, activeOnly bool) ([]LeaveType, error)
	Deactivate(ctx context.Context, id string) error
}

// LeavePlanRepository - interface for leave_plans and leave_plan_allocations tables
type LeavePlanRepository interface {
	Create(ctx context.Context, plan LeavePlan) (LeavePlan, error)
	GetByID(ctx context.Context, id string) (LeavePlan, error)
	ListActive(ctx context.Context) ([]LeavePlan, error)
}

// LeaveBalanceRepository - interface for leave_balances table
type LeaveBalanceRepository interface {
	// Create returns ErrBalanceAlreadyExists on a duplicate (employee, type, year).
	Create(ctx context.Context, balance LeaveBalance) (LeaveBalance, error)
	GetByEmployeeYear(ctx context.Context, employeeID string, year int) ([]LeaveBalance, error)
	GetByEmployeeTypeYear(ctx context.Context, employeeID, leaveTypeID string, year int) (LeaveBalance, error)
	// GetForUpdate locks the row until the surrounding transaction ends.
	GetForUpdate(ctx context.Context, employeeID, leaveTypeID string, year int) (LeaveBalance, error)
	UpdateAllocation(ctx context.Context, id string, allocatedDays decimal.Decimal) (LeaveBalance, error)
	UpdateCarryForward(ctx context.Context, id string, carryForwardDays decimal.Decimal) (LeaveBalance, error)
	// AdjustUsedDays applies delta only if available and used days stay
	// non-negative; otherwise it returns ErrInvariantViolation.
	AdjustUsedDays(ctx context.Context, id string, delta decimal.Decimal) (LeaveBalance, error)
}

// LeaveApplicationRepository - interface for leave_applications table
type LeaveApplicationRepository interface {
	Create(ctx context.Context, application LeaveApplication) (LeaveApplication, error)
	GetByID(ctx context.Context, id string) (LeaveApplication, error)
	GetForUpdate(ctx context.Context, id string) (LeaveApplication, error)
	// UpdateStatus writes the transition only while the stored status still
	// equals from; otherwise it returns ErrApplicationAlreadyProcessed.
	UpdateStatus(ctx context.Context, application LeaveApplication, from ApplicationStatus) (LeaveApplication, error)
}
