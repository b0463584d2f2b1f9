package payroll

import "context"

type SalaryStructureRepository interface {
	Upsert(ctx context.Context, structure SalaryStructure) (SalaryStructure, error)
	GetByEmployeeID(ctx context.Context, employeeID string) (SalaryStructure, error)
	// GetByEmployeeIDs omits employees without a structure.
	GetByEmployeeIDs(ctx context.Context, employeeIDs []string) (map[string]SalaryStructure, error)
}

// AttendanceRepository supplies raw present-day counts. Employees with no
// present records are absent from the map.
type AttendanceRepository interface {
	CountPresentDays(ctx context.Context, employeeIDs []string, month, year int) (map[string]int, error)
}

type PayrollRunRepository interface {
	Create(ctx context.Context, run PayrollRun) (PayrollRun, error)
	Finish(ctx context.Context, run PayrollRun) error
	GetByID(ctx context.Context, id string) (PayrollRun, error)
}

type PayrollSlipRepository interface {
	// Upsert is keyed by (employee_id, month, year); last writer wins.
	Upsert(ctx context.Context, slip PayrollSlip) (PayrollSlip, error)
	GetByEmployeePeriod(ctx context.Context, employeeID string, month, year int) (PayrollSlip, error)
	ListByRunID(ctx context.Context, runID string) ([]PayrollSlip, error)
}
