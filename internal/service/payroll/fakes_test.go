package payroll

import (
	"context"
	"sync"

	"github.com/cmlabs-hris/hrms-core-go/internal/domain/employee"
	"github.com/cmlabs-hris/hrms-core-go/internal/domain/payroll"
)

type fakeStructureRepo struct {
	UpsertFn           func(ctx context.Context, s payroll.SalaryStructure) (payroll.SalaryStructure, error)
	GetByEmployeeIDFn  func(ctx context.Context, employeeID string) (payroll.SalaryStructure, error)
	GetByEmployeeIDsFn func(ctx context.Context, employeeIDs []string) (map[string]payroll.SalaryStructure, error)
}

func (f *fakeStructureRepo) Upsert(ctx context.Context, s payroll.SalaryStructure) (payroll.SalaryStructure, error) {
	return f.UpsertFn(ctx, s)
}

func (f *fakeStructureRepo) GetByEmployeeID(ctx context.Context, employeeID string) (payroll.SalaryStructure, error) {
	return f.GetByEmployeeIDFn(ctx, employeeID)
}

func (f *fakeStructureRepo) GetByEmployeeIDs(ctx context.Context, employeeIDs []string) (map[string]payroll.SalaryStructure, error) {
	return f.GetByEmployeeIDsFn(ctx, employeeIDs)
}

type fakeAttendanceRepo struct {
	CountPresentDaysFn func(ctx context.Context, employeeIDs []string, month, year int) (map[string]int, error)
}

func (f *fakeAttendanceRepo) CountPresentDays(ctx context.Context, employeeIDs []string, month, year int) (map[string]int, error) {
	return f.CountPresentDaysFn(ctx, employeeIDs, month, year)
}

// memRunRepo keeps the last state written for each run.
type memRunRepo struct {
	mu   sync.Mutex
	runs map[string]payroll.PayrollRun

	FinishFn func(run payroll.PayrollRun) error
}

func newMemRunRepo() *memRunRepo {
	return &memRunRepo{runs: map[string]payroll.PayrollRun{}}
}

func (r *memRunRepo) Create(_ context.Context, run payroll.PayrollRun) (payroll.PayrollRun, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.runs[run.ID] = run
	return run, nil
}

func (r *memRunRepo) Finish(_ context.Context, run payroll.PayrollRun) error {
	if r.FinishFn != nil {
		if err := r.FinishFn(run); err != nil {
			return err
		}
	}
	r.mu.Lock()
	defer r.mu.Unlock()
	r.runs[run.ID] = run
	return nil
}

func (r *memRunRepo) GetByID(_ context.Context, id string) (payroll.PayrollRun, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	run, ok := r.runs[id]
	if !ok {
		return payroll.PayrollRun{}, payroll.ErrPayrollRunNotFound
	}
	return run, nil
}

type slipKey struct {
	employeeID  string
	month, year int
}

type memSlipRepo struct {
	mu       sync.Mutex
	slips    map[slipKey]payroll.PayrollSlip
	UpsertFn func(slip payroll.PayrollSlip) error
}

func newMemSlipRepo() *memSlipRepo {
	return &memSlipRepo{slips: map[slipKey]payroll.PayrollSlip{}}
}

func (r *memSlipRepo) Upsert(_ context.Context, slip payroll.PayrollSlip) (payroll.PayrollSlip, error) {
	if r.UpsertFn != nil {
		if err := r.UpsertFn(slip); err != nil {
			return payroll.PayrollSlip{}, err
		}
	}
	r.mu.Lock()
	defer r.mu.Unlock()
	r.slips[slipKey{slip.EmployeeID, slip.Month, slip.Year}] = slip
	return slip, nil
}

func (r *memSlipRepo) GetByEmployeePeriod(_ context.Context, employeeID string, month, year int) (payroll.PayrollSlip, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	slip, ok := r.slips[slipKey{employeeID, month, year}]
	if !ok {
		return payroll.PayrollSlip{}, payroll.ErrPayrollSlipNotFound
	}
	return slip, nil
}

func (r *memSlipRepo) ListByRunID(_ context.Context, runID string) ([]payroll.PayrollSlip, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	var result []payroll.PayrollSlip
	for _, slip := range r.slips {
		if slip.RunID != nil && *slip.RunID == runID {
			result = append(result, slip)
		}
	}
	return result, nil
}

type fakeEmployeeRepo struct {
	GetByIDFn              func(ctx context.Context, id string) (employee.Employee, error)
	GetActiveFn            func(ctx context.Context) ([]employee.Employee, error)
	GetActiveByLeavePlanFn func(ctx context.Context, leavePlanID string) ([]employee.Employee, error)
	AssignLeavePlanFn      func(ctx context.Context, id string, leavePlanID string) error
}

func (f *fakeEmployeeRepo) GetByID(ctx context.Context, id string) (employee.Employee, error) {
	return f.GetByIDFn(ctx, id)
}

func (f *fakeEmployeeRepo) GetActive(ctx context.Context) ([]employee.Employee, error) {
	return f.GetActiveFn(ctx)
}

func (f *fakeEmployeeRepo) GetActiveByLeavePlan(ctx context.Context, leavePlanID string) ([]employee.Employee, error) {
	return f.GetActiveByLeavePlanFn(ctx, leavePlanID)
}

func (f *fakeEmployeeRepo) AssignLeavePlan(ctx context.Context, id string, leavePlanID string) error {
	return f.AssignLeavePlanFn(ctx, id, leavePlanID)
}
