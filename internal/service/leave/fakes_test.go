package leave

import (
	"context"
	"sync"

	"github.com/cmlabs-hris/hrms-core-go/internal/domain/employee"
	"github.com/cmlabs-hris/hrms-core-go/internal/domain/leave"
	"github.com/shopspring/decimal"
)

type passThroughTransactor struct{}

func (passThroughTransactor) WithinTransaction(ctx context.Context, fn func(ctx context.Context) error) error {
	return fn(ctx)
}

type memLeaveTypes struct {
	types map[string]leave.LeaveType
}

func (m *memLeaveTypes) Create(_ context.Context, t leave.LeaveType) (leave.LeaveType, error) {
	for _, existing := range m.types {
		if existing.Code == t.Code {
			return leave.LeaveType{}, leave.ErrLeaveTypeCodeExists
		}
	}
	m.types[t.ID] = t
	return t, nil
}

func (m *memLeaveTypes) GetByID(_ context.Context, id string) (leave.LeaveType, error) {
	t, ok := m.types[id]
	if !ok {
		return leave.LeaveType{}, leave.ErrLeaveTypeNotFound
	}
	return t, nil
}

func (m *memLeaveTypes) GetByIDs(_ context.Context, ids []string) (map[string]leave.LeaveType, error) {
	result := map[string]leave.LeaveType{}
	for _, id := range ids {
		if t, ok := m.types[id]; ok {
			result[id] = t
		}
	}
	return result, nil
}

func (m *memLeaveTypes) List(_ context.Context, activeOnly bool) ([]leave.LeaveType, error) {
	var result []leave.LeaveType
	for _, t := range m.types {
		if activeOnly && !t.IsActive {
			continue
		}
		result = append(result, t)
	}
	return result, nil
}

func (m *memLeaveTypes) Deactivate(_ context.Context, id string) error {
	t := m.types[id]
	t.IsActive = false
	m.types[id] = t
	return nil
}

type memLeavePlans struct {
	plans map[string]leave.LeavePlan
}

func (m *memLeavePlans) Create(_ context.Context, p leave.LeavePlan) (leave.LeavePlan, error) {
	m.plans[p.ID] = p
	return p, nil
}

func (m *memLeavePlans) GetByID(_ context.Context, id string) (leave.LeavePlan, error) {
	p, ok := m.plans[id]
	if !ok {
		return leave.LeavePlan{}, leave.ErrLeavePlanNotFound
	}
	return p, nil
}

func (m *memLeavePlans) ListActive(_ context.Context) ([]leave.LeavePlan, error) {
	var result []leave.LeavePlan
	for _, p := range m.plans {
		if p.IsActive {
			result = append(result, p)
		}
	}
	return result, nil
}

type balanceKey struct {
	employeeID, leaveTypeID string
	year                    int
}

// memLeaveBalances applies the same guard as the SQL repository.
type memLeaveBalances struct {
	mu       sync.Mutex
	balances map[balanceKey]leave.LeaveBalance
	// guardBypass simulates a concurrent writer by failing the guarded update.
	guardBypass bool
}

func (m *memLeaveBalances) Create(_ context.Context, b leave.LeaveBalance) (leave.LeaveBalance, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	key := balanceKey{b.EmployeeID, b.LeaveTypeID, b.LeaveYear}
	if _, ok := m.balances[key]; ok {
		return leave.LeaveBalance{}, leave.ErrBalanceAlreadyExists
	}
	m.balances[key] = b
	return b, nil
}

func (m *memLeaveBalances) GetByEmployeeYear(_ context.Context, employeeID string, year int) ([]leave.LeaveBalance, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	var result []leave.LeaveBalance
	for k, b := range m.balances {
		if k.employeeID == employeeID && k.year == year {
			result = append(result, b)
		}
	}
	return result, nil
}

func (m *memLeaveBalances) GetByEmployeeTypeYear(_ context.Context, employeeID, leaveTypeID string, year int) (leave.LeaveBalance, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	b, ok := m.balances[balanceKey{employeeID, leaveTypeID, year}]
	if !ok {
		return leave.LeaveBalance{}, leave.ErrLeaveBalanceNotFound
	}
	return b, nil
}

func (m *memLeaveBalances) GetForUpdate(ctx context.Context, employeeID, leaveTypeID string, year int) (leave.LeaveBalance, error) {
	return m.GetByEmployeeTypeYear(ctx, employeeID, leaveTypeID, year)
}

func (m *memLeaveBalances) update(id string, fn func(*leave.LeaveBalance) bool) (leave.LeaveBalance, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	for k, b := range m.balances {
		if b.ID != id {
			continue
		}
		if !fn(&b) {
			return leave.LeaveBalance{}, leave.ErrInvariantViolation
		}
		m.balances[k] = b
		return b, nil
	}
	return leave.LeaveBalance{}, leave.ErrLeaveBalanceNotFound
}

func (m *memLeaveBalances) UpdateAllocation(_ context.Context, id string, allocated decimal.Decimal) (leave.LeaveBalance, error) {
	return m.update(id, func(b *leave.LeaveBalance) bool {
		b.AllocatedDays = allocated
		return true
	})
}

func (m *memLeaveBalances) UpdateCarryForward(_ context.Context, id string, carry decimal.Decimal) (leave.LeaveBalance, error) {
	return m.update(id, func(b *leave.LeaveBalance) bool {
		b.CarryForwardDays = carry
		return true
	})
}

func (m *memLeaveBalances) AdjustUsedDays(_ context.Context, id string, delta decimal.Decimal) (leave.LeaveBalance, error) {
	return m.update(id, func(b *leave.LeaveBalance) bool {
		used := b.UsedDays.Add(delta)
		if m.guardBypass || used.IsNegative() || b.AllocatedDays.Add(b.CarryForwardDays).Sub(used).IsNegative() {
			return false
		}
		b.UsedDays = used
		return true
	})
}

func (m *memLeaveBalances) get(employeeID, leaveTypeID string, year int) leave.LeaveBalance {
	m.mu.Lock()
	defer m.mu.Unlock()
	return m.balances[balanceKey{employeeID, leaveTypeID, year}]
}

type memLeaveApplications struct {
	apps map[string]leave.LeaveApplication
}

func (m *memLeaveApplications) Create(_ context.Context, a leave.LeaveApplication) (leave.LeaveApplication, error) {
	m.apps[a.ID] = a
	return a, nil
}

func (m *memLeaveApplications) GetByID(_ context.Context, id string) (leave.LeaveApplication, error) {
	a, ok := m.apps[id]
	if !ok {
		return leave.LeaveApplication{}, leave.ErrLeaveApplicationNotFound
	}
	return a, nil
}

func (m *memLeaveApplications) GetForUpdate(ctx context.Context, id string) (leave.LeaveApplication, error) {
	return m.GetByID(ctx, id)
}

func (m *memLeaveApplications) UpdateStatus(_ context.Context, a leave.LeaveApplication, from leave.ApplicationStatus) (leave.LeaveApplication, error) {
	stored, ok := m.apps[a.ID]
	if !ok || stored.Status != from {
		return leave.LeaveApplication{}, leave.ErrApplicationAlreadyProcessed
	}
	m.apps[a.ID] = a
	return a, nil
}

type memEmployees struct {
	employees map[string]employee.Employee
}

func (m *memEmployees) GetByID(_ context.Context, id string) (employee.Employee, error) {
	e, ok := m.employees[id]
	if !ok {
		return employee.Employee{}, employee.ErrEmployeeNotFound
	}
	return e, nil
}

func (m *memEmployees) GetActive(_ context.Context) ([]employee.Employee, error) {
	var result []employee.Employee
	for _, e := range m.employees {
		if e.IsActive() {
			result = append(result, e)
		}
	}
	return result, nil
}

func (m *memEmployees) GetActiveByLeavePlan(_ context.Context, planID string) ([]employee.Employee, error) {
	var result []employee.Employee
	for _, e := range m.employees {
		if e.IsActive() && e.LeavePlanID != nil && *e.LeavePlanID == planID {
			result = append(result, e)
		}
	}
	return result, nil
}

func (m *memEmployees) AssignLeavePlan(_ context.Context, id string, planID string) error {
	e, ok := m.employees[id]
	if !ok {
		return employee.ErrEmployeeNotFound
	}
	e.LeavePlanID = &planID
	m.employees[id] = e
	return nil
}
