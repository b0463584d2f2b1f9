package postgresql

import (
	"context"
	"fmt"
	"time"

	"github.com/cmlabs-hris/hrms-core-go/internal/domain/report"
	"github.com/cmlabs-hris/hrms-core-go/internal/pkg/database"
	"github.com/shopspring/decimal"
)

type reportRepositoryImpl struct {
	db *database.DB
}

func NewReportRepository(db *database.DB) report.ReportRepository {
	return &reportRepositoryImpl{db: db}
}

// GetPayrollSummaryReport returns one row per stored slip of the period.
func (r *reportRepositoryImpl) GetPayrollSummaryReport(ctx context.Context, month, year int) ([]report.PayrollSummaryRow, error) {
	q := GetQuerier(ctx, r.db)

	query := `
		SELECT
			e.id,
			e.employee_code,
			e.full_name,
			ps.days_worked,
			ps.days_in_month,
			ps.basic_earned,
			ps.hra_earned,
			ps.conveyance_earned,
			ps.special_allowance_earned,
			ps.gross_earned,
			ps.total_deductions,
			ps.net_earned,
			ps.negative_net
		FROM payroll_slips ps
		JOIN employees e ON e.id = ps.employee_id
		WHERE ps.month = $1 AND ps.year = $2
		ORDER BY e.full_name ASC, e.employee_code ASC
	`

	rows, err := q.Query(ctx, query, month, year)
	if err != nil {
		return nil, fmt.Errorf("failed to query payroll summary: %w", err)
	}
	defer rows.Close()

	var result []report.PayrollSummaryRow
	for rows.Next() {
		var row report.PayrollSummaryRow

		err := rows.Scan(
			&row.EmployeeID,
			&row.EmployeeCode,
			&row.EmployeeName,
			&row.DaysWorked,
			&row.DaysInMonth,
			&row.BasicEarned,
			&row.HRAEarned,
			&row.ConveyanceEarned,
			&row.SpecialAllowanceEarned,
			&row.GrossEarned,
			&row.TotalDeductions,
			&row.NetEarned,
			&row.NegativeNet,
		)
		if err != nil {
			return nil, fmt.Errorf("failed to scan payroll row: %w", err)
		}

		result = append(result, row)
	}

	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("rows error: %w", err)
	}

	return result, nil
}

// GetLeaveBalanceReport lists active employees with their balances for the
// leave year. Employees without balances appear with an empty list.
func (r *reportRepositoryImpl) GetLeaveBalanceReport(ctx context.Context, leaveYear int) ([]report.LeaveBalanceRow, error) {
	q := GetQuerier(ctx, r.db)

	query := `
		SELECT
			e.id,
			e.employee_code,
			e.full_name,
			e.hire_date,
			lt.name,
			lt.code,
			COALESCE(lb.allocated_days, 0),
			COALESCE(lb.carry_forward_days, 0),
			COALESCE(lb.used_days, 0),
			COALESCE((
				SELECT SUM(la.total_days)
				FROM leave_applications la
				WHERE la.employee_id = lb.employee_id
					AND la.leave_type_id = lb.leave_type_id
					AND la.leave_year = lb.leave_year
					AND la.status = 'pending'
			), 0)
		FROM employees e
		LEFT JOIN leave_balances lb ON lb.employee_id = e.id AND lb.leave_year = $1
		LEFT JOIN leave_types lt ON lt.id = lb.leave_type_id
		WHERE e.employment_status = 'active'
		ORDER BY e.full_name ASC, e.id ASC, lt.name ASC
	`

	rows, err := q.Query(ctx, query, leaveYear)
	if err != nil {
		return nil, fmt.Errorf("failed to query leave balance: %w", err)
	}
	defer rows.Close()

	// Map to aggregate leave balances per employee
	employeeMap := make(map[string]*report.LeaveBalanceRow)
	var employeeOrder []string

	for rows.Next() {
		var employeeID, employeeCode, fullName string
		var hireDate time.Time
		var leaveName, leaveCode *string
		var allocated, carried, used, pending decimal.Decimal

		err := rows.Scan(
			&employeeID,
			&employeeCode,
			&fullName,
			&hireDate,
			&leaveName,
			&leaveCode,
			&allocated,
			&carried,
			&used,
			&pending,
		)
		if err != nil {
			return nil, fmt.Errorf("failed to scan leave balance: %w", err)
		}

		emp, exists := employeeMap[employeeID]
		if !exists {
			emp = &report.LeaveBalanceRow{
				EmployeeID:   employeeID,
				EmployeeCode: employeeCode,
				FullName:     fullName,
				JoinDate:     hireDate.Format("2006-01-02"),
				Balances:     []report.LeaveTypeBalance{},
			}
			employeeMap[employeeID] = emp
			employeeOrder = append(employeeOrder, employeeID)
		}

		if leaveName == nil {
			continue
		}
		balance := report.LeaveTypeBalance{
			LeaveTypeName:    *leaveName,
			AllocatedDays:    allocated,
			CarryForwardDays: carried,
			UsedDays:         used,
			PendingDays:      pending,
			AvailableDays:    allocated.Add(carried).Sub(used),
		}
		if leaveCode != nil {
			balance.LeaveTypeCode = *leaveCode
		}
		emp.Balances = append(emp.Balances, balance)
	}

	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("rows error: %w", err)
	}

	result := make([]report.LeaveBalanceRow, 0, len(employeeOrder))
	for _, id := range employeeOrder {
		result = append(result, *employeeMap[id])
	}

	return result, nil
}
