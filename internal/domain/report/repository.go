package report

import "context"

// ReportRepository defines the interface for report data access
type ReportRepository interface {
	// Payroll Summary Report
	GetPayrollSummaryReport(ctx context.Context, month, year int) ([]PayrollSummaryRow, error)

	// Leave Balance Report
	GetLeaveBalanceReport(ctx context.Context, leaveYear int) ([]LeaveBalanceRow, error)
}
