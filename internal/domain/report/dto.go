package report

import (
	"github.com/cmlabs-hris/hrms-core-go/internal/pkg/validator"
	"github.com/shopspring/decimal"
)

// ========================================
// PAYROLL SUMMARY
// ========================================

type PayrollSummaryReportRequest struct {
	Month int `json:"month"`
	Year  int `json:"year"`
}

func (r *PayrollSummaryReportRequest) Validate() error {
	var errs validator.ValidationErrors

	if !validator.IsValidMonth(r.Month) {
		errs = append(errs, validator.ValidationError{
			Field:   "month",
			Message: "month must be between 1 and 12",
		})
	}
	if !validator.IsValidYear(r.Year) {
		errs = append(errs, validator.ValidationError{
			Field:   "year",
			Message: "year must be a 4-digit year",
		})
	}

	return errs.OrNil()
}

type PayrollSummaryReport struct {
	PeriodMonth      int             `json:"period_month"`
	PeriodYear       int             `json:"period_year"`
	GeneratedAt      string          `json:"generated_at"`
	TotalGrossPayout decimal.Decimal `json:"total_gross_payout"`
	TotalDeductions  decimal.Decimal `json:"total_deductions"`
	TotalNetPayout   decimal.Decimal `json:"total_net_payout"`
	TotalEmployees   int             `json:"total_employees"`
	NegativeNetCount int             `json:"negative_net_count"`

	Rows []PayrollSummaryRow `json:"rows"`
}

type PayrollSummaryRow struct {
	EmployeeID   string `json:"employee_id"`
	EmployeeCode string `json:"employee_code"`
	EmployeeName string `json:"employee_name"`

	DaysWorked  int `json:"days_worked"`
	DaysInMonth int `json:"days_in_month"`

	// Earnings
	BasicEarned            decimal.Decimal `json:"basic_earned"`
	HRAEarned              decimal.Decimal `json:"hra_earned"`
	ConveyanceEarned       decimal.Decimal `json:"conveyance_earned"`
	SpecialAllowanceEarned decimal.Decimal `json:"special_allowance_earned"`
	GrossEarned            decimal.Decimal `json:"gross_earned"`

	// Deductions
	TotalDeductions decimal.Decimal `json:"total_deductions"`

	// Final
	NetEarned   decimal.Decimal `json:"net_earned"`
	NegativeNet bool            `json:"negative_net"`
}

// ========================================
// LEAVE BALANCE REPORT
// ========================================

type LeaveBalanceReportRequest struct {
	LeaveYear int `json:"leave_year"`
}

func (r *LeaveBalanceReportRequest) Validate() error {
	var errs validator.ValidationErrors

	if !validator.IsValidYear(r.LeaveYear) {
		errs = append(errs, validator.ValidationError{
			Field:   "year",
			Message: "year must be a 4-digit year",
		})
	}

	return errs.OrNil()
}

type LeaveBalanceReport struct {
	GeneratedAt string `json:"generated_at"`
	LeaveYear   int    `json:"leave_year"`

	Rows []LeaveBalanceRow `json:"rows"`
}

type LeaveBalanceRow struct {
	EmployeeID   string `json:"employee_id"`
	EmployeeCode string `json:"employee_code"`
	FullName     string `json:"full_name"`
	JoinDate     string `json:"join_date"`

	Balances []LeaveTypeBalance `json:"balances"`
}

type LeaveTypeBalance struct {
	LeaveTypeName    string          `json:"leave_type_name"`
	LeaveTypeCode    string          `json:"leave_type_code"`
	AllocatedDays    decimal.Decimal `json:"allocated_days"`
	CarryForwardDays decimal.Decimal `json:"carry_forward_days"`
	UsedDays         decimal.Decimal `json:"used_days"`
	// PendingDays is requested but not yet approved; it is not deducted.
	PendingDays   decimal.Decimal `json:"pending_days"`
	AvailableDays decimal.Decimal `json:"available_days"`
}
