package payroll

import (
	"time"

	"github.com/cmlabs-hris/hrms-core-go/internal/pkg/validator"
	"github.com/shopspring/decimal"
)

// SalaryStructure - fixed monthly compensation template, one per employee
type SalaryStructure struct {
	EmployeeID string

	// Earnings
	Basic            decimal.Decimal
	HRA              decimal.Decimal
	Conveyance       decimal.Decimal
	SpecialAllowance decimal.Decimal

	// Deductions
	PF              decimal.Decimal
	ESI             decimal.Decimal
	ProfessionalTax decimal.Decimal
	OtherDeductions decimal.Decimal

	CreatedAt time.Time
	UpdatedAt time.Time
}

// Earnings returns the components that are pro-rated by attendance, in slip order.
func (s SalaryStructure) Earnings() []decimal.Decimal {
	return []decimal.Decimal{s.Basic, s.HRA, s.Conveyance, s.SpecialAllowance}
}

// Deductions returns the components carried unchanged onto the slip.
func (s SalaryStructure) Deductions() []decimal.Decimal {
	return []decimal.Decimal{s.PF, s.ESI, s.ProfessionalTax, s.OtherDeductions}
}

// SalaryTotals - derived from a SalaryStructure, never stored as input
type SalaryTotals struct {
	GrossSalary     decimal.Decimal
	TotalDeductions decimal.Decimal
	NetSalary       decimal.Decimal
}

const (
	WarningNegativeNetSalary = "negative_net_salary"
	WarningAttendanceClamped = "attendance_clamped"
	WarningNegativeNetEarned = "negative_net_earned"
)

// AttendanceSummary is derived per payroll period, not persisted
type AttendanceSummary struct {
	EmployeeID  string
	PeriodMonth int
	PeriodYear  int
	PresentDays int
	WorkingDays int
}

// RunStatus enum
type RunStatus string

const (
	RunStatusProcessing RunStatus = "processing"
	RunStatusCompleted  RunStatus = "completed"
	RunStatusFailed     RunStatus = "failed"
)

func (s RunStatus) IsTerminal() bool {
	return s == RunStatusCompleted || s == RunStatusFailed
}

// PayrollRun - one batch generation for a month/year
type PayrollRun struct {
	ID             string
	Month          int
	Year           int
	Status         RunStatus
	CreatedBy      string
	ProcessedCount int
	SkippedCount   int
	FailureReason  *string
	CreatedAt      time.Time
	CompletedAt    *time.Time
}

// SlipStatus enum
type SlipStatus string

const (
	SlipStatusGenerated    SlipStatus = "generated"
	SlipStatusRecalculated SlipStatus = "recalculated"
)

// PayrollSlip - pro-rated result for one employee and period.
// Keyed by (EmployeeID, Month, Year); RunID points at the last run that wrote it.
type PayrollSlip struct {
	ID         string
	RunID      *string
	EmployeeID string
	Month      int
	Year       int

	BasicEarned            decimal.Decimal
	HRAEarned              decimal.Decimal
	ConveyanceEarned       decimal.Decimal
	SpecialAllowanceEarned decimal.Decimal
	GrossEarned            decimal.Decimal

	PF              decimal.Decimal
	ESI             decimal.Decimal
	ProfessionalTax decimal.Decimal
	OtherDeductions decimal.Decimal
	TotalDeductions decimal.Decimal

	NetEarned   decimal.Decimal
	NegativeNet bool
	DaysWorked  int
	DaysInMonth int
	Status      SlipStatus
	Warnings    []string

	CreatedAt time.Time
	UpdatedAt time.Time
}

// Validate checks that every monetary component is non-negative.
func (s SalaryStructure) Validate() validator.ValidationErrors {
	var errs validator.ValidationErrors
	fields := []struct {
		name  string
		value decimal.Decimal
	}{
		{"basic", s.Basic},
		{"hra", s.HRA},
		{"conveyance", s.Conveyance},
		{"special_allowance", s.SpecialAllowance},
		{"pf", s.PF},
		{"esi", s.ESI},
		{"professional_tax", s.ProfessionalTax},
		{"other_deductions", s.OtherDeductions},
	}
	for _, f := range fields {
		if validator.IsNegative(f.value) {
			errs = append(errs, validator.ValidationError{Field: f.name, Message: "must be non-negative"})
		}
	}
	return errs
}
