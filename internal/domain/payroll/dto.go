package payroll

import (
	"github.com/cmlabs-hris/hrms-core-go/internal/pkg/validator"
	"github.com/shopspring/decimal"
)

// ========== SALARY STRUCTURE DTOs ==========

type UpsertSalaryStructureRequest struct {
	EmployeeID       string          `json:"-"`
	Basic            decimal.Decimal `json:"basic"`
	HRA              decimal.Decimal `json:"hra"`
	Conveyance       decimal.Decimal `json:"conveyance"`
	SpecialAllowance decimal.Decimal `json:"special_allowance"`
	PF               decimal.Decimal `json:"pf"`
	ESI              decimal.Decimal `json:"esi"`
	ProfessionalTax  decimal.Decimal `json:"professional_tax"`
	OtherDeductions  decimal.Decimal `json:"other_deductions"`
}

func (r *UpsertSalaryStructureRequest) Validate() error {
	var errs validator.ValidationErrors

	if validator.IsEmpty(r.EmployeeID) {
		errs = append(errs, validator.ValidationError{Field: "employee_id", Message: "is required"})
	}
	errs = append(errs, r.ToStructure().Validate()...)

	return errs.OrNil()
}

func (r *UpsertSalaryStructureRequest) ToStructure() SalaryStructure {
	return SalaryStructure{
		EmployeeID:       r.EmployeeID,
		Basic:            r.Basic,
		HRA:              r.HRA,
		Conveyance:       r.Conveyance,
		SpecialAllowance: r.SpecialAllowance,
		PF:               r.PF,
		ESI:              r.ESI,
		ProfessionalTax:  r.ProfessionalTax,
		OtherDeductions:  r.OtherDeductions,
	}
}

type SalaryStructureResponse struct {
	EmployeeID       string          `json:"employee_id"`
	Basic            decimal.Decimal `json:"basic"`
	HRA              decimal.Decimal `json:"hra"`
	Conveyance       decimal.Decimal `json:"conveyance"`
	SpecialAllowance decimal.Decimal `json:"special_allowance"`
	PF               decimal.Decimal `json:"pf"`
	ESI              decimal.Decimal `json:"esi"`
	ProfessionalTax  decimal.Decimal `json:"professional_tax"`
	OtherDeductions  decimal.Decimal `json:"other_deductions"`
	GrossSalary      decimal.Decimal `json:"gross_salary"`
	TotalDeductions  decimal.Decimal `json:"total_deductions"`
	NetSalary        decimal.Decimal `json:"net_salary"`
	Warnings         []string        `json:"warnings,omitempty"`
	UpdatedAt        string          `json:"updated_at"`
}

// SalaryStructureRecord is one normalized row from a bulk import file.
// Problem is set when the row could not be parsed; such rows are reported
// as failures without touching storage.
type SalaryStructureRecord struct {
	Row     int
	Request UpsertSalaryStructureRequest
	Problem string
}

type ImportFailure struct {
	Row        int    `json:"row"`
	EmployeeID string `json:"employee_id,omitempty"`
	Reason     string `json:"reason"`
}

type ImportSalaryStructuresResponse struct {
	Imported int             `json:"imported"`
	Failed   []ImportFailure `json:"failed"`
}

// ========== PAYROLL RUN DTOs ==========

type GeneratePayrollRequest struct {
	Month int `json:"month"`
	Year  int `json:"year"`
}

func (r *GeneratePayrollRequest) Validate() error {
	return validatePeriod(r.Month, r.Year).OrNil()
}

type SkippedEmployeeResponse struct {
	EmployeeID string `json:"employee_id"`
	Reason     string `json:"reason"`
}

type GeneratePayrollResponse struct {
	RunID          string                    `json:"run_id"`
	Status         string                    `json:"status"`
	ProcessedCount int                       `json:"processed_count"`
	Skipped        []SkippedEmployeeResponse `json:"skipped"`
}

type PayrollRunResponse struct {
	ID             string  `json:"id"`
	Month          int     `json:"month"`
	Year           int     `json:"year"`
	Status         string  `json:"status"`
	CreatedBy      string  `json:"created_by"`
	ProcessedCount int     `json:"processed_count"`
	SkippedCount   int     `json:"skipped_count"`
	FailureReason  *string `json:"failure_reason,omitempty"`
	CreatedAt      string  `json:"created_at"`
	CompletedAt    *string `json:"completed_at,omitempty"`
}

// ========== PAYROLL SLIP DTOs ==========

type RecalculateSlipRequest struct {
	EmployeeID string `json:"employee_id"`
	Month      int    `json:"month"`
	Year       int    `json:"year"`
}

func (r *RecalculateSlipRequest) Validate() error {
	errs := validatePeriod(r.Month, r.Year)
	if validator.IsEmpty(r.EmployeeID) {
		errs = append(errs, validator.ValidationError{Field: "employee_id", Message: "is required"})
	}
	return errs.OrNil()
}

type PayrollSlipResponse struct {
	ID                     string          `json:"id"`
	RunID                  *string         `json:"run_id,omitempty"`
	EmployeeID             string          `json:"employee_id"`
	Month                  int             `json:"month"`
	Year                   int             `json:"year"`
	BasicEarned            decimal.Decimal `json:"basic_earned"`
	HRAEarned              decimal.Decimal `json:"hra_earned"`
	ConveyanceEarned       decimal.Decimal `json:"conveyance_earned"`
	SpecialAllowanceEarned decimal.Decimal `json:"special_allowance_earned"`
	GrossEarned            decimal.Decimal `json:"gross_earned"`
	PF                     decimal.Decimal `json:"pf"`
	ESI                    decimal.Decimal `json:"esi"`
	ProfessionalTax        decimal.Decimal `json:"professional_tax"`
	OtherDeductions        decimal.Decimal `json:"other_deductions"`
	TotalDeductions        decimal.Decimal `json:"total_deductions"`
	NetEarned              decimal.Decimal `json:"net_earned"`
	NegativeNet            bool            `json:"negative_net"`
	DaysWorked             int             `json:"days_worked"`
	DaysInMonth            int             `json:"days_in_month"`
	Status                 string          `json:"status"`
	Warnings               []string        `json:"warnings,omitempty"`
}

func validatePeriod(month, year int) validator.ValidationErrors {
	var errs validator.ValidationErrors

	if !validator.IsValidMonth(month) {
		errs = append(errs, validator.ValidationError{Field: "month", Message: "must be between 1 and 12"})
	}
	if !validator.IsValidYear(year) {
		errs = append(errs, validator.ValidationError{Field: "year", Message: "must be a 4-digit year"})
	}

	return errs
}
