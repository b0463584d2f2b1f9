package payroll

import (
	"errors"
	"fmt"
)

var (
	ErrSalaryStructureNotFound = errors.New("salary structure not found")
	ErrMissingStructure        = errors.New("employee has no salary structure")
	ErrInvalidPeriod           = errors.New("invalid payroll period")
	ErrPayrollRunNotFound      = errors.New("payroll run not found")
	ErrPayrollSlipNotFound     = errors.New("payroll slip not found")
	ErrEmptyImportFile         = errors.New("import file has no data rows")
	ErrImportColumnMissing     = errors.New("import file is missing a required column")
)

// MissingStructureError marks an employee the batch skips.
type MissingStructureError struct {
	EmployeeID string
}

func (e *MissingStructureError) Error() string {
	return fmt.Sprintf("employee %s has no salary structure", e.EmployeeID)
}

func (e *MissingStructureError) Unwrap() error {
	return ErrMissingStructure
}

// InvalidPeriodError is fatal to a single slip, not to the run.
type InvalidPeriodError struct {
	Month       int
	Year        int
	WorkingDays int
}

func (e *InvalidPeriodError) Error() string {
	return fmt.Sprintf("invalid payroll period %02d/%d: working days must be positive, got %d",
		e.Month, e.Year, e.WorkingDays)
}

func (e *InvalidPeriodError) Unwrap() error {
	return ErrInvalidPeriod
}

// IsSkippable returns true if the batch should record the error and continue.
func IsSkippable(err error) bool {
	return errors.Is(err, ErrMissingStructure) ||
		errors.Is(err, ErrInvalidPeriod)
}

// IsNotFound returns true if the error indicates a missing resource.
func IsNotFound(err error) bool {
	return errors.Is(err, ErrSalaryStructureNotFound) ||
		errors.Is(err, ErrPayrollRunNotFound) ||
		errors.Is(err, ErrPayrollSlipNotFound)
}
